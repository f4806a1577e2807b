package events

// Recorder keeps every event it is given, in order.
type Recorder struct {
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{events: make([]Event, 0)}
}

// Emit appends the event.
func (r *Recorder) Emit(e Event) {
	r.events = append(r.events, e)
}

// Events returns the recorded events.
func (r *Recorder) Events() []Event {
	return r.events
}

// Kinds returns the kind of every recorded event, in order.
func (r *Recorder) Kinds() []Kind {
	kinds := make([]Kind, len(r.events))
	for i, e := range r.events {
		kinds[i] = e.Kind()
	}
	return kinds
}

// Reset drops every recorded event.
func (r *Recorder) Reset() {
	r.events = r.events[:0]
}
