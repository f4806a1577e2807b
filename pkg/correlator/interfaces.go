//go:generate mockgen -source=interfaces.go -destination=interfaces_mock.go -package=correlator
package correlator

import "github.com/denizgursoy/cacik-events/pkg/events"

type (
	// Sink receives the normalized lifecycle events.
	Sink interface {
		Emit(events.Event)
	}

	// Logger is compatible with *slog.Logger.
	Logger interface {
		Debug(msg string, args ...any)
		Info(msg string, args ...any)
		Warn(msg string, args ...any)
		Error(msg string, args ...any)
	}
)

// SinkFunc adapts a function to Sink.
type SinkFunc func(events.Event)

func (f SinkFunc) Emit(e events.Event) {
	f(e)
}

// Fanout emits every event to each sink in order.
type Fanout []Sink

func (f Fanout) Emit(e events.Event) {
	for _, sink := range f {
		if sink != nil {
			sink.Emit(e)
		}
	}
}

type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}

// NoopLogger returns a Logger that discards everything.
func NoopLogger() Logger {
	return noopLogger{}
}
