//go:generate mockgen -source=interfaces.go -destination=interfaces_mock.go -package=envelope
package envelope

import "github.com/denizgursoy/cacik-events/pkg/events"

// Handler consumes the translated broadcaster events. A *correlator.Correlator
// is a Handler.
type Handler interface {
	Handle(events.Raw) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(events.Raw) error

func (f HandlerFunc) Handle(e events.Raw) error {
	return f(e)
}
