//go:generate mockgen -source=interfaces.go -destination=interfaces_mock.go -package=runner
package runner

import (
	"context"

	"github.com/denizgursoy/cacik-events/pkg/events"
)

type (
	// Handler receives the broadcaster events in cucumber order.
	Handler interface {
		Handle(events.Raw) error
	}

	// StepRunner decides the outcome of every step and hook of a test case.
	StepRunner interface {
		RunStep(ctx context.Context, pickle *events.Pickle, step *events.PickleStep) events.Result
		RunHook(ctx context.Context, hook *Hook, pickle *events.Pickle) events.Result
	}
)

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(events.Raw) error

func (f HandlerFunc) Handle(e events.Raw) error {
	return f(e)
}
