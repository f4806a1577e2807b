package runner

import (
	"context"

	"github.com/denizgursoy/cacik-events/pkg/events"
)

// DryRunner executes nothing and reports every step and hook as skipped.
type DryRunner struct{}

func (DryRunner) RunStep(context.Context, *events.Pickle, *events.PickleStep) events.Result {
	return events.Result{Status: events.StatusSkipped}
}

func (DryRunner) RunHook(context.Context, *Hook, *events.Pickle) events.Result {
	return events.Result{Status: events.StatusSkipped}
}
