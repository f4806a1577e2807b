// Package runner broadcasts the events of a test run over feature files.
//
// It finds and parses the feature files, compiles and filters their
// pickles and emits the raw events in the order cucumber does: documents,
// then pickles, then one prepared/started/steps/finished group per test
// case and finally the end of the run. What a step does is up to a
// StepRunner.
package runner

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/denizgursoy/cacik-events/pkg/correlator"
	"github.com/denizgursoy/cacik-events/pkg/events"
	"github.com/denizgursoy/cacik-events/pkg/gherkin_parser"
)

type (
	feature struct {
		uri      string
		document *events.Document
		pickles  []*events.Pickle
	}

	CucumberRunner struct {
		featureDirectories []string
		tags               string
		hooks              []*Hook
		stepRunner         StepRunner
		logger             correlator.Logger
		perDocument        bool
		newId              func() string
	}
)

func New(opts ...Option) *CucumberRunner {
	c := &CucumberRunner{
		stepRunner:  DryRunner{},
		logger:      correlator.NoopLogger(),
		perDocument: true,
		newId:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Run loads the feature files and hands every event to handler. Files
// without a selected scenario are left out. It stops at the first handler
// error, and between test cases once ctx is done.
func (c *CucumberRunner) Run(ctx context.Context, handler Handler) error {
	hooks, err := newHookSet(c.hooks)
	if err != nil {
		return err
	}
	features, err := c.load()
	if err != nil {
		return err
	}

	if !c.perDocument {
		return c.run(ctx, handler, hooks, features...)
	}
	for _, f := range features {
		if err := c.run(ctx, handler, hooks, f); err != nil {
			return err
		}
	}
	return nil
}

func (c *CucumberRunner) load() ([]*feature, error) {
	if len(c.featureDirectories) == 0 {
		c.featureDirectories = append(c.featureDirectories, ".")
	}

	featureFiles, err := gherkin_parser.SearchFeatureFilesIn(c.featureDirectories)
	if err != nil {
		return nil, err
	}

	features := make([]*feature, 0, len(featureFiles))
	for _, file := range featureFiles {
		document, err := gherkin_parser.ReadGherkinFile(file, c.newId)
		if err != nil {
			return nil, err
		}
		pickles, err := gherkin_parser.FilterPickles(gherkin_parser.CompilePickles(document, c.newId), c.tags)
		if err != nil {
			return nil, err
		}
		if len(pickles) == 0 {
			c.logger.Debug("no scenario selected", "uri", document.Uri, "tags", c.tags)
			continue
		}

		index := gherkin_parser.NewASTIndex(document)
		f := &feature{
			uri:      document.Uri,
			document: gherkin_parser.ToDocument(document),
			pickles:  make([]*events.Pickle, len(pickles)),
		}
		for i, pickle := range pickles {
			f.pickles[i] = index.Pickle(pickle)
		}
		features = append(features, f)
	}
	return features, nil
}

// run emits one test run over features. Every feature gets its own
// test-run-finished so that each of them is closed.
func (c *CucumberRunner) run(ctx context.Context, handler Handler, hooks *hookSet, features ...*feature) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()

	for _, f := range features {
		if err := handler.Handle(events.GherkinDocumentParsed{URI: f.uri, Document: f.document}); err != nil {
			return err
		}
	}
	for _, f := range features {
		for _, pickle := range f.pickles {
			if err := handler.Handle(events.PickleAccepted{URI: f.uri, Pickle: pickle}); err != nil {
				return err
			}
		}
	}

	success := true
	for _, f := range features {
		for _, pickle := range f.pickles {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := c.runTestCase(ctx, handler, hooks, pickle)
			if err != nil {
				return err
			}
			success = success && succeeded(result.Status)
		}
	}

	result := events.RunResult{Duration: time.Since(start), Success: success}
	for _, f := range features {
		c.logger.Debug("test run finished", "uri", f.uri, "success", success)
		if err := handler.Handle(events.TestRunFinished{Result: result}); err != nil {
			return err
		}
	}
	return nil
}

// testStep is either a hook or a pickle step of a test case.
type testStep struct {
	hook *Hook
	step *events.PickleStep
}

func (c *CucumberRunner) runTestCase(ctx context.Context, handler Handler, hooks *hookSet, pickle *events.Pickle) (events.Result, error) {
	location := pickle.SourceLocation()
	before, after := hooks.For(pickle)

	steps := make([]testStep, 0, len(before)+len(pickle.Steps)+len(after))
	prepared := make([]*events.PreparedStep, 0, cap(steps))
	for _, hook := range before {
		steps = append(steps, testStep{hook: hook})
		prepared = append(prepared, hookStep(hook))
	}
	for _, step := range pickle.Steps {
		steps = append(steps, testStep{step: step})
		prepared = append(prepared, pickleStep(pickle, step))
	}
	for _, hook := range after {
		steps = append(steps, testStep{hook: hook})
		prepared = append(prepared, hookStep(hook))
	}

	if err := handler.Handle(events.TestCasePrepared{SourceLocation: location, Steps: prepared}); err != nil {
		return events.Result{}, err
	}
	if err := handler.Handle(events.TestCaseStarted{SourceLocation: location}); err != nil {
		return events.Result{}, err
	}

	var (
		statuses = make([]events.Status, 0, len(steps))
		total    time.Duration
		failure  error
		skipping bool
	)
	for i, step := range steps {
		if err := handler.Handle(events.TestStepStarted{Index: i, SourceLocation: location}); err != nil {
			return events.Result{}, err
		}

		result := c.runStep(ctx, pickle, step, skipping)
		if step.hook == nil || step.hook.Kind == BeforeScenario {
			skipping = skipping || !result.Passed()
		}
		statuses = append(statuses, result.Status)
		total += result.Duration
		if failure == nil && result.Exception != nil {
			failure = result.Exception
		}

		if err := handler.Handle(events.TestStepFinished{Index: i, Result: result, SourceLocation: location}); err != nil {
			return events.Result{}, err
		}
	}

	result := events.Result{Duration: total, Status: events.WorstStatus(statuses...), Exception: failure}
	c.logger.Debug("test case finished", "pickle", pickle.Name, "status", result.Status)
	if err := handler.Handle(events.TestCaseFinished{SourceLocation: location, Result: result}); err != nil {
		return events.Result{}, err
	}
	return result, nil
}

// runStep runs one step or hook. After hooks run even when an earlier
// step did not pass, steps are skipped then.
func (c *CucumberRunner) runStep(ctx context.Context, pickle *events.Pickle, step testStep, skipping bool) events.Result {
	if step.hook == nil && skipping {
		return events.Result{Status: events.StatusSkipped}
	}

	start := time.Now()
	var result events.Result
	if step.hook != nil {
		result = c.stepRunner.RunHook(ctx, step.hook, pickle)
	} else {
		result = c.stepRunner.RunStep(ctx, pickle, step.step)
	}
	if result.Duration == 0 {
		result.Duration = time.Since(start)
	}
	if result.Status == "" {
		result.Status = events.StatusPassed
	}
	return result
}

func hookStep(hook *Hook) *events.PreparedStep {
	location := hook.Location
	return &events.PreparedStep{ActionLocation: &location}
}

func pickleStep(pickle *events.Pickle, step *events.PickleStep) *events.PreparedStep {
	location := events.SourceLocation{URI: pickle.URI}
	if len(step.Locations) > 0 {
		location.Line = step.Locations[0].Line
	}
	return &events.PreparedStep{SourceLocation: &location}
}

func succeeded(status events.Status) bool {
	return status == events.StatusPassed || status == events.StatusSkipped
}
