// Package envelope turns a cucumber-messages stream into the broadcaster
// events the correlator consumes.
//
// Message streams refer to everything by id, the correlator joins on uri
// and line. The translator keeps the id lookups needed to put the line
// back on every execution event. Pickles are handed over right before
// their test case starts, so the correlator's pickle queue stays in step
// with retried test cases.
package envelope

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	messages "github.com/cucumber/messages/go/v21"

	"github.com/denizgursoy/cacik-events/pkg/correlator"
	"github.com/denizgursoy/cacik-events/pkg/events"
	"github.com/denizgursoy/cacik-events/pkg/gherkin_parser"
)

type (
	startedCase struct {
		testCase *messages.TestCase
		pickle   *events.Pickle
		location events.SourceLocation
		statuses []events.Status
		duration time.Duration
		failure  error
	}

	// Translator converts envelopes one at a time. It is not safe for
	// concurrent use.
	Translator struct {
		logger correlator.Logger

		index     *gherkin_parser.ASTIndex
		pickles   map[string]*events.Pickle
		hooks     map[string]*messages.Hook
		testCases map[string]*messages.TestCase
		started   map[string]*startedCase

		openDocuments int
		runStarted    time.Time
	}

	Option func(*Translator)
)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger correlator.Logger) Option {
	return func(t *Translator) {
		if logger != nil {
			t.logger = logger
		}
	}
}

func New(opts ...Option) *Translator {
	t := &Translator{
		logger:    correlator.NoopLogger(),
		index:     gherkin_parser.NewASTIndex(),
		pickles:   make(map[string]*events.Pickle),
		hooks:     make(map[string]*messages.Hook),
		testCases: make(map[string]*messages.TestCase),
		started:   make(map[string]*startedCase),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Stream decodes NDJSON envelopes from reader and hands every translated
// event to handler. It stops at the end of the input, at the first error,
// or when ctx is done.
func (t *Translator) Stream(ctx context.Context, reader io.Reader, handler Handler) error {
	decoder := json.NewDecoder(reader)
	for line := 1; ; line++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		envelope := &messages.Envelope{}
		if err := decoder.Decode(envelope); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("could not decode envelope %d, error=%w", line, err)
		}

		raws, err := t.Translate(envelope)
		if err != nil {
			return fmt.Errorf("envelope %d: %w", line, err)
		}
		for _, raw := range raws {
			if err := handler.Handle(raw); err != nil {
				return err
			}
		}
	}
}

// Translate converts one envelope. Envelopes that only feed the lookups,
// and kinds the correlator has no use for, yield no events.
func (t *Translator) Translate(envelope *messages.Envelope) ([]events.Raw, error) {
	switch {
	case envelope.GherkinDocument != nil:
		return t.onGherkinDocument(envelope.GherkinDocument), nil
	case envelope.Pickle != nil:
		pickle := t.index.Pickle(envelope.Pickle)
		t.pickles[pickle.ID] = pickle
	case envelope.Hook != nil:
		t.hooks[envelope.Hook.Id] = envelope.Hook
	case envelope.TestCase != nil:
		t.testCases[envelope.TestCase.Id] = envelope.TestCase
	case envelope.TestRunStarted != nil:
		t.runStarted = timestamp(envelope.TestRunStarted.Timestamp)
	case envelope.TestCaseStarted != nil:
		return t.onTestCaseStarted(envelope.TestCaseStarted)
	case envelope.TestStepStarted != nil:
		return t.onTestStepStarted(envelope.TestStepStarted)
	case envelope.TestStepFinished != nil:
		return t.onTestStepFinished(envelope.TestStepFinished)
	case envelope.TestCaseFinished != nil:
		return t.onTestCaseFinished(envelope.TestCaseFinished)
	case envelope.TestRunFinished != nil:
		return t.onTestRunFinished(envelope.TestRunFinished), nil
	}
	return nil, nil
}

func (t *Translator) onGherkinDocument(doc *messages.GherkinDocument) []events.Raw {
	t.index.Add(doc)
	t.openDocuments++
	t.logger.Debug("gherkin document", "uri", doc.Uri)

	return []events.Raw{events.GherkinDocumentParsed{URI: doc.Uri, Document: gherkin_parser.ToDocument(doc)}}
}

func (t *Translator) onTestCaseStarted(e *messages.TestCaseStarted) ([]events.Raw, error) {
	testCase, ok := t.testCases[e.TestCaseId]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTestCase, e.TestCaseId)
	}
	pickle, ok := t.pickles[testCase.PickleId]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPickle, testCase.PickleId)
	}

	location := pickle.SourceLocation()
	t.started[e.Id] = &startedCase{testCase: testCase, pickle: pickle, location: location}
	if e.Attempt > 0 {
		t.logger.Debug("test case retried", "pickle", pickle.Name, "attempt", e.Attempt)
	}

	return []events.Raw{
		events.PickleAccepted{URI: pickle.URI, Pickle: pickle},
		events.TestCasePrepared{SourceLocation: location, Steps: t.preparedSteps(testCase, pickle)},
		events.TestCaseStarted{SourceLocation: location},
	}, nil
}

func (t *Translator) preparedSteps(testCase *messages.TestCase, pickle *events.Pickle) []*events.PreparedStep {
	steps := make([]*events.PreparedStep, len(testCase.TestSteps))
	for i, testStep := range testCase.TestSteps {
		steps[i] = &events.PreparedStep{}
		if testStep.HookId != "" {
			steps[i].ActionLocation = t.hookLocation(testStep.HookId)
			continue
		}

		idx := slices.IndexFunc(pickle.Steps, func(step *events.PickleStep) bool {
			return step.ID == testStep.PickleStepId
		})
		if idx < 0 || len(pickle.Steps[idx].Locations) == 0 {
			// Reported under the test case so that it is never taken for a hook.
			t.logger.Warn("test step without a pickle step", "testStep", testStep.Id, "pickleStep", testStep.PickleStepId)
			loc := pickle.SourceLocation()
			steps[i].SourceLocation = &loc
			continue
		}
		steps[i].SourceLocation = &events.SourceLocation{URI: pickle.URI, Line: pickle.Steps[idx].Locations[0].Line}
	}
	return steps
}

func (t *Translator) hookLocation(id string) *events.SourceLocation {
	hook, ok := t.hooks[id]
	if !ok || hook.SourceReference == nil {
		t.logger.Warn("hook without a source reference", "hook", id)
		return nil
	}
	loc := &events.SourceLocation{URI: hook.SourceReference.Uri}
	if hook.SourceReference.Location != nil {
		loc.Line = hook.SourceReference.Location.Line
	}
	return loc
}

func (t *Translator) onTestStepStarted(e *messages.TestStepStarted) ([]events.Raw, error) {
	started, index, err := t.step(e.TestCaseStartedId, e.TestStepId)
	if err != nil {
		return nil, err
	}
	return []events.Raw{events.TestStepStarted{Index: index, SourceLocation: started.location}}, nil
}

func (t *Translator) onTestStepFinished(e *messages.TestStepFinished) ([]events.Raw, error) {
	started, index, err := t.step(e.TestCaseStartedId, e.TestStepId)
	if err != nil {
		return nil, err
	}

	result := stepResult(e.TestStepResult)
	started.statuses = append(started.statuses, result.Status)
	started.duration += result.Duration
	if result.Exception != nil && started.failure == nil {
		started.failure = result.Exception
	}

	return []events.Raw{events.TestStepFinished{Index: index, Result: result, SourceLocation: started.location}}, nil
}

func (t *Translator) onTestCaseFinished(e *messages.TestCaseFinished) ([]events.Raw, error) {
	started, ok := t.started[e.TestCaseStartedId]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTestCaseStarted, e.TestCaseStartedId)
	}
	delete(t.started, e.TestCaseStartedId)

	result := events.Result{
		Duration:  started.duration,
		Status:    events.WorstStatus(started.statuses...),
		Exception: started.failure,
	}
	return []events.Raw{events.TestCaseFinished{SourceLocation: started.location, Result: result}}, nil
}

// onTestRunFinished closes every document the stream opened. A message
// stream has one run for all documents, the correlator closes one document
// per test-run-finished.
func (t *Translator) onTestRunFinished(e *messages.TestRunFinished) []events.Raw {
	result := events.RunResult{Success: e.Success}
	if finished := timestamp(e.Timestamp); !t.runStarted.IsZero() && !finished.IsZero() {
		result.Duration = finished.Sub(t.runStarted)
	}

	raws := make([]events.Raw, t.openDocuments)
	for i := range raws {
		raws[i] = events.TestRunFinished{Result: result}
	}
	t.openDocuments = 0
	return raws
}

func (t *Translator) step(startedId, stepId string) (*startedCase, int, error) {
	started, ok := t.started[startedId]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrUnknownTestCaseStarted, startedId)
	}
	index := slices.IndexFunc(started.testCase.TestSteps, func(step *messages.TestStep) bool {
		return step.Id == stepId
	})
	if index < 0 {
		return nil, 0, fmt.Errorf("%w: %s in test case %s", ErrUnknownTestStep, stepId, started.testCase.Id)
	}
	return started, index, nil
}

func stepResult(result *messages.TestStepResult) events.Result {
	if result == nil {
		return events.Result{Status: events.StatusUndefined}
	}

	converted := events.Result{Status: events.ParseStatus(string(result.Status))}
	if result.Duration != nil {
		converted.Duration = messages.DurationToGoDuration(*result.Duration)
	}
	switch {
	case result.Exception != nil:
		converted.Exception = &events.Exception{Type: result.Exception.Type, Message: result.Exception.Message}
	case result.Message != "":
		converted.Exception = &events.Exception{Message: result.Message}
	}
	return converted
}

func timestamp(ts *messages.Timestamp) time.Time {
	if ts == nil {
		return time.Time{}
	}
	return messages.TimestampToGoTime(*ts)
}
