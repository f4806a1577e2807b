// Package correlator joins the document, pickle and execution streams of a
// Gherkin test run into one normalized lifecycle stream.
//
// The streams share no identifiers. Everything is joined on the source
// uri and line, which is why scenario outlines are matched by example row
// and why hooks, which have no line in the document, are synthesized into
// the scenario when its test case is prepared.
//
// A Correlator is not safe for concurrent use. Events of one run are
// expected to be delivered serially.
package correlator

import (
	"fmt"
	"slices"

	"github.com/denizgursoy/cacik-events/pkg/events"
)

type (
	documentRecord struct {
		uri      string
		document *events.Document
	}

	pickleRecord struct {
		uri    string
		pickle *events.Pickle
	}

	// Correlator holds the state of a single run. It is discarded, or
	// Reset, once every document has been closed.
	Correlator struct {
		sink   Sink
		logger Logger
		order  DocumentOrder

		// documents indexes the first open document of every uri, open
		// keeps them in the order they were parsed.
		documents map[string]*documentRecord
		open      []*documentRecord

		pickles  []*pickleRecord
		current  *pickleRecord
		prepared []*events.TestCasePrepared
	}
)

// New creates a Correlator publishing to sink.
func New(sink Sink, opts ...Option) *Correlator {
	c := &Correlator{
		sink:   sink,
		logger: NoopLogger(),
		order:  LastIn,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Reset()

	return c
}

// Reset discards all run state. Configuration is kept.
func (c *Correlator) Reset() {
	c.documents = make(map[string]*documentRecord)
	c.open = make([]*documentRecord, 0)
	c.pickles = make([]*pickleRecord, 0)
	c.current = nil
	c.prepared = make([]*events.TestCasePrepared, 0)
}

// PreparedEvents returns every test-case-prepared event handled so far.
func (c *Correlator) PreparedEvents() []*events.TestCasePrepared {
	return c.prepared
}

// OpenDocuments returns the uris of documents not closed yet, in the order
// they were parsed.
func (c *Correlator) OpenDocuments() []string {
	uris := make([]string, len(c.open))
	for i, rec := range c.open {
		uris[i] = rec.uri
	}
	return uris
}

// PendingPickles returns how many accepted pickles wait for a test case.
func (c *Correlator) PendingPickles() int {
	return len(c.pickles)
}

// CurrentPickle returns the pickle of the running test case, or nil.
func (c *Correlator) CurrentPickle() *events.Pickle {
	if c.current == nil {
		return nil
	}
	return c.current.pickle
}

// Handle applies one broadcaster event. Events are passed by value.
func (c *Correlator) Handle(ev events.Raw) error {
	var err error
	switch e := ev.(type) {
	case events.GherkinDocumentParsed:
		err = c.onGherkinDocument(e)
	case events.PickleAccepted:
		err = c.onPickleAccepted(e)
	case events.TestCasePrepared:
		err = c.onTestCasePrepared(e)
	case events.TestCaseStarted:
		err = c.onTestCaseStarted(e)
	case events.TestStepStarted:
		err = c.onTestStepStarted(e)
	case events.TestStepFinished:
		err = c.onTestStepFinished(e)
	case events.TestCaseFinished:
		err = c.onTestCaseFinished(e)
	case events.TestRunFinished:
		err = c.onTestRunFinished(e)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
	}

	if err != nil {
		return fmt.Errorf("%s: %w", ev.Kind(), err)
	}
	return nil
}

func (c *Correlator) onGherkinDocument(e events.GherkinDocumentParsed) error {
	rec := &documentRecord{uri: e.URI, document: e.Document}
	c.open = append(c.open, rec)
	if _, ok := c.documents[e.URI]; !ok {
		c.documents[e.URI] = rec
	}
	c.logger.Debug("gherkin document parsed", "uri", e.URI)

	c.emit(events.FeatureStarted{URI: e.URI, Feature: featureOf(e.Document)})
	return nil
}

func (c *Correlator) onPickleAccepted(e events.PickleAccepted) error {
	c.pickles = append(c.pickles, &pickleRecord{uri: e.URI, pickle: e.Pickle})
	c.logger.Debug("pickle accepted", "uri", e.URI, "pending", len(c.pickles))
	return nil
}

func (c *Correlator) onTestCaseStarted(e events.TestCaseStarted) error {
	if len(c.pickles) == 0 {
		return fmt.Errorf("%w: %s:%d", ErrNoPendingPickle, e.SourceLocation.URI, e.SourceLocation.Line)
	}
	rec := c.pickles[0]
	c.pickles = c.pickles[1:]

	feature, err := c.feature(rec.uri)
	if err != nil {
		return err
	}

	if rec.pickle != nil && e.SourceLocation.URI != "" && rec.pickle.SourceLocation() != e.SourceLocation {
		c.logger.Warn("test case started out of pickle order",
			"pickle", rec.pickle.Name, "pickleLine", rec.pickle.SourceLocation().Line,
			"uri", e.SourceLocation.URI, "line", e.SourceLocation.Line)
	}

	c.current = rec
	c.emit(events.ScenarioStarted{URI: rec.uri, Feature: feature, Scenario: rec.pickle})
	return nil
}

func (c *Correlator) onTestCasePrepared(e events.TestCasePrepared) error {
	c.prepared = append(c.prepared, &e)

	feature, err := c.feature(e.SourceLocation.URI)
	if err != nil {
		return err
	}
	m, err := firstMatch(feature, e.SourceLocation)
	if err != nil {
		return err
	}

	scenario := m.scenario
	if scenario.HasHooks() {
		c.logger.Debug("hooks already synthesized", "scenario", scenario.Name, "line", e.SourceLocation.Line)
		return nil
	}

	// Prepared indices count background steps, the scenario's own step
	// list does not. Hooks after the background are shifted back by it.
	background := m.backgroundSteps()
	steps := slices.DeleteFunc(slices.Clone(e.Steps), func(step *events.PreparedStep) bool { return step == nil })
	if len(steps) != len(e.Steps) {
		c.logger.Warn("nil prepared steps dropped", "scenario", scenario.Name, "count", len(e.Steps)-len(steps))
	}
	lead := 0
	for lead < len(steps) && steps[lead].SourceLocation == nil {
		lead++
	}

	for idx, step := range steps {
		if step.SourceLocation != nil {
			continue
		}
		loc := events.SourceLocation{URI: e.SourceLocation.URI}
		if step.ActionLocation != nil {
			loc = events.SourceLocation{URI: step.ActionLocation.URI, Line: step.ActionLocation.Line, Column: 0}
		}
		step.SourceLocation = &loc

		hook := events.NewHookStep(loc)
		pos := idx
		if idx >= lead {
			hook.AfterSteps = true
			pos = max(idx-background, lead)
		}
		pos = min(pos, len(scenario.Steps))
		scenario.Steps = slices.Insert(scenario.Steps, pos, hook)
	}

	return nil
}

func (c *Correlator) onTestStepStarted(e events.TestStepStarted) error {
	feature, scenario, step, err := c.resolve(e.Index, e.SourceLocation)
	if err != nil {
		return err
	}

	c.emit(events.StepStarted{
		URI:            e.SourceLocation.URI,
		Feature:        feature,
		Scenario:       scenario,
		Step:           step,
		SourceLocation: e.SourceLocation,
	})
	return nil
}

func (c *Correlator) onTestStepFinished(e events.TestStepFinished) error {
	feature, scenario, step, err := c.resolve(e.Index, e.SourceLocation)
	if err != nil {
		return err
	}

	c.emit(events.StepFinished{
		URI:            e.SourceLocation.URI,
		Feature:        feature,
		Scenario:       scenario,
		Step:           step,
		Result:         e.Result,
		SourceLocation: e.SourceLocation,
	})
	return nil
}

func (c *Correlator) onTestCaseFinished(e events.TestCaseFinished) error {
	// The test case is over whatever happens below.
	defer func() { c.current = nil }()

	feature, err := c.feature(e.SourceLocation.URI)
	if err != nil {
		return err
	}
	scenario, err := FindScenario(feature, e.SourceLocation)
	if err != nil {
		return err
	}

	c.emit(events.ScenarioFinished{
		URI:            e.SourceLocation.URI,
		Feature:        feature,
		Scenario:       scenario,
		SourceLocation: e.SourceLocation,
		Result:         e.Result,
	})
	return nil
}

func (c *Correlator) onTestRunFinished(e events.TestRunFinished) error {
	rec, err := c.closeDocument()
	if err != nil {
		return err
	}
	c.logger.Debug("test run finished", "uri", rec.uri, "success", e.Result.Success)

	c.emit(events.FeatureFinished{URI: rec.uri, Feature: featureOf(rec.document)})
	return nil
}

// resolve finds the feature, scenario and step a step event refers to.
func (c *Correlator) resolve(index int, loc events.SourceLocation) (*events.Feature, *events.FeatureChild, *events.Step, error) {
	feature, err := c.feature(loc.URI)
	if err != nil {
		return nil, nil, nil, err
	}
	scenario, err := FindScenario(feature, loc)
	if err != nil {
		return nil, nil, nil, err
	}
	step, overlaid, err := resolveStep(feature, c.CurrentPickle(), index, loc)
	if err != nil {
		return nil, nil, nil, err
	}
	if !overlaid {
		c.logger.Warn("no pickle step for document step", "uri", loc.URI, "line", step.Location.Line, "text", step.Text)
	}

	return feature, scenario, step, nil
}

func (c *Correlator) feature(uri string) (*events.Feature, error) {
	rec, ok := c.documents[uri]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDocumentNotFound, uri)
	}
	return featureOf(rec.document), nil
}

// closeDocument removes the document the next test-run-finished refers to.
func (c *Correlator) closeDocument() (*documentRecord, error) {
	if len(c.open) == 0 {
		return nil, ErrNoOpenDocument
	}

	var rec *documentRecord
	if c.order == FirstIn {
		rec = c.open[0]
		c.open = c.open[1:]
	} else {
		rec = c.open[len(c.open)-1]
		c.open = c.open[:len(c.open)-1]
	}

	if c.documents[rec.uri] == rec {
		delete(c.documents, rec.uri)
		for _, other := range c.open {
			if other.uri == rec.uri {
				c.documents[rec.uri] = other
				break
			}
		}
	}
	return rec, nil
}

func (c *Correlator) emit(e events.Event) {
	if c.sink != nil {
		c.sink.Emit(e)
	}
}

func featureOf(doc *events.Document) *events.Feature {
	if doc == nil {
		return nil
	}
	return doc.Feature
}
