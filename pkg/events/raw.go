package events

// Kind names an event on either side of the correlator.
type Kind string

// Raw event kinds, as emitted by the test-run broadcaster.
const (
	KindGherkinDocument  Kind = "gherkin-document"
	KindPickleAccepted   Kind = "pickle-accepted"
	KindTestCasePrepared Kind = "test-case-prepared"
	KindTestCaseStarted  Kind = "test-case-started"
	KindTestStepStarted  Kind = "test-step-started"
	KindTestStepFinished Kind = "test-step-finished"
	KindTestCaseFinished Kind = "test-case-finished"
	KindTestRunFinished  Kind = "test-run-finished"
)

// Raw is one of the eight broadcaster events.
type Raw interface {
	Kind() Kind
	raw()
}

type (
	GherkinDocumentParsed struct {
		URI      string
		Document *Document
	}

	PickleAccepted struct {
		URI    string
		Pickle *Pickle
	}

	// PreparedStep is a step of a prepared test case. Steps that come from
	// the document carry a SourceLocation; hooks only carry the location of
	// their definition in ActionLocation.
	PreparedStep struct {
		SourceLocation *SourceLocation
		ActionLocation *SourceLocation
	}

	TestCasePrepared struct {
		SourceLocation SourceLocation
		Steps          []*PreparedStep
	}

	TestCaseStarted struct {
		SourceLocation SourceLocation
	}

	TestStepStarted struct {
		Index          int
		SourceLocation SourceLocation
	}

	TestStepFinished struct {
		Index          int
		Result         Result
		SourceLocation SourceLocation
	}

	TestCaseFinished struct {
		SourceLocation SourceLocation
		Result         Result
	}

	TestRunFinished struct {
		Result RunResult
	}
)

func (GherkinDocumentParsed) Kind() Kind { return KindGherkinDocument }
func (PickleAccepted) Kind() Kind        { return KindPickleAccepted }
func (TestCasePrepared) Kind() Kind      { return KindTestCasePrepared }
func (TestCaseStarted) Kind() Kind       { return KindTestCaseStarted }
func (TestStepStarted) Kind() Kind       { return KindTestStepStarted }
func (TestStepFinished) Kind() Kind      { return KindTestStepFinished }
func (TestCaseFinished) Kind() Kind      { return KindTestCaseFinished }
func (TestRunFinished) Kind() Kind       { return KindTestRunFinished }

func (GherkinDocumentParsed) raw() {}
func (PickleAccepted) raw()        {}
func (TestCasePrepared) raw()      {}
func (TestCaseStarted) raw()       {}
func (TestStepStarted) raw()       {}
func (TestStepFinished) raw()      {}
func (TestCaseFinished) raw()      {}
func (TestRunFinished) raw()       {}
