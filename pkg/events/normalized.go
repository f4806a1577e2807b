package events

// Normalized lifecycle event kinds published by the correlator.
const (
	KindFeatureStart  Kind = "feature:start"
	KindScenarioStart Kind = "scenario:start"
	KindStepStart     Kind = "step:start"
	KindStepEnd       Kind = "step:end"
	KindScenarioEnd   Kind = "scenario:end"
	KindFeatureEnd    Kind = "feature:end"
)

// Event is one of the six normalized lifecycle events.
type Event interface {
	Kind() Kind
	EventURI() string
	normalized()
}

type (
	FeatureStarted struct {
		URI     string
		Feature *Feature
	}

	// ScenarioStarted carries the pickle, not the AST node, because the
	// pickle has the parameter-substituted name of an outline row.
	ScenarioStarted struct {
		URI      string
		Feature  *Feature
		Scenario *Pickle
	}

	StepStarted struct {
		URI            string
		Feature        *Feature
		Scenario       *FeatureChild
		Step           *Step
		SourceLocation SourceLocation
	}

	StepFinished struct {
		URI            string
		Feature        *Feature
		Scenario       *FeatureChild
		Step           *Step
		Result         Result
		SourceLocation SourceLocation
	}

	ScenarioFinished struct {
		URI            string
		Feature        *Feature
		Scenario       *FeatureChild
		SourceLocation SourceLocation
		Result         Result
	}

	FeatureFinished struct {
		URI     string
		Feature *Feature
	}
)

func (FeatureStarted) Kind() Kind   { return KindFeatureStart }
func (ScenarioStarted) Kind() Kind  { return KindScenarioStart }
func (StepStarted) Kind() Kind      { return KindStepStart }
func (StepFinished) Kind() Kind     { return KindStepEnd }
func (ScenarioFinished) Kind() Kind { return KindScenarioEnd }
func (FeatureFinished) Kind() Kind  { return KindFeatureEnd }

func (e FeatureStarted) EventURI() string   { return e.URI }
func (e ScenarioStarted) EventURI() string  { return e.URI }
func (e StepStarted) EventURI() string      { return e.URI }
func (e StepFinished) EventURI() string     { return e.URI }
func (e ScenarioFinished) EventURI() string { return e.URI }
func (e FeatureFinished) EventURI() string  { return e.URI }

func (FeatureStarted) normalized()   {}
func (ScenarioStarted) normalized()  {}
func (StepStarted) normalized()      {}
func (StepFinished) normalized()     {}
func (ScenarioFinished) normalized() {}
func (FeatureFinished) normalized()  {}
