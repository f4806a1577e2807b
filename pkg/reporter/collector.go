package reporter

import (
	"time"

	"github.com/denizgursoy/cacik-events/pkg/events"
)

// Collector builds a RunResult out of the normalized event stream.
type Collector struct {
	now       func() time.Time
	features  []*FeatureResult
	byURI     map[string]*FeatureResult
	current   *ScenarioResult
	startedAt time.Time
}

func NewCollector() *Collector {
	return &Collector{
		now:      time.Now,
		features: make([]*FeatureResult, 0),
		byURI:    make(map[string]*FeatureResult),
	}
}

// Emit records one event.
func (c *Collector) Emit(e events.Event) {
	switch ev := e.(type) {
	case events.FeatureStarted:
		feature := &FeatureResult{URI: ev.URI, Scenarios: make([]ScenarioResult, 0)}
		if ev.Feature != nil {
			feature.Name = ev.Feature.Name
		}
		c.features = append(c.features, feature)
		c.byURI[ev.URI] = feature
	case events.ScenarioStarted:
		c.current = &ScenarioResult{URI: ev.URI, StartedAt: c.now(), Steps: make([]StepResult, 0)}
		if c.startedAt.IsZero() {
			c.startedAt = c.current.StartedAt
		}
		if ev.Feature != nil {
			c.current.FeatureName = ev.Feature.Name
		}
		if ev.Scenario != nil {
			c.current.Name = ev.Scenario.Name
			c.current.Tags = ev.Scenario.Tags
			c.current.Line = ev.Scenario.SourceLocation().Line
		}
	case events.StepFinished:
		c.onStepFinished(ev)
	case events.ScenarioFinished:
		c.onScenarioFinished(ev)
	}
}

func (c *Collector) onStepFinished(e events.StepFinished) {
	if c.current == nil || e.Step == nil {
		return
	}
	step := StepResult{
		Keyword:  e.Step.Keyword,
		Text:     e.Step.Text,
		Line:     e.Step.Location.Line,
		Hook:     e.Step.IsHook(),
		Status:   e.Result.Status,
		Error:    errorMessage(e.Result.Exception),
		Duration: e.Result.Duration,
	}
	c.current.Steps = append(c.current.Steps, step)

	if feature, ok := c.byURI[e.URI]; ok && !step.Hook {
		feature.Summary.AddStep(step.Status)
	}
}

func (c *Collector) onScenarioFinished(e events.ScenarioFinished) {
	scenario := c.current
	c.current = nil
	if scenario == nil {
		scenario = &ScenarioResult{URI: e.URI, Line: e.SourceLocation.Line, Steps: make([]StepResult, 0)}
		if e.Scenario != nil {
			scenario.Name = e.Scenario.Name
		}
	}

	scenario.Status = e.Result.Status
	scenario.Error = errorMessage(e.Result.Exception)
	scenario.Duration = e.Result.Duration
	if scenario.Duration == 0 {
		for _, step := range scenario.Steps {
			scenario.Duration += step.Duration
		}
	}

	feature, ok := c.byURI[e.URI]
	if !ok {
		return
	}
	feature.Scenarios = append(feature.Scenarios, *scenario)
	feature.Summary.AddScenario(scenario.Status)
	feature.Duration += scenario.Duration
}

// Result returns what was collected so far.
func (c *Collector) Result() *RunResult {
	result := &RunResult{Features: c.features, StartedAt: c.startedAt}
	for _, feature := range c.features {
		result.Summary.Add(feature.Summary)
		result.Duration += feature.Duration
	}
	result.Success = result.Summary.ScenariosFailed == 0

	return result
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
