package reporter

import (
	"time"

	"github.com/denizgursoy/cacik-events/pkg/events"
)

// ReporterSummary tracks test execution statistics. Hooks are not counted
// as steps.
type ReporterSummary struct {
	ScenariosTotal   int `json:"scenariosTotal"`
	ScenariosPassed  int `json:"scenariosPassed"`
	ScenariosFailed  int `json:"scenariosFailed"`
	ScenariosSkipped int `json:"scenariosSkipped"`
	StepsTotal       int `json:"stepsTotal"`
	StepsPassed      int `json:"stepsPassed"`
	StepsFailed      int `json:"stepsFailed"`
	StepsSkipped     int `json:"stepsSkipped"`
	StepsUndefined   int `json:"stepsUndefined"`
}

// AddScenario counts a finished scenario. Anything that neither passed
// nor was skipped counts as failed.
func (s *ReporterSummary) AddScenario(status events.Status) {
	s.ScenariosTotal++
	switch status {
	case events.StatusPassed:
		s.ScenariosPassed++
	case events.StatusSkipped:
		s.ScenariosSkipped++
	default:
		s.ScenariosFailed++
	}
}

// AddStep counts a finished step.
func (s *ReporterSummary) AddStep(status events.Status) {
	s.StepsTotal++
	switch status {
	case events.StatusPassed:
		s.StepsPassed++
	case events.StatusFailed:
		s.StepsFailed++
	case events.StatusSkipped:
		s.StepsSkipped++
	default:
		s.StepsUndefined++
	}
}

// Add merges other into s.
func (s *ReporterSummary) Add(other ReporterSummary) {
	s.ScenariosTotal += other.ScenariosTotal
	s.ScenariosPassed += other.ScenariosPassed
	s.ScenariosFailed += other.ScenariosFailed
	s.ScenariosSkipped += other.ScenariosSkipped
	s.StepsTotal += other.StepsTotal
	s.StepsPassed += other.StepsPassed
	s.StepsFailed += other.StepsFailed
	s.StepsSkipped += other.StepsSkipped
	s.StepsUndefined += other.StepsUndefined
}

// StepResult holds the execution result of a single step.
type StepResult struct {
	// Keyword is the Gherkin keyword including trailing whitespace
	// (e.g. "Given ", "When ", "Then "), or "Hook".
	Keyword string `json:"keyword"`

	// Text is the step text after the keyword, with outline parameters
	// substituted. Empty for hooks.
	Text string `json:"text,omitempty"`

	// Line is the line of the step in the feature file, or of the hook
	// definition.
	Line int64 `json:"line"`

	Hook bool `json:"hook,omitempty"`

	Status events.Status `json:"status"`

	// Error is the error message when the step failed.
	Error string `json:"error,omitempty"`

	Duration time.Duration `json:"duration"`
}

// ScenarioResult holds the execution result of a single test case. Every
// row of a scenario outline has its own.
type ScenarioResult struct {
	FeatureName string `json:"featureName"`

	URI string `json:"uri"`

	// Name is the pickle name, outline parameters substituted.
	Name string `json:"name"`

	// Line is the line the test case is reported under, the example row
	// for outlines.
	Line int64 `json:"line"`

	// Tags contains the tag names of the scenario, including the ones
	// inherited from the feature, rule and examples.
	Tags []string `json:"tags,omitempty"`

	Status events.Status `json:"status"`

	Error string `json:"error,omitempty"`

	Duration time.Duration `json:"duration"`

	StartedAt time.Time `json:"startedAt"`

	Steps []StepResult `json:"steps"`
}

// Passed is true when the scenario passed.
func (s ScenarioResult) Passed() bool {
	return s.Status == events.StatusPassed
}

// FeatureResult groups the scenarios of one feature file.
type FeatureResult struct {
	URI       string           `json:"uri"`
	Name      string           `json:"name"`
	Scenarios []ScenarioResult `json:"scenarios"`
	Summary   ReporterSummary  `json:"summary"`
	Duration  time.Duration    `json:"duration"`
}

// RunResult holds the complete results of a test run.
type RunResult struct {
	Features []*FeatureResult `json:"features"`

	// Summary holds aggregate counters over all features.
	Summary ReporterSummary `json:"summary"`

	// Duration is the sum of all scenario durations.
	Duration time.Duration `json:"duration"`

	StartedAt time.Time `json:"startedAt"`

	// Success is false when any scenario failed.
	Success bool `json:"success"`
}

// Scenarios returns the scenarios of every feature, in execution order
// per feature.
func (r *RunResult) Scenarios() []ScenarioResult {
	scenarios := make([]ScenarioResult, 0)
	for _, feature := range r.Features {
		scenarios = append(scenarios, feature.Scenarios...)
	}
	return scenarios
}
