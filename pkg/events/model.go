// Package events defines the typed event model shared by the broadcasters,
// the correlator and the reporters.
//
// Two tagged unions live here:
//   - Raw: the eight kinds of events a test-run broadcaster emits
//   - Event: the six normalized lifecycle events the correlator publishes
package events

// NodeType discriminates Gherkin AST nodes.
type NodeType string

const (
	NodeBackground      NodeType = "Background"
	NodeScenario        NodeType = "Scenario"
	NodeScenarioOutline NodeType = "ScenarioOutline"
	NodeRule            NodeType = "Rule"
	NodeStep            NodeType = "Step"
	NodeHook            NodeType = "Hook"
)

// HookKeyword is the keyword of synthesized hook steps.
const HookKeyword = "Hook"

type (
	// Location is a position inside a feature file.
	Location struct {
		Line   int64 `json:"line"`
		Column int64 `json:"column,omitempty"`
	}

	// SourceLocation is the only key shared by the document, pickle and
	// execution streams.
	SourceLocation struct {
		URI    string `json:"uri"`
		Line   int64  `json:"line"`
		Column int64  `json:"column,omitempty"`
	}

	Comment struct {
		Location Location `json:"location"`
		Text     string   `json:"text"`
	}

	Document struct {
		Feature  *Feature   `json:"feature"`
		Comments []*Comment `json:"comments,omitempty"`
	}

	Feature struct {
		Tags        []string        `json:"tags,omitempty"`
		Location    Location        `json:"location"`
		Language    string          `json:"language"`
		Keyword     string          `json:"keyword"`
		Name        string          `json:"name"`
		Description string          `json:"description,omitempty"`
		Children    []*FeatureChild `json:"children"`
	}

	// FeatureChild is a Background, Scenario, ScenarioOutline or Rule.
	// Children is only populated for rules.
	FeatureChild struct {
		Type        NodeType        `json:"type"`
		Tags        []string        `json:"tags,omitempty"`
		Location    Location        `json:"location"`
		Keyword     string          `json:"keyword"`
		Name        string          `json:"name"`
		Description string          `json:"description,omitempty"`
		Steps       []*Step         `json:"steps,omitempty"`
		Examples    []*Examples     `json:"examples,omitempty"`
		Children    []*FeatureChild `json:"children,omitempty"`
	}

	Step struct {
		Type     NodeType `json:"type"`
		Location Location `json:"location"`
		Keyword  string   `json:"keyword"`
		Text     string   `json:"text"`

		// AfterSteps marks a hook that runs once at least one step ran.
		AfterSteps bool `json:"afterSteps,omitempty"`
	}

	Examples struct {
		Tags        []string    `json:"tags,omitempty"`
		Location    Location    `json:"location"`
		Keyword     string      `json:"keyword"`
		Name        string      `json:"name"`
		TableHeader *TableRow   `json:"tableHeader,omitempty"`
		TableBody   []*TableRow `json:"tableBody"`
	}

	TableRow struct {
		Location Location `json:"location"`
		Cells    []string `json:"cells"`
	}

	// Pickle is a compiled scenario, or a single outline row, with
	// parameters substituted. Locations[0] is the line the test case is
	// reported under: the row for outlines, the scenario otherwise.
	Pickle struct {
		ID        string        `json:"id"`
		URI       string        `json:"uri"`
		Name      string        `json:"name"`
		Language  string        `json:"language,omitempty"`
		Tags      []string      `json:"tags,omitempty"`
		Locations []Location    `json:"locations"`
		Steps     []*PickleStep `json:"steps"`
	}

	PickleStep struct {
		ID        string     `json:"id"`
		Keyword   string     `json:"keyword"`
		Text      string     `json:"text"`
		Locations []Location `json:"locations"`
	}
)

// IsScenario reports whether the child is executable (plain or outline).
func (c *FeatureChild) IsScenario() bool {
	return c.Type == NodeScenario || c.Type == NodeScenarioOutline
}

// HasHooks reports whether hook steps were already synthesized into the child.
func (c *FeatureChild) HasHooks() bool {
	for _, step := range c.Steps {
		if step.Type == NodeHook {
			return true
		}
	}
	return false
}

// IsHook reports whether the step was synthesized for a before/after hook.
func (s *Step) IsHook() bool {
	return s.Type == NodeHook
}

// IsBeforeHook reports whether the step is a hook running ahead of every
// step of the test case, background included.
func (s *Step) IsBeforeHook() bool {
	return s.IsHook() && !s.AfterSteps
}

// HasLine reports whether any of the pickle step locations is on line.
func (s *PickleStep) HasLine(line int64) bool {
	for _, loc := range s.Locations {
		if loc.Line == line {
			return true
		}
	}
	return false
}

// SourceLocation returns the location test cases of this pickle are
// reported under.
func (p *Pickle) SourceLocation() SourceLocation {
	if len(p.Locations) == 0 {
		return SourceLocation{URI: p.URI}
	}
	return SourceLocation{URI: p.URI, Line: p.Locations[0].Line}
}

// NewHookStep builds the synthetic step inserted for a hook at loc.
func NewHookStep(loc SourceLocation) *Step {
	return &Step{
		Type:     NodeHook,
		Location: Location{Line: loc.Line, Column: loc.Column},
		Keyword:  HookKeyword,
		Text:     "",
	}
}
