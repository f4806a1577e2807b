package correlator

import (
	"github.com/denizgursoy/cacik-events/pkg/events"
)

const featureURI = "features/cucumbers.feature"

func astStep(line int64, keyword, text string) *events.Step {
	return &events.Step{
		Type:     events.NodeStep,
		Location: events.Location{Line: line, Column: 5},
		Keyword:  keyword,
		Text:     text,
	}
}

func scenario(line int64, name string, steps ...*events.Step) *events.FeatureChild {
	return &events.FeatureChild{
		Type:     events.NodeScenario,
		Location: events.Location{Line: line, Column: 3},
		Keyword:  "Scenario",
		Name:     name,
		Steps:    steps,
	}
}

func background(line int64, steps ...*events.Step) *events.FeatureChild {
	return &events.FeatureChild{
		Type:     events.NodeBackground,
		Location: events.Location{Line: line, Column: 3},
		Keyword:  "Background",
		Steps:    steps,
	}
}

func outline(line int64, name string, rows []int64, steps ...*events.Step) *events.FeatureChild {
	body := make([]*events.TableRow, len(rows))
	for i, row := range rows {
		body[i] = &events.TableRow{Location: events.Location{Line: row, Column: 7}}
	}
	return &events.FeatureChild{
		Type:     events.NodeScenarioOutline,
		Location: events.Location{Line: line, Column: 3},
		Keyword:  "Scenario Outline",
		Name:     name,
		Steps:    steps,
		Examples: []*events.Examples{{
			Keyword:     "Examples",
			TableHeader: &events.TableRow{Location: events.Location{Line: rows[0] - 1}},
			TableBody:   body,
		}},
	}
}

func rule(line int64, name string, children ...*events.FeatureChild) *events.FeatureChild {
	return &events.FeatureChild{
		Type:     events.NodeRule,
		Location: events.Location{Line: line, Column: 3},
		Keyword:  "Rule",
		Name:     name,
		Children: children,
	}
}

func document(children ...*events.FeatureChild) *events.Document {
	return &events.Document{
		Feature: &events.Feature{
			Location: events.Location{Line: 1, Column: 1},
			Language: "en",
			Keyword:  "Feature",
			Name:     "Cucumbers",
			Children: children,
		},
	}
}

func pickleStep(text string, lines ...int64) *events.PickleStep {
	locs := make([]events.Location, len(lines))
	for i, line := range lines {
		locs[i] = events.Location{Line: line}
	}
	return &events.PickleStep{Text: text, Locations: locs}
}

func pickle(uri, name string, lines []int64, steps ...*events.PickleStep) *events.Pickle {
	locs := make([]events.Location, len(lines))
	for i, line := range lines {
		locs[i] = events.Location{Line: line}
	}
	return &events.Pickle{URI: uri, Name: name, Locations: locs, Steps: steps}
}

func at(uri string, line int64) events.SourceLocation {
	return events.SourceLocation{URI: uri, Line: line}
}

func docStep(uri string, line int64) *events.PreparedStep {
	loc := at(uri, line)
	return &events.PreparedStep{SourceLocation: &loc, ActionLocation: &events.SourceLocation{URI: "steps.go", Line: line * 10}}
}

func hookStep(uri string, line int64) *events.PreparedStep {
	return &events.PreparedStep{ActionLocation: &events.SourceLocation{URI: uri, Line: line}}
}

// runTestCase feeds the execution events of one test case with every step
// passing.
func runTestCase(c *Correlator, loc events.SourceLocation, steps int) error {
	if err := c.Handle(events.TestCaseStarted{SourceLocation: loc}); err != nil {
		return err
	}
	for i := 0; i < steps; i++ {
		if err := c.Handle(events.TestStepStarted{Index: i, SourceLocation: loc}); err != nil {
			return err
		}
		result := events.Result{Status: events.StatusPassed}
		if err := c.Handle(events.TestStepFinished{Index: i, Result: result, SourceLocation: loc}); err != nil {
			return err
		}
	}
	return c.Handle(events.TestCaseFinished{SourceLocation: loc, Result: events.Result{Status: events.StatusPassed}})
}
