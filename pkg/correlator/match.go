package correlator

import (
	"fmt"

	"github.com/denizgursoy/cacik-events/pkg/events"
)

// MatchesSourceLocation reports whether child is the scenario executed
// under loc. A plain scenario matches on its own line. An outline matches
// on the line of any of its example rows, since every row runs as its
// own test case. Backgrounds and rules never match.
func MatchesSourceLocation(child *events.FeatureChild, loc events.SourceLocation) bool {
	if child == nil {
		return false
	}
	switch child.Type {
	case events.NodeScenarioOutline:
		for _, examples := range child.Examples {
			for _, row := range examples.TableBody {
				if row.Location.Line == loc.Line {
					return true
				}
			}
		}
		return false
	case events.NodeScenario:
		return child.Location.Line == loc.Line
	default:
		return false
	}
}

// match is a scenario selected by a source location together with the
// backgrounds that run ahead of it, feature level first.
type match struct {
	scenario    *events.FeatureChild
	backgrounds []*events.FeatureChild
}

func (m match) backgroundSteps() int {
	total := 0
	for _, bg := range m.backgrounds {
		total += len(bg.Steps)
	}
	return total
}

// findMatches walks the children, descending into rules.
func findMatches(children []*events.FeatureChild, loc events.SourceLocation, inherited []*events.FeatureChild) []match {
	backgrounds := append([]*events.FeatureChild{}, inherited...)
	for _, child := range children {
		if child != nil && child.Type == events.NodeBackground {
			backgrounds = append(backgrounds, child)
		}
	}

	matches := make([]match, 0, 1)
	for _, child := range children {
		switch {
		case child == nil:
			continue
		case child.Type == events.NodeRule:
			matches = append(matches, findMatches(child.Children, loc, backgrounds)...)
		case MatchesSourceLocation(child, loc):
			matches = append(matches, match{scenario: child, backgrounds: backgrounds})
		}
	}
	return matches
}

// FindScenario returns the first scenario of feature executed under loc.
func FindScenario(feature *events.Feature, loc events.SourceLocation) (*events.FeatureChild, error) {
	m, err := firstMatch(feature, loc)
	if err != nil {
		return nil, err
	}
	return m.scenario, nil
}

func firstMatch(feature *events.Feature, loc events.SourceLocation) (match, error) {
	if feature != nil {
		if matches := findMatches(feature.Children, loc, nil); len(matches) > 0 {
			return matches[0], nil
		}
	}
	return match{}, fmt.Errorf("%w: %s:%d", ErrScenarioNotFound, loc.URI, loc.Line)
}

// leadingHooks counts the before-hooks at the start of steps.
func leadingHooks(steps []*events.Step) int {
	n := 0
	for n < len(steps) && steps[n].IsBeforeHook() {
		n++
	}
	return n
}

// CombinedSteps lists the steps executed under loc in execution order:
// before-hooks, background steps, then the scenario's own steps and
// after-hooks.
func CombinedSteps(feature *events.Feature, loc events.SourceLocation) []*events.Step {
	combined := make([]*events.Step, 0)
	if feature == nil {
		return combined
	}
	for i, m := range findMatches(feature.Children, loc, nil) {
		steps := m.scenario.Steps
		lead := leadingHooks(steps)
		combined = append(combined, steps[:lead]...)
		if i == 0 {
			for _, bg := range m.backgrounds {
				combined = append(combined, bg.Steps...)
			}
		}
		combined = append(combined, steps[lead:]...)
	}
	return combined
}

// ResolveStep returns the step at index among the steps executed under loc.
// Document steps get the text of the pickle step on the same line, so
// outline placeholders come back substituted. The document itself is left
// untouched. Without a matching pickle step the document step is returned
// as is.
func ResolveStep(feature *events.Feature, pickle *events.Pickle, index int, loc events.SourceLocation) (*events.Step, error) {
	step, _, err := resolveStep(feature, pickle, index, loc)
	return step, err
}

func resolveStep(feature *events.Feature, pickle *events.Pickle, index int, loc events.SourceLocation) (*events.Step, bool, error) {
	steps := CombinedSteps(feature, loc)
	if index < 0 || index >= len(steps) {
		return nil, false, fmt.Errorf("%w: index %d of %d steps at %s:%d", ErrStepIndexOutOfRange, index, len(steps), loc.URI, loc.Line)
	}

	target := steps[index]
	if target.Type != events.NodeStep {
		return target, true, nil
	}

	if pickleStep := findPickleStep(pickle, target.Location.Line); pickleStep != nil {
		overlaid := *target
		overlaid.Text = pickleStep.Text
		return &overlaid, true, nil
	}

	return target, false, nil
}

func findPickleStep(pickle *events.Pickle, line int64) *events.PickleStep {
	if pickle == nil {
		return nil
	}
	for _, step := range pickle.Steps {
		if step.HasLine(line) {
			return step
		}
	}
	return nil
}
