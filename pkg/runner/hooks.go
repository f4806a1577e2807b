package runner

import (
	"sort"

	tagexpressions "github.com/cucumber/tag-expressions/go/v6"

	"github.com/denizgursoy/cacik-events/pkg/events"
	"github.com/denizgursoy/cacik-events/pkg/gherkin_parser"
)

// HookKind tells whether a hook runs before or after the steps of a
// test case.
type HookKind int

const (
	BeforeScenario HookKind = iota
	AfterScenario
)

func (k HookKind) String() string {
	if k == AfterScenario {
		return "after"
	}
	return "before"
}

// Hook is a scenario hook. It has no line in any feature file, only the
// location of its definition, which is what ends up in the correlated
// stream.
type Hook struct {
	Kind HookKind

	// Order determines execution order (lower = runs first).
	// Hooks with same Order run in registration order.
	Order int

	Name string

	// Location is where the hook is defined.
	Location events.SourceLocation

	// TagExpression limits the hook to matching scenarios. Empty matches
	// every scenario.
	TagExpression string
}

// SortHooks sorts hooks by Order (ascending).
// Hooks with the same Order maintain their relative order (stable sort).
func SortHooks(hooks []*Hook) []*Hook {
	sorted := make([]*Hook, len(hooks))
	copy(sorted, hooks)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	return sorted
}

type (
	boundHook struct {
		hook      *Hook
		evaluator tagexpressions.Evaluatable
	}

	// hookSet holds the sorted hooks of a run with their parsed tag
	// expressions.
	hookSet struct {
		before []boundHook
		after  []boundHook
	}
)

func newHookSet(hooks []*Hook) (*hookSet, error) {
	set := &hookSet{}
	for _, hook := range SortHooks(hooks) {
		if hook == nil {
			continue
		}
		evaluator, err := gherkin_parser.ParseTagExpression(hook.TagExpression)
		if err != nil {
			return nil, err
		}

		bound := boundHook{hook: hook, evaluator: evaluator}
		if hook.Kind == AfterScenario {
			set.after = append(set.after, bound)
		} else {
			set.before = append(set.before, bound)
		}
	}
	return set, nil
}

// For returns the before and after hooks that apply to pickle.
func (s *hookSet) For(pickle *events.Pickle) (before, after []*Hook) {
	return matching(s.before, pickle), matching(s.after, pickle)
}

func matching(hooks []boundHook, pickle *events.Pickle) []*Hook {
	matched := make([]*Hook, 0, len(hooks))
	for _, bound := range hooks {
		if bound.evaluator == nil || bound.evaluator.Evaluate(pickle.Tags) {
			matched = append(matched, bound.hook)
		}
	}
	return matched
}
