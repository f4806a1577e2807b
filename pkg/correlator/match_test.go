package correlator

import (
	"testing"

	"github.com/denizgursoy/cacik-events/pkg/events"
	"github.com/stretchr/testify/require"
)

func TestMatchesSourceLocation(t *testing.T) {
	t.Run("should match a plain scenario only on its own line", func(t *testing.T) {
		children := []*events.FeatureChild{
			scenario(3, "first"),
			scenario(7, "second"),
			scenario(11, "third"),
		}

		for _, line := range []int64{3, 7, 11} {
			matched := 0
			for _, child := range children {
				if MatchesSourceLocation(child, at(featureURI, line)) {
					require.Equal(t, line, child.Location.Line)
					matched++
				}
			}
			require.Equal(t, 1, matched)
		}
	})

	t.Run("should match an outline on its example rows and not on its declaration", func(t *testing.T) {
		child := outline(3, "eating", []int64{9, 10, 11}, astStep(4, "Given ", "there are <start> cucumbers"))

		require.False(t, MatchesSourceLocation(child, at(featureURI, 3)))
		require.True(t, MatchesSourceLocation(child, at(featureURI, 9)))
		require.True(t, MatchesSourceLocation(child, at(featureURI, 10)))
		require.True(t, MatchesSourceLocation(child, at(featureURI, 11)))
		require.False(t, MatchesSourceLocation(child, at(featureURI, 8)))
	})

	t.Run("should match rows of any examples block", func(t *testing.T) {
		child := outline(3, "eating", []int64{9}, astStep(4, "Given ", "x"))
		child.Examples = append(child.Examples, &events.Examples{
			TableBody: []*events.TableRow{{Location: events.Location{Line: 14}}},
		})

		require.True(t, MatchesSourceLocation(child, at(featureURI, 14)))
	})

	t.Run("should never match backgrounds and rules", func(t *testing.T) {
		require.False(t, MatchesSourceLocation(background(3), at(featureURI, 3)))
		require.False(t, MatchesSourceLocation(rule(3, "r"), at(featureURI, 3)))
		require.False(t, MatchesSourceLocation(nil, at(featureURI, 3)))
	})
}

func TestFindScenario(t *testing.T) {
	t.Run("should find scenarios nested in rules", func(t *testing.T) {
		nested := scenario(12, "nested", astStep(13, "Given ", "a"))
		doc := document(
			scenario(3, "top", astStep(4, "Given ", "b")),
			rule(10, "a rule", background(11), nested),
		)

		found, err := FindScenario(doc.Feature, at(featureURI, 12))
		require.NoError(t, err)
		require.Same(t, nested, found)
	})

	t.Run("should return ErrScenarioNotFound for an unknown line", func(t *testing.T) {
		doc := document(scenario(3, "top"))

		_, err := FindScenario(doc.Feature, at(featureURI, 99))
		require.ErrorIs(t, err, ErrScenarioNotFound)
	})
}

func TestResolveStep(t *testing.T) {
	t.Run("should overlay the pickle text on a template step", func(t *testing.T) {
		template := astStep(10, "Given ", "a {int} cucumbers")
		doc := document(scenario(9, "eat", template))
		p := pickle(featureURI, "eat", []int64{9}, pickleStep("a 5 cucumbers", 10))

		step, err := ResolveStep(doc.Feature, p, 0, at(featureURI, 9))
		require.NoError(t, err)
		require.Equal(t, "a 5 cucumbers", step.Text)
		require.Equal(t, "Given ", step.Keyword)
		require.Equal(t, "a {int} cucumbers", template.Text)
	})

	t.Run("should return the document step when no pickle step is on its line", func(t *testing.T) {
		template := astStep(10, "Given ", "a {int} cucumbers")
		doc := document(scenario(9, "eat", template))
		p := pickle(featureURI, "eat", []int64{9}, pickleStep("something else", 42))

		step, err := ResolveStep(doc.Feature, p, 0, at(featureURI, 9))
		require.NoError(t, err)
		require.Same(t, template, step)
	})

	t.Run("should return the document step without a pickle", func(t *testing.T) {
		template := astStep(10, "Given ", "a {int} cucumbers")
		doc := document(scenario(9, "eat", template))

		step, err := ResolveStep(doc.Feature, nil, 0, at(featureURI, 9))
		require.NoError(t, err)
		require.Same(t, template, step)
	})

	t.Run("should resolve every index after hooks were inserted", func(t *testing.T) {
		sc := scenario(3, "eat",
			astStep(4, "Given ", "there are <start> cucumbers"),
			astStep(5, "When ", "I eat <eat> cucumbers"),
			astStep(6, "Then ", "I should have <left> cucumbers"),
		)
		doc := document(sc)
		c := New(nil)
		require.NoError(t, c.Handle(events.GherkinDocumentParsed{URI: featureURI, Document: doc}))
		require.NoError(t, c.Handle(events.TestCasePrepared{
			SourceLocation: at(featureURI, 3),
			Steps: []*events.PreparedStep{
				hookStep("hooks.go", 20),
				docStep(featureURI, 4),
				docStep(featureURI, 5),
				docStep(featureURI, 6),
				hookStep("hooks.go", 30),
			},
		}))

		p := pickle(featureURI, "eat", []int64{3},
			pickleStep("there are 12 cucumbers", 4),
			pickleStep("I eat 5 cucumbers", 5),
			pickleStep("I should have 7 cucumbers", 6),
		)

		expected := []struct {
			typ  events.NodeType
			line int64
			text string
		}{
			{events.NodeHook, 20, ""},
			{events.NodeStep, 4, "there are 12 cucumbers"},
			{events.NodeStep, 5, "I eat 5 cucumbers"},
			{events.NodeStep, 6, "I should have 7 cucumbers"},
			{events.NodeHook, 30, ""},
		}
		for i, want := range expected {
			step, err := ResolveStep(doc.Feature, p, i, at(featureURI, 3))
			require.NoError(t, err)
			require.Equal(t, want.typ, step.Type, "index %d", i)
			require.Equal(t, want.line, step.Location.Line, "index %d", i)
			require.Equal(t, want.text, step.Text, "index %d", i)
		}

		_, err := ResolveStep(doc.Feature, p, len(expected), at(featureURI, 3))
		require.ErrorIs(t, err, ErrStepIndexOutOfRange)
		_, err = ResolveStep(doc.Feature, p, -1, at(featureURI, 3))
		require.ErrorIs(t, err, ErrStepIndexOutOfRange)
	})
}

func TestCombinedSteps(t *testing.T) {
	t.Run("should put before hooks ahead of the background", func(t *testing.T) {
		bg := background(3, astStep(4, "Given ", "a basket"))
		sc := scenario(6, "eat", astStep(7, "When ", "I eat"), astStep(8, "Then ", "I am full"))
		sc.Steps = append([]*events.Step{events.NewHookStep(at("hooks.go", 1))}, sc.Steps...)
		sc.Steps = append(sc.Steps, events.NewHookStep(at("hooks.go", 2)))
		doc := document(bg, sc)

		steps := CombinedSteps(doc.Feature, at(featureURI, 6))

		lines := make([]int64, len(steps))
		for i, s := range steps {
			lines[i] = s.Location.Line
		}
		require.Equal(t, []int64{1, 4, 7, 8, 2}, lines)
	})

	t.Run("should include feature and rule backgrounds for rule scenarios", func(t *testing.T) {
		doc := document(
			background(2, astStep(3, "Given ", "feature bg")),
			rule(5, "r",
				background(6, astStep(7, "Given ", "rule bg")),
				scenario(9, "inner", astStep(10, "When ", "inner step")),
			),
		)

		steps := CombinedSteps(doc.Feature, at(featureURI, 9))
		require.Len(t, steps, 3)
		require.Equal(t, "feature bg", steps[0].Text)
		require.Equal(t, "rule bg", steps[1].Text)
		require.Equal(t, "inner step", steps[2].Text)
	})

	t.Run("should keep after hooks behind the background of an empty scenario", func(t *testing.T) {
		bg := background(3, astStep(4, "Given ", "bg one"), astStep(5, "And ", "bg two"))
		sc := scenario(7, "only background")
		after := events.NewHookStep(at("hooks.go", 2))
		after.AfterSteps = true
		sc.Steps = []*events.Step{events.NewHookStep(at("hooks.go", 1)), after}
		doc := document(bg, sc)

		steps := CombinedSteps(doc.Feature, at(featureURI, 7))

		lines := make([]int64, len(steps))
		for i, s := range steps {
			lines[i] = s.Location.Line
		}
		require.Equal(t, []int64{1, 4, 5, 2}, lines)
	})

	t.Run("should ignore nil children", func(t *testing.T) {
		doc := document(nil, scenario(3, "eat", astStep(4, "Given ", "x")), nil)

		require.NotPanics(t, func() {
			require.Len(t, CombinedSteps(doc.Feature, at(featureURI, 3)), 1)
		})
	})

	t.Run("should return nothing for an unknown location", func(t *testing.T) {
		doc := document(scenario(3, "eat", astStep(4, "Given ", "x")))

		require.Empty(t, CombinedSteps(doc.Feature, at(featureURI, 50)))
		require.Empty(t, CombinedSteps(nil, at(featureURI, 3)))
	})
}
