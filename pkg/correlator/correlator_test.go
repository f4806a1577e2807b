package correlator

import (
	"testing"

	"github.com/denizgursoy/cacik-events/pkg/events"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// =============================================================================
// Lifecycle
// =============================================================================

func TestCorrelator_SingleScenario(t *testing.T) {
	t.Run("should emit the full lifecycle for one scenario with two steps", func(t *testing.T) {
		recorder := events.NewRecorder()
		c := New(recorder)
		doc := document(scenario(3, "eat",
			astStep(4, "Given ", "there are 12 cucumbers"),
			astStep(5, "When ", "I eat 5 cucumbers"),
		))
		loc := at(featureURI, 3)

		require.NoError(t, c.Handle(events.GherkinDocumentParsed{URI: featureURI, Document: doc}))
		require.NoError(t, c.Handle(events.PickleAccepted{URI: featureURI, Pickle: pickle(featureURI, "eat", []int64{3},
			pickleStep("there are 12 cucumbers", 4),
			pickleStep("I eat 5 cucumbers", 5),
		)}))
		require.NoError(t, c.Handle(events.TestCasePrepared{
			SourceLocation: loc,
			Steps:          []*events.PreparedStep{docStep(featureURI, 4), docStep(featureURI, 5)},
		}))
		require.NoError(t, runTestCase(c, loc, 2))
		require.NoError(t, c.Handle(events.TestRunFinished{Result: events.RunResult{Success: true}}))

		require.Equal(t, []events.Kind{
			events.KindFeatureStart,
			events.KindScenarioStart,
			events.KindStepStart,
			events.KindStepEnd,
			events.KindStepStart,
			events.KindStepEnd,
			events.KindScenarioEnd,
			events.KindFeatureEnd,
		}, recorder.Kinds())
		for _, e := range recorder.Events() {
			require.Equal(t, featureURI, e.EventURI())
		}

		first := recorder.Events()[2].(events.StepStarted)
		require.Equal(t, "there are 12 cucumbers", first.Step.Text)
		require.Equal(t, "eat", first.Scenario.Name)
		require.Same(t, doc.Feature, first.Feature)

		scenarioStart := recorder.Events()[1].(events.ScenarioStarted)
		require.Equal(t, "eat", scenarioStart.Scenario.Name)
		require.Len(t, c.OpenDocuments(), 0)
	})

	t.Run("should publish each event to the sink exactly once", func(t *testing.T) {
		controller := gomock.NewController(t)
		sink := NewMockSink(controller)
		doc := document(scenario(3, "eat"))

		sink.EXPECT().Emit(events.FeatureStarted{URI: featureURI, Feature: doc.Feature}).Times(1)
		sink.EXPECT().Emit(events.FeatureFinished{URI: featureURI, Feature: doc.Feature}).Times(1)

		c := New(sink)
		require.NoError(t, c.Handle(events.GherkinDocumentParsed{URI: featureURI, Document: doc}))
		require.NoError(t, c.Handle(events.TestRunFinished{}))
	})
}

func TestCorrelator_ScenarioOutline(t *testing.T) {
	t.Run("should emit one scenario pair per example row keyed by the row line", func(t *testing.T) {
		recorder := events.NewRecorder()
		c := New(recorder)
		rows := []int64{9, 10, 11}
		sc := outline(3, "eating <eat>", rows,
			astStep(4, "Given ", "there are <start> cucumbers"),
			astStep(5, "When ", "I eat <eat> cucumbers"),
		)
		require.NoError(t, c.Handle(events.GherkinDocumentParsed{URI: featureURI, Document: document(sc)}))

		for i, row := range rows {
			require.NoError(t, c.Handle(events.PickleAccepted{URI: featureURI, Pickle: pickle(featureURI, "eating", []int64{row, 3},
				pickleStep("there are 12 cucumbers", 4, row),
				pickleStep("I eat "+string(rune('1'+i))+" cucumbers", 5, row),
			)}))
		}
		for _, row := range rows {
			loc := at(featureURI, row)
			require.NoError(t, c.Handle(events.TestCasePrepared{
				SourceLocation: loc,
				Steps:          []*events.PreparedStep{docStep(featureURI, 4), docStep(featureURI, 5)},
			}))
			require.NoError(t, runTestCase(c, loc, 2))
		}
		require.NoError(t, c.Handle(events.TestRunFinished{}))

		var starts, ends []int64
		var eaten []string
		for _, e := range recorder.Events() {
			switch ev := e.(type) {
			case events.ScenarioStarted:
				starts = append(starts, ev.Scenario.Locations[0].Line)
			case events.ScenarioFinished:
				require.Same(t, sc, ev.Scenario)
				ends = append(ends, ev.SourceLocation.Line)
			case events.StepFinished:
				if ev.Step.Location.Line == 5 {
					eaten = append(eaten, ev.Step.Text)
				}
			}
		}
		require.Equal(t, rows, starts)
		require.Equal(t, rows, ends)
		require.Equal(t, []string{"I eat 1 cucumbers", "I eat 2 cucumbers", "I eat 3 cucumbers"}, eaten)
		require.Equal(t, "I eat <eat> cucumbers", sc.Steps[1].Text)
	})

	t.Run("should fail a step event keyed by the outline declaration line", func(t *testing.T) {
		c := New(nil)
		sc := outline(3, "eating", []int64{9}, astStep(4, "Given ", "x"))
		require.NoError(t, c.Handle(events.GherkinDocumentParsed{URI: featureURI, Document: document(sc)}))

		err := c.Handle(events.TestStepStarted{Index: 0, SourceLocation: at(featureURI, 3)})
		require.ErrorIs(t, err, ErrScenarioNotFound)
	})
}

// =============================================================================
// Hooks
// =============================================================================

func TestCorrelator_TestCasePrepared(t *testing.T) {
	t.Run("should synthesize hooks only once", func(t *testing.T) {
		c := New(nil)
		sc := scenario(3, "eat", astStep(4, "Given ", "a"), astStep(5, "When ", "b"))
		require.NoError(t, c.Handle(events.GherkinDocumentParsed{URI: featureURI, Document: document(sc)}))

		prepare := func() events.TestCasePrepared {
			return events.TestCasePrepared{
				SourceLocation: at(featureURI, 3),
				Steps: []*events.PreparedStep{
					hookStep("support/hooks.go", 10),
					docStep(featureURI, 4),
					docStep(featureURI, 5),
					hookStep("support/hooks.go", 20),
				},
			}
		}
		require.NoError(t, c.Handle(prepare()))
		require.NoError(t, c.Handle(prepare()))

		types := make([]events.NodeType, len(sc.Steps))
		for i, s := range sc.Steps {
			types[i] = s.Type
		}
		require.Equal(t, []events.NodeType{events.NodeHook, events.NodeStep, events.NodeStep, events.NodeHook}, types)
		require.Equal(t, int64(10), sc.Steps[0].Location.Line)
		require.Equal(t, int64(20), sc.Steps[3].Location.Line)
		require.Equal(t, events.HookKeyword, sc.Steps[0].Keyword)
		require.Empty(t, sc.Steps[0].Text)
		require.Len(t, c.PreparedEvents(), 2)
	})

	t.Run("should give hook steps a source location from their action location", func(t *testing.T) {
		c := New(nil)
		require.NoError(t, c.Handle(events.GherkinDocumentParsed{URI: featureURI, Document: document(scenario(3, "eat", astStep(4, "Given ", "a")))}))

		hook := hookStep("support/hooks.go", 10)
		require.NoError(t, c.Handle(events.TestCasePrepared{
			SourceLocation: at(featureURI, 3),
			Steps:          []*events.PreparedStep{hook, docStep(featureURI, 4)},
		}))

		require.NotNil(t, hook.SourceLocation)
		require.Equal(t, events.SourceLocation{URI: "support/hooks.go", Line: 10, Column: 0}, *hook.SourceLocation)
	})

	t.Run("should share hooks across the rows of an outline", func(t *testing.T) {
		c := New(nil)
		sc := outline(3, "eating", []int64{9, 10}, astStep(4, "Given ", "<n>"))
		require.NoError(t, c.Handle(events.GherkinDocumentParsed{URI: featureURI, Document: document(sc)}))

		for _, row := range []int64{9, 10} {
			require.NoError(t, c.Handle(events.TestCasePrepared{
				SourceLocation: at(featureURI, row),
				Steps:          []*events.PreparedStep{hookStep("hooks.go", 1), docStep(featureURI, 4)},
			}))
		}

		require.Len(t, sc.Steps, 2)
	})

	t.Run("should keep background steps in execution order", func(t *testing.T) {
		recorder := events.NewRecorder()
		c := New(recorder)
		doc := document(
			background(3, astStep(4, "Given ", "a basket")),
			scenario(6, "eat", astStep(7, "When ", "I eat <n>"), astStep(8, "Then ", "I am full")),
		)
		loc := at(featureURI, 6)
		require.NoError(t, c.Handle(events.GherkinDocumentParsed{URI: featureURI, Document: doc}))
		require.NoError(t, c.Handle(events.PickleAccepted{URI: featureURI, Pickle: pickle(featureURI, "eat", []int64{6},
			pickleStep("a basket", 4),
			pickleStep("I eat 3", 7),
			pickleStep("I am full", 8),
		)}))
		require.NoError(t, c.Handle(events.TestCasePrepared{
			SourceLocation: loc,
			Steps: []*events.PreparedStep{
				hookStep("hooks.go", 1),
				docStep(featureURI, 4),
				docStep(featureURI, 7),
				docStep(featureURI, 8),
				hookStep("hooks.go", 2),
			},
		}))
		require.NoError(t, runTestCase(c, loc, 5))

		var texts []string
		var lines []int64
		for _, e := range recorder.Events() {
			if ev, ok := e.(events.StepStarted); ok {
				texts = append(texts, ev.Step.Text)
				lines = append(lines, ev.Step.Location.Line)
			}
		}
		require.Equal(t, []int64{1, 4, 7, 8, 2}, lines)
		require.Equal(t, []string{"", "a basket", "I eat 3", "I am full", ""}, texts)
	})

	t.Run("should keep hooks around the background of a scenario without steps", func(t *testing.T) {
		recorder := events.NewRecorder()
		c := New(recorder)
		sc := scenario(7, "only background")
		doc := document(
			background(3, astStep(4, "Given ", "bg one"), astStep(5, "And ", "bg two")),
			sc,
		)
		loc := at(featureURI, 7)
		require.NoError(t, c.Handle(events.GherkinDocumentParsed{URI: featureURI, Document: doc}))
		require.NoError(t, c.Handle(events.PickleAccepted{URI: featureURI, Pickle: pickle(featureURI, "only background", []int64{7},
			pickleStep("bg one", 4),
			pickleStep("bg two", 5),
		)}))
		require.NoError(t, c.Handle(events.TestCasePrepared{
			SourceLocation: loc,
			Steps: []*events.PreparedStep{
				hookStep("hooks.go", 1),
				docStep(featureURI, 4),
				docStep(featureURI, 5),
				hookStep("hooks.go", 2),
			},
		}))
		require.NoError(t, runTestCase(c, loc, 4))

		require.Len(t, sc.Steps, 2)
		require.False(t, sc.Steps[0].AfterSteps)
		require.True(t, sc.Steps[1].AfterSteps)

		var types []events.NodeType
		var lines []int64
		for _, e := range recorder.Events() {
			if ev, ok := e.(events.StepStarted); ok {
				types = append(types, ev.Step.Type)
				lines = append(lines, ev.Step.Location.Line)
			}
		}
		require.Equal(t, []events.NodeType{events.NodeHook, events.NodeStep, events.NodeStep, events.NodeHook}, types)
		require.Equal(t, []int64{1, 4, 5, 2}, lines)
	})

	t.Run("should skip nil prepared steps", func(t *testing.T) {
		c := New(nil)
		sc := scenario(3, "eat", astStep(4, "Given ", "a"))
		require.NoError(t, c.Handle(events.GherkinDocumentParsed{URI: featureURI, Document: document(sc)}))

		require.NotPanics(t, func() {
			require.NoError(t, c.Handle(events.TestCasePrepared{
				SourceLocation: at(featureURI, 3),
				Steps:          []*events.PreparedStep{nil, hookStep("hooks.go", 1), docStep(featureURI, 4)},
			}))
		})
		require.Len(t, sc.Steps, 2)
		require.True(t, sc.Steps[0].IsBeforeHook())
	})

	t.Run("should fail for an unknown scenario", func(t *testing.T) {
		c := New(nil)
		require.NoError(t, c.Handle(events.GherkinDocumentParsed{URI: featureURI, Document: document(scenario(3, "eat"))}))

		err := c.Handle(events.TestCasePrepared{SourceLocation: at(featureURI, 30)})
		require.ErrorIs(t, err, ErrScenarioNotFound)
	})
}

// =============================================================================
// Documents
// =============================================================================

func TestCorrelator_TestRunFinished(t *testing.T) {
	t.Run("should close interleaved documents in reverse order", func(t *testing.T) {
		recorder := events.NewRecorder()
		c := New(recorder)
		uris := []string{"a.feature", "b.feature", "c.feature"}

		for _, uri := range uris {
			require.NoError(t, c.Handle(events.GherkinDocumentParsed{URI: uri, Document: document(scenario(3, uri))}))
			require.NoError(t, c.Handle(events.PickleAccepted{URI: uri, Pickle: pickle(uri, uri, []int64{3})}))
		}
		for _, uri := range uris {
			require.NoError(t, runTestCase(c, at(uri, 3), 0))
		}
		for range uris {
			require.NoError(t, c.Handle(events.TestRunFinished{}))
		}

		var closed []string
		for _, e := range recorder.Events() {
			if ev, ok := e.(events.FeatureFinished); ok {
				closed = append(closed, ev.URI)
			}
		}
		require.Equal(t, []string{"c.feature", "b.feature", "a.feature"}, closed)
	})

	t.Run("should close the oldest document first when configured", func(t *testing.T) {
		recorder := events.NewRecorder()
		c := New(recorder, WithDocumentOrder(FirstIn))

		require.NoError(t, c.Handle(events.GherkinDocumentParsed{URI: "a.feature", Document: document()}))
		require.NoError(t, c.Handle(events.GherkinDocumentParsed{URI: "b.feature", Document: document()}))
		require.NoError(t, c.Handle(events.TestRunFinished{}))

		require.Equal(t, "a.feature", recorder.Events()[2].EventURI())
		require.Equal(t, []string{"b.feature"}, c.OpenDocuments())
	})

	t.Run("should resolve a reparsed uri to its first document until it is closed", func(t *testing.T) {
		c := New(events.NewRecorder())
		first := document(scenario(3, "first"))
		second := document(scenario(5, "second"))

		require.NoError(t, c.Handle(events.GherkinDocumentParsed{URI: featureURI, Document: first}))
		require.NoError(t, c.Handle(events.GherkinDocumentParsed{URI: featureURI, Document: second}))

		require.NoError(t, c.Handle(events.TestCaseFinished{SourceLocation: at(featureURI, 3)}))
		require.NoError(t, c.Handle(events.TestRunFinished{}))
		require.NoError(t, c.Handle(events.TestCaseFinished{SourceLocation: at(featureURI, 3)}))
		require.NoError(t, c.Handle(events.TestRunFinished{}))

		err := c.Handle(events.TestCaseFinished{SourceLocation: at(featureURI, 3)})
		require.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("should fail without an open document", func(t *testing.T) {
		c := New(nil)

		err := c.Handle(events.TestRunFinished{})
		require.ErrorIs(t, err, ErrNoOpenDocument)
	})
}

// =============================================================================
// Pickles and errors
// =============================================================================

func TestCorrelator_Pickles(t *testing.T) {
	t.Run("should consume pickles in acceptance order across documents", func(t *testing.T) {
		recorder := events.NewRecorder()
		c := New(recorder)

		require.NoError(t, c.Handle(events.GherkinDocumentParsed{URI: "a.feature", Document: document(scenario(3, "a1"), scenario(6, "a2"))}))
		require.NoError(t, c.Handle(events.GherkinDocumentParsed{URI: "b.feature", Document: document(scenario(3, "b1"))}))
		require.NoError(t, c.Handle(events.PickleAccepted{URI: "a.feature", Pickle: pickle("a.feature", "a1", []int64{3})}))
		require.NoError(t, c.Handle(events.PickleAccepted{URI: "a.feature", Pickle: pickle("a.feature", "a2", []int64{6})}))
		require.NoError(t, c.Handle(events.PickleAccepted{URI: "b.feature", Pickle: pickle("b.feature", "b1", []int64{3})}))
		require.Equal(t, 3, c.PendingPickles())

		require.NoError(t, runTestCase(c, at("a.feature", 3), 0))
		require.NoError(t, runTestCase(c, at("a.feature", 6), 0))
		require.NoError(t, runTestCase(c, at("b.feature", 3), 0))

		var names []string
		for _, e := range recorder.Events() {
			if ev, ok := e.(events.ScenarioStarted); ok {
				names = append(names, ev.URI+"/"+ev.Scenario.Name)
			}
		}
		require.Equal(t, []string{"a.feature/a1", "a.feature/a2", "b.feature/b1"}, names)
		require.Zero(t, c.PendingPickles())
	})

	t.Run("should clear the current pickle when the test case finishes", func(t *testing.T) {
		c := New(nil)
		require.NoError(t, c.Handle(events.GherkinDocumentParsed{URI: featureURI, Document: document(scenario(3, "eat"))}))
		require.NoError(t, c.Handle(events.PickleAccepted{URI: featureURI, Pickle: pickle(featureURI, "eat", []int64{3})}))
		require.NoError(t, c.Handle(events.TestCaseStarted{SourceLocation: at(featureURI, 3)}))
		require.NotNil(t, c.CurrentPickle())

		require.NoError(t, c.Handle(events.TestCaseFinished{SourceLocation: at(featureURI, 3)}))
		require.Nil(t, c.CurrentPickle())
	})

	t.Run("should clear the current pickle even when the scenario is unknown", func(t *testing.T) {
		c := New(nil)
		require.NoError(t, c.Handle(events.GherkinDocumentParsed{URI: featureURI, Document: document(scenario(3, "eat"))}))
		require.NoError(t, c.Handle(events.PickleAccepted{URI: featureURI, Pickle: pickle(featureURI, "eat", []int64{3})}))
		require.NoError(t, c.Handle(events.TestCaseStarted{SourceLocation: at(featureURI, 3)}))

		err := c.Handle(events.TestCaseFinished{SourceLocation: at(featureURI, 4)})
		require.ErrorIs(t, err, ErrScenarioNotFound)
		require.Nil(t, c.CurrentPickle())
	})

	t.Run("should fail a test case without an accepted pickle", func(t *testing.T) {
		c := New(nil)

		err := c.Handle(events.TestCaseStarted{SourceLocation: at(featureURI, 3)})
		require.ErrorIs(t, err, ErrNoPendingPickle)
		require.Contains(t, err.Error(), string(events.KindTestCaseStarted))
	})

	t.Run("should fail a pickle whose document was never parsed", func(t *testing.T) {
		c := New(nil)
		require.NoError(t, c.Handle(events.PickleAccepted{URI: featureURI, Pickle: pickle(featureURI, "eat", []int64{3})}))

		err := c.Handle(events.TestCaseStarted{SourceLocation: at(featureURI, 3)})
		require.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("should fail step events for an unknown uri", func(t *testing.T) {
		c := New(nil)

		err := c.Handle(events.TestStepStarted{Index: 0, SourceLocation: at("missing.feature", 3)})
		require.ErrorIs(t, err, ErrDocumentNotFound)
		err = c.Handle(events.TestStepFinished{Index: 0, SourceLocation: at("missing.feature", 3)})
		require.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("should reject events it does not know", func(t *testing.T) {
		c := New(nil)

		err := c.Handle(&events.TestRunFinished{})
		require.ErrorIs(t, err, ErrUnknownEvent)
	})

	t.Run("should forget everything on reset", func(t *testing.T) {
		c := New(nil)
		require.NoError(t, c.Handle(events.GherkinDocumentParsed{URI: featureURI, Document: document(scenario(3, "eat"))}))
		require.NoError(t, c.Handle(events.PickleAccepted{URI: featureURI, Pickle: pickle(featureURI, "eat", []int64{3})}))

		c.Reset()

		require.Empty(t, c.OpenDocuments())
		require.Zero(t, c.PendingPickles())
		require.Empty(t, c.PreparedEvents())
	})
}

func TestCorrelator_Logging(t *testing.T) {
	t.Run("should warn when a document step has no pickle step", func(t *testing.T) {
		controller := gomock.NewController(t)
		logger := NewMockLogger(controller)
		logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
		logger.EXPECT().Warn("no pickle step for document step", gomock.Any()).Times(1)

		c := New(nil, WithLogger(logger))
		require.NoError(t, c.Handle(events.GherkinDocumentParsed{URI: featureURI, Document: document(scenario(3, "eat", astStep(4, "Given ", "a")))}))

		require.NoError(t, c.Handle(events.TestStepStarted{Index: 0, SourceLocation: at(featureURI, 3)}))
	})
}
