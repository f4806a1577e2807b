package reporter

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// SummaryTable renders one row per feature with a total footer.
func SummaryTable(result *RunResult, useColors bool) string {
	var buf bytes.Buffer

	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.AppendHeader(table.Row{"FEATURE", "URI", "SCENARIOS", "PASSED", "FAILED", "SKIPPED", "DURATION", "STATUS"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "FEATURE", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "SCENARIOS", Align: text.AlignRight},
		{Name: "PASSED", Align: text.AlignRight},
		{Name: "FAILED", Align: text.AlignRight},
		{Name: "SKIPPED", Align: text.AlignRight},
		{Name: "DURATION", Align: text.AlignRight},
	})

	for _, feature := range result.Features {
		t.AppendRow(table.Row{
			feature.Name,
			feature.URI,
			feature.Summary.ScenariosTotal,
			feature.Summary.ScenariosPassed,
			feature.Summary.ScenariosFailed,
			feature.Summary.ScenariosSkipped,
			formatDuration(feature.Duration),
			statusLabel(feature.Summary),
		})
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		"",
		result.Summary.ScenariosTotal,
		result.Summary.ScenariosPassed,
		result.Summary.ScenariosFailed,
		result.Summary.ScenariosSkipped,
		formatDuration(result.Duration),
		statusLabel(result.Summary),
	})

	switch {
	case !useColors:
		t.SetStyle(table.StyleDefault)
	case result.Summary.ScenariosFailed > 0:
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	case result.Summary.ScenariosPassed == 0 && result.Summary.ScenariosTotal > 0:
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}

	t.Render()
	return buf.String()
}

func statusLabel(summary ReporterSummary) string {
	switch {
	case summary.ScenariosFailed > 0:
		return "FAIL"
	case summary.ScenariosPassed == 0 && summary.ScenariosTotal > 0:
		return "SKIP"
	default:
		return "PASS"
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.0fµs", float64(d)/float64(time.Microsecond))
	}
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
