package reporter

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/denizgursoy/cacik-events/pkg/events"
)

// tagGroup holds scenarios sharing the same tag combination.
type tagGroup struct {
	TagLabel  string           // e.g. "@smoke, @login" or "Untagged"
	Count     int              // number of scenarios in this tag group
	Duration  time.Duration    // sum of scenario durations in this tag group
	Scenarios []ScenarioResult // scenarios in this tag group
}

// statusSection holds a top-level failed/passed section with tag sub-groups.
type statusSection struct {
	Label     string
	CSSClass  string
	Count     int
	Duration  time.Duration
	TagGroups []tagGroup
}

// reportData is the view model passed to the HTML template.
type reportData struct {
	Summary       ReporterSummary
	TotalDuration time.Duration
	ExecutedAt    time.Time
	Sections      []statusSection
}

func sumDurations(scenarios []ScenarioResult) time.Duration {
	var total time.Duration
	for _, s := range scenarios {
		total += s.Duration
	}
	return total
}

// buildReportData groups and sorts scenarios for the HTML report.
// Order: failed section first (if any), then passed, then skipped.
// Within each section, scenarios are grouped by their tag set.
func buildReportData(result *RunResult) reportData {
	failed := make([]ScenarioResult, 0)
	passed := make([]ScenarioResult, 0)
	skipped := make([]ScenarioResult, 0)
	for _, s := range result.Scenarios() {
		switch s.Status {
		case events.StatusPassed:
			passed = append(passed, s)
		case events.StatusSkipped:
			skipped = append(skipped, s)
		default:
			failed = append(failed, s)
		}
	}

	var sections []statusSection
	for _, section := range []struct {
		label, class string
		scenarios    []ScenarioResult
	}{
		{"Failed Scenarios", "failed", failed},
		{"Passed Scenarios", "passed", passed},
		{"Skipped Scenarios", "skipped", skipped},
	} {
		if len(section.scenarios) == 0 {
			continue
		}
		sections = append(sections, statusSection{
			Label:     section.label,
			CSSClass:  section.class,
			Count:     len(section.scenarios),
			Duration:  sumDurations(section.scenarios),
			TagGroups: groupByTags(section.scenarios),
		})
	}

	return reportData{
		Summary:       result.Summary,
		TotalDuration: result.Duration,
		ExecutedAt:    result.StartedAt,
		Sections:      sections,
	}
}

// groupByTags groups scenarios by their sorted tag set.
// Scenarios with no tags go into an "Untagged" group shown last.
func groupByTags(scenarios []ScenarioResult) []tagGroup {
	groups := make(map[string][]ScenarioResult)
	for _, s := range scenarios {
		key := tagKey(s.Tags)
		groups[key] = append(groups[key], s)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]tagGroup, 0, len(keys))
	var untagged *tagGroup
	for _, k := range keys {
		scenarios := groups[k]
		tg := tagGroup{TagLabel: k, Count: len(scenarios), Duration: sumDurations(scenarios), Scenarios: scenarios}
		if k == "Untagged" {
			untagged = &tg
		} else {
			result = append(result, tg)
		}
	}
	if untagged != nil {
		result = append(result, *untagged)
	}
	return result
}

// tagKey builds a deterministic label from a scenario's tags.
func tagKey(tags []string) string {
	if len(tags) == 0 {
		return "Untagged"
	}
	sorted := make([]string, len(tags))
	copy(sorted, tags)
	sort.Strings(sorted)
	return strings.Join(sorted, ", ")
}

func statusSymbol(s events.Status) string {
	switch s {
	case events.StatusPassed:
		return "✓"
	case events.StatusFailed:
		return "✗"
	case events.StatusSkipped:
		return "–"
	default:
		return "?"
	}
}

// GenerateHTMLReport writes a self-contained HTML test report to the given path.
func GenerateHTMLReport(path string, result *RunResult) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("could not create report directory %q: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create report file %q: %w", path, err)
	}
	defer f.Close()

	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"statusSymbol":   statusSymbol,
		"formatDuration": formatDuration,
		"summaryClass": func(failed int) string {
			if failed > 0 {
				return "has-failures"
			}
			return "all-passed"
		},
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02 15:04:05")
		},
	}).Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("could not parse HTML template: %w", err)
	}

	if err := tmpl.Execute(f, buildReportData(result)); err != nil {
		return fmt.Errorf("could not render HTML report: %w", err)
	}

	return nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Test Execution Report</title>
<style>
  *, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    background: #f8f9fa; color: #212529; line-height: 1.6; padding: 2rem;
  }
  h1 { font-size: 1.5rem; margin-bottom: 0.25rem; font-weight: 700; }
  .executed-at { font-size: 0.8rem; color: #868e96; margin-bottom: 1.5rem; }
  .summary {
    display: flex; gap: 1rem; flex-wrap: wrap; margin-bottom: 2rem;
    padding: 1rem 1.25rem; background: #fff; border-radius: 10px;
  }
  .summary.all-passed { border: 2px solid #2b8a3e; background: #f6fef7; }
  .summary.has-failures { border: 2px solid #c92a2a; background: #fff5f5; }
  .summary-item { text-align: center; min-width: 90px; }
  .summary-item .number { font-size: 1.8rem; font-weight: 700; }
  .summary-item .label { font-size: 0.7rem; text-transform: uppercase; color: #868e96; }
  .section { margin-bottom: 2rem; }
  .section-header { font-size: 1.1rem; font-weight: 700; margin-bottom: 0.75rem; border-bottom: 2px solid #dee2e6; }
  .section.failed .section-header { color: #c92a2a; }
  .section.passed .section-header { color: #2b8a3e; }
  .section.skipped .section-header { color: #e67700; }
  .section-meta, .tag-group-meta { font-size: 0.8rem; font-weight: 500; color: #868e96; }
  .tag-group { margin-bottom: 1.25rem; }
  .tag-group-label { font-size: 0.8rem; font-weight: 600; color: #495057; margin-bottom: 0.4rem; }
  .scenario { margin-bottom: 0.5rem; background: #fff; border-radius: 8px; border: 1px solid #e9ecef; }
  .scenario summary { padding: 0.6rem 1rem; cursor: pointer; font-weight: 600; font-size: 0.9rem; }
  .scenario-meta { font-size: 0.78rem; color: #868e96; font-weight: 400; margin-left: 0.75rem; }
  .steps { padding: 0.5rem 1rem 0.75rem 1rem; background: #1e1f22; border-radius: 0 0 6px 6px; }
  .step { display: flex; gap: 0.5rem; font-family: "JetBrains Mono", monospace; font-size: 0.82rem; }
  .step-symbol { width: 1.2rem; text-align: center; font-weight: 700; }
  .step-symbol.passed { color: #32cd32; }
  .step-symbol.failed { color: #ff4444; }
  .step-symbol.skipped { color: #e6b800; }
  .step-keyword { color: #CF8E6D; font-weight: 600; white-space: pre; }
  .step-text { color: #BCBEC4; }
  .step-duration { margin-left: auto; color: #6F737A; font-size: 0.72rem; }
  .step-error { color: #ff4444; background: #2c1a1a; padding: 0.3rem 0.5rem; margin-left: 1.7rem; white-space: pre-wrap; }
  .empty-msg { color: #868e96; font-style: italic; padding: 1rem 0; text-align: center; }
</style>
</head>
<body>
<h1>Test Execution Report</h1>
{{if not .ExecutedAt.IsZero}}<div class="executed-at">Executed at {{formatTime .ExecutedAt}}</div>{{end}}
<div class="summary {{summaryClass .Summary.ScenariosFailed}}">
  <div class="summary-item"><div class="number">{{.Summary.ScenariosTotal}}</div><div class="label">Scenarios</div></div>
  <div class="summary-item"><div class="number">{{.Summary.ScenariosPassed}}</div><div class="label">Passed</div></div>
  <div class="summary-item"><div class="number">{{.Summary.ScenariosFailed}}</div><div class="label">Failed</div></div>
  <div class="summary-item"><div class="number">{{.Summary.ScenariosSkipped}}</div><div class="label">Skipped</div></div>
  <div class="summary-item"><div class="number">{{.Summary.StepsTotal}}</div><div class="label">Steps</div></div>
  <div class="summary-item"><div class="number">{{formatDuration .TotalDuration}}</div><div class="label">Duration</div></div>
</div>
{{range .Sections}}
<div class="section {{.CSSClass}}">
  <div class="section-header">{{.Label}} <span class="section-meta">{{.Count}} scenario(s), {{formatDuration .Duration}}</span></div>
  {{range .TagGroups}}
  <div class="tag-group">
    <div class="tag-group-label">{{.TagLabel}} <span class="tag-group-meta">{{.Count}} scenario(s), {{formatDuration .Duration}}</span></div>
    {{range .Scenarios}}
    <details class="scenario">
      <summary>{{.Name}}<span class="scenario-meta">{{.FeatureName}} {{.URI}}:{{.Line}} {{formatDuration .Duration}}</span></summary>
      <div class="steps">
        {{range .Steps}}
        <div class="step">
          <span class="step-symbol {{.Status}}">{{statusSymbol .Status}}</span>
          <span class="step-keyword">{{.Keyword}}</span>
          <span class="step-text">{{.Text}}</span>
          <span class="step-duration">{{formatDuration .Duration}}</span>
        </div>
        {{if .Error}}<div class="step-error">{{.Error}}</div>{{end}}
        {{end}}
      </div>
    </details>
    {{end}}
  </div>
  {{end}}
</div>
{{else}}
<div class="empty-msg">No scenarios were executed.</div>
{{end}}
</body>
</html>
`
