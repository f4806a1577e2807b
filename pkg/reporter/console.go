package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/denizgursoy/cacik-events/pkg/events"
)

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"

	colorKeyword      = "\033[38;2;207;142;109m" // #CF8E6D keywords (Feature:, Scenario:, Given, etc.)
	colorText         = "\033[38;2;188;190;196m" // #BCBEC4 step text, feature/scenario names
	colorOutlineParam = "\033[38;2;199;125;187m" // #C77DBB <placeholder> params
	colorSkipped      = "\033[38;2;111;115;122m" // #6F737A skipped step text
	colorYellow       = "\033[33m"               // skipped and undefined step symbols
)

// Symbols for step status
const (
	symbolPass      = "✓"
	symbolFail      = "✗"
	symbolSkip      = "-"
	symbolUndefined = "?"
)

// ConsoleReporter prints the correlated lifecycle as it happens. Hooks are
// only printed when they fail.
type ConsoleReporter struct {
	out       io.Writer
	useColors bool
}

// NewConsoleReporter creates a reporter that prints to out.
func NewConsoleReporter(out io.Writer, useColors bool) *ConsoleReporter {
	return &ConsoleReporter{out: out, useColors: useColors}
}

// Emit prints one event.
func (r *ConsoleReporter) Emit(e events.Event) {
	switch ev := e.(type) {
	case events.FeatureStarted:
		if ev.Feature != nil {
			r.FeatureStart(ev.Feature.Name)
		}
	case events.ScenarioStarted:
		if ev.Scenario != nil {
			r.ScenarioStart(ev.Scenario.Name)
		}
	case events.StepFinished:
		r.stepFinished(ev)
	}
}

func (r *ConsoleReporter) stepFinished(e events.StepFinished) {
	step := e.Step
	if step == nil {
		return
	}

	if step.IsHook() {
		if e.Result.Status == events.StatusFailed {
			r.StepFailed(step.Keyword, fmt.Sprintf(" (line %d)", step.Location.Line), errorMessage(e.Result.Exception))
		}
		return
	}

	switch e.Result.Status {
	case events.StatusPassed:
		r.StepPassed(step.Keyword, step.Text)
	case events.StatusFailed:
		r.StepFailed(step.Keyword, step.Text, errorMessage(e.Result.Exception))
	case events.StatusSkipped:
		r.StepSkipped(step.Keyword, step.Text)
	default:
		r.StepUndefined(step.Keyword, step.Text, e.Result.Status)
	}
}

func (r *ConsoleReporter) write(s string) {
	fmt.Fprint(r.out, s)
}

func (r *ConsoleReporter) writeln(s string) {
	r.write(s + "\n")
}

func (r *ConsoleReporter) color(c, s string) string {
	if r.useColors {
		return c + s + colorReset
	}
	return s
}

// FeatureStart prints the feature header
func (r *ConsoleReporter) FeatureStart(name string) {
	r.writeln("")
	r.writeln(r.color(colorKeyword, "Feature:") + " " + r.color(colorText, name))
}

// ScenarioStart prints the scenario header.
// Segments enclosed in angle brackets (e.g. <param>) are highlighted with
// the outline-parameter color.
func (r *ConsoleReporter) ScenarioStart(name string) {
	r.writeln("")
	r.writeln("  " + r.color(colorKeyword, "Scenario:") + " " + r.colorizeOutlineParams(name))
}

// colorizeOutlineParams applies the text color to the name while highlighting
// <placeholder> segments with the outline-parameter color.
func (r *ConsoleReporter) colorizeOutlineParams(name string) string {
	if !r.useColors {
		return name
	}

	var b strings.Builder
	prev := 0
	for {
		start := strings.Index(name[prev:], "<")
		if start < 0 {
			break
		}
		start += prev
		end := strings.Index(name[start:], ">")
		if end < 0 {
			break
		}
		end += start + 1

		if start > prev {
			b.WriteString(colorText)
			b.WriteString(name[prev:start])
			b.WriteString(colorReset)
		}
		b.WriteString(colorOutlineParam)
		b.WriteString(name[start:end])
		b.WriteString(colorReset)
		prev = end
	}
	if prev == 0 {
		return colorText + name + colorReset
	}
	if prev < len(name) {
		b.WriteString(colorText)
		b.WriteString(name[prev:])
		b.WriteString(colorReset)
	}
	return b.String()
}

func (r *ConsoleReporter) formatStep(keyword, text string) string {
	return fmt.Sprintf("    %s%s", r.color(colorKeyword, keyword), r.color(colorText, text))
}

// StepPassed prints a passed step with green checkmark
func (r *ConsoleReporter) StepPassed(keyword, text string) {
	step := r.formatStep(keyword, text)
	symbol := r.color(colorGreen, symbolPass)
	r.writeln(fmt.Sprintf("%-60s %s", step, symbol))
}

// StepFailed prints a failed step with red X and error message
func (r *ConsoleReporter) StepFailed(keyword, text string, errMsg string) {
	step := r.formatStep(keyword, text)
	symbol := r.color(colorRed, symbolFail)
	r.writeln(fmt.Sprintf("%-60s %s", step, symbol))

	if errMsg != "" {
		for _, line := range strings.Split(errMsg, "\n") {
			r.writeln(r.color(colorRed, "      "+line))
		}
	}
}

// StepSkipped prints a skipped step with dimmed text and yellow dash
func (r *ConsoleReporter) StepSkipped(keyword, text string) {
	step := fmt.Sprintf("    %s%s", r.color(colorSkipped, keyword), r.color(colorSkipped, text))
	symbol := r.color(colorYellow, symbolSkip)
	r.writeln(fmt.Sprintf("%-60s %s", step, symbol))
}

// StepUndefined prints a pending, undefined or ambiguous step.
func (r *ConsoleReporter) StepUndefined(keyword, text string, status events.Status) {
	step := r.formatStep(keyword, text)
	symbol := r.color(colorYellow, symbolUndefined+" "+string(status))
	r.writeln(fmt.Sprintf("%-60s %s", step, symbol))
}

// PrintSummary prints the scenario and step counters followed by a table
// of the features.
func (r *ConsoleReporter) PrintSummary(result *RunResult) {
	summary := result.Summary

	r.writeln("")

	scenarioLine := fmt.Sprintf("%d scenario(s)", summary.ScenariosTotal)
	if summary.ScenariosTotal > 0 {
		parts := []string{}
		if summary.ScenariosPassed > 0 {
			parts = append(parts, r.color(colorGreen, fmt.Sprintf("%d passed", summary.ScenariosPassed)))
		}
		if summary.ScenariosFailed > 0 {
			parts = append(parts, r.color(colorRed, fmt.Sprintf("%d failed", summary.ScenariosFailed)))
		}
		if summary.ScenariosSkipped > 0 {
			parts = append(parts, r.color(colorYellow, fmt.Sprintf("%d skipped", summary.ScenariosSkipped)))
		}
		if len(parts) > 0 {
			scenarioLine += " (" + strings.Join(parts, ", ") + ")"
		}
	}
	r.writeln(scenarioLine)

	stepLine := fmt.Sprintf("%d step(s)", summary.StepsTotal)
	if summary.StepsTotal > 0 {
		parts := []string{}
		if summary.StepsPassed > 0 {
			parts = append(parts, r.color(colorGreen, fmt.Sprintf("%d passed", summary.StepsPassed)))
		}
		if summary.StepsFailed > 0 {
			parts = append(parts, r.color(colorRed, fmt.Sprintf("%d failed", summary.StepsFailed)))
		}
		if summary.StepsSkipped > 0 {
			parts = append(parts, r.color(colorYellow, fmt.Sprintf("%d skipped", summary.StepsSkipped)))
		}
		if summary.StepsUndefined > 0 {
			parts = append(parts, r.color(colorYellow, fmt.Sprintf("%d undefined", summary.StepsUndefined)))
		}
		if len(parts) > 0 {
			stepLine += " (" + strings.Join(parts, ", ") + ")"
		}
	}
	r.writeln(stepLine)

	if len(result.Features) > 0 {
		r.writeln("")
		r.write(SummaryTable(result, r.useColors))
	}
}
