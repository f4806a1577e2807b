package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/denizgursoy/cacik-events/pkg/correlator"
	"github.com/denizgursoy/cacik-events/pkg/reporter"
)

// pipeline is the consuming side shared by run and replay: a correlator
// feeding the console reporter and the result collector.
type pipeline struct {
	config     *reporter.Config
	logger     *slog.Logger
	console    *reporter.ConsoleReporter
	collector  *reporter.Collector
	correlator *correlator.Correlator
	out        io.Writer
}

func addReporterFlags(cmd *cobra.Command, config *reporter.Config) {
	flags := cmd.Flags()
	flags.BoolVar(&config.NoColor, "no-color", false, "disable colored output")
	flags.BoolVar(&config.DisableLog, "disable-log", false, "discard the structured log")
	flags.BoolVar(&config.DisableReporter, "disable-reporter", false, "disable the console output")
	flags.BoolVarP(&config.Verbose, "verbose", "v", false, "log every correlation at debug level")
	flags.BoolVar(&config.JSON, "json", false, "print the run result as JSON")
	flags.StringVar(&config.HTMLReport, "html-report", "", "write an HTML report to the given path")
}

func newLogger(cmd *cobra.Command, config *reporter.Config) *slog.Logger {
	if config.DisableLog {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	level := slog.LevelWarn
	if config.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func newPipeline(cmd *cobra.Command, configs ...*reporter.Config) *pipeline {
	config := reporter.MergeConfigs(configs...)
	out := cmd.OutOrStdout()

	consoleOut := out
	if config.DisableReporter || config.JSON {
		consoleOut = io.Discard
	}

	p := &pipeline{
		config:    config,
		logger:    newLogger(cmd, config),
		console:   reporter.NewConsoleReporter(consoleOut, !config.NoColor),
		collector: reporter.NewCollector(),
		out:       out,
	}
	p.correlator = correlator.New(
		correlator.Fanout{p.console, p.collector},
		correlator.WithLogger(p.logger),
	)

	return p
}

// finish reports the collected result and turns a failed run into
// ErrScenariosFailed.
func (p *pipeline) finish() error {
	result := p.collector.Result()

	if p.config.JSON {
		if err := reporter.WriteJSON(p.out, result); err != nil {
			return err
		}
	} else {
		p.console.PrintSummary(result)
	}

	if p.config.HTMLReport != "" {
		if err := reporter.GenerateHTMLReport(p.config.HTMLReport, result); err != nil {
			return err
		}
		p.logger.Info("html report written", "path", p.config.HTMLReport)
	}

	if open := p.correlator.OpenDocuments(); len(open) > 0 {
		p.logger.Warn("documents were never closed", "uris", open)
	}

	if !result.Success {
		return fmt.Errorf("%w: %d of %d", ErrScenariosFailed, result.Summary.ScenariosFailed, result.Summary.ScenariosTotal)
	}
	return nil
}
