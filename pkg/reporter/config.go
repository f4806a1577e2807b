package reporter

// Config holds runtime configuration settings for cacik-events.
// Settings are merged from all sources (last wins).
// CLI flags (--no-color, --disable-log, --disable-reporter, --verbose, --json) always override code config.
type Config struct {
	// NoColor disables colored output.
	NoColor bool

	// DisableLog discards the structured log of the correlator and the
	// broadcasters.
	DisableLog bool

	// DisableReporter disables the console output (feature, scenario,
	// step and summary lines). Results are still collected.
	DisableReporter bool

	// Verbose logs every correlator transition at debug level.
	Verbose bool

	// JSON prints the collected run result as JSON instead of the summary.
	JSON bool

	// HTMLReport is the path of an HTML report to write. Empty writes none.
	HTMLReport string
}

// MergeConfigs combines multiple configs into one.
// Later configs override earlier ones (last wins).
func MergeConfigs(configs ...*Config) *Config {
	result := &Config{}

	for _, cfg := range configs {
		if cfg == nil {
			continue
		}

		if cfg.NoColor {
			result.NoColor = true
		}
		if cfg.DisableLog {
			result.DisableLog = true
		}
		if cfg.DisableReporter {
			result.DisableReporter = true
		}
		if cfg.Verbose {
			result.Verbose = true
		}
		if cfg.JSON {
			result.JSON = true
		}
		if cfg.HTMLReport != "" {
			result.HTMLReport = cfg.HTMLReport
		}
	}

	return result
}
