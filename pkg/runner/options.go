package runner

import "github.com/denizgursoy/cacik-events/pkg/correlator"

// Option configures a CucumberRunner.
type Option func(*CucumberRunner)

// WithFeatureDirectories sets where feature files are searched. The
// default is the working directory.
func WithFeatureDirectories(directories ...string) Option {
	return func(c *CucumberRunner) {
		c.featureDirectories = directories
	}
}

// WithTags keeps only the scenarios matching a tag expression.
func WithTags(expression string) Option {
	return func(c *CucumberRunner) {
		c.tags = expression
	}
}

// WithHooks adds scenario hooks.
func WithHooks(hooks ...*Hook) Option {
	return func(c *CucumberRunner) {
		c.hooks = append(c.hooks, hooks...)
	}
}

// WithStepRunner sets what executes steps and hooks. The default is a
// DryRunner.
func WithStepRunner(stepRunner StepRunner) Option {
	return func(c *CucumberRunner) {
		if stepRunner != nil {
			c.stepRunner = stepRunner
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger correlator.Logger) Option {
	return func(c *CucumberRunner) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRunPerDocument chooses between one test run per feature file, the
// default, and a single run over every file.
func WithRunPerDocument(perDocument bool) Option {
	return func(c *CucumberRunner) {
		c.perDocument = perDocument
	}
}

// WithIdGenerator sets how ast node and pickle ids are generated.
func WithIdGenerator(newId func() string) Option {
	return func(c *CucumberRunner) {
		if newId != nil {
			c.newId = newId
		}
	}
}
