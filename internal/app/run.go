package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/denizgursoy/cacik-events/pkg/reporter"
	"github.com/denizgursoy/cacik-events/pkg/runner"
)

// NewRunCmd creates the run subcommand. It broadcasts the events of the
// feature files under the given directories and reports them.
func NewRunCmd() *cobra.Command {
	config := &reporter.Config{}
	var (
		tags      string
		singleRun bool
	)

	cmd := &cobra.Command{
		Use:          "run [feature-directories...]",
		Short:        "Run the feature files and report the correlated events",
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPipeline(cmd, config)

			r := runner.New(
				runner.WithFeatureDirectories(args...),
				runner.WithTags(tags),
				runner.WithRunPerDocument(!singleRun),
				runner.WithLogger(p.logger),
			)
			if err := r.Run(cmd.Context(), p.correlator); err != nil {
				return fmt.Errorf("running features: %w", err)
			}

			return p.finish()
		},
	}
	addReporterFlags(cmd, config)
	cmd.Flags().StringVarP(&tags, "tags", "t", "", "tag expression selecting the scenarios to run")
	cmd.Flags().BoolVar(&singleRun, "single-run", false, "finish the whole run once instead of once per feature file")

	return cmd
}
