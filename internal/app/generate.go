package app

import (
	"github.com/spf13/cobra"

	"github.com/denizgursoy/cacik-events/internal/generator"
)

// NewGenerateCmd creates the generate subcommand writing a go test that
// runs the feature files of the current package.
func NewGenerateCmd() *cobra.Command {
	options := generator.Options{}

	cmd := &cobra.Command{
		Use:          "generate",
		Short:        "Generate a go test running the feature files of a package",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return generator.StartGenerator(options)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&options.Directory, "dir", "d", "", "package directory to write the test into (default: working directory)")
	flags.StringSliceVarP(&options.FeatureDirectories, "features", "f", nil, "feature directories relative to the package")
	flags.StringVarP(&options.Tags, "tags", "t", "", "tag expression selecting the scenarios to run")
	flags.BoolVar(&options.NoColor, "no-color", false, "disable colored output in the generated test")

	return cmd
}
