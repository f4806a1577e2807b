// Package app implements the cacik-events CLI commands.
package app

import (
	"errors"

	"github.com/spf13/cobra"
)

// ErrScenariosFailed is returned by run and replay when at least one
// scenario did not pass, so the process exits with a non-zero code.
var ErrScenariosFailed = errors.New("one or more scenarios failed")

// NewRootCmd creates the root cacik-events command with all subcommands
// registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cacik-events",
		Short:         "cacik-events - correlate cucumber test events with their gherkin source",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.AddCommand(NewRunCmd())
	root.AddCommand(NewReplayCmd())
	root.AddCommand(NewGenerateCmd())
	return root
}
