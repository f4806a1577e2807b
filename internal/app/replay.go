package app

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/denizgursoy/cacik-events/pkg/envelope"
	"github.com/denizgursoy/cacik-events/pkg/reporter"
)

// NewReplayCmd creates the replay subcommand. It reads an NDJSON stream of
// cucumber messages, from a file or from stdin when the path is "-", and
// reports the correlated events.
func NewReplayCmd() *cobra.Command {
	config := &reporter.Config{}

	cmd := &cobra.Command{
		Use:          "replay <messages-file|->",
		Short:        "Replay a cucumber messages stream and report the correlated events",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var reader io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening messages: %w", err)
				}
				defer file.Close()
				reader = file
			}

			p := newPipeline(cmd, config)

			translator := envelope.New(envelope.WithLogger(p.logger))
			if err := translator.Stream(cmd.Context(), reader, p.correlator); err != nil {
				return fmt.Errorf("replaying messages: %w", err)
			}

			return p.finish()
		},
	}
	addReporterFlags(cmd, config)

	return cmd
}
