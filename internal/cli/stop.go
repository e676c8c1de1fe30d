// stop.go implements "nihil stop": gracefully stop a running container.
// The container and its data are kept; "nihil start" brings it back.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenullpigeons/nihil/internal/format"
)

// NewStopCommand creates the "stop" cobra command.
func NewStopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop <name>",
		Short: "Stop a container",
		Long: `Stop the named container with a graceful shutdown period. The container
is preserved and can be started again later. Stopping a container that is
already stopped is not an error.

Examples:
  nihil stop recon`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runStop(cmd.Context(), args[0])
		},
	}
}

// runStop connects to the daemon and stops the named container.
func runStop(ctx context.Context, name string) error {
	cli, mgr, _, err := connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	if err := mgr.Stop(ctx, name); err != nil {
		return err
	}

	fmt.Println(format.Success(fmt.Sprintf("Container %q stopped.", name)))
	return nil
}
