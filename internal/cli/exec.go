// exec.go implements "nihil exec": run a command inside a running
// container, defaulting to an interactive shell. The remote process's
// exit code becomes nihil's own exit code, so the command composes with
// shell conditionals and scripts.
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewExecCommand creates the "exec" cobra command.
func NewExecCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec <name> [command...]",
		Short: "Execute a command in a running container",
		Long: `Attach a new process inside the named container's namespace. Without a
command, an interactive shell is opened. The container must already be
running; exec does not start it.

The remote command's exit code is forwarded unchanged.

Examples:
  nihil exec recon
  nihil exec recon nmap -sV 10.0.0.0/24
  echo 'id' | nihil exec recon sh`,

		Args: cobra.MinimumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd.Context(), args[0], args[1:])
		},
	}

	// Flags after the container name belong to the remote command
	// (nihil exec recon nmap -sV target), not to nihil.
	cmd.Flags().SetInterspersed(false)

	return cmd
}

// runExec attaches the session and records the forwarded exit code for
// Execute to report.
func runExec(ctx context.Context, name string, command []string) error {
	cli, mgr, _, err := connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	code, err := runSession(ctx, mgr, name, command, "")
	if err != nil {
		return err
	}

	sessionExitCode = code
	return nil
}
