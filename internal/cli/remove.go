// remove.go implements "nihil remove": remove one or more containers.
// Names are processed independently; a failure on one name never aborts
// the rest of the batch, and removing an already-absent name succeeds.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenullpigeons/nihil/internal/format"
	"github.com/thenullpigeons/nihil/internal/model"
)

// removeFlags holds the flag values for the remove command.
type removeFlags struct {
	// force removes running containers without requiring a prior stop.
	force bool
}

// NewRemoveCommand creates the "remove" cobra command.
func NewRemoveCommand() *cobra.Command {
	flags := &removeFlags{}

	cmd := &cobra.Command{
		Use:   "remove <name>...",
		Short: "Remove one or more containers",
		Long: `Remove the named containers. Running containers are refused unless
--force is given. Each name is handled independently: failures are
reported per name and the remaining names are still processed. Removing
a container that does not exist counts as success.

Examples:
  nihil remove recon
  nihil remove test1 test2 --force`,

		Args: cobra.MinimumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd.Context(), args, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Remove running containers too")

	return cmd
}

// runRemove removes the batch and reports one line per name. The overall
// error (and so the exit code) reflects the first failing entry.
func runRemove(ctx context.Context, names []string, flags *removeFlags) error {
	cli, mgr, _, err := connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	results := mgr.Remove(ctx, names, flags.force)

	var firstErr error
	failed := 0
	for _, res := range results {
		if res.OK() {
			fmt.Println(format.Success(fmt.Sprintf("Container %q removed.", res.Name)))
			continue
		}
		failed++
		fmt.Println(format.Error(res.Err.Error()))
		if firstErr == nil {
			firstErr = res.Err
		}
	}

	if firstErr != nil {
		// Per-name details were already printed; the aggregate keeps the
		// first failure's kind so the exit code stays meaningful.
		kind := model.KindGeneral
		var cliErr *model.CLIError
		if errors.As(firstErr, &cliErr) {
			kind = cliErr.Kind
		}
		return model.NewError(kind,
			fmt.Sprintf("removed %d of %d containers", len(results)-failed, len(results)))
	}
	return nil
}
