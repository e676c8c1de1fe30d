// start.go implements "nihil start": bring a named container into the
// running state, creating it first when it does not exist, then drop the
// user into a shell inside it unless --no-shell is given.
package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thenullpigeons/nihil/internal/config"
	"github.com/thenullpigeons/nihil/internal/format"
	"github.com/thenullpigeons/nihil/internal/model"
)

// startFlags holds the flag values for the start command.
type startFlags struct {
	image      string
	privileged bool
	network    string
	workspace  string
	shell      string
	noShell    bool
}

// NewStartCommand creates the "start" cobra command.
func NewStartCommand() *cobra.Command {
	flags := &startFlags{}

	cmd := &cobra.Command{
		Use:   "start <name>",
		Short: "Start a container, creating it if needed",
		Long: `Start the named container. If no container with that name exists, one is
created from the newest nihil image available locally (or from --image)
and started. Flags configuring the container (--privileged, --network,
--workspace) only apply at creation time; requesting them against an
existing container with a different configuration is an error.

Unless --no-shell is given, an interactive shell is opened in the
container once it is running.

Examples:
  nihil start recon
  nihil start recon --privileged --network host
  nihil start recon --workspace ~/engagements/acme --no-shell`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.image, "image", "", "Image to create the container from (default: newest local nihil image)")
	cmd.Flags().BoolVar(&flags.privileged, "privileged", false, "Run the container in privileged mode")
	cmd.Flags().StringVar(&flags.network, "network", "", "Network mode (e.g. host)")
	cmd.Flags().StringVar(&flags.workspace, "workspace", "", "Host directory to mount at "+model.WorkspaceTarget)
	cmd.Flags().StringVar(&flags.shell, "shell", "", "Shell program for the interactive session")
	cmd.Flags().BoolVar(&flags.noShell, "no-shell", false, "Do not open a shell after starting")

	return cmd
}

// runStart builds the container spec from flags and config-file defaults,
// reconciles it against the daemon, and optionally opens a shell.
func runStart(ctx context.Context, name string, flags *startFlags) error {
	spec, err := buildSpec(name, flags)
	if err != nil {
		return err
	}
	// Reject bad input before touching the daemon.
	if err := spec.Validate(); err != nil {
		return err
	}

	cli, mgr, _, err := connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	fmt.Println(format.Info(fmt.Sprintf("Looking for container %q...", name)))

	handle, err := mgr.EnsureAndStart(ctx, spec)
	if err != nil {
		return err
	}

	fmt.Println(format.Success(fmt.Sprintf("Container %q is running.", handle.Name)))

	if spec.OpenShell {
		fmt.Println(format.Info(fmt.Sprintf("Connecting to container %q...", name)))
		// The shell's own exit status is not the command's outcome:
		// leaving the shell with a failing last command is normal.
		if _, err := runSession(ctx, mgr, name, nil, spec.ShellProgram()); err != nil {
			return err
		}
	}

	return nil
}

// buildSpec merges flags with config-file defaults into a ContainerSpec.
func buildSpec(name string, flags *startFlags) (model.ContainerSpec, error) {
	cfg, err := config.Load()
	if err != nil {
		return model.ContainerSpec{}, model.WrapError(model.KindConfiguration,
			"could not load configuration", err)
	}
	return mergeSpec(name, flags, cfg)
}

// mergeSpec combines flag values with config-file defaults. Flags win
// over the config file; the config file wins over built-ins.
func mergeSpec(name string, flags *startFlags, cfg *config.Config) (model.ContainerSpec, error) {
	spec := model.ContainerSpec{
		Name:        name,
		Image:       firstNonEmpty(flags.image, cfg.Image),
		Privileged:  flags.privileged,
		NetworkMode: firstNonEmpty(flags.network, cfg.Network),
		Workspace:   firstNonEmpty(flags.workspace, cfg.Workspace),
		Shell:       firstNonEmpty(flags.shell, cfg.Shell),
		OpenShell:   !flags.noShell,
	}

	if spec.Workspace != "" {
		abs, err := filepath.Abs(spec.Workspace)
		if err != nil {
			return model.ContainerSpec{}, model.WrapError(model.KindConfiguration,
				fmt.Sprintf("cannot resolve workspace path %q", spec.Workspace), err)
		}
		spec.Workspace = abs
	}

	return spec, nil
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
