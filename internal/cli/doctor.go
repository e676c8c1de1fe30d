// doctor.go implements "nihil doctor": a short health report on the
// local environment. Checks run in dependency order (runtime facts,
// daemon reachability, default image) and the first hard failure
// determines the exit code so scripts can react to it.
package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/thenullpigeons/nihil/internal/catalog"
	"github.com/thenullpigeons/nihil/internal/docker"
	"github.com/thenullpigeons/nihil/internal/format"
)

// NewDoctorCommand creates the "doctor" cobra command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run environment diagnostics",
		Long: `Check the local environment: OS, DOCKER_HOST, Docker daemon
reachability, and the presence of the default nihil image.

Examples:
  nihil doctor`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.Context())
		},
	}
}

// runDoctor prints the health report. Daemon unreachability is the only
// hard failure; a missing default image is just a warning since the user
// may work exclusively with custom images.
func runDoctor(ctx context.Context) error {
	fmt.Println(format.Header("nihil doctor"))

	fmt.Println(format.Success(fmt.Sprintf("OS: %s/%s", runtime.GOOS, runtime.GOARCH)))

	dockerHost := os.Getenv("DOCKER_HOST")
	if dockerHost == "" {
		dockerHost = "<unset, using local socket>"
	}
	fmt.Println(format.Success("DOCKER_HOST: " + dockerHost))

	cli, err := docker.NewClient()
	if err != nil {
		fmt.Println(format.Error("Docker daemon accessible"))
		return err
	}
	defer func() { _ = cli.Close() }()

	if err := cli.Ping(ctx); err != nil {
		fmt.Println(format.Error("Docker daemon accessible"))
		return err
	}
	fmt.Println(format.Success("Docker daemon accessible"))

	images := catalog.NewReader(cli.API(), logger)
	present, err := images.HasImage(ctx, catalog.DefaultImage)
	switch {
	case err != nil:
		fmt.Println(format.Error(fmt.Sprintf("Default image check failed: %v", err)))
		return err
	case present:
		fmt.Println(format.Success(fmt.Sprintf("Default image available (%s)", catalog.DefaultImage)))
	default:
		fmt.Println(format.Warning(fmt.Sprintf(
			"Default image missing (%s): run `docker pull %s` or pass --image to start",
			catalog.DefaultImage, catalog.DefaultImage)))
	}

	return nil
}
