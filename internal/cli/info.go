// info.go implements "nihil info": a fresh snapshot of the local nihil
// images and the containers nihil manages, straight from the daemon.
package cli

import (
	"context"
	"fmt"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/thenullpigeons/nihil/internal/format"
	"github.com/thenullpigeons/nihil/internal/model"
)

// NewInfoCommand creates the "info" cobra command.
func NewInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show nihil images and containers",
		Long: `Display the locally available nihil images and all nihil-managed
containers with their state. Both lists are fresh daemon queries.

Examples:
  nihil info`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.Context())
		},
	}
}

// runInfo prints the image catalog and the managed-container list.
func runInfo(ctx context.Context) error {
	cli, mgr, images, err := connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	fmt.Println(format.Banner(Version))
	fmt.Println()

	records, err := images.ListManaged(ctx)
	if err != nil {
		return err
	}

	fmt.Println(format.Header("Available images"))
	if len(records) == 0 {
		fmt.Println("  No nihil images found.")
	}
	for _, rec := range records {
		fmt.Printf("  • %-45s %10s\n", rec.Reference(), units.HumanSize(float64(rec.Size)))
	}
	fmt.Println()

	containers, err := mgr.ListContainers(ctx)
	if err != nil {
		return err
	}

	fmt.Println(format.Header("Containers"))
	if len(containers) == 0 {
		fmt.Println("  No nihil containers found.")
	}
	for _, c := range containers {
		fmt.Printf("  • %-20s [%-8s] %-35s %s\n",
			c.Name, c.State, c.Image, containerTraits(c))
	}

	return nil
}

// containerTraits summarizes the security-relevant configuration of a
// container for the info listing.
func containerTraits(c model.ContainerInfo) string {
	traits := "standard"
	if c.Privileged {
		traits = "privileged"
	}
	if c.NetworkMode == model.NetworkModeHost {
		traits += ", host network"
	}
	return traits
}
