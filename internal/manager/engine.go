package manager

import (
	"context"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// Engine is the narrow daemon capability set the lifecycle manager
// consumes. *client.Client from the Docker SDK satisfies it; tests use a
// fake. Defining the interface on the consumer side keeps the manager
// decoupled from the SDK client's full surface.
type Engine interface {
	// ContainerInspect returns the full configuration and state of a
	// container, addressed by ID or name.
	ContainerInspect(ctx context.Context, containerID string) (types.ContainerJSON, error)

	// ContainerCreate creates a new container from the given configuration.
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)

	// ContainerStart starts a created or exited container.
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error

	// ContainerStop stops a running container with a grace period.
	ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error

	// ContainerRemove removes a container from the daemon.
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error

	// ContainerList returns a snapshot of containers on the daemon.
	ContainerList(ctx context.Context, options container.ListOptions) ([]types.Container, error)

	// ContainerExecCreate registers a new exec process in a running
	// container's namespace.
	ContainerExecCreate(ctx context.Context, containerID string, options container.ExecOptions) (types.IDResponse, error)

	// ContainerExecAttach attaches to an exec process's streams.
	ContainerExecAttach(ctx context.Context, execID string, options container.ExecAttachOptions) (types.HijackedResponse, error)

	// ContainerExecInspect reports an exec process's status and exit code.
	ContainerExecInspect(ctx context.Context, execID string) (container.ExecInspect, error)
}
