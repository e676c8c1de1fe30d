// Package model defines the domain types for the nihil CLI.
//
// The Docker daemon is the single source of truth for all container and
// image state. Types in this package are transient representations built
// on every invocation from CLI input plus daemon lookups; nothing here is
// ever persisted by nihil itself.
package model

import (
	"fmt"
	"os"
	"regexp"
	"time"
)

// WorkspaceTarget is the fixed path inside a container where the
// user's workspace directory is bind-mounted.
const WorkspaceTarget = "/workspace"

// DefaultShell is the interactive shell program launched inside a
// container when no explicit command is given.
const DefaultShell = "zsh"

// NetworkModeHost is the Docker network mode that shares the host's
// network namespace with the container. It is the one network mode that
// needs special care: raw packet tooling (responder, mitm6, ...) only
// works when the container sees the host's interfaces.
const NetworkModeHost = "host"

// ContainerState is the observed lifecycle phase of a container as
// reported by the Docker daemon. StateAbsent is a synthetic state meaning
// no container with the requested name exists; the daemon never reports it.
type ContainerState string

const (
	// StateAbsent means no container with this name exists on the daemon.
	StateAbsent ContainerState = "absent"

	// StateCreated means the container exists but has never been started.
	StateCreated ContainerState = "created"

	// StateRunning means the container's main process is running.
	StateRunning ContainerState = "running"

	// StateExited means the container ran and its main process terminated.
	StateExited ContainerState = "exited"

	// StatePaused means the container's processes are frozen via cgroups.
	// nihil never pauses containers itself, but another tool may have.
	StatePaused ContainerState = "paused"

	// StateUnknown covers every other daemon status (restarting, removing,
	// dead). Operations that need a well-understood state refuse to act
	// on it rather than guessing.
	StateUnknown ContainerState = "unknown"
)

// String returns the string representation of the state.
func (s ContainerState) String() string {
	return string(s)
}

// StateFromDaemon maps a raw status string from the Docker API
// (e.g. "running", "exited") to a ContainerState. Statuses nihil has no
// specific handling for collapse into StateUnknown.
func StateFromDaemon(status string) ContainerState {
	switch status {
	case "created":
		return StateCreated
	case "running":
		return StateRunning
	case "exited":
		return StateExited
	case "paused":
		return StatePaused
	default:
		return StateUnknown
	}
}

// ContainerSpec is the desired-state descriptor for a single container,
// built from CLI flags and config-file defaults. It is validated once at
// the boundary; the lifecycle manager assumes a Validate()d spec.
type ContainerSpec struct {
	// Name is the container name, unique per daemon.
	Name string

	// Image is the image reference to create the container from.
	// Empty means "pick the newest nihil image from the local catalog".
	Image string

	// Privileged grants the container all capabilities and device access.
	Privileged bool

	// NetworkMode is the Docker network mode. Empty means the daemon
	// default (bridge). "host" shares the host network namespace.
	NetworkMode string

	// Workspace is a host directory to bind-mount at WorkspaceTarget.
	// Empty means no mount.
	Workspace string

	// OpenShell requests an interactive shell session once the
	// container is running.
	OpenShell bool

	// Shell is the program used for interactive sessions.
	// Empty falls back to DefaultShell.
	Shell string
}

// nameRegex matches valid Docker container names. The daemon accepts
// [a-zA-Z0-9][a-zA-Z0-9_.-]* and rejects everything else, so we reject
// early with a clearer message than the API error.
var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// ValidateName checks that name is acceptable as a Docker container name.
func ValidateName(name string) error {
	if name == "" {
		return NewError(KindConfiguration, "container name must not be empty")
	}
	if !nameRegex.MatchString(name) {
		return NewError(KindConfiguration,
			fmt.Sprintf("invalid container name %q: must start with an alphanumeric character and contain only [a-zA-Z0-9_.-]", name))
	}
	return nil
}

// Validate checks the spec for configuration errors before any daemon
// interaction. A workspace path that does not exist or is not a directory
// is rejected here, never silently ignored.
func (s *ContainerSpec) Validate() error {
	if err := ValidateName(s.Name); err != nil {
		return err
	}

	if s.Workspace != "" {
		fi, err := os.Stat(s.Workspace)
		if err != nil {
			return WrapError(KindConfiguration,
				fmt.Sprintf("workspace path %q does not exist", s.Workspace), err)
		}
		if !fi.IsDir() {
			return NewError(KindConfiguration,
				fmt.Sprintf("workspace path %q is not a directory", s.Workspace))
		}
	}

	return nil
}

// ShellProgram returns the shell to use for interactive sessions,
// falling back to DefaultShell when the spec leaves it empty.
func (s *ContainerSpec) ShellProgram() string {
	if s.Shell != "" {
		return s.Shell
	}
	return DefaultShell
}

// ContainerInfo holds a snapshot of a container as reported by the
// daemon. It is read-only data for display and state decisions.
type ContainerInfo struct {
	// ID is the daemon-assigned container identifier.
	ID string `json:"id"`

	// Name is the container name without the API's leading "/".
	Name string `json:"name"`

	// Image is the image reference the container was created from.
	Image string `json:"image"`

	// State is the observed lifecycle phase.
	State ContainerState `json:"state"`

	// Privileged reports whether the container runs with full
	// capabilities, as recorded in its HostConfig.
	Privileged bool `json:"privileged"`

	// NetworkMode is the container's configured network mode.
	NetworkMode string `json:"networkMode"`

	// Labels is the full label set on the container.
	Labels map[string]string `json:"labels,omitempty"`
}

// ImageRecord describes one locally available image, sourced from the
// daemon's image list filtered to the nihil naming convention.
type ImageRecord struct {
	// Repository is the image repository
	// (e.g. "ghcr.io/thenullpigeons/nihil-images").
	Repository string `json:"repository"`

	// Tag is the image tag (e.g. "latest").
	Tag string `json:"tag"`

	// ID is the daemon-assigned image identifier.
	ID string `json:"id"`

	// Size is the image size in bytes.
	Size int64 `json:"size"`

	// CreatedAt is when the image was built.
	CreatedAt time.Time `json:"createdAt"`
}

// Reference returns the repository:tag form used to address the image.
func (r ImageRecord) Reference() string {
	return r.Repository + ":" + r.Tag
}

// RemoveResult is the per-name outcome of a batch remove. A nil Err
// means the name is gone, including the already-absent case.
type RemoveResult struct {
	// Name is the container name this result refers to.
	Name string `json:"name"`

	// Err is the failure for this name, nil on success.
	Err error `json:"-"`
}

// OK reports whether this entry succeeded.
func (r RemoveResult) OK() bool {
	return r.Err == nil
}
