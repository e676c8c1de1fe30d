package manager

import (
	"fmt"
	"strings"

	"github.com/docker/docker/api/types"

	"github.com/thenullpigeons/nihil/internal/model"
)

// checkCompatible verifies that an existing container's recorded
// configuration does not contradict the flags requested in spec. An
// existing container's runtime config is immutable, so a contradiction is
// surfaced as a name conflict instead of silently starting the container
// with stale settings.
//
// Flags at their zero value express no requirement: `nihil start x` after
// `nihil start x --privileged` starts the privileged container unchanged.
func checkCompatible(info types.ContainerJSON, spec model.ContainerSpec) error {
	var conflicts []string

	if info.HostConfig != nil {
		if spec.Privileged && !info.HostConfig.Privileged {
			conflicts = append(conflicts,
				"--privileged requested but the container was created unprivileged")
		}
		if spec.NetworkMode != "" &&
			normalizeNetworkMode(string(info.HostConfig.NetworkMode)) != normalizeNetworkMode(spec.NetworkMode) {
			conflicts = append(conflicts, fmt.Sprintf(
				"--network %s requested but the container uses network mode %q",
				spec.NetworkMode, info.HostConfig.NetworkMode))
		}
	}

	if spec.Workspace != "" && !hasWorkspaceMount(info, spec.Workspace) {
		conflicts = append(conflicts, fmt.Sprintf(
			"--workspace %s requested but the container has no such mount at %s",
			spec.Workspace, model.WorkspaceTarget))
	}

	if len(conflicts) == 0 {
		return nil
	}

	return model.NewError(model.KindNameConflict, fmt.Sprintf(
		"container %q exists with an incompatible configuration (%s): remove it or pick another name",
		spec.Name, strings.Join(conflicts, "; ")))
}

// normalizeNetworkMode collapses the daemon's spellings of the default
// network. A container created without an explicit mode is recorded as
// "default" or "bridge" depending on daemon version; all of them name
// the same network.
func normalizeNetworkMode(mode string) string {
	switch mode {
	case "", "default":
		return "bridge"
	default:
		return mode
	}
}

// hasWorkspaceMount reports whether the container bind-mounts hostPath at
// the workspace target.
func hasWorkspaceMount(info types.ContainerJSON, hostPath string) bool {
	for _, m := range info.Mounts {
		if m.Destination == model.WorkspaceTarget && m.Source == hostPath {
			return true
		}
	}
	return false
}
