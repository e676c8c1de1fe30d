package manager

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/client"

	"github.com/thenullpigeons/nihil/internal/docker"
	"github.com/thenullpigeons/nihil/internal/model"
)

// stopGracePeriod is how long a container gets to shut down cleanly
// before the daemon kills it. Matches Docker's conventional default but
// is passed explicitly so the bound is visible in the stop request.
const stopGracePeriod = 10 * time.Second

// ImageSource supplies images for the auto-create path. The catalog
// reader implements it against the daemon's image list.
type ImageSource interface {
	// ListManaged returns locally available nihil images,
	// newest first.
	ListManaged(ctx context.Context) ([]model.ImageRecord, error)

	// EnsureImage makes sure ref is available locally, pulling it
	// from the registry when missing.
	EnsureImage(ctx context.Context, ref string) error
}

// RunningContainer is a handle to a container the manager has brought
// into the running state.
type RunningContainer struct {
	// ID is the daemon-assigned container identifier.
	ID string

	// Name is the container name.
	Name string
}

// Manager reconciles desired container state with the daemon's actual
// state. It is stateless: every operation starts from a fresh daemon
// query, so a Manager can be reused across operations without
// invalidation concerns.
type Manager struct {
	engine Engine
	images ImageSource
	logger *log.Logger
}

// New creates a Manager on top of the given engine and image source.
// A nil logger falls back to the package default.
func New(engine Engine, images ImageSource, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{engine: engine, images: images, logger: logger}
}

// Resolve queries the daemon for the container's current state.
// A missing container yields StateAbsent, never an error.
func (m *Manager) Resolve(ctx context.Context, name string) (model.ContainerState, error) {
	_, state, err := m.inspect(ctx, name)
	return state, err
}

// inspect fetches the container's full configuration along with its
// mapped state. When the container is absent the returned response is
// zero-valued and state is StateAbsent.
func (m *Manager) inspect(ctx context.Context, name string) (types.ContainerJSON, model.ContainerState, error) {
	info, err := m.engine.ContainerInspect(ctx, name)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return types.ContainerJSON{}, model.StateAbsent, nil
		}
		return types.ContainerJSON{}, model.StateUnknown,
			daemonError(fmt.Sprintf("failed to inspect container %q", name), err)
	}

	state := model.StateUnknown
	if info.State != nil {
		state = model.StateFromDaemon(info.State.Status)
	}
	return info, state, nil
}

// EnsureAndStart brings a container matching spec into the running state.
//
// Depending on the observed state:
//   - absent: create the container (resolving the image from the catalog
//     when spec.Image is empty) and start it
//   - created/exited: start the existing container after checking that
//     its recorded configuration does not contradict the requested flags
//   - running: no-op, aside from the same configuration check
//   - paused/unknown: refuse with an invalid-state error
//
// Creation is idempotent by name: a "name already in use" conflict from
// the daemon (another invocation racing us) is treated as success and the
// existing container is started instead.
func (m *Manager) EnsureAndStart(ctx context.Context, spec model.ContainerSpec) (*RunningContainer, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	info, state, err := m.inspect(ctx, spec.Name)
	if err != nil {
		return nil, err
	}

	if state == model.StateAbsent {
		created, err := m.create(ctx, spec)
		if err != nil {
			return nil, err
		}
		if created != nil {
			if err := m.start(ctx, spec.Name, created.ID); err != nil {
				return nil, err
			}
			return created, nil
		}

		// Lost a create race: the name exists now. Re-resolve and fall
		// through to the existing-container path.
		info, state, err = m.inspect(ctx, spec.Name)
		if err != nil {
			return nil, err
		}
		if state == model.StateAbsent {
			return nil, model.NewError(model.KindGeneral,
				fmt.Sprintf("container %q vanished between create and start", spec.Name))
		}
	}

	switch state {
	case model.StateCreated, model.StateExited, model.StateRunning:
		if err := checkCompatible(info, spec); err != nil {
			return nil, err
		}
	case model.StatePaused:
		return nil, model.NewError(model.KindInvalidState,
			fmt.Sprintf("container %q is paused: unpause or remove it first", spec.Name))
	default:
		return nil, model.NewError(model.KindInvalidState,
			fmt.Sprintf("container %q is in state %q and cannot be started", spec.Name, stateLabel(info)))
	}

	if state != model.StateRunning {
		if err := m.start(ctx, spec.Name, info.ID); err != nil {
			return nil, err
		}
	} else {
		m.logger.Debug("container already running", "name", spec.Name)
	}

	return &RunningContainer{ID: info.ID, Name: spec.Name}, nil
}

// create provisions a new container for spec. It returns (nil, nil) when
// the daemon reports a name conflict, signalling the caller to re-resolve.
func (m *Manager) create(ctx context.Context, spec model.ContainerSpec) (*RunningContainer, error) {
	imageRef := spec.Image
	if imageRef == "" {
		records, err := m.images.ListManaged(ctx)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, model.NewError(model.KindNoImage,
				"no nihil image available locally: pull one or pass --image")
		}
		// Records are newest-first, so the latest build wins.
		imageRef = records[0].Reference()
		m.logger.Debug("resolved image from catalog", "image", imageRef)
	} else if err := m.images.EnsureImage(ctx, imageRef); err != nil {
		return nil, err
	}

	config, hostConfig := buildCreateConfig(spec, imageRef, time.Now())

	m.logger.Debug("creating container",
		"name", spec.Name, "image", imageRef,
		"privileged", spec.Privileged, "network", spec.NetworkMode)

	resp, err := m.engine.ContainerCreate(ctx, config, hostConfig, nil, nil, spec.Name)
	if err != nil {
		if errdefs.IsConflict(err) {
			// Another process created the name first. Idempotent by name:
			// not a failure.
			m.logger.Debug("create race lost, re-resolving", "name", spec.Name)
			return nil, nil
		}
		return nil, daemonError(fmt.Sprintf("failed to create container %q", spec.Name), err)
	}

	return &RunningContainer{ID: resp.ID, Name: spec.Name}, nil
}

// buildCreateConfig translates a validated spec into the daemon's create
// parameters. Containers are created with a TTY and an open stdin so an
// interactive shell can attach at any later point.
func buildCreateConfig(spec model.ContainerSpec, imageRef string, now time.Time) (*container.Config, *container.HostConfig) {
	config := &container.Config{
		Image:     imageRef,
		Tty:       true,
		OpenStdin: true,
		Labels:    docker.ManagedLabels(spec.Workspace, now),
	}

	hostConfig := &container.HostConfig{
		Privileged: spec.Privileged,
	}

	if spec.NetworkMode != "" {
		hostConfig.NetworkMode = container.NetworkMode(spec.NetworkMode)
	}

	if spec.Workspace != "" {
		hostConfig.Mounts = []mount.Mount{{
			Type:   mount.TypeBind,
			Source: spec.Workspace,
			Target: model.WorkspaceTarget,
		}}
		// Land the user in the mounted workspace.
		config.WorkingDir = model.WorkspaceTarget
	}

	return config, hostConfig
}

// start starts a container by ID, preferring the name in error messages.
func (m *Manager) start(ctx context.Context, name, id string) error {
	m.logger.Debug("starting container", "name", name)
	if err := m.engine.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		return daemonError(fmt.Sprintf("failed to start container %q", name), err)
	}
	return nil
}

// Stop stops the named container with a bounded grace period.
// Stopping a container that is already created or exited is a no-op;
// stopping an absent container is a not-found error.
func (m *Manager) Stop(ctx context.Context, name string) error {
	info, state, err := m.inspect(ctx, name)
	if err != nil {
		return err
	}

	switch state {
	case model.StateAbsent:
		return model.NewError(model.KindNotFound,
			fmt.Sprintf("container %q does not exist", name))
	case model.StateCreated, model.StateExited:
		m.logger.Debug("container already stopped", "name", name, "state", state)
		return nil
	case model.StateRunning, model.StatePaused:
		// Fall through to the stop request. A paused container is
		// stopped too: the daemon handles the unfreeze.
	default:
		return model.NewError(model.KindInvalidState,
			fmt.Sprintf("container %q is in state %q and cannot be stopped", name, stateLabel(info)))
	}

	timeout := int(stopGracePeriod.Seconds())
	m.logger.Debug("stopping container", "name", name, "grace", stopGracePeriod)
	if err := m.engine.ContainerStop(ctx, info.ID, container.StopOptions{Timeout: &timeout}); err != nil {
		return daemonError(fmt.Sprintf("failed to stop container %q", name), err)
	}
	return nil
}

// Remove removes the named containers, processing each name
// independently so one failure does not abort the batch. Removing an
// absent name counts as success. A running container is only removed
// when force is set; otherwise its entry records a container-running
// error and the container is left untouched.
func (m *Manager) Remove(ctx context.Context, names []string, force bool) []model.RemoveResult {
	results := make([]model.RemoveResult, 0, len(names))
	for _, name := range names {
		results = append(results, model.RemoveResult{
			Name: name,
			Err:  m.removeOne(ctx, name, force),
		})
	}
	return results
}

// removeOne removes a single container, applying the force semantics.
func (m *Manager) removeOne(ctx context.Context, name string, force bool) error {
	info, state, err := m.inspect(ctx, name)
	if err != nil {
		return err
	}

	switch {
	case state == model.StateAbsent:
		// Already satisfied.
		m.logger.Debug("container already absent", "name", name)
		return nil
	case state == model.StateRunning && !force:
		return model.NewError(model.KindContainerRunning,
			fmt.Sprintf("container %q is running: stop it first or use --force", name))
	}

	m.logger.Debug("removing container", "name", name, "force", force)
	err = m.engine.ContainerRemove(ctx, info.ID, container.RemoveOptions{Force: force})
	if err != nil {
		// A concurrent removal getting there first is still success.
		if errdefs.IsNotFound(err) {
			return nil
		}
		return daemonError(fmt.Sprintf("failed to remove container %q", name), err)
	}
	return nil
}

// ListContainers returns a fresh snapshot of all nihil-managed containers,
// including stopped ones. Privileged status comes from a per-container
// inspect since the list endpoint does not expose host configuration.
func (m *Manager) ListContainers(ctx context.Context) ([]model.ContainerInfo, error) {
	summaries, err := m.engine.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: docker.ManagedFilter(),
	})
	if err != nil {
		return nil, daemonError("failed to list containers", err)
	}

	result := make([]model.ContainerInfo, 0, len(summaries))
	for _, s := range summaries {
		info := summaryToInfo(s)
		if full, err := m.engine.ContainerInspect(ctx, s.ID); err == nil && full.HostConfig != nil {
			info.Privileged = full.HostConfig.Privileged
			info.NetworkMode = string(full.HostConfig.NetworkMode)
		}
		result = append(result, info)
	}
	return result, nil
}

// summaryToInfo maps a Docker API container summary to the domain type.
// The API reports names with a leading "/" that is stripped for display.
func summaryToInfo(s types.Container) model.ContainerInfo {
	name := ""
	if len(s.Names) > 0 {
		name = strings.TrimPrefix(s.Names[0], "/")
	}
	return model.ContainerInfo{
		ID:     s.ID,
		Name:   name,
		Image:  s.Image,
		State:  model.StateFromDaemon(s.State),
		Labels: s.Labels,
	}
}

// stateLabel returns the daemon's raw status string for error messages,
// falling back to "unknown" when state details are missing.
func stateLabel(info types.ContainerJSON) string {
	if info.State != nil {
		return info.State.Status
	}
	return "unknown"
}

// daemonError classifies an engine error: connection failures are
// engine-unavailable (the user has to start Docker, nihil will not
// retry), everything else stays general with the daemon's detail wrapped.
func daemonError(message string, err error) *model.CLIError {
	if client.IsErrConnectionFailed(err) {
		return model.WrapError(model.KindEngineUnavailable,
			"lost connection to the Docker daemon", err)
	}
	return model.WrapError(model.KindGeneral, message, err)
}
