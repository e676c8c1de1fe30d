// exec.go implements exec sessions: secondary processes attached to a
// running container's namespace, with the remote exit code forwarded
// unchanged to the caller.
package manager

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/thenullpigeons/nihil/internal/model"
)

// execInspectInterval is the polling interval while waiting for the
// daemon to record an exec process's exit code after its streams close.
const execInspectInterval = 100 * time.Millisecond

// ExecStreams carries the standard streams for an exec session. Stdin is
// attached whenever In is non-nil, so piped input reaches the remote
// process with or without a terminal; Interactive additionally allocates
// a TTY, under which stdout and stderr arrive as one merged raw stream.
type ExecStreams struct {
	// In is forwarded to the remote process's stdin. A nil In leaves
	// stdin unattached.
	In io.Reader

	// Out receives the remote process's stdout.
	Out io.Writer

	// Err receives the remote process's stderr. Ignored for
	// interactive sessions, where the TTY merges both streams.
	Err io.Writer

	// Interactive requests a TTY for the session.
	Interactive bool
}

// Exec runs command inside the named container and returns the remote
// process's exit code unchanged. An empty command defaults to the
// configured interactive shell. The container must already be running;
// Exec never starts it implicitly, and no exec call is issued otherwise.
func (m *Manager) Exec(ctx context.Context, name string, command []string, shell string, streams ExecStreams) (int, error) {
	_, state, err := m.inspect(ctx, name)
	if err != nil {
		return 0, err
	}

	switch state {
	case model.StateAbsent:
		return 0, model.NewError(model.KindNotFound,
			fmt.Sprintf("container %q does not exist", name))
	case model.StateRunning:
		// Proceed.
	default:
		return 0, model.NewError(model.KindNotRunning,
			fmt.Sprintf("container %q is not running (state: %s): start it first", name, state))
	}

	if len(command) == 0 {
		if shell == "" {
			shell = model.DefaultShell
		}
		command = []string{shell}
	}

	execOpts := container.ExecOptions{
		Cmd:          command,
		AttachStdout: true,
		AttachStderr: true,
		AttachStdin:  streams.In != nil,
		Tty:          streams.Interactive,
	}

	m.logger.Debug("creating exec session", "name", name, "cmd", command, "tty", streams.Interactive)

	created, err := m.engine.ContainerExecCreate(ctx, name, execOpts)
	if err != nil {
		return 0, daemonError(fmt.Sprintf("failed to create exec session in %q", name), err)
	}

	attach, err := m.engine.ContainerExecAttach(ctx, created.ID, container.ExecAttachOptions{
		Tty: streams.Interactive,
	})
	if err != nil {
		return 0, daemonError(fmt.Sprintf("failed to attach to exec session in %q", name), err)
	}
	defer attach.Close()

	// Forward stdin in the background; the session ends when the remote
	// process exits or the output stream closes, not when stdin does.
	if streams.In != nil {
		go func() {
			_, _ = io.Copy(attach.Conn, streams.In)
			_ = attach.CloseWrite()
		}()
	}

	if streams.Interactive {
		// A TTY carries a single merged stream, raw.
		_, err = io.Copy(streams.Out, attach.Reader)
	} else {
		// Without a TTY the daemon multiplexes stdout/stderr into one
		// framed stream.
		_, err = stdcopy.StdCopy(streams.Out, streams.Err, attach.Reader)
	}
	if err != nil && ctx.Err() == nil {
		return 0, daemonError(fmt.Sprintf("exec stream in %q failed", name), err)
	}

	return m.execExitCode(ctx, created.ID)
}

// execExitCode waits for the daemon to record the exec process's exit
// code. The streams closing and the exit code landing are not atomic on
// the daemon side, so a short poll bridges the gap.
func (m *Manager) execExitCode(ctx context.Context, execID string) (int, error) {
	for {
		insp, err := m.engine.ContainerExecInspect(ctx, execID)
		if err != nil {
			return 0, daemonError("failed to inspect exec session", err)
		}
		if !insp.Running {
			return insp.ExitCode, nil
		}

		select {
		case <-ctx.Done():
			return 0, model.WrapError(model.KindGeneral,
				"interrupted while waiting for exec exit code", ctx.Err())
		case <-time.After(execInspectInterval):
		}
	}
}
