package manager

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net"
	"testing"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenullpigeons/nihil/internal/model"
)

// fakeExec is the record a fakeEngine keeps per exec session.
type fakeExec struct {
	options  container.ExecOptions
	exitCode int

	// stdout/stderr are written into the attached stream,
	// stdcopy-framed for non-TTY sessions like the daemon does.
	stdout string
	stderr string
}

// nextExec configures the outcome of the next exec session.
func (f *fakeEngine) nextExec(exitCode int, stdout, stderr string) {
	f.execs["pending"] = &fakeExec{exitCode: exitCode, stdout: stdout, stderr: stderr}
}

func (f *fakeEngine) ContainerExecCreate(ctx context.Context, ref string, options container.ExecOptions) (types.IDResponse, error) {
	f.execCreateCalls++
	if _, ok := f.find(ref); !ok {
		return types.IDResponse{}, fmt.Errorf("no such container %q: %w", ref, errdefs.ErrNotFound)
	}

	e, ok := f.execs["pending"]
	if !ok {
		e = &fakeExec{}
	}
	e.options = options
	delete(f.execs, "pending")

	id := fmt.Sprintf("exec-%d", f.execCreateCalls)
	f.execs[id] = e
	return types.IDResponse{ID: id}, nil
}

func (f *fakeEngine) ContainerExecAttach(ctx context.Context, execID string, options container.ExecAttachOptions) (types.HijackedResponse, error) {
	e, ok := f.execs[execID]
	if !ok {
		return types.HijackedResponse{}, fmt.Errorf("no such exec %q: %w", execID, errdefs.ErrNotFound)
	}

	server, client := net.Pipe()
	go func() {
		defer server.Close()
		if e.options.Tty {
			_, _ = server.Write([]byte(e.stdout))
			return
		}
		// Non-TTY sessions carry the daemon's multiplexed framing.
		_, _ = stdcopy.NewStdWriter(server, stdcopy.Stdout).Write([]byte(e.stdout))
		if e.stderr != "" {
			_, _ = stdcopy.NewStdWriter(server, stdcopy.Stderr).Write([]byte(e.stderr))
		}
	}()

	return types.HijackedResponse{Conn: client, Reader: bufio.NewReader(client)}, nil
}

func (f *fakeEngine) ContainerExecInspect(ctx context.Context, execID string) (container.ExecInspect, error) {
	e, ok := f.execs[execID]
	if !ok {
		return container.ExecInspect{}, fmt.Errorf("no such exec %q: %w", execID, errdefs.ErrNotFound)
	}
	return container.ExecInspect{ExecID: execID, Running: false, ExitCode: e.exitCode}, nil
}

// TestExec_RequiresRunning verifies that exec refuses non-running
// containers without issuing any exec call, and that absent and stopped
// containers are distinguished.
func TestExec_RequiresRunning(t *testing.T) {
	mgr, engine, _ := newTestManager(t)
	ctx := context.Background()
	engine.add("down", fakeContainer{status: "created"})

	var out bytes.Buffer
	streams := ExecStreams{Out: &out, Err: &out}

	_, err := mgr.Exec(ctx, "down", []string{"id"}, "", streams)
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindNotRunning))
	assert.Equal(t, 0, engine.execCreateCalls, "no exec call for a stopped container")

	_, err = mgr.Exec(ctx, "ghost", []string{"id"}, "", streams)
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindNotFound))
	assert.Equal(t, 0, engine.execCreateCalls)
}

// TestExec_ForwardsExitCode verifies that the remote process's exit code
// is returned unchanged, along with its demultiplexed output.
func TestExec_ForwardsExitCode(t *testing.T) {
	mgr, engine, _ := newTestManager(t)
	engine.add("recon", fakeContainer{status: "running"})
	engine.nextExec(7, "scan done\n", "permission denied\n")

	var out, errOut bytes.Buffer
	code, err := mgr.Exec(context.Background(), "recon", []string{"nmap", "-sS", "target"}, "", ExecStreams{
		Out: &out,
		Err: &errOut,
	})
	require.NoError(t, err, "a non-zero remote exit code is not a manager failure")

	assert.Equal(t, 7, code)
	assert.Equal(t, "scan done\n", out.String())
	assert.Equal(t, "permission denied\n", errOut.String())

	e := engine.execs["exec-1"]
	require.NotNil(t, e)
	assert.Equal(t, []string{"nmap", "-sS", "target"}, []string(e.options.Cmd))
	assert.False(t, e.options.Tty)
	assert.True(t, e.options.AttachStdout)
	assert.True(t, e.options.AttachStderr)
	assert.False(t, e.options.AttachStdin)
}

// TestExec_DefaultsToShell verifies that an empty command runs the
// configured shell, falling back to the built-in default.
func TestExec_DefaultsToShell(t *testing.T) {
	mgr, engine, _ := newTestManager(t)
	engine.add("recon", fakeContainer{status: "running"})

	var out bytes.Buffer
	_, err := mgr.Exec(context.Background(), "recon", nil, "bash", ExecStreams{Out: &out, Err: &out})
	require.NoError(t, err)
	assert.Equal(t, []string{"bash"}, []string(engine.execs["exec-1"].options.Cmd))

	engine.add("recon2", fakeContainer{status: "running"})
	_, err = mgr.Exec(context.Background(), "recon2", nil, "", ExecStreams{Out: &out, Err: &out})
	require.NoError(t, err)
	assert.Equal(t, []string{model.DefaultShell}, []string(engine.execs["exec-2"].options.Cmd))
}

// TestExec_PipedStdin verifies that piped input is attached even without
// a TTY: echo 'id' | nihil exec recon sh must reach the remote shell.
func TestExec_PipedStdin(t *testing.T) {
	mgr, engine, _ := newTestManager(t)
	engine.add("recon", fakeContainer{status: "running"})
	engine.nextExec(0, "uid=0(root)\n", "")

	var out, errOut bytes.Buffer
	code, err := mgr.Exec(context.Background(), "recon", []string{"sh"}, "", ExecStreams{
		In:  bytes.NewBufferString("id\n"),
		Out: &out,
		Err: &errOut,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "uid=0(root)\n", out.String())

	e := engine.execs["exec-1"]
	require.NotNil(t, e)
	assert.True(t, e.options.AttachStdin, "piped stdin must be attached even without a TTY")
	assert.False(t, e.options.Tty, "no TTY for a non-terminal stdin")
}

// TestExec_InteractiveSession verifies TTY wiring: stdin forwarded, TTY
// requested, merged raw output stream.
func TestExec_InteractiveSession(t *testing.T) {
	mgr, engine, _ := newTestManager(t)
	engine.add("recon", fakeContainer{status: "running"})
	engine.nextExec(0, "nihil$ ", "")

	var out bytes.Buffer
	code, err := mgr.Exec(context.Background(), "recon", nil, "zsh", ExecStreams{
		In:          bytes.NewBufferString("exit\n"),
		Out:         &out,
		Interactive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "nihil$ ", out.String())

	e := engine.execs["exec-1"]
	assert.True(t, e.options.Tty)
	assert.True(t, e.options.AttachStdin)
}
