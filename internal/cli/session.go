// session.go holds helpers shared by the subcommands: daemon connection
// setup and interactive exec sessions on a raw terminal.
package cli

import (
	"context"
	"os"

	"github.com/moby/term"

	"github.com/thenullpigeons/nihil/internal/catalog"
	"github.com/thenullpigeons/nihil/internal/docker"
	"github.com/thenullpigeons/nihil/internal/manager"
)

// connect builds the engine client, verifies the daemon answers, and
// wires the lifecycle manager with its image catalog. The caller owns
// closing the returned client.
func connect(ctx context.Context) (*docker.Client, *manager.Manager, *catalog.Reader, error) {
	cli, err := docker.NewClient()
	if err != nil {
		return nil, nil, nil, err
	}

	if err := cli.Ping(ctx); err != nil {
		_ = cli.Close()
		return nil, nil, nil, err
	}

	logger.Debug("connected to Docker daemon")

	images := catalog.NewReader(cli.API(), logger)
	mgr := manager.New(cli.API(), images, logger)
	return cli, mgr, images, nil
}

// runSession attaches an exec session to the named container, forwarding
// the local standard streams. When stdin is a terminal the session is
// interactive: the terminal switches to raw mode for the duration so
// control sequences reach the remote shell instead of the local one.
// Returns the remote process's exit code.
func runSession(ctx context.Context, mgr *manager.Manager, name string, command []string, shell string) (int, error) {
	fd := os.Stdin.Fd()
	interactive := term.IsTerminal(fd)

	if interactive {
		state, err := term.SetRawTerminal(fd)
		if err == nil {
			defer func() { _ = term.RestoreTerminal(fd, state) }()
		} else {
			logger.Debug("could not switch terminal to raw mode", "err", err)
		}
	}

	return mgr.Exec(ctx, name, command, shell, manager.ExecStreams{
		In:          os.Stdin,
		Out:         os.Stdout,
		Err:         os.Stderr,
		Interactive: interactive,
	})
}
