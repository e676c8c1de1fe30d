// Package docker is the engine client adapter: a thin handle to the
// Docker daemon with no lifecycle logic of its own. It wraps the Docker
// Engine SDK client, taking care of endpoint selection (DOCKER_HOST or a
// platform-specific local socket) and daemon reachability checks.
package docker

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/docker/docker/client"

	"github.com/thenullpigeons/nihil/internal/model"
)

// defaultPingTimeout bounds the wait for a daemon response during Ping.
// 5 seconds covers Docker Desktop on macOS, which is slower to answer
// than native Linux Docker.
const defaultPingTimeout = 5 * time.Second

// Client wraps the Docker Engine SDK client. The wrapper exists to own
// endpoint detection and connection lifecycle; all container and image
// operations go through API(), which exposes the narrow SDK surface the
// lifecycle manager consumes.
type Client struct {
	inner *client.Client
}

// NewClient creates a Docker client connected to the local daemon.
//
// Endpoint selection, in priority order:
//  1. DOCKER_HOST environment variable, used as-is.
//  2. Platform default sockets:
//     - Linux: /var/run/docker.sock
//     - macOS: /var/run/docker.sock, then ~/.docker/run/docker.sock
//     - Windows: npipe:////./pipe/docker_engine
//
// Returns a KindEngineUnavailable error when no endpoint is found or the
// client cannot be constructed.
func NewClient() (*Client, error) {
	if dockerHost := os.Getenv("DOCKER_HOST"); dockerHost != "" {
		return newClientWithHost(dockerHost)
	}

	host, err := detectDockerHost()
	if err != nil {
		return nil, model.WrapError(model.KindEngineUnavailable,
			"Docker socket not found", err)
	}

	return newClientWithHost(host)
}

// newClientWithHost creates a client for a specific daemon endpoint.
// API version negotiation keeps nihil compatible across daemon versions
// without pinning a specific API version.
func newClientWithHost(host string) (*Client, error) {
	c, err := client.NewClientWithOpts(
		client.WithHost(host),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, model.WrapError(model.KindEngineUnavailable,
			fmt.Sprintf("failed to create Docker client for host %q", host), err)
	}

	return &Client{inner: c}, nil
}

// detectDockerHost probes the known daemon endpoints for the current
// platform and returns the first that exists. Existence is checked on the
// filesystem rather than by connecting; Ping handles reachability.
func detectDockerHost() (string, error) {
	switch runtime.GOOS {
	case "linux":
		return detectUnixSocket([]string{
			"/var/run/docker.sock",
		})

	case "darwin":
		// Docker Desktop usually symlinks /var/run/docker.sock, but newer
		// versions only create the per-user socket.
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return detectUnixSocket([]string{
				"/var/run/docker.sock",
			})
		}
		return detectUnixSocket([]string{
			"/var/run/docker.sock",
			homeDir + "/.docker/run/docker.sock",
		})

	case "windows":
		// Named pipes cannot be probed with os.Stat; return the standard
		// endpoint and let Ping report reachability.
		return "npipe:////./pipe/docker_engine", nil

	default:
		return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// detectUnixSocket returns the Docker host URI for the first socket path
// that exists, checked in order of preference.
func detectUnixSocket(paths []string) (string, error) {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return "unix://" + path, nil
		}
	}
	return "", fmt.Errorf("Docker socket not found at any of %v: is Docker running?", paths)
}

// Ping verifies the daemon is reachable and responsive, waiting at most
// defaultPingTimeout. Returns a KindEngineUnavailable error on failure.
func (c *Client) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	if _, err := c.inner.Ping(pingCtx); err != nil {
		return model.WrapError(model.KindEngineUnavailable,
			"Docker daemon is not responding: is Docker running?", err)
	}
	return nil
}

// Close releases the client's resources. Safe to call more than once.
func (c *Client) Close() error {
	if c.inner != nil {
		return c.inner.Close()
	}
	return nil
}

// API returns the underlying SDK client. The lifecycle manager consumes
// this through its own narrow interface rather than depending on the
// wrapper, which keeps it testable against a fake engine.
func (c *Client) API() *client.Client {
	return c.inner
}
