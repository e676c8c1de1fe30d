// start_test.go covers the pure helpers behind the start and info
// commands: flag/config merging and the container trait summary. Nothing
// here touches a Docker daemon or the user's config directory.
package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenullpigeons/nihil/internal/config"
	"github.com/thenullpigeons/nihil/internal/model"
)

// TestMergeSpec verifies that flags win over config-file defaults and
// that the workspace path is made absolute.
func TestMergeSpec(t *testing.T) {
	cfg := &config.Config{
		Image: "ghcr.io/thenullpigeons/nihil-images:stable",
		Shell: "bash",
	}

	t.Run("flags override config", func(t *testing.T) {
		spec, err := mergeSpec("recon", &startFlags{
			image: "ghcr.io/thenullpigeons/nihil-images:dev",
			shell: "fish",
		}, cfg)
		require.NoError(t, err)
		assert.Equal(t, "ghcr.io/thenullpigeons/nihil-images:dev", spec.Image)
		assert.Equal(t, "fish", spec.Shell)
	})

	t.Run("config fills unset flags", func(t *testing.T) {
		spec, err := mergeSpec("recon", &startFlags{}, cfg)
		require.NoError(t, err)
		assert.Equal(t, "ghcr.io/thenullpigeons/nihil-images:stable", spec.Image)
		assert.Equal(t, "bash", spec.Shell)
		assert.True(t, spec.OpenShell)
	})

	t.Run("no-shell flag", func(t *testing.T) {
		spec, err := mergeSpec("recon", &startFlags{noShell: true}, cfg)
		require.NoError(t, err)
		assert.False(t, spec.OpenShell)
	})

	t.Run("workspace is made absolute", func(t *testing.T) {
		spec, err := mergeSpec("recon", &startFlags{workspace: "."}, cfg)
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(spec.Workspace))
	})

	t.Run("empty config adds nothing", func(t *testing.T) {
		spec, err := mergeSpec("recon", &startFlags{}, &config.Config{})
		require.NoError(t, err)
		assert.Empty(t, spec.Image)
		assert.Empty(t, spec.Shell)
		assert.Empty(t, spec.Workspace)
	})
}

// TestFirstNonEmpty verifies the merge helper.
func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", firstNonEmpty("a", "b"))
	assert.Equal(t, "b", firstNonEmpty("", "b"))
	assert.Equal(t, "", firstNonEmpty("", ""))
	assert.Equal(t, "", firstNonEmpty())
}

// TestContainerTraits verifies the trait summary shown by info.
func TestContainerTraits(t *testing.T) {
	tests := []struct {
		name string
		info model.ContainerInfo
		want string
	}{
		{
			name: "plain container",
			info: model.ContainerInfo{},
			want: "standard",
		},
		{
			name: "privileged",
			info: model.ContainerInfo{Privileged: true},
			want: "privileged",
		},
		{
			name: "host network",
			info: model.ContainerInfo{NetworkMode: model.NetworkModeHost},
			want: "standard, host network",
		},
		{
			name: "privileged on host network",
			info: model.ContainerInfo{Privileged: true, NetworkMode: model.NetworkModeHost},
			want: "privileged, host network",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, containerTraits(tt.info))
		})
	}
}
