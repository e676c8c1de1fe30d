package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStateFromDaemon verifies the mapping from raw daemon status
// strings to ContainerState, including the collapse of unhandled
// statuses into StateUnknown.
func TestStateFromDaemon(t *testing.T) {
	tests := []struct {
		status string
		want   ContainerState
	}{
		{"created", StateCreated},
		{"running", StateRunning},
		{"exited", StateExited},
		{"paused", StatePaused},
		{"restarting", StateUnknown},
		{"removing", StateUnknown},
		{"dead", StateUnknown},
		{"", StateUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, StateFromDaemon(tt.status))
		})
	}
}

// TestValidateName checks the container name rules: daemon-compatible
// names pass, everything else is a configuration error.
func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "recon", false},
		{"with digits and dashes", "acme-2026.web_1", false},
		{"single char", "x", false},
		{"empty", "", true},
		{"leading dash", "-recon", true},
		{"spaces", "my box", true},
		{"slash", "a/b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsKind(err, KindConfiguration))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestContainerSpecValidate_Workspace verifies that the workspace path
// invariant is enforced before any daemon interaction: the path must
// exist and be a directory.
func TestContainerSpecValidate_Workspace(t *testing.T) {
	dir := t.TempDir()

	file := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	t.Run("existing directory is accepted", func(t *testing.T) {
		spec := ContainerSpec{Name: "recon", Workspace: dir}
		assert.NoError(t, spec.Validate())
	})

	t.Run("missing path is a configuration error", func(t *testing.T) {
		spec := ContainerSpec{Name: "recon", Workspace: filepath.Join(dir, "nope")}
		err := spec.Validate()
		require.Error(t, err)
		assert.True(t, IsKind(err, KindConfiguration))
	})

	t.Run("regular file is a configuration error", func(t *testing.T) {
		spec := ContainerSpec{Name: "recon", Workspace: file}
		err := spec.Validate()
		require.Error(t, err)
		assert.True(t, IsKind(err, KindConfiguration))
	})

	t.Run("empty workspace means no mount and no check", func(t *testing.T) {
		spec := ContainerSpec{Name: "recon"}
		assert.NoError(t, spec.Validate())
	})
}

// TestShellProgram verifies the default shell fallback.
func TestShellProgram(t *testing.T) {
	spec := ContainerSpec{Name: "recon"}
	assert.Equal(t, DefaultShell, spec.ShellProgram())

	spec.Shell = "bash"
	assert.Equal(t, "bash", spec.ShellProgram())
}

// TestImageRecordReference verifies the repository:tag form.
func TestImageRecordReference(t *testing.T) {
	rec := ImageRecord{Repository: "ghcr.io/thenullpigeons/nihil-images", Tag: "latest"}
	assert.Equal(t, "ghcr.io/thenullpigeons/nihil-images:latest", rec.Reference())
}
