package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExitCodes verifies that each error kind maps to its distinct,
// stable exit code. The 2..5 block is frozen: it matches the exit codes
// of earlier nihil releases that scripts may depend on.
func TestExitCodes(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want ExitCode
	}{
		{KindGeneral, ExitGeneralError},
		{KindEngineUnavailable, 2},
		{KindNoImage, 3},
		{KindNotFound, 4},
		{KindNotRunning, 5},
		{KindInvalidState, 6},
		{KindConfiguration, 7},
		{KindNameConflict, 8},
		{KindContainerRunning, 9},
	}

	seen := map[ExitCode]ErrorKind{}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := NewError(tt.kind, "boom")
			assert.Equal(t, tt.want, err.ExitCode())

			// No two kinds may share a code.
			if prev, dup := seen[tt.want]; dup {
				t.Fatalf("exit code %d shared by %s and %s", tt.want, prev, tt.kind)
			}
			seen[tt.want] = tt.kind
		})
	}
}

// TestCLIErrorWrapping verifies Unwrap and message composition.
func TestCLIErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapError(KindEngineUnavailable, "daemon unreachable", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "daemon unreachable: connection refused", err.Error())

	bare := NewError(KindNotFound, "no such container")
	assert.Equal(t, "no such container", bare.Error())
	assert.Nil(t, bare.Unwrap())
}

// TestIsKind verifies kind matching through wrapping layers.
func TestIsKind(t *testing.T) {
	err := NewError(KindNotRunning, "stopped")
	wrapped := fmt.Errorf("outer: %w", err)

	assert.True(t, IsKind(wrapped, KindNotRunning))
	assert.False(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(errors.New("plain"), KindNotRunning))
}

// TestExitCodeFor verifies exit code extraction from arbitrary errors.
func TestExitCodeFor(t *testing.T) {
	require.Equal(t, ExitSuccess, ExitCodeFor(nil))
	assert.Equal(t, ExitNotFound, ExitCodeFor(fmt.Errorf("x: %w", NewError(KindNotFound, "gone"))))
	assert.Equal(t, ExitGeneralError, ExitCodeFor(errors.New("plain")))
}
