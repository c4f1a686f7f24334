package testbed

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_ExitCode(t *testing.T) {
	tests := []struct {
		kind Kind
		code int
	}{
		{KindUnknown, 1},
		{KindNoIdentity, 3},
		{KindBuild, 4},
		{KindImageNotFound, 5},
		{KindContainerStart, 6},
		{KindProvision, 7},
		{KindNoAddress, 8},
		{KindNotFound, 9},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.code, tt.kind.ExitCode())
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
	assert.Equal(t, 8, ExitCode(NoAddressError("tb")))
	assert.Equal(t, 4, ExitCode(fmt.Errorf("open: %w", BuildError("Dockerfile", errors.New("step failed")))))
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NotFoundError("tb", nil))
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindBuild))
	assert.False(t, IsKind(errors.New("plain"), KindNotFound))
}

func TestError_UnwrapAndMessage(t *testing.T) {
	inner := errors.New("no such container")
	err := NotFoundError("autopkgtest-0a1b2c3d", inner)

	require.ErrorIs(t, err, inner)
	assert.Equal(t, "Testbed 'autopkgtest-0a1b2c3d' not found: no such container", err.Error())
	assert.Equal(t, "Testbed 'tb' has no IPv6 or IPv4 address", NoAddressError("tb").Error())
}

func TestError_FormatUserError(t *testing.T) {
	err := BuildError("/srv/Dockerfile", errors.New("step 3 failed"))
	out := err.FormatUserError()

	assert.Contains(t, out, "Error: Failed to build image from /srv/Dockerfile\n")
	assert.Contains(t, out, "  Details: step 3 failed\n")
	assert.Contains(t, out, "\nNext Steps:\n  1. ")
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "not-found", KindNotFound.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}

func TestKinds_DistinctExitCodes(t *testing.T) {
	seen := map[int]Kind{}
	for _, k := range Kinds() {
		code := k.ExitCode()
		require.Greater(t, code, 2, k.String())
		_, dup := seen[code]
		require.False(t, dup, "exit code %d reused by %s", code, k)
		seen[code] = k
	}
	require.Len(t, seen, len(kindNames)-1)
}
