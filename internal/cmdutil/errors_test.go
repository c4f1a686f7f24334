package cmdutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schmitthub/ssh-docker/internal/testbed"
)

func TestRequiredFlagError(t *testing.T) {
	err := fmt.Errorf("revert: %w", requiredFlagError("image"))

	var flagErr *FlagError
	require.True(t, errors.As(err, &flagErr))
	assert.Equal(t, `required flag "image" not set`, flagErr.Error())
}

func TestFlagErrorWrap_PflagError(t *testing.T) {
	cmd := &cobra.Command{Use: "open", RunE: func(*cobra.Command, []string) error { return nil }}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return FlagErrorWrap(err)
	})
	cmd.SetArgs([]string{"--bogus"})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	err := cmd.Execute()

	var flagErr *FlagError
	require.True(t, errors.As(err, &flagErr))
	assert.Equal(t, "unknown flag: --bogus", err.Error())
	assert.NotNil(t, flagErr.Unwrap())
}

func TestUserFormattedError_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("opening testbed: %w", testbed.NoAddressError("autopkgtest-0a1b2c3d"))

	var userErr UserFormattedError
	require.True(t, errors.As(err, &userErr))
	assert.Contains(t, userErr.FormatUserError(), "autopkgtest-0a1b2c3d")

	var flagErr *FlagError
	assert.False(t, errors.As(err, &flagErr))
}

func TestFlagError_IsNotUserFormatted(t *testing.T) {
	err := FlagErrorf("--image is required when --dockerfile is not given")

	var userErr UserFormattedError
	assert.False(t, errors.As(err, &userErr))
}
