package cmdutil

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoArgs(t *testing.T) {
	root := &cobra.Command{Use: "ssh-docker"}
	leaf := &cobra.Command{Use: "cleanup", Run: func(*cobra.Command, []string) {}}
	root.AddCommand(leaf)

	assert.NoError(t, NoArgs(leaf, nil))

	err := NoArgs(leaf, []string{"extra"})
	var flagErr *FlagError
	require.True(t, errors.As(err, &flagErr))
	assert.Contains(t, err.Error(), "'ssh-docker cleanup' accepts no arguments")

	err = NoArgs(root, []string{"bogus"})
	assert.Contains(t, err.Error(), "unknown command: ssh-docker bogus")
}
