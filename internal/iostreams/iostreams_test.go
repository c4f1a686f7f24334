package iostreams

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewIOStreams_Defaults(t *testing.T) {
	ios := NewIOStreams()

	require.NotNil(t, ios.In)
	require.NotNil(t, ios.Out)
	require.NotNil(t, ios.ErrOut)
}

func TestTTYDetection_NonFileWriters(t *testing.T) {
	ios := &IOStreams{
		Out:          &bytes.Buffer{},
		ErrOut:       &bytes.Buffer{},
		isStderrTTY:  -1,
		colorEnabled: -1,
	}

	require.False(t, ios.IsStderrTTY())
	require.False(t, ios.ColorEnabled())
}

func TestColorEnabled_Overrides(t *testing.T) {
	ios := &IOStreams{ErrOut: &bytes.Buffer{}, isStderrTTY: -1, colorEnabled: -1}

	ios.SetStderrTTY(true)
	t.Setenv("NO_COLOR", "")
	require.True(t, ios.ColorEnabled())

	t.Setenv("NO_COLOR", "1")
	require.False(t, ios.ColorEnabled())

	ios.SetColorEnabled(true)
	require.True(t, ios.ColorEnabled())

	ios.SetColorEnabled(false)
	require.False(t, ios.ColorEnabled())
}
