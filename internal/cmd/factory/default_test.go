package factory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	f := New("1.2.3", "abc123")

	require.Equal(t, "1.2.3", f.Version)
	require.Equal(t, "abc123", f.Commit)
	require.NotNil(t, f.IOStreams)
	require.NotNil(t, f.IOStreams.Logger)
	require.NotNil(t, f.Client)
	require.NotNil(t, f.Config)
}

func TestNew_ConfigLoadedOnceFromConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("login: builder\n"), 0o644))

	f := New("dev", "")
	f.ConfigPath = path

	s1, err := f.Config()
	require.NoError(t, err)
	require.Equal(t, "builder", s1.Login)

	s2, err := f.Config()
	require.NoError(t, err)
	require.Same(t, s1, s2)
}
