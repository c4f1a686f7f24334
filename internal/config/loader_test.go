package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, key := range []string{
		"SSH_DOCKER_LOGIN",
		"SSH_DOCKER_STOP_TIMEOUT",
		"SSH_DOCKER_IDENTITIES",
		"SSH_DOCKER_BUILD_DOCKERFILE",
		"SSH_DOCKER_KEEP_ON_FAILURE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	s, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "test", s.Login)
	require.Equal(t, "/home/test", s.Home)
	require.Equal(t, "autopkgtest-", s.ContainerPrefix)
	require.Equal(t, DefaultIdentities(), s.Identities)
	require.Equal(t, "/etc/apt/apt.conf.d/01proxy", s.AptProxyFile)
	require.Nil(t, s.StopTimeout)
	require.False(t, s.KeepOnFailure)
	require.Empty(t, s.Build.Dockerfile)
	require.Equal(t, 10, s.Logging.MaxSizeMB)
	require.Equal(t, 7, s.Logging.MaxAgeDays)
	require.Equal(t, 3, s.Logging.MaxBackups)
}

func TestLoad_DefaultFileInConfigDir(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, AppName), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, AppName, ConfigFileName), []byte(`
login: builder
stop_timeout: 5
build:
  dockerfile: /srv/testbed/Dockerfile
`), 0o644))

	l := NewLoader("")
	s, err := l.Load()
	require.NoError(t, err)

	require.Equal(t, "builder", s.Login)
	require.NotNil(t, s.StopTimeout)
	require.Equal(t, 5, *s.StopTimeout)
	require.Equal(t, "/srv/testbed/Dockerfile", s.Build.Dockerfile)
	require.Equal(t, "/home/test", s.Home)
	require.Equal(t, filepath.Join(dir, AppName, ConfigFileName), l.ConfigFileUsed())
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "nope.yaml")
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("login: fromfile\n"), 0o644))

	t.Setenv("SSH_DOCKER_LOGIN", "fromenv")
	t.Setenv("SSH_DOCKER_STOP_TIMEOUT", "12")
	t.Setenv("SSH_DOCKER_IDENTITIES", "/keys/a,/keys/b")
	t.Setenv("SSH_DOCKER_KEEP_ON_FAILURE", "true")

	s, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "fromenv", s.Login)
	require.NotNil(t, s.StopTimeout)
	require.Equal(t, 12, *s.StopTimeout)
	require.Equal(t, []string{"/keys/a", "/keys/b"}, s.Identities)
	require.True(t, s.KeepOnFailure)
}

func TestLoad_NegativeStopTimeout(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stop_timeout: -1\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "stop_timeout")
}

func TestDirs_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_STATE_HOME", "/state")

	cfg, err := ConfigDir()
	require.NoError(t, err)
	require.Equal(t, "/cfg/ssh-docker", cfg)

	logs, err := LogsDir()
	require.NoError(t, err)
	require.Equal(t, "/state/ssh-docker/logs", logs)
}

func TestDirs_HomeFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_STATE_HOME", "")

	state, err := StateDir()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".local", "state", "ssh-docker"), state)
}
