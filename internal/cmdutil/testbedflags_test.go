package cmdutil

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schmitthub/ssh-docker/internal/config"
	"github.com/schmitthub/ssh-docker/internal/testbed"
)

func TestAddTestbedFlags(t *testing.T) {
	var f TestbedFlags
	cmd := &cobra.Command{Use: "open"}
	AddTestbedFlags(cmd, &f)
	AddContainerFlag(cmd, &f)

	require.NoError(t, cmd.ParseFlags([]string{
		"--apt-proxy", "http://proxy:3142",
		"--dockerfile", "/srv/Dockerfile",
		"--image", "testbed:sid",
		"--container", "autopkgtest-0a1b2c3d",
	}))

	assert.Equal(t, TestbedFlags{
		AptProxy:   "http://proxy:3142",
		Dockerfile: "/srv/Dockerfile",
		Image:      "testbed:sid",
		Container:  "autopkgtest-0a1b2c3d",
	}, f)
}

func TestTestbedFlags_BuildConfig(t *testing.T) {
	withDefault := config.DefaultSettings()
	withDefault.Build.Dockerfile = "/etc/ssh-docker/Dockerfile"

	tests := []struct {
		name     string
		flags    TestbedFlags
		settings *config.Settings
		want     testbed.BuildConfig
		wantErr  bool
	}{
		{
			name:  "dockerfile only",
			flags: TestbedFlags{Dockerfile: "/srv/Dockerfile", AptProxy: "http://p"},
			want:  testbed.BuildConfig{Dockerfile: "/srv/Dockerfile", Proxy: "http://p"},
		},
		{
			name:  "dockerfile with tag",
			flags: TestbedFlags{Dockerfile: "/srv/Dockerfile", Image: "tb:sid"},
			want:  testbed.BuildConfig{Dockerfile: "/srv/Dockerfile", Image: "tb:sid"},
		},
		{
			name:     "image only ignores configured dockerfile",
			flags:    TestbedFlags{Image: "debian:sid"},
			settings: withDefault,
			want:     testbed.BuildConfig{Image: "debian:sid"},
		},
		{
			name:     "configured dockerfile",
			settings: withDefault,
			want:     testbed.BuildConfig{Dockerfile: "/etc/ssh-docker/Dockerfile"},
		},
		{
			name:     "nothing",
			settings: config.DefaultSettings(),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.flags.BuildConfig(tt.settings)
			if tt.wantErr {
				var flagErr *FlagError
				require.True(t, errors.As(err, &flagErr))
				assert.Contains(t, err.Error(), "--image is required")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTestbedFlags_RequireContainer(t *testing.T) {
	var f TestbedFlags
	err := f.RequireContainer()
	var flagErr *FlagError
	require.True(t, errors.As(err, &flagErr))
	assert.Equal(t, `required flag "container" not set`, err.Error())

	f.Container = "autopkgtest-0a1b2c3d"
	assert.NoError(t, f.RequireContainer())
}

func TestTestbedFlags_RevertConfig(t *testing.T) {
	f := TestbedFlags{Dockerfile: "/srv/Dockerfile", AptProxy: "http://p"}
	_, err := f.RevertConfig()
	var flagErr *FlagError
	require.True(t, errors.As(err, &flagErr))

	f.Image = "sha256:abc"
	got, err := f.RevertConfig()
	require.NoError(t, err)
	assert.Equal(t, testbed.BuildConfig{Image: "sha256:abc", Proxy: "http://p"}, got)
}

func TestTestbedFlags_RejectsUnquotableAptProxy(t *testing.T) {
	for _, proxy := range []string{`http://p"; Acquire::x "y`, "http://p\n", "http://p\x00"} {
		t.Run(proxy, func(t *testing.T) {
			f := TestbedFlags{Image: "debian:sid", AptProxy: proxy}

			_, err := f.BuildConfig(config.DefaultSettings())
			var flagErr *FlagError
			require.True(t, errors.As(err, &flagErr))
			assert.Contains(t, err.Error(), "invalid --apt-proxy")

			_, err = f.RevertConfig()
			require.True(t, errors.As(err, &flagErr))
		})
	}

	f := TestbedFlags{Image: "debian:sid", AptProxy: `http://cache.local:3142/a\b`}
	got, err := f.BuildConfig(config.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, `http://cache.local:3142/a\b`, got.Proxy)
}
