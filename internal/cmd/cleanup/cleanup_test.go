package cleanup

import (
	"context"
	"strings"
	"testing"

	"github.com/google/shlex"
	"github.com/stretchr/testify/require"

	"github.com/schmitthub/ssh-docker/internal/cmdutil"
	"github.com/schmitthub/ssh-docker/internal/config"
	"github.com/schmitthub/ssh-docker/internal/iostreams/iostreamstest"
	"github.com/schmitthub/ssh-docker/internal/testbed"
	"github.com/schmitthub/ssh-docker/internal/testbed/testbedtest"
)

func TestNewCmdCleanup(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		output    cmdutil.TestbedFlags
		wantErr   bool
		wantErrIs string
	}{
		{
			name:   "container",
			input:  "--container autopkgtest-0a1b2c3d",
			output: cmdutil.TestbedFlags{Container: "autopkgtest-0a1b2c3d"},
		},
		{
			name:  "extraopts plus common flags",
			input: "--apt-proxy http://p:3142 --container autopkgtest-0a1b2c3d --image sha256:4f5e",
			output: cmdutil.TestbedFlags{
				AptProxy:  "http://p:3142",
				Container: "autopkgtest-0a1b2c3d",
				Image:     "sha256:4f5e",
			},
		},
		{
			name:      "missing container",
			input:     "--image sha256:4f5e",
			wantErr:   true,
			wantErrIs: `required flag "container" not set`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tio := iostreamstest.New()
			f := &cmdutil.Factory{IOStreams: tio.IOStreams}

			var gotOpts *CleanupOptions
			cmd := NewCmdCleanup(f, func(_ context.Context, opts *CleanupOptions) error {
				gotOpts = opts
				return nil
			})

			argv, err := shlex.Split(tt.input)
			require.NoError(t, err)
			cmd.SetArgs(argv)
			cmd.SetIn(&strings.Reader{})
			cmd.SetOut(tio.OutBuf)
			cmd.SetErr(tio.ErrBuf)

			_, err = cmd.ExecuteC()
			if tt.wantErr {
				require.Error(t, err)
				require.Contains(t, err.Error(), tt.wantErrIs)
				require.Nil(t, gotOpts)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.output, gotOpts.Flags)
		})
	}
}

func testOptions(rt *testbedtest.FakeRuntime, container string) (*CleanupOptions, *iostreamstest.TestIOStreams) {
	tio := iostreamstest.New()
	return &CleanupOptions{
		IOStreams: tio.IOStreams,
		Client: func(context.Context) (cmdutil.RuntimeClient, error) {
			return rt, nil
		},
		Config: func() (*config.Settings, error) {
			return config.DefaultSettings(), nil
		},
		Flags: cmdutil.TestbedFlags{Container: container},
	}, tio
}

func TestCleanupRun(t *testing.T) {
	tb := &testbedtest.Testbed{ID: "c0ffee", Name: "autopkgtest-0a1b2c3d"}
	rt := testbedtest.NewRunningTestbedRuntime("sha256:4f5e", tb)
	opts, tio := testOptions(rt, "autopkgtest-0a1b2c3d")

	require.NoError(t, cleanupRun(context.Background(), opts))
	require.Equal(t, []string{"InspectContainer", "StopContainer"}, rt.Calls)
	require.True(t, rt.Closed)
	require.Empty(t, tio.OutBuf.String())
}

func TestCleanupRun_NotFound(t *testing.T) {
	rt := testbedtest.NewRunningTestbedRuntime("sha256:4f5e", &testbedtest.Testbed{ID: "c0ffee"})
	opts, _ := testOptions(rt, "autopkgtest-deadbeef")

	err := cleanupRun(context.Background(), opts)
	require.True(t, testbed.IsKind(err, testbed.KindNotFound))
	require.Equal(t, 0, rt.CallCount("StopContainer"))
	require.True(t, rt.Closed)
}
