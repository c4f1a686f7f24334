// Package cleanup implements the cleanup command.
package cleanup

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schmitthub/ssh-docker/internal/cmdutil"
	"github.com/schmitthub/ssh-docker/internal/config"
	"github.com/schmitthub/ssh-docker/internal/iostreams"
	"github.com/schmitthub/ssh-docker/internal/testbed"
)

// CleanupOptions holds options for the cleanup command.
type CleanupOptions struct {
	IOStreams *iostreams.IOStreams
	Client    func(context.Context) (cmdutil.RuntimeClient, error)
	Config    func() (*config.Settings, error)

	Flags cmdutil.TestbedFlags
}

// NewCmdCleanup creates the cleanup command.
func NewCmdCleanup(f *cmdutil.Factory, runF func(context.Context, *CleanupOptions) error) *cobra.Command {
	opts := &CleanupOptions{
		IOStreams: f.IOStreams,
		Client:    f.Client,
		Config:    f.Config,
	}

	cmd := &cobra.Command{
		Use:   "cleanup --container NAME",
		Short: "Stop a testbed",
		Long: `Stops the testbed container. Testbeds are started with automatic
removal, so the container is deleted once it has stopped.

--apt-proxy, --dockerfile and --image are accepted and ignored.`,
		Example: `  ssh-docker cleanup --container autopkgtest-0a1b2c3d`,
		Args:    cmdutil.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Flags.RequireContainer(); err != nil {
				return err
			}
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return cleanupRun(cmd.Context(), opts)
		},
	}

	cmdutil.AddTestbedFlags(cmd, &opts.Flags)
	cmdutil.AddContainerFlag(cmd, &opts.Flags)

	return cmd
}

func cleanupRun(ctx context.Context, opts *CleanupOptions) error {
	ios := opts.IOStreams

	settings, err := opts.Config()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	client, err := opts.Client(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	ios.Logger.Debug().Str("container", opts.Flags.Container).Msg("cleaning up testbed")
	mgr := testbed.NewManager(client, settings, ios.Out, ios.ErrOut)
	return mgr.Cleanup(ctx, opts.Flags.Container)
}
