// Package debugfailure implements the debug-failure command.
package debugfailure

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schmitthub/ssh-docker/internal/cmdutil"
	"github.com/schmitthub/ssh-docker/internal/config"
	"github.com/schmitthub/ssh-docker/internal/iostreams"
	"github.com/schmitthub/ssh-docker/internal/testbed"
)

// DebugFailureOptions holds options for the debug-failure command.
type DebugFailureOptions struct {
	IOStreams *iostreams.IOStreams
	Client    func(context.Context) (cmdutil.RuntimeClient, error)
	Config    func() (*config.Settings, error)

	Flags cmdutil.TestbedFlags
}

// NewCmdDebugFailure creates the debug-failure command.
func NewCmdDebugFailure(f *cmdutil.Factory, runF func(context.Context, *DebugFailureOptions) error) *cobra.Command {
	opts := &DebugFailureOptions{
		IOStreams: f.IOStreams,
		Client:    f.Client,
		Config:    f.Config,
	}

	cmd := &cobra.Command{
		Use:     "debug-failure --container NAME",
		Short:   "Print the logs of a testbed",
		Long:    `Writes the stdout and stderr of the testbed's main process to stdout.`,
		Example: `  ssh-docker debug-failure --container autopkgtest-0a1b2c3d`,
		Args:    cmdutil.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Flags.RequireContainer(); err != nil {
				return err
			}
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return debugFailureRun(cmd.Context(), opts)
		},
	}

	cmdutil.AddTestbedFlags(cmd, &opts.Flags)
	cmdutil.AddContainerFlag(cmd, &opts.Flags)

	return cmd
}

func debugFailureRun(ctx context.Context, opts *DebugFailureOptions) error {
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

	ios.Logger.Debug().Str("container", opts.Flags.Container).Msg("copying testbed logs")
	return testbed.NewManager(client, settings, ios.Out, ios.ErrOut).DebugFailure(ctx, opts.Flags.Container)
}
