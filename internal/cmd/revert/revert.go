// Package revert implements the revert command.
package revert

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schmitthub/ssh-docker/internal/cmdutil"
	"github.com/schmitthub/ssh-docker/internal/config"
	"github.com/schmitthub/ssh-docker/internal/iostreams"
	"github.com/schmitthub/ssh-docker/internal/testbed"
)

// RevertOptions holds options for the revert command.
type RevertOptions struct {
	IOStreams *iostreams.IOStreams
	Client    func(context.Context) (cmdutil.RuntimeClient, error)
	Config    func() (*config.Settings, error)

	Flags cmdutil.TestbedFlags
}

// NewCmdRevert creates the revert command.
func NewCmdRevert(f *cmdutil.Factory, runF func(context.Context, *RevertOptions) error) *cobra.Command {
	opts := &RevertOptions{
		IOStreams: f.IOStreams,
		Client:    f.Client,
		Config:    f.Config,
	}

	cmd := &cobra.Command{
		Use:   "revert --container NAME --image IMAGE",
		Short: "Replace a testbed with a fresh one from the same image",
		Long: `Stops the testbed container, waits until it is gone and starts a new
testbed from --image, printing the new status lines like open.

Revert never builds: the image ID from the extraopts printed by open is
reused even when --dockerfile is passed again.`,
		Example: `  ssh-docker revert --container autopkgtest-0a1b2c3d --image sha256:4f5e6d7c8b9a`,
		Args:    cmdutil.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Flags.RequireContainer(); err != nil {
				return err
			}
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return revertRun(cmd.Context(), opts)
		},
	}

	cmdutil.AddTestbedFlags(cmd, &opts.Flags)
	cmdutil.AddContainerFlag(cmd, &opts.Flags)

	return cmd
}

func revertRun(ctx context.Context, opts *RevertOptions) error {
	ios := opts.IOStreams

	cfg, err := opts.Flags.RevertConfig()
	if err != nil {
		return err
	}
	settings, err := opts.Config()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	client, err := opts.Client(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	ios.Logger.Debug().
		Str("container", opts.Flags.Container).
		Str("image", cfg.Image).
		Msg("reverting testbed")
	mgr := testbed.NewManager(client, settings, ios.Out, ios.ErrOut)
	_, err = mgr.Revert(ctx, opts.Flags.Container, cfg)
	return err
}
