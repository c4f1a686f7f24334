// Package open implements the open command.
package open

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schmitthub/ssh-docker/internal/cmdutil"
	"github.com/schmitthub/ssh-docker/internal/config"
	"github.com/schmitthub/ssh-docker/internal/iostreams"
	"github.com/schmitthub/ssh-docker/internal/testbed"
)

// OpenOptions holds options for the open command.
type OpenOptions struct {
	IOStreams *iostreams.IOStreams
	Client    func(context.Context) (cmdutil.RuntimeClient, error)
	Config    func() (*config.Settings, error)

	Flags cmdutil.TestbedFlags
}

// NewCmdOpen creates the open command.
func NewCmdOpen(f *cmdutil.Factory, runF func(context.Context, *OpenOptions) error) *cobra.Command {
	opts := &OpenOptions{
		IOStreams: f.IOStreams,
		Client:    f.Client,
		Config:    f.Config,
	}

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Start a new testbed and print its connection details",
		Long: `Starts a new testbed container and prints the details
autopkgtest-virt-ssh needs to log into it.

The image is built from --dockerfile (tagged with --image when given) or,
without --dockerfile, --image is used as is. When neither is given the
build.dockerfile setting is built.

Your SSH public key (~/.ssh/id_ed25519.pub, id_ecdsa.pub or id_rsa.pub) is
installed for the test user. Build output and the container name go to
stderr; stdout carries only the key=value status lines.`,
		Example: `  # Build ./Dockerfile and start a testbed
  ssh-docker open --dockerfile ./Dockerfile

  # Start a testbed from an existing image, using an apt proxy
  ssh-docker open --image debian:sid --apt-proxy http://10.0.0.1:3142

  # Use from autopkgtest
  autopkgtest pkg.dsc -- ssh -s ssh-docker -- --image debian:sid`,
		Args: cmdutil.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return openRun(cmd.Context(), opts)
		},
	}

	cmdutil.AddTestbedFlags(cmd, &opts.Flags)

	return cmd
}

func openRun(ctx context.Context, opts *OpenOptions) error {
	ios := opts.IOStreams

	settings, err := opts.Config()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	cfg, err := opts.Flags.BuildConfig(settings)
	if err != nil {
		return err
	}

	ios.Logger.Debug().
		Str("dockerfile", cfg.Dockerfile).
		Str("image", cfg.Image).
		Bool("apt_proxy", cfg.Proxy != "").
		Msg("opening testbed")

	mgr := testbed.NewManager(nil, settings, ios.Out, ios.ErrOut)
	id, err := mgr.Identity()
	if err != nil {
		return err
	}

	client, err := opts.Client(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	mgr.Runtime = client
	_, err = mgr.OpenWithIdentity(ctx, cfg, id)
	return err
}
