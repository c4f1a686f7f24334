// Package configcmd implements the config command.
package configcmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/schmitthub/ssh-docker/internal/cmdutil"
	"github.com/schmitthub/ssh-docker/internal/config"
	"github.com/schmitthub/ssh-docker/internal/iostreams"
)

// ConfigOptions holds options for the config command.
type ConfigOptions struct {
	IOStreams *iostreams.IOStreams
	Config    func() (*config.Settings, error)
}

// NewCmdConfig creates the config command.
func NewCmdConfig(f *cmdutil.Factory, runF func(context.Context, *ConfigOptions) error) *cobra.Command {
	opts := &ConfigOptions{
		IOStreams: f.IOStreams,
		Config:    f.Config,
	}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective settings",
		Long: `Prints the settings ssh-docker runs with, after merging the config file,
SSH_DOCKER_* environment variables and built-in defaults.`,
		Example: `  # Show settings
  ssh-docker config

  # Show settings with an override
  SSH_DOCKER_STOP_TIMEOUT=5 ssh-docker config`,
		Args: cmdutil.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return configRun(cmd.Context(), opts)
		},
	}

	return cmd
}

func configRun(_ context.Context, opts *ConfigOptions) error {
	ios := opts.IOStreams

	settings, err := opts.Config()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	ios.Logger.Debug().Str("login", settings.Login).Msg("printing settings")

	enc := yaml.NewEncoder(ios.Out)
	enc.SetIndent(2)
	if err := enc.Encode(settings); err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	return enc.Close()
}
