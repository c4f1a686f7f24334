package root

import (
	"github.com/spf13/cobra"

	"github.com/schmitthub/ssh-docker/internal/cmd/cleanup"
	"github.com/schmitthub/ssh-docker/internal/cmd/configcmd"
	"github.com/schmitthub/ssh-docker/internal/cmd/debugfailure"
	"github.com/schmitthub/ssh-docker/internal/cmd/open"
	"github.com/schmitthub/ssh-docker/internal/cmd/revert"
	versioncmd "github.com/schmitthub/ssh-docker/internal/cmd/version"
	"github.com/schmitthub/ssh-docker/internal/cmdutil"
	"github.com/schmitthub/ssh-docker/internal/config"
	"github.com/schmitthub/ssh-docker/internal/logger"
)

// NewCmdRoot creates the root command for the ssh-docker CLI.
func NewCmdRoot(f *cmdutil.Factory) *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "ssh-docker",
		Short: "Docker testbeds for autopkgtest-virt-ssh",
		Long: `ssh-docker provides Docker containers as testbeds for autopkgtest's ssh
virtualization server. Pass it as the setup script:

  autopkgtest ... -- ssh -s ssh-docker -- --dockerfile ./Dockerfile

The image must run an ssh server and contain the login user (test by
default). open prints the connection record on stdout; everything else
is written to stderr.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initializeLogger(f, debug)

			logger.Debug().
				Str("version", f.Version).
				Str("command", cmd.CommandPath()).
				Bool("debug", debug).
				Msg("ssh-docker starting")

			return nil
		},
		Version: f.Version,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "D", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&f.ConfigPath, "config", "", "Settings file `PATH` (default $XDG_CONFIG_HOME/ssh-docker/config.yaml)")

	cmd.SetVersionTemplate(versioncmd.Format(f.Version, f.Commit))
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return cmdutil.FlagErrorWrap(err)
	})

	// Testbed commands called by autopkgtest-virt-ssh
	cmd.AddCommand(open.NewCmdOpen(f, nil))
	cmd.AddCommand(cleanup.NewCmdCleanup(f, nil))
	cmd.AddCommand(revert.NewCmdRevert(f, nil))
	cmd.AddCommand(debugfailure.NewCmdDebugFailure(f, nil))

	cmd.AddCommand(configcmd.NewCmdConfig(f, nil))
	cmd.AddCommand(versioncmd.NewCmdVersion(f))

	return cmd
}

// initializeLogger sets up the logger with file logging if possible.
// Falls back to console-only logging on any errors.
func initializeLogger(f *cmdutil.Factory, debug bool) {
	ios := f.IOStreams
	color := ios.ColorEnabled()

	settings, err := f.Config()
	if err != nil {
		logger.Init(debug, ios.ErrOut, color)
		logger.Warn().Err(err).Msg("file logging unavailable: failed to load settings")
		return
	}

	if !settings.Logging.FileEnabled {
		logger.Init(debug, ios.ErrOut, color)
		return
	}

	logsDir, err := config.LogsDir()
	if err != nil {
		logger.Init(debug, ios.ErrOut, color)
		logger.Warn().Err(err).Msg("file logging unavailable: failed to get logs directory")
		return
	}

	logCfg := &logger.LoggingConfig{
		FileEnabled: settings.Logging.FileEnabled,
		MaxSizeMB:   settings.Logging.MaxSizeMB,
		MaxAgeDays:  settings.Logging.MaxAgeDays,
		MaxBackups:  settings.Logging.MaxBackups,
	}
	if err := logger.InitWithFile(debug, ios.ErrOut, color, logsDir, logCfg); err != nil {
		logger.Init(debug, ios.ErrOut, color)
		logger.Warn().Err(err).Msg("file logging unavailable: failed to initialize file writer")
	}
}
