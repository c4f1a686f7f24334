// Package sshdocker wires the ssh-docker command tree to the process:
// it executes the root command and turns its error into output on
// stderr and an exit status.
package sshdocker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/schmitthub/ssh-docker/internal/cmd/factory"
	"github.com/schmitthub/ssh-docker/internal/cmd/root"
	"github.com/schmitthub/ssh-docker/internal/cmdutil"
	"github.com/schmitthub/ssh-docker/internal/logger"
	"github.com/schmitthub/ssh-docker/internal/signals"
	"github.com/schmitthub/ssh-docker/internal/testbed"
)

// Build-time variables injected via ldflags
var (
	Version = "dev"
	Commit  = "none"
)

const (
	exitOK    = 0
	exitUsage = 2
)

// Main is the entry point for the ssh-docker CLI.
func Main() int {
	defer logger.CloseFileWriter()

	ctx, cancel := signals.SetupSignalContext(context.Background())
	defer cancel()

	f := factory.New(Version, Commit)
	return execute(ctx, f, os.Args[1:])
}

func execute(ctx context.Context, f *cmdutil.Factory, args []string) int {
	rootCmd := root.NewCmdRoot(f)
	rootCmd.SetArgs(args)
	rootCmd.SetIn(f.IOStreams.In)
	rootCmd.SetOut(f.IOStreams.Out)
	rootCmd.SetErr(f.IOStreams.ErrOut)

	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err == nil {
		return exitOK
	}
	logger.Debug().Err(err).Msg("command failed")
	return printError(f.IOStreams.ErrOut, cmd, err)
}

// printError writes err to w once and returns the exit status for it.
func printError(w io.Writer, cmd *cobra.Command, err error) int {
	var flagErr *cmdutil.FlagError
	if errors.As(err, &flagErr) || isUnknownCommand(err) {
		msg := err.Error()
		fmt.Fprintln(w, "Error: "+strings.TrimSuffix(msg, "\n"))
		if cmd != nil && !strings.Contains(msg, "Usage:") {
			fmt.Fprintln(w)
			fmt.Fprint(w, cmd.UsageString())
		}
		return exitUsage
	}

	var userErr cmdutil.UserFormattedError
	if errors.As(err, &userErr) {
		fmt.Fprint(w, userErr.FormatUserError())
	} else {
		fmt.Fprintf(w, "Error: %s\n", err)
	}

	return testbed.ExitCode(err)
}

func isUnknownCommand(err error) bool {
	return strings.HasPrefix(err.Error(), "unknown command ")
}
