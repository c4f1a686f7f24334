package version

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/schmitthub/ssh-docker/internal/cmdutil"
)

// NewCmdVersion creates the "version" subcommand.
func NewCmdVersion(f *cmdutil.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version of ssh-docker",
		Args:  cmdutil.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(f.IOStreams.Out, Format(f.Version, f.Commit))
		},
	}

	return cmd
}

// Format returns the version string for display.
func Format(version, commit string) string {
	version = strings.TrimPrefix(version, "v")

	var commitStr string
	if commit != "" && commit != "none" {
		commitStr = fmt.Sprintf(" (%s)", commit)
	}

	return fmt.Sprintf("ssh-docker version %s%s\n", version, commitStr)
}
