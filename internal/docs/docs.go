// Package docs renders man pages and markdown reference pages from the
// ssh-docker command tree.
package docs

import (
	"sort"

	"github.com/spf13/cobra"
)

// ExitStatus documents one process exit code.
type ExitStatus struct {
	Code        int
	Description string
}

// visibleCommands returns the non-hidden subcommands of cmd sorted by name,
// without cobra's help command.
func visibleCommands(cmd *cobra.Command) []*cobra.Command {
	var commands []*cobra.Command
	for _, c := range cmd.Commands() {
		if !c.Hidden && c.Name() != "help" && c.Name() != "completion" {
			commands = append(commands, c)
		}
	}
	sort.Slice(commands, func(i, j int) bool {
		return commands[i].Name() < commands[j].Name()
	})
	return commands
}
