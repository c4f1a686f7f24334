package docs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// GenMarkdownTree writes one markdown page per visible command under dir.
func GenMarkdownTree(cmd *cobra.Command, dir string) error {
	return GenMarkdownTreeCustom(cmd, dir, func(string) string { return "" }, markdownLink)
}

// GenMarkdownTreeCustom is GenMarkdownTree with a hook that returns content
// to prepend to each file (front matter) and one that maps a command path
// to a link target.
func GenMarkdownTreeCustom(cmd *cobra.Command, dir string, filePrepender, linkHandler func(string) string) error {
	for _, c := range visibleCommands(cmd) {
		if err := GenMarkdownTreeCustom(c, dir, filePrepender, linkHandler); err != nil {
			return err
		}
	}

	filename := filepath.Join(dir, markdownFilename(cmd))
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", filename, err)
	}
	defer f.Close()

	if prepend := filePrepender(filename); prepend != "" {
		if _, err := io.WriteString(f, prepend); err != nil {
			return fmt.Errorf("failed to write prepender to %s: %w", filename, err)
		}
	}

	return GenMarkdown(cmd, f, linkHandler)
}

// GenMarkdown writes the markdown page of a single command.
func GenMarkdown(cmd *cobra.Command, w io.Writer, linkHandler func(string) string) error {
	if linkHandler == nil {
		linkHandler = markdownLink
	}
	cmd.InitDefaultHelpFlag()

	buf := new(bytes.Buffer)
	name := cmd.CommandPath()

	buf.WriteString("## " + name + "\n\n")
	if cmd.Short != "" {
		buf.WriteString(cmd.Short + "\n\n")
	}

	buf.WriteString("### Synopsis\n\n")
	if cmd.Long != "" {
		buf.WriteString(cmd.Long + "\n\n")
	}
	if cmd.Runnable() {
		buf.WriteString("```\n" + cmd.UseLine() + "\n```\n\n")
	}

	if cmd.Example != "" {
		buf.WriteString("### Examples\n\n")
		buf.WriteString("```\n" + cmd.Example + "\n```\n\n")
	}

	if subcommands := visibleCommands(cmd); len(subcommands) > 0 {
		buf.WriteString("### Commands\n\n")
		for _, c := range subcommands {
			fmt.Fprintf(buf, "* [%s](%s) - %s\n", c.CommandPath(), linkHandler(c.CommandPath()), c.Short)
		}
		buf.WriteString("\n")
	}

	if flags := cmd.NonInheritedFlags(); flags.HasAvailableFlags() {
		buf.WriteString("### Options\n\n```\n")
		buf.WriteString(flags.FlagUsages())
		buf.WriteString("```\n\n")
	}

	if flags := cmd.InheritedFlags(); flags.HasAvailableFlags() {
		buf.WriteString("### Options inherited from parent commands\n\n```\n")
		buf.WriteString(flags.FlagUsages())
		buf.WriteString("```\n\n")
	}

	if cmd.HasParent() {
		parent := cmd.Parent()
		buf.WriteString("### See also\n\n")
		fmt.Fprintf(buf, "* [%s](%s) - %s\n", parent.CommandPath(), linkHandler(parent.CommandPath()), parent.Short)
	}

	_, err := buf.WriteTo(w)
	return err
}

func markdownFilename(cmd *cobra.Command) string {
	return strings.ReplaceAll(cmd.CommandPath(), " ", "_") + ".md"
}

func markdownLink(cmdPath string) string {
	return strings.ReplaceAll(cmdPath, " ", "_") + ".md"
}
