package docs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cpuguy83/go-md2man/v2/md2man"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// GenManHeader contains man page metadata.
type GenManHeader struct {
	Title   string
	Section string
	Date    *time.Time
	Source  string
	Manual  string

	// ExitStatus is rendered on the root command's page only.
	ExitStatus []ExitStatus
	// Environment lists variables honored by the program, rendered on the
	// root command's page only.
	Environment map[string]string
}

// GenManTree writes one man page per visible command under dir.
// Pages are named after the command path joined with "-".
func GenManTree(cmd *cobra.Command, dir string, header *GenManHeader) error {
	if header == nil {
		header = &GenManHeader{}
	}
	if header.Section == "" {
		header.Section = "1"
	}
	if header.Source == "" {
		header.Source = "ssh-docker"
	}
	if header.Manual == "" {
		header.Manual = "ssh-docker Manual"
	}

	for _, c := range visibleCommands(cmd) {
		if err := GenManTree(c, dir, header); err != nil {
			return err
		}
	}

	filename := filepath.Join(dir, manFilename(cmd, header.Section))
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", filename, err)
	}
	defer f.Close()

	return GenMan(cmd, header, f)
}

// GenMan writes the man page of a single command in roff.
func GenMan(cmd *cobra.Command, header *GenManHeader, w io.Writer) error {
	if header == nil {
		header = &GenManHeader{Section: "1"}
	}
	_, err := w.Write(md2man.Render(genMan(cmd, header)))
	return err
}

func genMan(cmd *cobra.Command, header *GenManHeader) []byte {
	cmd.InitDefaultHelpFlag()

	buf := new(bytes.Buffer)
	name := cmd.CommandPath()

	manPreamble(buf, header, name)

	buf.WriteString("# NAME\n")
	fmt.Fprintf(buf, "%s \\- %s\n\n", name, cmd.Short)

	buf.WriteString("# SYNOPSIS\n")
	if cmd.Runnable() {
		fmt.Fprintf(buf, "**%s**", cmd.UseLine())
	} else {
		fmt.Fprintf(buf, "**%s** COMMAND [OPTIONS]", name)
	}
	buf.WriteString("\n\n")

	if cmd.Long != "" {
		buf.WriteString("# DESCRIPTION\n")
		buf.WriteString(cmd.Long + "\n\n")
	}

	if subcommands := visibleCommands(cmd); len(subcommands) > 0 {
		buf.WriteString("# COMMANDS\n")
		for _, c := range subcommands {
			fmt.Fprintf(buf, "**%s**\n: %s\n\n", c.Name(), c.Short)
		}
	}

	manPrintOptions(buf, cmd)

	if cmd.Example != "" {
		buf.WriteString("# EXAMPLES\n")
		buf.WriteString("```\n" + cmd.Example + "\n```\n\n")
	}

	if !cmd.HasParent() {
		manPrintEnvironment(buf, header.Environment)
		manPrintExitStatus(buf, header.ExitStatus)
	}

	manPrintSeeAlso(buf, cmd, header.Section)

	return buf.Bytes()
}

func manPreamble(buf *bytes.Buffer, header *GenManHeader, name string) {
	dateStr := ""
	if header.Date != nil {
		dateStr = header.Date.Format("Jan 2006")
	}

	title := header.Title
	if title == "" {
		title = strings.ToUpper(strings.ReplaceAll(name, " ", "-"))
	}

	fmt.Fprintf(buf, "%% %s(%s) %s | %s\n\n", title, header.Section, dateStr, header.Manual)
}

func manPrintOptions(buf *bytes.Buffer, cmd *cobra.Command) {
	flags := cmd.NonInheritedFlags()
	parentFlags := cmd.InheritedFlags()

	if !flags.HasAvailableFlags() && !parentFlags.HasAvailableFlags() {
		return
	}

	buf.WriteString("# OPTIONS\n")
	manPrintFlags(buf, flags)
	if parentFlags.HasAvailableFlags() {
		buf.WriteString("# GLOBAL OPTIONS\n")
		manPrintFlags(buf, parentFlags)
	}
}

func manPrintFlags(buf *bytes.Buffer, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}

		var format string
		if f.Shorthand != "" {
			format = fmt.Sprintf("**-%s**, **--%s**", f.Shorthand, f.Name)
		} else {
			format = fmt.Sprintf("**--%s**", f.Name)
		}

		varname, usage := pflag.UnquoteUsage(f)
		if varname != "" {
			format += " " + varname
		}

		buf.WriteString(format + "\n")
		buf.WriteString(": " + usage)
		if f.DefValue != "" && f.DefValue != "false" {
			fmt.Fprintf(buf, " (default: %s)", f.DefValue)
		}
		buf.WriteString("\n\n")
	})
}

func manPrintEnvironment(buf *bytes.Buffer, env map[string]string) {
	if len(env) == 0 {
		return
	}

	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	sort.Strings(names)

	buf.WriteString("# ENVIRONMENT\n")
	for _, name := range names {
		fmt.Fprintf(buf, "**%s**\n: %s\n\n", name, env[name])
	}
}

func manPrintExitStatus(buf *bytes.Buffer, codes []ExitStatus) {
	if len(codes) == 0 {
		return
	}

	buf.WriteString("# EXIT STATUS\n")
	for _, c := range codes {
		fmt.Fprintf(buf, "**%d**\n: %s\n\n", c.Code, c.Description)
	}
}

func manPrintSeeAlso(buf *bytes.Buffer, cmd *cobra.Command, section string) {
	var refs []string
	if cmd.HasParent() {
		refs = append(refs, manRef(cmd.Parent(), section))
	}
	for _, c := range visibleCommands(cmd) {
		refs = append(refs, manRef(c, section))
	}
	if !cmd.HasParent() {
		refs = append(refs, "**autopkgtest-virt-ssh(1)**")
	}

	buf.WriteString("# SEE ALSO\n")
	buf.WriteString(strings.Join(refs, ", ") + "\n")
}

func manRef(cmd *cobra.Command, section string) string {
	return fmt.Sprintf("**%s(%s)**", strings.ReplaceAll(cmd.CommandPath(), " ", "-"), section)
}

func manFilename(cmd *cobra.Command, section string) string {
	return strings.ReplaceAll(cmd.CommandPath(), " ", "-") + "." + section
}
