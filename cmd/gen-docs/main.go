// gen-docs generates the ssh-docker man pages and markdown reference
// from the command tree without connecting to Docker.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/schmitthub/ssh-docker/internal/cmd/root"
	"github.com/schmitthub/ssh-docker/internal/cmdutil"
	"github.com/schmitthub/ssh-docker/internal/docs"
	"github.com/schmitthub/ssh-docker/internal/iostreams"
	"github.com/schmitthub/ssh-docker/internal/testbed"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("gen-docs", pflag.ContinueOnError)

	var (
		flagDocPath  string
		flagMarkdown bool
		flagManPage  bool
		flagWebsite  bool
	)

	flags.StringVar(&flagDocPath, "doc-path", "", "Output directory for generated docs (required)")
	flags.BoolVar(&flagMarkdown, "markdown", false, "Generate Markdown documentation")
	flags.BoolVar(&flagManPage, "man-page", false, "Generate man pages")
	flags.BoolVar(&flagWebsite, "website", false, "Add Jekyll front matter (requires --markdown)")

	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n\n%s", filepath.Base(args[0]), flags.FlagUsages())
	}

	if err := flags.Parse(args[1:]); err != nil {
		return err
	}

	if flagDocPath == "" {
		return fmt.Errorf("--doc-path is required")
	}
	if !flagMarkdown && !flagManPage {
		return fmt.Errorf("at least one format must be specified (--markdown, --man-page)")
	}
	if flagWebsite && !flagMarkdown {
		return fmt.Errorf("--website requires --markdown")
	}

	f := &cmdutil.Factory{IOStreams: iostreams.NewIOStreams()}
	rootCmd := root.NewCmdRoot(f)
	rootCmd.DisableAutoGenTag = true

	if flagMarkdown {
		dir := filepath.Join(flagDocPath, "markdown")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create markdown directory: %w", err)
		}

		var err error
		if flagWebsite {
			err = docs.GenMarkdownTreeCustom(rootCmd, dir, jekyllFilePrepender, jekyllLinkHandler)
		} else {
			err = docs.GenMarkdownTree(rootCmd, dir)
		}
		if err != nil {
			return fmt.Errorf("failed to generate Markdown documentation: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Generated Markdown documentation in %s\n", dir)
	}

	if flagManPage {
		dir := filepath.Join(flagDocPath, "man")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create man directory: %w", err)
		}

		now := time.Now()
		header := &docs.GenManHeader{
			Section:     "1",
			Date:        &now,
			ExitStatus:  exitStatus(),
			Environment: environment(),
		}
		if err := docs.GenManTree(rootCmd, dir, header); err != nil {
			return fmt.Errorf("failed to generate man pages: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Generated man pages in %s\n", dir)
	}

	return nil
}

func exitStatus() []docs.ExitStatus {
	codes := []docs.ExitStatus{
		{Code: 0, Description: "Success."},
		{Code: 1, Description: "Unexpected error, including an unreachable Docker daemon."},
		{Code: 2, Description: "Invalid flags or arguments."},
	}
	for _, k := range testbed.Kinds() {
		codes = append(codes, docs.ExitStatus{Code: k.ExitCode(), Description: kindDescription(k)})
	}
	return codes
}

func kindDescription(k testbed.Kind) string {
	switch k {
	case testbed.KindNoIdentity:
		return "No SSH key pair was found."
	case testbed.KindBuild:
		return "The image build failed."
	case testbed.KindImageNotFound:
		return "The image given with --image does not exist."
	case testbed.KindContainerStart:
		return "The testbed container could not be created or started."
	case testbed.KindProvision:
		return "Installing the public key or the apt proxy inside the testbed failed."
	case testbed.KindNoAddress:
		return "The testbed has no IP address on any network."
	case testbed.KindNotFound:
		return "The container named by --container does not exist."
	}
	return k.String()
}

func environment() map[string]string {
	return map[string]string{
		"DOCKER_HOST":                 "Docker daemon to connect to, along with the other standard Docker client variables.",
		"NO_COLOR":                    "Disable colored log output.",
		"SSH_DOCKER_BUILD_DOCKERFILE": "Dockerfile built when neither --dockerfile nor --image is given.",
		"SSH_DOCKER_KEEP_ON_FAILURE":  "Leave a testbed running when open fails.",
		"SSH_DOCKER_STOP_TIMEOUT":     "Seconds a testbed gets to shut down before it is killed.",
		"XDG_CONFIG_HOME":             "Base directory of the settings file.",
		"XDG_STATE_HOME":              "Base directory of the log file.",
	}
}

// jekyllFilePrepender returns Jekyll front matter for a given filename.
func jekyllFilePrepender(filename string) string {
	name := strings.TrimSuffix(filepath.Base(filename), ".md")
	cmdPath := strings.ReplaceAll(name, "_", " ")
	permalink := "/cli/" + strings.ReplaceAll(name, "_", "/") + "/"

	return fmt.Sprintf(`---
layout: manual
permalink: %s
title: %s
---

`, permalink, cmdPath)
}

// jekyllLinkHandler creates relative markdown links for Jekyll sites.
func jekyllLinkHandler(cmdPath string) string {
	return strings.ReplaceAll(cmdPath, " ", "_") + ".md"
}
