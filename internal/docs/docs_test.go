package docs

import (
	"github.com/spf13/cobra"
)

// newTestRootCmd builds a small tree shaped like the ssh-docker CLI.
func newTestRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ssh-docker",
		Short: "Docker testbeds for autopkgtest-virt-ssh",
		Long:  "Provides Docker containers as autopkgtest testbeds.",
	}
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "Settings file `PATH`")

	openCmd := &cobra.Command{
		Use:   "open",
		Short: "Start a testbed",
		Long:  "Builds or selects an image and starts a testbed.",
		Example: `  # Build and start
  ssh-docker open --dockerfile ./Dockerfile`,
		RunE: func(*cobra.Command, []string) error { return nil },
	}
	openCmd.Flags().String("apt-proxy", "", "Proxy `URL` for apt")
	openCmd.Flags().String("image", "", "Use this image")
	rootCmd.AddCommand(openCmd)

	cleanupCmd := &cobra.Command{
		Use:   "cleanup --container NAME",
		Short: "Stop a testbed",
		RunE:  func(*cobra.Command, []string) error { return nil },
	}
	cleanupCmd.Flags().String("container", "", "Container name")
	rootCmd.AddCommand(cleanupCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:    "internal",
		Short:  "Hidden command",
		Hidden: true,
		RunE:   func(*cobra.Command, []string) error { return nil },
	})

	return rootCmd
}
