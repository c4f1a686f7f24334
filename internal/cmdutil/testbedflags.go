package cmdutil

import (
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/schmitthub/ssh-docker/internal/config"
	"github.com/schmitthub/ssh-docker/internal/identity"
	"github.com/schmitthub/ssh-docker/internal/testbed"
)

// TestbedFlags holds the options autopkgtest-virt-ssh passes to every
// subcommand. Subcommands accept all of them even when unused.
type TestbedFlags struct {
	AptProxy   string
	Dockerfile string
	Image      string
	Container  string
}

// AddTestbedFlags registers --apt-proxy, --dockerfile and --image.
func AddTestbedFlags(cmd *cobra.Command, f *TestbedFlags) {
	cmd.Flags().StringVar(&f.AptProxy, "apt-proxy", "", "Proxy `URL` for apt inside the testbed")
	cmd.Flags().StringVar(&f.Dockerfile, "dockerfile", "", "Build this Dockerfile (its parent directory is the build context)")
	cmd.Flags().StringVar(&f.Image, "image", "", "Use this image, or tag the image built from --dockerfile")
}

// AddContainerFlag registers --container for commands acting on a running testbed.
func AddContainerFlag(cmd *cobra.Command, f *TestbedFlags) {
	cmd.Flags().StringVar(&f.Container, "container", "", "`NAME` of the running testbed container (required)")
}

// RequireContainer returns a FlagError when --container was not given.
func (f *TestbedFlags) RequireContainer() error {
	if f.Container == "" {
		return requiredFlagError("container")
	}
	return nil
}

// BuildConfig resolves the image source. Without --dockerfile and --image
// the build.dockerfile setting is used; if that is empty too, the result
// is a FlagError.
func (f *TestbedFlags) BuildConfig(settings *config.Settings) (testbed.BuildConfig, error) {
	if err := f.checkAptProxy(); err != nil {
		return testbed.BuildConfig{}, err
	}
	cfg := testbed.BuildConfig{
		Dockerfile: f.Dockerfile,
		Image:      f.Image,
		Proxy:      f.AptProxy,
	}
	if cfg.Dockerfile != "" || cfg.Image != "" {
		return cfg, nil
	}

	if settings != nil && settings.Build.Dockerfile != "" {
		path, err := identity.ExpandHome(settings.Build.Dockerfile)
		if err != nil {
			return cfg, err
		}
		cfg.Dockerfile = path
		return cfg, nil
	}
	return cfg, FlagErrorf("--image is required when --dockerfile is not given")
}

// RevertConfig resolves the image source for revert, which never builds
// and therefore needs --image.
func (f *TestbedFlags) RevertConfig() (testbed.BuildConfig, error) {
	if f.Image == "" {
		return testbed.BuildConfig{}, requiredFlagError("image")
	}
	if err := f.checkAptProxy(); err != nil {
		return testbed.BuildConfig{}, err
	}
	return testbed.BuildConfig{Image: f.Image, Proxy: f.AptProxy}, nil
}

// checkAptProxy rejects proxies that cannot sit inside a quoted apt.conf value.
func (f *TestbedFlags) checkAptProxy() error {
	if strings.ContainsFunc(f.AptProxy, func(r rune) bool { return r == '"' || unicode.IsControl(r) }) {
		return FlagErrorf("invalid --apt-proxy %q: quotes and control characters are not allowed", f.AptProxy)
	}
	return nil
}
