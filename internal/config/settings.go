// Package config loads ssh-docker settings from an optional YAML file,
// SSH_DOCKER_* environment variables and built-in defaults.
package config

// Settings is the effective ssh-docker configuration.
type Settings struct {
	// Login is the account inside the testbed the harness connects as.
	Login string `mapstructure:"login" yaml:"login"`
	// Home is Login's home directory inside the testbed.
	Home string `mapstructure:"home" yaml:"home"`
	// ContainerPrefix is prepended to the random container name suffix.
	ContainerPrefix string `mapstructure:"container_prefix" yaml:"container_prefix"`
	// Identities lists private key candidates, probed in order.
	Identities []string `mapstructure:"identities" yaml:"identities"`
	// StopTimeout is the grace period in seconds before a stopped testbed is
	// killed. Nil leaves the daemon default in place.
	StopTimeout *int `mapstructure:"stop_timeout" yaml:"stop_timeout,omitempty"`
	// KeepOnFailure leaves a half-provisioned testbed running when open fails.
	KeepOnFailure bool   `mapstructure:"keep_on_failure" yaml:"keep_on_failure"`
	AptProxyFile  string `mapstructure:"apt_proxy_file" yaml:"apt_proxy_file"`

	Build   BuildSettings   `mapstructure:"build" yaml:"build"`
	Logging LoggingSettings `mapstructure:"logging" yaml:"logging"`
}

// BuildSettings configures image builds.
type BuildSettings struct {
	// Dockerfile is built when neither --dockerfile nor --image is given.
	Dockerfile string `mapstructure:"dockerfile" yaml:"dockerfile,omitempty"`
}

// LoggingSettings configures the rotated file log.
type LoggingSettings struct {
	FileEnabled bool `mapstructure:"file_enabled" yaml:"file_enabled"`
	MaxSizeMB   int  `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxAgeDays  int  `mapstructure:"max_age_days" yaml:"max_age_days"`
	MaxBackups  int  `mapstructure:"max_backups" yaml:"max_backups"`
}

const (
	DefaultLogin           = "test"
	DefaultHome            = "/home/test"
	DefaultContainerPrefix = "autopkgtest-"
	DefaultAptProxyFile    = "/etc/apt/apt.conf.d/01proxy"
)

// DefaultIdentities are the private keys probed when none are configured.
func DefaultIdentities() []string {
	return []string{
		"~/.ssh/id_ed25519",
		"~/.ssh/id_ecdsa",
		"~/.ssh/id_rsa",
	}
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() *Settings {
	return &Settings{
		Login:           DefaultLogin,
		Home:            DefaultHome,
		ContainerPrefix: DefaultContainerPrefix,
		Identities:      DefaultIdentities(),
		AptProxyFile:    DefaultAptProxyFile,
		Logging: LoggingSettings{
			MaxSizeMB:  10,
			MaxAgeDays: 7,
			MaxBackups: 3,
		},
	}
}
