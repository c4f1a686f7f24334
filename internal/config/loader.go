package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding settings,
// e.g. SSH_DOCKER_STOP_TIMEOUT or SSH_DOCKER_BUILD_DOCKERFILE.
const EnvPrefix = "SSH_DOCKER"

// keys lists every settings key so env overrides apply even when the key
// appears nowhere else.
var keys = []string{
	"login",
	"home",
	"container_prefix",
	"identities",
	"stop_timeout",
	"keep_on_failure",
	"apt_proxy_file",
	"build.dockerfile",
	"logging.file_enabled",
	"logging.max_size_mb",
	"logging.max_age_days",
	"logging.max_backups",
}

// Loader reads settings. An explicit path must exist; the default path in
// ConfigDir is optional.
type Loader struct {
	path  string
	viper *viper.Viper
}

// NewLoader creates a loader for the given config file. An empty path
// selects ConfigDir()/config.yaml.
func NewLoader(path string) *Loader {
	return &Loader{
		path:  path,
		viper: viper.New(),
	}
}

// Load resolves the effective settings.
func (l *Loader) Load() (*Settings, error) {
	v := l.viper
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultSettings()
	v.SetDefault("login", defaults.Login)
	v.SetDefault("home", defaults.Home)
	v.SetDefault("container_prefix", defaults.ContainerPrefix)
	v.SetDefault("identities", defaults.Identities)
	v.SetDefault("keep_on_failure", defaults.KeepOnFailure)
	v.SetDefault("apt_proxy_file", defaults.AptProxyFile)
	v.SetDefault("logging.file_enabled", defaults.Logging.FileEnabled)
	v.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	v.SetDefault("logging.max_age_days", defaults.Logging.MaxAgeDays)
	v.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)

	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	path, explicit, err := l.configPath()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if explicit || !errors.Is(statErr, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, statErr)
	}

	var s Settings
	if err := v.Unmarshal(&s, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	if len(s.Identities) == 0 {
		s.Identities = DefaultIdentities()
	}
	if s.StopTimeout != nil && *s.StopTimeout < 0 {
		return nil, fmt.Errorf("invalid stop_timeout %d: must not be negative", *s.StopTimeout)
	}

	return &s, nil
}

// ConfigFileUsed returns the config file that was read, or "" when only
// defaults and the environment applied.
func (l *Loader) ConfigFileUsed() string {
	return l.viper.ConfigFileUsed()
}

func (l *Loader) configPath() (string, bool, error) {
	if l.path != "" {
		return l.path, true, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", false, fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, ConfigFileName), false, nil
}

// Load is shorthand for NewLoader(path).Load().
func Load(path string) (*Settings, error) {
	return NewLoader(path).Load()
}
