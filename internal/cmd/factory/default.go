package factory

import (
	"context"
	"sync"

	"github.com/schmitthub/ssh-docker/internal/cmdutil"
	"github.com/schmitthub/ssh-docker/internal/config"
	"github.com/schmitthub/ssh-docker/internal/docker"
	"github.com/schmitthub/ssh-docker/internal/iostreams"
	"github.com/schmitthub/ssh-docker/internal/logger"
)

// New creates a fully-wired Factory.
// Called exactly once at the CLI entry point (internal/sshdocker/cmd.go).
// Tests should NOT import this package; construct &cmdutil.Factory{} directly.
func New(version, commit string) *cmdutil.Factory {
	ios := iostreams.NewIOStreams()
	ios.Logger = &logger.Log

	f := &cmdutil.Factory{
		Version:   version,
		Commit:    commit,
		IOStreams: ios,
	}

	// Each call opens its own connection; commands close it when they return.
	f.Client = func(ctx context.Context) (cmdutil.RuntimeClient, error) {
		client, err := docker.NewClient(ctx)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	var (
		configOnce sync.Once
		settings   *config.Settings
		configErr  error
	)
	f.Config = func() (*config.Settings, error) {
		configOnce.Do(func() {
			settings, configErr = config.Load(f.ConfigPath)
		})
		return settings, configErr
	}

	return f
}
