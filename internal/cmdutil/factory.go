package cmdutil

import (
	"context"
	"io"

	"github.com/schmitthub/ssh-docker/internal/config"
	"github.com/schmitthub/ssh-docker/internal/iostreams"
	"github.com/schmitthub/ssh-docker/internal/testbed"
)

// RuntimeClient is a testbed runtime holding an open daemon connection.
type RuntimeClient interface {
	testbed.Runtime
	io.Closer
}

// Factory provides shared dependencies for CLI commands.
// It is a dependency injection container: the struct defines what
// dependencies exist (the contract), while internal/cmd/factory
// wires the real implementations.
//
// Commands extract only the fields they need into per-command Options
// structs.
type Factory struct {
	// Version info (set at build time via ldflags)
	Version string
	Commit  string

	// ConfigPath is the --config flag value; empty selects the default location.
	ConfigPath string

	IOStreams *iostreams.IOStreams

	// Client opens a new runtime connection on every call. The caller
	// closes it before returning.
	Client func(context.Context) (RuntimeClient, error)

	// Config returns the effective settings, loaded once.
	Config func() (*config.Settings, error)
}
