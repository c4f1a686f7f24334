package testbed

import (
	"context"
	"io"
)

// Runtime is the container runtime the Manager drives. Implementations
// must report missing images and containers with errors satisfying
// cerrdefs.IsNotFound.
type Runtime interface {
	// BuildImage builds an image and returns its ID. Build log lines are
	// written to progress as they arrive.
	BuildImage(ctx context.Context, req BuildRequest, progress io.Writer) (string, error)
	// ImageID resolves an image reference to its ID.
	ImageID(ctx context.Context, ref string) (string, error)
	// RunContainer creates and starts a detached container and returns its ID.
	RunContainer(ctx context.Context, req RunRequest) (string, error)
	// Exec runs cmd inside a running container and waits for it to exit.
	Exec(ctx context.Context, containerID string, cmd []string) (*ExecResult, error)
	// InspectContainer fetches the current state of a container by name or ID.
	InspectContainer(ctx context.Context, ref string) (*ContainerState, error)
	// StopContainer stops a container. For auto-removed containers it
	// returns once the container is gone. A nil timeout uses the daemon default.
	StopContainer(ctx context.Context, id string, timeout *int) error
	// CopyLogs writes the container's combined stdout and stderr to w.
	CopyLogs(ctx context.Context, id string, w io.Writer) error
	// RemoveContainer force-removes a container.
	RemoveContainer(ctx context.Context, id string) error
}

// BuildRequest describes an image build from a directory context.
type BuildRequest struct {
	// ContextDir is the build context root.
	ContextDir string
	// Dockerfile is the Dockerfile path relative to ContextDir.
	Dockerfile string
	Tags       []string
	BuildArgs  map[string]*string
}

// RunRequest describes a testbed container.
type RunRequest struct {
	Name       string
	Image      string
	Env        []string
	AutoRemove bool
}

// ExecResult is the outcome of a command run inside a container.
type ExecResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// ContainerState is the subset of inspect data the Manager acts on.
type ContainerState struct {
	ID      string
	Name    string
	ImageID string
	Running bool
	// Networks is sorted by network name.
	Networks []NetworkAddress
}

// NetworkAddress holds the addresses a container has on one network.
type NetworkAddress struct {
	Name              string
	IPAddress         string
	GlobalIPv6Address string
}
