// Package dockertest provides test doubles for internal/docker.Client.
//
// FakeAPIClient fakes the Docker SDK's client.APIClient and is composed into
// a real *docker.Client, so adapter code runs unmodified against it:
//
//	fake := dockertest.NewFakeClient()
//	fake.SetupContainerInspect(dockertest.RunningContainerFixture("c0ffee", "autopkgtest-0a1b2c3d"))
//	state, err := fake.Client.InspectContainer(ctx, "autopkgtest-0a1b2c3d")
//
//	fake.AssertCalled(t, "ContainerInspect")
package dockertest

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// FakeAPIClient is a test double for client.APIClient using the function-field
// pattern. Each SDK method the adapter calls has a corresponding Fn field. If
// the field is set, the fake delegates to it and records the call. If the
// field is nil, the call panics with "not implemented: MethodName".
//
// The embedded client.APIClient is nil; any other method panics on use.
type FakeAPIClient struct {
	client.APIClient

	mu sync.Mutex

	// Calls records the method names invoked on this fake, in order.
	Calls []string

	PingFn  func(ctx context.Context) (types.Ping, error)
	CloseFn func() error

	ContainerCreateFn  func(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStartFn   func(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerStopFn    func(ctx context.Context, containerID string, options container.StopOptions) error
	ContainerRemoveFn  func(ctx context.Context, containerID string, options container.RemoveOptions) error
	ContainerInspectFn func(ctx context.Context, containerID string) (container.InspectResponse, error)
	ContainerWaitFn    func(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error)
	ContainerLogsFn    func(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error)

	ContainerExecCreateFn  func(ctx context.Context, containerID string, options container.ExecOptions) (container.ExecCreateResponse, error)
	ContainerExecAttachFn  func(ctx context.Context, execID string, options container.ExecAttachOptions) (types.HijackedResponse, error)
	ContainerExecInspectFn func(ctx context.Context, execID string) (container.ExecInspect, error)

	ImageBuildFn   func(ctx context.Context, buildContext io.Reader, options build.ImageBuildOptions) (build.ImageBuildResponse, error)
	ImageInspectFn func(ctx context.Context, imageID string, opts ...client.ImageInspectOption) (image.InspectResponse, error)
}

// NewFakeAPIClient returns a fake with no behaviour configured.
func NewFakeAPIClient() *FakeAPIClient {
	return &FakeAPIClient{}
}

func (f *FakeAPIClient) record(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, method)
}

// CallCount returns how many times method was called.
func (f *FakeAPIClient) CallCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == method {
			n++
		}
	}
	return n
}

// Reset clears the call log.
func (f *FakeAPIClient) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = nil
}

func notImplemented(method string) string {
	return fmt.Sprintf("not implemented: %s", method)
}

func (f *FakeAPIClient) Ping(ctx context.Context) (types.Ping, error) {
	if f.PingFn == nil {
		panic(notImplemented("Ping"))
	}
	f.record("Ping")
	return f.PingFn(ctx)
}

func (f *FakeAPIClient) Close() error {
	f.record("Close")
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

func (f *FakeAPIClient) ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error) {
	if f.ContainerCreateFn == nil {
		panic(notImplemented("ContainerCreate"))
	}
	f.record("ContainerCreate")
	return f.ContainerCreateFn(ctx, config, hostConfig, networkingConfig, platform, containerName)
}

func (f *FakeAPIClient) ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error {
	if f.ContainerStartFn == nil {
		panic(notImplemented("ContainerStart"))
	}
	f.record("ContainerStart")
	return f.ContainerStartFn(ctx, containerID, options)
}

func (f *FakeAPIClient) ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error {
	if f.ContainerStopFn == nil {
		panic(notImplemented("ContainerStop"))
	}
	f.record("ContainerStop")
	return f.ContainerStopFn(ctx, containerID, options)
}

func (f *FakeAPIClient) ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error {
	if f.ContainerRemoveFn == nil {
		panic(notImplemented("ContainerRemove"))
	}
	f.record("ContainerRemove")
	return f.ContainerRemoveFn(ctx, containerID, options)
}

func (f *FakeAPIClient) ContainerInspect(ctx context.Context, containerID string) (container.InspectResponse, error) {
	if f.ContainerInspectFn == nil {
		panic(notImplemented("ContainerInspect"))
	}
	f.record("ContainerInspect")
	return f.ContainerInspectFn(ctx, containerID)
}

func (f *FakeAPIClient) ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error) {
	if f.ContainerWaitFn == nil {
		panic(notImplemented("ContainerWait"))
	}
	f.record("ContainerWait")
	return f.ContainerWaitFn(ctx, containerID, condition)
}

func (f *FakeAPIClient) ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error) {
	if f.ContainerLogsFn == nil {
		panic(notImplemented("ContainerLogs"))
	}
	f.record("ContainerLogs")
	return f.ContainerLogsFn(ctx, containerID, options)
}

func (f *FakeAPIClient) ContainerExecCreate(ctx context.Context, containerID string, options container.ExecOptions) (container.ExecCreateResponse, error) {
	if f.ContainerExecCreateFn == nil {
		panic(notImplemented("ContainerExecCreate"))
	}
	f.record("ContainerExecCreate")
	return f.ContainerExecCreateFn(ctx, containerID, options)
}

func (f *FakeAPIClient) ContainerExecAttach(ctx context.Context, execID string, options container.ExecAttachOptions) (types.HijackedResponse, error) {
	if f.ContainerExecAttachFn == nil {
		panic(notImplemented("ContainerExecAttach"))
	}
	f.record("ContainerExecAttach")
	return f.ContainerExecAttachFn(ctx, execID, options)
}

func (f *FakeAPIClient) ContainerExecInspect(ctx context.Context, execID string) (container.ExecInspect, error) {
	if f.ContainerExecInspectFn == nil {
		panic(notImplemented("ContainerExecInspect"))
	}
	f.record("ContainerExecInspect")
	return f.ContainerExecInspectFn(ctx, execID)
}

func (f *FakeAPIClient) ImageBuild(ctx context.Context, buildContext io.Reader, options build.ImageBuildOptions) (build.ImageBuildResponse, error) {
	if f.ImageBuildFn == nil {
		panic(notImplemented("ImageBuild"))
	}
	f.record("ImageBuild")
	return f.ImageBuildFn(ctx, buildContext, options)
}

func (f *FakeAPIClient) ImageInspect(ctx context.Context, imageID string, opts ...client.ImageInspectOption) (image.InspectResponse, error) {
	if f.ImageInspectFn == nil {
		panic(notImplemented("ImageInspect"))
	}
	f.record("ImageInspect")
	return f.ImageInspectFn(ctx, imageID, opts...)
}
