package dockertest

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"testing"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/stretchr/testify/require"

	"github.com/schmitthub/ssh-docker/internal/docker"
)

// FakeClient pairs a real *docker.Client with the fake API it talks to.
type FakeClient struct {
	Client  *docker.Client
	FakeAPI *FakeAPIClient
}

// NewFakeClient returns a docker.Client backed by a FakeAPIClient.
func NewFakeClient() *FakeClient {
	api := NewFakeAPIClient()
	return &FakeClient{
		Client:  docker.NewClientFromAPI(api),
		FakeAPI: api,
	}
}

// AssertCalled asserts that the given method was called at least once.
func (f *FakeClient) AssertCalled(t *testing.T, method string) {
	t.Helper()
	require.Positive(t, f.FakeAPI.CallCount(method), "expected %s to be called; calls: %v", method, f.FakeAPI.Calls)
}

// AssertNotCalled asserts that the given method was never called.
func (f *FakeClient) AssertNotCalled(t *testing.T, method string) {
	t.Helper()
	require.Zero(t, f.FakeAPI.CallCount(method), "expected %s not to be called; calls: %v", method, f.FakeAPI.Calls)
}

// AssertCalledN asserts that the given method was called exactly n times.
func (f *FakeClient) AssertCalledN(t *testing.T, method string, n int) {
	t.Helper()
	require.Equal(t, n, f.FakeAPI.CallCount(method), "calls: %v", f.FakeAPI.Calls)
}

// NotFoundError returns an error classified as not found, like the daemon's 404s.
func NotFoundError(what string) error {
	return fmt.Errorf("Error response from daemon: No such container: %s: %w", what, cerrdefs.ErrNotFound)
}

// ContainerFixture builds an inspect response for a stopped, auto-removed container.
func ContainerFixture(id, name string) container.InspectResponse {
	return container.InspectResponse{
		ContainerJSONBase: &container.ContainerJSONBase{
			ID:         id,
			Name:       "/" + name,
			Image:      "sha256:4f5e6d7c8b9a",
			State:      &container.State{Status: "exited"},
			HostConfig: &container.HostConfig{AutoRemove: true},
		},
		Config:          &container.Config{Image: "sha256:4f5e6d7c8b9a"},
		NetworkSettings: &container.NetworkSettings{},
	}
}

// RunningContainerFixture builds an inspect response for a running,
// auto-removed container on the default bridge network.
func RunningContainerFixture(id, name string) container.InspectResponse {
	c := ContainerFixture(id, name)
	c.State = &container.State{Status: "running", Running: true}
	c.NetworkSettings.Networks = map[string]*network.EndpointSettings{
		"bridge": {IPAddress: "172.17.0.2"},
	}
	return c
}

// SetupContainerInspect makes inspects of the fixture's ID or name succeed
// and everything else report not found.
func (f *FakeClient) SetupContainerInspect(fixture container.InspectResponse) {
	f.FakeAPI.ContainerInspectFn = func(_ context.Context, ref string) (container.InspectResponse, error) {
		if ref == fixture.ID || "/"+ref == fixture.Name {
			return fixture, nil
		}
		return container.InspectResponse{}, NotFoundError(ref)
	}
}

// SetupContainerInspectNotFound makes every inspect report not found.
func (f *FakeClient) SetupContainerInspectNotFound() {
	f.FakeAPI.ContainerInspectFn = func(_ context.Context, ref string) (container.InspectResponse, error) {
		return container.InspectResponse{}, NotFoundError(ref)
	}
}

// SetupContainerStop configures the fake to succeed on ContainerStop.
func (f *FakeClient) SetupContainerStop() {
	f.FakeAPI.ContainerStopFn = func(context.Context, string, container.StopOptions) error {
		return nil
	}
}

// SetupContainerRemove configures the fake to succeed on ContainerRemove.
func (f *FakeClient) SetupContainerRemove() {
	f.FakeAPI.ContainerRemoveFn = func(context.Context, string, container.RemoveOptions) error {
		return nil
	}
}

// SetupContainerWaitRemoved makes ContainerWait report removal once
// ContainerStop has been called.
func (f *FakeClient) SetupContainerWaitRemoved() {
	stopped := make(chan struct{})
	var once sync.Once
	stop := f.FakeAPI.ContainerStopFn
	f.FakeAPI.ContainerStopFn = func(ctx context.Context, id string, opts container.StopOptions) error {
		defer once.Do(func() { close(stopped) })
		if stop != nil {
			return stop(ctx, id, opts)
		}
		return nil
	}
	f.FakeAPI.ContainerWaitFn = func(ctx context.Context, _ string, _ container.WaitCondition) (<-chan container.WaitResponse, <-chan error) {
		waitC := make(chan container.WaitResponse, 1)
		errC := make(chan error, 1)
		go func() {
			select {
			case <-stopped:
				waitC <- container.WaitResponse{}
			case <-ctx.Done():
				errC <- ctx.Err()
			}
		}()
		return waitC, errC
	}
}

// SetupContainerWaitError makes ContainerWait fail with err immediately.
func (f *FakeClient) SetupContainerWaitError(err error) {
	f.FakeAPI.ContainerWaitFn = func(context.Context, string, container.WaitCondition) (<-chan container.WaitResponse, <-chan error) {
		errC := make(chan error, 1)
		errC <- err
		return make(chan container.WaitResponse), errC
	}
}

// SetupLogs returns stdout and stderr framed as a multiplexed log stream.
func (f *FakeClient) SetupLogs(stdout, stderr string) {
	f.FakeAPI.ContainerLogsFn = func(context.Context, string, container.LogsOptions) (io.ReadCloser, error) {
		var sb strings.Builder
		if stdout != "" {
			_, _ = stdcopy.NewStdWriter(&sb, stdcopy.Stdout).Write([]byte(stdout))
		}
		if stderr != "" {
			_, _ = stdcopy.NewStdWriter(&sb, stdcopy.Stderr).Write([]byte(stderr))
		}
		return io.NopCloser(strings.NewReader(sb.String())), nil
	}
}

// SetupRawLogs returns data as an unframed (TTY) log stream.
func (f *FakeClient) SetupRawLogs(data string) {
	f.FakeAPI.ContainerLogsFn = func(context.Context, string, container.LogsOptions) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(data)), nil
	}
}

// SetupExec makes every exec print stdout and stderr and exit with exitCode.
// Executed commands are appended to cmds when it is non-nil.
func (f *FakeClient) SetupExec(stdout, stderr string, exitCode int, cmds *[][]string) {
	f.FakeAPI.ContainerExecCreateFn = func(_ context.Context, _ string, opts container.ExecOptions) (container.ExecCreateResponse, error) {
		if cmds != nil {
			*cmds = append(*cmds, opts.Cmd)
		}
		return container.ExecCreateResponse{ID: "exec-1"}, nil
	}
	f.FakeAPI.ContainerExecAttachFn = func(context.Context, string, container.ExecAttachOptions) (types.HijackedResponse, error) {
		clientConn, serverConn := net.Pipe()
		go func() {
			defer serverConn.Close()
			if stdout != "" {
				_, _ = stdcopy.NewStdWriter(serverConn, stdcopy.Stdout).Write([]byte(stdout))
			}
			if stderr != "" {
				_, _ = stdcopy.NewStdWriter(serverConn, stdcopy.Stderr).Write([]byte(stderr))
			}
		}()
		return types.NewHijackedResponse(clientConn, "application/vnd.docker.multiplexed-stream"), nil
	}
	f.FakeAPI.ContainerExecInspectFn = func(context.Context, string) (container.ExecInspect, error) {
		return container.ExecInspect{ExecID: "exec-1", ExitCode: exitCode}, nil
	}
}

// BuildStream joins JSON messages into a build response body.
func BuildStream(messages ...string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(strings.Join(messages, "\r\n") + "\r\n"))
}
