// Package testbedtest provides a function-field fake of testbed.Runtime.
package testbedtest

import (
	"context"
	"fmt"
	"io"
	"sync"

	cerrdefs "github.com/containerd/errdefs"

	"github.com/schmitthub/ssh-docker/internal/testbed"
)

// FakeRuntime is a test double for testbed.Runtime. Each method delegates to
// its Fn field and records the call. A nil Fn panics with
// "not implemented: MethodName" so unexpected calls fail loudly.
type FakeRuntime struct {
	mu sync.Mutex

	// Calls records the method names invoked on this fake, in order.
	Calls []string
	// Closed is set by Close.
	Closed bool

	BuildImageFn       func(ctx context.Context, req testbed.BuildRequest, progress io.Writer) (string, error)
	ImageIDFn          func(ctx context.Context, ref string) (string, error)
	RunContainerFn     func(ctx context.Context, req testbed.RunRequest) (string, error)
	ExecFn             func(ctx context.Context, containerID string, cmd []string) (*testbed.ExecResult, error)
	InspectContainerFn func(ctx context.Context, ref string) (*testbed.ContainerState, error)
	StopContainerFn    func(ctx context.Context, id string, timeout *int) error
	CopyLogsFn         func(ctx context.Context, id string, w io.Writer) error
	RemoveContainerFn  func(ctx context.Context, id string) error
}

var _ testbed.Runtime = (*FakeRuntime)(nil)

func (f *FakeRuntime) record(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, method)
}

// CallCount returns how many times method was called.
func (f *FakeRuntime) CallCount(method string) int {
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

// Reset clears recorded calls.
func (f *FakeRuntime) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = nil
}

func notImplemented(method string) string {
	return fmt.Sprintf("not implemented: %s", method)
}

func (f *FakeRuntime) BuildImage(ctx context.Context, req testbed.BuildRequest, progress io.Writer) (string, error) {
	if f.BuildImageFn == nil {
		panic(notImplemented("BuildImage"))
	}
	f.record("BuildImage")
	return f.BuildImageFn(ctx, req, progress)
}

func (f *FakeRuntime) ImageID(ctx context.Context, ref string) (string, error) {
	if f.ImageIDFn == nil {
		panic(notImplemented("ImageID"))
	}
	f.record("ImageID")
	return f.ImageIDFn(ctx, ref)
}

func (f *FakeRuntime) RunContainer(ctx context.Context, req testbed.RunRequest) (string, error) {
	if f.RunContainerFn == nil {
		panic(notImplemented("RunContainer"))
	}
	f.record("RunContainer")
	return f.RunContainerFn(ctx, req)
}

func (f *FakeRuntime) Exec(ctx context.Context, containerID string, cmd []string) (*testbed.ExecResult, error) {
	if f.ExecFn == nil {
		panic(notImplemented("Exec"))
	}
	f.record("Exec")
	return f.ExecFn(ctx, containerID, cmd)
}

func (f *FakeRuntime) InspectContainer(ctx context.Context, ref string) (*testbed.ContainerState, error) {
	if f.InspectContainerFn == nil {
		panic(notImplemented("InspectContainer"))
	}
	f.record("InspectContainer")
	return f.InspectContainerFn(ctx, ref)
}

func (f *FakeRuntime) StopContainer(ctx context.Context, id string, timeout *int) error {
	if f.StopContainerFn == nil {
		panic(notImplemented("StopContainer"))
	}
	f.record("StopContainer")
	return f.StopContainerFn(ctx, id, timeout)
}

func (f *FakeRuntime) CopyLogs(ctx context.Context, id string, w io.Writer) error {
	if f.CopyLogsFn == nil {
		panic(notImplemented("CopyLogs"))
	}
	f.record("CopyLogs")
	return f.CopyLogsFn(ctx, id, w)
}

func (f *FakeRuntime) RemoveContainer(ctx context.Context, id string) error {
	if f.RemoveContainerFn == nil {
		panic(notImplemented("RemoveContainer"))
	}
	f.record("RemoveContainer")
	return f.RemoveContainerFn(ctx, id)
}

// Close marks the fake closed so tests can assert the connection was released.
func (f *FakeRuntime) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// NotFound returns an error satisfying cerrdefs.IsNotFound.
func NotFound(what string) error {
	return fmt.Errorf("no such object: %s: %w", what, cerrdefs.ErrNotFound)
}
