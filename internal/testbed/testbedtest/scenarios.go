package testbedtest

import (
	"context"
	"io"

	"github.com/schmitthub/ssh-docker/internal/testbed"
)

// Testbed is a fake running container.
type Testbed struct {
	ID       string
	Name     string
	ImageID  string
	Networks []testbed.NetworkAddress
	Logs     string
}

// NewRunningTestbedRuntime returns a fake where every call succeeds: builds
// produce imageID, image lookups resolve to imageID, runs start tb, execs
// exit 0 and inspects of tb's name or ID return its state. Stopping tb
// removes it, after which inspects report not found.
func NewRunningTestbedRuntime(imageID string, tb *Testbed) *FakeRuntime {
	removed := false
	f := &FakeRuntime{}

	f.BuildImageFn = func(_ context.Context, _ testbed.BuildRequest, progress io.Writer) (string, error) {
		_, _ = io.WriteString(progress, "Step 1/1 : FROM debian:stable\n")
		return imageID, nil
	}
	f.ImageIDFn = func(_ context.Context, _ string) (string, error) {
		return imageID, nil
	}
	f.RunContainerFn = func(_ context.Context, req testbed.RunRequest) (string, error) {
		tb.Name = req.Name
		tb.ImageID = req.Image
		removed = false
		return tb.ID, nil
	}
	f.ExecFn = func(_ context.Context, _ string, _ []string) (*testbed.ExecResult, error) {
		return &testbed.ExecResult{}, nil
	}
	f.InspectContainerFn = func(_ context.Context, ref string) (*testbed.ContainerState, error) {
		if removed || (ref != tb.ID && ref != tb.Name) {
			return nil, NotFound(ref)
		}
		return &testbed.ContainerState{
			ID:       tb.ID,
			Name:     tb.Name,
			ImageID:  tb.ImageID,
			Running:  true,
			Networks: tb.Networks,
		}, nil
	}
	f.StopContainerFn = func(_ context.Context, _ string, _ *int) error {
		removed = true
		return nil
	}
	f.CopyLogsFn = func(_ context.Context, _ string, w io.Writer) error {
		_, err := io.WriteString(w, tb.Logs)
		return err
	}
	f.RemoveContainerFn = func(_ context.Context, _ string) error {
		removed = true
		return nil
	}
	return f
}
