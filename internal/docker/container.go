package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/schmitthub/ssh-docker/internal/logger"
	"github.com/schmitthub/ssh-docker/internal/testbed"
)

// RunContainer creates and starts a detached container. A container that
// fails to start is removed again.
func (c *Client) RunContainer(ctx context.Context, req testbed.RunRequest) (string, error) {
	cfg := &container.Config{
		Image: req.Image,
		Env:   req.Env,
	}
	hostCfg := &container.HostConfig{
		AutoRemove: req.AutoRemove,
	}

	resp, err := c.api.ContainerCreate(ctx, cfg, hostCfg, nil, nil, req.Name)
	if err != nil {
		return "", fmt.Errorf("create container %s: %w", req.Name, err)
	}
	for _, w := range resp.Warnings {
		logger.Warn().Str("container", req.Name).Msg(w)
	}

	if err := c.api.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		rmErr := c.api.ContainerRemove(context.WithoutCancel(ctx), resp.ID, container.RemoveOptions{Force: true})
		if rmErr != nil && !cerrdefs.IsNotFound(rmErr) {
			logger.Warn().Err(rmErr).Str("container", req.Name).Msg("failed to remove container after start failure")
		}
		return "", fmt.Errorf("start container %s: %w", req.Name, err)
	}

	return resp.ID, nil
}

// Exec runs cmd in the container as its default user and collects output.
func (c *Client) Exec(ctx context.Context, containerID string, cmd []string) (*testbed.ExecResult, error) {
	execCfg := container.ExecOptions{
		Cmd:          cmd,
		AttachStdout: true,
		AttachStderr: true,
	}

	created, err := c.api.ContainerExecCreate(ctx, containerID, execCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create exec: %w", err)
	}

	resp, err := c.api.ContainerExecAttach(ctx, created.ID, container.ExecStartOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to attach to exec: %w", err)
	}
	defer resp.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, resp.Reader); err != nil {
		return nil, fmt.Errorf("failed to read exec output: %w", err)
	}

	inspect, err := c.api.ContainerExecInspect(ctx, created.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect exec: %w", err)
	}

	return &testbed.ExecResult{
		ExitCode: inspect.ExitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}

// StopContainer stops the container. For auto-removed containers it waits
// until the daemon has deleted it, so its name is free again on return.
func (c *Client) StopContainer(ctx context.Context, id string, timeout *int) error {
	info, err := c.api.ContainerInspect(ctx, id)
	if err != nil {
		return fmt.Errorf("inspect container %s: %w", id, err)
	}
	autoRemove := info.ContainerJSONBase != nil && info.HostConfig != nil && info.HostConfig.AutoRemove

	var (
		waitC <-chan container.WaitResponse
		errC  <-chan error
	)
	if autoRemove {
		// Subscribe before stopping, otherwise the removal can be missed.
		waitCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		waitC, errC = c.api.ContainerWait(waitCtx, id, container.WaitConditionRemoved)
	}

	if err := c.api.ContainerStop(ctx, id, container.StopOptions{Timeout: timeout}); err != nil {
		return fmt.Errorf("stop container %s: %w", id, err)
	}
	if !autoRemove {
		return nil
	}

	select {
	case res := <-waitC:
		if res.Error != nil && res.Error.Message != "" {
			return fmt.Errorf("wait for removal of %s: %s", id, res.Error.Message)
		}
		return nil
	case err := <-errC:
		if err == nil || cerrdefs.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("wait for removal of %s: %w", id, err)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CopyLogs writes the container's stdout and stderr to w, demultiplexed
// unless the container has a TTY.
func (c *Client) CopyLogs(ctx context.Context, id string, w io.Writer) error {
	info, err := c.api.ContainerInspect(ctx, id)
	if err != nil {
		return fmt.Errorf("inspect container %s: %w", id, err)
	}

	rc, err := c.api.ContainerLogs(ctx, id, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
	})
	if err != nil {
		return fmt.Errorf("fetch logs of %s: %w", id, err)
	}
	defer rc.Close()

	if info.Config != nil && info.Config.Tty {
		_, err = io.Copy(w, rc)
	} else {
		_, err = stdcopy.StdCopy(w, w, rc)
	}
	if err != nil {
		return fmt.Errorf("copy logs of %s: %w", id, err)
	}
	return nil
}

// RemoveContainer force-removes the container.
func (c *Client) RemoveContainer(ctx context.Context, id string) error {
	if err := c.api.ContainerRemove(ctx, id, container.RemoveOptions{Force: true}); err != nil {
		return fmt.Errorf("remove container %s: %w", id, err)
	}
	return nil
}
