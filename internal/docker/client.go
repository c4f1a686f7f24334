// Package docker implements the testbed runtime on the Docker Engine API.
package docker

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/docker/docker/client"

	"github.com/schmitthub/ssh-docker/internal/logger"
	"github.com/schmitthub/ssh-docker/internal/testbed"
)

// Client drives testbeds through a Docker daemon connection.
// It must be closed when the invoking command returns.
type Client struct {
	api client.APIClient
}

var _ testbed.Runtime = (*Client)(nil)

// NewClient connects to the daemon described by the DOCKER_* environment
// and verifies it answers.
func NewClient(ctx context.Context) (*Client, error) {
	api, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, ErrDockerNotRunning(err)
	}

	ping, err := api.Ping(ctx)
	if err != nil {
		_ = api.Close()
		return nil, ErrDockerNotRunning(err)
	}
	logger.Debug().
		Str("host", api.DaemonHost()).
		Str("api_version", ping.APIVersion).
		Msg("connected to docker daemon")

	return &Client{api: api}, nil
}

// NewClientFromAPI wraps an existing API client.
func NewClientFromAPI(api client.APIClient) *Client {
	return &Client{api: api}
}

// Close releases the daemon connection.
func (c *Client) Close() error {
	return c.api.Close()
}

// InspectContainer fetches a container by name or ID. Networks are sorted
// by name and a missing NetworkSettings yields no networks.
func (c *Client) InspectContainer(ctx context.Context, ref string) (*testbed.ContainerState, error) {
	info, err := c.api.ContainerInspect(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("inspect container %s: %w", ref, err)
	}

	state := &testbed.ContainerState{}
	if info.ContainerJSONBase != nil {
		state.ID = info.ID
		state.Name = strings.TrimPrefix(info.Name, "/")
		state.ImageID = info.Image
		state.Running = info.State != nil && info.State.Running
	}

	if info.NetworkSettings != nil {
		for name, ep := range info.NetworkSettings.Networks {
			if ep == nil {
				continue
			}
			state.Networks = append(state.Networks, testbed.NetworkAddress{
				Name:              name,
				IPAddress:         ep.IPAddress,
				GlobalIPv6Address: ep.GlobalIPv6Address,
			})
		}
	}
	slices.SortFunc(state.Networks, func(a, b testbed.NetworkAddress) int {
		return strings.Compare(a.Name, b.Name)
	})

	return state, nil
}

// ImageID resolves an image reference to its ID.
func (c *Client) ImageID(ctx context.Context, ref string) (string, error) {
	info, err := c.api.ImageInspect(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("inspect image %s: %w", ref, err)
	}
	return info.ID, nil
}
