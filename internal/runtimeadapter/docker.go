package runtimeadapter

import (
	"context"
	"fmt"
	"strconv"

	dockertypes "github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/sirupsen/logrus"

	"autoscaler/internal/errs"
)

// DockerAdapter implements Adapter against the Docker Engine API, the way
// the teacher's data-plane sandbox manager creates, starts, and removes
// containers through the official Docker client.
type DockerAdapter struct {
	cli *client.Client
}

// NewDockerAdapter dials the Docker daemon using the standard
// DOCKER_HOST/DOCKER_* environment variables.
func NewDockerAdapter() (*DockerAdapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrRuntimeUnavailable, err)
	}

	return &DockerAdapter{cli: cli}, nil
}

func NewDockerAdapterWithClient(cli *client.Client) *DockerAdapter {
	return &DockerAdapter{cli: cli}
}

func (d *DockerAdapter) Start(ctx context.Context, spec StartSpec) (string, error) {
	hostConfig, containerConfig, err := buildConfig(spec)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrStartFailed, err)
	}

	var networkConfig *network.NetworkingConfig
	if spec.Network != "" {
		networkConfig = &network.NetworkingConfig{
			EndpointsConfig: map[string]*network.EndpointSettings{
				spec.Network: {},
			},
		}
	}

	resp, err := d.cli.ContainerCreate(ctx, containerConfig, hostConfig, networkConfig, nil, spec.Label)
	if err != nil {
		if client.IsErrConnectionFailed(err) {
			return "", fmt.Errorf("%w: %v", errs.ErrRuntimeUnavailable, err)
		}
		return "", fmt.Errorf("%w: %v", errs.ErrStartFailed, err)
	}

	if err := d.cli.ContainerStart(ctx, resp.ID, dockertypes.ContainerStartOptions{}); err != nil {
		if client.IsErrConnectionFailed(err) {
			return "", fmt.Errorf("%w: %v", errs.ErrRuntimeUnavailable, err)
		}
		return "", fmt.Errorf("%w: %v", errs.ErrStartFailed, err)
	}

	logrus.Debugf("started container %s (%s) for image %s", resp.ID, spec.Label, spec.Image)

	return resp.ID, nil
}

func (d *DockerAdapter) Inspect(ctx context.Context, id string) (RuntimeState, error) {
	info, err := d.cli.ContainerInspect(ctx, id)
	if err != nil {
		if client.IsErrNotFound(err) {
			return RuntimeState{}, errs.ErrNotFound
		}
		if client.IsErrConnectionFailed(err) {
			return RuntimeState{}, fmt.Errorf("%w: %v", errs.ErrRuntimeUnavailable, err)
		}
		return RuntimeState{}, err
	}

	return RuntimeState{ID: info.ID, Running: info.State != nil && info.State.Running}, nil
}

// Stop is best-effort per §4.B, but only for the case that's genuinely a
// no-op: the runtime already having no record of id. A connection failure
// is surfaced as ErrRuntimeUnavailable so callers can tell transient
// runtime outages from confirmed removal.
func (d *DockerAdapter) Stop(ctx context.Context, id string) error {
	err := d.cli.ContainerRemove(ctx, id, dockertypes.ContainerRemoveOptions{Force: true})
	if err == nil || client.IsErrNotFound(err) {
		return nil
	}

	if client.IsErrConnectionFailed(err) {
		return fmt.Errorf("%w: %v", errs.ErrRuntimeUnavailable, err)
	}

	logrus.Warnf("failed to stop container %s: %v", id, err)
	return err
}

func buildConfig(spec StartSpec) (*container.HostConfig, *container.Config, error) {
	port := nat.Port(strconv.FormatUint(uint64(spec.Port), 10) + "/tcp")

	hostConfig := &container.HostConfig{
		PortBindings: nat.PortMap{
			port: []nat.PortBinding{{HostIP: "0.0.0.0", HostPort: "0"}},
		},
	}

	containerConfig := &container.Config{
		Image:        spec.Image,
		ExposedPorts: nat.PortSet{port: struct{}{}},
		Env:          spec.Env,
	}

	return hostConfig, containerConfig, nil
}
