package executor

import (
	"bytes"
	"context"
	"fmt"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/ksyq12/certkeeper/internal/errors"
)

// DockerLocator finds containers by image tag through the docker API.
type DockerLocator struct {
	cli *client.Client
}

// NewDockerLocator connects using DOCKER_HOST and friends, defaulting to the
// local socket.
func NewDockerLocator() (*DockerLocator, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &DockerLocator{cli: cli}, nil
}

// Close releases the docker client.
func (d *DockerLocator) Close() error {
	return d.cli.Close()
}

// Locate returns the container whose image is tag. A running container is
// preferred; otherwise a stopped one is returned so its state can be polled.
func (d *DockerLocator) Locate(ctx context.Context, tag string) (Target, error) {
	list, err := d.cli.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, errors.Lookup(tag, err)
	}
	id, ok := pickContainer(list, tag)
	if !ok {
		return nil, errors.Lookup(tag, fmt.Errorf("no container with image %s", tag))
	}
	return &dockerTarget{cli: d.cli, id: id, tag: tag}, nil
}

// pickContainer returns the first running container with image tag, or the
// first match in any state when none is running.
func pickContainer(list []types.Container, tag string) (string, bool) {
	fallback := ""
	for _, c := range list {
		if c.Image != tag {
			continue
		}
		if c.State == StateRunning {
			return c.ID, true
		}
		if fallback == "" {
			fallback = c.ID
		}
	}
	return fallback, fallback != ""
}

type dockerTarget struct {
	cli *client.Client
	id  string
	tag string
}

func (t *dockerTarget) ID() string {
	if len(t.id) > 12 {
		return t.id[:12]
	}
	return t.id
}

func (t *dockerTarget) State(ctx context.Context) (string, error) {
	info, err := t.cli.ContainerInspect(ctx, t.id)
	if err != nil {
		return "", errors.Lookup(t.tag, err)
	}
	if info.State == nil {
		return "", nil
	}
	return info.State.Status, nil
}

// Run execs cmd in the container and waits for it to exit.
func (t *dockerTarget) Run(ctx context.Context, cmd []string) (string, error) {
	if len(cmd) == 0 {
		return "", errors.Validation("empty command")
	}

	exec, err := t.cli.ContainerExecCreate(ctx, t.id, container.ExecOptions{
		AttachStdout: true,
		AttachStderr: true,
		Cmd:          cmd,
	})
	if err != nil {
		return "", errors.Execution(t.tag, "", fmt.Errorf("exec create: %w", err))
	}

	attach, err := t.cli.ContainerExecAttach(ctx, exec.ID, container.ExecAttachOptions{})
	if err != nil {
		return "", errors.Execution(t.tag, "", fmt.Errorf("exec attach: %w", err))
	}
	defer attach.Close()

	var buf bytes.Buffer
	if _, err := stdcopy.StdCopy(&buf, &buf, attach.Reader); err != nil {
		return buf.String(), errors.Execution(t.tag, buf.String(), fmt.Errorf("reading exec output: %w", err))
	}

	inspect, err := t.cli.ContainerExecInspect(ctx, exec.ID)
	if err != nil {
		return buf.String(), errors.Execution(t.tag, buf.String(), fmt.Errorf("exec inspect: %w", err))
	}
	if inspect.ExitCode != 0 {
		return buf.String(), errors.Execution(t.tag, buf.String(), fmt.Errorf("exit code %d", inspect.ExitCode))
	}
	return buf.String(), nil
}
