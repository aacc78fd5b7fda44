// Package docker runs the driver inside a container for hosts that do not
// have its toolchain installed.
package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/moby/moby/api/pkg/stdcopy"
	"github.com/moby/moby/api/types/container"
	"github.com/moby/moby/api/types/mount"
	"github.com/moby/moby/client"

	"github.com/signalnine/compbench/internal/runner"
)

// Executor implements runner.Executor by starting one container per
// driver invocation. WorkDir is bind-mounted at the same absolute path
// so relative driver and input paths resolve identically.
type Executor struct {
	Image   string
	WorkDir string
	UserID  string
}

var _ runner.Executor = (*Executor)(nil)

func (e *Executor) Execute(ctx context.Context, args []string) (*runner.Output, error) {
	workDir, err := filepath.Abs(e.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("resolving work dir: %w", err)
	}

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("creating docker client: %w", err)
	}
	defer cli.Close()

	containerCfg := &container.Config{
		Image:      e.Image,
		Cmd:        args,
		WorkingDir: workDir,
		Labels:     map[string]string{"compbench": "true"},
	}
	if e.UserID != "" {
		containerCfg.User = e.UserID
	}
	initTrue := true
	hostCfg := &container.HostConfig{
		Init: &initTrue,
		Mounts: []mount.Mount{{
			Type:   mount.TypeBind,
			Source: workDir,
			Target: workDir,
		}},
	}

	createResp, err := cli.ContainerCreate(ctx, client.ContainerCreateOptions{
		Config:     containerCfg,
		HostConfig: hostCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("creating container: %w", err)
	}
	containerID := createResp.ID
	defer func() {
		cli.ContainerRemove(context.Background(), containerID, client.ContainerRemoveOptions{Force: true})
	}()

	if _, err := cli.ContainerStart(ctx, containerID, client.ContainerStartOptions{}); err != nil {
		return nil, fmt.Errorf("starting container: %w", err)
	}

	waitResult := cli.ContainerWait(ctx, containerID, client.ContainerWaitOptions{
		Condition: container.WaitConditionNotRunning,
	})
	var exitCode int
	select {
	case err := <-waitResult.Error:
		return nil, fmt.Errorf("waiting for container: %w", err)
	case status := <-waitResult.Result:
		exitCode = int(status.StatusCode)
	}

	logReader, err := cli.ContainerLogs(ctx, containerID, client.ContainerLogsOptions{ShowStdout: true})
	if err != nil {
		return nil, fmt.Errorf("reading container output: %w", err)
	}
	defer logReader.Close()

	var stdout bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, io.Discard, logReader); err != nil {
		return nil, fmt.Errorf("demultiplexing container output: %w", err)
	}
	return &runner.Output{Stdout: stdout.Bytes(), ExitCode: exitCode}, nil
}
