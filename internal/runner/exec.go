package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// Output is what one driver invocation produced.
type Output struct {
	Stdout   []byte
	ExitCode int
}

// Executor runs one driver invocation to completion. A non-zero exit is
// reported through Output.ExitCode; err is reserved for failures to run
// the process at all.
type Executor interface {
	Execute(ctx context.Context, args []string) (*Output, error)
}

// ExecExecutor runs the driver as a host child process with no stdin.
// Driver stderr is passed through to Stderr.
type ExecExecutor struct {
	Dir    string
	Stderr io.Writer
}

func (e *ExecExecutor) Execute(ctx context.Context, args []string) (*Output, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("empty driver command")
	}
	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = e.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = e.Stderr
	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return &Output{Stdout: stdout.Bytes()}, nil
	case errors.As(err, &exitErr):
		return &Output{Stdout: stdout.Bytes(), ExitCode: exitErr.ExitCode()}, nil
	default:
		return nil, fmt.Errorf("starting %s: %w", args[0], err)
	}
}
