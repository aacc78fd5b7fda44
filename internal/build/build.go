// Package build decides which variants to compile and drives the external
// build tool.
package build

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/signalnine/compbench/internal/config"
	"github.com/signalnine/compbench/internal/ctxlog"
)

const (
	TargetDefault   = "default"
	TargetBootstrap = "bootstrap"
	TargetDriver    = "driver"
	TargetClean     = "clean"
)

// Selection is the set of targets that must exist before any run.
type Selection struct {
	// Default is true when no variant was named.
	Default bool
	Targets []string
}

// Resolve derives the build selection. Variant names are passed through
// in the order given, compressions first.
func Resolve(cfg *config.Config) Selection {
	if len(cfg.Compressions)+len(cfg.Layouts) == 0 {
		return Selection{Default: true, Targets: []string{TargetDefault}}
	}
	targets := make([]string, 0, 2+len(cfg.Compressions)+len(cfg.Layouts))
	targets = append(targets, TargetBootstrap, TargetDriver)
	targets = append(targets, cfg.Compressions...)
	targets = append(targets, cfg.Layouts...)
	return Selection{Targets: targets}
}

type Opts struct {
	Command string
	Dir     string
	Jobs    int
}

// OptsFromConfig takes the build tool settings and job count from cfg.
func OptsFromConfig(cfg *config.Config) *Opts {
	return &Opts{Command: cfg.Build.Command, Dir: cfg.Build.Dir, Jobs: cfg.Threads}
}

// Args returns the arguments of the build step that follows clean.
func (s Selection) Args(jobs int) []string {
	return append([]string{"-j" + strconv.Itoa(jobs)}, s.Targets...)
}

// Run cleans previous artifacts and then builds the selection. Any
// non-zero exit is returned as an error along with the tool's output.
func Run(ctx context.Context, sel Selection, opts *Opts) error {
	if opts.Jobs < 1 {
		return fmt.Errorf("build jobs must be at least 1, got %d", opts.Jobs)
	}
	if err := invoke(ctx, opts, TargetClean); err != nil {
		return err
	}
	return invoke(ctx, opts, sel.Args(opts.Jobs)...)
}

func invoke(ctx context.Context, opts *Opts, args ...string) error {
	ctxlog.FromContext(ctx).Info("build", "command", opts.Command, "args", args)
	cmd := exec.CommandContext(ctx, opts.Command, args...)
	cmd.Dir = opts.Dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s %v: %s: %w", opts.Command, args, out, err)
	}
	return nil
}
