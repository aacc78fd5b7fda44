// Package orchestrate ties the build, driver, and metric stages together.
package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/signalnine/compbench/internal/build"
	"github.com/signalnine/compbench/internal/config"
	"github.com/signalnine/compbench/internal/ctxlog"
	"github.com/signalnine/compbench/internal/report"
	"github.com/signalnine/compbench/internal/result"
	"github.com/signalnine/compbench/internal/runner"
)

// ErrNothingToMeasure is returned when neither folders nor files are set.
var ErrNothingToMeasure = errors.New("nothing to measure: no folders or files configured")

const (
	StageConfig = "config"
	StageBuild  = "build"
	StageRun    = "run"
	StageReport = "report"
)

// StageError identifies which stage a fatal error came from.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Stage + ": " + e.Err.Error() }
func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage string, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// Opts carries the collaborators of a run. Zero values fall back to the
// host build tool, a host ExecExecutor and os.Stdout.
type Opts struct {
	Executor  runner.Executor
	Build     func(ctx context.Context, sel build.Selection, opts *build.Opts) error
	Stdout    io.Writer
	SkipBuild bool
}

// Session is the state of one orchestration: the open output log and the
// batch currently being filled.
type Session struct {
	cfg       *config.Config
	exec      runner.Executor
	buildFn   func(ctx context.Context, sel build.Selection, opts *build.Opts) error
	skipBuild bool
	stdout    io.Writer

	log   io.Writer
	batch result.Batch
}

// BatchPlan is one folder (or the flat file list) with its sorted inputs.
type BatchPlan struct {
	Name  string
	Files []string
}

// Plan resolves the build selection and lists the inputs of every batch
// without side effects.
func Plan(cfg *config.Config) (build.Selection, []BatchPlan, error) {
	if !cfg.HasInputs() {
		return build.Selection{}, nil, stageErr(StageConfig, ErrNothingToMeasure)
	}
	sel := build.Resolve(cfg)
	plans, err := listBatches(cfg)
	if err != nil {
		return sel, nil, stageErr(StageRun, err)
	}
	return sel, plans, nil
}

func listBatches(cfg *config.Config) ([]BatchPlan, error) {
	if len(cfg.Folders) == 0 {
		return []BatchPlan{{Files: runner.ListInputs("", cfg.Files)}}, nil
	}
	plans := make([]BatchPlan, 0, len(cfg.Folders))
	for _, dir := range cfg.Folders {
		files, err := runner.ListFolder(dir)
		if err != nil {
			return nil, err
		}
		plans = append(plans, BatchPlan{Name: dir, Files: files})
	}
	return plans, nil
}

// Run builds the selected variants, then measures every batch in order
// and prints its metrics. The output log is opened once and always closed.
func Run(ctx context.Context, cfg *config.Config, opts *Opts) (err error) {
	if opts == nil {
		opts = &Opts{}
	}
	if !cfg.HasInputs() {
		return stageErr(StageConfig, ErrNothingToMeasure)
	}
	if cfg.Threads < 1 {
		return stageErr(StageConfig, fmt.Errorf("threads must be at least 1, got %d", cfg.Threads))
	}

	logFile, err := os.Create(cfg.OutputFile)
	if err != nil {
		return stageErr(StageConfig, fmt.Errorf("creating output log: %w", err))
	}
	defer func() {
		if cerr := logFile.Close(); cerr != nil && err == nil {
			err = stageErr(StageReport, fmt.Errorf("closing output log: %w", cerr))
		}
	}()

	s := &Session{
		cfg:       cfg,
		exec:      opts.Executor,
		buildFn:   opts.Build,
		skipBuild: opts.SkipBuild,
		stdout:    opts.Stdout,
		log:       logFile,
	}
	if s.exec == nil {
		s.exec = &runner.ExecExecutor{Dir: ".", Stderr: os.Stderr}
	}
	if s.buildFn == nil {
		s.buildFn = build.Run
	}
	if s.stdout == nil {
		s.stdout = os.Stdout
	}
	return s.run(ctx)
}

func (s *Session) run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	if !s.skipBuild {
		sel := build.Resolve(s.cfg)
		if err := s.buildFn(ctx, sel, build.OptsFromConfig(s.cfg)); err != nil {
			return stageErr(StageBuild, err)
		}
	}

	if len(s.cfg.Folders) == 0 {
		return s.measure(ctx, "", runner.ListInputs("", s.cfg.Files))
	}
	for i, dir := range s.cfg.Folders {
		if i > 0 {
			if _, err := io.WriteString(s.log, "\n"); err != nil {
				return stageErr(StageRun, fmt.Errorf("writing output log: %w", err))
			}
		}
		files, err := runner.ListFolder(dir)
		if err != nil {
			return stageErr(StageRun, err)
		}
		logger.Info("batch", "folder", dir, "files", len(files))
		if err := s.measure(ctx, dir, files); err != nil {
			return err
		}
	}
	return nil
}

// measure runs one batch through the driver and prints its metrics. The
// batch is discarded afterwards.
func (s *Session) measure(ctx context.Context, name string, files []string) error {
	s.batch.Reset(name)
	defer s.batch.Reset("")
	if err := runner.RunBatch(ctx, s.exec, s.cfg, files, s.log, &s.batch); err != nil {
		return stageErr(StageRun, err)
	}
	if err := report.WriteMetrics(ctx, s.stdout, &s.batch, s.cfg.Interest); err != nil {
		return stageErr(StageReport, err)
	}
	return nil
}
