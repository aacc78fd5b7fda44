package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/signalnine/compbench/internal/config"
	"github.com/signalnine/compbench/internal/ctxlog"
	"github.com/signalnine/compbench/internal/result"
)

// DriverArgs builds the command line for one input file: driver path
// (resolved against the build directory), thread count, input file, then
// the passthrough flags verbatim.
func DriverArgs(cfg *config.Config, file string) []string {
	args := []string{
		cfg.DriverPath(),
		cfg.Driver.ThreadFlag, strconv.Itoa(cfg.Threads),
		cfg.Driver.FileFlag, file,
	}
	return append(args, cfg.Flags...)
}

// ListInputs sorts names and joins each with dir, keeping only regular
// files. An empty dir means names are already paths.
func ListInputs(dir string, names []string) []string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	var files []string
	for _, name := range sorted {
		path := name
		if dir != "" {
			path = filepath.Join(dir, name)
		}
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, path)
	}
	return files
}

// ListFolder returns the regular files directly inside dir in
// lexicographic order.
func ListFolder(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input folder: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return ListInputs(dir, names), nil
}

// RunBatch invokes the driver once per file, strictly in order. Each raw
// output is appended to log before the next invocation starts and the
// parsed result is added to batch.
func RunBatch(ctx context.Context, ex Executor, cfg *config.Config, files []string, log io.Writer, batch *result.Batch) error {
	logger := ctxlog.FromContext(ctx)
	for _, file := range files {
		out, err := ex.Execute(ctx, DriverArgs(cfg, file))
		if err != nil {
			return fmt.Errorf("running driver on %s: %w", file, err)
		}
		if _, err := log.Write(out.Stdout); err != nil {
			return fmt.Errorf("writing output log: %w", err)
		}
		r := result.Parse(file, out.Stdout)
		r.ExitCode = out.ExitCode
		batch.Add(r)
		if out.ExitCode != 0 {
			logger.Warn("driver exited non-zero", "file", file, "exit_code", out.ExitCode)
			continue
		}
		logger.Info("measured", "file", file, "bytes", len(out.Stdout))
	}
	return nil
}
