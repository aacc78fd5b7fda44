package cmd

import (
	"fmt"
	"os"

	"github.com/signalnine/compbench/internal/config"
	"github.com/signalnine/compbench/internal/docker"
	"github.com/signalnine/compbench/internal/orchestrate"
	"github.com/signalnine/compbench/internal/runner"
	"github.com/spf13/cobra"
)

var (
	runOverrides  overrides
	flagSkipBuild bool
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "run",
		Short:        "Build the selected variants and measure every input",
		SilenceUsage: true,
		RunE:         runMeasurement,
	}
	runOverrides.register(cmd.Flags())
	cmd.Flags().BoolVar(&flagSkipBuild, "skip-build", false, "measure with the binaries already built")
	return cmd
}

func runMeasurement(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := runOverrides.apply(cmd, cfg); err != nil {
		return err
	}
	return orchestrate.Run(cmd.Context(), cfg, &orchestrate.Opts{
		Executor:  newExecutor(cfg),
		Stdout:    cmd.OutOrStdout(),
		SkipBuild: flagSkipBuild,
	})
}

func newExecutor(cfg *config.Config) runner.Executor {
	if cfg.Driver.Image != "" {
		return &docker.Executor{Image: cfg.Driver.Image, WorkDir: ".", UserID: hostUser()}
	}
	return &runner.ExecExecutor{Dir: ".", Stderr: os.Stderr}
}

// hostUser keeps files the driver writes inside a container owned by the
// invoking user.
func hostUser() string {
	return fmt.Sprintf("%d:%d", os.Getuid(), os.Getgid())
}
