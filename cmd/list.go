package cmd

import (
	"fmt"
	"strings"

	"github.com/signalnine/compbench/internal/orchestrate"
	"github.com/signalnine/compbench/internal/runner"
	"github.com/spf13/cobra"
)

var listOverrides overrides

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the build targets and inputs a run would use",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := listOverrides.apply(cmd, cfg); err != nil {
				return err
			}
			sel, plans, err := orchestrate.Plan(cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Build (-j%d): %s\n", cfg.Threads, strings.Join(sel.Targets, " "))
			for _, p := range plans {
				name := p.Name
				if name == "" {
					name = "files"
				}
				fmt.Fprintf(out, "\n%s:\n", name)
				for _, f := range p.Files {
					fmt.Fprintf(out, "  - %s\n", strings.Join(runner.DriverArgs(cfg, f), " "))
				}
			}
			return nil
		},
	}
	listOverrides.register(cmd.Flags())
	return cmd
}
