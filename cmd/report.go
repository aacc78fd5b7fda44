package cmd

import (
	"fmt"
	"os"

	"github.com/signalnine/compbench/internal/report"
	"github.com/spf13/cobra"
)

var (
	flagFormat         string
	flagReportInterest []string
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [log-file]",
		Short: "Re-extract metrics from a raw output log",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			path := cfg.OutputFile
			if len(args) > 0 {
				path = args[0]
			}
			interest := cfg.Interest
			if cmd.Flags().Changed("interest") {
				interest = flagReportInterest
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening log: %w", err)
			}
			defer f.Close()
			batches, err := report.ParseLog(cmd.Context(), f)
			if err != nil {
				return err
			}
			return report.Generate(cmd.Context(), cmd.OutOrStdout(), batches, interest, flagFormat)
		},
	}
	cmd.Flags().StringVar(&flagFormat, "format", "text", "output format (text, table, markdown)")
	cmd.Flags().StringArrayVar(&flagReportInterest, "interest", nil, "metric to report (repeatable)")
	return cmd
}
