package cmd

import (
	"os"

	"github.com/signalnine/compbench/internal/config"
	"github.com/signalnine/compbench/internal/ctxlog"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "compbench",
		Short: "Build variant matrices and collect driver metrics over input files",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := ctxlog.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			cmd.SetContext(ctxlog.WithLogger(cmd.Context(), ctxlog.New(os.Stderr, level)))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "compbench.yaml", "config file path")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(newRunCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newReportCmd())
	return root
}

// loadConfig reads the config file. The default path may be absent; a
// path given explicitly with --config must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if cmd.Flags().Changed("config") {
		return config.Load(cfgFile)
	}
	return config.LoadOptional(cfgFile)
}
