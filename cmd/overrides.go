package cmd

import (
	"github.com/signalnine/compbench/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type overrides struct {
	folders      []string
	files        []string
	interest     []string
	flags        []string
	compressions []string
	layouts      []string
	threads      int
	output       string
	driver       string
	image        string
}

func (o *overrides) register(fs *pflag.FlagSet) {
	fs.StringArrayVar(&o.folders, "folder", nil, "input folder (repeatable, replaces config folders)")
	fs.StringArrayVar(&o.files, "file", nil, "input file (repeatable, replaces config files)")
	fs.StringArrayVar(&o.interest, "interest", nil, "metric to report (repeatable)")
	fs.StringArrayVar(&o.flags, "flag", nil, "flag passed to the driver verbatim (repeatable)")
	fs.StringArrayVar(&o.compressions, "compression", nil, "compression variant to build (repeatable)")
	fs.StringArrayVar(&o.layouts, "layout", nil, "layout variant to build (repeatable)")
	fs.IntVar(&o.threads, "threads", 0, "thread count for the build and the driver")
	fs.StringVar(&o.output, "output", "", "raw output log path")
	fs.StringVar(&o.driver, "driver", "", "driver binary path")
	fs.StringVar(&o.image, "image", "", "run the driver inside this container image")
}

// apply copies every flag the user set onto cfg and revalidates it.
func (o *overrides) apply(cmd *cobra.Command, cfg *config.Config) error {
	fs := cmd.Flags()
	if fs.Changed("folder") {
		cfg.Folders = o.folders
	}
	if fs.Changed("file") {
		cfg.Files = o.files
	}
	if fs.Changed("interest") {
		cfg.Interest = o.interest
	}
	if fs.Changed("flag") {
		cfg.Flags = o.flags
	}
	if fs.Changed("compression") {
		cfg.Compressions = o.compressions
	}
	if fs.Changed("layout") {
		cfg.Layouts = o.layouts
	}
	if fs.Changed("threads") {
		cfg.Threads = o.threads
	}
	if fs.Changed("output") {
		cfg.OutputFile = o.output
	}
	if fs.Changed("driver") {
		cfg.Driver.Path = o.driver
	}
	if fs.Changed("image") {
		cfg.Driver.Image = o.image
	}
	return config.Validate(cfg)
}
