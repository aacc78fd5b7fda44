package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the run configuration. It is read-only once loaded.
type Config struct {
	Flags        []string `yaml:"flags"`
	Folders      []string `yaml:"folders"`
	Files        []string `yaml:"files"`
	Compressions []string `yaml:"compressions"`
	Layouts      []string `yaml:"layouts"`
	Interest     []string `yaml:"interest"`
	OutputFile   string   `yaml:"output_file"`
	Threads      int      `yaml:"threads"`
	Driver       Driver   `yaml:"driver"`
	Build        Build    `yaml:"build"`
}

type Driver struct {
	Path       string `yaml:"path"`
	ThreadFlag string `yaml:"thread_flag"`
	FileFlag   string `yaml:"file_flag"`
	// Image runs the driver inside a container when set.
	Image string `yaml:"image"`
}

type Build struct {
	Command string `yaml:"command"`
	Dir     string `yaml:"dir"`
}

// Default returns the configuration used when no settings file is present.
func Default() *Config {
	return &Config{
		OutputFile: "default.out",
		Threads:    runtime.NumCPU() + 1,
		Driver: Driver{
			Path:       "./bin/driver",
			ThreadFlag: "-n",
			FileFlag:   "-f",
		},
		Build: Build{
			Command: "make",
			Dir:     ".",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOptional behaves like Load but falls back to Default when path does
// not exist.
func LoadOptional(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks field constraints and fills empty driver/build settings
// with their defaults. An empty input set is not rejected here.
func Validate(cfg *Config) error {
	if cfg.Threads < 1 {
		return fmt.Errorf("threads must be at least 1, got %d", cfg.Threads)
	}
	if cfg.OutputFile == "" {
		return fmt.Errorf("output_file is required")
	}
	def := Default()
	if cfg.Driver.Path == "" {
		cfg.Driver.Path = def.Driver.Path
	}
	if cfg.Driver.ThreadFlag == "" {
		cfg.Driver.ThreadFlag = def.Driver.ThreadFlag
	}
	if cfg.Driver.FileFlag == "" {
		cfg.Driver.FileFlag = def.Driver.FileFlag
	}
	if cfg.Build.Command == "" {
		cfg.Build.Command = def.Build.Command
	}
	if cfg.Build.Dir == "" {
		cfg.Build.Dir = def.Build.Dir
	}
	for i, m := range cfg.Interest {
		if m == "" {
			return fmt.Errorf("interest %d: metric name is empty", i)
		}
	}
	return nil
}

// DriverPath returns the driver binary location. A relative path with a
// directory component is taken relative to the build directory, where the
// build tool places it; a bare name is left for PATH lookup.
func (c *Config) DriverPath() string {
	p := c.Driver.Path
	if filepath.IsAbs(p) || !strings.ContainsRune(p, '/') || c.Build.Dir == "" || c.Build.Dir == "." {
		return p
	}
	return filepath.Join(c.Build.Dir, p)
}

// HasInputs reports whether there is anything to measure.
func (c *Config) HasInputs() bool {
	return len(c.Folders) > 0 || len(c.Files) > 0
}
