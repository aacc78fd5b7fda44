package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signalnine/compbench/internal/config"
)

func TestLoadMinimal(t *testing.T) {
	cfg, err := config.Load("../../testdata/minimal.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff([]string{"data"}, cfg.Folders); diff != "" {
		t.Errorf("folders mismatch (-want +got):\n%s", diff)
	}
	if cfg.OutputFile != "default.out" {
		t.Errorf("expected default output file, got %q", cfg.OutputFile)
	}
	if cfg.Threads != runtime.NumCPU()+1 {
		t.Errorf("expected %d threads, got %d", runtime.NumCPU()+1, cfg.Threads)
	}
	if cfg.Driver.Path != "./bin/driver" || cfg.Driver.ThreadFlag != "-n" || cfg.Driver.FileFlag != "-f" {
		t.Errorf("unexpected driver defaults: %+v", cfg.Driver)
	}
	if cfg.Build.Command != "make" {
		t.Errorf("expected build command make, got %q", cfg.Build.Command)
	}
}

func TestLoadFull(t *testing.T) {
	cfg, err := config.Load("../../testdata/full.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := &config.Config{
		Flags:        []string{"-z", "-v"},
		Folders:      []string{"dumps/small", "dumps/large"},
		Files:        []string{"ignored.dump"},
		Compressions: []string{"bdi", "lz4", "cpack"},
		Layouts:      []string{"compresso"},
		Interest:     []string{"bdi", "lz4"},
		OutputFile:   "results.out",
		Threads:      4,
		Driver:       config.Driver{Path: "./bin/driver", ThreadFlag: "-n", FileFlag: "-f", Image: "gcc:13"},
		Build:        config.Build{Command: "gmake", Dir: "src"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := config.Load("nonexistent.yaml")
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadInvalid(t *testing.T) {
	_, err := config.Load("../../testdata/invalid.yaml")
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadZeroThreads(t *testing.T) {
	_, err := config.Load("../../testdata/zero_threads.yaml")
	if err == nil {
		t.Error("expected error for threads: 0")
	}
}

func TestLoadOptionalMissing(t *testing.T) {
	cfg, err := config.LoadOptional(filepath.Join(t.TempDir(), "compbench.yaml"))
	if err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if diff := cmp.Diff(config.Default(), cfg); diff != "" {
		t.Errorf("expected defaults (-want +got):\n%s", diff)
	}
	if cfg.HasInputs() {
		t.Error("default config should have no inputs")
	}
}

func TestLoadOptionalPresent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compbench.yaml")
	if err := os.WriteFile(path, []byte("files: [x.dump]\ndriver:\n  path: \"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.LoadOptional(path)
	if err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if !cfg.HasInputs() {
		t.Error("expected inputs from file")
	}
	if cfg.Driver.Path != "./bin/driver" {
		t.Errorf("empty driver path should fall back to default, got %q", cfg.Driver.Path)
	}
}

func TestDriverPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		buildDir string
		want     string
	}{
		{"default build dir", "./bin/driver", ".", "./bin/driver"},
		{"relative to build dir", "./bin/driver", "../proj", "../proj/bin/driver"},
		{"absolute path kept", "/opt/driver", "../proj", "/opt/driver"},
		{"bare name left for PATH", "memdriver", "../proj", "memdriver"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Driver.Path = tt.path
			cfg.Build.Dir = tt.buildDir
			if got := cfg.DriverPath(); got != tt.want {
				t.Errorf("DriverPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
