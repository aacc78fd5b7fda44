//go:build integration

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/signalnine/compbench/cmd"
)

// createFixtureProject lays out a project with a make stand-in that
// records its targets and a driver script that reports the input size.
func createFixtureProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"fake-make": "#!/bin/sh\necho \"$@\" >> build.log\n",
		"driver":    "#!/bin/sh\nprintf 'file,size,\\n%s,%s,\\n' \"$(basename \"$4\")\" \"$(wc -c < \"$4\" | tr -d ' ')\"\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	for _, d := range []string{"small", "large"} {
		os.MkdirAll(filepath.Join(dir, d), 0o755)
	}
	os.WriteFile(filepath.Join(dir, "small", "b.dump"), []byte("12"), 0o644)
	os.WriteFile(filepath.Join(dir, "small", "a.dump"), []byte("1"), 0o644)
	os.WriteFile(filepath.Join(dir, "large", "c.dump"), []byte("123456"), 0o644)
	cfg := `folders: [small, large]
compressions: [bdi]
interest: [size]
threads: 2
output_file: results.out
driver:
  path: ./driver
build:
  command: ./fake-make
`
	os.WriteFile(filepath.Join(dir, "compbench.yaml"), []byte(cfg), 0o644)
	return dir
}

func TestRunIntegration(t *testing.T) {
	dir := createFixtureProject(t)
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	root := cmd.NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"run", "--log-level", "error"})
	if err := root.Execute(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.String() != "size\n1\n2\n\nsize\n6\n\n" {
		t.Errorf("report = %q", out.String())
	}

	buildLog, _ := os.ReadFile("build.log")
	if string(buildLog) != "clean\n-j2 bootstrap driver bdi\n" {
		t.Errorf("build calls = %q", buildLog)
	}

	raw, _ := os.ReadFile("results.out")
	want := "file,size,\na.dump,1,\nfile,size,\nb.dump,2,\n\nfile,size,\nc.dump,6,\n"
	if string(raw) != want {
		t.Errorf("log = %q, want %q", raw, want)
	}

	root = cmd.NewRootCmd()
	out.Reset()
	root.SetOut(&out)
	root.SetArgs([]string{"report", "--format", "table", "--interest", "file"})
	if err := root.Execute(); err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.Contains(out.String(), "c.dump") {
		t.Errorf("table report missing runs:\n%s", out.String())
	}
}
