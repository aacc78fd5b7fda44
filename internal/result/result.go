package result

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed marks driver output that cannot be used for metric lookup.
var ErrMalformed = errors.New("malformed driver output")

// RunResult is the captured output of one driver invocation.
type RunResult struct {
	SourceFile   string
	RawOutput    []byte
	HeaderFields []string
	ValueFields  []string
	ExitCode     int

	lines int
}

// Batch holds the results of one input folder, or of the flat file list.
type Batch struct {
	Name    string
	Results []RunResult
}

// Parse splits the driver's two-line report: a comma-separated header
// followed by the comma-separated values aligned with it. Leading and
// trailing commas are dropped; lines past the second are ignored.
func Parse(source string, raw []byte) RunResult {
	r := RunResult{SourceFile: source, RawOutput: raw}
	lines := strings.Split(strings.Trim(string(raw), "\n"), "\n")
	r.lines = len(lines)
	if len(lines) > 0 {
		r.HeaderFields = Fields(lines[0])
	}
	if len(lines) > 1 {
		r.ValueFields = Fields(lines[1])
	}
	return r
}

// Fields splits one report line on commas after dropping leading and
// trailing commas.
func Fields(line string) []string {
	return strings.Split(strings.Trim(line, ","), ",")
}

// Malformed returns a non-nil error wrapping ErrMalformed when the header
// and value lines are missing or have different field counts.
func (r *RunResult) Malformed() error {
	if r.lines < 2 {
		return fmt.Errorf("%w: %s: expected header and value lines, got %d line(s)", ErrMalformed, r.SourceFile, r.lines)
	}
	if len(r.HeaderFields) != len(r.ValueFields) {
		return fmt.Errorf("%w: %s: %d header fields but %d values", ErrMalformed, r.SourceFile, len(r.HeaderFields), len(r.ValueFields))
	}
	return nil
}

// Lookup returns the value under the first header field equal to metric.
func (r *RunResult) Lookup(metric string) (string, bool) {
	for k, h := range r.HeaderFields {
		if h != metric {
			continue
		}
		if k >= len(r.ValueFields) {
			return "", false
		}
		return r.ValueFields[k], true
	}
	return "", false
}

// Add appends a result to the batch.
func (b *Batch) Add(r RunResult) {
	b.Results = append(b.Results, r)
}

// Reset empties the batch so it can be reused for the next folder.
func (b *Batch) Reset(name string) {
	b.Name = name
	b.Results = nil
}
