package report

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/signalnine/compbench/internal/ctxlog"
	"github.com/signalnine/compbench/internal/result"
)

// WriteMetrics prints, for each metric in interest, the metric name, one
// value per result that defines it in batch order, and a blank line.
// Results whose output is malformed are skipped with a warning.
func WriteMetrics(ctx context.Context, w io.Writer, batch *result.Batch, interest []string) error {
	usable := usableResults(ctx, batch)
	bw := bufio.NewWriter(w)
	for _, metric := range interest {
		fmt.Fprintln(bw, metric)
		for _, r := range usable {
			if v, ok := r.Lookup(metric); ok {
				fmt.Fprintln(bw, v)
			}
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

func usableResults(ctx context.Context, batch *result.Batch) []*result.RunResult {
	logger := ctxlog.FromContext(ctx)
	usable := make([]*result.RunResult, 0, len(batch.Results))
	for i := range batch.Results {
		r := &batch.Results[i]
		if err := r.Malformed(); err != nil {
			logger.Warn("skipping result", "batch", batch.Name, "error", err)
			continue
		}
		usable = append(usable, r)
	}
	return usable
}

// Generate renders every batch in the requested format: text (the console
// format of WriteMetrics), table, or markdown.
func Generate(ctx context.Context, w io.Writer, batches []result.Batch, interest []string, format string) error {
	for i := range batches {
		var err error
		switch format {
		case "markdown":
			err = writeMarkdown(ctx, w, &batches[i], interest)
		case "table":
			err = writeTable(ctx, w, &batches[i], interest)
		case "text", "":
			err = WriteMetrics(ctx, w, &batches[i], interest)
		default:
			return fmt.Errorf("unknown format %q", format)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func columnNames(results []*result.RunResult) []string {
	names := make([]string, len(results))
	for i, r := range results {
		names[i] = filepath.Base(r.SourceFile)
	}
	return names
}

func row(metric string, results []*result.RunResult) []string {
	cells := []string{metric}
	for _, r := range results {
		v, ok := r.Lookup(metric)
		if !ok {
			v = "-"
		}
		cells = append(cells, v)
	}
	return cells
}

func writeTable(ctx context.Context, w io.Writer, batch *result.Batch, interest []string) error {
	usable := usableResults(ctx, batch)
	if batch.Name != "" {
		fmt.Fprintf(w, "== %s\n", batch.Name)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\t"+strings.Join(columnNames(usable), "\t"))
	for _, metric := range interest {
		fmt.Fprintln(tw, strings.Join(row(metric, usable), "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

func writeMarkdown(ctx context.Context, w io.Writer, batch *result.Batch, interest []string) error {
	usable := usableResults(ctx, batch)
	if batch.Name != "" {
		fmt.Fprintf(w, "### %s\n\n", batch.Name)
	}
	fmt.Fprintf(w, "| Metric | %s |\n", strings.Join(columnNames(usable), " | "))
	fmt.Fprintln(w, "|---"+strings.Repeat("|---", len(usable))+"|")
	for _, metric := range interest {
		fmt.Fprintf(w, "| %s |\n", strings.Join(row(metric, usable), " | "))
	}
	_, err := fmt.Fprintln(w)
	return err
}

// ParseLog reads a raw output log back into batches. Blank lines separate
// batches. A line starts a run when the line after it has the same number
// of fields and is not a repeat of the batch's first header; any other
// line is extra driver output and is skipped with a warning. Runs are
// named run-1, run-2, ... within each batch since the log does not record
// input paths.
func ParseLog(ctx context.Context, r io.Reader) ([]result.Batch, error) {
	logger := ctxlog.FromContext(ctx)
	var (
		batches []result.Batch
		lines   []string
	)
	flush := func() {
		if len(lines) == 0 {
			return
		}
		b := result.Batch{Name: fmt.Sprintf("batch-%d", len(batches)+1)}
		var firstHeader string
		for i := 0; i < len(lines); {
			if i+1 < len(lines) && isRun(lines[i], lines[i+1], firstHeader) {
				if firstHeader == "" {
					firstHeader = lines[i]
				}
				raw := lines[i] + "\n" + lines[i+1] + "\n"
				b.Add(result.Parse(fmt.Sprintf("run-%d", len(b.Results)+1), []byte(raw)))
				i += 2
				continue
			}
			logger.Warn("skipping unpaired log line", "batch", b.Name, "line", lines[i])
			i++
		}
		batches = append(batches, b)
		lines = nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			flush()
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	flush()
	return batches, nil
}

// isRun reports whether header and values form one driver report. A value
// line equal to the batch's first header always begins the next run.
func isRun(header, values, firstHeader string) bool {
	if firstHeader != "" && values == firstHeader {
		return false
	}
	return len(result.Fields(header)) == len(result.Fields(values))
}
