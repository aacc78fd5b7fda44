package ctxlog_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/signalnine/compbench/internal/ctxlog"
)

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := ctxlog.New(&buf, slog.LevelDebug)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	ctxlog.FromContext(ctx).Debug("hello", "k", "v")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("expected logged message, got %q", buf.String())
	}
}

func TestFromContextDefault(t *testing.T) {
	if ctxlog.FromContext(context.Background()) != slog.Default() {
		t.Error("expected slog.Default when no logger is set")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbos", slog.LevelInfo, true},
		{"", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ctxlog.ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
