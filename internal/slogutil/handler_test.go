package slogutil

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	logger.Info("snapshot saved", "course", "js-deep-dive", "bytes", 512)

	line := buf.String()
	if !strings.Contains(line, "[info] snapshot saved") {
		t.Errorf("line = %q", line)
	}
	if !strings.Contains(line, "course=js-deep-dive") || !strings.Contains(line, "bytes=512") {
		t.Errorf("attrs missing: %q", line)
	}
}

func TestHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record leaked through warn-level handler")
	}
	if !strings.Contains(out, "shown") {
		t.Error("warn record missing")
	}
}

func TestHandlerGroupsPrefixKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo).WithGroup("graph").With("course", "c1")

	logger.Info("loaded")
	if !strings.Contains(buf.String(), "graph.course=c1") {
		t.Errorf("line = %q", buf.String())
	}
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := LevelFromString(tt.in); got != tt.want {
			t.Errorf("LevelFromString(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
