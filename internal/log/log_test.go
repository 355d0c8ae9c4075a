package log

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, err=%v", tt.input, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestLevelsAndAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, slog.LevelWarn).With("category", "Condos")

	l.Info("hidden")
	l.Warn("skipping file", "file", "Condos.json")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered: %s", out)
	}
	if !strings.Contains(out, "file=Condos.json") || !strings.Contains(out, "category=Condos") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	l.Debug("x")
	l.Info("x", "n", 1)
	if l.With("a", 1) != nil {
		t.Errorf("With on nil logger should stay nil")
	}
}

func TestNewWritesRotatingFile(t *testing.T) {
	dir := t.TempDir()
	l := New("debug", dir)
	l.Info("written to file", "n", 3)

	data, err := os.ReadFile(l.LogFile)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"written to file"`) {
		t.Errorf("log file missing entry: %s", data)
	}
}
