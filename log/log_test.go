package log

import (
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestNilLogger(t *testing.T) {
	var l *Logger
	l.Debug("discarded")
	l.Info("discarded", "n", 1)
	if l.With("k", "v") != nil {
		t.Errorf("With on a nil logger should return nil")
	}
	if err := l.Close(); err != nil {
		t.Errorf("Close on a nil logger failed: %v", err)
	}
}

func TestLogFile(t *testing.T) {
	dir := t.TempDir()
	l := New("debug", dir)
	l.With("preset", "rain").Debug("graph started")
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	b, err := os.ReadFile(l.LogFile)
	if err != nil {
		t.Fatalf("could not read log file: %v", err)
	}
	for _, want := range []string{"Hello logging", `"preset":"rain"`, "graph started"} {
		if !strings.Contains(string(b), want) {
			t.Errorf("log file does not contain %q", want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for s, want := range map[string]slog.Level{"debug": slog.LevelDebug, "": slog.LevelInfo, "warn": slog.LevelWarn, "error": slog.LevelError} {
		if got, err := ParseLevel(s); err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", s, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Errorf("ParseLevel should reject unknown levels")
	}
}
