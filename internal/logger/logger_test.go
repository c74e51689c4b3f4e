package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected log.Level
	}{
		{"debug", log.DebugLevel},
		{"warn", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"", log.InfoLevel},
		{"loud", log.InfoLevel},
	}

	for _, tt := range tests {
		if actual := ParseLevel(tt.input); actual != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, actual, tt.expected)
		}
	}
}

func TestDomainEvents(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithLevel(&buf, log.DebugLevel)

	l.PageSkipped("abc", "Draft", "publish date not reached")
	l.ImageFailed("https://x/y.png", errors.New("status 404"))
	l.PageUnchanged("abc", "/out/index.md")

	out := buf.String()
	for _, want := range []string{
		"page skipped",
		"publish date not reached",
		"image download failed",
		"status 404",
		"page unchanged",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithLevel(&buf, log.InfoLevel)
	l.PageUnchanged("abc", "/out/index.md")
	if buf.Len() != 0 {
		t.Errorf("debug event written at info level: %q", buf.String())
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notion2md.log")
	var buf bytes.Buffer

	l, cleanup, err := Open(path, log.InfoLevel, &buf)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	l.ExportCompleted(2, 1, 0, 1500*time.Millisecond)
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	for _, out := range []string{string(data), buf.String()} {
		if !strings.Contains(out, "export completed") || !strings.Contains(out, "exported=2") {
			t.Errorf("log output = %q", out)
		}
	}
}

func TestOpenWithoutOutputs(t *testing.T) {
	l, cleanup, err := Open("", log.DebugLevel)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer cleanup()
	l.Info("dropped")
}

func TestOpenBadPath(t *testing.T) {
	if _, _, err := Open(filepath.Join(t.TempDir(), "missing", "x.log"), log.InfoLevel); err == nil {
		t.Error("expected error for a log file in a missing directory")
	}
}
