package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notion2md.log")
	content := "2025-01-01 10:00:00 INFO export started database=db dry_run=false\n" +
		"2025-01-01 10:00:05 INFO export completed exported=1 skipped=0 errors=0 duration=5s\n" +
		"2025-01-02 09:30:00 INFO export started database=db dry_run=false\n" +
		"2025-01-02 09:30:07 INFO export completed exported=3 skipped=2 errors=1 duration=7s\n" +
		"2025-01-02 09:31:00 DEBU config loaded\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	lines, run, err := ParseLogFile(path, 2)
	if err != nil {
		t.Fatalf("ParseLogFile() error: %v", err)
	}
	if len(lines) != 2 {
		t.Errorf("expected 2 recent lines, got %d", len(lines))
	}
	if run == nil {
		t.Fatal("expected a last run")
	}
	if run.Exported != 3 || run.Errors != 1 {
		t.Errorf("run = %+v", run)
	}
	want := time.Date(2025, 1, 2, 9, 30, 7, 0, time.Local)
	if !run.Time.Equal(want) {
		t.Errorf("run.Time = %v, want %v", run.Time, want)
	}
}

func TestParseLogFileWithoutRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.log")
	if err := os.WriteFile(path, []byte("2025-01-01 10:00:00 INFO export started\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, run, err := ParseLogFile(path, 10)
	if err != nil {
		t.Fatalf("ParseLogFile() error: %v", err)
	}
	if run != nil {
		t.Errorf("expected no run, got %+v", run)
	}
}

func TestParseLogFileMissing(t *testing.T) {
	if _, _, err := ParseLogFile(filepath.Join(t.TempDir(), "nope.log"), 10); err == nil {
		t.Error("expected error for missing log file")
	}
}
