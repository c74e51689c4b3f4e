package commands

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// LastRun is what the log file says about the most recent export
type LastRun struct {
	Time     time.Time
	Exported int
	Errors   int
}

// ParseLogFile reads the last N lines from the log file and extracts the
// most recent export summary
func ParseLogFile(logPath string, maxLines int) ([]string, *LastRun, error) {
	content, err := os.ReadFile(logPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read log file: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")

	// Get last N lines
	startIdx := 0
	if len(lines) > maxLines {
		startIdx = len(lines) - maxLines
	}
	recentLines := lines[startIdx:]

	// Look for most recent "export completed" line in the whole file
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if !strings.Contains(line, "export completed") {
			continue
		}

		run := &LastRun{}
		// Format: 2025-11-27 14:11:57 INFO export completed exported=2 ...
		if len(line) > 19 {
			if t, err := time.ParseInLocation(time.DateTime, line[:19], time.Local); err == nil {
				run.Time = t
			}
		}
		if idx := strings.Index(line, "exported="); idx != -1 {
			_, _ = fmt.Sscanf(line[idx:], "exported=%d", &run.Exported) //nolint:errcheck // best effort parsing
		}
		if idx := strings.Index(line, "errors="); idx != -1 {
			_, _ = fmt.Sscanf(line[idx:], "errors=%d", &run.Errors) //nolint:errcheck // best effort parsing
		}
		return recentLines, run, nil
	}

	return recentLines, nil, nil
}
