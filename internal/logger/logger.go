package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// Open creates a logger that writes to extra and, when path is set, appends
// to the file at path. The returned cleanup closes the file.
func Open(path string, level log.Level, extra ...io.Writer) (*Logger, func(), error) {
	writers := extra
	cleanup := func() {}

	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, err
		}
		writers = append(writers, f)
		cleanup = func() {
			f.Close()
		}
	}

	if len(writers) == 0 {
		return Discard(), cleanup, nil
	}
	return NewWithLevel(io.MultiWriter(writers...), level), cleanup, nil
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// ParseLevel maps a config level name to a log level; unknown names fall
// back to info
func ParseLevel(name string) log.Level {
	level, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// ExportStarted logs the start of an export run
func (l *Logger) ExportStarted(databaseID string, dryRun bool) {
	l.Info("export started",
		"database", databaseID,
		"dry_run", dryRun)
}

// ExportCompleted logs the completion of an export run
func (l *Logger) ExportCompleted(exported, skipped, errors int, duration time.Duration) {
	l.Info("export completed",
		"exported", exported,
		"skipped", skipped,
		"errors", errors,
		"duration", duration.Round(time.Millisecond))
}

// PageExported logs a page written to disk
func (l *Logger) PageExported(pageID, title, path string) {
	l.Info("page exported",
		"page", pageID,
		"title", title,
		"path", path)
}

// PageSkipped logs a page that is not due for publishing
func (l *Logger) PageSkipped(pageID, title, reason string) {
	l.Info("page skipped",
		"page", pageID,
		"title", title,
		"reason", reason)
}

// PageUnchanged logs a page whose output already matches what is on disk
func (l *Logger) PageUnchanged(pageID, path string) {
	l.Debug("page unchanged",
		"page", pageID,
		"path", path)
}

// PageError logs an error for a specific page
func (l *Logger) PageError(pageID string, err error) {
	l.Error("page error",
		"page", pageID,
		"error", err)
}

// FetchError logs a failed block tree fetch
func (l *Logger) FetchError(pageID string, err error) {
	l.Error("fetch failed",
		"page", pageID,
		"error", err)
}

// ImageFailed logs an image that could not be downloaded
func (l *Logger) ImageFailed(url string, err error) {
	l.Warn("image download failed",
		"url", url,
		"error", err)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(path, databaseID string, concurrency int, timeout time.Duration) {
	l.Debug("config loaded",
		"path", path,
		"database", databaseID,
		"concurrency", concurrency,
		"page_timeout", timeout)
}
