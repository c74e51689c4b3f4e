package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/gerunddev/notion2md/internal/config"
)

func TestLoadConfigFlagOverrides(t *testing.T) {
	t.Setenv(config.TokenEnv, "")
	original := config.ConfigPath
	t.Cleanup(func() { config.ConfigPath = original })

	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"notion_token": "file-token", "database_id": "db-from-file", "concurrency": 8, "page_timeout": "1m"}`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := addCommonFlags(fs)
	if err := fs.Parse([]string{"--config", path, "--database", "db-from-flag", "--timeout", "30s", "--color"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cfg, err := loadConfig(fs, flags)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}

	if cfg.DatabaseID != "db-from-flag" {
		t.Errorf("DatabaseID = %q, want flag value", cfg.DatabaseID)
	}
	if cfg.PageTimeout != 30*time.Second {
		t.Errorf("PageTimeout = %v, want flag value", cfg.PageTimeout)
	}
	if cfg.Concurrency != 8 {
		t.Errorf("Concurrency = %d, unset flag should keep file value", cfg.Concurrency)
	}
	if cfg.NotionToken != "file-token" {
		t.Errorf("NotionToken = %q", cfg.NotionToken)
	}
	if !cfg.EnableColor {
		t.Error("--color should enable colour rendering")
	}
}

func TestMarkdownOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	opts := markdownOptions(cfg)
	if opts.Annotations.Color || opts.UnsupportedComments {
		t.Errorf("defaults should leave colour and comments off: %+v", opts)
	}

	cfg.EnableColor = true
	cfg.UnsupportedComments = true
	opts = markdownOptions(cfg)
	if !opts.Annotations.Color || !opts.UnsupportedComments {
		t.Errorf("config switches not applied: %+v", opts)
	}
	if !opts.Annotations.Bold || !opts.Annotations.Link {
		t.Errorf("other annotations should stay on: %+v", opts.Annotations)
	}
}

func TestNewLoggerWritesFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "n.log")

	log, cleanup, err := newLogger(cfg, true)
	if err != nil {
		t.Fatalf("newLogger() error: %v", err)
	}
	t.Cleanup(runExitHooks)
	log.ExportCompleted(2, 1, 0, time.Second)
	cleanup()

	data, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	_, run, err := ParseLogFile(cfg.LogFile, 5)
	if err != nil || run == nil || run.Exported != 2 {
		t.Errorf("log file not parseable as an export run: %q (run=%+v, err=%v)", data, run, err)
	}
}

func TestNewExporterRejectsBadDatabase(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DatabaseID = "not-an-id"
	if _, err := newExporter(cfg, nil, false, false, nil); err == nil {
		t.Error("expected error for malformed database id")
	}
}

func TestExitHooksCloseLogFile(t *testing.T) {
	t.Cleanup(runExitHooks)
	cfg := config.DefaultConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "n.log")

	log, cleanup, err := newLogger(cfg, true)
	if err != nil {
		t.Fatalf("newLogger() error: %v", err)
	}
	log.Error("before exit")

	// what fail runs before os.Exit
	runExitHooks()
	log.Error("after exit")
	cleanup()

	data, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "before exit") {
		t.Errorf("log file missing entry written before exit: %q", data)
	}
	if strings.Contains(string(data), "after exit") {
		t.Errorf("log file still open after exit hooks ran: %q", data)
	}
}

func TestExitHooksRunNewestFirstOnce(t *testing.T) {
	t.Cleanup(runExitHooks)
	var order []string
	atExit(func() { order = append(order, "first") })
	atExit(func() { order = append(order, "second") })

	runExitHooks()
	runExitHooks()

	if strings.Join(order, ",") != "second,first" {
		t.Errorf("hooks ran as %v, want [second first]", order)
	}
}
