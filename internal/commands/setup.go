package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/gerunddev/notion2md/internal/asset"
	"github.com/gerunddev/notion2md/internal/config"
	"github.com/gerunddev/notion2md/internal/export"
	"github.com/gerunddev/notion2md/internal/logger"
	"github.com/gerunddev/notion2md/internal/markdown"
	"github.com/gerunddev/notion2md/internal/notion"
	"github.com/gerunddev/notion2md/internal/styles"
)

// commonFlags are accepted by every command that talks to Notion
type commonFlags struct {
	configPath  string
	token       string
	database    string
	template    string
	logLevel    string
	concurrency int
	timeout     time.Duration
	color       bool
	comments    bool
}

func addCommonFlags(fs *pflag.FlagSet) *commonFlags {
	f := &commonFlags{}
	defaults := config.DefaultConfig()
	fs.StringVarP(&f.configPath, "config", "c", "", "Config file (default "+config.ConfigPath()+")")
	fs.StringVar(&f.token, "token", "", "Notion integration token (overrides "+config.TokenEnv+")")
	fs.StringVarP(&f.database, "database", "d", "", "Notion database ID or URL")
	fs.StringVarP(&f.template, "output", "o", "", "Output directory template")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level: debug|info|warn|error")
	fs.IntVar(&f.concurrency, "concurrency", defaults.Concurrency, "Maximum concurrent Notion API calls")
	fs.DurationVar(&f.timeout, "timeout", defaults.PageTimeout, "Time limit for fetching one page")
	fs.BoolVar(&f.color, "color", false, "Render text colours as HTML spans")
	fs.BoolVar(&f.comments, "unsupported-comments", false, "Leave an HTML comment for unsupported blocks")
	return f
}

// loadConfig reads the config file and lets explicitly set flags win
func loadConfig(fs *pflag.FlagSet, f *commonFlags) (*config.Config, error) {
	if f.configPath != "" {
		path := f.configPath
		config.ConfigPath = func() string { return path }
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if fs.Changed("token") {
		cfg.NotionToken = f.token
	}
	if fs.Changed("database") {
		cfg.DatabaseID = f.database
	}
	if fs.Changed("output") {
		cfg.OutputTemplate = f.template
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if fs.Changed("concurrency") {
		cfg.Concurrency = f.concurrency
	}
	if fs.Changed("timeout") {
		cfg.PageTimeout = f.timeout
	}
	if fs.Changed("color") {
		cfg.EnableColor = f.color
	}
	if fs.Changed("unsupported-comments") {
		cfg.UnsupportedComments = f.comments
	}

	return cfg, nil
}

// newLogger writes to the log file when one is configured, and to stderr
// unless a TUI owns the terminal
func newLogger(cfg *config.Config, interactive bool) (*logger.Logger, func(), error) {
	var extra []io.Writer
	if !interactive {
		extra = append(extra, os.Stderr)
	}

	log, closeLog, err := logger.Open(cfg.LogFile, logger.ParseLevel(cfg.LogLevel), extra...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	cleanup := sync.OnceFunc(closeLog)
	atExit(cleanup)
	return log, cleanup, nil
}

func markdownOptions(cfg *config.Config) markdown.Options {
	opts := markdown.DefaultOptions()
	opts.Annotations.Color = cfg.EnableColor
	opts.UnsupportedComments = cfg.UnsupportedComments
	return opts
}

// newExporter wires the Notion client, tree fetcher, and image downloader
func newExporter(cfg *config.Config, log *logger.Logger, dryRun, force bool, progress func(export.Progress)) (*export.Exporter, error) {
	databaseID := cfg.DatabaseID
	if databaseID != "" {
		id, err := notion.NormalizeID(databaseID)
		if err != nil {
			return nil, fmt.Errorf("invalid database_id: %w", err)
		}
		databaseID = id
	}

	client := notion.NewClient(cfg.NotionToken, notion.WithRetries(cfg.MaxRetries, time.Second))
	fetcher := notion.NewFetcher(client, cfg.Concurrency)
	images := asset.NewDownloader(nil, log, cfg.Concurrency)

	return export.New(client, fetcher, images, log, export.Options{
		DatabaseID:     databaseID,
		OutputTemplate: cfg.OutputTemplate,
		Properties:     cfg.Properties,
		FrontMatter:    cfg.FrontMatter,
		Markdown:       markdownOptions(cfg),
		PageTimeout:    cfg.PageTimeout,
		DryRun:         dryRun,
		Force:          force,
		OnProgress:     progress,
	})
}

// signalContext is cancelled on interrupt or terminate
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

var (
	exitMu    sync.Mutex
	exitHooks []func()
)

// atExit registers fn to run when the command leaves through exit or fail;
// deferred calls do not run on os.Exit
func atExit(fn func()) {
	exitMu.Lock()
	defer exitMu.Unlock()
	exitHooks = append(exitHooks, fn)
}

// runExitHooks runs the registered hooks once, newest first
func runExitHooks() {
	exitMu.Lock()
	hooks := exitHooks
	exitHooks = nil
	exitMu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
}

// exit runs the exit hooks and ends the process with code
func exit(code int) {
	runExitHooks()
	os.Exit(code)
}

// fail prints an error and exits
func fail(msg string, err error) {
	if err != nil {
		msg += ": " + err.Error()
	}
	fmt.Fprintln(os.Stderr, styles.Failure(msg))
	exit(1)
}
