package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/gerunddev/notion2md/internal/config"
	"github.com/gerunddev/notion2md/internal/export"
	"github.com/gerunddev/notion2md/internal/styles"
	"github.com/gerunddev/notion2md/internal/tui"
)

// Export publishes every page that is due
func Export(args []string) {
	fs := pflag.NewFlagSet("export", pflag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "Render pages without writing files or updating Notion")
	force := fs.Bool("force", false, "Export pages whose publish date is in the future")
	plain := fs.Bool("plain", false, "Plain output instead of the progress display")
	flags := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(2)
	}

	cfg, err := loadConfig(fs, flags)
	if err != nil {
		fail("Error loading config", err)
	}
	if err := cfg.Validate(); err != nil {
		fail("Invalid configuration", err)
	}

	interactive := !*plain && isTerminal(os.Stdout)

	log, cleanup, err := newLogger(cfg, interactive)
	if err != nil {
		fail("Error setting up logging", err)
	}
	defer cleanup()
	log.ConfigLoaded(config.ConfigPath(), cfg.DatabaseID, cfg.Concurrency, cfg.PageTimeout)

	ctx, stop := signalContext()
	defer stop()

	run := func(ctx context.Context, progress func(export.Progress)) (*export.Result, error) {
		exporter, err := newExporter(cfg, log, *dryRun, *force, progress)
		if err != nil {
			return nil, err
		}
		return exporter.Export(ctx)
	}

	var result *export.Result
	if interactive {
		result, err = tui.RunExport(ctx, run)
	} else {
		result, err = run(ctx, nil)
		fmt.Print(tui.Summary(result, err))
	}
	if err != nil {
		if interactive {
			fmt.Fprintln(os.Stderr, styles.Failure(err.Error()))
		}
		exit(1)
	}

	// unchanged pages are marked in Notion but not counted
	if !*dryRun {
		if err := export.WriteGitHubEnv(result.Exported, log); err != nil {
			fmt.Fprintln(os.Stderr, styles.Warning(err.Error()))
		}
	}
}
