package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/gerunddev/notion2md/internal/diff"
	"github.com/gerunddev/notion2md/internal/export"
	"github.com/gerunddev/notion2md/internal/output"
	"github.com/gerunddev/notion2md/internal/preview"
	"github.com/gerunddev/notion2md/internal/styles"
	"github.com/gerunddev/notion2md/internal/tui"
)

// Pages lists the requested pages and what an export would do with each
func Pages(args []string) {
	flagSet := pflag.NewFlagSet("pages", pflag.ExitOnError)
	force := flagSet.Bool("force", false, "Treat pages with a future publish date as due")
	plain := flagSet.Bool("plain", false, "Print a table instead of the interactive browser")
	flags := addCommonFlags(flagSet)
	if err := flagSet.Parse(args); err != nil {
		os.Exit(2)
	}

	cfg, err := loadConfig(flagSet, flags)
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

	exporter, err := newExporter(cfg, log, true, *force, nil)
	if err != nil {
		fail("Error creating exporter", err)
	}

	ctx, stop := signalContext()
	defer stop()

	plan, err := exporter.Plan(ctx)
	if err != nil {
		fail("Error querying database", err)
	}

	if !interactive {
		printPlan(plan)
		return
	}

	view := func(ctx context.Context, page export.PlannedPage, kind tui.ViewKind) (string, error) {
		return viewPage(ctx, exporter, page, kind)
	}
	if err := tui.RunPages(ctx, plan, view); err != nil {
		fail("Error", err)
	}
}

// viewPage renders a page for the browser's detail pane
func viewPage(ctx context.Context, exporter *export.Exporter, page export.PlannedPage, kind tui.ViewKind) (string, error) {
	width := preview.TerminalWidth() - 6

	if kind == tui.ViewPreview {
		doc, err := exporter.RenderPage(ctx, page.Data.PageID, export.ImagesRemote, "")
		if err != nil {
			return "", err
		}
		return preview.Terminal(doc, width)
	}

	doc, err := exporter.RenderPage(ctx, page.Data.PageID, export.ImagesLocalNames, page.Dir)
	if err != nil {
		return "", err
	}
	out, err := diff.Generate(output.Path(page.Dir), doc, diff.Options{Width: width})
	if errors.Is(err, fs.ErrNotExist) {
		return styles.InfoStyle.Render("Not exported yet: " + output.Path(page.Dir)), nil
	}
	if err != nil {
		return "", err
	}
	if out == "" {
		return styles.Success("Up to date"), nil
	}
	return out, nil
}

func printPlan(plan []export.PlannedPage) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PAGE\tTITLE\tPUBLISH\tSTATUS\tOUTPUT")
	for _, p := range plan {
		publish := "-"
		if p.Data.PublishedAt != nil {
			publish = p.Data.PublishedAt.Format("2006-01-02")
		}
		status := "due"
		if !p.Due {
			status = p.Reason
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Data.PageID, p.Data.Title, publish, status, p.Dir)
	}
	w.Flush()
}
