package commands

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/gerunddev/notion2md/internal/config"
	"github.com/gerunddev/notion2md/internal/diff"
	"github.com/gerunddev/notion2md/internal/export"
	"github.com/gerunddev/notion2md/internal/notion"
	"github.com/gerunddev/notion2md/internal/preview"
)

// pageCommand parses flags and a page reference, then renders the page
type pageCommand struct {
	fs    *pflag.FlagSet
	flags *commonFlags
	usage string
	nargs int
}

func newPageCommand(name, usage string, nargs int) *pageCommand {
	fs := pflag.NewFlagSet(name, pflag.ExitOnError)
	c := &pageCommand{fs: fs, flags: addCommonFlags(fs), usage: usage, nargs: nargs}
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: notion2md %s\n\nFlags:\n", c.usage)
		fs.PrintDefaults()
	}
	return c
}

func (c *pageCommand) parse(args []string) {
	if err := c.fs.Parse(args); err != nil {
		os.Exit(2)
	}
	if c.fs.NArg() != c.nargs {
		c.fs.Usage()
		os.Exit(2)
	}
}

// render renders the referenced page with the given image mode
func (c *pageCommand) render(mode export.ImageMode, dir string) string {
	pageID, err := notion.NormalizeID(c.fs.Arg(0))
	if err != nil {
		fail("Invalid page", err)
	}

	cfg, err := loadConfig(c.fs, c.flags)
	if err != nil {
		fail("Error loading config", err)
	}
	if cfg.NotionToken == "" {
		fail("notion_token is not set (use --token or "+config.TokenEnv+")", nil)
	}

	log, cleanup, err := newLogger(cfg, false)
	if err != nil {
		fail("Error setting up logging", err)
	}
	defer cleanup()

	exporter, err := newExporter(cfg, log, true, false, nil)
	if err != nil {
		fail("Error creating exporter", err)
	}

	ctx, stop := signalContext()
	defer stop()

	doc, err := exporter.RenderPage(ctx, pageID, mode, dir)
	if err != nil {
		fail("Error rendering page", err)
	}
	return doc
}

// Render prints a page as Markdown, or HTML with --html
func Render(args []string) {
	c := newPageCommand("render", "render <page> [flags]", 1)
	asHTML := c.fs.Bool("html", false, "Print HTML instead of Markdown")
	dir := c.fs.String("images", "", "Download images into this directory")

	c.parse(args)

	mode := export.ImagesRemote
	if *dir != "" {
		mode = export.ImagesDownload
	}
	doc := c.render(mode, *dir)

	if *asHTML {
		out, err := preview.HTML(doc)
		if err != nil {
			fail("Error converting to HTML", err)
		}
		fmt.Print(out)
		return
	}
	fmt.Print(doc)
}

// Preview shows a page rendered for the terminal
func Preview(args []string) {
	c := newPageCommand("preview", "preview <page> [flags]", 1)
	c.parse(args)
	doc := c.render(export.ImagesRemote, "")

	out, err := preview.Terminal(doc, preview.TerminalWidth())
	if err != nil {
		fail("Error rendering preview", err)
	}
	fmt.Print(out)
}

// Diff compares a page with a previously exported file
func Diff(args []string) {
	c := newPageCommand("diff", "diff <page> <file> [flags]", 2)
	bodyOnly := c.fs.Bool("body-only", false, "Ignore front matter")
	plain := c.fs.Bool("plain", false, "Print the raw unified diff")

	c.parse(args)
	doc := c.render(export.ImagesLocalNames, "")

	out, err := diff.Generate(c.fs.Arg(1), doc, diff.Options{
		BodyOnly: *bodyOnly,
		Plain:    *plain || !isTerminal(os.Stdout),
		Width:    preview.TerminalWidth(),
	})
	if err != nil {
		fail("Error generating diff", err)
	}
	if out == "" {
		fmt.Println("No differences")
		return
	}
	fmt.Print(out)
}
