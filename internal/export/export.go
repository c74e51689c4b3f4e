package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/gerunddev/notion2md/internal/asset"
	"github.com/gerunddev/notion2md/internal/frontmatter"
	"github.com/gerunddev/notion2md/internal/logger"
	"github.com/gerunddev/notion2md/internal/markdown"
	"github.com/gerunddev/notion2md/internal/notion"
	"github.com/gerunddev/notion2md/internal/output"
)

// GitHubEnvVar names the file GitHub Actions reads step outputs from
const GitHubEnvVar = "GITHUB_ENV"

// Skip reasons
const (
	ReasonNotRequested = "no request publishing"
	ReasonNoDate       = "missing publish date"
	ReasonNotDue       = "publication date not reached"
)

// PageSource is the part of the Notion API the exporter talks to
type PageSource interface {
	QueryDatabase(ctx context.Context, databaseID, checkboxProperty string) ([]*notion.Page, error)
	GetPage(ctx context.Context, pageID string) (*notion.Page, error)
	MarkExported(ctx context.Context, pageID, crawledAtProperty, requestProperty string, now time.Time) error
}

// TreeFetcher resolves a page's full block tree
type TreeFetcher interface {
	FetchTree(ctx context.Context, rootID string) (*notion.Block, error)
}

// ImageDownloader saves images into a page directory
type ImageDownloader interface {
	DownloadAll(ctx context.Context, urls []string, dir string) map[string]string
}

// ImageMode selects how image URLs are resolved while rendering
type ImageMode int

const (
	// ImagesRemote keeps the original URLs
	ImagesRemote ImageMode = iota
	// ImagesLocalNames points at the names a download would produce without
	// fetching anything
	ImagesLocalNames
	// ImagesDownload downloads images into the page directory
	ImagesDownload
)

// Progress reports the page about to be processed
type Progress struct {
	Index int
	Total int
	Title string
}

// Options controls an export run
type Options struct {
	DatabaseID     string
	OutputTemplate string
	Properties     notion.PropertyNames
	FrontMatter    frontmatter.FieldNames
	Markdown       markdown.Options
	PageTimeout    time.Duration

	// DryRun renders pages but writes nothing locally or remotely
	DryRun bool
	// Force exports pages whose publish date is still in the future
	Force bool

	Now        func() time.Time
	OnProgress func(Progress)
}

// Exporter publishes the requested pages of a database as Markdown
type Exporter struct {
	pages   PageSource
	fetcher TreeFetcher
	images  ImageDownloader
	log     *logger.Logger
	opts    Options
	tmpl    *template.Template
}

// New creates an exporter. The output template is parsed up front.
func New(pages PageSource, fetcher TreeFetcher, images ImageDownloader, log *logger.Logger, opts Options) (*Exporter, error) {
	tmpl, err := template.New("output").Option("missingkey=error").Parse(opts.OutputTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse output template: %w", err)
	}
	if log == nil {
		log = logger.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = 2 * time.Minute
	}

	return &Exporter{
		pages:   pages,
		fetcher: fetcher,
		images:  images,
		log:     log,
		opts:    opts,
		tmpl:    tmpl,
	}, nil
}

// Result represents the result of an export run
type Result struct {
	Exported  int
	Unchanged int
	Skipped   int
	Errors    []error
	Written   []string
	DryRun    bool
	StartTime time.Time
	EndTime   time.Time
}

// String returns a human-readable summary of the export result
func (r *Result) String() string {
	duration := r.EndTime.Sub(r.StartTime)
	prefix := "Export complete"
	if r.DryRun {
		prefix = "Dry run complete"
	}
	return fmt.Sprintf(
		"%s: %d pages exported, %d unchanged, %d skipped, %d errors (took %v)",
		prefix,
		r.Exported,
		r.Unchanged,
		r.Skipped,
		len(r.Errors),
		duration.Round(time.Millisecond),
	)
}

// ShouldExport decides whether a page is due. The reason is empty when it
// is.
func ShouldExport(data notion.PageData, now time.Time, force bool) (bool, string) {
	if !data.RequestPublishing {
		return false, ReasonNotRequested
	}
	if data.PublishedAt == nil {
		return false, ReasonNoDate
	}
	if !force && now.Before(*data.PublishedAt) {
		return false, ReasonNotDue
	}
	return true, ""
}

// templateData is what the output template sees
type templateData struct {
	Publish time.Time
	Title   string
	Slug    string
}

// OutputDir renders the output template for a page. The slug falls back to
// the title.
func (e *Exporter) OutputDir(data notion.PageData) (string, error) {
	td := templateData{Title: data.Title, Slug: data.Slug}
	if td.Slug == "" {
		td.Slug = data.Title
	}
	if data.PublishedAt != nil {
		td.Publish = *data.PublishedAt
	}

	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, td); err != nil {
		return "", fmt.Errorf("failed to render output template: %w", err)
	}

	dir := strings.TrimSpace(buf.String())
	if dir == "" {
		return "", errors.New("output template rendered an empty path")
	}
	return filepath.Clean(dir), nil
}

// PlannedPage is a requested page and what an export would do with it
type PlannedPage struct {
	Data   notion.PageData
	Due    bool
	Reason string
	Dir    string
}

// Plan lists the requested pages with their export decision without
// fetching any content
func (e *Exporter) Plan(ctx context.Context) ([]PlannedPage, error) {
	pages, err := e.pages.QueryDatabase(ctx, e.opts.DatabaseID, e.opts.Properties.RequestPublishing)
	if err != nil {
		return nil, err
	}

	now := e.opts.Now()
	plan := make([]PlannedPage, 0, len(pages))
	for _, page := range pages {
		data := notion.ExtractPageData(page, e.opts.Properties)
		due, reason := ShouldExport(data, now, e.opts.Force)
		p := PlannedPage{Data: data, Due: due, Reason: reason}
		if due {
			if p.Dir, err = e.OutputDir(data); err != nil {
				p.Due, p.Reason = false, err.Error()
			}
		}
		plan = append(plan, p)
	}
	return plan, nil
}

// Export runs one export over every requested page. A failing page is
// logged and counted; only a failed database query aborts the run.
func (e *Exporter) Export(ctx context.Context) (*Result, error) {
	result := &Result{
		StartTime: time.Now(),
		DryRun:    e.opts.DryRun,
	}
	e.log.ExportStarted(e.opts.DatabaseID, e.opts.DryRun)

	pages, err := e.pages.QueryDatabase(ctx, e.opts.DatabaseID, e.opts.Properties.RequestPublishing)
	if err != nil {
		return nil, err
	}

	now := e.opts.Now()
	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data := notion.ExtractPageData(page, e.opts.Properties)
		if e.opts.OnProgress != nil {
			e.opts.OnProgress(Progress{Index: i, Total: len(pages), Title: data.Title})
		}

		if ok, reason := ShouldExport(data, now, e.opts.Force); !ok {
			e.log.PageSkipped(data.PageID, data.Title, reason)
			result.Skipped++
			continue
		}

		if err := e.exportPage(ctx, data, now, result); err != nil {
			e.log.PageError(data.PageID, err)
			result.Errors = append(result.Errors, fmt.Errorf("page %s: %w", data.PageID, err))
		}
	}

	result.EndTime = time.Now()
	e.log.ExportCompleted(result.Exported, result.Skipped, len(result.Errors), result.EndTime.Sub(result.StartTime))
	return result, nil
}

func (e *Exporter) exportPage(ctx context.Context, data notion.PageData, now time.Time, result *Result) error {
	dir, err := e.OutputDir(data)
	if err != nil {
		return err
	}

	mode := ImagesDownload
	if e.opts.DryRun {
		mode = ImagesLocalNames
	}
	doc, err := e.render(ctx, data, dir, mode)
	if err != nil {
		return err
	}

	path := output.Path(dir)
	if e.opts.DryRun {
		changed, err := output.HasChanged(path, []byte(doc))
		if err != nil {
			return err
		}
		if changed {
			e.log.Info("would export page", "page", data.PageID, "path", path)
			result.Exported++
		} else {
			result.Unchanged++
		}
		return nil
	}

	path, status, err := output.Write(dir, []byte(doc))
	if err != nil {
		return err
	}

	if err := e.pages.MarkExported(ctx, data.PageID, e.opts.Properties.CrawledAt, e.opts.Properties.RequestPublishing, now); err != nil {
		return err
	}

	if status == output.Unchanged {
		e.log.PageUnchanged(data.PageID, path)
		result.Unchanged++
		return nil
	}

	e.log.PageExported(data.PageID, data.Title, path)
	result.Exported++
	result.Written = append(result.Written, path)
	return nil
}

// RenderPage renders a single page without writing it or touching its
// properties. dir is only used with ImagesDownload.
func (e *Exporter) RenderPage(ctx context.Context, pageID string, mode ImageMode, dir string) (string, error) {
	page, err := e.pages.GetPage(ctx, pageID)
	if err != nil {
		return "", err
	}
	data := notion.ExtractPageData(page, e.opts.Properties)
	return e.render(ctx, data, dir, mode)
}

// render fetches, downloads, and assembles one page within the page timeout
func (e *Exporter) render(ctx context.Context, data notion.PageData, dir string, mode ImageMode) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.PageTimeout)
	defer cancel()

	root, err := e.fetcher.FetchTree(ctx, data.PageID)
	if err != nil {
		e.log.FetchError(data.PageID, err)
		return "", err
	}

	urls := asset.Collect(root)
	if data.CoverURL != "" {
		urls = append(urls, data.CoverURL)
	}

	paths := resolveImages(ctx, e.images, urls, dir, mode)

	opts := e.opts.Markdown
	opts.ResolveImage = asset.Resolver(paths)
	body := markdown.NewWalker(opts).RenderTree(root)

	eyecatch := ""
	if data.CoverURL != "" {
		eyecatch = paths[data.CoverURL]
	}
	header, err := frontmatter.Generate(data, eyecatch, e.opts.FrontMatter)
	if err != nil {
		return "", err
	}

	return markdown.Document(header, body), nil
}

func resolveImages(ctx context.Context, images ImageDownloader, urls []string, dir string, mode ImageMode) map[string]string {
	if mode == ImagesDownload && images != nil {
		return images.DownloadAll(ctx, urls, dir)
	}

	paths := make(map[string]string, len(urls))
	for _, u := range urls {
		switch mode {
		case ImagesLocalNames, ImagesDownload:
			if name, err := asset.FileName(u); err == nil {
				paths[u] = "./" + name
			} else {
				paths[u] = ""
			}
		default:
			paths[u] = u
		}
	}
	return paths
}

// WriteGitHubEnv appends EXPORTED_COUNT to the file named by $GITHUB_ENV.
// Outside GitHub Actions it does nothing.
func WriteGitHubEnv(count int, log *logger.Logger) error {
	if log == nil {
		log = logger.Discard()
	}
	path := os.Getenv(GitHubEnvVar)
	if path == "" {
		log.Debug("GITHUB_ENV not set, skipping environment update")
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", GitHubEnvVar, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "EXPORTED_COUNT=%d\n", count); err != nil {
		return fmt.Errorf("failed to write %s: %w", GitHubEnvVar, err)
	}
	log.Info("github environment updated", "exported_count", count)
	return nil
}
