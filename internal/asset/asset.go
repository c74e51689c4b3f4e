package asset

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gerunddev/notion2md/internal/logger"
	"github.com/gerunddev/notion2md/internal/notion"
)

// Downloader saves remote images next to the page that references them
type Downloader struct {
	client      *http.Client
	log         *logger.Logger
	concurrency int
}

// NewDownloader creates a downloader. A nil client gets a default one with
// a timeout; a nil logger discards output.
func NewDownloader(client *http.Client, log *logger.Logger, concurrency int) *Downloader {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if log == nil {
		log = logger.Discard()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Downloader{client: client, log: log, concurrency: concurrency}
}

// FileName derives the local file name for a URL: the upper-case hex MD5
// of the URL path followed by the path's extension. Query strings do not
// take part, so re-signed URLs of the same object map to the same file.
func FileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse url: %w", err)
	}
	if u.Path == "" {
		return "", fmt.Errorf("url %q has no path", rawURL)
	}

	sum := md5.Sum([]byte(u.Path))
	return strings.ToUpper(hex.EncodeToString(sum[:])) + path.Ext(u.Path), nil
}

// Download fetches rawURL into dir and returns the file name. Any failure
// is logged and reported as "".
func (d *Downloader) Download(ctx context.Context, rawURL, dir string) string {
	name, err := d.download(ctx, rawURL, dir)
	if err != nil {
		d.log.ImageFailed(rawURL, err)
		return ""
	}
	return name
}

func (d *Downloader) download(ctx context.Context, rawURL, dir string) (string, error) {
	name, err := FileName(rawURL)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}

	// the final name only ever holds a complete image
	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("failed to move image into place: %w", err)
	}

	return name, nil
}

// DownloadAll downloads every URL into dir concurrently and returns a map
// from URL to the relative path to use in Markdown ("./NAME.ext"). URLs
// that failed map to "".
func (d *Downloader) DownloadAll(ctx context.Context, urls []string, dir string) map[string]string {
	unique := dedupe(urls)
	names := make([]string, len(unique))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for i, u := range unique {
		g.Go(func() error {
			if name := d.Download(ctx, u, dir); name != "" {
				names[i] = "./" + name
			}
			return nil
		})
	}
	_ = g.Wait()

	paths := make(map[string]string, len(unique))
	for i, u := range unique {
		paths[u] = names[i]
	}
	return paths
}

// Resolver returns a lookup func over a DownloadAll result, suitable as an
// image resolver for the renderer
func Resolver(paths map[string]string) func(string) string {
	return func(u string) string {
		return paths[u]
	}
}

// Collect gathers the image URLs of a block tree in document order
func Collect(root *notion.Block) []string {
	var urls []string
	var walk func(blocks []*notion.Block)
	walk = func(blocks []*notion.Block) {
		for _, b := range blocks {
			if b == nil {
				continue
			}
			if b.Type == notion.TypeImage {
				if u := b.FileURL(); u != "" {
					urls = append(urls, u)
				}
			}
			walk(b.Children)
		}
	}
	if root != nil {
		walk(root.Children)
	}
	return urls
}

func dedupe(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
