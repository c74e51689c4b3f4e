package diff

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/gerunddev/notion2md/internal/frontmatter"
)

// Options controls how a page is compared with a file on disk
type Options struct {
	// BodyOnly drops the front matter from both sides
	BodyOnly bool
	// Plain skips terminal rendering
	Plain bool
	// Width is the word wrap used for terminal rendering
	Width int
}

// Unified returns a unified diff turning oldContent into newContent, or ""
// when they are equal
func Unified(oldName, oldContent, newName, newContent string) string {
	if oldContent == newContent {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath(oldName), oldContent, newContent)
	return fmt.Sprint(gotextdiff.ToUnified(oldName, newName, oldContent, edits))
}

// Generate diffs the file at path (old side) against a freshly rendered
// document (new side). An empty result means there is nothing to update.
func Generate(path, rendered string, opts Options) (string, error) {
	existing, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read markdown file: %w", err)
	}

	oldContent := string(existing)
	newContent := rendered
	if opts.BodyOnly {
		oldBody, err := frontmatter.Body(existing)
		if err != nil {
			return "", err
		}
		newBody, err := frontmatter.Body([]byte(rendered))
		if err != nil {
			return "", err
		}
		oldContent, newContent = string(oldBody), string(newBody)
	}

	name := filepath.Base(path)
	unified := Unified(name, oldContent, name+" (notion)", newContent)
	if unified == "" || opts.Plain {
		return unified, nil
	}
	return Render(unified, opts.Width), nil
}

// Render wraps a unified diff in a diff code fence and renders it for the
// terminal, falling back to the fenced text when rendering fails
func Render(unified string, width int) string {
	// Wrap in markdown diff code fence
	diffMarkdown := fmt.Sprintf("```diff\n%s```\n", unified)

	if width <= 0 {
		width = 120
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return diffMarkdown
	}

	rendered, err := renderer.Render(diffMarkdown)
	if err != nil {
		return diffMarkdown
	}

	return rendered
}
