package preview

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"golang.org/x/term"

	"github.com/gerunddev/notion2md/internal/frontmatter"
)

const defaultWidth = 100

// TerminalWidth returns the width of stdout, or a default when stdout is
// not a terminal
func TerminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// Terminal renders a Markdown document for the terminal. The front matter
// is shown as a YAML code block above the body.
func Terminal(doc string, width int) (string, error) {
	meta, body, err := split(doc)
	if err != nil {
		return "", err
	}

	source := string(body)
	if meta != "" {
		source = "```yaml\n" + meta + "```\n\n" + source
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}

	out, err := renderer.Render(source)
	if err != nil {
		return "", fmt.Errorf("failed to render preview: %w", err)
	}
	return out, nil
}

// HTML converts the body of a Markdown document to HTML. Raw HTML in the
// document (details, video, colour spans) is passed through.
func HTML(doc string) (string, error) {
	_, body, err := split(doc)
	if err != nil {
		return "", err
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	var buf bytes.Buffer
	if err := md.Convert(body, &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// split separates the raw header text from the body
func split(doc string) (string, []byte, error) {
	body, err := frontmatter.Body([]byte(doc))
	if err != nil {
		return "", nil, err
	}

	open := frontmatter.Delimiter + "\n"
	if !strings.HasPrefix(doc, open) {
		return "", body, nil
	}
	rest := doc[len(open):]
	end := strings.Index(rest, "\n"+frontmatter.Delimiter+"\n")
	if end < 0 {
		return "", body, nil
	}
	return rest[:end+1], body, nil
}
