package markdown

import (
	"strings"

	"github.com/gerunddev/notion2md/internal/notion"
)

// EnabledAnnotations switches individual inline formats on or off
type EnabledAnnotations struct {
	Bold          bool
	Italic        bool
	Strikethrough bool
	Underline     bool
	Code          bool
	Equation      bool
	Link          bool
	Color         bool
}

// Options controls how blocks and rich text are rendered
type Options struct {
	Annotations EnabledAnnotations

	// ColorMap replaces DefaultColorMap when Annotations.Color is on
	ColorMap ColorMap

	// ResolveImage maps an image URL to the path written into the document,
	// typically a downloaded local copy. An empty result drops the image.
	// When nil the URL is used as is.
	ResolveImage func(url string) string

	// UnsupportedComments emits an HTML comment for block types that have
	// no renderer instead of dropping them silently.
	UnsupportedComments bool
}

// DefaultOptions enables every inline format except colour
func DefaultOptions() Options {
	return Options{
		Annotations: EnabledAnnotations{
			Bold:          true,
			Italic:        true,
			Strikethrough: true,
			Underline:     true,
			Code:          true,
			Equation:      true,
			Link:          true,
		},
	}
}

// RenderRichText renders spans as inline Markdown. Each span is wrapped in
// a fixed order: code, equation, bold, italic, strikethrough, underline,
// colour, link. The joined result is trimmed once.
func RenderRichText(spans []notion.RichText, opts Options) string {
	if len(spans) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, span := range spans {
		sb.WriteString(renderSpan(span, opts))
	}
	return strings.TrimSpace(sb.String())
}

func renderSpan(span notion.RichText, opts Options) string {
	enabled := opts.Annotations
	a := span.Annotations
	text := span.PlainText

	if a.Code && enabled.Code {
		text = InlineCode(text)
	}
	if span.Type == notion.RichTextEquation && enabled.Equation {
		text = InlineEquation(text)
	}
	if a.Bold && enabled.Bold {
		text = Bold(text)
	}
	if a.Italic && enabled.Italic {
		text = Italic(text)
	}
	if a.Strikethrough && enabled.Strikethrough {
		text = Strikethrough(text)
	}
	if a.Underline && enabled.Underline {
		text = Underline(text)
	}
	if !a.Color.IsDefault() && enabled.Color {
		text = Colorize(text, a.Color, opts.ColorMap)
	}
	if span.Href != "" && IsURL(span.Href) && enabled.Link {
		text = Link(text, span.Href)
	}

	return text
}
