package markdown

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gerunddev/notion2md/internal/notion"
)

// BulletStyle is the marker character of a bulleted list item
type BulletStyle byte

const (
	BulletHyphen   BulletStyle = '-'
	BulletAsterisk BulletStyle = '*'
	BulletPlus     BulletStyle = '+'
)

// Heading renders an ATX heading. Levels outside 1-6 are clamped.
func Heading(text string, level int) string {
	level = max(1, min(level, 6))
	return strings.Repeat("#", level) + " " + text
}

// decorate wraps the non-blank core of text in marker, leaving surrounding
// whitespace outside so "**bold **" never happens.
func decorate(text, marker string) string {
	core := strings.TrimSpace(text)
	if core == "" {
		return text
	}
	start := strings.Index(text, core)
	return text[:start] + marker + core + marker + text[start+len(core):]
}

// Bold wraps text in **
func Bold(text string) string { return decorate(text, "**") }

// Italic wraps text in *
func Italic(text string) string { return decorate(text, "*") }

// Strikethrough wraps text in ~~
func Strikethrough(text string) string { return decorate(text, "~~") }

// InlineCode wraps text in backticks
func InlineCode(text string) string { return "`" + text + "`" }

// InlineEquation wraps text in single dollar signs
func InlineEquation(text string) string { return "$" + text + "$" }

// Underline wraps text in underscores
func Underline(text string) string { return "_" + text + "_" }

// Link renders an inline link
func Link(text, href string) string {
	return fmt.Sprintf("[%s](%s)", text, href)
}

// Image renders an inline image
func Image(alt, src string) string {
	return fmt.Sprintf("![%s](%s)", alt, src)
}

// BulletList prefixes text with a bullet marker
func BulletList(text string, style BulletStyle) string {
	return string(style) + " " + text
}

// NumberedList prefixes text with "n. "
func NumberedList(text string, number int) string {
	return fmt.Sprintf("%d. %s", number, text)
}

// CheckList renders a task list item
func CheckList(text string, checked bool) string {
	mark := " "
	if checked {
		mark = "x"
	}
	return fmt.Sprintf("- [%s] %s", mark, text)
}

// CodeBlock renders a fenced code block
func CodeBlock(code, language string) string {
	return "```" + language + "\n" + code + "\n```"
}

// BlockEquation renders display math
func BlockEquation(expr string) string {
	return "$$\n" + expr + "\n$$"
}

// Blockquote prefixes every line of text with "> "
func Blockquote(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = "> " + line
	}
	return strings.Join(lines, "\n")
}

// HorizontalRule renders a thematic break
func HorizontalRule() string { return "---" }

// Indent prefixes every non-empty line of text with spaces
func Indent(text string, spaces int) string {
	pad := strings.Repeat(" ", spaces)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}

// indentContinuation indents every line after the first, for list items
// whose text wraps onto several lines.
func indentContinuation(text string, spaces int) string {
	first, rest, ok := strings.Cut(text, "\n")
	if !ok {
		return text
	}
	return first + "\n" + Indent(rest, spaces)
}

// Details renders a collapsible HTML section
func Details(summary, body string) string {
	return strings.Join([]string{
		"<details>",
		"<summary>",
		summary,
		"</summary>",
		"",
		body,
		"</details>",
	}, "\n")
}

// Video renders an HTML5 video element
func Video(src string) string {
	return fmt.Sprintf(`<video controls src="%s"></video>`, src)
}

// Comment renders an HTML comment
func Comment(text string) string {
	return "<!-- " + text + " -->"
}

// IsURL reports whether s is an absolute http or https URL
func IsURL(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// ColorMap maps Notion colours to CSS hex values
type ColorMap map[notion.Color]string

// DefaultColorMap is the palette used when colour rendering is enabled and no
// custom map is configured.
var DefaultColorMap = ColorMap{
	notion.ColorRed:              "#A83232",
	notion.ColorRedBackground:    "#E8CCCC",
	notion.ColorOrange:           "#C17F46",
	notion.ColorOrangeBackground: "#E8D5C2",
	notion.ColorYellow:           "#9B8D27",
	notion.ColorYellowBackground: "#E6E6C8",
	notion.ColorBrown:            "#8B6C55",
	notion.ColorBrownBackground:  "#E0D5CC",
	notion.ColorGreen:            "#4E7548",
	notion.ColorGreenBackground:  "#D5E0D1",
	notion.ColorBlue:             "#3A6B9F",
	notion.ColorBlueBackground:   "#D0DEF0",
	notion.ColorPurple:           "#6B5B95",
	notion.ColorPurpleBackground: "#D8D3E6",
	notion.ColorPink:             "#B5787D",
	notion.ColorPinkBackground:   "#E8D5D8",
	notion.ColorGray:             "#777777",
	notion.ColorGrayBackground:   "#D0D0D0",
}

func isBackground(c notion.Color) bool {
	return strings.HasSuffix(string(c), "_background")
}

// Colorize wraps text in a span styled with the colour's hex value. Blank
// text, the default colour, and colours missing from the map are returned
// unchanged.
func Colorize(text string, color notion.Color, colors ColorMap) string {
	if strings.TrimSpace(text) == "" || color.IsDefault() {
		return text
	}
	if colors == nil {
		colors = DefaultColorMap
	}

	hex := colors[color]
	if hex == "" {
		return text
	}

	prop := "color"
	if isBackground(color) {
		prop = "background-color"
	}
	return fmt.Sprintf(`<span style="%s: %s;">%s</span>`, prop, hex, text)
}
