package markdown

import (
	"strings"

	"github.com/gerunddev/notion2md/internal/notion"
)

const (
	bulletIndent   = 2
	numberedIndent = 3
)

// rendererFor is the dispatch table. Every known block type has an arm,
// including the ones deliberately rendered as nothing; only tags unknown to
// the notion package fall through.
func rendererFor(t notion.BlockType) (Renderer, bool) {
	switch t {
	case notion.TypeParagraph:
		return renderParagraph, true
	case notion.TypeHeading1, notion.TypeHeading2, notion.TypeHeading3:
		return renderHeading, true
	case notion.TypeBulletedListItem:
		return renderBulletedListItem, true
	case notion.TypeNumberedListItem:
		return renderNumberedListItem, true
	case notion.TypeQuote, notion.TypeCallout:
		return renderQuote, true
	case notion.TypeToggle:
		return renderToggle, true
	case notion.TypeCode:
		return renderCode, true
	case notion.TypeImage:
		return renderImage, true
	case notion.TypeVideo:
		return renderVideo, true
	case notion.TypeFile, notion.TypePDF:
		return renderCaption, true
	case notion.TypeBookmark, notion.TypeEmbed:
		return renderBookmark, true
	case notion.TypeEquation:
		return renderEquation, true
	case notion.TypeDivider:
		return renderDivider, true
	case notion.TypeColumnList:
		return renderColumnList, true
	case notion.TypeToDo,
		notion.TypeTable,
		notion.TypeTableRow,
		notion.TypeTableOfContents,
		notion.TypeSyncedBlock,
		notion.TypeLinkPreview,
		notion.TypeBreadcrumb,
		notion.TypeColumn,
		notion.TypeChildPage,
		notion.TypeChildDatabase,
		notion.TypeUnsupported:
		return renderNothing, true
	}
	return nil, false
}

func renderNothing(*Context) string { return "" }

// appendChildren puts the rendered children on the line after text
func appendChildren(text, children string) string {
	if children == "" {
		return text
	}
	return text + "\n" + children
}

func renderParagraph(ctx *Context) string {
	return appendChildren(ctx.RichText(ctx.Block.RichText), ctx.Children())
}

// renderHeading ignores children; Notion only gives headings children when
// they are toggleable, and those have no Markdown equivalent.
func renderHeading(ctx *Context) string {
	level := 1
	switch ctx.Block.Type {
	case notion.TypeHeading2:
		level = 2
	case notion.TypeHeading3:
		level = 3
	}
	return Heading(ctx.RichText(ctx.Block.RichText), level)
}

func renderBulletedListItem(ctx *Context) string {
	text := indentContinuation(ctx.RichText(ctx.Block.RichText), bulletIndent)
	item := BulletList(text, BulletHyphen)

	children := ctx.Children()
	if children == "" {
		return item
	}
	return item + "\n" + Indent(children, bulletIndent)
}

// listNumber counts the numbered list items directly before the current
// block; the run ends at the first sibling of any other type.
func listNumber(ctx *Context) int {
	n := 1
	for i := ctx.Index - 1; i >= 0; i-- {
		b := ctx.Blocks[i]
		if b == nil || b.Type != notion.TypeNumberedListItem {
			break
		}
		n++
	}
	return n
}

func renderNumberedListItem(ctx *Context) string {
	text := indentContinuation(ctx.RichText(ctx.Block.RichText), numberedIndent)
	item := NumberedList(text, listNumber(ctx))

	children := ctx.Children()
	if children == "" {
		return item
	}
	return item + "\n" + Indent(children, numberedIndent)
}

// renderQuote serves both quotes and callouts. The quote marker is applied
// after the children are attached so nested content stays inside the quote.
func renderQuote(ctx *Context) string {
	return Blockquote(appendChildren(ctx.RichText(ctx.Block.RichText), ctx.Children()))
}

func renderToggle(ctx *Context) string {
	return Details(ctx.RichText(ctx.Block.RichText), ctx.Children())
}

// codeLanguages translates Notion language names that differ from the fence
// tags Markdown highlighters expect.
var codeLanguages = map[string]string{
	"c#": "csharp",
}

func codeLanguage(lang string) string {
	if mapped, ok := codeLanguages[lang]; ok {
		return mapped
	}
	return lang
}

// renderCode hands code blocks that carry only an expression to the
// equation renderer.
func renderCode(ctx *Context) string {
	if len(ctx.Block.RichText) == 0 && ctx.Block.Expression != "" {
		return renderEquation(ctx)
	}
	return CodeBlock(ctx.RichText(ctx.Block.RichText), codeLanguage(ctx.Block.Language))
}

func renderImage(ctx *Context) string {
	src := ctx.Block.FileURL()
	if src == "" {
		return ""
	}

	if resolve := ctx.Options().ResolveImage; resolve != nil {
		src = resolve(src)
		if src == "" {
			return ""
		}
	}

	return Image(ctx.RichText(ctx.Block.Caption), src)
}

func renderVideo(ctx *Context) string {
	src := ctx.Block.FileURL()
	if src == "" {
		return ""
	}
	return Video(src)
}

func renderCaption(ctx *Context) string {
	return ctx.RichText(ctx.Block.Caption)
}

// renderBookmark serves bookmarks and embeds; the caption is the link text
// and the URL stands in when there is no caption.
func renderBookmark(ctx *Context) string {
	href := ctx.Block.URL
	if href == "" {
		return ""
	}

	text := ctx.RichText(ctx.Block.Caption)
	if text == "" {
		text = href
	}
	return Link(text, href)
}

func renderEquation(ctx *Context) string {
	if ctx.Block.Type == notion.TypeCode {
		return CodeBlock(ctx.Block.Expression, "txt")
	}
	return BlockEquation(ctx.Block.Expression)
}

func renderDivider(*Context) string {
	return HorizontalRule()
}

// renderColumnList renders each column on its own and stacks the results;
// Markdown has no columns.
func renderColumnList(ctx *Context) string {
	columns := make([]string, 0, len(ctx.Block.Children))
	for _, column := range ctx.Block.Children {
		if column == nil {
			continue
		}
		columns = append(columns, ctx.Render(column.Children))
	}
	return strings.Join(columns, "\n")
}
