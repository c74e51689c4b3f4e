package markdown

import (
	"strings"
	"testing"

	"github.com/gerunddev/notion2md/internal/notion"
)

func text(s string) []notion.RichText {
	return []notion.RichText{notion.Text(s)}
}

func para(s string, children ...*notion.Block) *notion.Block {
	return &notion.Block{Type: notion.TypeParagraph, RichText: text(s), HasChildren: len(children) > 0, Children: children}
}

func bullet(s string, children ...*notion.Block) *notion.Block {
	return &notion.Block{Type: notion.TypeBulletedListItem, RichText: text(s), HasChildren: len(children) > 0, Children: children}
}

func numbered(s string, children ...*notion.Block) *notion.Block {
	return &notion.Block{Type: notion.TypeNumberedListItem, RichText: text(s), HasChildren: len(children) > 0, Children: children}
}

func render(blocks ...*notion.Block) string {
	return NewWalker(DefaultOptions()).RenderBlocks(blocks)
}

func TestRenderBlocks(t *testing.T) {
	tests := []struct {
		name     string
		blocks   []*notion.Block
		expected string
	}{
		{
			name:     "paragraph without children",
			blocks:   []*notion.Block{para("hello")},
			expected: "hello",
		},
		{
			name:     "paragraph with children",
			blocks:   []*notion.Block{para("parent", para("child"))},
			expected: "parent\nchild",
		},
		{
			name:     "heading 2",
			blocks:   []*notion.Block{{Type: notion.TypeHeading2, RichText: text("Title")}},
			expected: "## Title",
		},
		{
			name: "heading ignores children",
			blocks: []*notion.Block{{
				Type: notion.TypeHeading1, RichText: text("H"), HasChildren: true,
				Children: []*notion.Block{para("hidden")},
			}},
			expected: "# H",
		},
		{
			name:     "heading 3",
			blocks:   []*notion.Block{{Type: notion.TypeHeading3, RichText: text("Sub")}},
			expected: "### Sub",
		},
		{
			name:     "bullet with child paragraph",
			blocks:   []*notion.Block{bullet("a", para("b"))},
			expected: "- a\n  b",
		},
		{
			name:     "bullet with multi-line text",
			blocks:   []*notion.Block{bullet("line1\nline2")},
			expected: "- line1\n  line2",
		},
		{
			name:     "nested bullets",
			blocks:   []*notion.Block{bullet("a", bullet("b", bullet("c")))},
			expected: "- a\n  - b\n    - c",
		},
		{
			name:     "numbered with children",
			blocks:   []*notion.Block{numbered("one", para("detail")), numbered("two")},
			expected: "1. one\n   detail\n2. two",
		},
		{
			name:     "numbered multi-line text",
			blocks:   []*notion.Block{numbered("a\nb")},
			expected: "1. a\n   b",
		},
		{
			name:     "quote with children",
			blocks:   []*notion.Block{{Type: notion.TypeQuote, RichText: text("q"), HasChildren: true, Children: []*notion.Block{para("c1"), para("c2")}}},
			expected: "> q\n> c1\n> c2",
		},
		{
			name:     "callout",
			blocks:   []*notion.Block{{Type: notion.TypeCallout, RichText: text("note\nmore")}},
			expected: "> note\n> more",
		},
		{
			name:     "toggle",
			blocks:   []*notion.Block{{Type: notion.TypeToggle, RichText: text("More"), HasChildren: true, Children: []*notion.Block{para("hidden")}}},
			expected: "<details>\n<summary>\nMore\n</summary>\n\nhidden\n</details>",
		},
		{
			name:     "code c#",
			blocks:   []*notion.Block{{Type: notion.TypeCode, RichText: text("x"), Language: "c#"}},
			expected: "```csharp\nx\n```",
		},
		{
			name:     "code other language",
			blocks:   []*notion.Block{{Type: notion.TypeCode, RichText: text("fmt.Println()"), Language: "go"}},
			expected: "```go\nfmt.Println()\n```",
		},
		{
			name:     "image without url",
			blocks:   []*notion.Block{{Type: notion.TypeImage}},
			expected: "",
		},
		{
			name: "image with caption",
			blocks: []*notion.Block{{
				Type: notion.TypeImage, Caption: text("cat"),
				File: &notion.FileRef{Kind: notion.FileExternal, URL: "https://x/cat.png"},
			}},
			expected: "![cat](https://x/cat.png)",
		},
		{
			name:     "bookmark with caption",
			blocks:   []*notion.Block{{Type: notion.TypeBookmark, URL: "https://go.dev", Caption: text("Go")}},
			expected: "[Go](https://go.dev)",
		},
		{
			name:     "bookmark falls back to url",
			blocks:   []*notion.Block{{Type: notion.TypeBookmark, URL: "https://go.dev"}},
			expected: "[https://go.dev](https://go.dev)",
		},
		{
			name:     "bookmark without url",
			blocks:   []*notion.Block{{Type: notion.TypeBookmark, Caption: text("orphan")}},
			expected: "",
		},
		{
			name:     "embed falls back to url",
			blocks:   []*notion.Block{{Type: notion.TypeEmbed, URL: "https://example.com/e"}},
			expected: "[https://example.com/e](https://example.com/e)",
		},
		{
			name:     "equation",
			blocks:   []*notion.Block{{Type: notion.TypeEquation, Expression: "e=mc^2"}},
			expected: "$$\ne=mc^2\n$$",
		},
		{
			name:     "divider",
			blocks:   []*notion.Block{{Type: notion.TypeDivider}},
			expected: "---",
		},
		{
			name: "column list stacks columns",
			blocks: []*notion.Block{{
				Type: notion.TypeColumnList, HasChildren: true,
				Children: []*notion.Block{
					{Type: notion.TypeColumn, HasChildren: true, Children: []*notion.Block{para("left"), para("left2")}},
					{Type: notion.TypeColumn, HasChildren: true, Children: []*notion.Block{para("right")}},
				},
			}},
			expected: "left\nleft2\nright",
		},
		{
			name:     "video",
			blocks:   []*notion.Block{{Type: notion.TypeVideo, File: &notion.FileRef{Kind: notion.FileExternal, URL: "https://v/x.mp4"}}},
			expected: `<video controls src="https://v/x.mp4"></video>`,
		},
		{
			name:     "file renders caption",
			blocks:   []*notion.Block{{Type: notion.TypeFile, Caption: text("report.pdf")}},
			expected: "report.pdf",
		},
		{
			name:     "to-do renders nothing",
			blocks:   []*notion.Block{{Type: notion.TypeToDo, RichText: text("task")}},
			expected: "",
		},
		{
			name: "empty results are dropped from the join",
			blocks: []*notion.Block{
				para("a"),
				{Type: notion.TypeTable},
				{Type: notion.TypeImage},
				para("b"),
			},
			expected: "a\nb",
		},
		{
			name:     "unknown type is silent by default",
			blocks:   []*notion.Block{para("a"), {Type: notion.BlockType("ai_block")}, para("b")},
			expected: "a\nb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if actual := render(tt.blocks...); actual != tt.expected {
				t.Errorf("RenderBlocks() = %q, want %q", actual, tt.expected)
			}
		})
	}
}

func TestNumberedListNumbering(t *testing.T) {
	blocks := []*notion.Block{
		para("intro"),
		numbered("a"),
		numbered("b"),
		numbered("c"),
		para("break"),
		numbered("x"),
		numbered("y"),
	}

	expected := strings.Join([]string{
		"intro",
		"1. a",
		"2. b",
		"3. c",
		"break",
		"1. x",
		"2. y",
	}, "\n")

	if actual := render(blocks...); actual != expected {
		t.Errorf("numbering mismatch:\n%s\nwant:\n%s", actual, expected)
	}
}

func TestNumberedListRestartsInChildren(t *testing.T) {
	blocks := []*notion.Block{
		numbered("a", numbered("a1"), numbered("a2")),
		numbered("b"),
	}

	expected := "1. a\n   1. a1\n   2. a2\n2. b"
	if actual := render(blocks...); actual != expected {
		t.Errorf("RenderBlocks() = %q, want %q", actual, expected)
	}
}

func TestNumberedListAfterEmptyRender(t *testing.T) {
	// a block that renders to nothing still breaks the run
	blocks := []*notion.Block{
		numbered("a"),
		{Type: notion.TypeTableOfContents},
		numbered("b"),
	}

	if actual := render(blocks...); actual != "1. a\n1. b" {
		t.Errorf("RenderBlocks() = %q", actual)
	}
}

func TestImageResolver(t *testing.T) {
	img := &notion.Block{
		Type:    notion.TypeImage,
		Caption: text("diagram"),
		File:    &notion.FileRef{Kind: notion.FileHosted, URL: "https://s3/x.png?sig=1"},
	}

	opts := DefaultOptions()
	opts.ResolveImage = func(u string) string {
		if u == "https://s3/x.png?sig=1" {
			return "./ABC.png"
		}
		return ""
	}
	if actual := NewWalker(opts).RenderBlocks([]*notion.Block{img}); actual != "![diagram](./ABC.png)" {
		t.Errorf("resolved image = %q", actual)
	}

	opts.ResolveImage = func(string) string { return "" }
	if actual := NewWalker(opts).RenderBlocks([]*notion.Block{img}); actual != "" {
		t.Errorf("failed download should drop the image, got %q", actual)
	}
}

func TestUnsupportedComments(t *testing.T) {
	opts := DefaultOptions()
	opts.UnsupportedComments = true

	actual := NewWalker(opts).RenderBlocks([]*notion.Block{{Type: notion.BlockType("ai_block")}})
	if actual != "<!-- unsupported block: ai_block -->" {
		t.Errorf("RenderBlocks() = %q", actual)
	}
}

func TestCodeBlockWithExpression(t *testing.T) {
	tests := []struct {
		name     string
		block    *notion.Block
		expected string
	}{
		{
			name:     "expression only renders a txt fence",
			block:    &notion.Block{Type: notion.TypeCode, Expression: "a+b"},
			expected: "```txt\na+b\n```",
		},
		{
			name:     "rich text wins over expression",
			block:    &notion.Block{Type: notion.TypeCode, RichText: text("x"), Language: "go", Expression: "a+b"},
			expected: "```go\nx\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if actual := render(tt.block); actual != tt.expected {
				t.Errorf("RenderBlocks() = %q, want %q", actual, tt.expected)
			}
		})
	}
}

func TestEveryKnownTypeHasRenderer(t *testing.T) {
	for _, bt := range notion.AllBlockTypes {
		if _, ok := rendererFor(bt); !ok {
			t.Errorf("block type %q has no renderer", bt)
		}
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	tree := &notion.Block{
		HasChildren: true,
		Children: []*notion.Block{
			{Type: notion.TypeHeading1, RichText: text("Doc")},
			para("intro", bullet("x")),
			numbered("a", numbered("a1")),
			numbered("b"),
			{Type: notion.TypeQuote, RichText: text("q"), Children: []*notion.Block{bullet("in quote")}},
			{Type: notion.TypeToggle, RichText: text("t"), Children: []*notion.Block{para("body")}},
		},
	}

	w := NewWalker(DefaultOptions())
	first := w.RenderTree(tree)
	for i := 0; i < 5; i++ {
		if again := w.RenderTree(tree); again != first {
			t.Fatalf("render %d differs:\n%q\n%q", i, again, first)
		}
	}
}

func TestContextChildren(t *testing.T) {
	w := NewWalker(DefaultOptions())
	ctx := newContext(w, []*notion.Block{para("p", para("c"), bullet("d"))}, 0)

	first := ctx.Children()
	if first != "c\n- d" {
		t.Fatalf("Children() = %q", first)
	}
	if second := ctx.Children(); second != first {
		t.Errorf("second Children() = %q, want %q", second, first)
	}

	if leaf := newContext(w, []*notion.Block{para("leaf")}, 0); leaf.Children() != "" {
		t.Errorf("leaf Children() = %q", leaf.Children())
	}
}
