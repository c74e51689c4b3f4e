package markdown

import (
	"strings"
	"sync"

	"github.com/gerunddev/notion2md/internal/notion"
)

// Renderer turns the block in ctx into Markdown. Renderers are pure: the
// output depends only on ctx.
type Renderer func(ctx *Context) string

// Context is what a renderer sees: the current block, its siblings, and a
// way to render child sequences. A Context is built for one block and not
// changed afterwards.
type Context struct {
	// Blocks is the full sibling sequence the current block belongs to
	Blocks []*notion.Block
	// Index is the position of Block within Blocks
	Index int
	Block *notion.Block

	walker   *Walker
	children func() string
}

func newContext(w *Walker, blocks []*notion.Block, index int) *Context {
	ctx := &Context{
		Blocks: blocks,
		Index:  index,
		Block:  blocks[index],
		walker: w,
	}
	ctx.children = sync.OnceValue(func() string {
		return w.RenderBlocks(ctx.Block.Children)
	})
	return ctx
}

// Children renders the current block's children. The result is computed on
// first use and reused afterwards.
func (c *Context) Children() string {
	if len(c.Block.Children) == 0 {
		return ""
	}
	return c.children()
}

// Render renders an arbitrary child sequence, e.g. the content of a column
func (c *Context) Render(blocks []*notion.Block) string {
	return c.walker.RenderBlocks(blocks)
}

// RichText renders spans with the walker's options
func (c *Context) RichText(spans []notion.RichText) string {
	return RenderRichText(spans, c.walker.opts)
}

// Options returns the options the walker was created with
func (c *Context) Options() Options {
	return c.walker.opts
}

// Walker renders block trees depth-first
type Walker struct {
	opts Options
}

// NewWalker creates a walker with the given options
func NewWalker(opts Options) *Walker {
	return &Walker{opts: opts}
}

// RenderBlocks renders a sibling sequence: every block is dispatched to its
// renderer, empty results are dropped, and the rest are joined by newlines.
func (w *Walker) RenderBlocks(blocks []*notion.Block) string {
	out := make([]string, 0, len(blocks))
	for i, b := range blocks {
		if b == nil {
			continue
		}

		var text string
		if render, ok := rendererFor(b.Type); ok {
			text = render(newContext(w, blocks, i))
		} else if w.opts.UnsupportedComments {
			text = Comment("unsupported block: " + string(b.Type))
		}

		if text != "" {
			out = append(out, text)
		}
	}
	return strings.Join(out, "\n")
}

// RenderTree renders the children of root, the usual entry point for a page
// fetched as a tree.
func (w *Walker) RenderTree(root *notion.Block) string {
	if root == nil {
		return ""
	}
	return w.RenderBlocks(root.Children)
}

// Document joins a front matter header and a rendered body
func Document(header, body string) string {
	if body == "" {
		return header
	}
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	return header + body
}
