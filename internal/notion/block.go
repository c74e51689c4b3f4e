package notion

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BlockType is the variant tag of a block as reported by the API
type BlockType string

const (
	TypeParagraph        BlockType = "paragraph"
	TypeHeading1         BlockType = "heading_1"
	TypeHeading2         BlockType = "heading_2"
	TypeHeading3         BlockType = "heading_3"
	TypeBulletedListItem BlockType = "bulleted_list_item"
	TypeNumberedListItem BlockType = "numbered_list_item"
	TypeToDo             BlockType = "to_do"
	TypeToggle           BlockType = "toggle"
	TypeQuote            BlockType = "quote"
	TypeCallout          BlockType = "callout"
	TypeCode             BlockType = "code"
	TypeImage            BlockType = "image"
	TypeVideo            BlockType = "video"
	TypeFile             BlockType = "file"
	TypePDF              BlockType = "pdf"
	TypeBookmark         BlockType = "bookmark"
	TypeEmbed            BlockType = "embed"
	TypeEquation         BlockType = "equation"
	TypeDivider          BlockType = "divider"
	TypeColumnList       BlockType = "column_list"
	TypeColumn           BlockType = "column"
	TypeTable            BlockType = "table"
	TypeTableRow         BlockType = "table_row"
	TypeTableOfContents  BlockType = "table_of_contents"
	TypeSyncedBlock      BlockType = "synced_block"
	TypeLinkPreview      BlockType = "link_preview"
	TypeBreadcrumb       BlockType = "breadcrumb"
	TypeChildPage        BlockType = "child_page"
	TypeChildDatabase    BlockType = "child_database"
	TypeUnsupported      BlockType = "unsupported"
)

// AllBlockTypes lists every block type this package knows about.
var AllBlockTypes = []BlockType{
	TypeParagraph,
	TypeHeading1,
	TypeHeading2,
	TypeHeading3,
	TypeBulletedListItem,
	TypeNumberedListItem,
	TypeToDo,
	TypeToggle,
	TypeQuote,
	TypeCallout,
	TypeCode,
	TypeImage,
	TypeVideo,
	TypeFile,
	TypePDF,
	TypeBookmark,
	TypeEmbed,
	TypeEquation,
	TypeDivider,
	TypeColumnList,
	TypeColumn,
	TypeTable,
	TypeTableRow,
	TypeTableOfContents,
	TypeSyncedBlock,
	TypeLinkPreview,
	TypeBreadcrumb,
	TypeChildPage,
	TypeChildDatabase,
	TypeUnsupported,
}

// FileKind distinguishes externally hosted files from files hosted by Notion
type FileKind string

const (
	FileExternal FileKind = "external"
	FileHosted   FileKind = "file"
)

// FileRef points at an image, video, or attachment
type FileRef struct {
	Kind FileKind
	URL  string
}

// Block is one node of a page's content tree
type Block struct {
	ID          string
	Type        BlockType
	HasChildren bool
	Children    []*Block

	RichText   []RichText
	Caption    []RichText
	URL        string
	Language   string
	Expression string
	File       *FileRef
	Checked    bool
	Color      Color
}

// FileURL returns the URL of the block's file reference, or "" if none
// is present.
func (b *Block) FileURL() string {
	if b == nil || b.File == nil {
		return ""
	}
	switch b.File.Kind {
	case FileExternal, FileHosted:
		return b.File.URL
	default:
		return ""
	}
}

// blockPayload covers the fields shared by the variant objects the API nests
// under the block's type key.
type blockPayload struct {
	RichText   []RichText `json:"rich_text"`
	Caption    []RichText `json:"caption"`
	URL        string     `json:"url"`
	Language   string     `json:"language"`
	Expression string     `json:"expression"`
	Checked    bool       `json:"checked"`
	Color      Color      `json:"color"`
	Type       string     `json:"type"`
	External   *urlObject `json:"external"`
	File       *urlObject `json:"file"`
}

type urlObject struct {
	URL string `json:"url"`
}

func (p *blockPayload) fileRef() *FileRef {
	switch FileKind(p.Type) {
	case FileExternal:
		if p.External != nil {
			return &FileRef{Kind: FileExternal, URL: p.External.URL}
		}
	case FileHosted:
		if p.File != nil {
			return &FileRef{Kind: FileHosted, URL: p.File.URL}
		}
	}
	return nil
}

// UnmarshalJSON decodes the API representation of a block. Children are not
// part of the payload; the fetcher attaches them.
func (b *Block) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var head struct {
		ID          string    `json:"id"`
		Type        BlockType `json:"type"`
		HasChildren bool      `json:"has_children"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	if head.Type == "" {
		return fmt.Errorf("block %s has no type", head.ID)
	}

	*b = Block{
		ID:          head.ID,
		Type:        head.Type,
		HasChildren: head.HasChildren,
	}

	body, ok := raw[string(head.Type)]
	if !ok || len(body) == 0 || string(body) == "null" {
		return nil
	}

	var p blockPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return fmt.Errorf("failed to decode %s payload of block %s: %w", head.Type, head.ID, err)
	}

	b.RichText = p.RichText
	b.Caption = p.Caption
	b.URL = p.URL
	b.Language = p.Language
	b.Expression = p.Expression
	b.Checked = p.Checked
	b.Color = p.Color
	b.File = p.fileRef()

	return nil
}

// PlainText concatenates the plain text of the spans
func PlainText(spans []RichText) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.PlainText)
	}
	return sb.String()
}
