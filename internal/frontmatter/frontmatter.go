package frontmatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/gerunddev/notion2md/internal/notion"
)

// Delimiter opens and closes the header block
const Delimiter = "---"

// DateLayout is the layout of the date field, a sortable local timestamp
const DateLayout = "2006-01-02T15:04:05"

// FieldNames are the keys written to the header
type FieldNames struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
	Date        string `json:"date"`
	Eyecatch    string `json:"eyecatch"`
}

// DefaultFieldNames returns the field names used when none are configured
func DefaultFieldNames() FieldNames {
	return FieldNames{
		Type:        "type",
		Title:       "title",
		Description: "description",
		Tags:        "tags",
		Date:        "date",
		Eyecatch:    "eyecatch",
	}
}

// WithDefaults fills empty names from DefaultFieldNames
func (f FieldNames) WithDefaults() FieldNames {
	d := DefaultFieldNames()
	if f.Type == "" {
		f.Type = d.Type
	}
	if f.Title == "" {
		f.Title = d.Title
	}
	if f.Description == "" {
		f.Description = d.Description
	}
	if f.Tags == "" {
		f.Tags = d.Tags
	}
	if f.Date == "" {
		f.Date = d.Date
	}
	if f.Eyecatch == "" {
		f.Eyecatch = d.Eyecatch
	}
	return f
}

func quoted(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Style: yaml.DoubleQuotedStyle, Value: value}
}

func key(name string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}
}

// Generate builds the header for a page. Optional fields are left out when
// they carry no value; the title is always present. eyecatch is the local
// path of the downloaded cover image, or "" when there is none.
func Generate(data notion.PageData, eyecatch string, names FieldNames) (string, error) {
	names = names.WithDefaults()
	m := &yaml.Node{Kind: yaml.MappingNode}
	add := func(name string, value *yaml.Node) {
		m.Content = append(m.Content, key(name), value)
	}

	if strings.TrimSpace(data.Type) != "" {
		add(names.Type, quoted(data.Type))
	}
	add(names.Title, quoted(data.Title))
	if strings.TrimSpace(data.Description) != "" {
		add(names.Description, quoted(data.Description))
	}
	if len(data.Tags) > 0 {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, tag := range data.Tags {
			seq.Content = append(seq.Content, quoted(tag))
		}
		add(names.Tags, seq)
	}
	if data.PublishedAt != nil {
		add(names.Date, quoted(data.PublishedAt.Format(DateLayout)))
	}
	if eyecatch != "" {
		add(names.Eyecatch, quoted(eyecatch))
	}

	out, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode front matter: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(Delimiter + "\n")
	sb.Write(out)
	sb.WriteString(Delimiter + "\n\n")
	return sb.String(), nil
}

// Parse splits a Markdown document into its header fields and body. A
// document without a header yields empty metadata and the whole input as
// the body.
func Parse(doc []byte) (map[string]any, []byte, error) {
	meta := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(doc), &meta)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse front matter: %w", err)
	}
	return meta, body, nil
}

// Body returns the document without its header
func Body(doc []byte) ([]byte, error) {
	_, body, err := Parse(doc)
	return body, err
}
