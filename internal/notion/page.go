package notion

import (
	"encoding/json"
	"strings"
	"time"
)

// Page is a database row as returned by a database query
type Page struct {
	ID         string              `json:"id"`
	Properties map[string]Property `json:"properties"`
	Cover      *FileRef            `json:"-"`
}

// UnmarshalJSON decodes a page, flattening its cover into a FileRef
func (p *Page) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         string              `json:"id"`
		Properties map[string]Property `json:"properties"`
		Cover      *blockPayload       `json:"cover"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Page{ID: raw.ID, Properties: raw.Properties}
	if raw.Cover != nil {
		p.Cover = raw.Cover.fileRef()
	}
	if p.Properties == nil {
		p.Properties = map[string]Property{}
	}
	return nil
}

// Property is one typed page property value
type Property struct {
	Type           string     `json:"type"`
	Title          []RichText `json:"title"`
	RichText       []RichText `json:"rich_text"`
	Select         *option    `json:"select"`
	MultiSelect    []option   `json:"multi_select"`
	Date           *dateValue `json:"date"`
	Checkbox       bool       `json:"checkbox"`
	CreatedTime    string     `json:"created_time"`
	LastEditedTime string     `json:"last_edited_time"`
}

type option struct {
	Name string `json:"name"`
}

type dateValue struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AsPlainText reads title, rich_text, and select properties as text
func (p Property) AsPlainText() (string, bool) {
	switch p.Type {
	case "title":
		return PlainText(p.Title), true
	case "rich_text":
		return PlainText(p.RichText), true
	case "select":
		if p.Select == nil {
			return "", true
		}
		return p.Select.Name, true
	default:
		return "", false
	}
}

// AsTime reads date, created_time, and last_edited_time properties, falling
// back to parsing a text property.
func (p Property) AsTime() (time.Time, bool) {
	switch p.Type {
	case "date":
		if p.Date == nil || p.Date.Start == "" {
			return time.Time{}, false
		}
		return parseTime(p.Date.Start)
	case "created_time":
		return parseTime(p.CreatedTime)
	case "last_edited_time":
		return parseTime(p.LastEditedTime)
	default:
		text, ok := p.AsPlainText()
		if !ok {
			return time.Time{}, false
		}
		return parseTime(text)
	}
}

// AsStringList reads a multi_select property
func (p Property) AsStringList() ([]string, bool) {
	if p.Type != "multi_select" {
		return nil, false
	}
	items := make([]string, 0, len(p.MultiSelect))
	for _, o := range p.MultiSelect {
		items = append(items, o.Name)
	}
	return items, true
}

// AsBool reads a checkbox property
func (p Property) AsBool() (bool, bool) {
	if p.Type != "checkbox" {
		return false, false
	}
	return p.Checkbox, true
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// PropertyNames maps page metadata to the database's property names
type PropertyNames struct {
	Title             string `json:"title"`
	Type              string `json:"type"`
	PublishedAt       string `json:"published_at"`
	RequestPublishing string `json:"request_publishing"`
	CrawledAt         string `json:"crawled_at"`
	Tags              string `json:"tags"`
	Description       string `json:"description"`
	Slug              string `json:"slug"`
}

// DefaultPropertyNames returns the property names used when none are configured
func DefaultPropertyNames() PropertyNames {
	return PropertyNames{
		Title:             "Title",
		Type:              "Type",
		PublishedAt:       "PublishedAt",
		RequestPublishing: "RequestPublishing",
		CrawledAt:         "_SystemCrawledAt",
		Tags:              "Tags",
		Description:       "Description",
		Slug:              "Slug",
	}
}

// PageData is the metadata of a page needed to publish it
type PageData struct {
	PageID            string
	Title             string
	Type              string
	Slug              string
	Description       string
	Tags              []string
	PublishedAt       *time.Time
	LastCrawledAt     *time.Time
	RequestPublishing bool
	CoverURL          string
}

// ExtractPageData reads a page's properties using the given names.
// Properties with an unexpected type are ignored.
func ExtractPageData(page *Page, names PropertyNames) PageData {
	data := PageData{PageID: page.ID}

	for key, prop := range page.Properties {
		switch key {
		case names.PublishedAt:
			if t, ok := prop.AsTime(); ok {
				data.PublishedAt = &t
			}
		case names.CrawledAt:
			if t, ok := prop.AsTime(); ok {
				data.LastCrawledAt = &t
			}
		case names.Slug:
			if s, ok := prop.AsPlainText(); ok {
				data.Slug = s
			}
		case names.Title:
			if s, ok := prop.AsPlainText(); ok {
				data.Title = s
			}
		case names.Description:
			if s, ok := prop.AsPlainText(); ok {
				data.Description = s
			}
		case names.Tags:
			if tags, ok := prop.AsStringList(); ok {
				data.Tags = tags
			}
		case names.Type:
			if s, ok := prop.AsPlainText(); ok {
				data.Type = s
			}
		case names.RequestPublishing:
			if b, ok := prop.AsBool(); ok {
				data.RequestPublishing = b
			}
		}
	}

	if page.Cover != nil {
		data.CoverURL = page.Cover.URL
	}

	return data
}
