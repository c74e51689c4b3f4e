package notion

// RichTextType is the kind of a rich text span
type RichTextType string

const (
	RichTextText     RichTextType = "text"
	RichTextMention  RichTextType = "mention"
	RichTextEquation RichTextType = "equation"
)

// Color is a Notion text or background colour name
type Color string

const (
	ColorDefault          Color = "default"
	ColorGray             Color = "gray"
	ColorBrown            Color = "brown"
	ColorOrange           Color = "orange"
	ColorYellow           Color = "yellow"
	ColorGreen            Color = "green"
	ColorBlue             Color = "blue"
	ColorPurple           Color = "purple"
	ColorPink             Color = "pink"
	ColorRed              Color = "red"
	ColorGrayBackground   Color = "gray_background"
	ColorBrownBackground  Color = "brown_background"
	ColorOrangeBackground Color = "orange_background"
	ColorYellowBackground Color = "yellow_background"
	ColorGreenBackground  Color = "green_background"
	ColorBlueBackground   Color = "blue_background"
	ColorPurpleBackground Color = "purple_background"
	ColorPinkBackground   Color = "pink_background"
	ColorRedBackground    Color = "red_background"
)

// IsDefault reports whether c means "no colour"
func (c Color) IsDefault() bool {
	return c == "" || c == ColorDefault
}

// Annotations is the formatting applied to a span
type Annotations struct {
	Bold          bool  `json:"bold"`
	Italic        bool  `json:"italic"`
	Strikethrough bool  `json:"strikethrough"`
	Underline     bool  `json:"underline"`
	Code          bool  `json:"code"`
	Color         Color `json:"color"`
}

// RichText is a run of text sharing one set of annotations and an optional
// link.
type RichText struct {
	Type        RichTextType `json:"type"`
	PlainText   string       `json:"plain_text"`
	Href        string       `json:"href"`
	Annotations Annotations  `json:"annotations"`
}

// Text builds a plain text span, mostly useful in tests and fixtures.
func Text(s string) RichText {
	return RichText{
		Type:        RichTextText,
		PlainText:   s,
		Annotations: Annotations{Color: ColorDefault},
	}
}
