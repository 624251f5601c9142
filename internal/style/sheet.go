package style

import "sort"

// Tag names a style in the sheet.
type Tag string

const (
	Title      Tag = "title"
	Subtitle   Tag = "subtitle"
	Banner     Tag = "banner"
	Heading    Tag = "heading"
	Subheading Tag = "subheading"
	Body       Tag = "body"
	Bullet     Tag = "bullet"
	Source     Tag = "source"
	Disclaimer Tag = "disclaimer"
	Notice     Tag = "notice"

	// Callouts are body paragraphs drawn inside a tinted, bordered box.
	CalloutPositive Tag = "callout_positive"
	CalloutWarning  Tag = "callout_warning"

	// Cell tags override the table text or background of a single cell
	// or row.
	Positive Tag = "positive"
	Warning  Tag = "warning"
	Loss     Tag = "loss"
	Emphasis Tag = "emphasis"
	Bull     Tag = "bull"
	Base     Tag = "base"
	Bear     Tag = "bear"
	Total    Tag = "total"

	// Caution switches a verdict box to the amber hold palette.
	Caution Tag = "caution"
)

// Align is horizontal text alignment.
type Align string

const (
	Left    Align = "left"
	Center  Align = "center"
	Right   Align = "right"
	Justify Align = "justify"
)

// Attr holds the visual attributes of one style. Sizes are in points.
type Attr struct {
	Size        float64
	Leading     float64
	Color       Color
	Align       Align
	Bold        bool
	Italic      bool
	Background  *Color
	Border      *Color
	BorderWidth float64
	Padding     float64
	LeftIndent  float64
	SpaceBefore float64
	SpaceAfter  float64
}

// LineHeight returns the leading, defaulting to 1.2 × size.
func (a Attr) LineHeight() float64 {
	if a.Leading > 0 {
		return a.Leading
	}
	return a.Size * 1.2
}

// TableStyle holds table decoration.
type TableStyle struct {
	FontSize      float64
	Padding       float64
	Header        Color
	HeaderText    Color
	Grid          Color
	GridWidth     float64
	Zebra         [2]Color
	Metrics       Color
	MetricsText   Color
	Verdict       Color
	VerdictAlt    Color
	VerdictBorder Color
	VerdictTitle  Color
	// Caution* replace the verdict colors for hold calls.
	Caution       Color
	CautionAlt    Color
	CautionBorder Color
	CautionText   Color
}

// Sheet maps style tags to attributes. Build it with Default; a Sheet is
// read-only after construction and safe to share between reports.
type Sheet struct {
	Palette Palette
	Table   TableStyle
	// CellText and CellFill hold per-cell overrides by tag.
	CellText map[Tag]Color
	CellFill map[Tag]Color
	styles   map[Tag]Attr
}

func ptr(c Color) *Color { return &c }

// Default builds the report style sheet.
func Default() Sheet {
	p := DefaultPalette()

	body := Attr{Size: 9, Leading: 13, Color: p.Text, Align: Justify, SpaceAfter: 6}
	callout := func(bg, border Color) Attr {
		a := body
		a.Background = ptr(bg)
		a.Border = ptr(border)
		a.BorderWidth = 1
		a.Padding = 8
		a.LeftIndent = 10
		a.SpaceBefore = 4
		a.SpaceAfter = 12
		return a
	}

	bullet := body
	bullet.LeftIndent = 15
	bullet.SpaceAfter = 3

	return Sheet{
		Palette: p,
		Table: TableStyle{
			FontSize:      8,
			Padding:       4,
			Header:        p.Primary,
			HeaderText:    p.White,
			Grid:          p.Grid,
			GridWidth:     0.5,
			Zebra:         [2]Color{p.White, p.LightBg},
			Metrics:       MustHex("#edf2f7"),
			MetricsText:   p.Primary,
			Verdict:       MustHex("#e6f3e6"),
			VerdictAlt:    MustHex("#f0f7f0"),
			VerdictBorder: p.Green,
			VerdictTitle:  MustHex("#1a6b31"),
			Caution:       MustHex("#fff3cd"),
			CautionAlt:    MustHex("#fff8e1"),
			CautionBorder: MustHex("#ffc107"),
			CautionText:   MustHex("#856404"),
		},
		CellText: map[Tag]Color{
			Positive: p.Green,
			Warning:  p.Highlight,
			Loss:     p.Highlight,
		},
		CellFill: map[Tag]Color{
			Bull:  MustHex("#f0fff4"),
			Base:  MustHex("#fffff0"),
			Bear:  MustHex("#fff5f5"),
			Total: MustHex("#edf2f7"),
		},
		styles: map[Tag]Attr{
			Title:           {Size: 20, Color: p.Primary, Align: Center, Bold: true, SpaceAfter: 6},
			Subtitle:        {Size: 11, Color: p.Subtle, Align: Center, SpaceAfter: 12},
			Banner:          {Size: 16, Color: p.Accent, Align: Center, SpaceAfter: 12},
			Heading:         {Size: 14, Color: p.Primary, Align: Left, Bold: true, SpaceBefore: 16, SpaceAfter: 8},
			Subheading:      {Size: 11, Color: p.Accent, Align: Left, Bold: true, SpaceBefore: 10, SpaceAfter: 4},
			Body:            body,
			Bullet:          bullet,
			Source:          {Size: 7, Color: p.Source, Align: Left, SpaceAfter: 4},
			Disclaimer:      {Size: 7, Color: p.Faint, Align: Center, SpaceBefore: 8, SpaceAfter: 4},
			Notice:          {Size: 10, Leading: 13, Color: p.Orange, Align: Center, SpaceAfter: 6},
			CalloutPositive: callout(MustHex("#f0fff4"), p.Green),
			CalloutWarning:  callout(MustHex("#fff5f5"), p.Highlight),
		},
	}
}

// Style returns the attributes for tag. Unknown tags fall back to Body;
// use Has to validate tags coming from data files.
func (s Sheet) Style(tag Tag) Attr {
	if a, ok := s.styles[tag]; ok {
		return a
	}
	return s.styles[Body]
}

// Has reports whether tag is a paragraph style in the sheet.
func (s Sheet) Has(tag Tag) bool {
	_, ok := s.styles[tag]
	return ok
}

// IsCellTag reports whether tag is a valid table cell override.
func (s Sheet) IsCellTag(tag Tag) bool {
	if tag == Emphasis {
		return true
	}
	if _, ok := s.CellText[tag]; ok {
		return true
	}
	_, ok := s.CellFill[tag]
	return ok
}

// Tags lists the paragraph style tags in sorted order.
func (s Sheet) Tags() []Tag {
	tags := make([]Tag, 0, len(s.styles))
	for t := range s.styles {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}
