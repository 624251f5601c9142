package document

import (
	"strconv"

	"github.com/seenimoa/stockreport/internal/style"
)

// Kind identifies a block type.
type Kind string

const (
	KindHeading    Kind = "heading"
	KindSubheading Kind = "subheading"
	KindParagraph  Kind = "paragraph"
	KindBullets    Kind = "bullets"
	KindTable      Kind = "table"
	KindImage      Kind = "image"
	KindCallout    Kind = "callout"
	KindRule       Kind = "rule"
	KindSpacer     Kind = "spacer"
	KindPageBreak  Kind = "page_break"
)

// Block is one element of the document flow.
type Block interface {
	Kind() Kind
}

// Heading is a numbered section heading with a rule underneath.
type Heading struct {
	Number int
	Text   string
}

// Subheading is a level-2 heading inside a section.
type Subheading struct {
	Text string
}

// Paragraph is styled text. Text may contain <b>, <i> and <br/>.
type Paragraph struct {
	Text  string
	Style style.Tag
}

// Bullets is a bulleted list; every item may carry inline markup.
type Bullets struct {
	Items []string
	Style style.Tag
}

// Image references a PNG on disk. Width and Height are in cm.
type Image struct {
	Path   string
	Width  float64
	Height float64
}

// Callout is a paragraph drawn inside a tinted, bordered box.
type Callout struct {
	Text  string
	Style style.Tag
}

// Rule is a horizontal line across the frame. Zero values draw a 1pt
// accent line.
type Rule struct {
	Thickness float64
	Color     *style.Color
}

// Spacer is vertical space in cm.
type Spacer struct {
	Height float64
}

// PageBreak starts a new page.
type PageBreak struct{}

func (Heading) Kind() Kind    { return KindHeading }
func (Subheading) Kind() Kind { return KindSubheading }
func (Paragraph) Kind() Kind  { return KindParagraph }
func (Bullets) Kind() Kind    { return KindBullets }
func (Table) Kind() Kind      { return KindTable }
func (Image) Kind() Kind      { return KindImage }
func (Callout) Kind() Kind    { return KindCallout }
func (Rule) Kind() Kind       { return KindRule }
func (Spacer) Kind() Kind     { return KindSpacer }
func (PageBreak) Kind() Kind  { return KindPageBreak }

// headingText is the printed heading, "3. Valuation" when numbered.
func (h Heading) headingText() string {
	if h.Number > 0 {
		return strconv.Itoa(h.Number) + ". " + h.Text
	}
	return h.Text
}
