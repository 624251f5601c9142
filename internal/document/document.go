// Package document lays out a report (cover, numbered sections, closing)
// as a paginated PDF, and renders the same block sequence as HTML or as a
// plain-text outline.
package document

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/seenimoa/stockreport/internal/style"
)

var (
	// ErrImageMissing is returned when a referenced image is not on disk.
	ErrImageMissing = errors.New("image not found")
	// ErrInvalidBlock is returned for malformed blocks.
	ErrInvalidBlock = errors.New("invalid block")
	// ErrInvalidPage is returned for an unknown page size or bad margins.
	ErrInvalidPage = errors.New("invalid page setup")
)

// ════════════════════════════════════════════════════════════════════
// Document model
// ════════════════════════════════════════════════════════════════════

// Meta is document metadata. Date drives the PDF creation date so that
// unchanged input yields the same document.
type Meta struct {
	Title      string
	ShortTitle string
	Author     string
	Subject    string
	Keywords   []string
	Date       time.Time
}

// Section is a numbered, titled run of blocks.
type Section struct {
	Number int
	Title  string
	Blocks []Block
}

// Document is a cover, numbered sections and closing blocks.
type Document struct {
	Meta     Meta
	Cover    []Block
	Sections []Section
	Closing  []Block
}

// Blocks flattens the document into flow order. Each section starts with
// its heading.
func (d Document) Blocks() []Block {
	out := make([]Block, 0, len(d.Cover)+len(d.Closing)+8*len(d.Sections))
	out = append(out, d.Cover...)
	for _, s := range d.Sections {
		out = append(out, Heading{Number: s.Number, Text: s.Title})
		out = append(out, s.Blocks...)
	}
	return append(out, d.Closing...)
}

// Images lists every image path in flow order.
func (d Document) Images() []string {
	var paths []string
	for _, b := range d.Blocks() {
		if img, ok := b.(Image); ok {
			paths = append(paths, img.Path)
		}
	}
	return paths
}

// Validate checks block shapes and style tags against sheet.
func (d Document) Validate(sheet style.Sheet) error {
	for i, b := range d.Blocks() {
		if err := validateBlock(b, sheet); err != nil {
			return fmt.Errorf("block %d (%s): %w", i, b.Kind(), err)
		}
	}
	return nil
}

// CheckImages confirms every referenced image exists and is a regular file.
func (d Document) CheckImages() error {
	for _, p := range d.Images() {
		st, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrImageMissing, p)
		}
		if st.IsDir() {
			return fmt.Errorf("%w: %s is a directory", ErrImageMissing, p)
		}
	}
	return nil
}

func validateBlock(b Block, sheet style.Sheet) error {
	checkStyle := func(tag style.Tag) error {
		if tag != "" && !sheet.Has(tag) {
			return fmt.Errorf("%w: unknown style %q", ErrInvalidBlock, tag)
		}
		return nil
	}

	switch v := b.(type) {
	case Heading:
		if strings.TrimSpace(v.Text) == "" {
			return fmt.Errorf("%w: empty heading", ErrInvalidBlock)
		}
	case Subheading:
		if strings.TrimSpace(v.Text) == "" {
			return fmt.Errorf("%w: empty subheading", ErrInvalidBlock)
		}
	case Paragraph:
		return checkStyle(v.Style)
	case Bullets:
		if len(v.Items) == 0 {
			return fmt.Errorf("%w: empty bullet list", ErrInvalidBlock)
		}
		return checkStyle(v.Style)
	case Callout:
		switch v.Style {
		case "", style.CalloutPositive, style.CalloutWarning:
		default:
			return fmt.Errorf("%w: callout style %q", ErrInvalidBlock, v.Style)
		}
	case Table:
		return v.Validate(sheet)
	case Image:
		if v.Path == "" {
			return fmt.Errorf("%w: image without path", ErrInvalidBlock)
		}
		if v.Width <= 0 || v.Height <= 0 {
			return fmt.Errorf("%w: image size %.1fx%.1f cm", ErrInvalidBlock, v.Width, v.Height)
		}
	case Spacer:
		if v.Height < 0 {
			return fmt.Errorf("%w: negative spacer", ErrInvalidBlock)
		}
	case Rule, PageBreak:
	default:
		return fmt.Errorf("%w: unsupported block %T", ErrInvalidBlock, b)
	}
	return nil
}

// ════════════════════════════════════════════════════════════════════
// Page geometry
// ════════════════════════════════════════════════════════════════════

// PageSetup is the page size name and margins in cm.
type PageSetup struct {
	Size         string
	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64
}

// DefaultPageSetup returns A4 with 1.5 cm top/bottom and 2 cm side margins.
func DefaultPageSetup() PageSetup {
	return PageSetup{
		Size:         "A4",
		MarginTop:    1.5,
		MarginBottom: 1.5,
		MarginLeft:   2,
		MarginRight:  2,
	}
}

// page sizes in points, portrait.
var pageSizes = map[string][2]float64{
	"A3":     {841.89, 1190.55},
	"A4":     {595.28, 841.89},
	"A5":     {420.94, 595.28},
	"LETTER": {612, 792},
	"LEGAL":  {612, 1008},
}

// Dimensions returns the page width and height in points.
func (p PageSetup) Dimensions() (w, h float64, err error) {
	sz, ok := pageSizes[strings.ToUpper(p.Size)]
	if !ok {
		return 0, 0, fmt.Errorf("%w: unknown page size %q", ErrInvalidPage, p.Size)
	}
	return sz[0], sz[1], nil
}

// Validate checks the size name and that the margins leave a usable frame.
func (p PageSetup) Validate() error {
	w, h, err := p.Dimensions()
	if err != nil {
		return err
	}
	for _, m := range []float64{p.MarginTop, p.MarginBottom, p.MarginLeft, p.MarginRight} {
		if m < 0 {
			return fmt.Errorf("%w: negative margin", ErrInvalidPage)
		}
	}
	if cm(p.MarginLeft+p.MarginRight) >= w/2 || cm(p.MarginTop+p.MarginBottom) >= h/2 {
		return fmt.Errorf("%w: margins leave less than half the page", ErrInvalidPage)
	}
	return nil
}

// cm converts centimetres to points.
func cm(v float64) float64 { return v * 72 / 2.54 }
