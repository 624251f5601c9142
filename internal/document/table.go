package document

import (
	"fmt"
	"regexp"

	"github.com/seenimoa/stockreport/internal/style"
)

// Variant selects the table decoration.
type Variant string

const (
	// VariantGrid has a header row, zebra body rows and grid lines.
	VariantGrid Variant = "grid"
	// VariantMetrics has no header; every cell is tinted and values
	// (odd columns) are bold.
	VariantMetrics Variant = "metrics"
	// VariantVerdict is a boxed summary whose first row is emphasized.
	VariantVerdict Variant = "verdict"
)

// All selects every row or every column in a CellStyle.
const All = -1

// Span merges Cols cells to the right of (Row, Col) into one.
type Span struct {
	Row  int `yaml:"row"`
	Col  int `yaml:"col"`
	Cols int `yaml:"cols"`
}

// CellStyle applies a cell tag. Row or Col may be All; a whole-column
// style leaves the header row alone.
type CellStyle struct {
	Row int       `yaml:"row"`
	Col int       `yaml:"col"`
	Tag style.Tag `yaml:"tag"`
}

// Table is a literal 2-D grid of strings. Widths are in cm; a missing
// width list splits the frame evenly.
type Table struct {
	Variant       Variant
	Rows          [][]string
	Widths        []float64
	Align         []style.Align
	FontSize      float64
	Spans         []Span
	Cells         []CellStyle
	MarkNegatives bool
	// Tone picks the verdict palette: empty or positive for green,
	// caution for amber. Other variants ignore it.
	Tone style.Tag
}

// Columns returns the column count taken from the first row.
func (t Table) Columns() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

func (t Table) variant() Variant {
	if t.Variant == "" {
		return VariantGrid
	}
	return t.Variant
}

// HasHeader reports whether the first row is a repeating header.
func (t Table) HasHeader() bool {
	return t.variant() == VariantGrid
}

// Validate checks the table shape against sheet.
func (t Table) Validate(sheet style.Sheet) error {
	switch t.variant() {
	case VariantGrid, VariantMetrics, VariantVerdict:
	default:
		return fmt.Errorf("%w: unknown table variant %q", ErrInvalidBlock, t.Variant)
	}

	cols := t.Columns()
	if cols == 0 {
		return fmt.Errorf("%w: table has no rows", ErrInvalidBlock)
	}
	for i, row := range t.Rows {
		if len(row) != cols {
			return fmt.Errorf("%w: table row %d has %d cells, want %d", ErrInvalidBlock, i, len(row), cols)
		}
	}
	switch t.Tone {
	case "", style.Positive, style.Caution:
	default:
		return fmt.Errorf("%w: unknown table tone %q", ErrInvalidBlock, t.Tone)
	}
	if len(t.Widths) > 0 && len(t.Widths) != cols {
		return fmt.Errorf("%w: %d column widths for %d columns", ErrInvalidBlock, len(t.Widths), cols)
	}
	for i, w := range t.Widths {
		if w <= 0 {
			return fmt.Errorf("%w: column %d width %.2f", ErrInvalidBlock, i, w)
		}
	}
	if len(t.Align) > cols {
		return fmt.Errorf("%w: %d alignments for %d columns", ErrInvalidBlock, len(t.Align), cols)
	}
	for _, a := range t.Align {
		switch a {
		case "", style.Left, style.Center, style.Right:
		default:
			return fmt.Errorf("%w: unknown cell alignment %q", ErrInvalidBlock, a)
		}
	}

	for _, s := range t.Spans {
		if s.Row < 0 || s.Row >= len(t.Rows) || s.Col < 0 || s.Cols < 2 || s.Col+s.Cols > cols {
			return fmt.Errorf("%w: span %+v outside %dx%d table", ErrInvalidBlock, s, len(t.Rows), cols)
		}
	}
	for _, c := range t.Cells {
		if c.Row < All || c.Row >= len(t.Rows) || c.Col < All || c.Col >= cols {
			return fmt.Errorf("%w: cell style %+v outside %dx%d table", ErrInvalidBlock, c, len(t.Rows), cols)
		}
		if !sheet.IsCellTag(c.Tag) {
			return fmt.Errorf("%w: unknown cell tag %q", ErrInvalidBlock, c.Tag)
		}
	}
	return nil
}

// spanAt reports how many columns the cell at (r, c) covers, and whether
// it is hidden under a span starting further left.
func (t Table) spanAt(r, c int) (cols int, covered bool) {
	for _, s := range t.Spans {
		if s.Row != r {
			continue
		}
		if s.Col == c {
			return s.Cols, false
		}
		if c > s.Col && c < s.Col+s.Cols {
			return 0, true
		}
	}
	return 1, false
}

// cellLook is the resolved decoration of one cell.
type cellLook struct {
	fill  *style.Color
	text  style.Color
	bold  bool
	size  float64
	align style.Align
}

// look resolves the variant defaults, explicit cell tags and negative
// marking for (r, c), in that order.
func (t Table) look(sheet style.Sheet, r, c int) cellLook {
	ts := sheet.Table
	l := cellLook{text: sheet.Palette.Text, size: t.FontSize, align: style.Center}

	switch t.variant() {
	case VariantGrid:
		if l.size == 0 {
			l.size = ts.FontSize
		}
		if r == 0 {
			l.fill, l.text, l.bold = colorPtr(ts.Header), ts.HeaderText, true
		} else {
			l.fill = colorPtr(ts.Zebra[(r-1)%2])
		}
	case VariantMetrics:
		if l.size == 0 {
			l.size = ts.FontSize + 1
		}
		l.fill, l.text, l.bold = colorPtr(ts.Metrics), ts.MetricsText, c%2 == 1
	case VariantVerdict:
		if l.size == 0 {
			l.size = ts.FontSize
		}
		l.align = style.Left
		fill, alt, title := ts.Verdict, ts.VerdictAlt, ts.VerdictTitle
		if t.Tone == style.Caution {
			fill, alt, title = ts.Caution, ts.CautionAlt, ts.CautionText
			l.text = ts.CautionText
		}
		l.fill = colorPtr(alt)
		if r == 0 {
			l.fill = colorPtr(fill)
		}
		if r == 0 && c == 0 {
			l.text, l.bold, l.size = title, true, l.size+2
		}
	}
	if c < len(t.Align) && t.Align[c] != "" {
		l.align = t.Align[c]
	}

	header := r == 0 && t.HasHeader()
	for _, cs := range t.Cells {
		if cs.Row == All && header {
			continue
		}
		if (cs.Row != All && cs.Row != r) || (cs.Col != All && cs.Col != c) {
			continue
		}
		if fg, ok := sheet.CellText[cs.Tag]; ok {
			l.text = fg
		}
		if bg, ok := sheet.CellFill[cs.Tag]; ok {
			l.fill = colorPtr(bg)
		}
		if cs.Tag == style.Emphasis {
			l.bold = true
		}
	}

	if t.MarkNegatives && !header && leadingNegative(t.Rows[r][c]) {
		l.text = sheet.CellText[style.Warning]
	}
	return l
}

// padding returns the vertical and horizontal cell padding in points.
func (t Table) padding(sheet style.Sheet) (v, h float64) {
	p := sheet.Table.Padding
	switch t.variant() {
	case VariantMetrics:
		return p + 2, p
	case VariantVerdict:
		return p, p * 2
	}
	return p, p
}

// border returns the verdict box color.
func (t Table) border(ts style.TableStyle) style.Color {
	if t.Tone == style.Caution {
		return ts.CautionBorder
	}
	return ts.VerdictBorder
}

func colorPtr(c style.Color) *style.Color { return &c }

// negativePattern matches a cell whose leading numeric value is below
// zero: "-234", "−5.2%", "₹-40 Cr", "-22% to -39%".
var negativePattern = regexp.MustCompile(`^\s*(?:₹|Rs\.?|\$)?\s*[-−–]\s*(?:₹|Rs\.?|\$)?\s*\.?\d`)

func leadingNegative(s string) bool {
	return negativePattern.MatchString(s)
}
