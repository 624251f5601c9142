package document

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/seenimoa/stockreport/internal/style"
)

// ════════════════════════════════════════════════════════════════════
// PDF Assembler: styled blocks + chart images → paginated PDF
// ════════════════════════════════════════════════════════════════════

// Assembler turns documents into PDF files. It holds no per-document
// state and may be shared between goroutines.
type Assembler struct {
	setup    PageSetup
	sheet    style.Sheet
	fonts    FontSet
	compress bool
	log      *zap.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithFonts replaces the embedded Liberation Sans family.
func WithFonts(fs FontSet) Option {
	return func(a *Assembler) { a.fonts = fs }
}

// WithCompression toggles stream compression (on by default).
func WithCompression(on bool) Option {
	return func(a *Assembler) { a.compress = on }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Assembler) { a.log = l }
}

// NewAssembler validates the page setup and registers the font set.
func NewAssembler(setup PageSetup, sheet style.Sheet, opts ...Option) (*Assembler, error) {
	if err := setup.Validate(); err != nil {
		return nil, err
	}
	a := &Assembler{
		setup:    setup,
		sheet:    sheet,
		compress: true,
		log:      zap.NewNop(),
	}
	for _, o := range opts {
		o(a)
	}
	if a.fonts.data == nil {
		a.fonts = EmbeddedFonts("")
	}
	if miss := a.fonts.Missing("₹•→–"); len(miss) > 0 {
		a.log.Warn("font lacks glyphs used by reports",
			zap.String("family", a.fonts.Family),
			zap.String("runes", string(miss)))
	}
	return a, nil
}

// Info describes a written PDF.
type Info struct {
	Path  string
	Pages int
	Bytes int
}

// Render lays out doc entirely in memory and returns the PDF bytes and
// page count.
func (a *Assembler) Render(doc Document) ([]byte, int, error) {
	if err := doc.Validate(a.sheet); err != nil {
		return nil, 0, err
	}
	if err := doc.CheckImages(); err != nil {
		return nil, 0, err
	}

	w := a.newWriter(doc.Meta)
	for i, b := range doc.Blocks() {
		if err := w.block(b); err != nil {
			return nil, 0, fmt.Errorf("block %d (%s): %w", i, b.Kind(), err)
		}
		if err := w.pdf.Error(); err != nil {
			return nil, 0, fmt.Errorf("block %d (%s): %w", i, b.Kind(), err)
		}
	}

	var buf bytes.Buffer
	if err := w.pdf.Output(&buf); err != nil {
		return nil, 0, fmt.Errorf("serializing PDF: %w", err)
	}
	return buf.Bytes(), w.pdf.PageCount(), nil
}

// Write renders doc and replaces path with the result. Nothing is written
// when rendering fails.
func (a *Assembler) Write(doc Document, path string) (Info, error) {
	data, pages, err := a.Render(doc)
	if err != nil {
		return Info{}, err
	}
	if err := writeFileAtomic(path, data); err != nil {
		return Info{}, err
	}
	a.log.Info("document written",
		zap.String("path", path),
		zap.Int("pages", pages),
		zap.Int("bytes", len(data)))
	return Info{Path: path, Pages: pages, Bytes: len(data)}, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".doc-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	name := tmp.Name()
	defer os.Remove(name)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(name, 0o644); err != nil {
		return err
	}
	if err := os.Rename(name, path); err != nil {
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}

// ════════════════════════════════════════════════════════════════════
// writer: one fpdf instance per document
// ════════════════════════════════════════════════════════════════════

type writer struct {
	pdf    *fpdf.Fpdf
	sheet  style.Sheet
	family string
	meta   Meta

	left, top, width float64
	pageH, bottom    float64
	atTop            bool
}

// epoch stands in for a missing report date.
var epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

func (a *Assembler) newWriter(meta Meta) *writer {
	pw, ph, _ := a.setup.Dimensions()
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: pw, Ht: ph},
	})
	pdf.SetCompression(a.compress)
	pdf.SetMargins(cm(a.setup.MarginLeft), cm(a.setup.MarginTop), cm(a.setup.MarginRight))
	pdf.SetAutoPageBreak(false, cm(a.setup.MarginBottom))
	pdf.SetCellMargin(0)
	for _, face := range Faces() {
		pdf.AddUTF8FontFromBytes(a.fonts.Family, face.fpdfStyle(), a.fonts.Bytes(face))
	}

	date := meta.Date
	if date.IsZero() {
		date = epoch
	}
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetSubject(meta.Subject, true)
	pdf.SetKeywords(strings.Join(meta.Keywords, ", "), true)
	pdf.SetCreator("stockreport", true)
	pdf.SetCreationDate(date)
	pdf.SetModificationDate(date)
	pdf.SetCatalogSort(true)
	pdf.AliasNbPages("{nb}")

	w := &writer{
		pdf:    pdf,
		sheet:  a.sheet,
		family: a.fonts.Family,
		meta:   meta,
		left:   cm(a.setup.MarginLeft),
		top:    cm(a.setup.MarginTop),
		width:  pw - cm(a.setup.MarginLeft) - cm(a.setup.MarginRight),
		pageH:  ph,
		bottom: ph - cm(a.setup.MarginBottom),
	}
	pdf.SetFooterFunc(w.footer)
	w.newPage()
	return w
}

// footer prints the short title and "Page N of M" on every page but the
// cover.
func (w *writer) footer() {
	if w.pdf.PageNo() == 1 {
		return
	}
	src := w.sheet.Style(style.Source)
	y := w.bottom + (w.pageH-w.bottom)/2 - src.Size

	w.drawColor(w.sheet.Palette.Grid)
	w.pdf.SetLineWidth(0.5)
	w.pdf.Line(w.left, y-2, w.left+w.width, y-2)

	w.setFont(false, false, src.Size)
	w.textColor(src.Color)
	w.pdf.SetXY(w.left, y)
	w.pdf.CellFormat(w.width/2, src.Size*1.4, w.meta.ShortTitle, "", 0, "L", false, 0, "")
	w.pdf.SetXY(w.left+w.width/2, y)
	w.pdf.CellFormat(w.width/2, src.Size*1.4, fmt.Sprintf("Page %d of {nb}", w.pdf.PageNo()), "", 0, "R", false, 0, "")
}

func (w *writer) newPage() {
	w.pdf.AddPage()
	w.pdf.SetY(w.top)
	w.atTop = true
}

func (w *writer) y() float64 { return w.pdf.GetY() }

func (w *writer) setY(y float64) {
	w.pdf.SetY(y)
	w.atTop = false
}

// ensure starts a new page when h points do not fit below the cursor.
func (w *writer) ensure(h float64) {
	if !w.atTop && w.y()+h > w.bottom {
		w.newPage()
	}
}

// space adds vertical space, swallowed at the top of a page.
func (w *writer) space(h float64) {
	if w.atTop || h <= 0 {
		return
	}
	if w.y()+h > w.bottom {
		w.newPage()
		return
	}
	w.pdf.SetY(w.y() + h)
}

func (w *writer) setFont(bold, italic bool, size float64) {
	s := ""
	if bold {
		s += "B"
	}
	if italic {
		s += "I"
	}
	w.pdf.SetFont(w.family, s, size)
}

func (w *writer) measure(s string, bold, italic bool, size float64) float64 {
	w.setFont(bold, italic, size)
	return w.pdf.GetStringWidth(s)
}

func (w *writer) textColor(c style.Color) { w.pdf.SetTextColor(int(c.R), int(c.G), int(c.B)) }
func (w *writer) fillColor(c style.Color) { w.pdf.SetFillColor(int(c.R), int(c.G), int(c.B)) }
func (w *writer) drawColor(c style.Color) { w.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B)) }

// drawLine prints one laid-out line with its top edge at y.
func (w *writer) drawLine(l line, x, y, maxW, lh float64, align style.Align, c style.Color) {
	w.textColor(c)
	xs := l.placement(x, maxW, align)
	k := 0
	for _, wd := range l.words {
		for _, p := range wd.pieces {
			w.setFont(p.bold, p.italic, l.size)
			w.pdf.SetXY(xs[k], y)
			w.pdf.CellFormat(p.w, lh, p.text, "", 0, "L", false, 0, "")
			k++
		}
	}
}

// ════════════════════════════════════════════════════════════════════
// Blocks
// ════════════════════════════════════════════════════════════════════

func (w *writer) block(b Block) error {
	switch v := b.(type) {
	case Heading:
		w.heading(v)
	case Subheading:
		w.subheading(v)
	case Paragraph:
		w.paragraph(ParseMarkup(v.Text), w.sheet.Style(orTag(v.Style, style.Body)), w.left, w.width)
	case Bullets:
		w.bullets(v)
	case Callout:
		w.callout(v)
	case Table:
		w.table(v)
	case Image:
		return w.image(v)
	case Rule:
		w.rule(v)
	case Spacer:
		w.spacer(v)
	case PageBreak:
		if !w.atTop {
			w.newPage()
		}
	default:
		return fmt.Errorf("%w: unsupported block %T", ErrInvalidBlock, b)
	}
	return nil
}

func orTag(t, def style.Tag) style.Tag {
	if t == "" {
		return def
	}
	return t
}

// paragraph lays out runs at x, breaking pages between lines.
func (w *writer) paragraph(runs []Run, a style.Attr, x, maxW float64) {
	lines := layoutRuns(runs, a.Size, maxW, a.Bold, a.Italic, w.measure)
	lh := a.LineHeight()
	w.space(a.SpaceBefore)
	for _, l := range lines {
		w.ensure(lh)
		y := w.y()
		w.drawLine(l, x, y, maxW, lh, a.Align, a.Color)
		w.setY(y + lh)
	}
	w.space(a.SpaceAfter)
}

func (w *writer) heading(h Heading) {
	a := w.sheet.Style(style.Heading)
	body := w.sheet.Style(style.Body)
	w.space(a.SpaceBefore)
	// Keep the heading with its rule and the first lines of the section.
	w.ensure(a.LineHeight() + 4 + 3*body.LineHeight())

	lines := layoutRuns([]Run{{Text: h.headingText()}}, a.Size, w.width, a.Bold, a.Italic, w.measure)
	for _, l := range lines {
		y := w.y()
		w.drawLine(l, w.left, y, w.width, a.LineHeight(), a.Align, a.Color)
		w.setY(y + a.LineHeight())
	}

	y := w.y() + 2
	w.drawColor(w.sheet.Palette.Accent)
	w.pdf.SetLineWidth(1)
	w.pdf.Line(w.left, y, w.left+w.width, y)
	w.setY(y + 1 + a.SpaceAfter)
}

func (w *writer) subheading(s Subheading) {
	a := w.sheet.Style(style.Subheading)
	body := w.sheet.Style(style.Body)
	w.space(a.SpaceBefore)
	w.ensure(a.LineHeight() + 2*body.LineHeight())
	a.SpaceBefore = 0
	w.paragraph(ParseMarkup(s.Text), a, w.left, w.width)
}

func (w *writer) bullets(b Bullets) {
	a := w.sheet.Style(orTag(b.Style, style.Bullet))
	indent := a.LeftIndent
	if indent == 0 {
		indent = 15
	}
	text := a
	text.SpaceBefore, text.LeftIndent = 0, 0
	lh := a.LineHeight()

	for _, item := range b.Items {
		w.space(a.SpaceBefore)
		w.ensure(lh)
		w.setFont(false, false, a.Size)
		w.textColor(a.Color)
		w.pdf.SetXY(w.left+indent-10, w.y())
		w.pdf.CellFormat(8, lh, "•", "", 0, "L", false, 0, "")
		w.paragraph(ParseMarkup(item), text, w.left+indent, w.width-indent)
	}
}

// callout draws a tinted, bordered box around the text. A box taller than
// the rest of the page is split; every part gets its own border.
func (w *writer) callout(c Callout) {
	a := w.sheet.Style(orTag(c.Style, style.CalloutPositive))
	pad := a.Padding
	boxX, boxW := w.left+a.LeftIndent, w.width-2*a.LeftIndent
	lines := layoutRuns(ParseMarkup(c.Text), a.Size, boxW-2*pad, a.Bold, a.Italic, w.measure)
	lh := a.LineHeight()

	w.space(a.SpaceBefore)
	for len(lines) > 0 {
		w.ensure(2*pad + lh*float64(min(len(lines), 3)))
		fit := int((w.bottom - w.y() - 2*pad) / lh)
		fit = max(1, min(fit, len(lines)))

		y := w.y()
		h := 2*pad + lh*float64(fit)
		if a.Background != nil {
			w.fillColor(*a.Background)
		}
		if a.Border != nil {
			w.drawColor(*a.Border)
		}
		w.pdf.SetLineWidth(a.BorderWidth)
		w.pdf.Rect(boxX, y, boxW, h, boxStyle(a))

		for i, l := range lines[:fit] {
			w.drawLine(l, boxX+pad, y+pad+lh*float64(i), boxW-2*pad, lh, a.Align, a.Color)
		}
		w.setY(y + h)
		lines = lines[fit:]
		if len(lines) > 0 {
			w.newPage()
		}
	}
	w.space(a.SpaceAfter)
}

func boxStyle(a style.Attr) string {
	switch {
	case a.Background != nil && a.Border != nil && a.BorderWidth > 0:
		return "FD"
	case a.Background != nil:
		return "F"
	}
	return "D"
}

func (w *writer) image(img Image) error {
	wd, h := cm(img.Width), cm(img.Height)
	if wd > w.width {
		h *= w.width / wd
		wd = w.width
	}
	w.ensure(h + 6)
	y := w.y() + 3
	w.pdf.ImageOptions(img.Path, w.left+(w.width-wd)/2, y, wd, h, false,
		fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	if err := w.pdf.Error(); err != nil {
		return fmt.Errorf("placing %s: %w", img.Path, err)
	}
	w.setY(y + h + 3)
	return nil
}

func (w *writer) rule(r Rule) {
	t := r.Thickness
	if t <= 0 {
		t = 1
	}
	c := w.sheet.Palette.Accent
	if r.Color != nil {
		c = *r.Color
	}
	w.ensure(t + 10)
	y := w.y() + 5
	w.drawColor(c)
	w.pdf.SetLineWidth(t)
	w.pdf.Line(w.left, y, w.left+w.width, y)
	w.setY(y + t + 5)
}

func (w *writer) spacer(s Spacer) {
	h := cm(s.Height)
	if w.y()+h > w.bottom {
		w.newPage()
		return
	}
	w.space(h)
}
