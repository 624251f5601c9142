package report

import (
	"fmt"
	"strings"

	"github.com/seenimoa/stockreport/internal/document"
	"github.com/seenimoa/stockreport/internal/style"
	"github.com/seenimoa/stockreport/pkg/utils"
)

// ════════════════════════════════════════════════════════════════════
// Builder: one report template, fed by a bundle
// ════════════════════════════════════════════════════════════════════

// Default sizes, in cm.
const (
	defaultChartWidth  = 16.0
	defaultMetricWidth = 3.5
	defaultSpacer      = 0.3
)

// Builder turns a bundle plus its rendered chart paths into a document.
type Builder struct {
	sheet style.Sheet
}

// NewBuilder returns a builder drawing rule colors from sheet.
func NewBuilder(sheet style.Sheet) *Builder {
	return &Builder{sheet: sheet}
}

// Build assembles cover, numbered sections and closing. charts maps a
// chart role to its image path; every chart block must resolve.
func (bl *Builder) Build(b *Bundle, charts map[string]string) (document.Document, error) {
	date, err := b.Date()
	if err != nil {
		return document.Document{}, err
	}

	doc := document.Document{
		Meta: document.Meta{
			Title:      fmt.Sprintf("%s — %s", b.Company, b.Horizon),
			ShortTitle: fmt.Sprintf("%s (%s) | %s", b.ShortName, b.Ticker, utils.FormatLongDateIST(date)),
			Author:     b.Author,
			Subject:    strings.TrimSpace(b.Listing + " " + b.Horizon),
			Keywords:   append([]string{b.Ticker}, b.Keywords...),
			Date:       date,
		},
	}

	cover, err := bl.cover(b)
	if err != nil {
		return document.Document{}, err
	}
	doc.Cover = cover

	for i, sec := range b.Sections {
		blocks := make([]document.Block, 0, len(sec.Blocks)+1)
		for j, data := range sec.Blocks {
			blk, err := bl.block(data, charts)
			if err != nil {
				return document.Document{}, fmt.Errorf("%s: section %d block %d: %w", b.Ticker, i+1, j+1, err)
			}
			blocks = append(blocks, blk)
		}
		if i < len(b.Sections)-1 {
			blocks = append(blocks, document.PageBreak{})
		}
		doc.Sections = append(doc.Sections, document.Section{Number: i + 1, Title: sec.Title, Blocks: blocks})
	}

	doc.Closing = bl.closing(b)
	return doc, nil
}

func (bl *Builder) cover(b *Bundle) ([]document.Block, error) {
	date, err := b.Date()
	if err != nil {
		return nil, err
	}
	primary := bl.sheet.Palette.Primary

	blocks := []document.Block{
		document.Spacer{Height: 2},
		document.Paragraph{Text: strings.ToUpper(b.Company), Style: style.Title},
	}
	if b.Listing != "" {
		blocks = append(blocks, document.Paragraph{Text: b.Listing, Style: style.Subtitle})
	}
	blocks = append(blocks,
		document.Spacer{Height: 0.5},
		document.Rule{Thickness: 2, Color: &primary},
		document.Spacer{Height: 0.5},
		document.Paragraph{Text: b.Horizon, Style: style.Banner},
		document.Paragraph{Text: "Outlook: " + utils.OutlookRange(date, b.OutlookMonths), Style: style.Subtitle},
	)
	if b.Cover.Notice != "" {
		blocks = append(blocks,
			document.Spacer{Height: defaultSpacer},
			document.Paragraph{Text: b.Cover.Notice, Style: style.Notice},
			document.Spacer{Height: 0.8},
		)
	} else {
		blocks = append(blocks, document.Spacer{Height: 1})
	}

	if len(b.Cover.Metrics) > 0 {
		widths := b.Cover.MetricWidths
		if len(widths) == 0 {
			widths = []float64{defaultMetricWidth, defaultMetricWidth, defaultMetricWidth, defaultMetricWidth}
		}
		blocks = append(blocks,
			document.Table{
				Variant:  document.VariantMetrics,
				Rows:     b.Cover.Metrics,
				Widths:   widths,
				Align:    []style.Align{style.Center, style.Center, style.Center, style.Center},
				FontSize: 9,
			},
			document.Spacer{Height: 0.5},
		)
	}

	verdict, err := verdictTable(b.Cover.Verdict)
	if err != nil {
		return nil, err
	}
	blocks = append(blocks, verdict, document.Spacer{Height: defaultSpacer})

	for _, note := range b.Cover.Notes {
		blocks = append(blocks, document.Paragraph{Text: note, Style: style.Source})
	}
	if b.Cover.Disclaimer != "" {
		blocks = append(blocks, document.Paragraph{Text: "DISCLAIMER: " + b.Cover.Disclaimer, Style: style.Disclaimer})
	}
	return append(blocks, document.PageBreak{}), nil
}

// verdictTable lays the call and summary side by side with the bull and
// bear lines spanning the full box underneath.
func verdictTable(v Verdict) (document.Table, error) {
	tone, err := verdictTone(v.Tone)
	if err != nil {
		return document.Table{}, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}

	call := "VERDICT: " + v.Call
	t := document.Table{Variant: document.VariantVerdict, Tone: tone, FontSize: 8}
	if v.Summary == "" {
		t.Rows = [][]string{{call}}
		t.Widths = []float64{16.5}
	} else {
		t.Rows = [][]string{{call, v.Summary}}
		t.Widths = []float64{6, 10.5}
	}
	cols := len(t.Rows[0])

	for _, line := range []struct{ label, text string }{{"Key Bull", v.Bull}, {"Key Bear", v.Bear}} {
		if line.text == "" {
			continue
		}
		row := make([]string, cols)
		row[0] = line.label + ": " + line.text
		t.Rows = append(t.Rows, row)
		if cols > 1 {
			t.Spans = append(t.Spans, document.Span{Row: len(t.Rows) - 1, Col: 0, Cols: cols})
		}
	}
	return t, nil
}

func (bl *Builder) block(d BlockData, charts map[string]string) (document.Block, error) {
	switch d.Type {
	case BlockParagraph:
		return document.Paragraph{Text: d.Text, Style: d.Style}, nil
	case BlockSource:
		return document.Paragraph{Text: d.Text, Style: style.Source}, nil
	case BlockSubheading:
		return document.Subheading{Text: d.Text}, nil
	case BlockBullets:
		return document.Bullets{Items: d.Items, Style: d.Style}, nil
	case BlockCallout:
		switch d.Tone {
		case "", "positive":
			return document.Callout{Text: d.Text, Style: style.CalloutPositive}, nil
		case "warning":
			return document.Callout{Text: d.Text, Style: style.CalloutWarning}, nil
		}
		return nil, fmt.Errorf("%w: callout tone %q", ErrInvalidBundle, d.Tone)
	case BlockTable:
		return document.Table{
			Variant:       d.Variant,
			Rows:          d.Rows,
			Widths:        d.Widths,
			Align:         d.Align,
			FontSize:      d.FontSize,
			Spans:         d.Spans,
			Cells:         d.Cells,
			MarkNegatives: d.MarkNegatives,
		}, nil
	case BlockChart:
		path, ok := charts[d.Role]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownChart, d.Role)
		}
		w, h := d.Width, d.Height
		if w == 0 {
			w = defaultChartWidth
		}
		if h == 0 {
			h = w / 2
		}
		return document.Image{Path: path, Width: w, Height: h}, nil
	case BlockRule:
		return document.Rule{Thickness: d.Thickness}, nil
	case BlockSpacer:
		h := d.Height
		if h == 0 {
			h = defaultSpacer
		}
		return document.Spacer{Height: h}, nil
	case BlockPageBreak:
		return document.PageBreak{}, nil
	}
	return nil, fmt.Errorf("%w: unknown block type %q", ErrInvalidBundle, d.Type)
}

func (bl *Builder) closing(b *Bundle) []document.Block {
	grid := bl.sheet.Palette.Grid
	blocks := []document.Block{
		document.Spacer{Height: 1},
		document.Rule{Thickness: 1, Color: &grid},
		document.Spacer{Height: defaultSpacer},
	}
	if b.Closing.Disclaimer != "" {
		blocks = append(blocks,
			document.Paragraph{Text: "<b>IMPORTANT DISCLAIMER:</b> " + b.Closing.Disclaimer, Style: style.Disclaimer},
			document.Spacer{Height: defaultSpacer},
		)
	}
	if b.Closing.Sources != "" {
		blocks = append(blocks, document.Paragraph{Text: "<b>Data Sources:</b> " + b.Closing.Sources, Style: style.Source})
	}
	return blocks
}
