package report

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/seenimoa/stockreport/internal/chart"
	"github.com/seenimoa/stockreport/internal/document"
	"github.com/seenimoa/stockreport/internal/style"
	"github.com/seenimoa/stockreport/pkg/utils"
)

var (
	// ErrUnknownTicker is returned when the catalog has no bundle for a ticker.
	ErrUnknownTicker = errors.New("unknown ticker")
	// ErrUnknownChart is returned when a chart block names a role the
	// bundle does not define.
	ErrUnknownChart = errors.New("unknown chart role")
	// ErrInvalidBundle is returned for malformed bundle files.
	ErrInvalidBundle = errors.New("invalid bundle")
)

// ════════════════════════════════════════════════════════════════════
// Bundle: everything one ticker's report is built from
// ════════════════════════════════════════════════════════════════════

// DefaultHorizon is the cover banner used when a bundle names none.
const DefaultHorizon = "1-Year Stock Research Report"

// Bundle is the per-ticker data behind a report: company identity, cover
// metrics and verdict, chart specs, section content and closing notes.
type Bundle struct {
	Ticker     string `yaml:"ticker"`
	Company    string `yaml:"company"`
	ShortName  string `yaml:"short_name"`
	Listing    string `yaml:"listing"`
	Sector     string `yaml:"sector"`
	ReportDate string `yaml:"report_date"` // 2006-01-02, IST
	Horizon    string `yaml:"horizon"`
	// OutlookMonths is the length of the outlook window printed on the cover.
	OutlookMonths int      `yaml:"outlook_months"`
	File          string   `yaml:"file"`
	Author        string   `yaml:"author"`
	Keywords      []string `yaml:"keywords"`

	Cover    Cover         `yaml:"cover"`
	Charts   []chart.Spec  `yaml:"charts"`
	Sections []SectionData `yaml:"sections"`
	Closing  Closing       `yaml:"closing"`

	// source is where the bundle was read from, for error messages.
	source string
}

// Cover holds the title-page content below the banner.
type Cover struct {
	Metrics      [][]string `yaml:"metrics"`
	MetricWidths []float64  `yaml:"metric_widths"`
	Verdict      Verdict    `yaml:"verdict"`
	// Notice is an optional highlighted line under the outlook, e.g. a
	// recent listing or demerger.
	Notice     string   `yaml:"notice"`
	Notes      []string `yaml:"notes"`
	Disclaimer string   `yaml:"disclaimer"`
}

// Verdict is the boxed call on the cover.
type Verdict struct {
	Call    string `yaml:"call"`
	Summary string `yaml:"summary"`
	Bull    string `yaml:"bull"`
	Bear    string `yaml:"bear"`
	// Tone is positive (green box) or warning/hold (amber box).
	Tone string `yaml:"tone"`
}

// SectionData is one numbered report section before it is built.
type SectionData struct {
	Title  string      `yaml:"title"`
	Blocks []BlockData `yaml:"blocks"`
}

// BlockType names a section block in a bundle file.
type BlockType string

const (
	BlockParagraph  BlockType = "paragraph"
	BlockSubheading BlockType = "subheading"
	BlockBullets    BlockType = "bullets"
	BlockSource     BlockType = "source"
	BlockTable      BlockType = "table"
	BlockChart      BlockType = "chart"
	BlockCallout    BlockType = "callout"
	BlockRule       BlockType = "rule"
	BlockSpacer     BlockType = "spacer"
	BlockPageBreak  BlockType = "page_break"
)

// BlockData is the union of every block field; Type selects which apply.
type BlockData struct {
	Type  BlockType `yaml:"type"`
	Text  string    `yaml:"text"`
	Style style.Tag `yaml:"style"`
	Items []string  `yaml:"items"`

	// callout
	Tone string `yaml:"tone"`

	// chart
	Role   string  `yaml:"role"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`

	// table
	Variant       document.Variant     `yaml:"variant"`
	Rows          [][]string           `yaml:"rows"`
	Widths        []float64            `yaml:"widths"`
	Align         []style.Align        `yaml:"align"`
	FontSize      float64              `yaml:"font_size"`
	Spans         []document.Span      `yaml:"spans"`
	Cells         []document.CellStyle `yaml:"cells"`
	MarkNegatives bool                 `yaml:"mark_negatives"`

	// rule
	Thickness float64 `yaml:"thickness"`
}

// Closing is the end-of-report disclaimer and source list.
type Closing struct {
	Disclaimer string `yaml:"disclaimer"`
	Sources    string `yaml:"sources"`
}

// ParseBundle decodes a YAML bundle. Unknown fields are rejected so that
// typos surface instead of silently dropping content.
func ParseBundle(data []byte, source string) (*Bundle, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var b Bundle
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidBundle, source, err)
	}
	b.source = source
	b.applyDefaults()
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

func (b *Bundle) applyDefaults() {
	b.Ticker = utils.NormalizeTicker(b.Ticker)
	if b.ShortName == "" {
		b.ShortName = b.Company
	}
	if b.Horizon == "" {
		b.Horizon = DefaultHorizon
	}
	if b.OutlookMonths == 0 {
		b.OutlookMonths = 12
	}
	if b.Author == "" {
		b.Author = "Equity Research"
	}
}

// Source returns where the bundle was loaded from.
func (b *Bundle) Source() string { return b.source }

// Date parses the report date in IST.
func (b *Bundle) Date() (time.Time, error) {
	t, err := utils.ParseDateIST(b.ReportDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: report_date %q: %v", ErrInvalidBundle, b.Ticker, b.ReportDate, err)
	}
	return t, nil
}

// Validate checks the bundle's identity, charts and section blocks.
// Chart spec errors keep their chart sentinel.
func (b *Bundle) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s: %s", ErrInvalidBundle, b.label(), fmt.Sprintf(format, args...))
	}

	if b.Ticker == "" {
		return invalid("missing ticker")
	}
	if strings.TrimSpace(b.Company) == "" {
		return invalid("missing company")
	}
	if b.File == "" || filepath.Base(b.File) != b.File || !strings.EqualFold(filepath.Ext(b.File), ".pdf") {
		return invalid("file %q must be a bare .pdf name", b.File)
	}
	if _, err := b.Date(); err != nil {
		return err
	}
	if b.OutlookMonths < 0 {
		return invalid("negative outlook_months")
	}
	for i, row := range b.Cover.Metrics {
		if len(row) != 4 {
			return invalid("cover metric row %d has %d cells, want 4", i, len(row))
		}
	}
	if b.Cover.Verdict.Call == "" {
		return invalid("missing verdict call")
	}
	if _, err := verdictTone(b.Cover.Verdict.Tone); err != nil {
		return invalid("%v", err)
	}

	roles := make(map[string]bool, len(b.Charts))
	for _, spec := range b.Charts {
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("%s: %w", b.label(), err)
		}
		if roles[spec.Role] {
			return invalid("duplicate chart role %q", spec.Role)
		}
		roles[spec.Role] = true
	}

	if len(b.Sections) == 0 {
		return invalid("no sections")
	}
	for i, sec := range b.Sections {
		if strings.TrimSpace(sec.Title) == "" {
			return invalid("section %d has no title", i+1)
		}
		for j, blk := range sec.Blocks {
			if !knownBlock(blk.Type) {
				return invalid("section %d block %d: unknown type %q", i+1, j+1, blk.Type)
			}
			if blk.Type == BlockChart && !roles[blk.Role] {
				return fmt.Errorf("%w: %s: section %d block %d: %q", ErrUnknownChart, b.label(), i+1, j+1, blk.Role)
			}
		}
	}
	return nil
}

func (b *Bundle) label() string {
	switch {
	case b.Ticker != "":
		return b.Ticker
	case b.source != "":
		return b.source
	}
	return "bundle"
}

func knownBlock(t BlockType) bool {
	switch t {
	case BlockParagraph, BlockSubheading, BlockBullets, BlockSource, BlockTable,
		BlockChart, BlockCallout, BlockRule, BlockSpacer, BlockPageBreak:
		return true
	}
	return false
}

// verdictTone maps a bundle tone to the verdict table palette.
func verdictTone(tone string) (style.Tag, error) {
	switch strings.ToLower(strings.TrimSpace(tone)) {
	case "", "positive", "buy":
		return style.Positive, nil
	case "warning", "hold", "caution":
		return style.Caution, nil
	}
	return "", fmt.Errorf("verdict tone %q", tone)
}
