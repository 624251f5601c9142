// Package report drives report generation: it loads per-ticker bundles,
// renders their charts, builds the document from one shared template and
// writes the PDF.
package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/stockreport/internal/chart"
	"github.com/seenimoa/stockreport/internal/document"
	"github.com/seenimoa/stockreport/internal/style"
	"github.com/seenimoa/stockreport/pkg/utils"
)

// ════════════════════════════════════════════════════════════════════
// Generator: charts → document → PDF
// ════════════════════════════════════════════════════════════════════

// Config controls where and how reports are written.
type Config struct {
	OutputDir string // root for PDFs and per-ticker chart directories
	HTML      bool   // also write a self-contained HTML copy
	ChartDPI  int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		OutputDir: "./reports",
		ChartDPI:  chart.DefaultDPI,
	}
}

// Result describes one finished report.
type Result struct {
	Ticker  string
	Charts  map[string]string // role → PNG path
	PDF     string
	HTML    string
	Pages   int
	Bytes   int64
	Elapsed time.Duration
}

// String is the one-line summary printed by the CLI.
func (r Result) String() string {
	return fmt.Sprintf("%-12s %3d pages  %8s  %s  (%s)",
		r.Ticker, r.Pages, humanize.Bytes(uint64(r.Bytes)), r.PDF, FormatDuration(r.Elapsed))
}

// Generator runs the per-report pipeline. It keeps no per-report state, so
// one Generator may serve concurrent Generate calls.
type Generator struct {
	cfg     Config
	asm     *document.Assembler
	sheet   style.Sheet
	builder *Builder
	log     *zap.Logger
	console io.Writer
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) GeneratorOption {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// WithConsole redirects progress messages (default: stdout).
func WithConsole(w io.Writer) GeneratorOption {
	return func(g *Generator) {
		if w != nil {
			g.console = w
		}
	}
}

// WithSheet overrides the default style sheet. It must match the sheet the
// assembler was built with.
func WithSheet(s style.Sheet) GeneratorOption {
	return func(g *Generator) { g.sheet = s }
}

// NewGenerator returns a Generator writing through asm.
func NewGenerator(cfg Config, asm *document.Assembler, opts ...GeneratorOption) *Generator {
	g := &Generator{
		cfg:     cfg,
		asm:     asm,
		sheet:   style.Default(),
		log:     zap.NewNop(),
		console: os.Stdout,
	}
	for _, o := range opts {
		o(g)
	}
	if g.cfg.OutputDir == "" {
		g.cfg.OutputDir = DefaultConfig().OutputDir
	}
	g.builder = NewBuilder(g.sheet)
	return g
}

// ChartDir is where a bundle's chart images are written.
func (g *Generator) ChartDir(b *Bundle) string {
	return filepath.Join(g.cfg.OutputDir, utils.TickerSlug(b.Ticker), "charts")
}

// PDFPath is where a bundle's report is written.
func (g *Generator) PDFPath(b *Bundle) string {
	return filepath.Join(g.cfg.OutputDir, b.File)
}

func (g *Generator) renderer(b *Bundle) *chart.Renderer {
	return chart.NewRenderer(g.ChartDir(b),
		chart.WithDPI(g.cfg.ChartDPI),
		chart.WithPalette(g.sheet.Palette),
		chart.WithLogger(g.log.With(zap.String("ticker", b.Ticker))))
}

// Charts renders every chart of b, in bundle order.
func (g *Generator) Charts(ctx context.Context, b *Bundle) (map[string]string, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	paths, err := g.renderer(b).RenderAll(ctx, b.Charts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Ticker, err)
	}
	return paths, nil
}

// Generate renders b's charts, builds the document and writes the PDF.
// Any failure aborts the report; no partial PDF is left behind.
func (g *Generator) Generate(ctx context.Context, b *Bundle) (Result, error) {
	start := time.Now()
	log := g.log.With(zap.String("ticker", b.Ticker))

	if err := b.Validate(); err != nil {
		return Result{}, err
	}

	fmt.Fprintln(g.console, "Generating charts...")
	charts, err := g.Charts(ctx, b)
	if err != nil {
		return Result{}, err
	}
	for _, spec := range b.Charts {
		if _, err := os.Stat(charts[spec.Role]); err != nil {
			return Result{}, fmt.Errorf("%s: %w: %s", b.Ticker, document.ErrImageMissing, charts[spec.Role])
		}
	}
	fmt.Fprintln(g.console, "Charts created. Building PDF...")

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	doc, err := g.builder.Build(b, charts)
	if err != nil {
		return Result{}, err
	}

	out := g.PDFPath(b)
	if _, err := g.asm.Write(doc, out); err != nil {
		return Result{}, fmt.Errorf("%s: %w", b.Ticker, err)
	}

	res := Result{Ticker: b.Ticker, Charts: charts, PDF: out}
	if g.cfg.HTML {
		res.HTML = strings.TrimSuffix(out, filepath.Ext(out)) + ".html"
		n, err := document.WriteHTML(doc, g.sheet, res.HTML)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", b.Ticker, err)
		}
		log.Debug("html written", zap.String("path", res.HTML), zap.String("size", humanize.Bytes(uint64(n))))
	}

	info, err := document.Inspect(out)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", b.Ticker, err)
	}
	res.Pages = info.Pages
	res.Bytes = info.Bytes
	res.Elapsed = time.Since(start)

	log.Info("report generated",
		zap.String("path", out),
		zap.Int("pages", res.Pages),
		zap.String("size", humanize.Bytes(uint64(res.Bytes))),
		zap.Duration("elapsed", res.Elapsed))
	fmt.Fprintf(g.console, "PDF generated successfully: %s\n", out)
	return res, nil
}

// GenerateAll runs Generate for every bundle with at most jobs reports in
// flight. The first failure cancels the reports still running. Results are
// returned in bundle order.
func (g *Generator) GenerateAll(ctx context.Context, bundles []*Bundle, jobs int) ([]Result, error) {
	outputs := make(map[string]string, len(bundles))
	for _, b := range bundles {
		if prev, dup := outputs[b.File]; dup {
			return nil, fmt.Errorf("%w: %s and %s both write %s", ErrInvalidBundle, prev, b.Ticker, b.File)
		}
		outputs[b.File] = b.Ticker
	}

	if jobs < 1 {
		jobs = 1
	}
	results := make([]Result, len(bundles))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)
	for i, b := range bundles {
		eg.Go(func() error {
			res, err := g.Generate(ctx, b)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Preview builds b's document against the chart paths Generate would use
// and renders it as a text outline. Nothing is drawn or written.
func (g *Generator) Preview(b *Bundle) (string, error) {
	if err := b.Validate(); err != nil {
		return "", err
	}
	dir := g.ChartDir(b)
	charts := make(map[string]string, len(b.Charts))
	for _, spec := range b.Charts {
		charts[spec.Role] = filepath.Join(dir, spec.FileName())
	}
	doc, err := g.builder.Build(b, charts)
	if err != nil {
		return "", err
	}
	return document.RenderText(doc), nil
}

// FormatDuration formats a duration for display.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}
