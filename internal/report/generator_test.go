package report

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/seenimoa/stockreport/internal/document"
	"github.com/seenimoa/stockreport/internal/style"
)

func newTestGenerator(t *testing.T, cfg Config, console *bytes.Buffer) *Generator {
	t.Helper()
	asm, err := document.NewAssembler(document.DefaultPageSetup(), style.Default())
	require.NoError(t, err)
	if cfg.OutputDir == "" {
		cfg.OutputDir = t.TempDir()
	}
	if cfg.ChartDPI == 0 {
		cfg.ChartDPI = 72
	}
	return NewGenerator(cfg, asm, WithConsole(console), WithLogger(zaptest.NewLogger(t)))
}

func TestGeneratorPaths(t *testing.T) {
	b, err := parseMinimal(t, nil)
	require.NoError(t, err)

	g := newTestGenerator(t, Config{OutputDir: "/out"}, &bytes.Buffer{})
	assert.Equal(t, filepath.Join("/out", "testco", "charts"), g.ChartDir(b))
	assert.Equal(t, filepath.Join("/out", "TestCo_Report.pdf"), g.PDFPath(b))
}

func TestNewGeneratorDefaultsOutputDir(t *testing.T) {
	asm, err := document.NewAssembler(document.DefaultPageSetup(), style.Default())
	require.NoError(t, err)
	g := NewGenerator(Config{}, asm)
	assert.Equal(t, DefaultConfig().OutputDir, g.cfg.OutputDir)
}

func TestGenerate(t *testing.T) {
	b, err := parseMinimal(t, nil)
	require.NoError(t, err)

	var console bytes.Buffer
	g := newTestGenerator(t, Config{HTML: true}, &console)

	res, err := g.Generate(context.Background(), b)
	require.NoError(t, err)

	assert.Equal(t, "TESTCO", res.Ticker)
	assert.FileExists(t, res.PDF)
	assert.Greater(t, res.Pages, 1)
	assert.Positive(t, res.Bytes)
	require.Contains(t, res.Charts, "revenue")
	assert.FileExists(t, res.Charts["revenue"])
	assert.Equal(t, "chart_revenue.png", filepath.Base(res.Charts["revenue"]))

	assert.Equal(t, strings.TrimSuffix(res.PDF, ".pdf")+".html", res.HTML)
	html, err := os.ReadFile(res.HTML)
	require.NoError(t, err)
	assert.Contains(t, string(html), "data:image/png;base64,")

	lines := strings.Split(strings.TrimSpace(console.String()), "\n")
	assert.Equal(t, []string{
		"Generating charts...",
		"Charts created. Building PDF...",
		"PDF generated successfully: " + res.PDF,
	}, lines)

	info, err := document.Inspect(res.PDF)
	require.NoError(t, err)
	assert.Equal(t, res.Pages, info.Pages)
}

func TestGenerateIsRepeatable(t *testing.T) {
	b, err := parseMinimal(t, nil)
	require.NoError(t, err)
	g := newTestGenerator(t, Config{}, &bytes.Buffer{})

	first, err := g.Generate(context.Background(), b)
	require.NoError(t, err)
	a, err := os.ReadFile(first.PDF)
	require.NoError(t, err)

	second, err := g.Generate(context.Background(), b)
	require.NoError(t, err)
	c, err := os.ReadFile(second.PDF)
	require.NoError(t, err)

	assert.Equal(t, first.PDF, second.PDF)
	assert.Equal(t, a, c)
}

func TestGenerateCanceled(t *testing.T) {
	b, err := parseMinimal(t, nil)
	require.NoError(t, err)
	g := newTestGenerator(t, Config{}, &bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Generate(ctx, b)
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, g.PDFPath(b))
}

func TestGenerateInvalidBundle(t *testing.T) {
	b, err := parseMinimal(t, nil)
	require.NoError(t, err)
	b.Sections[0].Blocks[1].Role = "missing"

	var console bytes.Buffer
	g := newTestGenerator(t, Config{}, &console)
	_, err = g.Generate(context.Background(), b)
	assert.ErrorIs(t, err, ErrUnknownChart)
	assert.Empty(t, console.String())
	assert.NoFileExists(t, g.PDFPath(b))
}

func TestGenerateAll(t *testing.T) {
	first, err := parseMinimal(t, nil)
	require.NoError(t, err)
	second, err := parseMinimal(t, func(s string) string {
		s = strings.Replace(s, "ticker: nse:testco", "ticker: OTHERCO", 1)
		return strings.Replace(s, "TestCo_Report.pdf", "OtherCo_Report.pdf", 1)
	})
	require.NoError(t, err)

	g := newTestGenerator(t, Config{}, &bytes.Buffer{})
	results, err := g.GenerateAll(context.Background(), []*Bundle{first, second}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "TESTCO", results[0].Ticker)
	assert.Equal(t, "OTHERCO", results[1].Ticker)
	for _, r := range results {
		assert.FileExists(t, r.PDF)
	}
}

func TestGenerateAllRejectsSharedOutput(t *testing.T) {
	first, err := parseMinimal(t, nil)
	require.NoError(t, err)
	second, err := parseMinimal(t, func(s string) string {
		return strings.Replace(s, "ticker: nse:testco", "ticker: OTHERCO", 1)
	})
	require.NoError(t, err)

	g := newTestGenerator(t, Config{}, &bytes.Buffer{})
	_, err = g.GenerateAll(context.Background(), []*Bundle{first, second}, 2)
	assert.ErrorIs(t, err, ErrInvalidBundle)
}

func TestCharts(t *testing.T) {
	b, err := parseMinimal(t, nil)
	require.NoError(t, err)
	g := newTestGenerator(t, Config{}, &bytes.Buffer{})

	paths, err := g.Charts(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(g.ChartDir(b), "chart_revenue.png"), paths["revenue"])
	assert.FileExists(t, paths["revenue"])
	assert.NoFileExists(t, g.PDFPath(b))
}

func TestChartsEmbeddedBundles(t *testing.T) {
	c, err := NewCatalog()
	require.NoError(t, err)

	tests := []struct {
		ticker string
		charts int
	}{
		{ticker: "ABFRL", charts: 5},
		{ticker: "CELLO", charts: 5},
		{ticker: "SULA", charts: 5},
	}
	for _, tt := range tests {
		t.Run(tt.ticker, func(t *testing.T) {
			b, err := c.Get(tt.ticker)
			require.NoError(t, err)
			g := newTestGenerator(t, Config{}, &bytes.Buffer{})

			paths, err := g.Charts(context.Background(), b)
			require.NoError(t, err)
			require.Len(t, paths, tt.charts)
			for role, p := range paths {
				assert.FileExists(t, p, role)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	b, err := parseMinimal(t, nil)
	require.NoError(t, err)
	g := newTestGenerator(t, Config{}, &bytes.Buffer{})

	out, err := g.Preview(b)
	require.NoError(t, err)
	assert.Contains(t, out, "Test Company Ltd")
	assert.Contains(t, out, "COMPANY SNAPSHOT")
	assert.Contains(t, out, "chart_revenue.png")
	assert.NoDirExists(t, g.ChartDir(b))
}

func TestResultString(t *testing.T) {
	r := Result{Ticker: "BIKAJI", Pages: 12, Bytes: 2_500_000, PDF: "reports/x.pdf", Elapsed: 1500 * time.Millisecond}
	s := r.String()
	assert.Contains(t, s, "BIKAJI")
	assert.Contains(t, s, "12 pages")
	assert.Contains(t, s, "2.5 MB")
	assert.Contains(t, s, "1.5s")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Millisecond, "0.5s"},
		{30 * time.Second, "30.0s"},
		{5 * time.Minute, "5.0m"},
		{2 * time.Hour, "2.0h"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.d))
	}
}
