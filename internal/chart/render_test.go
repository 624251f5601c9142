package chart

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Fixtures ──

func revenueSpec() Spec {
	return Spec{
		Role:   "revenue",
		Kind:   KindBarPair,
		Title:  "Quarterly Revenue & Net Profit",
		Labels: []string{"Q1\nFY25", "Q2\nFY25", "Q3\nFY25", "Q4\nFY25"},
		Series: []Series{
			{Name: "Revenue (₹ Cr)", Values: []float64{608, 635, 704, 741}, Color: "accent", LabelFormat: "inr"},
			{Name: "Net Profit (₹ Cr)", Values: []float64{44, 52, 28, 54}, Color: "green", Secondary: true, LabelFormat: "inr"},
		},
		Y:  Axis{Label: "Revenue (₹ Cr)", Min: F(0), Max: F(1000)},
		Y2: Axis{Label: "Net Profit (₹ Cr)", Min: F(0), Max: F(120)},
	}
}

func marginSpec() Spec {
	return Spec{
		Role:   "margins",
		Kind:   KindLineTrend,
		Title:  "Gross Margin & EBITDA Margin Trend",
		Labels: []string{"Q1 FY25", "Q2 FY25", "Q3 FY25", "Q4 FY25"},
		Series: []Series{
			{Name: "Gross Margin (%)", Values: []float64{33.5, 34.0, 32.5, 34.5}, Color: "accent", Markers: true},
			{Name: "EBITDA Margin (%)", Values: []float64{10.5, 11.0, 8.2, 10.8}, Color: "green", Fill: true, LabelFormat: "%.1f%%"},
		},
		Y: Axis{Label: "Margin (%)", Min: F(5), Max: F(40)},
	}
}

func nimSpec() Spec {
	return Spec{
		Role:   "nim",
		Kind:   KindLineTrend,
		Title:  "NIM vs Cost-to-Income",
		Labels: []string{"Q1", "Q2", "Q3"},
		Series: []Series{
			{Name: "NIM (%)", Values: []float64{6.2, 6.1, 6.04}, Color: "accent"},
			{Name: "Cost-to-Income (%)", Values: []float64{76.5, 75, 74}, Color: "orange", Secondary: true},
		},
		Y:  Axis{Min: F(5), Max: F(7)},
		Y2: Axis{Min: F(65), Max: F(85)},
	}
}

func segmentSpec() Spec {
	return Spec{
		Role:    "segments",
		Kind:    KindPie,
		Title:   "Revenue Mix by Segment",
		Labels:  []string{"Ethnic Snacks", "Packaged Sweets", "Western Snacks", "Retail/Other", "Papad"},
		Series:  []Series{{Values: []float64{67.4, 11.5, 8.0, 7.1, 6.0}}},
		Colors:  []string{"#2b6cb0", "#e53e3e", "#38a169", "#dd6b20", "#805ad5"},
		Explode: []float64{0.05, 0, 0, 0, 0},
	}
}

func priceSpec() Spec {
	return Spec{
		Role:   "price",
		Kind:   KindPriceBands,
		Title:  "1-Year Price Action",
		Note:   "Note: monthly prices approximated",
		Labels: []string{"Oct", "Nov", "Dec", "Jan"},
		Series: []Series{
			{Name: "Price (₹)", Values: []float64{860, 820, 757, 660}, Color: "primary"},
			{Name: "200-Day SMA", Values: []float64{705, 710, 712, 715}, Color: "green", Dashed: true},
		},
		Bands: []Band{
			{Label: "Support Zone", Low: 558, High: 600, Color: "green"},
			{Label: "Resistance Zone", Low: 825, High: 864, Color: "red"},
		},
		Annotations: []Annotation{{Text: "Current: ₹660", X: 3, Y: 660}},
		Y:           Axis{Label: "Price (₹)", Min: F(500), Max: F(920)},
	}
}

func peerSpec() Spec {
	return Spec{
		Role:  "peers",
		Kind:  KindMultiPanelBar,
		Title: "Listed Peer Comparison",
		Panels: []Panel{
			{Title: "Revenue (₹ Cr)", Labels: []string{"Bikaji", "Prataap"}, Values: []float64{2887, 1688}, Y: Axis{Min: F(0), Max: F(3500)}, LabelFormat: "inr"},
			{Title: "Revenue Growth YoY (%)", Labels: []string{"Bikaji", "Prataap"}, Values: []float64{13, -2}, Colors: []string{"green", "red"}, Y: Axis{Min: F(-5), Max: F(20)}, LabelFormat: "%.0f%%"},
		},
	}
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	return NewRenderer(t.TempDir(), WithDPI(60))
}

// ── Validation ──

func TestValidateSeriesLengthMismatch(t *testing.T) {
	spec := Spec{
		Role:   "bad",
		Kind:   KindBarPair,
		Labels: []string{"Q1", "Q2"},
		Series: []Series{{Name: "rev", Values: []float64{100, 200, 150}}},
	}
	err := spec.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSeriesLength))

	r := newTestRenderer(t)
	path, err := r.Render(spec)
	assert.ErrorIs(t, err, ErrSeriesLength)
	assert.Empty(t, path)
	_, statErr := os.Stat(filepath.Join(r.Dir(), "chart_bad.png"))
	assert.True(t, os.IsNotExist(statErr), "no file may be written for an invalid spec")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Spec)
		wantErr error
	}{
		{"valid bar pair", func(*Spec) {}, nil},
		{"bad role", func(s *Spec) { s.Role = "Revenue Chart" }, ErrInvalidSpec},
		{"unknown kind", func(s *Spec) { s.Kind = "scatter3d" }, ErrInvalidSpec},
		{"no labels", func(s *Spec) { s.Labels = nil }, ErrInvalidSpec},
		{"inverted axis", func(s *Spec) { s.Y.Min, s.Y.Max = F(10), F(5) }, ErrInvalidSpec},
		{"secondary without y2", func(s *Spec) { s.Y2 = Axis{} }, ErrInvalidSpec},
		{"three series", func(s *Spec) { s.Series = append(s.Series, s.Series[0]) }, ErrInvalidSpec},
		{"short series", func(s *Spec) { s.Series[1].Values = s.Series[1].Values[:2] }, ErrSeriesLength},
		{"divider outside", func(s *Spec) { s.Divider = &Divider{At: 9} }, ErrInvalidSpec},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := revenueSpec()
			s.Series = append([]Series(nil), s.Series...)
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidatePieAndPanels(t *testing.T) {
	pie := segmentSpec()
	require.NoError(t, pie.Validate())

	pie.Colors = pie.Colors[:2]
	assert.ErrorIs(t, pie.Validate(), ErrSeriesLength)

	pie = segmentSpec()
	pie.Series[0].Values = []float64{0, 0, 0, 0, 0}
	assert.ErrorIs(t, pie.Validate(), ErrInvalidSpec)

	peers := peerSpec()
	require.NoError(t, peers.Validate())
	peers.Panels[0].Values = []float64{1}
	assert.ErrorIs(t, peers.Validate(), ErrSeriesLength)
}

func TestValidateBands(t *testing.T) {
	s := priceSpec()
	s.Bands = []Band{{Label: "x", Low: 10, High: 5}}
	assert.ErrorIs(t, s.Validate(), ErrInvalidSpec)

	s = priceSpec()
	s.Annotations = []Annotation{{Text: "far", X: 12, Y: 1}}
	assert.ErrorIs(t, s.Validate(), ErrInvalidSpec)
}

// ── Rendering ──

func TestRenderEveryKind(t *testing.T) {
	specs := []Spec{revenueSpec(), marginSpec(), nimSpec(), segmentSpec(), priceSpec(), peerSpec()}
	r := newTestRenderer(t)

	for _, s := range specs {
		t.Run(s.Role, func(t *testing.T) {
			path, err := r.Render(s)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(r.Dir(), "chart_"+s.Role+".png"), path)

			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()
			img, err := png.Decode(f)
			require.NoError(t, err)
			assert.Greater(t, img.Bounds().Dx(), 100)
			assert.Greater(t, img.Bounds().Dy(), 100)
		})
	}
}

func TestRenderSizeFollowsDPI(t *testing.T) {
	r := NewRenderer(t.TempDir(), WithDPI(50))
	s := revenueSpec()
	s.Width, s.Height = 4, 2

	data, err := r.Encode(s)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Width)
	assert.Equal(t, 100, cfg.Height)
}

func TestRenderIsDeterministic(t *testing.T) {
	r := newTestRenderer(t)
	for _, s := range []Spec{revenueSpec(), marginSpec(), segmentSpec(), priceSpec(), peerSpec()} {
		a, err := r.Encode(s)
		require.NoError(t, err)
		b, err := r.Encode(s)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(a, b), "%s: output differs between runs", s.Role)
	}
}

func TestRenderLeavesNoTempFiles(t *testing.T) {
	r := newTestRenderer(t)
	_, err := r.Render(segmentSpec())
	require.NoError(t, err)

	entries, err := os.ReadDir(r.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "chart_segments.png", entries[0].Name())
}

func TestBarHeightsProportional(t *testing.T) {
	spec := Spec{
		Role:   "bars",
		Kind:   KindBarPair,
		Labels: []string{"Q1", "Q2", "Q3"},
		Series: []Series{{Values: []float64{100, 200, 150}, Color: "#123456"}},
	}
	r := NewRenderer(t.TempDir(), WithDPI(100))
	data, err := r.Encode(spec)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	heights := columnRuns(img, color.NRGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff})
	require.Len(t, heights, 3, "expected three bars left to right")

	assert.InDelta(t, 2.0, float64(heights[1])/float64(heights[0]), 0.05)
	assert.InDelta(t, 1.5, float64(heights[2])/float64(heights[0]), 0.05)
}

func TestSecondaryBarsGrowFromY2Zero(t *testing.T) {
	spec := Spec{
		Role:   "losses",
		Kind:   KindBarPair,
		Labels: []string{"Q4 FY25", "Q2 FY26"},
		Series: []Series{
			{Values: []float64{3000, 3000}, Color: "#123456"},
			{Values: []float64{-24, -295}, Color: "#654321", Secondary: true},
		},
		Y:  Axis{Min: F(0), Max: F(5000)},
		Y2: Axis{Min: F(-400), Max: F(100)},
	}
	r := NewRenderer(t.TempDir(), WithDPI(150))
	data, err := r.Encode(spec)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	losses := columnRuns(img, color.NRGBA{R: 0x65, G: 0x43, B: 0x21, A: 0xff})
	require.Len(t, losses, 2)
	small, large := losses[0], losses[1]
	assert.Greater(t, large, small, "a deeper loss must draw a longer bar")
	assert.InDelta(t, 295.0/24.0, float64(large)/float64(small), 2.0)
}

func TestNegativeBarsWithoutBounds(t *testing.T) {
	spec := Spec{
		Role:   "negatives",
		Kind:   KindBarPair,
		Labels: []string{"FY24", "FY25"},
		Series: []Series{{Values: []float64{-100, -50}, Color: "#123456"}},
	}
	r := NewRenderer(t.TempDir(), WithDPI(100))
	data, err := r.Encode(spec)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	heights := columnRuns(img, color.NRGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff})
	require.Len(t, heights, 2)
	assert.Positive(t, heights[1], "the smaller loss must stay visible")
	assert.InDelta(t, 2.0, float64(heights[0])/float64(heights[1]), 0.1)
}

func TestNegativeColor(t *testing.T) {
	tests := []struct {
		name     string
		negative string
		wantPos  int
		wantNeg  int
	}{
		{"split colors", "#654321", 1, 1},
		{"single color", "", 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := Spec{
				Role:   "pnl",
				Kind:   KindBarPair,
				Labels: []string{"FY24", "FY25"},
				Series: []Series{{Values: []float64{100, -50}, Color: "#123456", NegativeColor: tt.negative}},
			}
			r := NewRenderer(t.TempDir(), WithDPI(100))
			data, err := r.Encode(spec)
			require.NoError(t, err)
			img, err := png.Decode(bytes.NewReader(data))
			require.NoError(t, err)

			assert.Len(t, columnRuns(img, color.NRGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff}), tt.wantPos)
			assert.Len(t, columnRuns(img, color.NRGBA{R: 0x65, G: 0x43, B: 0x21, A: 0xff}), tt.wantNeg)
		})
	}

	_, err := NewRenderer(t.TempDir()).Encode(Spec{
		Role:   "pnl",
		Kind:   KindBarPair,
		Labels: []string{"FY25"},
		Series: []Series{{Values: []float64{-1}, NegativeColor: "not-a-color"}},
	})
	assert.ErrorIs(t, err, ErrInvalidSpec)
}

// columnRuns groups adjacent pixel columns containing c and returns the
// tallest column count of each group, left to right.
func columnRuns(img image.Image, c color.NRGBA) []int {
	b := img.Bounds()
	var runs []int
	in := false
	for x := b.Min.X; x < b.Max.X; x++ {
		n := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			if color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA) == c {
				n++
			}
		}
		switch {
		case n > 0 && !in:
			runs = append(runs, n)
			in = true
		case n > 0:
			runs[len(runs)-1] = max(runs[len(runs)-1], n)
		default:
			in = false
		}
	}
	return runs
}

func TestRenderAll(t *testing.T) {
	r := newTestRenderer(t)
	paths, err := r.RenderAll(context.Background(), []Spec{revenueSpec(), segmentSpec()})
	require.NoError(t, err)
	assert.Len(t, paths, 2)
	for role, p := range paths {
		assert.FileExists(t, p, role)
	}
}

func TestRenderAllRejectsDuplicateRoles(t *testing.T) {
	r := newTestRenderer(t)
	_, err := r.RenderAll(context.Background(), []Spec{segmentSpec(), segmentSpec()})
	assert.ErrorIs(t, err, ErrInvalidSpec)
}

func TestRenderAllHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := newTestRenderer(t)
	_, err := r.RenderAll(ctx, []Spec{segmentSpec()})
	assert.ErrorIs(t, err, context.Canceled)
}

// ── Helpers ──

func TestWedges(t *testing.T) {
	ws := wedges([]float64{50, 25, 25})
	require.Len(t, ws, 3)
	assert.Equal(t, 90.0, ws[0].from)
	assert.Equal(t, 270.0, ws[0].to)
	assert.Equal(t, 450.0, ws[2].to)
	assert.InDelta(t, 25.0, ws[1].share, 1e-9)
}

func TestSecondaryScale(t *testing.T) {
	sc := secondaryScale{min: 0, max: 1000, min2: 0, max2: 120}
	assert.InDelta(t, 500.0, sc.toPrimary(60), 1e-9)
	assert.InDelta(t, 60.0, sc.fromPrimary(500), 1e-9)
	assert.InDelta(t, 33.0, sc.fromPrimary(sc.toPrimary(33)), 1e-9)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "₹2,887", formatValue("inr", 2887))
	assert.Equal(t, "₹16,539 Cr", formatValue("cr", 16539))
	assert.Equal(t, "12.5%", formatValue("pct", 12.5))
	assert.Equal(t, "₹1,23,456.50", formatValue("inr2", 123456.5))
	assert.Equal(t, "₹19.27 L", formatValue("lakh", 1927345))
	assert.Equal(t, "-1.23%", formatValue("chg", -1.23))
	assert.Equal(t, "-2%", formatValue("%.0f%%", -2))
	assert.Equal(t, "", formatValue("", 1))
	assert.Equal(t, "0.33", trimFloat(1.0/3))
	assert.Equal(t, "Q1 FY25", flatLabel("Q1\nFY25"))
}

func TestColorAt(t *testing.T) {
	r := newTestRenderer(t)
	c, err := r.colorAt("", 1)
	require.NoError(t, err)
	assert.Equal(t, r.palette.Highlight, c)

	_, err = r.colorAt("not-a-color", 0)
	assert.ErrorIs(t, err, ErrInvalidSpec)
}
