package report

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/stockreport/internal/chart"
	"github.com/seenimoa/stockreport/internal/style"
)

const minimalBundle = `
ticker: nse:testco
company: Test Company Ltd
short_name: TestCo
listing: "NSE: TESTCO | BSE: 500001"
report_date: "2026-02-03"
file: TestCo_Report.pdf
cover:
  metrics:
    - ["Current Price", "₹660", "Market Cap", "₹16,539 Cr"]
  verdict:
    call: ACCUMULATE
    summary: "Expected Value: Rs 756"
    bull: Margin expansion
    bear: Competitive intensity
  notes: ["Prices as of Jan 29, 2026"]
  disclaimer: Not investment advice.
charts:
  - role: revenue
    kind: bar-pair
    title: Quarterly Revenue
    labels: [Q1, Q2, Q3]
    series:
      - name: Revenue
        values: [608, 635, 704]
      - name: Net Profit
        values: [44, 52, 28]
        secondary: true
    y: {min: 0, max: 1000}
    y2: {min: 0, max: 120}
sections:
  - title: Company Snapshot
    blocks:
      - type: paragraph
        text: <b>TestCo</b> makes snacks.
      - type: chart
        role: revenue
        width: 14
  - title: Conclusion
    blocks:
      - type: callout
        tone: warning
        text: Watch input costs.
      - type: table
        rows:
          - [Scenario, Price]
          - [Bull, "₹900"]
closing:
  disclaimer: For education only.
  sources: Screener.in
`

func parseMinimal(t *testing.T, edit func(string) string) (*Bundle, error) {
	t.Helper()
	src := minimalBundle
	if edit != nil {
		src = edit(src)
	}
	return ParseBundle([]byte(src), "test.yaml")
}

func TestParseBundleDefaults(t *testing.T) {
	b, err := parseMinimal(t, nil)
	require.NoError(t, err)

	assert.Equal(t, "TESTCO", b.Ticker)
	assert.Equal(t, DefaultHorizon, b.Horizon)
	assert.Equal(t, 12, b.OutlookMonths)
	assert.Equal(t, "Equity Research", b.Author)
	assert.Equal(t, "test.yaml", b.Source())
	require.Len(t, b.Charts, 1)
	assert.Equal(t, chart.KindBarPair, b.Charts[0].Kind)

	d, err := b.Date()
	require.NoError(t, err)
	assert.Equal(t, 3, d.Day())
}

func TestParseBundleShortNameFallsBackToCompany(t *testing.T) {
	b, err := parseMinimal(t, func(s string) string {
		return strings.Replace(s, "short_name: TestCo\n", "", 1)
	})
	require.NoError(t, err)
	assert.Equal(t, "Test Company Ltd", b.ShortName)
}

func TestParseBundleErrors(t *testing.T) {
	tests := []struct {
		name string
		edit func(string) string
		want error
	}{
		{
			name: "unknown field",
			edit: func(s string) string { return s + "colour: red\n" },
			want: ErrInvalidBundle,
		},
		{
			name: "file with directory",
			edit: func(s string) string {
				return strings.Replace(s, "file: TestCo_Report.pdf", "file: out/TestCo.pdf", 1)
			},
			want: ErrInvalidBundle,
		},
		{
			name: "file without pdf extension",
			edit: func(s string) string { return strings.Replace(s, "TestCo_Report.pdf", "TestCo_Report.txt", 1) },
			want: ErrInvalidBundle,
		},
		{
			name: "bad report date",
			edit: func(s string) string { return strings.Replace(s, "2026-02-03", "03/02/2026", 1) },
			want: ErrInvalidBundle,
		},
		{
			name: "short metric row",
			edit: func(s string) string {
				return strings.Replace(s, `["Current Price", "₹660", "Market Cap", "₹16,539 Cr"]`, `["Current Price", "₹660"]`, 1)
			},
			want: ErrInvalidBundle,
		},
		{
			name: "missing verdict call",
			edit: func(s string) string { return strings.Replace(s, "call: ACCUMULATE", "call: \"\"", 1) },
			want: ErrInvalidBundle,
		},
		{
			name: "unknown verdict tone",
			edit: func(s string) string {
				return strings.Replace(s, "call: ACCUMULATE", "call: ACCUMULATE\n    tone: purple", 1)
			},
			want: ErrInvalidBundle,
		},
		{
			name: "unknown block type",
			edit: func(s string) string { return strings.Replace(s, "type: paragraph", "type: marquee", 1) },
			want: ErrInvalidBundle,
		},
		{
			name: "chart block with unknown role",
			edit: func(s string) string {
				return strings.Replace(s, "role: revenue\n        width: 14", "role: margins\n        width: 14", 1)
			},
			want: ErrUnknownChart,
		},
		{
			name: "series length mismatch",
			edit: func(s string) string { return strings.Replace(s, "[44, 52, 28]", "[44, 52]", 1) },
			want: chart.ErrSeriesLength,
		},
		{
			name: "duplicate chart role",
			edit: func(s string) string {
				dup := "  - role: revenue\n    kind: pie\n    labels: [A]\n    series:\n      - values: [1]\nsections:"
				return strings.Replace(s, "sections:", dup, 1)
			},
			want: ErrInvalidBundle,
		},
		{
			name: "no sections",
			edit: func(s string) string { return s[:strings.Index(s, "sections:")] },
			want: ErrInvalidBundle,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseMinimal(t, tt.edit)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestVerdictTone(t *testing.T) {
	tests := []struct {
		in   string
		want style.Tag
	}{
		{"", style.Positive},
		{"positive", style.Positive},
		{"BUY", style.Positive},
		{"hold", style.Caution},
		{" Warning ", style.Caution},
		{"caution", style.Caution},
	}
	for _, tt := range tests {
		got, err := verdictTone(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	_, err := verdictTone("sell-everything")
	assert.Error(t, err)
}

func TestCatalogEmbedded(t *testing.T) {
	c, err := NewCatalog()
	require.NoError(t, err)

	assert.Equal(t, []string{"ABFRL", "ABLBL", "BIKAJI", "CELLO", "IDFCFIRSTB", "SULA"}, c.List())

	for _, alias := range []string{"bikaji", "Bikaji Foods", "NSE:BIKAJI", "BIKAJI.NS"} {
		b, err := c.Get(alias)
		require.NoError(t, err, alias)
		assert.Equal(t, "BIKAJI", b.Ticker, alias)
	}

	b, err := c.Get("idfc first bank")
	require.NoError(t, err)
	assert.Equal(t, "IDFC_First_Bank_Research_Report_Feb2026.pdf", b.File)

	for alias, ticker := range map[string]string{
		"cello world":                     "CELLO",
		"Sula Vineyards":                  "SULA",
		"aditya birla fashion and retail": "ABFRL",
	} {
		b, err := c.Get(alias)
		require.NoError(t, err, alias)
		assert.Equal(t, ticker, b.Ticker, alias)
	}

	_, err = c.Get("RELIANCE")
	assert.ErrorIs(t, err, ErrUnknownTicker)

	all := c.All()
	require.Len(t, all, 6)
	assert.Equal(t, "ABFRL", all[0].Ticker)
	assert.Equal(t, "SULA", all[5].Ticker)
}

func TestEmbeddedBundlesCarryTheirCharts(t *testing.T) {
	c, err := NewCatalog()
	require.NoError(t, err)

	want := map[string][]string{
		"BIKAJI":     {"revenue", "segments", "price", "peers", "margins"},
		"IDFCFIRSTB": {"nii_profit", "nim_cti", "loan_pie", "price", "peers", "asset_quality"},
		"ABLBL":      {"revenue", "margins", "brands", "price", "peers", "stores"},
		"ABFRL":      {"revenue", "margins", "segments", "price", "peers"},
		"CELLO":      {"revenue", "margins", "segments", "price", "peers"},
		"SULA":       {"revenue", "margins", "segments", "price", "peers"},
	}
	for ticker, roles := range want {
		b, err := c.Get(ticker)
		require.NoError(t, err)
		var got []string
		for _, s := range b.Charts {
			got = append(got, s.Role)
		}
		assert.Equal(t, roles, got, ticker)
	}
}

func TestCatalogRejectsDuplicateTickers(t *testing.T) {
	fsys := fstest.MapFS{
		"bundles/a.yaml":     {Data: []byte(minimalBundle)},
		"bundles/b.yaml":     {Data: []byte(minimalBundle)},
		"bundles/readme.txt": {Data: []byte("ignored")},
	}
	_, err := catalogFrom(fsys, "bundles")
	assert.ErrorIs(t, err, ErrInvalidBundle)

	delete(fsys, "bundles/b.yaml")
	c, err := catalogFrom(fsys, "bundles")
	require.NoError(t, err)
	assert.Equal(t, []string{"TESTCO"}, c.List())
}

func TestLoadFile(t *testing.T) {
	_, err := LoadFile("testdata/does-not-exist.yaml")
	assert.Error(t, err)

	b, err := LoadFile("bundles/bikaji.yaml")
	require.NoError(t, err)
	assert.Equal(t, "BIKAJI", b.Ticker)
	assert.Equal(t, "bundles/bikaji.yaml", b.Source())
}

func TestLossBarsUseNegativeColor(t *testing.T) {
	c, err := NewCatalog()
	require.NoError(t, err)

	b, err := c.Get("ABFRL")
	require.NoError(t, err)
	require.NotEmpty(t, b.Charts)
	rev := b.Charts[0]
	require.Equal(t, "revenue", rev.Role)

	var pat *chart.Series
	for i := range rev.Series {
		if rev.Series[i].Secondary {
			pat = &rev.Series[i]
		}
	}
	require.NotNil(t, pat)
	assert.NotEmpty(t, pat.NegativeColor)
	for _, v := range pat.Values {
		assert.Less(t, v, 0.0)
	}
	require.NotNil(t, rev.Y2.Min)
	assert.Less(t, *rev.Y2.Min, 0.0)
}
