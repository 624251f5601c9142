package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/seenimoa/stockreport/internal/config"
	"github.com/seenimoa/stockreport/internal/document"
	"github.com/seenimoa/stockreport/internal/report"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		lc      config.LoggingConfig
		enabled zapcore.Level
		wantErr bool
	}{
		{"console info", config.LoggingConfig{Level: "info", Format: "console"}, zapcore.InfoLevel, false},
		{"json debug", config.LoggingConfig{Level: "debug", Format: "json"}, zapcore.DebugLevel, false},
		{"bad level", config.LoggingConfig{Level: "loud", Format: "json"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := newLogger(tt.lc)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.enabled))
			assert.False(t, l.Core().Enabled(tt.enabled-1))
		})
	}
}

func TestResolveBundles(t *testing.T) {
	_, err := resolveBundles(nil, false, "")
	assert.ErrorIs(t, err, errNoTarget)

	_, err = resolveBundles([]string{"BIKAJI"}, true, "")
	assert.Error(t, err)

	all, err := resolveBundles(nil, true, "")
	require.NoError(t, err)
	assert.Len(t, all, 6)

	named, err := resolveBundles([]string{"bikaji", "NSE:BIKAJI", "idfc first bank"}, false, "")
	require.NoError(t, err)
	require.Len(t, named, 2)
	assert.Equal(t, "BIKAJI", named[0].Ticker)
	assert.Equal(t, "IDFCFIRSTB", named[1].Ticker)

	_, err = resolveBundles([]string{"RELIANCE"}, false, "")
	assert.ErrorIs(t, err, report.ErrUnknownTicker)
}

func TestResolveBundlesFromFile(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("..", "..", "internal", "report", "bundles", "ablbl.yaml"))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "external.yaml")
	require.NoError(t, os.WriteFile(path, src, 0o644))

	bundles, err := resolveBundles([]string{"BIKAJI"}, false, path)
	require.NoError(t, err)
	require.Len(t, bundles, 2)
	assert.Equal(t, "ABLBL", bundles[0].Ticker)
	assert.Equal(t, path, bundles[0].Source())
	assert.Equal(t, "BIKAJI", bundles[1].Ticker)
}

func TestNewAssembler(t *testing.T) {
	c := &config.Config{
		Page:  config.PageConfig{Size: "A4", MarginTop: 1.5, MarginBottom: 1.5, MarginLeft: 2, MarginRight: 2},
		Fonts: config.FontsConfig{Family: "Body"},
	}
	asm, err := newAssembler(c, zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, asm)

	c.Page.Size = "B9"
	_, err = newAssembler(c, zap.NewNop())
	assert.ErrorIs(t, err, document.ErrInvalidPage)

	c.Page.Size = "A4"
	missing := filepath.Join(t.TempDir(), "missing.ttf")
	c.Fonts = config.FontsConfig{Family: "Body", Regular: missing, Bold: missing, Italic: missing, BoldItalic: missing}
	_, err = newAssembler(c, zap.NewNop())
	assert.ErrorIs(t, err, document.ErrFontMissing)
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "  a = 1\n  b = 2\n", indent("a = 1\nb = 2\n", "  "))
	assert.Equal(t, "", indent("", "  "))
}

func TestListLine(t *testing.T) {
	c, err := report.NewCatalog()
	require.NoError(t, err)

	tests := []struct {
		ticker string
		want   []string
	}{
		{"CELLO", []string{"CELLO", "2026-02-04", "Cello World Limited", "Cello_World_Research_Report_Feb2026.pdf"}},
		{"SULA", []string{"SULA", "2026-02-04", "Sula Vineyards Limited", "Sula_Vineyards_Research_Report_Feb2026.pdf"}},
	}
	for _, tt := range tests {
		t.Run(tt.ticker, func(t *testing.T) {
			b, err := c.Get(tt.ticker)
			require.NoError(t, err)
			line := listLine(b)
			assert.Equal(t, tt.want[:2], strings.Fields(line)[:2])
			for _, w := range tt.want {
				assert.Contains(t, line, w)
			}
		})
	}
}
