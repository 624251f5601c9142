package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/seenimoa/stockreport/internal/config"
	"github.com/seenimoa/stockreport/internal/document"
	"github.com/seenimoa/stockreport/internal/report"
	"github.com/seenimoa/stockreport/internal/style"
	"github.com/seenimoa/stockreport/pkg/utils"
)

var errNoTarget = errors.New("specify a ticker, --all or --bundle")

// newLogger builds the process logger. Logs go to stderr so stdout stays
// free for command output.
func newLogger(lc config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = lc.Format
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if lc.Format == "console" {
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zc.DisableStacktrace = true
		zc.Sampling = nil
	}
	return zc.Build()
}

// newAssembler registers the configured fonts and page geometry.
func newAssembler(c *config.Config, log *zap.Logger) (*document.Assembler, error) {
	setup := document.PageSetup{
		Size:         c.Page.Size,
		MarginTop:    c.Page.MarginTop,
		MarginBottom: c.Page.MarginBottom,
		MarginLeft:   c.Page.MarginLeft,
		MarginRight:  c.Page.MarginRight,
	}

	fonts := document.EmbeddedFonts(c.Fonts.Family)
	if !c.Fonts.Embedded() {
		var err error
		fonts, err = document.LoadFonts(c.Fonts.Family, document.FontFiles{
			Regular:    c.Fonts.Regular,
			Bold:       c.Fonts.Bold,
			Italic:     c.Fonts.Italic,
			BoldItalic: c.Fonts.BoldItalic,
		})
		if err != nil {
			return nil, err
		}
	}
	for _, face := range document.Faces() {
		log.Debug("font registered", zap.String("face", string(face)), zap.String("source", fonts.Source(face)))
	}

	return document.NewAssembler(setup, style.Default(),
		document.WithFonts(fonts),
		document.WithLogger(log))
}

// newGenerator applies the command's --out and --html flags over the
// loaded configuration.
func newGenerator(cmd *cobra.Command) (*report.Generator, error) {
	rc := report.Config{
		OutputDir: cfg.Output.Dir,
		HTML:      cfg.Output.HTML,
		ChartDPI:  cfg.Charts.DPI,
	}
	if f := cmd.Flags().Lookup("out"); f != nil && f.Value.String() != "" {
		rc.OutputDir = f.Value.String()
	}
	if html, err := cmd.Flags().GetBool("html"); err == nil && html {
		rc.HTML = true
	}

	asm, err := newAssembler(cfg, logger)
	if err != nil {
		return nil, err
	}
	return report.NewGenerator(rc, asm, report.WithLogger(logger)), nil
}

// resolveBundles turns command arguments into bundles. An external bundle
// file comes first, then the named tickers (or the whole catalog with all).
func resolveBundles(args []string, all bool, bundleFile string) ([]*report.Bundle, error) {
	if len(args) == 0 && !all && bundleFile == "" {
		return nil, errNoTarget
	}
	if all && len(args) > 0 {
		return nil, fmt.Errorf("--all does not take ticker arguments")
	}

	var bundles []*report.Bundle
	if bundleFile != "" {
		b, err := report.LoadFile(bundleFile)
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, b)
	}
	if len(args) == 0 && !all {
		return bundles, nil
	}

	catalog, err := report.NewCatalog()
	if err != nil {
		return nil, err
	}
	if all {
		return append(bundles, catalog.All()...), nil
	}

	seen := make(map[string]bool, len(args))
	for _, a := range args {
		b, err := catalog.Get(a)
		if err != nil {
			return nil, err
		}
		if seen[b.Ticker] {
			continue
		}
		seen[b.Ticker] = true
		bundles = append(bundles, b)
	}
	return bundles, nil
}

// singleBundle resolves exactly one bundle for charts and preview.
func singleBundle(cmd *cobra.Command, args []string) (*report.Bundle, error) {
	bundleFile, _ := cmd.Flags().GetString("bundle")
	if bundleFile != "" && len(args) > 0 {
		return nil, fmt.Errorf("give either a ticker or --bundle, not both")
	}
	bundles, err := resolveBundles(args, false, bundleFile)
	if err != nil {
		return nil, err
	}
	return bundles[0], nil
}

func indent(s, prefix string) string {
	lines := strings.SplitAfter(s, "\n")
	var sb strings.Builder
	for _, l := range lines {
		if l == "" {
			continue
		}
		sb.WriteString(prefix + l)
	}
	return sb.String()
}

// listLine is one row of the list command: ticker, report date, company
// and output file.
func listLine(b *report.Bundle) string {
	date := "-"
	if d, err := b.Date(); err == nil {
		date = utils.FormatDateIST(d)
	}
	return fmt.Sprintf("  %-12s %-10s  %-40s %s", b.Ticker, date, b.Company, b.File)
}
