package report

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"

	"github.com/seenimoa/stockreport/pkg/utils"
)

//go:embed bundles/*.yaml
var bundleFS embed.FS

// Catalog is the set of bundles shipped with the binary, keyed by ticker.
type Catalog struct {
	bundles map[string]*Bundle
}

// NewCatalog parses every embedded bundle.
func NewCatalog() (*Catalog, error) {
	return catalogFrom(bundleFS, "bundles")
}

func catalogFrom(fsys fs.FS, dir string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading bundle directory: %w", err)
	}

	c := &Catalog{bundles: make(map[string]*Bundle, len(entries))}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		name := path.Join(dir, e.Name())
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		b, err := ParseBundle(data, name)
		if err != nil {
			return nil, err
		}
		if prev, dup := c.bundles[b.Ticker]; dup {
			return nil, fmt.Errorf("%w: ticker %s defined in %s and %s", ErrInvalidBundle, b.Ticker, prev.source, name)
		}
		c.bundles[b.Ticker] = b
	}
	return c, nil
}

// List returns the catalog tickers in sorted order.
func (c *Catalog) List() []string {
	tickers := make([]string, 0, len(c.bundles))
	for t := range c.bundles {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

// Get returns the bundle for ticker. Aliases, case and exchange prefixes
// are normalized first, so "bikaji foods" and "NSE:BIKAJI" both resolve.
func (c *Catalog) Get(ticker string) (*Bundle, error) {
	b, ok := c.bundles[utils.NormalizeTicker(ticker)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTicker, ticker)
	}
	return b, nil
}

// All returns every bundle in ticker order.
func (c *Catalog) All() []*Bundle {
	out := make([]*Bundle, 0, len(c.bundles))
	for _, t := range c.List() {
		out = append(out, c.bundles[t])
	}
	return out
}

// LoadFile reads a bundle from disk.
func LoadFile(filename string) (*Bundle, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading bundle %s: %w", filename, err)
	}
	return ParseBundle(data, filename)
}
