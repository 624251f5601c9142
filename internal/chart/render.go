package chart

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/seenimoa/stockreport/internal/style"
)

// ════════════════════════════════════════════════════════════════════
// Renderer: Spec → PNG file
// ════════════════════════════════════════════════════════════════════

// DefaultDPI matches the resolution the reports are laid out for.
const DefaultDPI = 150

// Renderer draws specs into PNG files under one directory. A Renderer holds
// no per-chart state and may be reused for any number of specs.
type Renderer struct {
	dir     string
	dpi     float64
	palette style.Palette
	log     *zap.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithDPI sets the output resolution.
func WithDPI(dpi int) Option {
	return func(r *Renderer) {
		if dpi > 0 {
			r.dpi = float64(dpi)
		}
	}
}

// WithPalette overrides the default report palette.
func WithPalette(p style.Palette) Option {
	return func(r *Renderer) { r.palette = p }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRenderer returns a Renderer writing into dir.
func NewRenderer(dir string, opts ...Option) *Renderer {
	r := &Renderer{
		dir:     dir,
		dpi:     DefaultDPI,
		palette: style.DefaultPalette(),
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Dir returns the output directory.
func (r *Renderer) Dir() string { return r.dir }

// Render validates spec, draws it and writes <dir>/chart_<role>.png.
// Nothing is written when validation or drawing fails.
func (r *Renderer) Render(spec Spec) (string, error) {
	if err := spec.Validate(); err != nil {
		return "", err
	}

	data, err := r.Encode(spec)
	if err != nil {
		return "", err
	}

	path := filepath.Join(r.dir, spec.FileName())
	if err := writeFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("writing chart %s: %w", spec.Role, err)
	}

	r.log.Debug("chart rendered",
		zap.String("role", spec.Role),
		zap.String("kind", string(spec.Kind)),
		zap.String("path", path),
		zap.Int("bytes", len(data)),
	)
	return path, nil
}

// Encode draws spec and returns the PNG bytes without touching disk.
func (r *Renderer) Encode(spec Spec) ([]byte, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	var err error
	switch spec.Kind {
	case KindBarPair:
		err = r.drawBarPair(&buf, spec)
	case KindLineTrend:
		err = r.drawLineTrend(&buf, spec)
	case KindPie:
		err = r.drawPie(&buf, spec)
	case KindPriceBands:
		err = r.drawPriceBands(&buf, spec)
	case KindMultiPanelBar:
		err = r.drawPanels(&buf, spec)
	default:
		err = fmt.Errorf("%w: unknown kind %q", ErrInvalidSpec, spec.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("drawing chart %s: %w", spec.Role, err)
	}
	return buf.Bytes(), nil
}

// RenderAll renders specs in order and returns role → path. Roles must be
// unique. The context is checked between charts.
func (r *Renderer) RenderAll(ctx context.Context, specs []Spec) (map[string]string, error) {
	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		if seen[s.Role] {
			return nil, fmt.Errorf("%w: duplicate role %q", ErrInvalidSpec, s.Role)
		}
		seen[s.Role] = true
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating chart directory: %w", err)
	}

	paths := make(map[string]string, len(specs))
	for _, s := range specs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := r.Render(s)
		if err != nil {
			return nil, err
		}
		paths[s.Role] = p
	}
	return paths, nil
}

// writeFileAtomic writes data to a temp file beside path and renames it
// into place, so readers never observe a partial image.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".chart-*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Chmod(name, 0o644); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}
