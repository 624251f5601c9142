// Package chart renders report figures to PNG files.
//
// A Spec describes one figure: its role (used for the file name), one of a
// fixed set of kinds, category labels, numeric series and display options.
// Specs are plain values; the Renderer never mutates them.
package chart

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrSeriesLength is returned when a series does not have exactly one
	// value per category label.
	ErrSeriesLength = errors.New("series length does not match labels")
	// ErrInvalidSpec is returned for any other malformed spec.
	ErrInvalidSpec = errors.New("invalid chart spec")
)

// Kind selects the presentation mode.
type Kind string

const (
	KindBarPair       Kind = "bar-pair"
	KindLineTrend     Kind = "line-trend"
	KindPie           Kind = "pie"
	KindPriceBands    Kind = "price-bands"
	KindMultiPanelBar Kind = "multi-panel-bar"
)

// Kinds lists every supported kind.
func Kinds() []Kind {
	return []Kind{KindBarPair, KindLineTrend, KindPie, KindPriceBands, KindMultiPanelBar}
}

// Axis describes a value axis. Nil bounds are computed from the data.
type Axis struct {
	Label string   `yaml:"label"`
	Min   *float64 `yaml:"min"`
	Max   *float64 `yaml:"max"`
}

// Bounded reports whether both bounds are fixed.
func (a Axis) Bounded() bool { return a.Min != nil && a.Max != nil }

// Series is one named run of values, aligned with the spec labels.
type Series struct {
	Name   string    `yaml:"name"`
	Values []float64 `yaml:"values"`
	Color  string    `yaml:"color"`
	// NegativeColor fills bars below zero. Empty keeps Color.
	NegativeColor string `yaml:"negative_color"`
	// Secondary plots the series against the Y2 axis.
	Secondary bool `yaml:"secondary"`
	// Line draws the series as a line with markers inside a bar chart.
	Line    bool `yaml:"line"`
	Dashed  bool `yaml:"dashed"`
	Fill    bool `yaml:"fill"`
	Markers bool `yaml:"markers"`
	// LabelFormat is a fmt verb for value labels ("₹%.0f", "%.1f%%").
	// Empty means no labels.
	LabelFormat string `yaml:"label_format"`
}

// Band is a shaded horizontal range, e.g. a support zone.
type Band struct {
	Label string  `yaml:"label"`
	Low   float64 `yaml:"low"`
	High  float64 `yaml:"high"`
	Color string  `yaml:"color"`
}

// Annotation marks a point with text. X is a category index.
type Annotation struct {
	Text  string  `yaml:"text"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Color string  `yaml:"color"`
}

// Divider is a vertical marker between categories, e.g. actuals vs
// estimates. At is in category-index units.
type Divider struct {
	At      float64 `yaml:"at"`
	Caption string  `yaml:"caption"`
}

// Panel is one small bar chart inside a multi-panel figure.
type Panel struct {
	Title       string    `yaml:"title"`
	Labels      []string  `yaml:"labels"`
	Values      []float64 `yaml:"values"`
	Colors      []string  `yaml:"colors"`
	Y           Axis      `yaml:"y"`
	LabelFormat string    `yaml:"label_format"`
}

// Spec is a complete, immutable chart description.
type Spec struct {
	Role        string       `yaml:"role"`
	Kind        Kind         `yaml:"kind"`
	Title       string       `yaml:"title"`
	Note        string       `yaml:"note"`
	Labels      []string     `yaml:"labels"`
	Series      []Series     `yaml:"series"`
	Y           Axis         `yaml:"y"`
	Y2          Axis         `yaml:"y2"`
	Colors      []string     `yaml:"colors"`
	Explode     []float64    `yaml:"explode"`
	Bands       []Band       `yaml:"bands"`
	Annotations []Annotation `yaml:"annotations"`
	Panels      []Panel      `yaml:"panels"`
	Divider     *Divider     `yaml:"divider"`
	// Width and Height are in inches at the renderer DPI.
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

var roleRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// FileName returns the PNG name for the spec's role.
func (s Spec) FileName() string {
	return "chart_" + s.Role + ".png"
}

// Validate checks the spec before any drawing happens. Series are never
// truncated or padded: a length mismatch is an error.
func (s Spec) Validate() error {
	if !roleRe.MatchString(s.Role) {
		return fmt.Errorf("%w: role %q must be lowercase letters, digits, '-' or '_'", ErrInvalidSpec, s.Role)
	}
	if s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("%w: %s: negative size", ErrInvalidSpec, s.Role)
	}
	if err := checkAxis(s.Role, "y", s.Y); err != nil {
		return err
	}
	if err := checkAxis(s.Role, "y2", s.Y2); err != nil {
		return err
	}

	switch s.Kind {
	case KindBarPair, KindLineTrend, KindPriceBands:
		if err := s.validateCategorical(); err != nil {
			return err
		}
	case KindPie:
		if err := s.validatePie(); err != nil {
			return err
		}
	case KindMultiPanelBar:
		if err := s.validatePanels(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidSpec, s.Role, s.Kind)
	}

	for _, b := range s.Bands {
		if b.High < b.Low {
			return fmt.Errorf("%w: %s: band %q high %.2f below low %.2f", ErrInvalidSpec, s.Role, b.Label, b.High, b.Low)
		}
	}
	if s.Kind == KindPie || s.Kind == KindMultiPanelBar {
		return nil
	}
	for _, a := range s.Annotations {
		if a.X < 0 || a.X > float64(len(s.Labels)-1) {
			return fmt.Errorf("%w: %s: annotation %q outside categories", ErrInvalidSpec, s.Role, a.Text)
		}
	}
	return nil
}

func (s Spec) validateCategorical() error {
	if len(s.Labels) == 0 {
		return fmt.Errorf("%w: %s: no labels", ErrInvalidSpec, s.Role)
	}
	if len(s.Series) == 0 {
		return fmt.Errorf("%w: %s: no series", ErrInvalidSpec, s.Role)
	}
	secondary := false
	for _, ser := range s.Series {
		if len(ser.Values) != len(s.Labels) {
			return fmt.Errorf("%w: %s: series %q has %d values for %d labels",
				ErrSeriesLength, s.Role, ser.Name, len(ser.Values), len(s.Labels))
		}
		secondary = secondary || ser.Secondary
	}
	if s.Kind == KindBarPair {
		if len(s.Series) > 2 {
			return fmt.Errorf("%w: %s: bar-pair takes one or two series, got %d", ErrInvalidSpec, s.Role, len(s.Series))
		}
		if secondary && !s.Y2.Bounded() {
			return fmt.Errorf("%w: %s: secondary series needs fixed y2 bounds", ErrInvalidSpec, s.Role)
		}
		if secondary && !s.Y.Bounded() {
			return fmt.Errorf("%w: %s: secondary series needs fixed y bounds", ErrInvalidSpec, s.Role)
		}
	}
	if s.Divider != nil && (s.Divider.At < -0.5 || s.Divider.At > float64(len(s.Labels))-0.5) {
		return fmt.Errorf("%w: %s: divider outside categories", ErrInvalidSpec, s.Role)
	}
	return nil
}

func (s Spec) validatePie() error {
	if len(s.Series) != 1 {
		return fmt.Errorf("%w: %s: pie takes exactly one series", ErrInvalidSpec, s.Role)
	}
	vals := s.Series[0].Values
	if len(vals) != len(s.Labels) {
		return fmt.Errorf("%w: %s: %d wedges for %d labels", ErrSeriesLength, s.Role, len(vals), len(s.Labels))
	}
	if len(s.Colors) > 0 && len(s.Colors) != len(vals) {
		return fmt.Errorf("%w: %s: %d colors for %d wedges", ErrSeriesLength, s.Role, len(s.Colors), len(vals))
	}
	if len(s.Explode) > 0 && len(s.Explode) != len(vals) {
		return fmt.Errorf("%w: %s: %d explode offsets for %d wedges", ErrSeriesLength, s.Role, len(s.Explode), len(vals))
	}
	total := 0.0
	for _, v := range vals {
		if v < 0 {
			return fmt.Errorf("%w: %s: negative wedge %.2f", ErrInvalidSpec, s.Role, v)
		}
		total += v
	}
	if total <= 0 {
		return fmt.Errorf("%w: %s: pie total is zero", ErrInvalidSpec, s.Role)
	}
	return nil
}

func (s Spec) validatePanels() error {
	if len(s.Panels) == 0 {
		return fmt.Errorf("%w: %s: no panels", ErrInvalidSpec, s.Role)
	}
	for i, p := range s.Panels {
		if len(p.Labels) == 0 {
			return fmt.Errorf("%w: %s: panel %d has no labels", ErrInvalidSpec, s.Role, i)
		}
		if len(p.Values) != len(p.Labels) {
			return fmt.Errorf("%w: %s: panel %q has %d values for %d labels",
				ErrSeriesLength, s.Role, p.Title, len(p.Values), len(p.Labels))
		}
		if len(p.Colors) > 0 && len(p.Colors) != len(p.Values) {
			return fmt.Errorf("%w: %s: panel %q has %d colors for %d bars",
				ErrSeriesLength, s.Role, p.Title, len(p.Colors), len(p.Values))
		}
		if err := checkAxis(s.Role, p.Title, p.Y); err != nil {
			return err
		}
	}
	return nil
}

func checkAxis(role, name string, a Axis) error {
	if a.Bounded() && *a.Max <= *a.Min {
		return fmt.Errorf("%w: %s: %s axis max %.2f not above min %.2f", ErrInvalidSpec, role, name, *a.Max, *a.Min)
	}
	return nil
}

// F returns a pointer to v, for literal axis bounds.
func F(v float64) *float64 { return &v }
