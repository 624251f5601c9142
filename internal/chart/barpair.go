package chart

import (
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ════════════════════════════════════════════════════════════════════
// Bar pair: grouped bars, optional secondary scale
// ════════════════════════════════════════════════════════════════════

// barFill is the share of a category slot covered by its bars.
const barFill = 0.8

// secondaryScale maps values on the y2 range onto the y range so both
// series share one plotting area. The true values are kept for labels.
type secondaryScale struct {
	min, max, min2, max2 float64
}

func (s secondaryScale) toPrimary(v float64) float64 {
	return s.min + (v-s.min2)*(s.max-s.min)/(s.max2-s.min2)
}

func (s secondaryScale) fromPrimary(v float64) float64 {
	return s.min2 + (v-s.min)*(s.max2-s.min2)/(s.max-s.min)
}

// swatch is a filled legend thumbnail.
type swatch struct{ color color.Color }

func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.color, c.ClipPolygonY(pts))
}

func (r *Renderer) drawBarPair(w io.Writer, s Spec) error {
	width, height := s.size(8, 4)
	n := len(s.Labels)

	p := newPlot(s.Title)
	addGrid(p)
	p.NominalX(s.Labels...)
	p.Legend.Left = true

	var scale *secondaryScale
	if s.Y.Bounded() && s.Y2.Bounded() {
		scale = &secondaryScale{min: *s.Y.Min, max: *s.Y.Max, min2: *s.Y2.Min, max2: *s.Y2.Max}
	}
	project := func(ser Series, v float64) float64 {
		if ser.Secondary && scale != nil {
			return scale.toPrimary(v)
		}
		return v
	}

	bars := 0
	for _, ser := range s.Series {
		if !ser.Line {
			bars++
		}
	}
	slot := barFill / float64(max(bars, 1))

	dataMin, dataMax := math.Inf(1), math.Inf(-1)
	var bases []float64
	bi := 0
	for si, ser := range s.Series {
		c, err := r.colorAt(ser.Color, si)
		if err != nil {
			return err
		}
		neg := c
		if ser.NegativeColor != "" {
			if neg, err = r.colorAt(ser.NegativeColor, si); err != nil {
				return err
			}
		}

		xs := make([]float64, n)
		ys := make([]float64, n)
		texts := make([]string, n)
		colors := make([]color.Color, n)
		for i, v := range ser.Values {
			xs[i] = float64(i)
			ys[i] = project(ser, v)
			texts[i] = formatValue(ser.LabelFormat, v)
			colors[i] = c.NRGBA(1)
			if v < 0 {
				colors[i] = neg.NRGBA(1)
			}
			dataMin = math.Min(dataMin, ys[i])
			dataMax = math.Max(dataMax, ys[i])
		}

		if ser.Line {
			pts := make(plotter.XYs, n)
			for i := range xs {
				pts[i] = plotter.XY{X: xs[i], Y: ys[i]}
			}
			line, scatter, err := plotter.NewLinePoints(pts)
			if err != nil {
				return err
			}
			line.Color = c.NRGBA(1)
			line.Width = vg.Points(2)
			scatter.GlyphStyle.Color = c.NRGBA(1)
			scatter.GlyphStyle.Shape = draw.CircleGlyph{}
			scatter.GlyphStyle.Radius = vg.Points(3)
			p.Add(line, scatter)
			if ser.Name != "" {
				p.Legend.Add(legendName(ser, s), line, scatter)
			}
			if ser.LabelFormat != "" {
				l, err := valueLabels(xs, ys, texts, c.NRGBA(1), 7, vg.Point{Y: vg.Points(3)})
				if err != nil {
					return err
				}
				p.Add(l)
			}
			continue
		}

		// Bars grow from the series' own zero, which for a secondary
		// series is y2 = 0 projected onto the primary range.
		base := project(ser, 0)
		bases = append(bases, base)
		dataMin = math.Min(dataMin, base)
		dataMax = math.Max(dataMax, base)
		off := (float64(bi) - float64(bars-1)/2) * slot
		for i := range xs {
			x0, x1 := xs[i]+off-slot/2, xs[i]+off+slot/2
			rect, err := plotter.NewPolygon(plotter.XYs{
				{X: x0, Y: base}, {X: x0, Y: ys[i]}, {X: x1, Y: ys[i]}, {X: x1, Y: base},
			})
			if err != nil {
				return err
			}
			rect.Color = colors[i]
			rect.LineStyle.Width = 0
			p.Add(rect)
			xs[i] += off
		}
		if ser.Name != "" && n > 0 {
			p.Legend.Add(legendName(ser, s), swatch{color: colors[0]})
		}
		if ser.LabelFormat != "" {
			if err := addBarLabels(p, xs, ys, texts, colors, base); err != nil {
				return err
			}
		}
		bi++
	}

	applyAxis(&p.Y, s.Y)
	categoryRange(p, n)
	if s.Y.Min == nil {
		p.Y.Min = math.Min(dataMin*1.15, 0)
	}
	if s.Y.Max == nil {
		p.Y.Max = math.Max(dataMax*1.15, 0)
	}

	for _, b := range bases {
		if b > p.Y.Min && b < p.Y.Max {
			if err := addZeroLine(p, n, b); err != nil {
				return err
			}
		}
	}

	if s.Divider != nil {
		if err := addDivider(p, s, p.Y.Min, p.Y.Max); err != nil {
			return err
		}
	}

	if scale != nil && hasSecondary(s) {
		if err := addSecondaryScale(p, s, *scale); err != nil {
			return err
		}
	}

	return r.savePlot(w, p, width, height)
}

// addBarLabels writes value labels above bars that rise from base and
// below bars that hang from it.
func addBarLabels(p *plot.Plot, xs, ys []float64, texts []string, colors []color.Color, base float64) error {
	var up, down []int
	for i := range ys {
		if ys[i] < base {
			down = append(down, i)
		} else {
			up = append(up, i)
		}
	}
	for _, set := range []struct {
		idx   []int
		dy    vg.Length
		align text.YAlignment
	}{
		{up, vg.Points(3), text.YBottom},
		{down, -vg.Points(3), text.YTop},
	} {
		if len(set.idx) == 0 {
			continue
		}
		sx := make([]float64, len(set.idx))
		sy := make([]float64, len(set.idx))
		st := make([]string, len(set.idx))
		for j, i := range set.idx {
			sx[j], sy[j], st[j] = xs[i], ys[i], texts[i]
		}
		l, err := valueLabels(sx, sy, st, colors[set.idx[0]], 7, vg.Point{Y: set.dy})
		if err != nil {
			return err
		}
		for j, i := range set.idx {
			l.TextStyle[j].Color = colors[i]
			l.TextStyle[j].YAlign = set.align
		}
		p.Add(l)
	}
	return nil
}

// addZeroLine draws a thin rule across the categories at y.
func addZeroLine(p *plot.Plot, n int, y float64) error {
	line, err := plotter.NewLine(plotter.XYs{{X: -0.5, Y: y}, {X: float64(n) - 0.5, Y: y}})
	if err != nil {
		return err
	}
	line.Color = color.Black
	line.Width = vg.Points(0.5)
	p.Add(line)
	return nil
}

func hasSecondary(s Spec) bool {
	for _, ser := range s.Series {
		if ser.Secondary {
			return true
		}
	}
	return false
}

// legendName marks series drawn against the right-hand scale.
func legendName(ser Series, s Spec) string {
	if ser.Secondary && s.Y2.Bounded() {
		return ser.Name + " (right scale)"
	}
	return ser.Name
}

// addSecondaryScale draws a right-hand strip of tick values for the y2
// range. gonum plots have a single y axis, so the strip sits inside the
// data area past the last category.
func addSecondaryScale(p *plot.Plot, s Spec, sc secondaryScale) error {
	n := float64(len(s.Labels))
	edge := n - 0.5
	p.X.Max = edge + 0.55

	ticks := plot.DefaultTicks{}.Ticks(sc.min, sc.max)
	var xs, ys []float64
	var texts []string
	for _, t := range ticks {
		if t.Label == "" {
			continue
		}
		xs = append(xs, edge+0.06)
		ys = append(ys, t.Value)
		texts = append(texts, trimFloat(sc.fromPrimary(t.Value)))
	}
	if s.Y2.Label != "" {
		xs = append(xs, edge+0.06)
		ys = append(ys, sc.max)
		texts = append(texts, s.Y2.Label)
	}

	axis, err := plotter.NewLine(plotter.XYs{{X: edge, Y: sc.min}, {X: edge, Y: sc.max}})
	if err != nil {
		return err
	}
	axis.Width = vg.Points(0.75)
	p.Add(axis)

	l, err := valueLabels(xs, ys, texts, noteColor, 7, vg.Point{})
	if err != nil {
		return err
	}
	for i := range l.TextStyle {
		l.TextStyle[i].XAlign = text.XLeft
		l.TextStyle[i].YAlign = text.YCenter
	}
	if s.Y2.Label != "" {
		last := len(l.TextStyle) - 1
		l.TextStyle[last].YAlign = text.YBottom
	}
	p.Add(l)
	return nil
}

// addDivider draws a dashed vertical line from lo to hi between
// categories with a caption to its right.
func addDivider(p *plot.Plot, s Spec, lo, hi float64) error {
	line, err := plotter.NewLine(plotter.XYs{{X: s.Divider.At, Y: lo}, {X: s.Divider.At, Y: hi}})
	if err != nil {
		return err
	}
	line.Color = noteColor
	line.Width = vg.Points(1)
	line.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(line)

	if s.Divider.Caption == "" {
		return nil
	}
	l, err := valueLabels([]float64{s.Divider.At}, []float64{lo + (hi-lo)*0.94}, []string{s.Divider.Caption}, noteColor, 8, vg.Point{X: vg.Points(4)})
	if err != nil {
		return err
	}
	l.TextStyle[0].XAlign = text.XLeft
	l.TextStyle[0].Font = sans(8, false, true)
	p.Add(l)
	return nil
}
