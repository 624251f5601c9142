package chart

import (
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ════════════════════════════════════════════════════════════════════
// Price bands: price line, moving averages, support/resistance zones
// ════════════════════════════════════════════════════════════════════

const bandAlpha = 0.12

func (r *Renderer) drawPriceBands(w io.Writer, s Spec) error {
	width, height := s.size(8, 4.5)
	n := len(s.Labels)

	p := newPlot(s.Title)
	addGrid(p)
	p.NominalX(s.Labels...)
	p.Y.Label.Text = s.Y.Label

	// Bands go first so lines draw on top of them.
	for i, b := range s.Bands {
		name := b.Color
		if name == "" {
			name = []string{"green", "red"}[i%2]
		}
		c, err := r.colorAt(name, i)
		if err != nil {
			return err
		}
		poly, err := plotter.NewPolygon(plotter.XYs{
			{X: -0.5, Y: b.Low}, {X: float64(n) - 0.5, Y: b.Low},
			{X: float64(n) - 0.5, Y: b.High}, {X: -0.5, Y: b.High},
		})
		if err != nil {
			return err
		}
		poly.Color = c.NRGBA(bandAlpha)
		poly.LineStyle.Width = 0
		poly.LineStyle.Color = poly.Color
		p.Add(poly)
		if b.Label != "" {
			p.Legend.Add(b.Label, poly)
		}
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for i, ser := range s.Series {
		c, err := r.colorAt(ser.Color, i)
		if err != nil {
			return err
		}
		pts := make(plotter.XYs, n)
		for j, v := range ser.Values {
			pts[j] = plotter.XY{X: float64(j), Y: v}
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = c.NRGBA(1)
		if ser.Dashed {
			line.Color = c.NRGBA(0.8)
			line.Width = vg.Points(1.5)
			line.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
		} else {
			line.Width = vg.Points(2)
		}
		p.Add(line)
		thumbs := []plot.Thumbnailer{line}

		if ser.Markers || (!ser.Dashed && i == 0) {
			sc, err := plotter.NewScatter(pts)
			if err != nil {
				return err
			}
			sc.GlyphStyle.Color = c.NRGBA(1)
			sc.GlyphStyle.Shape = draw.CircleGlyph{}
			sc.GlyphStyle.Radius = vg.Points(2.5)
			p.Add(sc)
			thumbs = append(thumbs, sc)
		}
		if ser.Name != "" {
			p.Legend.Add(ser.Name, thumbs...)
		}
	}

	for _, a := range s.Annotations {
		if err := r.addPointAnnotation(p, a); err != nil {
			return err
		}
	}

	if s.Note != "" {
		p.X.Label.Text = s.Note
		p.X.Label.TextStyle.Font = sans(6, false, true)
		p.X.Label.TextStyle.Color = noteColor
	}

	applyAxis(&p.Y, s.Y)
	categoryRange(p, n)
	if s.Y.Min == nil {
		p.Y.Min = lo - (hi-lo)*0.1
	}
	if s.Y.Max == nil {
		p.Y.Max = hi + (hi-lo)*0.1
	}
	p.Legend.Left = false
	p.Legend.Top = true

	return r.savePlot(w, p, width, height)
}

// addPointAnnotation rings the point and writes the text below-left of it.
func (r *Renderer) addPointAnnotation(p *plot.Plot, a Annotation) error {
	c, err := r.colorAt(a.Color, 0)
	if err != nil {
		return err
	}
	if a.Color == "" {
		c = r.palette.Primary
	}

	ring, err := plotter.NewScatter(plotter.XYs{{X: a.X, Y: a.Y}})
	if err != nil {
		return err
	}
	ring.GlyphStyle.Color = c.NRGBA(1)
	ring.GlyphStyle.Shape = draw.RingGlyph{}
	ring.GlyphStyle.Radius = vg.Points(6)

	l, err := valueLabels([]float64{a.X}, []float64{a.Y}, []string{a.Text}, c.NRGBA(1), 9, vg.Point{X: -vg.Points(8), Y: -vg.Points(10)})
	if err != nil {
		return err
	}
	l.TextStyle[0].Font = sans(9, true, false)
	l.TextStyle[0].XAlign = text.XRight
	l.TextStyle[0].YAlign = text.YTop
	p.Add(ring, l)
	return nil
}
