package chart

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// ════════════════════════════════════════════════════════════════════
// Pie: share-of-total wedges, counter-clockwise from 12 o'clock
// ════════════════════════════════════════════════════════════════════

const (
	pieStartDeg = 90.0
	pieRadius   = 1.0
	pieLabelAt  = 1.12
	pieFrame    = 1.35
)

// wedge is one slice in degrees, counter-clockwise.
type wedge struct {
	from, to float64
	share    float64
}

func (w wedge) mid() float64 { return (w.from + w.to) / 2 }

// wedges splits values into angular slices starting at 90°.
func wedges(values []float64) []wedge {
	total := 0.0
	for _, v := range values {
		total += v
	}
	out := make([]wedge, len(values))
	a := pieStartDeg
	for i, v := range values {
		span := 360 * v / total
		out[i] = wedge{from: a, to: a + span, share: 100 * v / total}
		a += span
	}
	return out
}

func polar(cx, cy, r, deg float64) plotter.XY {
	rad := deg * math.Pi / 180
	return plotter.XY{X: cx + r*math.Cos(rad), Y: cy + r*math.Sin(rad)}
}

func (r *Renderer) drawPie(w io.Writer, s Spec) error {
	width, height := s.size(6, 4.5)
	values := s.Series[0].Values

	p := newPlot("")
	p.HideAxes()

	ws := wedges(values)
	var lx, ly []float64
	var texts []string
	for i, wd := range ws {
		name := ""
		if i < len(s.Colors) {
			name = s.Colors[i]
		}
		c, err := r.colorAt(name, i)
		if err != nil {
			return err
		}

		cx, cy := 0.0, 0.0
		if i < len(s.Explode) && s.Explode[i] != 0 {
			off := polar(0, 0, s.Explode[i]*pieRadius, wd.mid())
			cx, cy = off.X, off.Y
		}

		pts := plotter.XYs{{X: cx, Y: cy}}
		steps := int(math.Ceil(wd.to-wd.from)) + 1
		for k := 0; k <= steps; k++ {
			deg := wd.from + (wd.to-wd.from)*float64(k)/float64(steps)
			pts = append(pts, polar(cx, cy, pieRadius, deg))
		}
		poly, err := plotter.NewPolygon(pts)
		if err != nil {
			return err
		}
		poly.Color = c.NRGBA(1)
		poly.LineStyle.Color = r.palette.White.NRGBA(1)
		poly.LineStyle.Width = vg.Points(1)
		p.Add(poly)

		at := polar(cx, cy, pieLabelAt, wd.mid())
		lx = append(lx, at.X)
		ly = append(ly, at.Y)
		texts = append(texts, fmt.Sprintf("%s\n(%.1f%%)", s.Labels[i], wd.share))
	}

	labels, err := valueLabels(lx, ly, texts, r.palette.Text.NRGBA(1), 8, vg.Point{})
	if err != nil {
		return err
	}
	for i, wd := range ws {
		cos := math.Cos(wd.mid() * math.Pi / 180)
		switch {
		case cos > 0.15:
			labels.TextStyle[i].XAlign = text.XLeft
		case cos < -0.15:
			labels.TextStyle[i].XAlign = text.XRight
		default:
			labels.TextStyle[i].XAlign = text.XCenter
		}
		labels.TextStyle[i].YAlign = text.YCenter
	}
	p.Add(labels)

	c := r.canvas(width, height)
	dc := titled(draw.New(c), s.Title, 12, r.palette.Primary)

	// Keep the pie circular: stretch the x range by the canvas aspect.
	aspect := float64(dc.Max.X-dc.Min.X) / float64(dc.Max.Y-dc.Min.Y)
	p.Y.Min, p.Y.Max = -pieFrame, pieFrame
	p.X.Min, p.X.Max = -pieFrame*aspect, pieFrame*aspect

	p.Draw(dc)
	if s.Note != "" {
		// Pie notes are stamped across the wedges as a faint watermark.
		sty := textStyle(r.palette.Highlight.NRGBA(0.35), sans(11, true, false), text.XCenter, text.YCenter)
		sty.Rotation = math.Pi / 6
		dc.FillText(sty, dc.Center(), s.Note)
	}
	_, err = vgimg.PngCanvas{Canvas: c}.WriteTo(w)
	return err
}
