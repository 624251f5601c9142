package chart

import (
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// ════════════════════════════════════════════════════════════════════
// Multi-panel bar: 1×N small bar charts under one title
// ════════════════════════════════════════════════════════════════════

func (r *Renderer) drawPanels(w io.Writer, s Spec) error {
	width, height := s.size(9, 3.5)
	cols := len(s.Panels)

	row := make([]*plot.Plot, cols)
	for i, pn := range s.Panels {
		p, err := r.panelPlot(pn, width/float64(cols))
		if err != nil {
			return err
		}
		row[i] = p
	}

	c := r.canvas(width, height)
	dc := titled(draw.New(c), s.Title, 11, r.palette.Primary)

	tiles := draw.Tiles{
		Rows:      1,
		Cols:      cols,
		PadX:      vg.Points(14),
		PadTop:    vg.Points(2),
		PadBottom: vg.Points(4),
		PadLeft:   vg.Points(4),
		PadRight:  vg.Points(6),
	}
	canvases := plot.Align([][]*plot.Plot{row}, tiles, dc)
	for j := range row {
		row[j].Draw(canvases[0][j])
	}

	_, err := vgimg.PngCanvas{Canvas: c}.WriteTo(w)
	return err
}

func (r *Renderer) panelPlot(pn Panel, widthIn float64) (*plot.Plot, error) {
	p := newPlot(pn.Title)
	p.Title.TextStyle.Font = sans(9, true, false)
	p.Title.Padding = vg.Points(6)
	addGrid(p)
	p.NominalX(pn.Labels...)

	n := len(pn.Values)
	bw := barWidth(widthIn, n, 1, 0.5)
	lo, hi := 0.0, 0.0
	for i, v := range pn.Values {
		name := ""
		if i < len(pn.Colors) {
			name = pn.Colors[i]
		}
		c, err := r.colorAt(name, 0)
		if err != nil {
			return nil, err
		}
		if name == "" && i > 0 {
			c = r.palette.Muted
		}

		bar, err := plotter.NewBarChart(plotter.Values{v}, bw)
		if err != nil {
			return nil, err
		}
		bar.XMin = float64(i)
		bar.Color = c.NRGBA(1)
		bar.LineStyle.Width = 0
		bar.LineStyle.Color = bar.Color
		p.Add(bar)
		lo, hi = math.Min(lo, v), math.Max(hi, v)

		if pn.LabelFormat == "" {
			continue
		}
		off := vg.Point{Y: vg.Points(2)}
		l, err := valueLabels([]float64{float64(i)}, []float64{v}, []string{formatValue(pn.LabelFormat, v)}, r.palette.Text.NRGBA(1), 8, off)
		if err != nil {
			return nil, err
		}
		if v < 0 {
			l.Offset = vg.Point{Y: -vg.Points(2)}
			l.TextStyle[0].YAlign = text.YTop
		}
		p.Add(l)
	}

	if lo < 0 || (pn.Y.Min != nil && *pn.Y.Min < 0) {
		zero := plotter.NewFunction(func(float64) float64 { return 0 })
		zero.Color = r.palette.Text.NRGBA(1)
		zero.Width = vg.Points(0.5)
		p.Add(zero)
	}

	applyAxis(&p.Y, pn.Y)
	categoryRange(p, n)
	if pn.Y.Min == nil {
		p.Y.Min = math.Min(lo*1.2, 0)
	}
	if pn.Y.Max == nil {
		p.Y.Max = hi * 1.2
	}
	return p, nil
}
