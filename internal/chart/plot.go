package chart

import (
	"image/color"
	"io"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/seenimoa/stockreport/internal/style"
)

func init() {
	// Liberation Sans ships inside gonum's font cache, so rendering never
	// depends on system fonts.
	plot.DefaultFont = font.Font{Typeface: "Liberation", Variant: "Sans"}
	plotter.DefaultFont = font.Font{Typeface: "Liberation", Variant: "Sans"}
}

var (
	plotBackground = color.White
	gridColor      = color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0x4d}
	noteColor      = color.NRGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
)

// sans returns a Liberation Sans face.
func sans(size float64, bold, italic bool) font.Font {
	f := font.Font{Typeface: "Liberation", Variant: "Sans", Size: vg.Points(size)}
	if bold {
		f.Weight = xfont.WeightBold
	}
	if italic {
		f.Style = xfont.StyleItalic
	}
	return f
}

// textStyle returns a style usable for direct canvas drawing.
func textStyle(c color.Color, f font.Font, x text.XAlignment, y text.YAlignment) text.Style {
	return text.Style{
		Color:   c,
		Font:    f,
		XAlign:  x,
		YAlign:  y,
		Handler: plot.DefaultTextHandler,
	}
}

// newPlot returns a plot with the report's axis and title styling.
func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.BackgroundColor = plotBackground
	p.Title.Text = title
	p.Title.TextStyle.Font = sans(12, true, false)
	p.Title.Padding = vg.Points(10)

	p.X.Tick.Label.Font = sans(8, false, false)
	p.Y.Tick.Label.Font = sans(8, false, false)
	p.X.Label.TextStyle.Font = sans(9, false, false)
	p.Y.Label.TextStyle.Font = sans(9, false, false)

	p.Legend.TextStyle.Font = sans(7.5, false, false)
	p.Legend.Top = true
	p.Legend.Padding = vg.Points(2)
	p.Legend.ThumbnailWidth = vg.Points(14)
	return p
}

// addGrid adds light horizontal grid lines.
func addGrid(p *plot.Plot) {
	g := plotter.NewGrid()
	g.Vertical.Width = 0
	g.Horizontal.Color = gridColor
	g.Horizontal.Width = vg.Points(0.6)
	p.Add(g)
}

// applyAxis pins the axis range when the spec fixes it.
func applyAxis(a *plot.Axis, spec Axis) {
	if spec.Label != "" {
		a.Label.Text = spec.Label
	}
	if spec.Min != nil {
		a.Min = *spec.Min
	}
	if spec.Max != nil {
		a.Max = *spec.Max
	}
}

// categoryRange frames n categories centered on integer positions.
func categoryRange(p *plot.Plot, n int) {
	p.X.Min = -0.5
	p.X.Max = float64(n) - 0.5
}

// valueLabels places text at data points. Labels in one set share an
// offset in canvas units.
func valueLabels(xs, ys []float64, texts []string, c color.Color, size float64, off vg.Point) (*plotter.Labels, error) {
	xy := make(plotter.XYs, len(xs))
	for i := range xs {
		xy[i] = plotter.XY{X: xs[i], Y: ys[i]}
	}
	l, err := plotter.NewLabels(plotter.XYLabels{XYs: xy, Labels: texts})
	if err != nil {
		return nil, err
	}
	for i := range l.TextStyle {
		l.TextStyle[i].Color = c
		l.TextStyle[i].Font = sans(size, false, false)
		l.TextStyle[i].XAlign = text.XCenter
		l.TextStyle[i].YAlign = text.YBottom
	}
	l.Offset = off
	return l, nil
}

// canvas creates a raster canvas of w × h inches.
func (r *Renderer) canvas(w, h float64) *vgimg.Canvas {
	return vgimg.NewWith(
		vgimg.UseWH(vg.Length(w)*vg.Inch, vg.Length(h)*vg.Inch),
		vgimg.UseDPI(int(r.dpi)),
		vgimg.UseBackgroundColor(plotBackground),
	)
}

// savePlot draws a single plot and encodes it as PNG.
func (r *Renderer) savePlot(w io.Writer, p *plot.Plot, width, height float64) error {
	c := r.canvas(width, height)
	p.Draw(draw.New(c))
	_, err := vgimg.PngCanvas{Canvas: c}.WriteTo(w)
	return err
}

// titled reserves a strip at the top of dc for a figure title, draws the
// title, and returns the remaining canvas.
func titled(dc draw.Canvas, title string, size float64, fg style.Color) draw.Canvas {
	if title == "" {
		return dc
	}
	h := vg.Points(size * 2.4)
	sty := textStyle(fg.NRGBA(1), sans(size, true, false), text.XCenter, text.YTop)
	dc.FillText(sty, vg.Point{X: dc.Center().X, Y: dc.Max.Y - vg.Points(size*0.6)}, title)
	return draw.Crop(dc, 0, 0, 0, -h)
}

// size returns the spec's size or the kind default, in inches.
func (s Spec) size(defW, defH float64) (float64, float64) {
	w, h := s.Width, s.Height
	if w == 0 {
		w = defW
	}
	if h == 0 {
		h = defH
	}
	return w, h
}

// barWidth splits the category slot among k bars, leaving a gap between
// categories.
func barWidth(widthIn float64, n, k int, fill float64) vg.Length {
	if k < 1 {
		k = 1
	}
	plotW := vg.Length(widthIn) * vg.Inch * 0.82
	slot := plotW / vg.Length(n)
	return slot * vg.Length(fill) / vg.Length(k)
}
