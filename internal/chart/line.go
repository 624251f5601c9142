package chart

import (
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ════════════════════════════════════════════════════════════════════
// Line trend: go-chart, true secondary y axis
// ════════════════════════════════════════════════════════════════════

func (r *Renderer) drawLineTrend(w io.Writer, s Spec) error {
	width, height := s.size(7, 3.5)
	n := len(s.Labels)

	xs := make([]float64, n)
	ticks := make([]gochart.Tick, n)
	for i, l := range s.Labels {
		xs[i] = float64(i)
		ticks[i] = gochart.Tick{Value: float64(i), Label: flatLabel(l)}
	}

	title := r.palette.Primary
	graph := gochart.Chart{
		Title: s.Title,
		TitleStyle: gochart.Style{
			FontSize:  12,
			FontColor: goChartColor(title, 255),
		},
		Width:  int(width * r.dpi),
		Height: int(height * r.dpi),
		DPI:    r.dpi,
		Background: gochart.Style{
			Padding:   gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
			FillColor: drawing.ColorWhite,
		},
		XAxis: gochart.XAxis{
			Ticks: ticks,
			Range: &gochart.ContinuousRange{Min: -0.4, Max: float64(n) - 0.6},
			Style: gochart.Style{FontSize: 7},
		},
		YAxis: gochart.YAxis{
			Name:           s.Y.Label,
			NameStyle:      gochart.Style{FontSize: 8},
			Style:          gochart.Style{FontSize: 7},
			GridMajorStyle: gochart.Style{StrokeColor: drawing.Color{R: 0xcc, G: 0xcc, B: 0xcc, A: 0x4d}, StrokeWidth: 1},
		},
	}
	if s.Y.Bounded() {
		graph.YAxis.Range = &gochart.ContinuousRange{Min: *s.Y.Min, Max: *s.Y.Max}
	}
	if hasSecondary(s) {
		graph.YAxisSecondary = gochart.YAxis{
			Name:      s.Y2.Label,
			NameStyle: gochart.Style{FontSize: 8},
			Style:     gochart.Style{FontSize: 7},
		}
		if s.Y2.Bounded() {
			graph.YAxisSecondary.Range = &gochart.ContinuousRange{Min: *s.Y2.Min, Max: *s.Y2.Max}
		}
	}

	for i, ser := range s.Series {
		c, err := r.colorAt(ser.Color, i)
		if err != nil {
			return err
		}
		axis := gochart.YAxisPrimary
		if ser.Secondary {
			axis = gochart.YAxisSecondary
		}

		st := gochart.Style{
			StrokeColor: goChartColor(c, 255),
			StrokeWidth: 2,
		}
		if ser.Markers || !ser.Dashed {
			st.DotColor = goChartColor(c, 255)
			st.DotWidth = 3
		}
		if ser.Dashed {
			st.StrokeDashArray = []float64{5, 3}
		}
		if ser.Fill {
			st.FillColor = goChartColor(c, 38)
		}

		graph.Series = append(graph.Series, gochart.ContinuousSeries{
			Name:    ser.Name,
			XValues: xs,
			YValues: ser.Values,
			YAxis:   axis,
			Style:   st,
		})

		if ser.LabelFormat != "" {
			notes := make([]gochart.Value2, n)
			for j, v := range ser.Values {
				notes[j] = gochart.Value2{XValue: xs[j], YValue: v, Label: formatValue(ser.LabelFormat, v)}
			}
			graph.Series = append(graph.Series, gochart.AnnotationSeries{
				YAxis:       axis,
				Annotations: notes,
				Style: gochart.Style{
					FontSize:    6,
					FontColor:   goChartColor(c, 255),
					StrokeColor: goChartColor(c, 120),
					FillColor:   drawing.ColorWhite,
				},
			})
		}
	}

	if len(s.Annotations) > 0 {
		notes := make([]gochart.Value2, len(s.Annotations))
		for i, a := range s.Annotations {
			notes[i] = gochart.Value2{XValue: a.X, YValue: a.Y, Label: a.Text}
		}
		graph.Series = append(graph.Series, gochart.AnnotationSeries{
			Annotations: notes,
			Style: gochart.Style{
				FontSize:    8,
				FontColor:   goChartColor(title, 255),
				StrokeColor: goChartColor(title, 255),
				FillColor:   drawing.ColorWhite,
			},
		})
	}

	graph.Elements = []gochart.Renderable{gochart.LegendThin(&graph, gochart.Style{FontSize: 7})}
	return graph.Render(gochart.PNG, w)
}
