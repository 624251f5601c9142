package chart

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/seenimoa/stockreport/internal/style"
	"github.com/seenimoa/stockreport/pkg/utils"
)

// colorAt resolves an explicit color name or falls back to the palette
// series cycle.
func (r *Renderer) colorAt(name string, i int) (style.Color, error) {
	if strings.TrimSpace(name) != "" {
		c, err := r.palette.Named(name)
		if err != nil {
			return style.Color{}, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
		}
		return c, nil
	}
	cycle := r.palette.Series()
	return cycle[i%len(cycle)], nil
}

// goChartColor converts a report color for go-chart.
func goChartColor(c style.Color, alpha uint8) drawing.Color {
	dc := drawing.ColorFromHex(strings.TrimPrefix(c.String(), "#"))
	dc.A = alpha
	return dc
}

// formatValue renders a value label. The rupee formats use Indian digit
// grouping; anything unnamed is a fmt verb.
func formatValue(format string, v float64) string {
	switch format {
	case "":
		return ""
	case "inr":
		return utils.FormatINRWhole(v)
	case "inr2":
		return utils.FormatINR(v)
	case "lakh":
		return utils.FormatINRCompact(v)
	case "cr":
		return utils.FormatCrores(v)
	case "pct":
		return fmt.Sprintf("%.1f%%", v)
	case "chg":
		return utils.FormatPct(v)
	}
	return fmt.Sprintf(format, v)
}

// flatLabel collapses multi-line category labels for renderers that draw
// a single text line.
func flatLabel(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\n", " ")), " ")
}

// trimFloat prints v with at most two decimals and no trailing zeros.
func trimFloat(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
