package document

import (
	"github.com/seenimoa/stockreport/internal/style"
)

// tableCell is a laid-out visible cell.
type tableCell struct {
	col   int
	x, w  float64
	look  cellLook
	lines []line
}

type tableRow struct {
	cells []tableCell
	h     float64
}

// columnWidths converts the cm widths to points, splitting the frame
// evenly when none are given and shrinking to the frame when too wide.
func columnWidths(t Table, frame float64) []float64 {
	cols := t.Columns()
	out := make([]float64, cols)
	total := 0.0
	for i := range out {
		if len(t.Widths) == cols {
			out[i] = cm(t.Widths[i])
		} else {
			out[i] = frame / float64(cols)
		}
		total += out[i]
	}
	if total > frame {
		for i := range out {
			out[i] *= frame / total
		}
	}
	return out
}

func (w *writer) layoutTable(t Table, widths []float64, x0 float64) []tableRow {
	vpad, hpad := t.padding(w.sheet)
	rows := make([]tableRow, len(t.Rows))
	for r, cells := range t.Rows {
		x := x0
		for c := 0; c < len(cells); c++ {
			span, covered := t.spanAt(r, c)
			if covered {
				continue
			}
			cw := 0.0
			for k := c; k < c+span; k++ {
				cw += widths[k]
			}
			look := t.look(w.sheet, r, c)
			lines := layoutRuns(ParseMarkup(cells[c]), look.size, cw-2*hpad, look.bold, false, w.measure)
			rows[r].cells = append(rows[r].cells, tableCell{col: c, x: x, w: cw, look: look, lines: lines})
			if h := float64(len(lines))*look.size*1.2 + 2*vpad; h > rows[r].h {
				rows[r].h = h
			}
			x += cw
		}
	}
	return rows
}

// table draws t centred in the frame. Grid tables that cross a page
// boundary repeat their header row; verdict boxes are kept on one page.
func (w *writer) table(t Table) {
	ts := w.sheet.Table
	widths := columnWidths(t, w.width)
	total := 0.0
	for _, cw := range widths {
		total += cw
	}
	x0 := w.left + (w.width-total)/2
	rows := w.layoutTable(t, widths, x0)
	_, hpad := t.padding(w.sheet)

	w.space(4)
	if t.variant() == VariantVerdict {
		sum := 0.0
		for _, r := range rows {
			sum += r.h
		}
		w.ensure(sum)
	}

	startY := w.y()
	for r, row := range rows {
		if !w.atTop && w.y()+row.h > w.bottom {
			w.newPage()
			startY = w.y()
			if t.HasHeader() && r > 0 {
				w.tableRow(t, rows[0], hpad)
			}
		}
		w.tableRow(t, row, hpad)
	}

	if t.variant() == VariantVerdict {
		w.drawColor(t.border(ts))
		w.pdf.SetLineWidth(1.5)
		w.pdf.Rect(x0, startY, total, w.y()-startY, "D")
	}
	w.space(8)
}

func (w *writer) tableRow(t Table, row tableRow, hpad float64) {
	ts := w.sheet.Table
	y := w.y()
	for _, c := range row.cells {
		if c.look.fill != nil {
			w.fillColor(*c.look.fill)
			w.pdf.Rect(c.x, y, c.w, row.h, "F")
		}

		lh := c.look.size * 1.2
		ty := y + (row.h-lh*float64(len(c.lines)))/2
		for i, l := range c.lines {
			w.drawLine(l, c.x+hpad, ty+lh*float64(i), c.w-2*hpad, lh, cellAlign(c.look.align), c.look.text)
		}

		if t.variant() != VariantVerdict {
			w.drawColor(ts.Grid)
			w.pdf.SetLineWidth(ts.GridWidth)
			w.pdf.Rect(c.x, y, c.w, row.h, "D")
		}
	}
	w.setY(y + row.h)
}

func cellAlign(a style.Align) style.Align {
	if a == style.Justify {
		return style.Left
	}
	return a
}
