package document

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ════════════════════════════════════════════════════════════════════
// Plain-text renderer: console preview of the block sequence
// ════════════════════════════════════════════════════════════════════

const textWidth = 78

var (
	textTitle   = lipgloss.NewStyle().Bold(true)
	textHeading = lipgloss.NewStyle().Bold(true)
	textCell    = lipgloss.NewStyle().Padding(0, 1)
	textHeader  = textCell.Bold(true)
)

// RenderText renders doc as a terminal-friendly outline: headings,
// wrapped paragraphs, bullet lists, tables and image references.
func RenderText(doc Document) string {
	var sb strings.Builder
	line := strings.Repeat("═", textWidth)
	thinLine := strings.Repeat("─", textWidth)

	sb.WriteString(line + "\n")
	sb.WriteString("  " + textTitle.Render(doc.Meta.Title) + "\n")
	if !doc.Meta.Date.IsZero() {
		sb.WriteString(fmt.Sprintf("  Report date: %s\n", doc.Meta.Date.Format("January 2, 2006")))
	}
	sb.WriteString(line + "\n")

	for _, b := range doc.Blocks() {
		switch v := b.(type) {
		case Heading:
			sb.WriteString("\n  " + textHeading.Render("■ "+strings.ToUpper(v.headingText())) + "\n")
			sb.WriteString(thinLine + "\n")
		case Subheading:
			sb.WriteString("\n  " + textHeading.Render(PlainText(v.Text)) + "\n")
		case Paragraph:
			writeWrapped(&sb, PlainText(v.Text), "  ", "  ")
		case Callout:
			writeWrapped(&sb, PlainText(v.Text), "  │ ", "  │ ")
		case Bullets:
			for _, it := range v.Items {
				writeWrapped(&sb, PlainText(it), "    • ", "      ")
			}
		case Table:
			sb.WriteString(textTable(v))
		case Image:
			sb.WriteString(fmt.Sprintf("  [chart: %s, %.0f×%.0f cm]\n", filepath.Base(v.Path), v.Width, v.Height))
		case Rule:
			sb.WriteString(thinLine + "\n")
		case PageBreak:
			sb.WriteString("\n")
		}
	}

	sb.WriteString(line + "\n")
	return sb.String()
}

// writeWrapped word-wraps s to textWidth with the given prefixes.
func writeWrapped(sb *strings.Builder, s, first, rest string) {
	prefix := first
	for _, para := range strings.Split(s, "\n") {
		cur, n := prefix, 0
		for _, w := range strings.Fields(para) {
			if n > 0 && lipgloss.Width(cur)+1+lipgloss.Width(w) > textWidth {
				sb.WriteString(cur + "\n")
				cur, n = rest, 0
			}
			if n > 0 {
				cur += " "
			}
			cur += w
			n++
		}
		sb.WriteString(cur + "\n")
		prefix = rest
	}
}

// textTable lays the table out in padded columns of at most 40 cells.
// A spanned cell takes the combined width of its columns.
func textTable(t Table) string {
	cols := t.Columns()
	widths := make([]int, cols)
	for r, row := range t.Rows {
		for c, cell := range row {
			if span, covered := t.spanAt(r, c); covered || span > 1 {
				continue
			}
			if w := min(lipgloss.Width(PlainText(cell)), 40); w > widths[c] {
				widths[c] = w
			}
		}
	}

	var sb strings.Builder
	total := 0
	for _, w := range widths {
		total += w + 2
	}
	for r, row := range t.Rows {
		var cells []string
		for c := 0; c < cols; c++ {
			span, covered := t.spanAt(r, c)
			if covered {
				continue
			}
			w := 0
			for k := c; k < c+span; k++ {
				w += widths[k] + 2
			}
			st := textCell
			if r == 0 && t.HasHeader() {
				st = textHeader
			}
			cells = append(cells, st.Width(w).Render(PlainText(row[c])))
		}
		for _, l := range strings.Split(lipgloss.JoinHorizontal(lipgloss.Top, cells...), "\n") {
			sb.WriteString("  " + strings.TrimRight(l, " ") + "\n")
		}
		if r == 0 && t.HasHeader() {
			sb.WriteString("  " + strings.Repeat("-", total) + "\n")
		}
	}
	return sb.String()
}
