package document

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/seenimoa/stockreport/internal/style"
)

// ════════════════════════════════════════════════════════════════════
// HTML renderer: the same block sequence as one self-contained page
// ════════════════════════════════════════════════════════════════════

type htmlCell struct {
	Text    template.HTML
	Span    int
	Style   template.CSS
	Header  bool
	Covered bool
}

type htmlBlock struct {
	Kind   Kind
	Class  string
	Style  template.CSS
	Text   template.HTML
	Items  []template.HTML
	Rows   [][]htmlCell
	Src    template.URL
	Width  string
	Height string
}

type htmlPage struct {
	Title   string
	Date    string
	Palette style.Palette
	Blocks  []htmlBlock
}

var htmlTemplate = template.Must(template.New("report").Parse(HTMLTemplate))

// RenderHTML renders doc as a single HTML page with chart images inlined
// as base64 data URLs.
func RenderHTML(doc Document, sheet style.Sheet) ([]byte, error) {
	if err := doc.Validate(sheet); err != nil {
		return nil, err
	}
	if err := doc.CheckImages(); err != nil {
		return nil, err
	}

	page := htmlPage{Title: doc.Meta.Title, Palette: sheet.Palette}
	if !doc.Meta.Date.IsZero() {
		page.Date = doc.Meta.Date.Format("January 2, 2006")
	}
	for _, b := range doc.Blocks() {
		hb, err := htmlFor(b, sheet)
		if err != nil {
			return nil, err
		}
		page.Blocks = append(page.Blocks, hb)
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteHTML renders doc with RenderHTML and atomically replaces path.
func WriteHTML(doc Document, sheet style.Sheet, path string) (int, error) {
	data, err := RenderHTML(doc, sheet)
	if err != nil {
		return 0, err
	}
	if err := writeFileAtomic(path, data); err != nil {
		return 0, err
	}
	return len(data), nil
}

func htmlFor(b Block, sheet style.Sheet) (htmlBlock, error) {
	hb := htmlBlock{Kind: b.Kind()}
	switch v := b.(type) {
	case Heading:
		hb.Text = template.HTML(template.HTMLEscapeString(v.headingText()))
	case Subheading:
		hb.Text = markupHTML(v.Text)
	case Paragraph:
		tag := orTag(v.Style, style.Body)
		hb.Class = string(tag)
		hb.Style = attrCSS(sheet.Style(tag))
		hb.Text = markupHTML(v.Text)
	case Callout:
		tag := orTag(v.Style, style.CalloutPositive)
		hb.Class = string(tag)
		hb.Style = attrCSS(sheet.Style(tag))
		hb.Text = markupHTML(v.Text)
	case Bullets:
		hb.Style = attrCSS(sheet.Style(orTag(v.Style, style.Bullet)))
		for _, it := range v.Items {
			hb.Items = append(hb.Items, markupHTML(it))
		}
	case Table:
		hb.Class = string(v.variant())
		if v.variant() == VariantVerdict {
			hb.Style = template.CSS(fmt.Sprintf("border-color: %s", v.border(sheet.Table)))
		}
		hb.Rows = tableHTML(v, sheet)
	case Image:
		raw, err := os.ReadFile(v.Path)
		if err != nil {
			return hb, fmt.Errorf("%w: %s", ErrImageMissing, v.Path)
		}
		hb.Src = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(raw))
		hb.Width = fmt.Sprintf("%.1fcm", v.Width)
		hb.Height = fmt.Sprintf("%.1fcm", v.Height)
	case Rule:
		c := sheet.Palette.Accent
		if v.Color != nil {
			c = *v.Color
		}
		t := v.Thickness
		if t <= 0 {
			t = 1
		}
		hb.Style = template.CSS(fmt.Sprintf("border-top: %.1fpt solid %s", t, c))
	case Spacer:
		hb.Height = fmt.Sprintf("%.2fcm", v.Height)
	}
	return hb, nil
}

func tableHTML(t Table, sheet style.Sheet) [][]htmlCell {
	rows := make([][]htmlCell, len(t.Rows))
	for r, cells := range t.Rows {
		for c, text := range cells {
			span, covered := t.spanAt(r, c)
			if covered {
				continue
			}
			l := t.look(sheet, r, c)
			css := fmt.Sprintf("color: %s; text-align: %s; font-size: %.1fpt", l.text, cellAlign(l.align), l.size)
			if l.fill != nil {
				css += fmt.Sprintf("; background: %s", *l.fill)
			}
			if l.bold {
				css += "; font-weight: 700"
			}
			rows[r] = append(rows[r], htmlCell{
				Text:   markupHTML(text),
				Span:   span,
				Style:  template.CSS(css),
				Header: r == 0 && t.HasHeader(),
			})
		}
	}
	return rows
}

func attrCSS(a style.Attr) template.CSS {
	parts := []string{
		fmt.Sprintf("font-size: %.1fpt", a.Size),
		fmt.Sprintf("line-height: %.1fpt", a.LineHeight()),
		fmt.Sprintf("color: %s", a.Color),
		fmt.Sprintf("text-align: %s", a.Align),
	}
	if a.Bold {
		parts = append(parts, "font-weight: 700")
	}
	if a.Italic {
		parts = append(parts, "font-style: italic")
	}
	if a.Background != nil {
		parts = append(parts, fmt.Sprintf("background: %s", *a.Background))
	}
	if a.Border != nil {
		parts = append(parts, fmt.Sprintf("border: %.1fpt solid %s", a.BorderWidth, *a.Border))
	}
	if a.Padding > 0 {
		parts = append(parts, fmt.Sprintf("padding: %.0fpt", a.Padding))
	}
	if a.LeftIndent > 0 {
		parts = append(parts, fmt.Sprintf("margin-left: %.0fpt", a.LeftIndent))
	}
	return template.CSS(strings.Join(parts, "; "))
}

// markupHTML rebuilds inline markup from parsed runs, escaping all text.
func markupHTML(s string) template.HTML {
	var sb strings.Builder
	for _, r := range ParseMarkup(s) {
		if r.Break {
			sb.WriteString("<br>")
			continue
		}
		t := template.HTMLEscapeString(r.Text)
		if r.Italic {
			t = "<i>" + t + "</i>"
		}
		if r.Bold {
			t = "<b>" + t + "</b>"
		}
		sb.WriteString(t)
	}
	return template.HTML(sb.String())
}

// HTMLTemplate is the page layout for RenderHTML.
const HTMLTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
  :root {
    --bg: #ffffff;
    --text: {{.Palette.Text}};
    --primary: {{.Palette.Primary}};
    --accent: {{.Palette.Accent}};
    --border: {{.Palette.Grid}};
    --muted: {{.Palette.Source}};
  }
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: 'Liberation Sans', Arial, Helvetica, sans-serif;
    color: var(--text);
    background: var(--bg);
    max-width: 21cm;
    margin: 0 auto;
    padding: 1.5cm 2cm;
  }
  h2 { font-size: 14pt; color: var(--primary); margin: 16pt 0 8pt; padding-bottom: 3pt; border-bottom: 1pt solid var(--accent); }
  h3 { font-size: 11pt; color: var(--accent); margin: 10pt 0 4pt; }
  p { margin: 0 0 6pt; }
  ul { margin: 0 0 6pt; }
  li { margin: 0 0 3pt; }

  table { border-collapse: collapse; margin: 4pt auto 8pt; }
  table.grid td, table.grid th, table.metrics td { border: 0.5pt solid var(--border); padding: 4pt; }
  table.metrics td { padding: 6pt 4pt; }
  table.verdict { border: 1.5pt solid {{.Palette.Green}}; width: 100%; }
  table.verdict td { padding: 4pt 8pt; }

  figure { text-align: center; margin: 3pt 0; }
  figure img { max-width: 100%; }
  hr { border: none; margin: 5pt 0; }

  @media print {
    body { max-width: 100%; padding: 0; }
    .page-break { page-break-after: always; }
    table, figure { page-break-inside: avoid; }
  }
</style>
</head>
<body>
{{range .Blocks}}
{{- if eq .Kind "heading"}}<h2>{{.Text}}</h2>
{{- else if eq .Kind "subheading"}}<h3>{{.Text}}</h3>
{{- else if eq .Kind "paragraph"}}<p class="{{.Class}}" style="{{.Style}}">{{.Text}}</p>
{{- else if eq .Kind "callout"}}<p class="{{.Class}}" style="{{.Style}}">{{.Text}}</p>
{{- else if eq .Kind "bullets"}}<ul style="{{.Style}}">{{range .Items}}<li>{{.}}</li>{{end}}</ul>
{{- else if eq .Kind "table"}}<table class="{{.Class}}"{{if .Style}} style="{{.Style}}"{{end}}>
{{- range .Rows}}<tr>{{range .}}{{if .Header}}<th colspan="{{.Span}}" style="{{.Style}}">{{.Text}}</th>{{else}}<td colspan="{{.Span}}" style="{{.Style}}">{{.Text}}</td>{{end}}{{end}}</tr>
{{end}}</table>
{{- else if eq .Kind "image"}}<figure><img src="{{.Src}}" style="width: {{.Width}}; height: {{.Height}}" alt=""></figure>
{{- else if eq .Kind "rule"}}<hr style="{{.Style}}">
{{- else if eq .Kind "spacer"}}<div style="height: {{.Height}}"></div>
{{- else if eq .Kind "page_break"}}<div class="page-break"></div>
{{- end}}
{{end}}
</body>
</html>
`
