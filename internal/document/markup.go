package document

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Run is a stretch of text with one font face. Break runs end a line.
type Run struct {
	Text   string
	Bold   bool
	Italic bool
	Break  bool
}

// ParseMarkup splits inline markup into runs. It understands <b>/<strong>,
// <i>/<em> and <br/>; other tags contribute their text. Entities are
// decoded and whitespace collapses to single spaces.
func ParseMarkup(s string) []Run {
	if !strings.ContainsAny(s, "<&") {
		return []Run{{Text: collapseSpace(s)}}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return []Run{{Text: collapseSpace(s)}}
	}

	var runs []Run
	var walk func(sel *goquery.Selection, bold, italic bool)
	walk = func(sel *goquery.Selection, bold, italic bool) {
		sel.Contents().Each(func(_ int, c *goquery.Selection) {
			switch goquery.NodeName(c) {
			case "#text":
				runs = appendRun(runs, Run{Text: c.Text(), Bold: bold, Italic: italic})
			case "b", "strong":
				walk(c, true, italic)
			case "i", "em":
				walk(c, bold, true)
			case "br":
				runs = append(runs, Run{Break: true})
			case "#comment":
			default:
				walk(c, bold, italic)
			}
		})
	}
	walk(doc.Find("body"), false, false)

	for i := range runs {
		runs[i].Text = collapseSpace(runs[i].Text)
	}
	return runs
}

// appendRun merges r into the previous run when the face matches.
func appendRun(runs []Run, r Run) []Run {
	if n := len(runs); n > 0 && !runs[n-1].Break && runs[n-1].Bold == r.Bold && runs[n-1].Italic == r.Italic {
		runs[n-1].Text += r.Text
		return runs
	}
	return append(runs, r)
}

// PlainText drops the markup, turning breaks into newlines.
func PlainText(s string) string {
	var sb strings.Builder
	for _, r := range ParseMarkup(s) {
		if r.Break {
			sb.WriteByte('\n')
			continue
		}
		sb.WriteString(r.Text)
	}
	return strings.TrimSpace(sb.String())
}

// collapseSpace folds whitespace runs into one space but keeps a single
// leading or trailing space, which separates words across runs.
func collapseSpace(s string) string {
	if s == "" {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return " "
	}
	out := strings.Join(words, " ")
	if isSpace(s[0]) {
		out = " " + out
	}
	if isSpace(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}
