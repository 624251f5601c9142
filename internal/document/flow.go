package document

import (
	"strings"

	"github.com/seenimoa/stockreport/internal/style"
)

// piece is text in one face inside a word; "<b>₹660</b>," is one word of
// two pieces.
type piece struct {
	text         string
	bold, italic bool
	w            float64
}

type word struct {
	pieces []piece
	w      float64
}

// line is a laid-out line. hard lines end at a break or at the end of
// the paragraph and are never justified.
type line struct {
	words []word
	w     float64
	space float64
	size  float64
	hard  bool
}

// measurer returns the width of s in points for the given face and size.
type measurer func(s string, bold, italic bool, size float64) float64

// layoutRuns breaks runs into lines no wider than maxW. Words wider than
// maxW get a line of their own. bold and italic force the face for the
// whole text.
func layoutRuns(runs []Run, size, maxW float64, bold, italic bool, measure measurer) []line {
	space := measure(" ", bold, italic, size)

	var lines []line
	cur := line{space: space, size: size}
	var pending *word

	flush := func() {
		if pending == nil {
			return
		}
		if len(cur.words) > 0 && cur.w+space+pending.w > maxW {
			lines = append(lines, cur)
			cur = line{space: space, size: size}
		}
		if len(cur.words) > 0 {
			cur.w += space
		}
		cur.words = append(cur.words, *pending)
		cur.w += pending.w
		pending = nil
	}

	for _, r := range runs {
		if r.Break {
			flush()
			cur.hard = true
			lines = append(lines, cur)
			cur = line{space: space, size: size}
			continue
		}
		b, it := r.Bold || bold, r.Italic || italic
		text := r.Text
		for i := 0; i < len(text); {
			if text[i] == ' ' {
				flush()
				i++
				continue
			}
			j := strings.IndexByte(text[i:], ' ')
			if j < 0 {
				j = len(text)
			} else {
				j += i
			}
			p := piece{text: text[i:j], bold: b, italic: it}
			p.w = measure(p.text, b, it, size)
			if pending == nil {
				pending = &word{}
			}
			pending.pieces = append(pending.pieces, p)
			pending.w += p.w
			i = j
		}
	}
	flush()
	if len(cur.words) > 0 || len(lines) == 0 {
		cur.hard = true
		lines = append(lines, cur)
	}
	return lines
}

// placement yields the x of every piece on l for the given alignment.
func (l line) placement(x, maxW float64, align style.Align) []float64 {
	gap := l.space
	switch align {
	case style.Center:
		x += (maxW - l.w) / 2
	case style.Right:
		x += maxW - l.w
	case style.Justify:
		if !l.hard && len(l.words) > 1 && l.w < maxW {
			gap += (maxW - l.w) / float64(len(l.words)-1)
		}
	}

	var xs []float64
	for i, wd := range l.words {
		if i > 0 {
			x += gap
		}
		for _, p := range wd.pieces {
			xs = append(xs, x)
			x += p.w
		}
	}
	return xs
}

// text returns the line as plain text.
func (l line) text() string {
	parts := make([]string, len(l.words))
	for i, wd := range l.words {
		var sb strings.Builder
		for _, p := range wd.pieces {
			sb.WriteString(p.text)
		}
		parts[i] = sb.String()
	}
	return strings.Join(parts, " ")
}
