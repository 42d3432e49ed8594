// Package render paints highlighted lines onto a tcell screen.
package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/hilite/internal/highlight"
)

// DefaultTabWidth is used when a tab width of zero or less is given.
const DefaultTabWidth = 4

// Styler resolves highlight attributes to styles. *theme.Resolver
// implements it.
type Styler interface {
	Style(a highlight.Attribute) tcell.Style
	Default() tcell.Style
}

// Line paints one line of text at (x, y), clipped to width columns. Spans
// give rune ranges of text their attribute; other text and the columns
// after the text get the default style. Tabs expand to the next multiple of
// tabWidth. It returns the number of columns the text used.
func Line(s tcell.Screen, x, y, width int, text string, spans []highlight.StyledSpan, st Styler, tabWidth int) int {
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	def := st.Default()

	col := 0
	next := 0 // index of the first span not yet passed
	lastCol := -1
	var lastRune rune
	var comb []rune

	i := 0
	for _, r := range text {
		for next < len(spans) && spans[next].End <= i {
			next++
		}
		style := def
		if next < len(spans) && spans[next].Contains(i) {
			style = st.Style(spans[next].Attr)
		}
		i++

		if r == '\t' {
			n := tabWidth - col%tabWidth
			for ; n > 0 && col < width; n-- {
				s.SetContent(x+col, y, ' ', nil, style)
				col++
			}
			lastCol = -1
			continue
		}

		w := runewidth.RuneWidth(r)
		if w == 0 {
			if lastCol >= 0 {
				comb = append(comb, r)
				s.SetContent(x+lastCol, y, lastRune, comb, style)
			}
			continue
		}
		if col+w > width {
			break
		}
		s.SetContent(x+col, y, r, nil, style)
		lastCol, lastRune, comb = col, r, nil
		col += w
	}

	used := col
	Fill(s, x+col, y, width-col, def)
	return used
}

// Text paints a plain string in one style, clipped to width columns, and
// fills the rest of the width.
func Text(s tcell.Screen, x, y, width int, text string, style tcell.Style) {
	col := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > width {
			break
		}
		s.SetContent(x+col, y, r, nil, style)
		col += w
	}
	Fill(s, x+col, y, width-col, style)
}

// Fill paints n blank cells starting at (x, y).
func Fill(s tcell.Screen, x, y, n int, style tcell.Style) {
	for i := 0; i < n; i++ {
		s.SetContent(x+i, y, ' ', nil, style)
	}
}
