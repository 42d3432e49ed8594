package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/hilite/internal/highlight"
)

var (
	plain   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	keyword = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	comment = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)

const (
	attrKeyword highlight.Attribute = 1
	attrComment highlight.Attribute = 2
)

type fakeStyler struct{}

func (fakeStyler) Style(a highlight.Attribute) tcell.Style {
	switch a {
	case attrKeyword:
		return keyword
	case attrComment:
		return comment
	}
	return plain
}

func (fakeStyler) Default() tcell.Style { return plain }

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Init error = %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

type cell struct {
	r     rune
	style tcell.Style
}

func row(s tcell.Screen, y, n int) []cell {
	out := make([]cell, n)
	for x := 0; x < n; x++ {
		r, _, style, _ := s.GetContent(x, y)
		out[x] = cell{r, style}
	}
	return out
}

func text(cells []cell) string {
	rs := make([]rune, len(cells))
	for i, c := range cells {
		rs[i] = c.r
	}
	return string(rs)
}

func TestLineStyles(t *testing.T) {
	s := newScreen(t, 20, 2)
	spans := []highlight.StyledSpan{
		{Start: 0, End: 2, Attr: attrKeyword},
		{Start: 8, End: 12, Attr: attrComment},
	}

	used := Line(s, 0, 0, 12, "fn main //x", spans, fakeStyler{}, 4)
	if used != 11 {
		t.Errorf("Line() used = %d, want 11", used)
	}

	cells := row(s, 0, 12)
	if got := text(cells); got != "fn main //x " {
		t.Errorf("row text = %q", got)
	}

	want := []tcell.Style{
		keyword, keyword, plain, plain, plain, plain, plain, plain,
		comment, comment, comment, plain,
	}
	for i, c := range cells {
		if c.style != want[i] {
			t.Errorf("cell %d (%q) style = %v, want %v", i, c.r, c.style, want[i])
		}
	}
}

func TestLineTabs(t *testing.T) {
	s := newScreen(t, 20, 1)
	spans := []highlight.StyledSpan{{Start: 1, End: 3, Attr: attrComment}}

	used := Line(s, 0, 0, 20, "a\tb", spans, fakeStyler{}, 4)
	if used != 5 {
		t.Errorf("Line() used = %d, want 5", used)
	}

	cells := row(s, 0, 5)
	if got := text(cells); got != "a   b" {
		t.Errorf("row text = %q, want %q", got, "a   b")
	}
	for i := 1; i < 5; i++ {
		if cells[i].style != comment {
			t.Errorf("cell %d style = %v, want comment (tab takes the span style)", i, cells[i].style)
		}
	}

	if used := Line(s, 0, 0, 20, "\tx", nil, fakeStyler{}, 0); used != DefaultTabWidth+1 {
		t.Errorf("zero tab width: used = %d, want %d", used, DefaultTabWidth+1)
	}
}

func TestLineClipsAndWideRunes(t *testing.T) {
	s := newScreen(t, 10, 1)

	used := Line(s, 0, 0, 5, "日本語", nil, fakeStyler{}, 4)
	if used != 4 {
		t.Errorf("Line() used = %d, want 4 (third wide rune does not fit)", used)
	}
	if r, _, _, _ := s.GetContent(2, 0); r != '本' {
		t.Errorf("cell 2 = %q, want 本", r)
	}
	if r, _, _, _ := s.GetContent(4, 0); r != ' ' {
		t.Errorf("cell 4 = %q, want padding", r)
	}

	used = Line(s, 2, 0, 3, "abcdef", nil, fakeStyler{}, 4)
	if used != 3 {
		t.Errorf("clipped used = %d, want 3", used)
	}
	if got := text(row(s, 0, 5)[2:]); got != "abc" {
		t.Errorf("columns 2-4 = %q, want abc", got)
	}
}

func TestLineSpanOffsetsAreRunes(t *testing.T) {
	s := newScreen(t, 10, 1)
	spans := []highlight.StyledSpan{{Start: 2, End: 3, Attr: attrKeyword}}

	Line(s, 0, 0, 10, "éax", spans, fakeStyler{}, 4)
	if _, _, style, _ := s.GetContent(2, 0); style != keyword {
		t.Errorf("cell 2 style = %v, want keyword", style)
	}
	if _, _, style, _ := s.GetContent(1, 0); style != plain {
		t.Errorf("cell 1 style = %v, want plain", style)
	}
}

func TestText(t *testing.T) {
	s := newScreen(t, 10, 1)
	status := tcell.StyleDefault.Reverse(true)

	Text(s, 0, 0, 6, "status line", status)
	cells := row(s, 0, 6)
	if got := text(cells); got != "status" {
		t.Errorf("Text() row = %q, want clipped %q", got, "status")
	}

	Text(s, 0, 0, 6, "ok", status)
	if got := text(row(s, 0, 6)); got != "ok    " {
		t.Errorf("Text() row = %q, want padded", got)
	}
	if _, _, style, _ := s.GetContent(5, 0); style != status {
		t.Errorf("padding style = %v, want status style", style)
	}
}
