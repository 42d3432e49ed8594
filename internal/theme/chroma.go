package theme

import (
	"slices"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/styles"
	"github.com/gdamore/tcell/v2"
	gocache "github.com/patrickmn/go-cache"
)

// derived holds the themes already built from chroma styles, keyed by
// style name. Chroma styles never change at run time.
var derived = gocache.New(gocache.NoExpiration, 0)

// chromaTokens maps the attribute names of the built-in grammars to the
// chroma token types whose style they take.
var chromaTokens = map[string]chroma.TokenType{
	"code-comment":      chroma.Comment,
	"code-string":       chroma.LiteralString,
	"code-escape":       chroma.LiteralStringEscape,
	"code-number":       chroma.LiteralNumber,
	"code-keyword":      chroma.Keyword,
	"code-control-flow": chroma.KeywordReserved,
	"code-typename":     chroma.KeywordType,
	"code-constant":     chroma.KeywordConstant,
	"code-fn-call":      chroma.NameFunction,
	"code-field":        chroma.NameAttribute,
}

// FromChroma derives a theme from a registered chroma style. The returned
// theme is shared and must not be modified.
func FromChroma(name string) (*Theme, error) {
	if t, ok := derived.Get(name); ok {
		return t.(*Theme), nil
	}

	style, ok := styles.Registry[name]
	if !ok {
		return nil, ErrUnknownTheme
	}

	base := fromEntry(style.Get(chroma.Background))
	t := &Theme{
		Name:    style.Name,
		Default: base,
		Styles:  make(map[string]tcell.Style, len(chromaTokens)),
	}
	for attr, tt := range chromaTokens {
		t.Styles[attr] = fromEntry(style.Get(tt))
	}
	derived.SetDefault(name, t)
	return t, nil
}

func fromEntry(e chroma.StyleEntry) tcell.Style {
	s := tcell.StyleDefault
	if e.Colour.IsSet() {
		s = s.Foreground(fromColour(e.Colour))
	}
	if e.Background.IsSet() {
		s = s.Background(fromColour(e.Background))
	}
	return s.
		Bold(e.Bold == chroma.Yes).
		Italic(e.Italic == chroma.Yes).
		Underline(e.Underline == chroma.Yes)
}

func fromColour(c chroma.Colour) tcell.Color {
	return tcell.NewRGBColor(int32(c.Red()), int32(c.Green()), int32(c.Blue()))
}

func chromaNames() []string {
	names := make([]string, 0, len(styles.Registry))
	for name := range styles.Registry {
		if _, ok := builtins[name]; !ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
