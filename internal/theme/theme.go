// Package theme maps highlight attributes to terminal styles.
package theme

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ErrUnknownTheme is returned for a theme name that is neither built in nor
// a chroma style.
var ErrUnknownTheme = errors.New("unknown theme")

// Theme defines the styles of highlight attributes.
type Theme struct {
	// Name is the display name of the theme.
	Name string

	// Default is the style of text without an attribute, and of attributes
	// the theme does not know.
	Default tcell.Style

	// Styles maps attribute names to styles.
	Styles map[string]tcell.Style
}

// StyleFor returns the style for an attribute name. Names without a style
// fall back to their parent: "code-comment-doc" tries "code-comment", then
// "code". Dots separate segments too.
func (t *Theme) StyleFor(name string) tcell.Style {
	for name != "" {
		if style, ok := t.Styles[name]; ok {
			return style
		}
		i := strings.LastIndexAny(name, "-.")
		if i < 0 {
			break
		}
		name = name[:i]
	}
	return t.Default
}

func rgb(r, g, b int32) tcell.Color {
	return tcell.NewRGBColor(r, g, b)
}

// Default returns the built-in dark theme.
func Default() *Theme {
	base := tcell.StyleDefault.
		Foreground(rgb(212, 212, 212)).
		Background(rgb(30, 30, 30))

	comment := rgb(106, 153, 85)   // Green
	keyword := rgb(86, 156, 214)   // Blue
	control := rgb(197, 134, 192)  // Purple
	str := rgb(206, 145, 120)      // Orange
	number := rgb(181, 206, 168)   // Light green
	function := rgb(220, 220, 170) // Yellow
	typ := rgb(78, 201, 176)       // Teal
	field := rgb(156, 220, 254)    // Light blue

	return &Theme{
		Name:    "default",
		Default: base,
		Styles: map[string]tcell.Style{
			"code-comment":      base.Foreground(comment).Italic(true),
			"code-string":       base.Foreground(str),
			"code-escape":       base.Foreground(rgb(215, 186, 125)),
			"code-number":       base.Foreground(number),
			"code-keyword":      base.Foreground(keyword),
			"code-control-flow": base.Foreground(control),
			"code-typename":     base.Foreground(typ),
			"code-constant":     base.Foreground(rgb(79, 193, 255)),
			"code-fn-call":      base.Foreground(function),
			"code-field":        base.Foreground(field),
		},
	}
}

// Light returns the built-in light theme.
func Light() *Theme {
	base := tcell.StyleDefault.
		Foreground(rgb(0, 0, 0)).
		Background(rgb(255, 255, 255))

	comment := rgb(0, 128, 0)    // Green
	keyword := rgb(0, 0, 255)    // Blue
	str := rgb(163, 21, 21)      // Dark red
	number := rgb(9, 134, 88)    // Teal
	function := rgb(121, 94, 38) // Brown
	typ := rgb(38, 127, 153)     // Cyan
	variable := rgb(0, 16, 128)  // Dark blue

	return &Theme{
		Name:    "light",
		Default: base,
		Styles: map[string]tcell.Style{
			"code-comment":      base.Foreground(comment).Italic(true),
			"code-string":       base.Foreground(str),
			"code-escape":       base.Foreground(rgb(205, 49, 49)),
			"code-number":       base.Foreground(number),
			"code-keyword":      base.Foreground(keyword),
			"code-control-flow": base.Foreground(keyword).Bold(true),
			"code-typename":     base.Foreground(typ),
			"code-constant":     base.Foreground(keyword),
			"code-fn-call":      base.Foreground(function),
			"code-field":        base.Foreground(variable),
		},
	}
}

var builtins = map[string]func() *Theme{
	"default": Default,
	"light":   Light,
}

// Named returns a built-in theme or, failing that, a theme derived from the
// chroma style of that name. An empty name selects the default theme.
func Named(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}
	if fn, ok := builtins[strings.ToLower(name)]; ok {
		return fn(), nil
	}
	t, err := FromChroma(name)
	if err != nil {
		return nil, fmt.Errorf("theme %q: %w", name, err)
	}
	return t, nil
}

// Names returns every theme name Named accepts: the built-in themes first,
// then the chroma styles.
func Names() []string {
	names := []string{"default", "light"}
	return append(names, chromaNames()...)
}

// Next returns the theme name after current in Names, wrapping around.
func Next(current string) string {
	names := Names()
	i := slices.Index(names, strings.ToLower(current))
	return names[(i+1)%len(names)]
}
