package theme

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/hilite/internal/highlight"
)

// Resolver resolves highlight attributes to styles of the current theme.
// Resolved styles are cached until the theme changes.
type Resolver struct {
	mu    sync.RWMutex
	attrs *highlight.AttributeRegistry
	theme *Theme
	cache map[highlight.Attribute]tcell.Style
}

// NewResolver creates a resolver for the attributes interned in attrs.
func NewResolver(attrs *highlight.AttributeRegistry, t *Theme) *Resolver {
	if t == nil {
		t = Default()
	}
	return &Resolver{
		attrs: attrs,
		theme: t,
		cache: make(map[highlight.Attribute]tcell.Style),
	}
}

// Theme returns the current theme.
func (r *Resolver) Theme() *Theme {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.theme
}

// SetTheme switches to another theme. Cached styles are dropped.
func (r *Resolver) SetTheme(t *Theme) {
	if t == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.theme = t
	clear(r.cache)
}

// Default returns the style of unattributed text.
func (r *Resolver) Default() tcell.Style {
	return r.Theme().Default
}

// Style returns the style of an attribute.
func (r *Resolver) Style(a highlight.Attribute) tcell.Style {
	r.mu.RLock()
	style, ok := r.cache[a]
	t := r.theme
	r.mu.RUnlock()
	if ok {
		return style
	}

	if a == highlight.AttrNone {
		style = t.Default
	} else {
		style = t.StyleFor(r.attrs.Name(a))
	}

	r.mu.Lock()
	if r.theme == t {
		r.cache[a] = style
	}
	r.mu.Unlock()
	return style
}
