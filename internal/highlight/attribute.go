// Package highlight implements an incremental, grammar-driven syntax
// highlighter.
//
// A grammar is a list of rule groups (keywords, regular expressions and
// ranges such as comments and strings). Compile turns it into an immutable
// Table; Table.Scan styles one line given the range stack carried in from the
// previous line; Highlighter caches the incoming stack of every line of a
// buffer and rescans lazily after edits.
package highlight

import (
	"strings"
	"sync"
)

// Attribute is an interned style identifier such as "code-comment".
// The zero value means no attribute.
type Attribute uint16

// AttrNone marks text that carries no attribute.
const AttrNone Attribute = 0

// AttributeRegistry interns attribute names.
// It is safe for concurrent use.
type AttributeRegistry struct {
	mu     sync.RWMutex
	byName map[string]Attribute
	names  []string
}

// NewAttributeRegistry creates an empty registry.
func NewAttributeRegistry() *AttributeRegistry {
	return &AttributeRegistry{
		byName: make(map[string]Attribute),
		names:  []string{AttrNone: ""},
	}
}

// normalizeName strips the style-reference sigil grammar authors may use.
func normalizeName(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), "&")
}

// Intern returns the attribute for name, allocating one if needed.
// Interning the empty name returns AttrNone.
func (r *AttributeRegistry) Intern(name string) Attribute {
	name = normalizeName(name)
	if name == "" {
		return AttrNone
	}

	r.mu.RLock()
	a, ok := r.byName[name]
	r.mu.RUnlock()
	if ok {
		return a
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.byName[name]; ok {
		return a
	}
	a = Attribute(len(r.names))
	r.names = append(r.names, name)
	r.byName[name] = a
	return a
}

// Lookup returns the attribute for name without allocating.
func (r *AttributeRegistry) Lookup(name string) (Attribute, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byName[normalizeName(name)]
	return a, ok
}

// Name returns the registered name of a, or "" when unknown.
func (r *AttributeRegistry) Name(a Attribute) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(a) < len(r.names) {
		return r.names[a]
	}
	return ""
}

// Len returns the number of interned attributes, excluding AttrNone.
func (r *AttributeRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names) - 1
}
