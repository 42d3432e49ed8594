package highlight

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
)

// Language is a named grammar bound to file extensions. Its table can be
// replaced atomically while buffers are using it.
type Language struct {
	name       string
	extensions []string
	table      atomic.Pointer[Table]
}

// NewLanguage creates a language with an initial table.
func NewLanguage(name string, extensions []string, table *Table) *Language {
	l := &Language{
		name:       name,
		extensions: normalizeExtensions(extensions),
	}
	l.table.Store(table)
	return l
}

// Name returns the language name.
func (l *Language) Name() string { return l.name }

// Extensions returns the file extensions the language handles.
func (l *Language) Extensions() []string { return slices.Clone(l.extensions) }

// Table returns the current table.
func (l *Language) Table() *Table { return l.table.Load() }

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if ext[0] != '.' {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

// Registry manages available languages.
type Registry struct {
	mu sync.RWMutex

	// byName maps language names to languages
	byName map[string]*Language

	// byExtension maps file extensions to languages
	byExtension map[string]*Language
}

// NewRegistry creates an empty language registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:      make(map[string]*Language),
		byExtension: make(map[string]*Language),
	}
}

// Register adds a language, replacing any language of the same name.
func (r *Registry) Register(l *Language) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byName[l.name]; ok {
		for _, ext := range old.extensions {
			if r.byExtension[ext] == old {
				delete(r.byExtension, ext)
			}
		}
	}
	r.byName[l.name] = l
	for _, ext := range l.extensions {
		r.byExtension[ext] = l
	}
}

// ByName returns the language with the given name.
func (r *Registry) ByName(name string) (*Language, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.byName[name]
	return l, ok
}

// ByExtension returns the language for a file extension.
func (r *Registry) ByExtension(ext string) (*Language, bool) {
	exts := normalizeExtensions([]string{ext})
	if len(exts) == 0 {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.byExtension[exts[0]]
	return l, ok
}

// ForFile returns the language for a file path.
func (r *Registry) ForFile(path string) (*Language, bool) {
	return r.ByExtension(filepath.Ext(path))
}

// Languages returns all registered language names, sorted.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
