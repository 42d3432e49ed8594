package highlight

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// BufferID identifies a buffer opened in an Engine.
type BufferID = uuid.UUID

// LineRange is an inclusive range of line numbers.
type LineRange struct {
	First int
	Last  int
}

// Lines returns the range [first, last].
func Lines(first, last int) LineRange {
	return LineRange{First: first, Last: last}
}

// Engine is the boundary between a host editor and the highlighter. It owns
// the languages and one Highlighter per open buffer; the host drives it with
// StyleRequest, BufferModified and BufferPreDelete.
type Engine struct {
	mu       sync.RWMutex
	registry *Registry
	attrs    *AttributeRegistry
	buffers  map[BufferID]*buffer
	logger   *slog.Logger
	strict   bool
}

type buffer struct {
	filename string
	lang     *Language
	h        *Highlighter
}

// Option configures an Engine.
type Option func(*Engine)

// WithEngineLogger sets the logger for grammar diagnostics.
func WithEngineLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithAttributeRegistry shares a host attribute registry with every grammar.
func WithAttributeRegistry(r *AttributeRegistry) Option {
	return func(e *Engine) {
		if r != nil {
			e.attrs = r
		}
	}
}

// WithStrictGrammars rejects grammars with any invalid rule.
func WithStrictGrammars(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// NewEngine creates an engine with no languages.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		registry: NewRegistry(),
		attrs:    NewAttributeRegistry(),
		buffers:  make(map[BufferID]*buffer),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Attributes returns the registry all grammar attributes are interned in.
func (e *Engine) Attributes() *AttributeRegistry { return e.attrs }

// Registry returns the language registry.
func (e *Engine) Registry() *Registry { return e.registry }

// Load compiles a grammar and registers it under name, replacing the table
// of an existing language of that name. On error the previous table stays
// active.
func (e *Engine) Load(name string, extensions []string, groups []GroupDecl) error {
	opts := []CompileOption{WithLogger(e.logger), WithAttributes(e.attrs)}
	if e.strict {
		opts = append(opts, WithStrict())
	}
	table, err := Compile(name, groups, opts...)
	if err != nil {
		e.logger.Error("grammar rejected", "grammar", name, "error", err)
		return fmt.Errorf("loading grammar %s: %w", name, err)
	}

	lang, ok := e.registry.ByName(name)
	if ok && slices.Equal(lang.extensions, normalizeExtensions(extensions)) {
		lang.table.Store(table)
	} else {
		lang = NewLanguage(name, extensions, table)
		e.registry.Register(lang)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, b := range e.buffers {
		switch {
		case b.lang != nil && b.lang.name == name:
		case b.lang == nil && e.matches(lang, b.filename):
		default:
			continue
		}
		b.lang = lang
		b.h.SetTable(table)
	}

	e.logger.Debug("grammar loaded", "grammar", name, "groups", len(table.groups))
	return nil
}

func (e *Engine) matches(lang *Language, filename string) bool {
	l, ok := e.registry.ForFile(filename)
	return ok && l == lang
}

// Open starts highlighting a buffer. The language is chosen from the file
// extension; a buffer without a language is never styled.
func (e *Engine) Open(src LineSource, filename string) BufferID {
	id := uuid.New()

	var table *Table
	lang, ok := e.registry.ForFile(filename)
	if ok {
		table = lang.Table()
	}

	e.mu.Lock()
	e.buffers[id] = &buffer{
		filename: filename,
		lang:     lang,
		h:        NewHighlighter(table, src),
	}
	e.mu.Unlock()

	return id
}

// Close forgets a buffer and its cached line states.
func (e *Engine) Close(id BufferID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.buffers, id)
}

// Language returns the language of a buffer.
func (e *Engine) Language(id BufferID) (*Language, bool) {
	b := e.buffer(id)
	if b == nil {
		return nil, false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return b.lang, b.lang != nil
}

// Highlighter returns the highlighter of a buffer.
func (e *Engine) Highlighter(id BufferID) (*Highlighter, bool) {
	b := e.buffer(id)
	if b == nil {
		return nil, false
	}
	return b.h, true
}

func (e *Engine) buffer(id BufferID) *buffer {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buffers[id]
}

// StyleRequest returns the styled spans of a line of a buffer.
// Unknown buffers and lines outside the buffer yield nil.
func (e *Engine) StyleRequest(id BufferID, line int) []StyledSpan {
	b := e.buffer(id)
	if b == nil {
		return nil
	}
	return b.h.Style(line)
}

// BufferModified reports that the lines in r changed.
func (e *Engine) BufferModified(id BufferID, r LineRange) {
	if b := e.buffer(id); b != nil {
		b.h.Invalidate(r.First, r.Last)
	}
}

// BufferPreDelete reports that the lines in r are about to be removed.
func (e *Engine) BufferPreDelete(id BufferID, r LineRange) {
	if b := e.buffer(id); b != nil {
		b.h.Evict(r.First, r.Last)
	}
}
