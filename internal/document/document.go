// Package document provides a line-oriented text buffer that reports its
// edits to observers such as the highlighting engine.
package document

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/dshills/hilite/internal/highlight"
)

// Errors returned by document operations.
var (
	ErrLineOutOfRange = errors.New("line out of range")
	ErrRangeInvalid   = errors.New("invalid line range")
)

// Observer is notified of line edits.
//
// Invalidate is called after lines first..last were modified or inserted.
// Evict is called before lines first..last are removed.
// Observers are called in edit order without the document lock held. They
// may read the document but must not edit it.
type Observer interface {
	Invalidate(first, last int)
	Evict(first, last int)
}

// Document is a buffer of lines without delimiters.
// All methods are safe for concurrent use.
type Document struct {
	// edit serialises mutations together with their notifications.
	edit sync.Mutex

	mu        sync.RWMutex
	name      string
	lines     []string
	observers []Observer
}

// New creates a document holding lines. A document always has at least
// one line.
func New(name string, lines ...string) *Document {
	if len(lines) == 0 {
		lines = []string{""}
	}
	return &Document{
		name:  name,
		lines: slices.Clone(lines),
	}
}

// FromString splits text on '\n' and strips a trailing '\r' from each line.
func FromString(name, text string) *Document {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return New(name, lines...)
}

// FromReader reads all of r into a new document.
func FromReader(name string, r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return FromString(name, string(data)), nil
}

// Load reads the file at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return FromReader(path, f)
}

// Name returns the document name, usually its file path.
func (d *Document) Name() string {
	return d.name
}

// Observe registers o for edit notifications.
func (d *Document) Observe(o Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, o)
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.lines)
}

// Line returns line n, or "" if n is out of range.
func (d *Document) Line(n int) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if n < 0 || n >= len(d.lines) {
		return ""
	}
	return d.lines[n]
}

// Lines returns a copy of every line.
func (d *Document) Lines() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.lines)
}

// Text returns the document joined with '\n'.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return strings.Join(d.lines, "\n")
}

// SetLine replaces the text of line n.
func (d *Document) SetLine(n int, text string) error {
	d.edit.Lock()
	defer d.edit.Unlock()

	d.mu.Lock()
	if n < 0 || n >= len(d.lines) {
		d.mu.Unlock()
		return fmt.Errorf("set line %d: %w", n, ErrLineOutOfRange)
	}
	d.lines[n] = text
	d.mu.Unlock()

	d.invalidate(n, n)
	return nil
}

// Insert inserts lines before line at. at may equal LineCount to append.
func (d *Document) Insert(at int, lines ...string) error {
	d.edit.Lock()
	defer d.edit.Unlock()
	return d.insert(at, lines)
}

func (d *Document) insert(at int, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	d.mu.Lock()
	if at < 0 || at > len(d.lines) {
		d.mu.Unlock()
		return fmt.Errorf("insert at %d: %w", at, ErrLineOutOfRange)
	}
	d.lines = slices.Insert(d.lines, at, lines...)
	d.mu.Unlock()

	d.invalidate(at, at+len(lines)-1)
	return nil
}

// Delete removes lines first..last. Observers are told before the lines
// go away. Deleting every line leaves a single empty line.
func (d *Document) Delete(first, last int) error {
	if first > last {
		return fmt.Errorf("delete %d-%d: %w", first, last, ErrRangeInvalid)
	}

	d.edit.Lock()
	defer d.edit.Unlock()

	if first < 0 || last >= d.LineCount() {
		return fmt.Errorf("delete %d-%d: %w", first, last, ErrLineOutOfRange)
	}

	for _, o := range d.watchers() {
		o.Evict(first, last)
	}

	d.mu.Lock()
	d.lines = slices.Delete(d.lines, first, last+1)
	empty := len(d.lines) == 0
	if empty {
		d.lines = []string{""}
	}
	d.mu.Unlock()

	if empty {
		d.invalidate(0, 0)
	}
	return nil
}

// Duplicate inserts a copy of line n after it.
func (d *Document) Duplicate(n int) error {
	d.edit.Lock()
	defer d.edit.Unlock()

	d.mu.RLock()
	if n < 0 || n >= len(d.lines) {
		d.mu.RUnlock()
		return fmt.Errorf("duplicate line %d: %w", n, ErrLineOutOfRange)
	}
	text := d.lines[n]
	d.mu.RUnlock()
	return d.insert(n+1, []string{text})
}

func (d *Document) watchers() []Observer {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.observers
}

func (d *Document) invalidate(first, last int) {
	for _, o := range d.watchers() {
		o.Invalidate(first, last)
	}
}

// engineObserver forwards document edits to one engine buffer.
type engineObserver struct {
	engine *highlight.Engine
	id     highlight.BufferID
}

func (o engineObserver) Invalidate(first, last int) {
	o.engine.BufferModified(o.id, highlight.Lines(first, last))
}

func (o engineObserver) Evict(first, last int) {
	o.engine.BufferPreDelete(o.id, highlight.Lines(first, last))
}

// Attach opens d in e, keyed by the document name, and forwards every
// later edit to the engine.
func Attach(e *highlight.Engine, d *Document) highlight.BufferID {
	id := e.Open(d, d.Name())
	d.Observe(engineObserver{engine: e, id: id})
	return id
}
