package highlight

import "sync"

// LineSource gives the highlighter read access to a buffer's lines.
type LineSource interface {
	// LineCount returns the number of lines in the buffer.
	LineCount() int

	// Line returns the text of a line without its delimiter.
	Line(n int) string
}

// Stats reports the work a Highlighter has done.
type Stats struct {
	// Scans is the number of lines scanned.
	Scans int

	// Writes is the number of line states stored.
	Writes int

	// ValidLines is the number of line states currently valid.
	ValidLines int
}

// Highlighter styles the lines of one buffer, caching the range stack at
// the start of every line so that only lines after an edit are rescanned.
//
// The host reports edits through Invalidate and Evict; rescanning is lazy
// and happens on the next Style call.
type Highlighter struct {
	mu    sync.Mutex
	table *Table
	src   LineSource
	cache lineCache
	scans int
}

// NewHighlighter creates a highlighter over src. A nil table disables
// highlighting until SetTable is called.
func NewHighlighter(table *Table, src LineSource) *Highlighter {
	return &Highlighter{
		table: table,
		src:   src,
	}
}

// Table returns the active table.
func (h *Highlighter) Table() *Table {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.table
}

// SetTable replaces the active table and drops every cached line state,
// since states refer to the ranges of the old table.
func (h *Highlighter) SetTable(t *Table) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.table = t
	h.cache.reset()
}

// Style returns the styled spans of line. Lines outside the buffer yield nil.
//
// States are recomputed forward from the nearest valid line before line,
// or from the top of the buffer with an empty stack.
func (h *Highlighter) Style(line int) []StyledSpan {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.table == nil || h.src == nil {
		return nil
	}
	count := h.src.LineCount()
	if line < 0 || line >= count {
		return nil
	}
	h.cache.resize(count)
	h.ensure(line)

	spans, out := h.scan(line)
	if !h.cache.valid(line + 1) {
		h.cache.store(line+1, out)
	}
	return spans
}

// Incoming returns the range stack at the start of line, computing it if
// needed. ok is false for lines outside the buffer.
func (h *Highlighter) Incoming(line int) (Stack, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.table == nil || h.src == nil {
		return Stack{}, false
	}
	count := h.src.LineCount()
	if line < 0 || line >= count {
		return Stack{}, false
	}
	h.cache.resize(count)
	h.ensure(line)
	return h.cache.incoming(line), true
}

// ensure makes the state of line valid, rescanning forward from the nearest
// valid line, or from the top with an empty stack. Callers hold h.mu.
func (h *Highlighter) ensure(line int) {
	from := h.cache.nearestValid(line)
	if from < 0 {
		h.cache.store(0, Stack{})
		from = 0
	}
	for n := from; n < line; n++ {
		_, out := h.scan(n)
		h.cache.store(n+1, out)
	}
}

func (h *Highlighter) scan(line int) ([]StyledSpan, Stack) {
	h.scans++
	return h.table.Scan(h.src.Line(line), h.cache.incoming(line))
}

// Invalidate reports that lines [first, last] changed. Every line state
// from first on becomes invalid, because a range opened or closed in the
// edit can change all later lines.
func (h *Highlighter) Invalidate(first, last int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cache.invalidateFrom(first)
}

// Evict reports that lines [first, last] are about to be deleted. Their
// states are removed and the states of all later lines invalidated.
func (h *Highlighter) Evict(first, last int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cache.remove(first, last)
}

// Stats returns counters for the work done so far.
func (h *Highlighter) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{
		Scans:      h.scans,
		Writes:     h.cache.writes,
		ValidLines: h.cache.validCount(),
	}
}
