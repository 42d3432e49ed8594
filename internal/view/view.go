// Package view is a small terminal viewer for highlighted documents.
//
// It draws the visible lines through the engine's StyleRequest and edits the
// document line by line, so every keystroke exercises the incremental
// invalidation path.
package view

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/hilite/internal/document"
	"github.com/dshills/hilite/internal/highlight"
	"github.com/dshills/hilite/internal/render"
	"github.com/dshills/hilite/internal/theme"
)

// View shows one document on a tcell screen.
type View struct {
	mu sync.Mutex

	screen   tcell.Screen
	engine   *highlight.Engine
	doc      *document.Document
	id       highlight.BufferID
	resolver *theme.Resolver
	logger   *slog.Logger
	tabWidth int

	top    int
	cursor int
	status string
}

// Option configures a View.
type Option func(*View)

// WithTabWidth sets the tab stop width.
func WithTabWidth(n int) Option {
	return func(v *View) {
		if n > 0 {
			v.tabWidth = n
		}
	}
}

// WithTheme sets the initial theme.
func WithTheme(t *theme.Theme) Option {
	return func(v *View) {
		v.resolver.SetTheme(t)
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(v *View) {
		if l != nil {
			v.logger = l
		}
	}
}

// New attaches doc to engine and returns a view of it on screen.
// The screen must already be initialised.
func New(screen tcell.Screen, engine *highlight.Engine, doc *document.Document, opts ...Option) *View {
	v := &View{
		screen:   screen,
		engine:   engine,
		doc:      doc,
		id:       document.Attach(engine, doc),
		resolver: theme.NewResolver(engine.Attributes(), nil),
		logger:   slog.Default(),
		tabWidth: render.DefaultTabWidth,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Close detaches the document from the engine.
func (v *View) Close() {
	v.engine.Close(v.id)
}

// Cursor returns the current line.
func (v *View) Cursor() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cursor
}

// Theme returns the active theme.
func (v *View) Theme() *theme.Theme {
	return v.resolver.Theme()
}

// Status returns the status message.
func (v *View) Status() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// Draw repaints the screen.
func (v *View) Draw() {
	v.mu.Lock()
	defer v.mu.Unlock()

	w, h := v.screen.Size()
	rows := v.rows(h)
	v.scroll(rows)

	count := v.doc.LineCount()
	gutter := len(strconv.Itoa(count)) + 1
	base := v.resolver.Default()
	dim := base.Dim(true)

	for y := 0; y < rows; y++ {
		n := v.top + y
		if n >= count {
			render.Fill(v.screen, 0, y, w, base)
			continue
		}
		style := dim
		if n == v.cursor {
			style = base.Bold(true)
		}
		render.Text(v.screen, 0, y, gutter, fmt.Sprintf("%*d ", gutter-1, n+1), style)
		spans := v.engine.StyleRequest(v.id, n)
		render.Line(v.screen, gutter, y, w-gutter, v.doc.Line(n), spans, v.resolver, v.tabWidth)
	}

	if h > 0 {
		render.Text(v.screen, 0, h-1, w, v.statusLine(count), base.Reverse(true))
	}
	v.screen.Show()
}

func (v *View) rows(h int) int {
	if h <= 1 {
		return 0
	}
	return h - 1
}

func (v *View) scroll(rows int) {
	if v.cursor < v.top {
		v.top = v.cursor
	}
	if rows > 0 && v.cursor >= v.top+rows {
		v.top = v.cursor - rows + 1
	}
}

func (v *View) statusLine(count int) string {
	lang := "plain"
	if l, ok := v.engine.Language(v.id); ok {
		lang = l.Name()
	}
	s := fmt.Sprintf(" %s  [%s]  %s  %d/%d", filepath.Base(v.doc.Name()), lang, v.resolver.Theme().Name, v.cursor+1, count)
	if v.status != "" {
		s += "  " + v.status
	}
	return s
}

// HandleKey applies a key press. It reports false when the viewer should
// exit.
func (v *View) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		v.move(-1)
	case tcell.KeyDown:
		v.move(1)
	case tcell.KeyPgUp:
		v.move(-v.page())
	case tcell.KeyPgDn:
		v.move(v.page())
	case tcell.KeyHome:
		v.moveTo(0)
	case tcell.KeyEnd:
		v.moveTo(v.doc.LineCount() - 1)
	case tcell.KeyRune:
		return v.handleRune(ev.Rune())
	}
	return true
}

func (v *View) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case 'k':
		v.move(-1)
	case 'j':
		v.move(1)
	case 'g':
		v.moveTo(0)
	case 'G':
		v.moveTo(v.doc.LineCount() - 1)
	case 'd':
		v.deleteLine()
	case 'y':
		v.duplicateLine()
	case 't':
		v.cycleTheme()
	}
	return true
}

func (v *View) page() int {
	_, h := v.screen.Size()
	if n := v.rows(h); n > 1 {
		return n - 1
	}
	return 1
}

func (v *View) move(delta int) {
	v.moveTo(v.Cursor() + delta)
}

func (v *View) moveTo(line int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cursor = max(0, min(line, v.doc.LineCount()-1))
}

func (v *View) deleteLine() {
	line := v.Cursor()
	if err := v.doc.Delete(line, line); err != nil {
		v.setStatus(err.Error())
		return
	}
	v.moveTo(line)
	v.setStatus(fmt.Sprintf("deleted line %d", line+1))
}

func (v *View) duplicateLine() {
	line := v.Cursor()
	if err := v.doc.Duplicate(line); err != nil {
		v.setStatus(err.Error())
		return
	}
	v.moveTo(line + 1)
	v.setStatus(fmt.Sprintf("duplicated line %d", line+1))
}

func (v *View) cycleTheme() {
	name := theme.Next(v.resolver.Theme().Name)
	t, err := theme.Named(name)
	if err != nil {
		v.logger.Warn("theme unavailable", "theme", name, "error", err)
		v.setStatus(err.Error())
		return
	}
	v.resolver.SetTheme(t)
	v.setStatus("theme " + t.Name)
}

func (v *View) setStatus(s string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = s
}

// Reloaded reports a grammar reload and schedules a redraw. It is safe to
// call from any goroutine and matches the grammar watcher's reload hook.
func (v *View) Reloaded(path string, err error) {
	if err != nil {
		v.setStatus(fmt.Sprintf("%s: %v", filepath.Base(path), err))
	} else {
		v.setStatus("reloaded " + filepath.Base(path))
	}
	_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil)) // queue may be full
}

// Run draws and handles events until the user quits or ctx is cancelled.
func (v *View) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()

	for {
		v.Draw()
		switch ev := v.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			if !v.HandleKey(ev) {
				return nil
			}
		case *tcell.EventInterrupt:
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
}
