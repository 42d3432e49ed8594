package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/hilite/internal/document"
	"github.com/dshills/hilite/internal/grammar"
	"github.com/dshills/hilite/internal/theme"
	"github.com/dshills/hilite/internal/view"
)

func (c *cli) viewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view <file>",
		Short: "Show a highlighted file in the terminal",
		Long: `Show a highlighted file in the terminal.

Keys: j/k or arrows move, PgUp/PgDn page, g/G jump to the first/last line,
d deletes the current line, y duplicates it, t cycles themes, q quits.
Grammar files in --grammar-dir are reloaded when they change (watch = true).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.Load(args[0])
			if err != nil {
				return err
			}
			t, err := theme.Named(c.cfg.Theme)
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			if err := screen.Init(); err != nil {
				return err
			}
			defer screen.Fini()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.runView(ctx, screen, doc, t)
		},
	}
}

// runView runs the viewer on an initialised screen, reloading grammars while
// it is open.
func (c *cli) runView(ctx context.Context, screen tcell.Screen, doc *document.Document, t *theme.Theme) error {
	e := c.engine()
	v := view.New(screen, e, doc,
		view.WithTheme(t),
		view.WithTabWidth(c.cfg.TabWidth),
		view.WithLogger(c.logger),
	)
	defer v.Close()

	if c.cfg.Watch && len(c.cfg.GrammarDirs) > 0 {
		w, err := grammar.NewWatcher(e,
			grammar.WithDebounce(c.cfg.WatchDebounce),
			grammar.WithWatcherLogger(c.logger),
			grammar.WithReloadHook(v.Reloaded),
		)
		if err != nil {
			return err
		}
		for _, dir := range c.cfg.GrammarDirs {
			if err := w.Add(dir); err != nil {
				c.logger.Warn("cannot watch grammar directory", "dir", dir, "error", err)
			}
		}

		ctx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = w.Run(ctx)
		}()
		defer func() {
			cancel()
			<-done
		}()
	}

	err := v.Run(ctx)
	if ctx.Err() != nil {
		return nil
	}
	return err
}
