package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dshills/hilite/internal/config"
	"github.com/dshills/hilite/internal/grammar"
	"github.com/dshills/hilite/internal/highlight"
)

// cli holds state shared by the subcommands.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	cfgFile string
	v       *viper.Viper
	cfg     config.Config
	logger  *slog.Logger
	closers []io.Closer
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{
		stdout: stdout,
		stderr: stderr,
		v:      viper.New(),
	}

	root := &cobra.Command{
		Use:   "hilite",
		Short: "Incremental grammar-driven syntax highlighting",
		Long: `hilite highlights source files with grammars written in TOML, YAML or Lua.

Grammars are loaded from the built-in set (rust, go) and from every
--grammar-dir. Later grammars with the same name replace earlier ones.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(*cobra.Command, []string) { c.close() },
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&c.cfgFile, "config", "c", "", "config file (default: ./hilite.toml or <user config dir>/hilite/hilite.toml)")
	flags.StringSlice("grammar-dir", nil, "directory of grammar files (repeatable)")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	_ = c.v.BindPFlag(config.KeyGrammarDirs, flags.Lookup("grammar-dir"))
	_ = c.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	root.AddCommand(
		c.checkCommand(),
		c.dumpCommand(),
		c.viewCommand(),
		c.languagesCommand(),
	)
	return root
}

// setup loads the configuration and builds the logger.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.v, c.cfgFile)
	if err != nil {
		return err
	}
	c.cfg = cfg

	w := c.stderr
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		c.closers = append(c.closers, f)
		w = f
	} else if cmd.Name() == "view" {
		w = io.Discard
	}
	c.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.Level()}))
	return nil
}

func (c *cli) close() {
	for _, cl := range c.closers {
		_ = cl.Close()
	}
	c.closers = nil
}

// engine creates an engine with the built-in grammars and every grammar
// found in the configured directories. Grammars that fail to load are
// logged and skipped.
func (c *cli) engine() *highlight.Engine {
	e := highlight.NewEngine(
		highlight.WithEngineLogger(c.logger),
		highlight.WithStrictGrammars(c.cfg.Strict),
	)
	if err := grammar.Install(e, grammar.Builtins()...); err != nil {
		c.logger.Error("built-in grammar failed", "error", err)
	}
	for _, dir := range c.cfg.GrammarDirs {
		defs, err := grammar.LoadDir(dir)
		if err != nil {
			c.logger.Warn("grammar directory", "dir", dir, "error", err)
		}
		if err := grammar.Install(e, defs...); err != nil {
			c.logger.Warn("grammar install", "dir", dir, "error", err)
		}
	}
	return e
}
