package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/hilite/internal/grammar"
	"github.com/dshills/hilite/internal/highlight"
)

// errCheckFailed is returned when at least one grammar is rejected.
var errCheckFailed = errors.New("grammar check failed")

func (c *cli) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <grammar-file>...",
		Short: "Load and compile grammar files",
		Long: `Load and compile each grammar file, printing every diagnostic.

Rules that fail to compile are reported as warnings; the command fails only
when a grammar cannot be used at all (or has any invalid rule with strict = true).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				if !c.check(path) {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d", errCheckFailed, failed, len(args))
			}
			return nil
		},
	}
}

func (c *cli) check(path string) bool {
	def, err := grammar.Load(path)
	if err != nil {
		fmt.Fprintf(c.stdout, "%s: %v\n", path, err)
		return false
	}

	opts := []highlight.CompileOption{highlight.WithLogger(c.logger)}
	if c.cfg.Strict {
		opts = append(opts, highlight.WithStrict())
	}
	table, err := highlight.Compile(def.Name, def.Groups, opts...)
	if err != nil {
		fmt.Fprintf(c.stdout, "%s: %v\n", path, err)
		return false
	}

	diags := table.Diagnostics()
	fmt.Fprintf(c.stdout, "%s: ok (%s, %d groups, %d warnings)\n", path, def.Name, len(table.Groups()), len(diags))
	for _, d := range diags {
		fmt.Fprintf(c.stdout, "  warning: %v\n", d)
	}
	return true
}
