package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/hilite/internal/document"
)

func (c *cli) dumpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the styled spans of every line",
		Long: `Print one line per styled span:

  <line>:<start>-<end> <attribute> "<text>"

Lines are numbered from 1; columns count runes from 0 and end is exclusive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.Load(args[0])
			if err != nil {
				return err
			}
			e := c.engine()
			id := document.Attach(e, doc)
			defer e.Close(id)

			if _, ok := e.Language(id); !ok {
				c.logger.Info("no grammar for file", "file", args[0])
			}

			attrs := e.Attributes()
			for n := 0; n < doc.LineCount(); n++ {
				line := []rune(doc.Line(n))
				for _, s := range e.StyleRequest(id, n) {
					fmt.Fprintf(c.stdout, "%d:%d-%d %s %q\n", n+1, s.Start, s.End, attrs.Name(s.Attr), string(line[s.Start:s.End]))
				}
			}
			return nil
		},
	}
}
