package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *cli) languagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the registered languages and their file extensions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := c.engine().Registry()
			tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
			for _, name := range reg.Languages() {
				lang, _ := reg.ByName(name)
				fmt.Fprintf(tw, "%s\t%s\n", name, strings.Join(lang.Extensions(), " "))
			}
			return tw.Flush()
		},
	}
}
