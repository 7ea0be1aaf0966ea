package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stocksage-ai/stocksage/pkg/prompts"
)

func newPromptsCmd() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "List the available analytical prompts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if full {
				for _, spec := range prompts.All() {
					fmt.Fprintf(cmd.OutOrStdout(), "== %s (%s) ==\n%s\n\n", spec.Title, spec.ID, spec.Template)
				}
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE")
			for _, spec := range prompts.All() {
				fmt.Fprintf(w, "%s\t%s\n", spec.ID, spec.Title)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "print the full template text for each prompt")
	return cmd
}
