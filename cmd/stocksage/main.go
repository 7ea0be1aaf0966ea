package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "stocksage",
		Short:   "StockSage — LLM-driven stock analysis with live market context",
		Version: version,
	}

	root.AddCommand(
		newAnalyzeCmd(),
		newContextCmd(),
		newPromptsCmd(),
		newHistoryCmd(),
		newMCPCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
