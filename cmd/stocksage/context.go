package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stocksage-ai/stocksage/pkg/config"
	"github.com/stocksage-ai/stocksage/pkg/marketdata"
	"github.com/stocksage-ai/stocksage/pkg/models"
)

func newContextCmd() *cobra.Command {
	var (
		configPath string
		sequential bool
		showStats  bool
	)

	cmd := &cobra.Command{
		Use:   "context SYMBOL",
		Short: "Fetch live price, fundamentals, and news for a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := strings.ToUpper(strings.TrimSpace(args[0]))

			cfg, err := config.LoadOrDefault(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := config.NewLogger(cfg.LogLevel)

			client, err := marketdata.NewClient(cfg.Provider, cfg.Cache, logger)
			if err != nil {
				return fmt.Errorf("init market data client: %w", err)
			}

			ctx := context.Background()
			var lc *models.LiveContext
			if sequential {
				lc = client.Context(ctx, symbol)
			} else {
				lc = client.ContextConcurrent(ctx, symbol)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Live context for %s (fetched %s)\n",
				lc.Symbol, lc.FetchedAt.Format("2006-01-02 15:04:05 UTC"))
			for _, f := range models.Facets {
				blob := lc.Get(f)
				if blob == nil {
					fmt.Fprintf(out, "  %-13s absent\n", f)
					continue
				}
				fmt.Fprintf(out, "  %-13s %s\n", f, blob)
			}

			if showStats {
				stats := client.CacheStats()
				fmt.Fprintf(out, "cache: %d entries, %d hits, %d misses\n",
					stats.Entries, stats.Hits, stats.Misses)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "stocksage.yaml", "path to config file")
	cmd.Flags().BoolVar(&sequential, "sequential", false, "fetch facets one at a time")
	cmd.Flags().BoolVar(&showStats, "stats", false, "print cache statistics after fetching")
	return cmd
}
