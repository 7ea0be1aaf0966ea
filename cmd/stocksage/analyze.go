package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stocksage-ai/stocksage/pkg/analyst"
	"github.com/stocksage-ai/stocksage/pkg/backend"
	"github.com/stocksage-ai/stocksage/pkg/config"
	"github.com/stocksage-ai/stocksage/pkg/history"
	"github.com/stocksage-ai/stocksage/pkg/marketdata"
	"github.com/stocksage-ai/stocksage/pkg/models"
	"github.com/stocksage-ai/stocksage/pkg/report"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		configPath string
		promptIDs  []string
		noLive     bool
		sequential bool
		asJSON     bool
		outDir     string
	)

	cmd := &cobra.Command{
		Use:   "analyze SYMBOL",
		Short: "Run analytical prompts for a stock symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := strings.ToUpper(strings.TrimSpace(args[0]))
			if symbol == "" {
				return fmt.Errorf("symbol must not be empty")
			}

			cfg, err := config.LoadOrDefault(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := config.NewLogger(cfg.LogLevel)

			completer, err := backend.New(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var lc *models.LiveContext
			if !noLive {
				client, err := marketdata.NewClient(cfg.Provider, cfg.Cache, logger)
				if err != nil {
					return fmt.Errorf("init market data client: %w", err)
				}
				if sequential {
					lc = client.Context(ctx, symbol)
				} else {
					lc = client.ContextConcurrent(ctx, symbol)
				}
			}

			started := time.Now()
			result, err := analyst.New(completer, logger).Analyze(ctx, symbol, promptIDs, lc)
			if err != nil {
				return err
			}
			elapsed := time.Since(started)

			if cfg.DBPath != "" {
				store, err := history.New(cfg.DBPath)
				if err != nil {
					logger.Warn().Err(err).Msg("history store unavailable, run not recorded")
				} else {
					defer func() { _ = store.Close() }()
					if _, err := store.Record(ctx, result, elapsed); err != nil {
						logger.Warn().Err(err).Msg("failed to record run")
					}
				}
			}

			if outDir != "" {
				var path string
				if asJSON {
					path, err = report.SaveJSON(result, outDir)
				} else {
					path, err = report.SaveMarkdown(result, outDir)
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "report saved to", path)
				return nil
			}

			if asJSON {
				data, err := report.JSON(result)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), report.Markdown(result))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "stocksage.yaml", "path to config file")
	cmd.Flags().StringSliceVarP(&promptIDs, "prompts", "p", nil, "prompt IDs to run (default: all 16)")
	cmd.Flags().BoolVar(&noLive, "no-live", false, "skip live market data")
	cmd.Flags().BoolVar(&sequential, "sequential", false, "fetch context facets one at a time")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of markdown")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "save the report into this directory instead of printing")
	return cmd
}
