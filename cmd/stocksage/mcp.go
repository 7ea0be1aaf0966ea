package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stocksage-ai/stocksage/pkg/analyst"
	"github.com/stocksage-ai/stocksage/pkg/backend"
	"github.com/stocksage-ai/stocksage/pkg/config"
	"github.com/stocksage-ai/stocksage/pkg/history"
	"github.com/stocksage-ai/stocksage/pkg/marketdata"
	"github.com/stocksage-ai/stocksage/pkg/mcp"
)

func newMCPCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start StockSage as an MCP server over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := config.NewLogger(cfg.LogLevel)

			completer, err := backend.New(cfg, logger)
			if err != nil {
				return err
			}

			client, err := marketdata.NewClient(cfg.Provider, cfg.Cache, logger)
			if err != nil {
				return fmt.Errorf("init market data client: %w", err)
			}

			var store mcp.HistoryStore
			if cfg.DBPath != "" {
				s, err := history.New(cfg.DBPath)
				if err != nil {
					return fmt.Errorf("open history: %w", err)
				}
				defer func() { _ = s.Close() }()
				store = s
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := mcp.New(analyst.New(completer, logger), client, store, version, logger)
			logger.Info().Str("backend", completer.Name()).Msg("starting mcp server on stdio")
			return srv.Run(ctx, os.Stdin, os.Stdout)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "stocksage.yaml", "path to config file")
	return cmd
}
