package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stocksage-ai/stocksage/pkg/config"
	"github.com/stocksage-ai/stocksage/pkg/history"
	"github.com/stocksage-ai/stocksage/pkg/models"
)

func newHistoryCmd() *cobra.Command {
	var (
		configPath string
		symbol     string
		limit      int
		showID     int64
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past analysis runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.DBPath == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "History persistence is not configured (db_path is empty).")
				return nil
			}

			store, err := history.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer func() { _ = store.Close() }()

			ctx := context.Background()

			// Full result view for one run
			if showID > 0 {
				rec, err := store.Load(ctx, showID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(rec.Result))
				return nil
			}

			var records []models.AnalysisRecord
			if symbol != "" {
				records, err = store.BySymbol(ctx, symbol, limit)
			} else {
				records, err = store.Recent(ctx, limit)
			}
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No analysis runs found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSYMBOL\tBACKEND\tPROMPTS\tERRORS\tDURATION\tWHEN")
			for _, r := range records {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%dms\t%s\n",
					r.ID, r.Symbol, r.Backend, r.PromptsRun, r.Errors, r.DurationMs,
					r.CreatedAt.Format("2006-01-02T15:04:05"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "stocksage.yaml", "path to config file")
	cmd.Flags().StringVar(&symbol, "symbol", "", "filter by stock symbol")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows to show")
	cmd.Flags().Int64Var(&showID, "id", 0, "print the stored result of one run as JSON")
	return cmd
}
