package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/stocksage-ai/stocksage/pkg/models"
)

// Tool argument structs.

type analyzeArgs struct {
	Symbol  string   `json:"symbol"`
	Prompts []string `json:"prompts"`
	NoLive  bool     `json:"no_live"`
}

type contextArgs struct {
	Symbol     string `json:"symbol"`
	Concurrent bool   `json:"concurrent"`
}

type historyArgs struct {
	Symbol string `json:"symbol"`
	Limit  int    `json:"limit"`
}

// toolHandler is a function that handles a tool call.
type toolHandler func(ctx context.Context, s *Server, args json.RawMessage) ToolCallResult

// toolHandlers maps tool names to their handlers.
var toolHandlers = map[string]toolHandler{
	"stock_analyze":     handleAnalyze,
	"stock_context":     handleContext,
	"stock_prompts":     handlePrompts,
	"stock_history":     handleHistory,
	"stock_cache_stats": handleCacheStats,
}

// allTools is the list of tool definitions exposed via tools/list.
var allTools = []ToolDefinition{
	{
		Name:        "stock_analyze",
		Description: "Run analytical prompts for a stock symbol and return the full report.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"symbol"},
			"properties": map[string]any{
				"symbol": map[string]any{
					"type":        "string",
					"description": "Stock symbol, e.g. TCS or RELIANCE",
				},
				"prompts": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Prompt IDs to run (optional, omit for all 16)",
				},
				"no_live": map[string]any{
					"type":        "boolean",
					"description": "Skip live market data and analyze without context (optional)",
				},
			},
		},
	},
	{
		Name:        "stock_context",
		Description: "Fetch live price, fundamentals, and news for a stock symbol.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"symbol"},
			"properties": map[string]any{
				"symbol": map[string]any{
					"type":        "string",
					"description": "Stock symbol, e.g. TCS or RELIANCE",
				},
				"concurrent": map[string]any{
					"type":        "boolean",
					"description": "Fetch the three facets in parallel (optional)",
				},
			},
		},
	},
	{
		Name:        "stock_prompts",
		Description: "List the available analytical prompts with their IDs and titles.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
	{
		Name:        "stock_history",
		Description: "List past analysis runs, optionally filtered by symbol.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"symbol": map[string]any{
					"type":        "string",
					"description": "Filter by stock symbol (optional, omit for all)",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum rows to return (optional, default 20)",
				},
			},
		},
	},
	{
		Name:        "stock_cache_stats",
		Description: "Show live-context cache statistics (entries, hits, misses, hit rate).",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
}

func textResult(text string) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
	}
}

func errorResult(text string) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
		IsError: true,
	}
}

func handleAnalyze(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args analyzeArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	symbol := strings.ToUpper(strings.TrimSpace(args.Symbol))
	if symbol == "" {
		return errorResult("symbol is required")
	}

	var lc *models.LiveContext
	if !args.NoLive && s.market != nil {
		lc = s.market.ContextConcurrent(ctx, symbol)
	}

	result, err := s.analyzer.Analyze(ctx, symbol, args.Prompts, lc)
	if err != nil {
		return errorResult("Error running analysis: " + err.Error())
	}
	return textResult(formatAnalysis(result))
}

func handleContext(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args contextArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	symbol := strings.ToUpper(strings.TrimSpace(args.Symbol))
	if symbol == "" {
		return errorResult("symbol is required")
	}

	var lc *models.LiveContext
	if args.Concurrent {
		lc = s.market.ContextConcurrent(ctx, symbol)
	} else {
		lc = s.market.Context(ctx, symbol)
	}
	return textResult(formatContext(lc))
}

func handlePrompts(_ context.Context, _ *Server, _ json.RawMessage) ToolCallResult {
	return textResult(formatPromptList())
}

func handleHistory(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	if s.history == nil {
		return textResult("History persistence is not configured.")
	}
	var args historyArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	limit := args.Limit
	if limit <= 0 {
		limit = 20
	}

	var records []models.AnalysisRecord
	var err error
	if args.Symbol != "" {
		records, err = s.history.BySymbol(ctx, args.Symbol, limit)
	} else {
		records, err = s.history.Recent(ctx, limit)
	}
	if err != nil {
		return errorResult("Error fetching history: " + err.Error())
	}
	return textResult(formatHistory(records))
}

func handleCacheStats(_ context.Context, s *Server, _ json.RawMessage) ToolCallResult {
	if s.market == nil {
		return textResult("Market data client is not configured.")
	}
	return textResult(formatCacheStats(s.market.CacheStats()))
}
