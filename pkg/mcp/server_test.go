package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/stocksage-ai/stocksage/pkg/models"
)

// fakeAnalyzer implements Analyzer for testing.
type fakeAnalyzer struct {
	lastSymbol string
	lastIDs    []string
	gotContext bool
}

func (f *fakeAnalyzer) Analyze(_ context.Context, symbol string, ids []string, lc *models.LiveContext) (*models.AnalysisResult, error) {
	f.lastSymbol = symbol
	f.lastIDs = ids
	f.gotContext = lc != nil
	return &models.AnalysisResult{
		Symbol:     symbol,
		Timestamp:  time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
		Backend:    "stub",
		PromptsRun: []string{"1_market_mindset"},
		Results: map[string]models.PromptResult{
			"1_market_mindset": {Response: "calm and clear"},
		},
		Summary: "Analysis of " + symbol + ": 1/1 prompts succeeded.",
	}, nil
}

// fakeMarket implements ContextFetcher for testing.
type fakeMarket struct {
	stats      models.CacheStats
	concurrent bool
}

func (f *fakeMarket) Context(_ context.Context, symbol string) *models.LiveContext {
	return &models.LiveContext{
		Symbol:    symbol,
		Price:     json.RawMessage(`{"price":4100}`),
		FetchedAt: time.Now().UTC(),
	}
}

func (f *fakeMarket) ContextConcurrent(ctx context.Context, symbol string) *models.LiveContext {
	f.concurrent = true
	return f.Context(ctx, symbol)
}

func (f *fakeMarket) CacheStats() models.CacheStats { return f.stats }

// fakeHistory implements HistoryStore for testing.
type fakeHistory struct {
	records []models.AnalysisRecord
}

func (f *fakeHistory) Recent(_ context.Context, limit int) ([]models.AnalysisRecord, error) {
	if limit < len(f.records) {
		return f.records[:limit], nil
	}
	return f.records, nil
}

func (f *fakeHistory) BySymbol(_ context.Context, symbol string, _ int) ([]models.AnalysisRecord, error) {
	var out []models.AnalysisRecord
	for _, r := range f.records {
		if r.Symbol == symbol {
			out = append(out, r)
		}
	}
	return out, nil
}

func newTestServer(analyzer *fakeAnalyzer, market *fakeMarket, history *fakeHistory) *Server {
	var h HistoryStore
	if history != nil {
		h = history
	}
	return New(analyzer, market, h, "test", zerolog.Nop())
}

func sendAndReceive(t *testing.T, srv *Server, req Request) Response {
	t.Helper()
	line, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	line = append(line, '\n')

	var out bytes.Buffer
	if err := srv.Run(context.Background(), bytes.NewReader(line), &out); err != nil {
		t.Fatal(err)
	}

	var resp Response
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v\nraw: %s", err, out.String())
	}
	return resp
}

func toolResult(t *testing.T, resp Response) ToolCallResult {
	t.Helper()
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	data, _ := json.Marshal(resp.Result)
	var result ToolCallResult
	json.Unmarshal(data, &result)
	if len(result.Content) == 0 {
		t.Fatal("expected content")
	}
	return result
}

func TestInitialize(t *testing.T) {
	srv := newTestServer(&fakeAnalyzer{}, &fakeMarket{}, nil)
	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`1`),
		Method:  "initialize",
	})

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}

	data, _ := json.Marshal(resp.Result)
	var result InitializeResult
	json.Unmarshal(data, &result)

	if result.ProtocolVersion != "2024-11-05" {
		t.Errorf("protocol version = %s, want 2024-11-05", result.ProtocolVersion)
	}
	if result.ServerInfo.Name != "stocksage" {
		t.Errorf("server name = %s, want stocksage", result.ServerInfo.Name)
	}
}

func TestToolsList(t *testing.T) {
	srv := newTestServer(&fakeAnalyzer{}, &fakeMarket{}, nil)
	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`2`),
		Method:  "tools/list",
	})

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}

	data, _ := json.Marshal(resp.Result)
	var result ToolsListResult
	json.Unmarshal(data, &result)

	if len(result.Tools) != 5 {
		t.Errorf("got %d tools, want 5", len(result.Tools))
	}

	names := make(map[string]bool)
	for _, tool := range result.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"stock_analyze", "stock_context", "stock_prompts", "stock_history", "stock_cache_stats"} {
		if !names[want] {
			t.Errorf("missing tool: %s", want)
		}
	}
}

func TestToolCallAnalyze(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	market := &fakeMarket{}
	srv := newTestServer(analyzer, market, nil)

	params, _ := json.Marshal(ToolCallParams{
		Name:      "stock_analyze",
		Arguments: json.RawMessage(`{"symbol":"tcs","prompts":["1_market_mindset"]}`),
	})
	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`3`),
		Method:  "tools/call",
		Params:  params,
	})

	result := toolResult(t, resp)
	if !strings.Contains(result.Content[0].Text, "Stock Analysis Report: TCS") {
		t.Errorf("expected report header, got: %s", result.Content[0].Text)
	}
	if analyzer.lastSymbol != "TCS" {
		t.Errorf("symbol should be uppercased: %s", analyzer.lastSymbol)
	}
	if !analyzer.gotContext {
		t.Error("live context should be fetched by default")
	}
	if !market.concurrent {
		t.Error("analyze should use the concurrent context path")
	}
}

func TestToolCallAnalyzeNoLive(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	srv := newTestServer(analyzer, &fakeMarket{}, nil)

	params, _ := json.Marshal(ToolCallParams{
		Name:      "stock_analyze",
		Arguments: json.RawMessage(`{"symbol":"TCS","no_live":true}`),
	})
	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`4`),
		Method:  "tools/call",
		Params:  params,
	})

	toolResult(t, resp)
	if analyzer.gotContext {
		t.Error("no_live should skip the context fetch")
	}
}

func TestToolCallAnalyzeMissingSymbol(t *testing.T) {
	srv := newTestServer(&fakeAnalyzer{}, &fakeMarket{}, nil)

	params, _ := json.Marshal(ToolCallParams{
		Name:      "stock_analyze",
		Arguments: json.RawMessage(`{}`),
	})
	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`5`),
		Method:  "tools/call",
		Params:  params,
	})

	data, _ := json.Marshal(resp.Result)
	var result ToolCallResult
	json.Unmarshal(data, &result)

	if !result.IsError {
		t.Error("expected isError=true for missing symbol")
	}
}

func TestToolCallContext(t *testing.T) {
	srv := newTestServer(&fakeAnalyzer{}, &fakeMarket{}, nil)

	params, _ := json.Marshal(ToolCallParams{
		Name:      "stock_context",
		Arguments: json.RawMessage(`{"symbol":"INFY"}`),
	})
	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`6`),
		Method:  "tools/call",
		Params:  params,
	})

	result := toolResult(t, resp)
	text := result.Content[0].Text
	if !strings.Contains(text, "INFY") || !strings.Contains(text, "price") {
		t.Errorf("unexpected context output: %s", text)
	}
}

func TestToolCallPrompts(t *testing.T) {
	srv := newTestServer(&fakeAnalyzer{}, &fakeMarket{}, nil)

	params, _ := json.Marshal(ToolCallParams{Name: "stock_prompts"})
	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`7`),
		Method:  "tools/call",
		Params:  params,
	})

	result := toolResult(t, resp)
	text := result.Content[0].Text
	if !strings.Contains(text, "1_market_mindset") || !strings.Contains(text, "16_conviction_rating") {
		t.Errorf("prompt list incomplete: %s", text)
	}
}

func TestToolCallHistory(t *testing.T) {
	history := &fakeHistory{
		records: []models.AnalysisRecord{
			{ID: 1, Symbol: "TCS", Backend: "stub", PromptsRun: 16, Errors: 0, DurationMs: 1200,
				CreatedAt: time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)},
		},
	}
	srv := newTestServer(&fakeAnalyzer{}, &fakeMarket{}, history)

	params, _ := json.Marshal(ToolCallParams{Name: "stock_history", Arguments: json.RawMessage(`{}`)})
	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`8`),
		Method:  "tools/call",
		Params:  params,
	})

	result := toolResult(t, resp)
	if !strings.Contains(result.Content[0].Text, "TCS") {
		t.Errorf("expected TCS in history output, got: %s", result.Content[0].Text)
	}
}

func TestToolCallHistoryNotConfigured(t *testing.T) {
	srv := newTestServer(&fakeAnalyzer{}, &fakeMarket{}, nil)

	params, _ := json.Marshal(ToolCallParams{Name: "stock_history"})
	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`9`),
		Method:  "tools/call",
		Params:  params,
	})

	result := toolResult(t, resp)
	if !strings.Contains(result.Content[0].Text, "not configured") {
		t.Errorf("expected 'not configured', got: %s", result.Content[0].Text)
	}
}

func TestToolCallCacheStats(t *testing.T) {
	market := &fakeMarket{stats: models.CacheStats{Entries: 42, Hits: 10, Misses: 5}}
	srv := newTestServer(&fakeAnalyzer{}, market, nil)

	params, _ := json.Marshal(ToolCallParams{Name: "stock_cache_stats"})
	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`10`),
		Method:  "tools/call",
		Params:  params,
	})

	result := toolResult(t, resp)
	text := result.Content[0].Text
	if !strings.Contains(text, "42") || !strings.Contains(text, "66.7%") {
		t.Errorf("unexpected cache stats output: %s", text)
	}
}

func TestNotificationNoResponse(t *testing.T) {
	srv := newTestServer(&fakeAnalyzer{}, &fakeMarket{}, nil)

	line, _ := json.Marshal(Request{
		JSONRPC: "2.0",
		Method:  "notifications/initialized",
	})
	line = append(line, '\n')

	var out bytes.Buffer
	_ = srv.Run(context.Background(), bytes.NewReader(line), &out)

	if out.Len() != 0 {
		t.Errorf("expected no output for notification, got: %s", out.String())
	}
}

func TestUnknownMethod(t *testing.T) {
	srv := newTestServer(&fakeAnalyzer{}, &fakeMarket{}, nil)
	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`11`),
		Method:  "unknown/method",
	})

	if resp.Error == nil {
		t.Fatal("expected error for unknown method")
	}
	if resp.Error.Code != CodeMethodNotFound {
		t.Errorf("error code = %d, want %d", resp.Error.Code, CodeMethodNotFound)
	}
}

func TestUnknownTool(t *testing.T) {
	srv := newTestServer(&fakeAnalyzer{}, &fakeMarket{}, nil)

	params, _ := json.Marshal(ToolCallParams{Name: "stock_teleport"})
	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`12`),
		Method:  "tools/call",
		Params:  params,
	})

	data, _ := json.Marshal(resp.Result)
	var result ToolCallResult
	json.Unmarshal(data, &result)

	if !result.IsError {
		t.Error("expected isError=true for unknown tool")
	}
}
