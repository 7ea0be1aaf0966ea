package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/stocksage-ai/stocksage/pkg/config"
)

func TestStubDeterministic(t *testing.T) {
	s := NewStub()
	prompt := "Decision Clarity for TCS:\nPrice: 4100.5"

	first, err := s.Complete(context.Background(), prompt)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Complete(context.Background(), prompt)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("stub responses differ:\n%s\n%s", first, second)
	}
	if !strings.Contains(first, "Decision Clarity for TCS:") {
		t.Errorf("stub should echo the first prompt line:\n%s", first)
	}
}

func TestStubTruncatesLongFirstLine(t *testing.T) {
	s := NewStub()
	out, err := s.Complete(context.Background(), strings.Repeat("x", 200))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "...") {
		t.Errorf("long first line should be truncated:\n%s", out)
	}
}

func TestOllamaComplete(t *testing.T) {
	var gotPath string
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.Write([]byte(`{"response":"looks fairly valued"}`))
	}))
	defer srv.Close()

	o := NewOllama(config.LocalConfig{URL: srv.URL, Model: "llama3"}, zerolog.Nop())
	out, err := o.Complete(context.Background(), "Valuation Sanity Check for TCS")
	if err != nil {
		t.Fatal(err)
	}
	if out != "looks fairly valued" {
		t.Errorf("unexpected completion: %q", out)
	}
	if gotPath != "/api/generate" {
		t.Errorf("unexpected path %s", gotPath)
	}
	if !strings.Contains(gotBody, `"model":"llama3"`) || !strings.Contains(gotBody, `"stream":false`) {
		t.Errorf("unexpected request body: %s", gotBody)
	}
}

func TestOllamaServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusInternalServerError)
	}))
	defer srv.Close()

	o := NewOllama(config.LocalConfig{URL: srv.URL, Model: "llama3"}, zerolog.Nop())
	_, err := o.Complete(context.Background(), "anything")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestOllamaTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	o := NewOllama(config.LocalConfig{URL: srv.URL, Model: "llama3", Timeout: 20 * time.Millisecond}, zerolog.Nop())
	_, err := o.Complete(context.Background(), "anything")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable on timeout, got %v", err)
	}
}

func TestClassifyGeminiError(t *testing.T) {
	cases := []struct {
		msg  string
		want error
	}{
		{"Error 429, Message: slow down, Status: RESOURCE_EXHAUSTED", ErrQuota},
		{"quota exceeded for metric", ErrQuota},
		{"Error 403, Status: PERMISSION_DENIED", ErrAuth},
		{"API key not valid", ErrAuth},
		{"Error 500, Status: INTERNAL", ErrUnavailable},
		{"connection refused", ErrUnavailable},
	}
	for _, tc := range cases {
		got := classifyGeminiError(errors.New(tc.msg))
		if !errors.Is(got, tc.want) {
			t.Errorf("%q: classified as %v, want %v", tc.msg, got, tc.want)
		}
	}
}

func TestNewSelectsBackend(t *testing.T) {
	cfg := config.Default()

	cfg.Backend = config.BackendStub
	c, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if c.Name() != "stub" {
		t.Errorf("expected stub backend, got %s", c.Name())
	}

	cfg.Backend = config.BackendLocal
	c, err = New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(c.Name(), "ollama/") {
		t.Errorf("expected ollama backend, got %s", c.Name())
	}

	cfg.Backend = config.BackendCloud
	c, err = New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(c.Name(), "gemini/") {
		t.Errorf("expected gemini backend, got %s", c.Name())
	}
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = "mainframe"
	if _, err := New(cfg, zerolog.Nop()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
