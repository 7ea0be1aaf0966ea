package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/stocksage-ai/stocksage/pkg/config"
)

// Ollama calls a locally running Ollama server over its HTTP API.
type Ollama struct {
	url   string
	model string
	httpc *http.Client
	log   zerolog.Logger
}

// NewOllama creates the local-inference backend.
func NewOllama(cfg config.LocalConfig, logger zerolog.Logger) *Ollama {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Ollama{
		url:   strings.TrimRight(cfg.URL, "/"),
		model: cfg.Model,
		httpc: &http.Client{Timeout: timeout},
		log:   logger.With().Str("backend", "ollama").Logger(),
	}
}

// Name implements Completer.
func (o *Ollama) Name() string { return "ollama/" + o.model }

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

// Complete implements Completer. All transport and server failures map to
// ErrUnavailable; a local server has no auth or quota dimension.
func (o *Ollama) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(ollamaRequest{Model: o.model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpc.Do(req)
	if err != nil {
		o.log.Error().Err(err).Msg("ollama request failed")
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		o.log.Error().Int("status", resp.StatusCode).Msg("ollama returned an error")
		return "", fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, body)
	}

	var out ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return out.Response, nil
}
