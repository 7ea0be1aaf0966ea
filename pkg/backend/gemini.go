package backend

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/stocksage-ai/stocksage/pkg/config"
)

// Gemini calls Google's Gemini API through the official SDK.
type Gemini struct {
	cfg config.CloudConfig
	log zerolog.Logger

	mu     sync.Mutex
	client *genai.Client
}

// NewGemini creates the cloud backend. The SDK client is built lazily on
// first use so construction never needs a context or network access.
func NewGemini(cfg config.CloudConfig, logger zerolog.Logger) *Gemini {
	return &Gemini{
		cfg: cfg,
		log: logger.With().Str("backend", "gemini").Logger(),
	}
}

// Name implements Completer.
func (g *Gemini) Name() string { return "gemini/" + g.cfg.Model }

func (g *Gemini) getClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return g.client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create client: %v", ErrUnavailable, err)
	}
	g.client = client
	return client, nil
}

// Complete implements Completer.
func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	client, err := g.getClient(ctx)
	if err != nil {
		return "", err
	}

	resp, err := client.Models.GenerateContent(ctx, g.cfg.Model, []*genai.Content{
		{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{genai.NewPartFromText(prompt)},
		},
	}, nil)
	if err != nil {
		g.log.Error().Err(err).Msg("gemini request failed")
		return "", classifyGeminiError(err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	return text, nil
}

// classifyGeminiError maps SDK errors onto the shared failure classes.
// The SDK surfaces HTTP status and gRPC status names in error strings.
func classifyGeminiError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "429") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(msg, "quota"):
		return fmt.Errorf("%w: %v", ErrQuota, err)
	case strings.Contains(msg, "401") ||
		strings.Contains(msg, "403") ||
		strings.Contains(msg, "UNAUTHENTICATED") ||
		strings.Contains(msg, "PERMISSION_DENIED") ||
		strings.Contains(msg, "API key"):
		return fmt.Errorf("%w: %v", ErrAuth, err)
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}
