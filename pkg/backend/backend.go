// Package backend provides interchangeable language-model completion
// clients behind a single Completer capability.
package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stocksage-ai/stocksage/pkg/config"
)

// Completion failure classes. They are recorded per prompt by the
// orchestrator; none of them aborts a run.
var (
	// ErrUnavailable marks network, timeout, or server-side failures.
	ErrUnavailable = errors.New("backend unavailable")
	// ErrAuth marks authentication or permission failures.
	ErrAuth = errors.New("backend authentication failed")
	// ErrQuota marks rate-limit or quota exhaustion.
	ErrQuota = errors.New("backend quota exceeded")
)

// Completer sends a prompt to a language model and returns its text
// response. Implementations are safe for sequential reuse across prompts.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// New builds the Completer selected by cfg.Backend. An unknown selector is
// a configuration error; cfg.Validate catches it earlier, this is the
// backstop for callers constructing configs by hand.
func New(cfg *config.Config, logger zerolog.Logger) (Completer, error) {
	switch cfg.Backend {
	case config.BackendLocal:
		return NewOllama(cfg.Local, logger), nil
	case config.BackendCloud:
		return NewGemini(cfg.Cloud, logger), nil
	case config.BackendStub:
		return NewStub(), nil
	default:
		return nil, fmt.Errorf("unsupported backend %q (choose local, cloud, or stub)", cfg.Backend)
	}
}
