// Package analyst orchestrates analysis runs: it resolves the requested
// prompts, renders them against live context, and dispatches them to the
// configured completion backend one at a time.
package analyst

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/stocksage-ai/stocksage/pkg/backend"
	"github.com/stocksage-ai/stocksage/pkg/models"
	"github.com/stocksage-ai/stocksage/pkg/prompts"
)

// Analyst runs prompt sequences against a completion backend.
type Analyst struct {
	completer backend.Completer
	log       zerolog.Logger
}

// New creates an Analyst bound to one backend.
func New(completer backend.Completer, logger zerolog.Logger) *Analyst {
	return &Analyst{
		completer: completer,
		log:       logger.With().Str("component", "analyst").Logger(),
	}
}

// Analyze runs the requested prompts for symbol in order. An empty id list
// runs the full registry. Unknown prompt IDs abort before any model call.
// Model-call failures never abort the run: each failed prompt is recorded
// with its error and the sequence continues.
func (a *Analyst) Analyze(ctx context.Context, symbol string, ids []string, lc *models.LiveContext) (*models.AnalysisResult, error) {
	specs, err := prompts.Resolve(ids)
	if err != nil {
		return nil, fmt.Errorf("resolve prompts: %w", err)
	}

	result := &models.AnalysisResult{
		Symbol:      symbol,
		Timestamp:   time.Now().UTC(),
		Backend:     a.completer.Name(),
		PromptsRun:  make([]string, 0, len(specs)),
		Results:     make(map[string]models.PromptResult, len(specs)),
		LiveContext: lc,
	}

	for _, spec := range specs {
		rendered := prompts.Render(spec, symbol, lc)
		pr := models.PromptResult{Prompt: rendered}

		response, err := a.completer.Complete(ctx, rendered)
		if err != nil {
			a.log.Warn().Err(err).Str("prompt", spec.ID).Msg("model call failed")
			pr.Err = err.Error()
			// The response slot always holds text, so consumers reading only
			// responses still see what happened to this prompt.
			pr.Response = "[ERROR] " + err.Error()
		} else {
			pr.Response = response
		}

		result.PromptsRun = append(result.PromptsRun, spec.ID)
		result.Results[spec.ID] = pr
	}

	result.Summary = buildSummary(result)
	a.log.Info().
		Str("symbol", symbol).
		Int("prompts", len(result.PromptsRun)).
		Int("errors", result.ErrorCount()).
		Msg("analysis complete")
	return result, nil
}

// buildSummary condenses a run into one line per prompt: the prompt title
// followed by the first sentence of its response, or a failure note.
func buildSummary(r *models.AnalysisResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analysis of %s: %d/%d prompts succeeded.",
		r.Symbol, len(r.PromptsRun)-r.ErrorCount(), len(r.PromptsRun))

	for _, id := range r.PromptsRun {
		pr := r.Results[id]
		spec, ok := prompts.Lookup(id)
		title := id
		if ok {
			title = spec.Title
		}
		b.WriteByte('\n')
		if pr.Failed() {
			fmt.Fprintf(&b, "- %s: failed (%s)", title, pr.Err)
			continue
		}
		fmt.Fprintf(&b, "- %s: %s", title, firstSentence(pr.Response))
	}
	return b.String()
}

// firstSentence extracts a short preview of a response.
func firstSentence(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "\n"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, ". "); i >= 0 {
		s = s[:i+1]
	}
	const max = 200
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
