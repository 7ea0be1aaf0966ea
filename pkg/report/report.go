// Package report renders analysis results for humans and machines and
// writes them to disk.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stocksage-ai/stocksage/pkg/models"
	"github.com/stocksage-ai/stocksage/pkg/prompts"
)

// JSON renders a result as indented JSON.
func JSON(r *models.AnalysisResult) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return data, nil
}

// Markdown renders a result as a readable report. Prompts appear in run
// order; failed prompts keep their section with the error noted.
func Markdown(r *models.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Stock Analysis Report: %s\n\n", r.Symbol)
	fmt.Fprintf(&b, "- **Generated:** %s\n", r.Timestamp.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "- **Backend:** %s\n", r.Backend)
	fmt.Fprintf(&b, "- **Prompts:** %d (%d failed)\n", len(r.PromptsRun), r.ErrorCount())
	if lc := r.LiveContext; lc != nil && !lc.Empty() {
		var facets []string
		for _, f := range models.Facets {
			if lc.Get(f) != nil {
				facets = append(facets, string(f))
			}
		}
		fmt.Fprintf(&b, "- **Live context:** %s (fetched %s)\n",
			strings.Join(facets, ", "), lc.FetchedAt.Format("15:04:05 UTC"))
	} else {
		b.WriteString("- **Live context:** none\n")
	}

	b.WriteString("\n## Summary\n\n")
	b.WriteString(r.Summary)
	b.WriteString("\n")

	for _, id := range r.PromptsRun {
		pr := r.Results[id]
		title := id
		if spec, ok := prompts.Lookup(id); ok {
			title = spec.Title
		}
		fmt.Fprintf(&b, "\n## %s\n\n", title)
		if pr.Failed() {
			fmt.Fprintf(&b, "_Failed: %s_\n", pr.Err)
			continue
		}
		b.WriteString(pr.Response)
		b.WriteString("\n")
	}
	return b.String()
}

// Filename builds the canonical report filename for a result.
func Filename(r *models.AnalysisResult, ext string) string {
	return fmt.Sprintf("analysis_%s_%s.%s",
		strings.ToUpper(r.Symbol), r.Timestamp.Format("20060102_150405"), ext)
}

// SaveMarkdown writes the markdown report into dir and returns its path.
func SaveMarkdown(r *models.AnalysisResult, dir string) (string, error) {
	return save(dir, Filename(r, "md"), []byte(Markdown(r)))
}

// SaveJSON writes the JSON report into dir and returns its path.
func SaveJSON(r *models.AnalysisResult, dir string) (string, error) {
	data, err := JSON(r)
	if err != nil {
		return "", err
	}
	return save(dir, Filename(r, "json"), data)
}

func save(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
