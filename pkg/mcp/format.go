package mcp

import (
	"fmt"
	"strings"

	"github.com/stocksage-ai/stocksage/pkg/models"
	"github.com/stocksage-ai/stocksage/pkg/prompts"
	"github.com/stocksage-ai/stocksage/pkg/report"
)

// formatAnalysis renders a full run as markdown for the calling agent.
func formatAnalysis(r *models.AnalysisResult) string {
	return report.Markdown(r)
}

// formatContext formats a live context as text.
func formatContext(lc *models.LiveContext) string {
	if lc.Empty() {
		return "No live data available for " + lc.Symbol + "."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Live context for %s (fetched %s)\n",
		lc.Symbol, lc.FetchedAt.Format("2006-01-02 15:04:05 UTC"))
	for _, f := range models.Facets {
		blob := lc.Get(f)
		if blob == nil {
			fmt.Fprintf(&b, "  %-13s absent\n", f)
			continue
		}
		fmt.Fprintf(&b, "  %-13s %s\n", f, blob)
	}
	return b.String()
}

// formatPromptList formats the prompt registry as a text table.
func formatPromptList() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-28s %s\n", "ID", "Title")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	for _, spec := range prompts.All() {
		fmt.Fprintf(&b, "%-28s %s\n", spec.ID, spec.Title)
	}
	return b.String()
}

// formatHistory formats analysis records as a text table.
func formatHistory(records []models.AnalysisRecord) string {
	if len(records) == 0 {
		return "No analysis runs found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%6s %-12s %-16s %8s %7s %10s %-20s\n",
		"ID", "Symbol", "Backend", "Prompts", "Errors", "Duration", "When")
	b.WriteString(strings.Repeat("-", 86) + "\n")
	for _, r := range records {
		fmt.Fprintf(&b, "%6d %-12s %-16s %8d %7d %8dms %-20s\n",
			r.ID, r.Symbol, r.Backend, r.PromptsRun, r.Errors, r.DurationMs,
			r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return b.String()
}

// formatCacheStats formats cache stats as text.
func formatCacheStats(stats models.CacheStats) string {
	total := stats.Hits + stats.Misses
	hitRate := float64(0)
	if total > 0 {
		hitRate = float64(stats.Hits) / float64(total) * 100
	}
	return fmt.Sprintf("Cache Statistics\n"+
		"  Entries:  %d\n"+
		"  Hits:     %d\n"+
		"  Misses:   %d\n"+
		"  Hit Rate: %.1f%%\n",
		stats.Entries, stats.Hits, stats.Misses, hitRate)
}
