package prompts

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/stocksage-ai/stocksage/pkg/models"
)

// NoDataMarker is substituted for any context placeholder whose facet is
// absent. Rendering never fails; analysis proceeds with whatever context
// exists.
const NoDataMarker = "no data available"

// maxNewsItems caps how many headlines are rendered into a prompt.
const maxNewsItems = 5

// Render fills a prompt template with the subject symbol and whatever live
// context is available. A nil context renders every placeholder as the
// no-data marker.
func Render(spec Spec, symbol string, lc *models.LiveContext) string {
	r := strings.NewReplacer(
		"[STOCK NAME]", symbol,
		"{price_context}", formatPrice(lc.Get(models.FacetPrice)),
		"{fundamentals_context}", formatFundamentals(lc.Get(models.FacetFundamentals)),
		"{news_context}", formatNews(lc.Get(models.FacetNews)),
	)
	return r.Replace(spec.Template)
}

func field(blob []byte, path string) string {
	v := gjson.GetBytes(blob, path)
	if !v.Exists() {
		return "N/A"
	}
	return v.String()
}

func formatPrice(blob []byte) string {
	if blob == nil {
		return NoDataMarker
	}
	return fmt.Sprintf("Price: %s | Change: %s (%s%%) | Volume: %s | As of: %s",
		field(blob, "price"),
		field(blob, "change"),
		field(blob, "change_pct"),
		field(blob, "volume"),
		field(blob, "timestamp"),
	)
}

func formatFundamentals(blob []byte) string {
	if blob == nil {
		return NoDataMarker
	}
	eps := gjson.GetBytes(blob, "eps")
	if !eps.Exists() {
		eps = gjson.GetBytes(blob, "earnings_per_share")
	}
	epsStr := "N/A"
	if eps.Exists() {
		epsStr = eps.String()
	}
	return fmt.Sprintf("Market Cap: %s | P/E: %s | EPS: %s | Dividend Yield: %s%% | 52W High: %s | 52W Low: %s | Sector: %s",
		field(blob, "market_cap"),
		field(blob, "pe_ratio"),
		epsStr,
		field(blob, "dividend_yield"),
		field(blob, "week_52_high"),
		field(blob, "week_52_low"),
		field(blob, "sector"),
	)
}

func formatNews(blob []byte) string {
	if blob == nil {
		return NoDataMarker
	}
	parsed := gjson.ParseBytes(blob)
	items := parsed.Array()
	if !parsed.IsArray() {
		// Some providers wrap the list in a {"news": [...]} envelope.
		items = parsed.Get("news").Array()
	}
	if len(items) == 0 {
		return NoDataMarker
	}
	if len(items) > maxNewsItems {
		items = items[:maxNewsItems]
	}

	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. [%s] %s (%s)",
			i+1,
			item.Get("published_at").String(),
			item.Get("headline").String(),
			item.Get("source").String(),
		)
	}
	return b.String()
}
