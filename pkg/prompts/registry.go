package prompts

import (
	"errors"
	"fmt"
)

// ErrUnknownPrompt is returned when a requested prompt ID is not in the
// registry. It is raised before any model call is made.
var ErrUnknownPrompt = errors.New("unknown prompt id")

// Spec is a static analytical prompt template. Templates accept the
// [STOCK NAME] subject marker and the optional {price_context},
// {fundamentals_context}, and {news_context} placeholders.
type Spec struct {
	ID       string
	Title    string
	Template string
}

// registry holds the 16 analytical prompts in their canonical order.
// It is read-only after initialization.
var registry = []Spec{
	{
		ID:    "1_market_mindset",
		Title: "Market Mindset Check",
		Template: "Market Mindset Check for [STOCK NAME]:\n" +
			"Current price context: {price_context}\n" +
			"Before analyzing [STOCK NAME], reflect on the broader market mood today. " +
			"Are you approaching this with clarity, or is fear/greed influencing your view? " +
			"Describe the dominant market sentiment and how it should affect your interpretation of [STOCK NAME] data.",
	},
	{
		ID:    "2_multi_timeframe_trend",
		Title: "Multi-Timeframe Trend Clarity",
		Template: "Multi-Timeframe Trend Clarity for [STOCK NAME]:\n" +
			"Price data: {price_context}\n" +
			"Analyze [STOCK NAME] across weekly, daily, and intraday timeframes. " +
			"Is the trend aligned across all timeframes? Where are the key support and resistance levels? " +
			"Summarize the trend structure and note any divergences between timeframes.",
	},
	{
		ID:    "3_bull_vs_bear",
		Title: "Bull vs Bear Case",
		Template: "Bull vs Bear Case for [STOCK NAME]:\n" +
			"Fundamentals summary: {fundamentals_context}\n" +
			"Price: {price_context}\n" +
			"Present the strongest arguments for both the bullish and bearish scenarios for [STOCK NAME]. " +
			"Which side has more evidence right now, and why?",
	},
	{
		ID:    "4_risk_before_reward",
		Title: "Risk Before Reward Assessment",
		Template: "Risk Before Reward Assessment for [STOCK NAME]:\n" +
			"Price: {price_context}\n" +
			"Before thinking about profits, identify the top 3 risks of investing in [STOCK NAME] right now. " +
			"What is the maximum downside, and how would you manage each risk?",
	},
	{
		ID:    "5_entry_discipline",
		Title: "Entry Discipline Check",
		Template: "Entry Discipline Check for [STOCK NAME]:\n" +
			"Price: {price_context}\n" +
			"Fundamentals: {fundamentals_context}\n" +
			"What are the ideal entry conditions for [STOCK NAME]? " +
			"Is the current price a reasonable entry, or should you wait for a better setup? " +
			"Define clear entry criteria (price level, volume confirmation, catalyst).",
	},
	{
		ID:    "6_exit_framework",
		Title: "Exit Framework",
		Template: "Exit Framework for [STOCK NAME]:\n" +
			"Price: {price_context}\n" +
			"Design a complete exit strategy for a position in [STOCK NAME]. " +
			"Include: profit target levels, stop-loss placement, time-based exit criteria, " +
			"and conditions that would invalidate the trade thesis.",
	},
	{
		ID:    "7_news_detox",
		Title: "News Detox Analysis",
		Template: "News Detox Analysis for [STOCK NAME]:\n" +
			"Recent headlines: {news_context}\n" +
			"Review the latest news about [STOCK NAME]. Separate signal from noise. " +
			"Which news items have genuine fundamental impact, and which are just market noise? " +
			"Provide a balanced view that filters out emotional or sensational reporting.",
	},
	{
		ID:    "8_earnings_expectations",
		Title: "Earnings Expectations",
		Template: "Earnings Expectations for [STOCK NAME]:\n" +
			"Fundamentals: {fundamentals_context}\n" +
			"What are the current earnings expectations for [STOCK NAME]? " +
			"Is the stock priced for perfection, or is there room to beat estimates? " +
			"Analyze EPS trends, revenue growth, and margin trajectories.",
	},
	{
		ID:    "9_valuation_sanity",
		Title: "Valuation Sanity Check",
		Template: "Valuation Sanity Check for [STOCK NAME]:\n" +
			"Fundamentals: {fundamentals_context}\n" +
			"Price: {price_context}\n" +
			"Is [STOCK NAME] cheap, fair, or expensive based on current fundamentals? " +
			"Compare P/E, P/B, EV/EBITDA to sector peers and historical averages. " +
			"At what price would [STOCK NAME] become compelling value?",
	},
	{
		ID:    "10_sentiment_vs_fundamentals",
		Title: "Sentiment vs Fundamentals",
		Template: "Sentiment vs Fundamentals for [STOCK NAME]:\n" +
			"News: {news_context}\n" +
			"Fundamentals: {fundamentals_context}\n" +
			"Is market sentiment for [STOCK NAME] aligned with or diverging from its fundamentals? " +
			"Identify any disconnect and explain whether it represents opportunity or a warning sign.",
	},
	{
		ID:    "11_scenario_planning",
		Title: "Scenario Planning",
		Template: "Scenario Planning for [STOCK NAME]:\n" +
			"Price: {price_context}\n" +
			"Fundamentals: {fundamentals_context}\n" +
			"Map out three scenarios for [STOCK NAME] over the next 6–12 months: " +
			"Bull case (price target + catalysts), Base case (most likely outcome), " +
			"and Bear case (downside risks + triggers). Assign rough probabilities to each.",
	},
	{
		ID:    "12_mistake_prevention",
		Title: "Mistake Prevention Checklist",
		Template: "Mistake Prevention Checklist for [STOCK NAME]:\n" +
			"What are the most common investor mistakes made with stocks like [STOCK NAME]? " +
			"List 5 cognitive biases or behavioral errors that could lead to a bad outcome, " +
			"and explain how to guard against each one specifically for [STOCK NAME].",
	},
	{
		ID:    "13_post_loss_reflection",
		Title: "Post-Loss Reflection Framework",
		Template: "Post-Loss Reflection Framework for [STOCK NAME]:\n" +
			"Imagine you took a 15% loss on [STOCK NAME]. Walk through a structured post-mortem: " +
			"What was the original thesis? Where did the analysis go wrong? " +
			"What early warning signs were missed? What would you do differently next time?",
	},
	{
		ID:    "14_decision_clarity",
		Title: "Decision Clarity",
		Template: "Decision Clarity for [STOCK NAME]:\n" +
			"Price: {price_context}\n" +
			"Fundamentals: {fundamentals_context}\n" +
			"News: {news_context}\n" +
			"Synthesize everything and provide a clear, actionable decision for [STOCK NAME]: " +
			"Buy / Hold / Sell / Avoid – with a specific rationale, position sizing suggestion, " +
			"and the single most important factor that would change this view.",
	},
	{
		ID:    "15_macro_sector_check",
		Title: "Macro & Sector Check",
		Template: "Macro & Sector Check for [STOCK NAME]:\n" +
			"Fundamentals: {fundamentals_context}\n" +
			"How are macroeconomic factors (interest rates, inflation, currency) and sector " +
			"dynamics currently affecting [STOCK NAME]? " +
			"Is the sector a tailwind or headwind for the stock right now?",
	},
	{
		ID:    "16_conviction_rating",
		Title: "Conviction Rating",
		Template: "Conviction Rating for [STOCK NAME]:\n" +
			"After completing all analyses, rate your conviction in a long position on [STOCK NAME] " +
			"from 1 (very low) to 10 (very high). Break down the score by: " +
			"fundamental quality (x/10), technical setup (x/10), valuation attractiveness (x/10), " +
			"risk/reward profile (x/10). Provide one sentence justification for each sub-score.",
	},
}

// index maps prompt IDs to registry positions.
var index = func() map[string]int {
	m := make(map[string]int, len(registry))
	for i, spec := range registry {
		m[spec.ID] = i
	}
	return m
}()

// All returns every prompt spec in registry order.
func All() []Spec {
	out := make([]Spec, len(registry))
	copy(out, registry)
	return out
}

// IDs returns all prompt IDs in registry order.
func IDs() []string {
	ids := make([]string, len(registry))
	for i, spec := range registry {
		ids[i] = spec.ID
	}
	return ids
}

// Lookup returns the spec for id.
func Lookup(id string) (Spec, bool) {
	i, ok := index[id]
	if !ok {
		return Spec{}, false
	}
	return registry[i], true
}

// Resolve validates a requested ID sequence and returns the matching specs
// in the requested order. An empty sequence selects the full registry.
// The first unknown ID aborts resolution; no partial execution follows a
// malformed request.
func Resolve(ids []string) ([]Spec, error) {
	if len(ids) == 0 {
		return All(), nil
	}
	specs := make([]Spec, 0, len(ids))
	for _, id := range ids {
		spec, ok := Lookup(id)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPrompt, id)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
