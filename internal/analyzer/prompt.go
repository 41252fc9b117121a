package analyzer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spacesedan/stockdigest/internal/models"
)

const dailySystemPrompt = `You are a personal stock portfolio analyst.
Analyze the news for each stock and return ONLY a valid JSON array.
No markdown, no explanation, no backticks. Just the JSON array.

For each stock return an object with these exact keys:
{
  "ticker": "string",
  "sentiment": "positive" | "negative" | "neutral",
  "summary": "2 sentence max. What happened and why it matters to this investor.",
  "priority": "HIGH" | "MEDIUM" | "LOW",
  "priority_reason": "One line.",
  "action_hint": "hold" | "watch" | "research_exit" | "research_buy_more" | "no_news",
  "thesis_status": "intact" | "weakened" | "broken" | "unclear"
}

Priority guide:
  HIGH   = significant negative/positive news, stock moved >3%, fundamental change
  MEDIUM = minor news, sector movement, worth watching
  LOW    = no significant news, normal day

Action hints:
  hold              = neutral/positive, keep holding
  watch             = something changed, monitor closely
  research_exit     = negative fundamental news, consider cutting losses
  research_buy_more = strong positive signal, consider adding
  no_news           = nothing found`

const weeklyPromptTemplate = `You are a portfolio analyst doing a weekly review.
Below are daily summaries from the past 7 days.

Provide:
1. Top 3 stocks needing urgent attention (with reasons)
2. Top 3 stocks showing positive momentum
3. Sector-level trends you notice
4. Overall sentiment: bullish / bearish / mixed

Keep under 600 words. Be direct and actionable.

Weekly data:
%s`

const monthlyPromptTemplate = `You are a portfolio analyst doing a monthly review.
Below are weekly summaries and current portfolio snapshot.

Provide:
1. Portfolio Health Score (1-10) with explanation
2. Winners this month — what worked and why
3. Losers — what went wrong, is the thesis still valid?
4. Stocks to consider exiting — original buy reason broken?
5. Macro trends affecting your portfolio
6. Month ahead — what to watch

Be honest. Under 800 words.

Monthly data:
%s

Portfolio snapshot:
%s`

var batchDivider = "\n\n" + strings.Repeat("─", 40) + "\n\n"

// BuildHoldingContext renders one holding's financial snapshot and kept news
// as the plain-text block Gemini sees. Links stay out; the email builder
// handles those without AI.
func BuildHoldingContext(entry models.HoldingNews) string {
	h := entry.Holding
	cur := h.CurrencySymbol()

	name := h.Name
	if name == "" {
		name = h.Ticker
	}
	sector := h.Sector
	if sector == "" {
		sector = "Unknown"
	}

	lines := []string{fmt.Sprintf("STOCK: %s | %s | %s", h.Ticker, name, sector)}

	if h.AvgPrice != nil && h.MktPrice != nil {
		gain := "N/A"
		if h.GainPct != nil {
			gain = fmt.Sprintf("%+.1f%%", *h.GainPct)
		}
		lines = append(lines, fmt.Sprintf("Price: %s%.2f → %s%.2f (%s)", cur, *h.AvgPrice, cur, *h.MktPrice, gain))
	}

	if h.Invested != nil && h.Profit != nil {
		lines = append(lines, fmt.Sprintf("P&L: %s%+.0f on %s%.0f invested", cur, *h.Profit, cur, *h.Invested))
	}

	if len(entry.Articles) == 0 {
		lines = append(lines, "RECENT NEWS: None found.")
		return strings.Join(lines, "\n")
	}

	lines = append(lines, "RECENT NEWS:")
	for i, a := range entry.Articles {
		date := "recent"
		if a.Published != nil {
			date = a.Published.Format("2006-01-02")
		}
		lines = append(lines, fmt.Sprintf("  [%d] (%s) %s", i+1, date, a.Title))

		body := a.Body
		if body == "" {
			body = a.Summary
		}
		if body != "" {
			lines = append(lines, "  "+clip(body, 200))
		}
	}

	return strings.Join(lines, "\n")
}

func buildBatchPrompt(contexts []string) string {
	return dailySystemPrompt +
		"\n\nStocks to analyze:\n" +
		strings.Join(contexts, batchDivider) +
		"\n\nReturn JSON array with one object per stock."
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := s[:n]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}
