package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/spacesedan/stockdigest/internal/models"
	"github.com/spacesedan/stockdigest/internal/utils"
)

// SortByInvestment orders holdings by invested amount descending. Indian
// positions get a small multiplicative boost so they sort ahead of US ones
// at near-equal investment; if the run dies on quota mid-way, the positions
// that matter most were already analyzed.
func SortByInvestment(entries []models.HoldingNews, boost float64) []models.HoldingNews {
	if boost <= 0 {
		boost = 1.1
	}

	sorted := make([]models.HoldingNews, len(entries))
	copy(sorted, entries)

	score := func(e models.HoldingNews) float64 {
		v := e.Holding.SortValue()
		if e.Holding.Market == models.MarketIndia {
			v *= boost
		}
		return v
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return score(sorted[i]) > score(sorted[j])
	})

	return sorted
}

// AnalyzeDaily drives the whole daily analysis: holdings with news go to
// Gemini in investment-ordered batches, holdings without news get a
// placeholder without spending quota, and every holding that came in leaves
// with exactly one result.
func (s *Session) AnalyzeDaily(ctx context.Context, filtered models.NewsMap, batchSize int) []models.AnalysisResult {
	if batchSize < 1 {
		batchSize = 5
	}

	var withNews, noNews []models.HoldingNews
	for _, entry := range filtered {
		if len(entry.Articles) > 0 {
			withNews = append(withNews, entry)
		} else {
			noNews = append(noNews, entry)
		}
	}

	slog.Info("[Analyzer] starting daily analysis",
		slog.Int("with_news", len(withNews)),
		slog.Int("no_news", len(noNews)),
		slog.Int("batch_size", batchSize),
		slog.String("model", s.ActiveModel()))

	var results []models.AnalysisResult

	sorted := SortByInvestment(withNews, s.marketBoost)
	batches := utils.Chunk(sorted, batchSize)

	for i, batch := range batches {
		tickers := make([]string, 0, len(batch))
		contexts := make([]string, 0, len(batch))
		for _, entry := range batch {
			tickers = append(tickers, entry.Holding.Ticker)
			contexts = append(contexts, BuildHoldingContext(entry))
		}

		prompt := buildBatchPrompt(contexts)
		slog.Info("[Analyzer] sending batch",
			slog.Int("batch", i+1),
			slog.Int("batches", len(batches)),
			slog.Any("tickers", tickers),
			slog.Int("est_tokens", utils.EstimateTokens(prompt)))

		results = append(results, s.analyzeBatch(ctx, batch, prompt)...)
	}

	for _, entry := range noNews {
		results = append(results, mergeHoldingFields(
			placeholderResult(entry.Holding.Ticker, "No recent news found."),
			entry.Holding))
	}

	sortForDigest(results)

	high, medium := 0, 0
	for _, r := range results {
		switch r.Priority {
		case models.PriorityHigh:
			high++
		case models.PriorityMedium:
			medium++
		}
	}
	slog.Info("[Analyzer] analysis complete",
		slog.Int("results", len(results)),
		slog.Int("high", high),
		slog.Int("medium", medium),
		slog.Int("low", len(results)-high-medium))

	return results
}

// analyzeBatch runs one request/response exchange and guarantees a result
// for every holding in the batch, real or placeholder.
func (s *Session) analyzeBatch(ctx context.Context, batch []models.HoldingNews, prompt string) []models.AnalysisResult {
	holdings := make(map[string]models.Holding, len(batch))
	for _, entry := range batch {
		holdings[entry.Holding.Ticker] = entry.Holding
	}

	raw, ok := s.callWithRetry(ctx, prompt, tickersOf(batch))
	if !ok || raw == "" {
		return mergeBatch(placeholderBatch(batch, "API unavailable."), holdings, batch)
	}

	parsed, err := parseBatchResponse(raw)
	if err != nil {
		slog.Error("[Analyzer] unparseable batch response",
			slog.Any("tickers", tickersOf(batch)),
			slog.String("error", err.Error()),
			slog.String("raw", clip(raw, 300)))
		return mergeBatch(placeholderBatch(batch, "Response parse error."), holdings, batch)
	}

	return mergeBatch(parsed, holdings, batch)
}

// mergeBatch attaches display fields to parsed results and backfills a
// placeholder for any holding the model skipped. Results for unknown
// tickers are dropped rather than guessed at.
func mergeBatch(parsed []models.AnalysisResult, holdings map[string]models.Holding, batch []models.HoldingNews) []models.AnalysisResult {
	covered := make(map[string]bool, len(parsed))
	merged := make([]models.AnalysisResult, 0, len(batch))

	for _, r := range parsed {
		h, known := holdings[r.Ticker]
		if !known {
			slog.Warn("[Analyzer] dropping result for unknown ticker",
				slog.String("ticker", r.Ticker))
			continue
		}
		if covered[r.Ticker] {
			continue
		}
		covered[r.Ticker] = true
		merged = append(merged, mergeHoldingFields(r, h))
	}

	for _, entry := range batch {
		if !covered[entry.Holding.Ticker] {
			slog.Warn("[Analyzer] holding missing from response, substituting placeholder",
				slog.String("ticker", entry.Holding.Ticker))
			merged = append(merged, mergeHoldingFields(
				placeholderResult(entry.Holding.Ticker, "Missing from analysis response."),
				entry.Holding))
		}
	}

	return merged
}

func mergeHoldingFields(r models.AnalysisResult, h models.Holding) models.AnalysisResult {
	r.Name = h.Name
	r.Market = h.Market
	r.Sector = h.Sector
	r.GainPct = h.GainPct
	r.InvestedINR = h.InvestedINR
	if h.Market == models.MarketIndia {
		r.ProfitINR = h.Profit
	}
	return r
}

// sortForDigest orders results for presentation: HIGH → MEDIUM → LOW, then
// invested amount descending within each tier.
func sortForDigest(results []models.AnalysisResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Priority.Rank() != results[j].Priority.Rank() {
			return results[i].Priority.Rank() < results[j].Priority.Rank()
		}
		return results[i].SortValue() > results[j].SortValue()
	})
}

func tickersOf(batch []models.HoldingNews) []string {
	tickers := make([]string, 0, len(batch))
	for _, entry := range batch {
		tickers = append(tickers, entry.Holding.Ticker)
	}
	return tickers
}

// AnalyzeWeekly synthesizes a week of DailyLog rows into one review.
func (s *Session) AnalyzeWeekly(ctx context.Context, weeklyData string) string {
	text, ok := s.callWithRetry(ctx, fmt.Sprintf(weeklyPromptTemplate, weeklyData), []string{"weekly"})
	if !ok {
		return "Weekly analysis unavailable."
	}
	return text
}

// AnalyzeMonthly synthesizes a month of log data plus a portfolio snapshot.
func (s *Session) AnalyzeMonthly(ctx context.Context, monthlyData string, portfolio []models.Holding) string {
	totalInvested := 0.0
	var losers []string
	for _, h := range portfolio {
		if h.InvestedINR != nil {
			totalInvested += *h.InvestedINR
		}
		if h.GainPct != nil && *h.GainPct < -20 {
			losers = append(losers, fmt.Sprintf("%s (%.1f%%)", h.Ticker, *h.GainPct))
		}
	}

	losersLine := "None"
	if len(losers) > 0 {
		losersLine = strings.Join(losers, ", ")
	}
	snapshot := fmt.Sprintf("Total stocks: %d\nTotal invested: ₹%.0f\nStocks >20%% down: %s",
		len(portfolio), totalInvested, losersLine)

	text, ok := s.callWithRetry(ctx, fmt.Sprintf(monthlyPromptTemplate, monthlyData, snapshot), []string{"monthly"})
	if !ok {
		return "Monthly analysis unavailable."
	}
	return text
}
