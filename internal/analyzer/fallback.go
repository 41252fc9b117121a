package analyzer

import (
	"strings"

	"github.com/spacesedan/stockdigest/internal/models"
)

// placeholderResult is the deterministic stand-in used whenever the API path
// fails for a holding. Fixed fields on purpose: downstream consumers can
// rely on every holding having exactly one result, and a failed batch must
// read as "no signal", not as invented analysis.
func placeholderResult(ticker, reason string) models.AnalysisResult {
	summary := "Analysis unavailable."
	if reason != "" {
		summary = strings.TrimSpace(summary + " " + reason)
	}

	return models.AnalysisResult{
		Ticker:         ticker,
		Sentiment:      models.SentimentNeutral,
		Summary:        summary,
		Priority:       models.PriorityLow,
		PriorityReason: reason,
		ActionHint:     models.ActionNoNews,
		ThesisStatus:   models.ThesisUnclear,
	}
}

func placeholderBatch(entries []models.HoldingNews, reason string) []models.AnalysisResult {
	results := make([]models.AnalysisResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, placeholderResult(e.Holding.Ticker, reason))
	}
	return results
}
