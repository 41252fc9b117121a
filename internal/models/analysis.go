package models

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Rank orders priorities for the final digest sort, HIGH first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

type ActionHint string

const (
	ActionHold         ActionHint = "hold"
	ActionWatch        ActionHint = "watch"
	ActionResearchExit ActionHint = "research_exit"
	ActionResearchBuy  ActionHint = "research_buy_more"
	ActionNoNews       ActionHint = "no_news"
)

type ThesisStatus string

const (
	ThesisIntact   ThesisStatus = "intact"
	ThesisWeakened ThesisStatus = "weakened"
	ThesisBroken   ThesisStatus = "broken"
	ThesisUnclear  ThesisStatus = "unclear"
)

// AnalysisResult is one holding's synthesis, either from Gemini or from the
// deterministic fallback when the API path fails. The trailing fields are
// merged back from the holding after parsing so the digest never has to
// look the holding up again.
type AnalysisResult struct {
	Ticker         string       `json:"ticker"`
	Sentiment      Sentiment    `json:"sentiment"`
	Summary        string       `json:"summary"`
	Priority       Priority     `json:"priority"`
	PriorityReason string       `json:"priority_reason,omitempty"`
	ActionHint     ActionHint   `json:"action_hint"`
	ThesisStatus   ThesisStatus `json:"thesis_status"`

	Name        string   `json:"name,omitempty"`
	Market      Market   `json:"market,omitempty"`
	Sector      string   `json:"sector,omitempty"`
	GainPct     *float64 `json:"gain_pct,omitempty"`
	ProfitINR   *float64 `json:"profit_inr,omitempty"`
	InvestedINR *float64 `json:"invested_inr,omitempty"`
}

// SortValue mirrors Holding.SortValue for the post-analysis re-sort.
func (r AnalysisResult) SortValue() float64 {
	if r.InvestedINR == nil {
		return 0
	}
	return *r.InvestedINR
}
