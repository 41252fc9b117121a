package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/stockdigest/internal/models"
)

func TestCleanNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *float64
	}{
		{"rupee symbol", "₹873", f(873)},
		{"dollar symbol", "$205.50", f(205.5)},
		{"negative with comma", "-₹5,322", f(-5322)},
		{"percent", "13%", f(13)},
		{"plain", "42", f(42)},
		{"na sentinel", "#N/A", nil},
		{"ref error", "#REF!", nil},
		{"dash", "-", nil},
		{"empty", "", nil},
		{"garbage", "abc", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanNumber(tt.input)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.expected, *got, 0.001)
		})
	}
}

func TestBuildColMap(t *testing.T) {
	headers := []interface{}{"Ticker", " Name ", "Avg Price", "", "Gain %"}
	m := BuildColMap(headers)

	assert.Equal(t, 0, m["ticker"])
	assert.Equal(t, 1, m["name"])
	assert.Equal(t, 2, m["avg price"])
	assert.Equal(t, 4, m["gain %"])
	assert.NotContains(t, m, "")
}

func TestCellFirstMatchWins(t *testing.T) {
	colMap := map[string]int{"qty": 0, "shares": 1}
	row := []interface{}{"10", "99"}

	assert.Equal(t, "99", Cell(row, colMap, "shares", "qty"))
	assert.Equal(t, "10", Cell(row, colMap, "quantity", "qty"))
	assert.Equal(t, "", Cell(row, colMap, "units"))
}

func TestCellShortRow(t *testing.T) {
	colMap := map[string]int{"profit": 5}
	row := []interface{}{"TCS", "Tata Consultancy"}

	assert.Equal(t, "", Cell(row, colMap, "profit"))
}

func TestParseRowIndianStock(t *testing.T) {
	headers := []interface{}{"Ticker", "Name", "Shares", "Avg Price", "Mkt Price", "Invested", "Gain %", "Profit", "Sector"}
	colMap := BuildColMap(headers)
	row := []interface{}{"NSE:INFY", "Infosys Ltd", "10", "₹1,400", "₹1,520", "₹14,000", "8.6%", "₹1,200", "IT"}

	h, ok := parseRow(row, colMap, models.MarketIndia)
	require.True(t, ok)

	assert.Equal(t, "NSE:INFY", h.Ticker)
	assert.Equal(t, "INFY", h.YahooTicker)
	assert.Equal(t, "Infosys Ltd", h.Name)
	assert.Equal(t, models.MarketIndia, h.Market)
	assert.Equal(t, "IT", h.Sector)
	assert.Equal(t, 10.0, h.Shares)
	require.NotNil(t, h.Invested)
	assert.Equal(t, 14000.0, *h.Invested)
	require.NotNil(t, h.InvestedINR)
	assert.Equal(t, 14000.0, *h.InvestedINR)
}

func TestParseRowUSStock(t *testing.T) {
	headers := []interface{}{"Ticker", "Name", "Qty", "Avg. Price", "USD Invested", "Rs Invested", "Gain%"}
	colMap := BuildColMap(headers)
	row := []interface{}{"AAPL", "Apple Inc", "5", "$180", "$900", "₹75,000", "12%"}

	h, ok := parseRow(row, colMap, models.MarketUS)
	require.True(t, ok)

	assert.Equal(t, "AAPL", h.Ticker)
	assert.Equal(t, "AAPL", h.YahooTicker)
	assert.Equal(t, models.MarketUS, h.Market)
	require.NotNil(t, h.Invested)
	assert.Equal(t, 900.0, *h.Invested)
	require.NotNil(t, h.InvestedINR)
	assert.Equal(t, 75000.0, *h.InvestedINR)
}

func TestParseRowSkipsTotalsAndBlank(t *testing.T) {
	headers := []interface{}{"Ticker", "Name", "Avg Price"}
	colMap := BuildColMap(headers)

	_, ok := parseRow([]interface{}{"Total", "", "₹99,999"}, colMap, models.MarketIndia)
	assert.False(t, ok)

	_, ok = parseRow([]interface{}{"", "", ""}, colMap, models.MarketIndia)
	assert.False(t, ok)

	// Missing avg price means a half-filled row.
	_, ok = parseRow([]interface{}{"INFY", "Infosys", "#N/A"}, colMap, models.MarketIndia)
	assert.False(t, ok)
}

func TestLogRowFormatting(t *testing.T) {
	gain := 8.61
	profit := -5322.4
	res := models.AnalysisResult{
		Ticker:       "INFY",
		Name:         "Infosys Ltd",
		Market:       models.MarketIndia,
		Sector:       "IT",
		Sentiment:    models.SentimentPositive,
		Priority:     models.PriorityHigh,
		ActionHint:   models.ActionWatch,
		ThesisStatus: models.ThesisIntact,
		Summary:      "Strong quarter.",
		GainPct:      &gain,
		ProfitINR:    &profit,
	}

	row := logRow("2026-08-31", res)
	require.Len(t, row, 13)
	assert.Equal(t, "2026-08-31", row[0])
	assert.Equal(t, "INFY", row[1])
	assert.Equal(t, "positive", row[5])
	assert.Equal(t, "HIGH", row[6])
	assert.Equal(t, "+8.6%", row[10])
	assert.Equal(t, "₹-5322", row[11])
	assert.Equal(t, "No", row[12])
}

func TestFormatLogPeriod(t *testing.T) {
	gain := 8.61
	recent := logRow(time.Now().AddDate(0, 0, -1).Format("2006-01-02"), models.AnalysisResult{
		Ticker: "INFY", Name: "Infosys Ltd", Sentiment: models.SentimentPositive,
		Priority: models.PriorityHigh, ActionHint: models.ActionWatch,
		Summary: "Strong quarter.", GainPct: &gain,
	})
	stale := logRow("2020-01-01", models.AnalysisResult{
		Ticker: "AAPL", Name: "Apple Inc", Sentiment: models.SentimentNeutral,
		Priority: models.PriorityLow, ActionHint: models.ActionHold,
	})
	header := []interface{}{"Date", "Ticker"}

	text, count := formatLogPeriod([][]interface{}{header, recent, stale}, 7)
	assert.Equal(t, 1, count)
	assert.Contains(t, text, "INFY")
	assert.Contains(t, text, "POSITIVE")
	assert.NotContains(t, text, "AAPL")

	// Header-only and window-miss sheets both report zero entries so
	// callers can bail before prompting.
	text, count = formatLogPeriod([][]interface{}{header}, 7)
	assert.Zero(t, count)
	assert.Equal(t, "No historical data available.", text)

	text, count = formatLogPeriod([][]interface{}{header, stale}, 7)
	assert.Zero(t, count)
	assert.Equal(t, "No data found in the past 7 days.", text)
}

func f(v float64) *float64 { return &v }
