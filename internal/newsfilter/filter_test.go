package newsfilter

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/stockdigest/internal/models"
)

var testAliasTable = map[string][]string{
	"INFY":     {"Infosys", "Infy"},
	"NSE:INFY": {"Infosys", "Infy"},
	"TSM":      {"TSMC", "Taiwan Semiconductor"},
	"HDFCBANK": {"HDFC Bank", "HDFC"},
}

func ts(t time.Time) *time.Time { return &t }

func TestAliasesFor(t *testing.T) {
	tests := []struct {
		name    string
		holding models.Holding
		want    []string
	}{
		{
			name:    "exchange-prefixed ticker finds table entries",
			holding: models.Holding{Ticker: "NSE:INFY", YahooTicker: "INFY", Name: "Infosys Ltd"},
			want:    []string{"nse:infy", "infy", "infosys", "infosys ltd"},
		},
		{
			name:    "us ticker with alias table",
			holding: models.Holding{Ticker: "TSM", YahooTicker: "TSM", Name: "Taiwan Semiconductor"},
			want:    []string{"tsm", "tsmc", "taiwan semiconductor", "taiwan"},
		},
		{
			name:    "no table entry falls back to name tokens",
			holding: models.Holding{Ticker: "FOO", YahooTicker: "FOO", Name: "Foobar Industries Ltd"},
			want:    []string{"foo", "foobar industries ltd", "foobar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AliasesFor(tt.holding, testAliasTable)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestAliasesForAlwaysLowercaseAndNonEmpty(t *testing.T) {
	holdings := []models.Holding{
		{Ticker: "AAPL", YahooTicker: "AAPL", Name: "Apple Inc."},
		{Ticker: "NSE:BEL", YahooTicker: "BEL.NS", Name: "Bharat Electronics"},
		{Ticker: "M&M", YahooTicker: "M&M.NS", Name: "Mahindra & Mahindra"},
		{Ticker: "X"}, // no name, no table entry
	}

	for _, h := range holdings {
		aliases := AliasesFor(h, testAliasTable)
		require.NotEmpty(t, aliases, "ticker %s", h.Ticker)
		for _, a := range aliases {
			assert.Equal(t, strings.ToLower(a), a, "alias %q not lowercased", a)
			assert.NotEmpty(t, a)
		}
	}
}

func TestIsRecent(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		article  models.Article
		daysBack int
		want     bool
	}{
		{"no timestamp is always recent", models.Article{}, 1, true},
		{"no timestamp with tiny window", models.Article{}, 0, true},
		{"published an hour ago", models.Article{Published: ts(now.Add(-time.Hour))}, 1, true},
		{"published exactly at cutoff", models.Article{Published: ts(now.Add(-24 * time.Hour))}, 1, true},
		{"published two days ago", models.Article{Published: ts(now.Add(-48 * time.Hour))}, 1, false},
		{"two days ago with wide window", models.Article{Published: ts(now.Add(-48 * time.Hour))}, 7, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			daysBack := tt.daysBack
			if daysBack == 0 {
				daysBack = 1
			}
			assert.Equal(t, tt.want, IsRecent(tt.article, daysBack, now))
		})
	}
}

func TestIsRelevant(t *testing.T) {
	infy := models.Holding{Ticker: "NSE:INFY", YahooTicker: "INFY", Name: "Infosys Ltd"}

	tests := []struct {
		name    string
		article models.Article
		want    bool
	}{
		{
			name:    "per-ticker feed article always relevant",
			article: models.Article{Title: "Completely unrelated story", FromSectorFeed: false},
			want:    true,
		},
		{
			name:    "sector feed exact substring match",
			article: models.Article{Title: "Infosys Q3 revenue up 12%", FromSectorFeed: true},
			want:    true,
		},
		{
			name:    "sector feed match in summary",
			article: models.Article{Title: "IT major posts results", Summary: "Infosys reported strong growth", FromSectorFeed: true},
			want:    true,
		},
		{
			name:    "sector feed unrelated article",
			article: models.Article{Title: "Wipro wins large deal in Europe", FromSectorFeed: true},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRelevant(tt.article, infy, testAliasTable, 70))
		})
	}
}

func TestIsRelevantSkipsShortAliases(t *testing.T) {
	// "LT" is under 3 chars; an article containing "lt" as a fragment must
	// not match through it.
	lt := models.Holding{Ticker: "LT", YahooTicker: "LT", Name: ""}
	a := models.Article{Title: "Results delta for multiple firms", FromSectorFeed: true}
	assert.False(t, IsRelevant(a, lt, nil, 70))
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HDFC Bank Q3 Beats Estimates!", "hdfc bank q3 beats estimates"},
		{"  Spaced   out\ttitle ", "spaced out title"},
		{"Già-weird — punctuation: 50% up?", "giweird punctuation 50 up"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeTitle(tt.in), "input %q", tt.in)
	}
}

func TestIsDuplicateTitle(t *testing.T) {
	seen := []string{NormalizeTitle("Q3 estimates beaten by Company X")}

	assert.True(t, IsDuplicateTitle("Company X Q3 beats estimates", seen, 70),
		"reordered title should register as duplicate")
	assert.False(t, IsDuplicateTitle("Company Y announces dividend", seen, 70))
	assert.False(t, IsDuplicateTitle("Company X Q3 beats estimates", nil, 70),
		"empty seen set never matches")
}

func TestIsDuplicateTitleSymmetric(t *testing.T) {
	a := "Company X Q3 beats estimates"
	b := "Q3 estimates beaten by Company X"

	assert.Equal(t,
		IsDuplicateTitle(a, []string{NormalizeTitle(b)}, 70),
		IsDuplicateTitle(b, []string{NormalizeTitle(a)}, 70))
}

func TestTruncateWords(t *testing.T) {
	assert.Equal(t, "one two three", TruncateWords("one two three", 5))
	assert.Equal(t, "one two...", TruncateWords("one two three four", 2))
	assert.Equal(t, "", TruncateWords("", 10))
}

func TestTruncateForLog(t *testing.T) {
	assert.Equal(t, "short title", truncateForLog("short title"))

	// A long run of 3-byte runes guarantees the 60-byte cut lands
	// mid-rune; the result must still be valid UTF-8.
	long := strings.Repeat("₹", 40)
	got := truncateForLog(long)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), 60)
	assert.Equal(t, strings.Repeat("₹", 20), got)

	ascii := strings.Repeat("a", 80)
	assert.Equal(t, ascii[:60], truncateForLog(ascii))
}

func TestFilterForHoldingFunnel(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	h := models.Holding{Ticker: "NSE:INFY", YahooTicker: "INFY", Name: "Infosys Ltd"}

	articles := []models.Article{
		{Title: "Infosys Q3 beats estimates", Published: ts(now.Add(-2 * time.Hour))},
		{Title: "Stale Infosys story", Published: ts(now.Add(-72 * time.Hour))},
		{Title: "Wipro bags new contract", Published: ts(now.Add(-time.Hour)), FromSectorFeed: true},
		{Title: "Q3 estimates beaten by Infosys", Published: ts(now.Add(-time.Hour))},
		{Title: "Infosys announces buyback", Published: nil},
	}

	kept, stats := FilterForHolding(articles, h, Options{
		DaysBack:   1,
		AliasTable: testAliasTable,
		Now:        now,
	})

	require.Len(t, kept, 2)
	assert.Equal(t, "Infosys Q3 beats estimates", kept[0].Title)
	assert.Equal(t, "Infosys announces buyback", kept[1].Title, "timestampless article survives")

	assert.Equal(t, 2, stats.Kept)
	assert.Equal(t, 1, stats.TooOld)
	assert.Equal(t, 1, stats.Irrelevant)
	assert.Equal(t, 1, stats.Duplicate)
}

func TestFilterForHoldingCapAndEarlyStop(t *testing.T) {
	h := models.Holding{Ticker: "AAPL", YahooTicker: "AAPL", Name: "Apple Inc."}

	titles := []string{
		"iPhone sales surge across India",
		"Vision Pro production reportedly cut",
		"Services revenue hits new record",
		"Buyback program expanded by board",
		"Antitrust ruling appealed in Europe",
		"Chip supplier diversification continues",
		"Retail stores open in Malaysia",
		"Dividend raised after strong quarter",
	}
	var articles []models.Article
	for _, title := range titles {
		articles = append(articles, models.Article{Title: title})
	}

	kept, stats := FilterForHolding(articles, h, Options{MaxArticles: 5, AliasTable: testAliasTable})

	assert.Len(t, kept, 5)
	assert.Equal(t, 5, stats.Kept)
	// Early stop: nothing past the cap is counted in any bucket.
	assert.Equal(t, 0, stats.TooOld+stats.Irrelevant+stats.Duplicate)
}

func TestFilterForHoldingTruncatesText(t *testing.T) {
	h := models.Holding{Ticker: "AAPL", YahooTicker: "AAPL", Name: "Apple Inc."}

	long := strings.Repeat("word ", 500)
	articles := []models.Article{{Title: "Apple launches product", Summary: long, Body: long}}

	kept, _ := FilterForHolding(articles, h, Options{
		SummaryMaxWords: 150,
		BodyMaxWords:    300,
		AliasTable:      testAliasTable,
	})

	require.Len(t, kept, 1)
	assert.LessOrEqual(t, len(strings.Fields(kept[0].Summary)), 151)
	assert.LessOrEqual(t, len(strings.Fields(kept[0].Body)), 301)
	assert.True(t, strings.HasSuffix(kept[0].Summary, "..."))
}

func TestFilterAll(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	raw := models.NewsMap{
		"AAPL": {
			Holding:  models.Holding{Ticker: "AAPL", YahooTicker: "AAPL", Name: "Apple Inc."},
			Articles: []models.Article{{Title: "Apple beats earnings", Published: ts(now.Add(-time.Hour))}},
		},
		"MSFT": {
			Holding:  models.Holding{Ticker: "MSFT", YahooTicker: "MSFT", Name: "Microsoft"},
			Articles: nil,
		},
	}

	filtered := FilterAll(raw, Options{DaysBack: 1, Now: now, AliasTable: testAliasTable})

	require.Len(t, filtered, 2, "holdings without news stay in the map")
	assert.Len(t, filtered["AAPL"].Articles, 1)
	assert.Empty(t, filtered["MSFT"].Articles)
}
