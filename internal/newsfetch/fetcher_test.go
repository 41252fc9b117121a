package newsfetch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spacesedan/stockdigest/config"
	"github.com/spacesedan/stockdigest/internal/models"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text", "Infosys beats estimates", "Infosys beats estimates"},
		{"wrapped in paragraph", "<p>Infosys beats estimates</p>", "Infosys beats estimates"},
		{"nested markup", `<div><a href="x">TCS</a> wins <b>large</b> deal</div>`, "TCS wins large deal"},
		{"whitespace collapse", "<p>TCS\n\n   wins deal</p>", "TCS wins deal"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripHTML(tt.input))
		})
	}
}

func TestDedupByTitle(t *testing.T) {
	articles := []models.Article{
		{Title: "Infosys Q3 results beat street estimates"},
		{Title: "INFOSYS Q3 RESULTS BEAT STREET ESTIMATES"},
		{Title: "Wipro announces buyback"},
	}

	unique := dedupByTitle(articles)
	assert.Len(t, unique, 2)
	assert.Equal(t, "Infosys Q3 results beat street estimates", unique[0].Title)
	assert.Equal(t, "Wipro announces buyback", unique[1].Title)
}

func TestDedupByTitleLongTitles(t *testing.T) {
	base := "A very long headline about quarterly results that runs well past sixty characters"
	articles := []models.Article{
		{Title: base + " with one tail"},
		{Title: base + " with another tail"},
	}

	// Same first 60 chars collapses to one.
	unique := dedupByTitle(articles)
	assert.Len(t, unique, 1)
}

func TestPrescanMatchesNameWords(t *testing.T) {
	f := NewFetcher(&config.Feeds{}, nil, FetcherOptions{})
	h := models.Holding{Ticker: "HDFCBANK", Name: "HDFC Bank Ltd"}

	articles := []models.Article{
		{Title: "HDFC Bank raises lending rates", FromSectorFeed: true},
		{Title: "RBI holds repo rate steady", FromSectorFeed: true},
		{Title: "Banking sector outlook improves", Summary: "hdfcbank among gainers", FromSectorFeed: true},
	}

	relevant := f.prescan(articles, h)
	assert.Len(t, relevant, 2)
	assert.Equal(t, "HDFC Bank raises lending rates", relevant[0].Title)
	assert.Equal(t, "Banking sector outlook improves", relevant[1].Title)
}

func TestCapRecentDropsStaleAndCaps(t *testing.T) {
	f := NewFetcher(&config.Feeds{}, nil, FetcherOptions{DaysBack: 1, MaxArticles: 2})

	now := time.Now().UTC()
	fresh := now.Add(-2 * time.Hour)
	stale := now.Add(-72 * time.Hour)

	articles := []models.Article{
		{Title: "old", Published: &stale},
		{Title: "a", Published: &fresh},
		{Title: "b", Published: &fresh},
		{Title: "c", Published: &fresh},
	}

	kept := f.capRecent(t.Context(), articles)
	assert.Len(t, kept, 2)
	assert.Equal(t, "a", kept[0].Title)
	assert.Equal(t, "b", kept[1].Title)
}

func TestNewFetcherDefaults(t *testing.T) {
	f := NewFetcher(&config.Feeds{}, nil, FetcherOptions{})
	assert.Equal(t, 1, f.daysBack)
	assert.Equal(t, 5, f.maxArticles)
	assert.Equal(t, 300, f.bodyWords)
}
