package newsfetch

import (
	"log/slog"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/spacesedan/stockdigest/internal/newsfilter"
)

// ScrapeBody extracts readable article text from a URL, word-capped so a
// long feature piece doesn't blow the analysis prompt. Returns "" on any
// failure; the RSS summary is the fallback.
func ScrapeBody(url string, timeout time.Duration, maxWords int) string {
	article, err := readability.FromURL(url, timeout)
	if err != nil {
		slog.Debug("[NewsFetcher] body scrape failed",
			slog.String("url", url),
			slog.String("error", err.Error()))
		return ""
	}

	return newsfilter.TruncateWords(article.TextContent, maxWords)
}
