package newsfetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"github.com/spacesedan/stockdigest/config"
	"github.com/spacesedan/stockdigest/internal/clients"
	"github.com/spacesedan/stockdigest/internal/models"
	"github.com/spacesedan/stockdigest/internal/newsfilter"
)

// Fetcher pulls raw articles for every holding from free RSS sources:
// Yahoo Finance per-ticker feeds for both markets, with Economic Times
// sector feeds as the fallback for thinly covered Indian stocks.
type Fetcher struct {
	parser  *gofeed.Parser
	limiter *rate.Limiter
	feeds   *config.Feeds
	seen    *clients.ValkeyClient

	daysBack    int
	maxArticles int
	fetchBodies bool
	bodyWords   int
}

type FetcherOptions struct {
	DaysBack    int
	MaxArticles int
	Timeout     time.Duration
	Delay       time.Duration

	// FetchBodies scrapes full article text; slower, used for the weekly
	// and monthly deep dives.
	FetchBodies bool
	BodyWords   int
}

func NewFetcher(feeds *config.Feeds, seen *clients.ValkeyClient, opts FetcherOptions) *Fetcher {
	if opts.DaysBack <= 0 {
		opts.DaysBack = 1
	}
	if opts.MaxArticles <= 0 {
		opts.MaxArticles = 5
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Delay <= 0 {
		opts.Delay = 500 * time.Millisecond
	}
	if opts.BodyWords <= 0 {
		opts.BodyWords = 300
	}

	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: opts.Timeout}
	parser.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	return &Fetcher{
		parser:      parser,
		limiter:     rate.NewLimiter(rate.Every(opts.Delay), 1),
		feeds:       feeds,
		seen:        seen,
		daysBack:    opts.DaysBack,
		maxArticles: opts.MaxArticles,
		fetchBodies: opts.FetchBodies,
		bodyWords:   opts.BodyWords,
	}
}

// FetchPortfolio gathers news for every holding. A failed feed means zero
// articles for that holding's source, never a failed run.
func (f *Fetcher) FetchPortfolio(ctx context.Context, portfolio []models.Holding) models.NewsMap {
	results := make(models.NewsMap, len(portfolio))
	totalArticles := 0

	for _, h := range portfolio {
		var articles []models.Article
		switch h.Market {
		case models.MarketIndia:
			articles = f.fetchIndian(ctx, h)
		default:
			articles = f.fetchUS(ctx, h)
		}

		if f.fetchBodies {
			f.scrapeBodies(ctx, articles)
		}

		results[h.Ticker] = models.HoldingNews{Holding: h, Articles: articles}
		totalArticles += len(articles)

		if len(articles) == 0 {
			slog.Debug("[NewsFetcher] no recent news", slog.String("ticker", h.Ticker))
		}
	}

	withNews := 0
	for _, entry := range results {
		if len(entry.Articles) > 0 {
			withNews++
		}
	}
	slog.Info("[NewsFetcher] fetch complete",
		slog.Int("holdings", len(portfolio)),
		slog.Int("articles", totalArticles),
		slog.Int("with_news", withNews),
		slog.Int("without_news", len(portfolio)-withNews))

	return results
}

// fetchUS reads the Yahoo per-ticker feed directly.
func (f *Fetcher) fetchUS(ctx context.Context, h models.Holding) []models.Article {
	articles := f.fetchFeed(ctx, fmt.Sprintf(f.feeds.YahooRSSURL, h.YahooTicker), false)
	return f.capRecent(ctx, articles)
}

// fetchIndian tries the NSE-suffixed Yahoo feed, then the bare ticker (some
// Indian stocks carry US listings), then the sector feed with a cheap
// keyword pre-scan. The proper relevance check runs later in the filter.
func (f *Fetcher) fetchIndian(ctx context.Context, h models.Holding) []models.Article {
	articles := f.fetchFeed(ctx, fmt.Sprintf(f.feeds.YahooRSSURL, h.YahooTicker+f.feeds.YahooNSESuffix), false)

	if len(articles) < 2 {
		articles = append(articles, f.fetchFeed(ctx, fmt.Sprintf(f.feeds.YahooRSSURL, h.YahooTicker), false)...)
	}

	if len(articles) < 2 {
		if sectorURL, ok := f.feeds.SectorFeeds[h.Sector]; ok {
			sector := f.fetchFeed(ctx, sectorURL, true)
			articles = append(articles, f.prescan(sector, h)...)
		}
	}

	return f.capRecent(ctx, dedupByTitle(articles))
}

// FetchSector pulls sector-level context articles, capped small.
func (f *Fetcher) FetchSector(ctx context.Context, sector string) []models.Article {
	url, ok := f.feeds.SectorFeeds[sector]
	if !ok {
		return nil
	}

	articles := f.fetchFeed(ctx, url, true)
	var recent []models.Article
	for _, a := range articles {
		if newsfilter.IsRecent(a, f.daysBack, time.Now().UTC()) {
			recent = append(recent, a)
		}
		if len(recent) >= 5 {
			break
		}
	}
	return recent
}

// fetchFeed parses one RSS URL into articles. Any failure logs and returns
// nothing; one dead feed must not kill the run.
func (f *Fetcher) fetchFeed(ctx context.Context, url string, fromSector bool) []models.Article {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil
	}

	feed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		slog.Debug("[NewsFetcher] feed fetch failed",
			slog.String("url", url),
			slog.String("error", err.Error()))
		return nil
	}

	source := feed.Title
	if source == "" {
		source = url
	}

	articles := make([]models.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		published := item.PublishedParsed
		if published == nil {
			published = item.UpdatedParsed
		}

		articles = append(articles, models.Article{
			Title:          strings.TrimSpace(item.Title),
			Link:           item.Link,
			Summary:        stripHTML(item.Description),
			Published:      published,
			Source:         source,
			FromSectorFeed: fromSector,
		})
	}

	return articles
}

// prescan keeps only sector articles that mention the holding at all. This
// is a coarse substring pass to keep feed volume down; the fuzzy relevance
// check still runs in the filter.
func (f *Fetcher) prescan(articles []models.Article, h models.Holding) []models.Article {
	var keywords []string
	keywords = append(keywords, strings.ToLower(h.Ticker), strings.ToLower(h.Name))
	for _, w := range strings.Fields(h.Name) {
		if len(w) > 3 {
			keywords = append(keywords, strings.ToLower(w))
		}
	}

	var relevant []models.Article
	for _, a := range articles {
		text := strings.ToLower(a.Title + " " + a.Summary)
		for _, kw := range keywords {
			if kw != "" && strings.Contains(text, kw) {
				relevant = append(relevant, a)
				break
			}
		}
	}
	return relevant
}

// capRecent drops stale and previously digested articles and applies the
// per-holding cap.
func (f *Fetcher) capRecent(ctx context.Context, articles []models.Article) []models.Article {
	now := time.Now().UTC()
	var kept []models.Article
	for _, a := range articles {
		if !newsfilter.IsRecent(a, f.daysBack, now) {
			continue
		}
		if f.seen.IsSeen(ctx, a.Link) {
			slog.Debug("[NewsFetcher] skipping already digested article",
				slog.String("title", a.Title))
			continue
		}
		kept = append(kept, a)
		if len(kept) >= f.maxArticles {
			break
		}
	}
	return kept
}

func (f *Fetcher) scrapeBodies(ctx context.Context, articles []models.Article) {
	for i := range articles {
		if articles[i].Link == "" || articles[i].Body != "" {
			continue
		}
		if err := f.limiter.Wait(ctx); err != nil {
			return
		}
		articles[i].Body = ScrapeBody(articles[i].Link, f.parser.Client.Timeout, f.bodyWords)
	}
}

// dedupByTitle collapses exact refetches across the Yahoo fallback URLs.
// First 60 chars of the lowercased title is enough of a key here; the fuzzy
// pass in the filter handles reworded duplicates.
func dedupByTitle(articles []models.Article) []models.Article {
	seen := make(map[string]struct{}, len(articles))
	var unique []models.Article
	for _, a := range articles {
		key := strings.ToLower(a.Title)
		if len(key) > 60 {
			key = key[:60]
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, a)
	}
	return unique
}

// stripHTML flattens an RSS description to plain text. Feeds routinely ship
// markup in summaries; Gemini doesn't need the tags.
func stripHTML(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return strings.TrimSpace(fragment)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
