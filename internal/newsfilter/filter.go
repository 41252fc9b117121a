package newsfilter

import (
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/spacesedan/stockdigest/internal/models"
)

// Options carries the filter knobs; zero values fall back to the defaults
// the thresholds were tuned with.
type Options struct {
	DaysBack        int
	MaxArticles     int
	SummaryMaxWords int
	BodyMaxWords    int
	FuzzyThreshold  int
	DedupThreshold  int
	AliasTable      map[string][]string

	// Now lets tests pin the recency cutoff; zero means time.Now.
	Now time.Time
}

func (o Options) withDefaults() Options {
	if o.DaysBack <= 0 {
		o.DaysBack = 1
	}
	if o.MaxArticles <= 0 {
		o.MaxArticles = 5
	}
	if o.SummaryMaxWords <= 0 {
		o.SummaryMaxWords = 150
	}
	if o.BodyMaxWords <= 0 {
		o.BodyMaxWords = 300
	}
	if o.FuzzyThreshold <= 0 {
		o.FuzzyThreshold = 70
	}
	if o.DedupThreshold <= 0 {
		o.DedupThreshold = 70
	}
	if o.Now.IsZero() {
		o.Now = time.Now().UTC()
	}
	return o
}

// IsRecent reports whether the article falls inside the news window.
// Articles without a timestamp are kept; a missing publish date is not
// evidence of staleness.
func IsRecent(a models.Article, daysBack int, now time.Time) bool {
	if a.Published == nil {
		return true
	}
	cutoff := now.Add(-time.Duration(daysBack) * 24 * time.Hour)
	return !a.Published.Before(cutoff)
}

// IsRelevant decides whether an article is about the holding. Per-ticker
// feeds are pre-scoped by the provider and always pass. Sector-feed articles
// must mention one of the holding's aliases, either verbatim or within
// fuzzy partial-match distance.
func IsRelevant(a models.Article, h models.Holding, aliasTable map[string][]string, threshold int) bool {
	if !a.FromSectorFeed {
		return true
	}

	text := strings.ToLower(a.Title + " " + a.Summary)

	for _, alias := range AliasesFor(h, aliasTable) {
		// Short aliases match too much ("lt", "nu").
		if len(alias) < 3 {
			continue
		}

		if strings.Contains(text, alias) {
			return true
		}

		if fuzzy.PartialRatio(alias, text) >= threshold {
			slog.Debug("[NewsFilter] fuzzy relevance match",
				slog.String("ticker", h.Ticker),
				slog.String("alias", alias),
				slog.String("title", truncateForLog(a.Title)))
			return true
		}
	}

	return false
}

// TruncateWords cuts text to at most max words, appending "..." when it cut
// anything.
func TruncateWords(text string, max int) string {
	words := strings.Fields(text)
	if len(words) <= max {
		return text
	}
	return strings.Join(words[:max], " ") + "..."
}

// FilterForHolding runs one holding's articles through the funnel:
// recency → relevance → title dedup → word-cap truncation, stopping once
// MaxArticles survive. Input order is preserved; the counters are for
// logging only.
func FilterForHolding(articles []models.Article, h models.Holding, opts Options) ([]models.Article, models.FilterStats) {
	opts = opts.withDefaults()

	var stats models.FilterStats
	var kept []models.Article
	var seenTitles []string

	for _, a := range articles {
		if !IsRecent(a, opts.DaysBack, opts.Now) {
			stats.TooOld++
			continue
		}

		if !IsRelevant(a, h, opts.AliasTable, opts.FuzzyThreshold) {
			stats.Irrelevant++
			slog.Debug("[NewsFilter] dropped irrelevant",
				slog.String("ticker", h.Ticker),
				slog.String("title", truncateForLog(a.Title)))
			continue
		}

		if IsDuplicateTitle(a.Title, seenTitles, opts.DedupThreshold) {
			stats.Duplicate++
			slog.Debug("[NewsFilter] dropped duplicate",
				slog.String("ticker", h.Ticker),
				slog.String("title", truncateForLog(a.Title)))
			continue
		}
		seenTitles = append(seenTitles, NormalizeTitle(a.Title))

		if a.Body != "" {
			a.Body = TruncateWords(a.Body, opts.BodyMaxWords)
		}
		if a.Summary != "" {
			a.Summary = TruncateWords(a.Summary, opts.SummaryMaxWords)
		}

		kept = append(kept, a)
		stats.Kept++

		if len(kept) >= opts.MaxArticles {
			break
		}
	}

	return kept, stats
}

// FilterAll applies FilterForHolding across the whole portfolio and logs the
// aggregate reduction.
func FilterAll(raw models.NewsMap, opts Options) models.NewsMap {
	totalBefore, totalAfter := 0, 0
	filtered := make(models.NewsMap, len(raw))

	for ticker, entry := range raw {
		kept, stats := FilterForHolding(entry.Articles, entry.Holding, opts)
		filtered[ticker] = models.HoldingNews{Holding: entry.Holding, Articles: kept}

		totalBefore += len(entry.Articles)
		totalAfter += len(kept)

		if len(entry.Articles) > 0 {
			slog.Debug("[NewsFilter] holding filtered",
				slog.String("ticker", ticker),
				slog.Int("in", len(entry.Articles)),
				slog.Int("kept", stats.Kept),
				slog.Int("too_old", stats.TooOld),
				slog.Int("irrelevant", stats.Irrelevant),
				slog.Int("duplicate", stats.Duplicate))
		}
	}

	reduction := 0.0
	if totalBefore > 0 {
		reduction = float64(totalBefore-totalAfter) / float64(totalBefore) * 100
	}
	slog.Info("[NewsFilter] filtering complete",
		slog.Int("articles_in", totalBefore),
		slog.Int("articles_kept", totalAfter),
		slog.Float64("reduction_pct", reduction))

	return filtered
}

func truncateForLog(s string) string {
	if len(s) <= 60 {
		return s
	}
	cut := s[:60]
	for !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}
