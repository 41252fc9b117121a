package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/stockdigest/internal/analyzer"
	"github.com/spacesedan/stockdigest/internal/clients"
	"github.com/spacesedan/stockdigest/internal/digest"
	"github.com/spacesedan/stockdigest/internal/models"
	"github.com/spacesedan/stockdigest/internal/newsfetch"
	"github.com/spacesedan/stockdigest/internal/newsfilter"
	"github.com/spacesedan/stockdigest/internal/sheets"
)

// RunDaily is the full daily pass: portfolio, news, filter, analysis, sheet
// log, email. Only configuration problems abort the run; a holding with a
// dead feed or a failed batch degrades to placeholders instead.
func (p *Pipeline) RunDaily(ctx context.Context) error {
	start := time.Now()
	slog.Info("[Pipeline] daily run starting",
		slog.Int("days_back", p.opts.DaysBack),
		slog.Bool("dry_run", p.opts.DryRun))

	if p.settings.GeminiAPIKey == "" {
		return errors.New("GEMINI_API_KEY not set")
	}

	svc, err := clients.GetSheetsService(ctx, p.settings.CredentialsFile)
	if err != nil {
		return err
	}

	reader := sheets.NewReader(svc, p.settings.SpreadsheetID, p.settings.HeaderRow)
	portfolio, err := reader.ReadPortfolio(ctx, p.settings.IStockTab, p.settings.UStockTab)
	if err != nil {
		return fmt.Errorf("reading portfolio: %w", err)
	}

	seen := clients.InitValkey()
	defer clients.CloseValkey()

	fetcher := newsfetch.NewFetcher(p.feeds, seen, newsfetch.FetcherOptions{
		DaysBack:    p.opts.DaysBack,
		MaxArticles: p.settings.MaxArticles * 2, // pre-filter headroom
		Timeout:     p.settings.RequestTimeout,
		Delay:       p.settings.RequestDelay,
	})
	raw := fetcher.FetchPortfolio(ctx, portfolio)

	filtered := newsfilter.FilterAll(raw, newsfilter.Options{
		DaysBack:        p.opts.DaysBack,
		MaxArticles:     p.settings.MaxArticles,
		SummaryMaxWords: p.settings.SummaryMaxWords,
		BodyMaxWords:    p.settings.MaxWordsPerArticle,
		FuzzyThreshold:  p.settings.FuzzyThreshold,
		DedupThreshold:  p.settings.DedupThreshold,
		AliasTable:      p.feeds.TickerAliases,
	})

	session, err := analyzer.NewSession(ctx, analyzer.SessionOptions{
		MaxRetries:    p.settings.MaxRetries,
		DefaultWait:   p.settings.DefaultRetryWait,
		BatchCooldown: p.settings.BatchCooldown,
		MarketBoost:   p.settings.MarketBoost,
	})
	if err != nil {
		return err
	}

	results := session.AnalyzeDaily(ctx, filtered, p.settings.BatchSize)
	p.archive(results, "daily", "daily")
	logPrioritySummary(results)

	if p.skipSheet() {
		slog.Info("[Pipeline] skipping sheet write")
	} else {
		writer := sheets.NewWriter(svc, p.settings.SpreadsheetID, p.settings.LogTab)
		if err := writer.AppendDailyResults(ctx, results); err != nil {
			slog.Error("[Pipeline] sheet write failed", slog.String("error", err.Error()))
		}
	}

	html, err := digest.BuildDaily(results, portfolio, filtered, p.opts.DaysBack, time.Now().UTC())
	if err != nil {
		return err
	}

	if p.skipEmail() {
		if _, err := digest.WritePreview(p.settings.OutputDir, "email_preview.html", html); err != nil {
			slog.Error("[Pipeline] preview write failed", slog.String("error", err.Error()))
		}
	} else {
		sender := p.sender()
		if err := sender.Send(digest.DailySubject(results, time.Now()), html); err != nil {
			return err
		}
		seen.MarkSeen(ctx, articleLinks(filtered))
	}

	slog.Info("[Pipeline] daily run complete",
		slog.Duration("elapsed", time.Since(start).Round(time.Second)))
	return nil
}

func (p *Pipeline) sender() digest.Sender {
	return digest.Sender{
		Host:     p.settings.SMTPHost,
		Port:     p.settings.SMTPPort,
		From:     p.settings.SenderEmail,
		To:       p.settings.RecipientEmail,
		Password: p.settings.SMTPPassword,
	}
}

func articleLinks(news models.NewsMap) []string {
	var links []string
	for _, entry := range news {
		for _, a := range entry.Articles {
			if a.Link != "" {
				links = append(links, a.Link)
			}
		}
	}
	return links
}

func logPrioritySummary(results []models.AnalysisResult) {
	for _, r := range results {
		gain := "N/A"
		if r.GainPct != nil {
			gain = fmt.Sprintf("%+.1f%%", *r.GainPct)
		}
		slog.Info("[Pipeline] priority summary",
			slog.String("priority", string(r.Priority)),
			slog.String("ticker", r.Ticker),
			slog.String("gain", gain),
			slog.String("sentiment", string(r.Sentiment)),
			slog.String("action", string(r.ActionHint)))
	}
}
