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
	"github.com/spacesedan/stockdigest/internal/sheets"
)

// RunWeekly synthesizes the past week of daily log entries into a single
// review. Needs a few daily runs of history first.
func (p *Pipeline) RunWeekly(ctx context.Context) error {
	slog.Info("[Pipeline] weekly run starting")

	if p.settings.GeminiAPIKey == "" {
		return errors.New("GEMINI_API_KEY not set")
	}

	svc, err := clients.GetSheetsService(ctx, p.settings.CredentialsFile)
	if err != nil {
		return err
	}
	writer := sheets.NewWriter(svc, p.settings.SpreadsheetID, p.settings.LogTab)

	weeklyData, entries, err := writer.ReadLogPeriod(ctx, 7)
	if err != nil {
		return fmt.Errorf("reading weekly log: %w", err)
	}
	if entries == 0 {
		return errors.New("not enough log data, run the daily pipeline for a few days first")
	}

	session, err := analyzer.NewSession(ctx, analyzer.SessionOptions{
		MaxRetries:    p.settings.MaxRetries,
		DefaultWait:   p.settings.DefaultRetryWait,
		BatchCooldown: p.settings.BatchCooldown,
		MarketBoost:   p.settings.MarketBoost,
	})
	if err != nil {
		return err
	}

	analysis := session.AnalyzeWeekly(ctx, weeklyData)
	p.archive(analysis, "weekly", "weekly")

	html, err := digest.BuildWeekly(analysis, time.Now())
	if err != nil {
		return err
	}

	if p.skipEmail() {
		if _, err := digest.WritePreview(p.settings.OutputDir, "weekly_preview.html", html); err != nil {
			slog.Error("[Pipeline] preview write failed", slog.String("error", err.Error()))
		}
	} else {
		if err := p.sender().Send(digest.WeeklySubject(time.Now()), html); err != nil {
			return err
		}
		writer.MarkWeeklyUsed(ctx, 7)
	}

	slog.Info("[Pipeline] weekly run complete")
	return nil
}
