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

// RunMonthly is the 30-day deep dive: log history plus the current
// portfolio snapshot so the review can call out sustained losers.
func (p *Pipeline) RunMonthly(ctx context.Context) error {
	slog.Info("[Pipeline] monthly run starting")

	if p.settings.GeminiAPIKey == "" {
		return errors.New("GEMINI_API_KEY not set")
	}

	svc, err := clients.GetSheetsService(ctx, p.settings.CredentialsFile)
	if err != nil {
		return err
	}

	writer := sheets.NewWriter(svc, p.settings.SpreadsheetID, p.settings.LogTab)
	monthlyData, _, err := writer.ReadLogPeriod(ctx, 30)
	if err != nil {
		return fmt.Errorf("reading monthly log: %w", err)
	}

	reader := sheets.NewReader(svc, p.settings.SpreadsheetID, p.settings.HeaderRow)
	portfolio, err := reader.ReadPortfolio(ctx, p.settings.IStockTab, p.settings.UStockTab)
	if err != nil {
		return fmt.Errorf("reading portfolio: %w", err)
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

	analysis := session.AnalyzeMonthly(ctx, monthlyData, portfolio)
	p.archive(analysis, "monthly", "monthly")

	html, err := digest.BuildMonthly(analysis, time.Now())
	if err != nil {
		return err
	}

	if p.skipEmail() {
		if _, err := digest.WritePreview(p.settings.OutputDir, "monthly_preview.html", html); err != nil {
			slog.Error("[Pipeline] preview write failed", slog.String("error", err.Error()))
		}
	} else {
		if err := p.sender().Send(digest.MonthlySubject(time.Now()), html); err != nil {
			return err
		}
	}

	slog.Info("[Pipeline] monthly run complete")
	return nil
}
