package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/api/sheets/v4"

	"github.com/spacesedan/stockdigest/internal/models"
)

// DailyLog tab schema, appended one row per holding per daily run:
// Date | Ticker | Name | Market | Sector | Sentiment | Priority |
// Action Hint | Thesis Status | Summary | Gain% At Time | Profit (₹) |
// Weekly Used

var logHeaders = []interface{}{
	"Date", "Ticker", "Name", "Market", "Sector",
	"Sentiment", "Priority", "Action Hint", "Thesis Status",
	"Summary", "Gain% At Time", "Profit (₹)", "Weekly Used",
}

type Writer struct {
	svc           *sheets.Service
	spreadsheetID string
	logTab        string
}

func NewWriter(svc *sheets.Service, spreadsheetID, logTab string) *Writer {
	return &Writer{svc: svc, spreadsheetID: spreadsheetID, logTab: logTab}
}

// AppendDailyResults appends today's analysis rows to the log tab in one
// batch call, creating the tab with headers on first run.
func (w *Writer) AppendDailyResults(ctx context.Context, results []models.AnalysisResult) error {
	if err := w.ensureLogTab(ctx); err != nil {
		return err
	}

	today := time.Now().Format("2006-01-02")
	rows := make([][]interface{}, 0, len(results))
	for _, res := range results {
		rows = append(rows, logRow(today, res))
	}

	vr := &sheets.ValueRange{Values: rows}
	_, err := w.svc.Spreadsheets.Values.Append(w.spreadsheetID, w.logTab, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending daily log rows: %w", err)
	}

	slog.Info("[SheetWriter] appended daily results",
		slog.String("tab", w.logTab),
		slog.Int("rows", len(rows)))
	return nil
}

func logRow(date string, res models.AnalysisResult) []interface{} {
	gain := ""
	if res.GainPct != nil {
		gain = fmt.Sprintf("%+.1f%%", *res.GainPct)
	}
	profit := ""
	if res.ProfitINR != nil {
		profit = fmt.Sprintf("₹%+.0f", *res.ProfitINR)
	}

	return []interface{}{
		date,
		res.Ticker,
		res.Name,
		string(res.Market),
		res.Sector,
		string(res.Sentiment),
		string(res.Priority),
		string(res.ActionHint),
		string(res.ThesisStatus),
		res.Summary,
		gain,
		profit,
		"No",
	}
}

// ReadLogPeriod reads log rows from the past daysBack days, formatted as
// the historical context block for the weekly and monthly prompts. The
// returned count is the number of log entries inside the window; callers
// branch on it rather than on the placeholder text.
func (w *Writer) ReadLogPeriod(ctx context.Context, daysBack int) (string, int, error) {
	resp, err := w.svc.Spreadsheets.Values.Get(w.spreadsheetID, w.logTab).Context(ctx).Do()
	if err != nil {
		return "", 0, fmt.Errorf("reading log tab %q: %w", w.logTab, err)
	}

	text, count := formatLogPeriod(resp.Values, daysBack)
	if count > 0 {
		slog.Info("[SheetWriter] read historical log entries",
			slog.Int("entries", count),
			slog.Int("days_back", daysBack))
	}
	return text, count, nil
}

func formatLogPeriod(values [][]interface{}, daysBack int) (string, int) {
	if len(values) <= 1 {
		return "No historical data available.", 0
	}

	// YYYY-MM-DD compares correctly as a string.
	cutoff := time.Now().AddDate(0, 0, -daysBack).Format("2006-01-02")

	var lines []string
	for _, row := range values[1:] {
		if len(row) < 11 {
			continue
		}
		date := cellString(row[0])
		if date < cutoff {
			continue
		}

		lines = append(lines, fmt.Sprintf(
			"[%s] %s | %s | %s priority | Gain: %s | %s\n  %s",
			date,
			cellString(row[1]),
			strings.ToUpper(cellString(row[5])),
			cellString(row[6]),
			cellString(row[10]),
			cellString(row[7]),
			cellString(row[9])))
	}

	if len(lines) == 0 {
		return fmt.Sprintf("No data found in the past %d days.", daysBack), 0
	}
	return strings.Join(lines, "\n\n"), len(lines)
}

// MarkWeeklyUsed flips the Weekly Used column to "Yes" for rows inside the
// window so the next weekly run doesn't double-count them. Failures here
// only affect bookkeeping, so they log instead of aborting.
func (w *Writer) MarkWeeklyUsed(ctx context.Context, daysBack int) {
	resp, err := w.svc.Spreadsheets.Values.Get(w.spreadsheetID, w.logTab).Context(ctx).Do()
	if err != nil {
		slog.Warn("[SheetWriter] could not read log for weekly-used marking",
			slog.String("error", err.Error()))
		return
	}
	if len(resp.Values) <= 1 {
		return
	}

	cutoff := time.Now().AddDate(0, 0, -daysBack).Format("2006-01-02")

	var data []*sheets.ValueRange
	for i, row := range resp.Values[1:] {
		if len(row) < 13 {
			continue
		}
		if cellString(row[0]) < cutoff || cellString(row[12]) != "No" {
			continue
		}
		data = append(data, &sheets.ValueRange{
			Range:  fmt.Sprintf("%s!M%d", w.logTab, i+2),
			Values: [][]interface{}{{"Yes"}},
		})
	}
	if len(data) == 0 {
		return
	}

	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}
	if _, err := w.svc.Spreadsheets.Values.BatchUpdate(w.spreadsheetID, req).Context(ctx).Do(); err != nil {
		slog.Warn("[SheetWriter] could not mark rows weekly used",
			slog.String("error", err.Error()))
		return
	}
	slog.Info("[SheetWriter] marked rows weekly used", slog.Int("rows", len(data)))
}

// ensureLogTab creates the log tab with its header row when missing.
func (w *Writer) ensureLogTab(ctx context.Context) error {
	meta, err := w.svc.Spreadsheets.Get(w.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("fetching spreadsheet metadata: %w", err)
	}
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == w.logTab {
			return nil
		}
	}

	slog.Info("[SheetWriter] creating log tab", slog.String("tab", w.logTab))
	addReq := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: w.logTab,
					GridProperties: &sheets.GridProperties{
						RowCount:    5000,
						ColumnCount: int64(len(logHeaders)),
					},
				},
			},
		}},
	}
	if _, err := w.svc.Spreadsheets.BatchUpdate(w.spreadsheetID, addReq).Context(ctx).Do(); err != nil {
		return fmt.Errorf("creating log tab: %w", err)
	}

	header := &sheets.ValueRange{Values: [][]interface{}{logHeaders}}
	_, err = w.svc.Spreadsheets.Values.Update(w.spreadsheetID, w.logTab+"!A1", header).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("writing log headers: %w", err)
	}
	return nil
}
