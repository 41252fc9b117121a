package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"google.golang.org/api/sheets/v4"

	"github.com/spacesedan/stockdigest/internal/models"
)

// Reader pulls the portfolio out of the spreadsheet by header name, not
// column position, so reordering or inserting sheet columns doesn't break
// parsing.
type Reader struct {
	svc           *sheets.Service
	spreadsheetID string
	headerRow     int // 1-indexed
}

func NewReader(svc *sheets.Service, spreadsheetID string, headerRow int) *Reader {
	if headerRow < 1 {
		headerRow = 1
	}
	return &Reader{svc: svc, spreadsheetID: spreadsheetID, headerRow: headerRow}
}

// ReadPortfolio reads both market tabs and returns the combined holdings.
// A missing tab logs and contributes nothing; both tabs empty is an error
// because an empty portfolio makes the whole run pointless.
func (r *Reader) ReadPortfolio(ctx context.Context, iTab, uTab string) ([]models.Holding, error) {
	indian, err := r.readTab(ctx, iTab, models.MarketIndia)
	if err != nil {
		slog.Warn("[SheetReader] failed to read Indian stocks tab",
			slog.String("tab", iTab),
			slog.String("error", err.Error()))
	}

	us, err := r.readTab(ctx, uTab, models.MarketUS)
	if err != nil {
		slog.Warn("[SheetReader] failed to read US stocks tab",
			slog.String("tab", uTab),
			slog.String("error", err.Error()))
	}

	portfolio := append(indian, us...)
	if len(portfolio) == 0 {
		return nil, fmt.Errorf("no holdings found in tabs %q and %q", iTab, uTab)
	}

	slog.Info("[SheetReader] portfolio loaded",
		slog.Int("total", len(portfolio)),
		slog.Int("indian", len(indian)),
		slog.Int("us", len(us)))
	return portfolio, nil
}

func (r *Reader) readTab(ctx context.Context, tab string, market models.Market) ([]models.Holding, error) {
	resp, err := r.svc.Spreadsheets.Values.Get(r.spreadsheetID, tab).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetching tab %q: %w", tab, err)
	}

	headerIdx := r.headerRow - 1
	if headerIdx >= len(resp.Values) {
		return nil, fmt.Errorf("tab %q has %d rows, header expected at row %d", tab, len(resp.Values), r.headerRow)
	}

	colMap := BuildColMap(resp.Values[headerIdx])
	dataRows := resp.Values[headerIdx+1:]

	var holdings []models.Holding
	skipped := 0
	for _, row := range dataRows {
		h, ok := parseRow(row, colMap, market)
		if !ok {
			skipped++
			continue
		}
		holdings = append(holdings, h)
	}

	slog.Debug("[SheetReader] tab parsed",
		slog.String("tab", tab),
		slog.Int("holdings", len(holdings)),
		slog.Int("skipped", skipped))
	return holdings, nil
}

func parseRow(row []interface{}, colMap map[string]int, market models.Market) (models.Holding, bool) {
	ticker := strings.TrimSpace(Cell(row, colMap, "ticker", "symbol", "stock"))
	switch strings.ToLower(ticker) {
	case "", "ticker", "symbol", "total":
		return models.Holding{}, false
	}

	// Strip the exchange prefix Google Finance formulas carry.
	yahooTicker := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(ticker, "NSE:"), "BSE:"))

	name := strings.TrimSpace(Cell(row, colMap, "name", "company name", "company"))
	if name == "" {
		name = ticker
	}

	sector := strings.TrimSpace(Cell(row, colMap, "sector", "industry", "category"))
	if sector == "" {
		sector = "Unknown"
	}

	h := models.Holding{
		Ticker:      ticker,
		YahooTicker: yahooTicker,
		Name:        name,
		Market:      market,
		Sector:      sector,
		AvgPrice:    CleanNumber(Cell(row, colMap, "avg price", "avg. price", "average price", "buy price", "avg")),
		MktPrice:    CleanNumber(Cell(row, colMap, "mkt price", "market price", "current price", "ltp", "price")),
		Profit:      CleanNumber(Cell(row, colMap, "profit", "p&l", "pnl", "unrealized p&l")),
		GainPct:     CleanNumber(Cell(row, colMap, "gain %", "gain%", "return %", "return%", "gain ", "gain")),
	}

	if shares := CleanNumber(Cell(row, colMap, "shares", "qty", "quantity", "units")); shares != nil {
		h.Shares = *shares
	}

	switch market {
	case models.MarketIndia:
		h.Exchange = "NSE"
		h.Invested = CleanNumber(Cell(row, colMap, "invested", "amount invested", "investment", "cost"))
		h.InvestedINR = h.Invested
	default:
		h.Exchange = "NASDAQ"
		h.Invested = CleanNumber(Cell(row, colMap, "usd invested", "$ invested", "invested (usd)"))
		h.InvestedINR = CleanNumber(Cell(row, colMap, "rs invested", "rs. invested", "inr invested", "invested (inr)", "invested"))
	}

	// Rows without an average price are totals or half-filled entries.
	if h.AvgPrice == nil {
		return models.Holding{}, false
	}

	return h, true
}

// BuildColMap maps lowercased, trimmed header names to column indexes.
func BuildColMap(headers []interface{}) map[string]int {
	m := make(map[string]int, len(headers))
	for i, h := range headers {
		key := strings.ToLower(strings.TrimSpace(cellString(h)))
		if key == "" {
			continue
		}
		if _, exists := m[key]; !exists {
			m[key] = i
		}
	}
	return m
}

// Cell returns the first cell found under any of the candidate column
// names, "" when none match.
func Cell(row []interface{}, colMap map[string]int, names ...string) string {
	for _, name := range names {
		idx, ok := colMap[strings.ToLower(name)]
		if ok && idx < len(row) {
			return cellString(row[idx])
		}
	}
	return ""
}

// CleanNumber parses display values like "₹873", "-₹5,322", "$205" or "13%"
// into a float, nil for blanks and formula-error sentinels.
func CleanNumber(value string) *float64 {
	trimmed := strings.TrimSpace(value)
	switch trimmed {
	case "", "#N/A", "N/A", "-", "#VALUE!", "#REF!":
		return nil
	}

	replacer := strings.NewReplacer("₹", "", "$", "", ",", "", "%", "")
	cleaned := strings.TrimSpace(replacer.Replace(trimmed))

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &f
}

func cellString(v interface{}) string {
	switch c := v.(type) {
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", c)
	}
}
