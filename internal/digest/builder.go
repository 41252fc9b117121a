package digest

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"time"

	"github.com/russross/blackfriday/v2"

	"github.com/spacesedan/stockdigest/internal/models"
	"github.com/spacesedan/stockdigest/internal/sentiment"
)

// The daily digest has three sections: the model's priority actions, a
// collapsible raw news feed, and a portfolio pulse computed without any
// model involvement.

type priorityStyle struct {
	BG     template.CSS
	Border template.CSS
	Badge  template.CSS
	Icon   string
}

var priorityStyles = map[models.Priority]priorityStyle{
	models.PriorityHigh:   {BG: "#FFF0F0", Border: "#E53935", Badge: "#E53935", Icon: "🔴"},
	models.PriorityMedium: {BG: "#FFFDE7", Border: "#F9A825", Badge: "#F9A825", Icon: "🟡"},
	models.PriorityLow:    {BG: "#F1F8E9", Border: "#558B2F", Badge: "#558B2F", Icon: "🟢"},
}

var sentimentIcons = map[models.Sentiment]string{
	models.SentimentPositive: "📈",
	models.SentimentNegative: "📉",
	models.SentimentNeutral:  "➡️",
}

var actionLabels = map[models.ActionHint]string{
	models.ActionHold:         "✅ Hold",
	models.ActionWatch:        "👁 Watch",
	models.ActionResearchExit: "⚠️ Consider Exit",
	models.ActionResearchBuy:  "💡 Consider Adding",
	models.ActionNoNews:       "🔇 No News",
}

var thesisColors = map[models.ThesisStatus]template.CSS{
	models.ThesisIntact:   "#2E7D32",
	models.ThesisWeakened: "#E65100",
	models.ThesisBroken:   "#B71C1C",
	models.ThesisUnclear:  "#757575",
}

type analysisCard struct {
	Ticker    string
	Name      string
	Flag      string
	Sector    string
	Priority  models.Priority
	Style     priorityStyle
	GainStr   string
	GainColor template.CSS
	Icon      string
	Invested  string
	Summary   string
	Action    string
	Thesis    models.ThesisStatus
	ThesisClr template.CSS
}

type priorityGroup struct {
	Label string
	Color template.CSS
	Cards []analysisCard
}

type articleRow struct {
	Title   string
	Link    string
	Source  string
	TimeStr string
	Tone    string
}

type newsBlock struct {
	Ticker    string
	Name      string
	Flag      string
	GainStr   string
	GainColor template.CSS
	Invested  string
	Style     priorityStyle
	Articles  []articleRow
}

type sectorRow struct {
	Name     string
	Icon     string
	Total    int
	Pos      int
	Neu      int
	Neg      int
	PosW     int
	NeuW     int
	NegW     int
	AvgStr   string
	AvgColor template.CSS
}

type moverPill struct {
	Label string
	Color template.CSS
	BG    template.CSS
}

type dailyView struct {
	Date          string
	Window        string
	Total         int
	InProfit      int
	InLoss        int
	HighCount     int
	Groups        []priorityGroup
	NewsBlocks    []newsBlock
	TotalArticles int
	NewsStocks    int
	Sectors       []sectorRow
	Gainers       []moverPill
	Losers        []moverPill
	NoNews        []string
}

// BuildDaily assembles the full daily digest HTML.
func BuildDaily(results []models.AnalysisResult, portfolio []models.Holding, news models.NewsMap, daysBack int, now time.Time) (string, error) {
	view := buildDailyView(results, portfolio, news, daysBack, now)

	var buf bytes.Buffer
	if err := dailyTmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("rendering daily digest: %w", err)
	}
	return buf.String(), nil
}

// BuildWeekly wraps the model's markdown review in the weekly layout.
func BuildWeekly(markdown string, now time.Time) (string, error) {
	return buildReport(weeklyTmpl, markdown, now.Format("January 02, 2006"))
}

// BuildMonthly wraps the model's markdown deep dive in the monthly layout.
func BuildMonthly(markdown string, now time.Time) (string, error) {
	return buildReport(monthlyTmpl, markdown, now.Format("January 2006"))
}

func buildReport(tmpl *template.Template, markdown, dateLabel string) (string, error) {
	body := blackfriday.Run([]byte(markdown))

	var buf bytes.Buffer
	err := tmpl.Execute(&buf, struct {
		Date string
		Body template.HTML
	}{
		Date: dateLabel,
		Body: template.HTML(body),
	})
	if err != nil {
		return "", fmt.Errorf("rendering report digest: %w", err)
	}
	return buf.String(), nil
}

func buildDailyView(results []models.AnalysisResult, portfolio []models.Holding, news models.NewsMap, daysBack int, now time.Time) dailyView {
	view := dailyView{
		Date:   now.Format("Monday, January 02, 2006"),
		Window: newsWindow(daysBack, now),
		Total:  len(portfolio),
	}

	for _, h := range portfolio {
		if h.GainPct != nil && *h.GainPct > 0 {
			view.InProfit++
		}
	}
	view.InLoss = view.Total - view.InProfit

	for _, r := range results {
		if r.Priority == models.PriorityHigh {
			view.HighCount++
		}
	}

	view.Groups = buildPriorityGroups(results)
	view.NewsBlocks, view.TotalArticles = buildNewsBlocks(results, news, now)
	view.NewsStocks = len(view.NewsBlocks)
	view.Sectors = buildSectorRows(results, portfolio)
	view.Gainers, view.Losers = buildMovers(portfolio)
	view.NoNews = noNewsTickers(news)

	return view
}

// Section 1. Skips holdings with nothing to say (no_news and neutral), the
// pulse section already lists them.
func buildPriorityGroups(results []models.AnalysisResult) []priorityGroup {
	specs := []struct {
		priority models.Priority
		label    string
		color    template.CSS
	}{
		{models.PriorityHigh, "🔴 HIGH PRIORITY — Action Required", "#C62828"},
		{models.PriorityMedium, "🟡 MEDIUM PRIORITY — Keep Watching", "#E65100"},
		{models.PriorityLow, "🟢 LOW PRIORITY — All Clear", "#2E7D32"},
	}

	var groups []priorityGroup
	for _, spec := range specs {
		var tier []models.AnalysisResult
		for _, r := range results {
			if r.Priority != spec.priority {
				continue
			}
			if r.ActionHint == models.ActionNoNews && r.Sentiment == models.SentimentNeutral {
				continue
			}
			tier = append(tier, r)
		}
		if len(tier) == 0 {
			continue
		}
		sortIndianFirst(tier)

		cards := make([]analysisCard, 0, len(tier))
		for _, r := range tier {
			cards = append(cards, buildCard(r))
		}
		groups = append(groups, priorityGroup{Label: spec.label, Color: spec.color, Cards: cards})
	}
	return groups
}

func buildCard(r models.AnalysisResult) analysisCard {
	style, ok := priorityStyles[r.Priority]
	if !ok {
		style = priorityStyles[models.PriorityLow]
	}
	thesisClr, ok := thesisColors[r.ThesisStatus]
	if !ok {
		thesisClr = thesisColors[models.ThesisUnclear]
	}
	action, ok := actionLabels[r.ActionHint]
	if !ok {
		action = string(r.ActionHint)
	}

	gainStr, gainColor := formatGain(r.GainPct)

	invested := ""
	if r.InvestedINR != nil && *r.InvestedINR > 0 {
		invested = fmt.Sprintf("₹%.0f invested", *r.InvestedINR)
	}

	return analysisCard{
		Ticker:    r.Ticker,
		Name:      r.Name,
		Flag:      marketFlag(r.Market),
		Sector:    r.Sector,
		Priority:  r.Priority,
		Style:     style,
		GainStr:   gainStr,
		GainColor: gainColor,
		Icon:      sentimentIcons[r.Sentiment],
		Invested:  invested,
		Summary:   r.Summary,
		Action:    action,
		Thesis:    r.ThesisStatus,
		ThesisClr: thesisClr,
	}
}

// Section 2. One collapsible block per holding with surviving articles,
// ordered priority first, Indian first, then invested descending. Each
// headline carries a lexicon tone icon so skimming works without opening
// the link.
func buildNewsBlocks(results []models.AnalysisResult, news models.NewsMap, now time.Time) ([]newsBlock, int) {
	byTicker := make(map[string]models.AnalysisResult, len(results))
	for _, r := range results {
		byTicker[r.Ticker] = r
	}

	var tickers []string
	for ticker, entry := range news {
		if len(entry.Articles) > 0 {
			tickers = append(tickers, ticker)
		}
	}
	sort.Slice(tickers, func(i, j int) bool {
		a, b := byTicker[tickers[i]], byTicker[tickers[j]]
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		am, bm := a.Market == models.MarketIndia, b.Market == models.MarketIndia
		if am != bm {
			return am
		}
		return a.SortValue() > b.SortValue()
	})

	total := 0
	blocks := make([]newsBlock, 0, len(tickers))
	for _, ticker := range tickers {
		entry := news[ticker]
		res := byTicker[ticker]

		style, ok := priorityStyles[res.Priority]
		if !ok {
			style = priorityStyles[models.PriorityLow]
		}
		gainStr, gainColor := formatGain(entry.Holding.GainPct)

		invested := ""
		if v := entry.Holding.SortValue(); v > 0 {
			invested = fmt.Sprintf("· ₹%.0f", v)
		}

		rows := make([]articleRow, 0, len(entry.Articles))
		for _, a := range entry.Articles {
			_, tone := sentiment.ScoreHeadline(a)
			rows = append(rows, articleRow{
				Title:   a.Title,
				Link:    a.Link,
				Source:  a.Source,
				TimeStr: articleTime(a.Published, now),
				Tone:    sentimentIcons[tone],
			})
		}
		total += len(rows)

		blocks = append(blocks, newsBlock{
			Ticker:    entry.Holding.Ticker,
			Name:      entry.Holding.Name,
			Flag:      marketFlag(entry.Holding.Market),
			GainStr:   gainStr,
			GainColor: gainColor,
			Invested:  invested,
			Style:     style,
			Articles:  rows,
		})
	}
	return blocks, total
}

// Section 3 helpers, plain arithmetic over the run's inputs.

func buildSectorRows(results []models.AnalysisResult, portfolio []models.Holding) []sectorRow {
	gains := make(map[string]*float64, len(portfolio))
	for _, h := range portfolio {
		gains[h.Ticker] = h.GainPct
	}

	type agg struct {
		pos, neg, neu int
		gains         []float64
	}
	bySector := make(map[string]*agg)
	for _, r := range results {
		sector := r.Sector
		if sector == "" {
			sector = "Unknown"
		}
		a := bySector[sector]
		if a == nil {
			a = &agg{}
			bySector[sector] = a
		}
		switch r.Sentiment {
		case models.SentimentPositive:
			a.pos++
		case models.SentimentNegative:
			a.neg++
		default:
			a.neu++
		}
		if g := gains[r.Ticker]; g != nil {
			a.gains = append(a.gains, *g)
		}
	}

	rows := make([]sectorRow, 0, len(bySector))
	for sector, a := range bySector {
		total := a.pos + a.neg + a.neu
		if total == 0 {
			continue
		}

		dominant := models.SentimentNeutral
		if a.pos > a.neg && a.pos > a.neu {
			dominant = models.SentimentPositive
		} else if a.neg > a.pos && a.neg > a.neu {
			dominant = models.SentimentNegative
		}

		avgStr, avgColor := "N/A", template.CSS("#2E7D32")
		if len(a.gains) > 0 {
			sum := 0.0
			for _, g := range a.gains {
				sum += g
			}
			avg := sum / float64(len(a.gains))
			avgStr = fmt.Sprintf("%+.1f%%", avg)
			if avg < 0 {
				avgColor = "#C62828"
			}
		}

		posW := a.pos * 80 / total
		negW := a.neg * 80 / total
		neuW := 80 - posW - negW
		if neuW < 0 {
			neuW = 0
		}

		rows = append(rows, sectorRow{
			Name:     sector,
			Icon:     sentimentIcons[dominant],
			Total:    total,
			Pos:      a.pos,
			Neu:      a.neu,
			Neg:      a.neg,
			PosW:     posW,
			NeuW:     neuW,
			NegW:     negW,
			AvgStr:   avgStr,
			AvgColor: avgColor,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

func buildMovers(portfolio []models.Holding) (gainers, losers []moverPill) {
	var withGain []models.Holding
	for _, h := range portfolio {
		if h.GainPct != nil {
			withGain = append(withGain, h)
		}
	}

	up := make([]models.Holding, len(withGain))
	copy(up, withGain)
	sort.SliceStable(up, func(i, j int) bool { return *up[i].GainPct > *up[j].GainPct })

	down := make([]models.Holding, len(withGain))
	copy(down, withGain)
	sort.SliceStable(down, func(i, j int) bool { return *down[i].GainPct < *down[j].GainPct })

	for _, h := range top5(up) {
		gainers = append(gainers, moverPill{
			Label: fmt.Sprintf("%s %+.1f%%", h.Ticker, *h.GainPct),
			Color: "#2E7D32",
			BG:    "#E8F5E9",
		})
	}
	for _, h := range top5(down) {
		losers = append(losers, moverPill{
			Label: fmt.Sprintf("%s %+.1f%%", h.Ticker, *h.GainPct),
			Color: "#C62828",
			BG:    "#FFEBEE",
		})
	}
	return gainers, losers
}

func top5(holdings []models.Holding) []models.Holding {
	if len(holdings) > 5 {
		return holdings[:5]
	}
	return holdings
}

func noNewsTickers(news models.NewsMap) []string {
	var tickers []string
	for ticker, entry := range news {
		if len(entry.Articles) == 0 {
			tickers = append(tickers, ticker)
		}
	}
	sort.Strings(tickers)
	return tickers
}

func sortIndianFirst(results []models.AnalysisResult) {
	sort.SliceStable(results, func(i, j int) bool {
		am, bm := results[i].Market == models.MarketIndia, results[j].Market == models.MarketIndia
		if am != bm {
			return am
		}
		return results[i].SortValue() > results[j].SortValue()
	})
}

func formatGain(gain *float64) (string, template.CSS) {
	if gain == nil {
		return "N/A", "#2E7D32"
	}
	color := template.CSS("#2E7D32")
	if *gain < 0 {
		color = "#C62828"
	}
	return fmt.Sprintf("%+.1f%%", *gain), color
}

func marketFlag(m models.Market) string {
	if m == models.MarketIndia {
		return "🇮🇳"
	}
	return "🇺🇸"
}

func articleTime(published *time.Time, now time.Time) string {
	if published == nil {
		return "recent"
	}
	p := published.UTC()
	if p.Year() == now.Year() && p.YearDay() == now.YearDay() {
		return p.Format("3:04 PM UTC")
	}
	return p.Format("Jan 02 3:04 PM UTC")
}

func newsWindow(daysBack int, now time.Time) string {
	start := now.Add(-time.Duration(daysBack) * 24 * time.Hour)
	return fmt.Sprintf("%s → %s UTC",
		start.Format("Jan 02 3:04 PM"),
		now.Format("Jan 02 3:04 PM"))
}

// Subject lines for the three digest kinds.

func DailySubject(results []models.AnalysisResult, now time.Time) string {
	high := 0
	for _, r := range results {
		if r.Priority == models.PriorityHigh {
			high++
		}
	}
	date := now.Format("2006-01-02")
	if high > 0 {
		return fmt.Sprintf("🔴 [%d urgent] Portfolio Digest %s", high, date)
	}
	return fmt.Sprintf("📊 Portfolio Digest %s", date)
}

func WeeklySubject(now time.Time) string {
	return "📅 Weekly Portfolio Review — " + now.Format("2006-01-02")
}

func MonthlySubject(now time.Time) string {
	return "📆 Monthly Portfolio Deep Dive — " + now.Format("January 2006")
}
