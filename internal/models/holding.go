package models

type Market string

const (
	MarketIndia Market = "IN"
	MarketUS    Market = "US"
)

// Holding is one portfolio position as read from the sheet. Numeric fields
// are pointers because sheet cells routinely hold #N/A or formula errors;
// a nil field means the cell didn't parse, not zero.
type Holding struct {
	Ticker      string  `json:"ticker"`
	YahooTicker string  `json:"yahoo_ticker"`
	Name        string  `json:"name"`
	Market      Market  `json:"market"`
	Exchange    string  `json:"exchange"`
	Sector      string  `json:"sector"`
	Shares      float64 `json:"shares"`

	// Native-currency snapshot (INR for IN, USD for US)
	AvgPrice *float64 `json:"avg_price,omitempty"`
	MktPrice *float64 `json:"mkt_price,omitempty"`
	Invested *float64 `json:"invested,omitempty"`
	Profit   *float64 `json:"profit,omitempty"`
	GainPct  *float64 `json:"gain_pct,omitempty"`

	// INR-normalized invested amount, the cross-market sort key
	InvestedINR *float64 `json:"invested_inr,omitempty"`
}

// CurrencySymbol returns the display symbol for the holding's market.
func (h Holding) CurrencySymbol() string {
	if h.Market == MarketIndia {
		return "₹"
	}
	return "$"
}

// SortValue is the invested amount used for scheduling priority,
// zero when the sheet cell didn't parse.
func (h Holding) SortValue() float64 {
	if h.InvestedINR == nil {
		return 0
	}
	return *h.InvestedINR
}
