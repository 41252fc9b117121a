package newsfilter

import (
	"strings"

	"github.com/spacesedan/stockdigest/internal/models"
)

// AliasesFor returns every lowercased name variant worth searching for when
// deciding whether a sector-feed article is about this holding.
//
//	NSE:INFY → [nse:infy, infy, infosys]
//	TSM      → [tsm, tsmc, taiwan semiconductor]
func AliasesFor(h models.Holding, aliasTable map[string][]string) []string {
	seen := make(map[string]struct{})
	var aliases []string
	add := func(a string) {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" {
			return
		}
		if _, ok := seen[a]; ok {
			return
		}
		seen[a] = struct{}{}
		aliases = append(aliases, a)
	}

	add(h.Ticker)
	add(h.YahooTicker)

	// Table entries may be keyed with or without the exchange prefix.
	keys := []string{
		h.Ticker,
		h.YahooTicker,
		strings.TrimPrefix(h.Ticker, "NSE:"),
		strings.TrimPrefix(h.Ticker, "BSE:"),
	}
	for _, key := range keys {
		for _, alias := range aliasTable[key] {
			add(alias)
		}
	}

	if h.Name != "" {
		add(h.Name)
		// First substantial word catches truncated brand mentions,
		// e.g. "HDFC" out of "HDFC Bank Ltd".
		for _, w := range strings.Fields(h.Name) {
			if len(w) >= 4 {
				add(w)
				break
			}
		}
	}

	return aliases
}
