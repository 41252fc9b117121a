package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Feeds describes where news comes from and how tickers map to the names
// the press actually uses. Lives in config/feeds.yaml so adding an alias or
// a sector feed never needs a rebuild.
type Feeds struct {
	// YahooRSSURL must contain a %s placeholder for the ticker.
	YahooRSSURL    string              `yaml:"yahoo_rss_url"`
	YahooNSESuffix string              `yaml:"yahoo_nse_suffix"`
	SectorFeeds    map[string]string   `yaml:"sector_feeds"`
	TickerAliases  map[string][]string `yaml:"ticker_aliases"`
}

func LoadFeeds(path string) (*Feeds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading feeds config: %w", err)
	}

	var f Feeds
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing feeds config: %w", err)
	}

	if f.YahooRSSURL == "" {
		return nil, fmt.Errorf("feeds config %s is missing yahoo_rss_url", path)
	}
	if f.YahooNSESuffix == "" {
		f.YahooNSESuffix = ".NS"
	}

	return &f, nil
}
