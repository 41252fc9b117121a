package models

import "time"

// Article is one news item from an RSS feed. Published is a pointer because
// some feeds omit timestamps entirely; the filter treats nil as "recent".
type Article struct {
	Title     string     `json:"title"`
	Link      string     `json:"link"`
	Summary   string     `json:"summary"`
	Body      string     `json:"body,omitempty"`
	Published *time.Time `json:"published,omitempty"`
	Source    string     `json:"source"`

	// FromSectorFeed marks articles from shared sector feeds, which must
	// pass the relevance check. Per-ticker feeds are already scoped.
	FromSectorFeed bool `json:"from_sector_feed,omitempty"`
}

// HoldingNews pairs a holding with its fetched (or filtered) articles.
type HoldingNews struct {
	Holding  Holding   `json:"stock"`
	Articles []Article `json:"articles"`
}

// NewsMap maps ticker → holding + articles, the shape passed between the
// fetch, filter, and analysis stages.
type NewsMap map[string]HoldingNews

// FilterStats counts what the per-holding filter funnel did with its input.
type FilterStats struct {
	Kept       int `json:"kept"`
	TooOld     int `json:"too_old"`
	Irrelevant int `json:"irrelevant"`
	Duplicate  int `json:"duplicate"`
}
