// Package models defines the shared data types that flow through the
// analysis pipeline: queries, resolved entities, news items, and the
// validated sentiment result.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Goal is the investment timeframe a query is framed around.
type Goal string

const (
	GoalShortTerm Goal = "short-term" // days to weeks
	GoalLongTerm  Goal = "long-term"  // 6+ months
)

// ParseGoal maps loose user input to a Goal. Anything mentioning "short"
// is short-term; everything else defaults to long-term.
func ParseGoal(s string) Goal {
	if strings.Contains(strings.ToLower(s), "short") {
		return GoalShortTerm
	}
	return GoalLongTerm
}

// Query is the immutable input to a pipeline run.
type Query struct {
	CompanyText string `json:"company_text"`
	Goal        Goal   `json:"goal"`
}

// ResolvedEntity is the canonical identity a free-text company name
// resolves to. An empty Ticker means the entity is unresolved; the
// pipeline continues with degraded provider coverage.
type ResolvedEntity struct {
	CanonicalName string `json:"canonical_name"`
	Ticker        string `json:"ticker,omitempty"`
}

// String renders the entity as "Name (TICKER)" or just the name.
func (e ResolvedEntity) String() string {
	if e.Ticker == "" {
		return e.CanonicalName
	}
	return fmt.Sprintf("%s (%s)", e.CanonicalName, e.Ticker)
}

// Provider identifies the news source an item was fetched from.
// Adding a source means adding a new adapter implementation, never
// branching on these values inside shared aggregation logic.
type Provider string

const (
	ProviderPolygon  Provider = "polygon"
	ProviderFinnhub  Provider = "finnhub"
	ProviderNewsAPI  Provider = "newsapi"
	ProviderYahooRSS Provider = "yahoo-rss"
)

// NewsItem is the common shape every provider adapter normalizes to.
// PID is the provider-assigned identifier and is unique only within a
// provider, not globally. FullText stays empty until the article fetcher
// runs, and may remain empty after it (extraction failure is not fatal).
type NewsItem struct {
	Date        time.Time `json:"date"`
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	PID         string    `json:"pid"`
	Provider    Provider  `json:"provider"`
	TitleNorm   string    `json:"title_norm"`
	FullText    string    `json:"full_text,omitempty"`
}
