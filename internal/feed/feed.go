// Package feed aggregates company news from multiple providers. Each
// provider is an independent adapter behind the NewsProvider interface;
// the Aggregator fans out concurrently, absorbs individual provider
// failures, deduplicates, and applies the recency window.
package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/investbrief/investbrief/pkg/models"
)

// NewsProvider fetches recent news items about an entity. Fetch returns
// raw items; recency filtering and dedup happen in the Aggregator.
type NewsProvider interface {
	// Name returns the provider identifier.
	Name() models.Provider

	// Fetch returns news items about the entity published since the given
	// time. Providers may return items older than since; the aggregator
	// filters again.
	Fetch(ctx context.Context, entity models.ResolvedEntity, since time.Time) ([]models.NewsItem, error)
}

// ProviderError wraps a failure from one provider so the aggregator can
// log it with attribution while continuing with the others.
type ProviderError struct {
	Provider models.Provider
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
