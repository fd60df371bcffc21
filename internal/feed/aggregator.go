package feed

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/investbrief/investbrief/internal/infra"
	"github.com/investbrief/investbrief/pkg/models"
	"github.com/investbrief/investbrief/pkg/utils"
)

// Aggregator fans a news query out to all configured providers, merges the
// results, deduplicates, applies the recency window, and caps the count.
// One provider failing never fails the aggregate; all providers failing
// just yields an empty result.
type Aggregator struct {
	providers       []NewsProvider
	cache           *infra.Cache
	recencyDays     int
	limit           int
	providerTimeout time.Duration

	now func() time.Time // injectable for tests
}

// AggregatorOption configures the Aggregator.
type AggregatorOption func(*Aggregator)

// WithCache enables result caching with the given cache.
func WithCache(c *infra.Cache) AggregatorOption {
	return func(a *Aggregator) { a.cache = c }
}

// WithRecencyDays sets the recency window in days.
func WithRecencyDays(days int) AggregatorOption {
	return func(a *Aggregator) { a.recencyDays = days }
}

// WithLimit caps the number of items returned after dedup.
func WithLimit(n int) AggregatorOption {
	return func(a *Aggregator) { a.limit = n }
}

// WithProviderTimeout bounds each provider's fetch.
func WithProviderTimeout(d time.Duration) AggregatorOption {
	return func(a *Aggregator) { a.providerTimeout = d }
}

// WithClock overrides the time source (used by tests).
func WithClock(now func() time.Time) AggregatorOption {
	return func(a *Aggregator) { a.now = now }
}

// NewAggregator creates an Aggregator over the given providers.
func NewAggregator(providers []NewsProvider, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		providers:       providers,
		recencyDays:     5,
		limit:           60,
		providerTimeout: 15 * time.Second,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Fetch returns the merged, deduplicated, recency-filtered news for the
// entity, newest first, capped at the configured limit.
func (a *Aggregator) Fetch(ctx context.Context, entity models.ResolvedEntity) ([]models.NewsItem, error) {
	cacheKey := fmt.Sprintf("news:%s:%s:%d", entity.Ticker, entity.CanonicalName, a.recencyDays)
	if a.cache != nil {
		if cached, ok := a.cache.Get(cacheKey); ok {
			if items, ok := cached.([]models.NewsItem); ok {
				log.Debug().Str("entity", entity.CanonicalName).Int("items", len(items)).Msg("news cache hit")
				return items, nil
			}
		}
	}

	cutoff := a.cutoff()

	// Each provider writes to its own slot so the flattened order is the
	// configured provider order, regardless of completion order. That
	// keeps dedup's first-wins behavior deterministic.
	results := make([][]models.NewsItem, len(a.providers))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range a.providers {
		i, p := i, p
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(gctx, a.providerTimeout)
			defer cancel()

			items, err := p.Fetch(pctx, entity, cutoff)
			if err != nil {
				log.Warn().Str("provider", string(p.Name())).Err(err).Msg("news provider failed")
				return nil
			}
			results[i] = items
			log.Debug().Str("provider", string(p.Name())).Int("items", len(items)).Msg("news provider done")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []models.NewsItem
	for _, items := range results {
		merged = append(merged, items...)
	}

	for i := range merged {
		merged[i].TitleNorm = utils.NormalizeTitle(merged[i].Title)
	}

	merged = a.filterRecent(merged, cutoff)
	merged = Dedupe(merged)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date.After(merged[j].Date)
	})

	if a.limit > 0 && len(merged) > a.limit {
		merged = merged[:a.limit]
	}

	if a.cache != nil {
		a.cache.Set(cacheKey, merged)
	}
	log.Info().
		Str("entity", entity.CanonicalName).
		Int("providers", len(a.providers)).
		Int("items", len(merged)).
		Msg("news aggregation complete")
	return merged, nil
}

// cutoff returns the oldest instant inside the recency window. An item
// dated exactly at the cutoff is kept.
func (a *Aggregator) cutoff() time.Time {
	return a.now().UTC().AddDate(0, 0, -a.recencyDays)
}

func (a *Aggregator) filterRecent(items []models.NewsItem, cutoff time.Time) []models.NewsItem {
	out := items[:0]
	for _, it := range items {
		if it.Date.Before(cutoff) {
			continue
		}
		out = append(out, it)
	}
	return out
}
