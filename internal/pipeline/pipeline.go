// Package pipeline orchestrates the full analysis run: resolve the
// company, aggregate news, filter for relevance, fetch article text, and
// synthesize the sentiment brief. Each stage's failure policy is its own;
// the pipeline only decides what is fatal for the run as a whole.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/investbrief/investbrief/internal/feed"
	"github.com/investbrief/investbrief/internal/fetcher"
	"github.com/investbrief/investbrief/internal/filter"
	"github.com/investbrief/investbrief/internal/resolver"
	"github.com/investbrief/investbrief/internal/synthesis"
	"github.com/investbrief/investbrief/pkg/models"
)

// Run outcomes that are expected conditions, not system faults.
var (
	ErrNoNews         = errors.New("no recent news found")
	ErrNoRelevantNews = errors.New("no relevant news after filtering")
)

// Result is the complete output of one analysis run.
type Result struct {
	Entity      models.ResolvedEntity   `json:"entity"`
	Goal        models.Goal             `json:"goal"`
	Sentiment   *models.SentimentResult `json:"sentiment"`
	Headlines   []models.NewsItem       `json:"headlines"`
	GeneratedAt time.Time               `json:"generated_at"`
}

// Pipeline wires the five stages together.
type Pipeline struct {
	resolver     *resolver.Resolver
	aggregator   *feed.Aggregator
	filter       *filter.Filter
	fetcher      *fetcher.Fetcher
	synthesizer  *synthesis.Synthesizer
	budget       time.Duration
	maxHeadlines int
}

// Params holds the pipeline's stage implementations and run settings.
type Params struct {
	Resolver     *resolver.Resolver
	Aggregator   *feed.Aggregator
	Filter       *filter.Filter
	Fetcher      *fetcher.Fetcher
	Synthesizer  *synthesis.Synthesizer
	Budget       time.Duration
	MaxHeadlines int
}

// New assembles a Pipeline. Zero Budget and MaxHeadlines get defaults.
func New(p Params) *Pipeline {
	if p.Budget <= 0 {
		p.Budget = 90 * time.Second
	}
	if p.MaxHeadlines <= 0 {
		p.MaxHeadlines = 12
	}
	return &Pipeline{
		resolver:     p.Resolver,
		aggregator:   p.Aggregator,
		filter:       p.Filter,
		fetcher:      p.Fetcher,
		synthesizer:  p.Synthesizer,
		budget:       p.Budget,
		maxHeadlines: p.MaxHeadlines,
	}
}

// Analyze runs the full pipeline for the given company text and goal.
func (p *Pipeline) Analyze(ctx context.Context, companyText string, goal models.Goal) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, p.budget)
	defer cancel()

	started := time.Now()

	entity := p.resolver.Resolve(ctx, companyText)
	if entity.CanonicalName == "" {
		return nil, fmt.Errorf("empty company input")
	}
	log.Info().Str("input", companyText).Str("entity", entity.String()).Msg("entity resolved")

	items, err := p.aggregator.Fetch(ctx, entity)
	if err != nil {
		return nil, fmt.Errorf("news aggregation: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoNews, entity.String())
	}

	relevant := p.filter.Apply(ctx, entity, items)
	if len(relevant) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoRelevantNews, entity.String())
	}

	enriched := p.fetcher.Enrich(ctx, relevant)

	sentiment, err := p.synthesizer.Synthesize(ctx, entity, goal, enriched)
	if err != nil {
		return nil, err
	}

	headlines := enriched
	if len(headlines) > p.maxHeadlines {
		headlines = headlines[:p.maxHeadlines]
	}

	log.Info().
		Str("entity", entity.String()).
		Dur("elapsed", time.Since(started)).
		Msg("analysis complete")

	return &Result{
		Entity:      entity,
		Goal:        goal,
		Sentiment:   sentiment,
		Headlines:   headlines,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
