// Package filter screens news items for relevance to the resolved company
// using the LLM. Filtering is fail-closed: a batch whose answer cannot be
// obtained or parsed contributes no items to the result.
package filter

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/investbrief/investbrief/internal/llm"
	"github.com/investbrief/investbrief/pkg/models"
	"github.com/investbrief/investbrief/pkg/utils"
)

const (
	maxTitleChars = 300
	maxDescChars  = 500
)

// Filter classifies headlines as relevant or not in fixed-size batches.
type Filter struct {
	llm       llm.Client
	batchSize int
}

// New creates a Filter. batchSize <= 0 falls back to 10.
func New(client llm.Client, batchSize int) *Filter {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Filter{llm: client, batchSize: batchSize}
}

const batchPrompt = `You are screening news headlines for investment relevance to %s.

A headline is RELEVANT if it is about this specific company: its business, financials, products, leadership, stock, legal or regulatory matters, or analyst coverage. A headline is NOT RELEVANT if it merely mentions the company in passing, is about a different company with a similar name, or is general market commentary.

Headlines:
%s
Respond with ONLY a JSON array of exactly %d strings, one per headline in order, each either "YES" or "NO". No other text.`

// Apply returns the items judged relevant to the entity, preserving input
// order. Batches are processed sequentially; a failed batch is dropped
// entirely rather than guessed at.
func (f *Filter) Apply(ctx context.Context, entity models.ResolvedEntity, items []models.NewsItem) []models.NewsItem {
	if len(items) == 0 {
		return nil
	}

	var kept []models.NewsItem
	for start := 0; start < len(items); start += f.batchSize {
		end := start + f.batchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[start:end]

		verdicts, err := f.classifyBatch(ctx, entity, batch)
		if err != nil {
			log.Warn().
				Int("batch_start", start).
				Int("batch_size", len(batch)).
				Err(err).
				Msg("relevance batch failed, excluding its items")
			continue
		}
		for i, yes := range verdicts {
			if yes {
				kept = append(kept, batch[i])
			}
		}
	}

	log.Info().
		Str("entity", entity.CanonicalName).
		Int("in", len(items)).
		Int("kept", len(kept)).
		Msg("relevance filter complete")
	return kept
}

// ClassifyOne classifies a single item, fail-closed to false.
func (f *Filter) ClassifyOne(ctx context.Context, entity models.ResolvedEntity, item models.NewsItem) bool {
	verdicts, err := f.classifyBatch(ctx, entity, []models.NewsItem{item})
	if err != nil {
		log.Warn().Str("title", item.Title).Err(err).Msg("relevance check failed, excluding item")
		return false
	}
	return verdicts[0]
}

// classifyBatch asks the LLM for one verdict per item. The answer count
// must match the batch exactly; anything else is an error.
func (f *Filter) classifyBatch(ctx context.Context, entity models.ResolvedEntity, batch []models.NewsItem) ([]bool, error) {
	var sb strings.Builder
	for i, it := range batch {
		fmt.Fprintf(&sb, "%d. %s", i+1, utils.Truncate(it.Title, maxTitleChars))
		if it.Description != "" {
			fmt.Fprintf(&sb, " | %s", utils.Truncate(it.Description, maxDescChars))
		}
		sb.WriteString("\n")
	}

	prompt := fmt.Sprintf(batchPrompt, entity.String(), sb.String(), len(batch))
	out, err := f.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	answers, err := llm.DecodeJSON[[]string](out)
	if err != nil {
		return nil, err
	}
	if len(answers) != len(batch) {
		return nil, fmt.Errorf("got %d verdicts for %d headlines", len(answers), len(batch))
	}

	verdicts := make([]bool, len(answers))
	for i, a := range answers {
		verdicts[i] = strings.Contains(strings.ToUpper(a), "YES")
	}
	return verdicts, nil
}
