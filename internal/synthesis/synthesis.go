// Package synthesis produces the final sentiment brief from filtered,
// enriched news. The model's answer is validated strictly; output that
// fails validation raises a SynthesisError instead of a fabricated brief.
package synthesis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/investbrief/investbrief/internal/llm"
	"github.com/investbrief/investbrief/pkg/models"
	"github.com/investbrief/investbrief/pkg/utils"
)

const (
	defaultMaxArticles = 20
	fullTextChars      = 3000
	descChars          = 500
	minQuoteChars      = 15
)

// SynthesisError reports a failed or invalid synthesis. The pipeline
// surfaces it rather than substituting a guess.
type SynthesisError struct {
	Reason string
	Err    error
}

func (e *SynthesisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("synthesis: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("synthesis: %s", e.Reason)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// Synthesizer turns news items into a validated SentimentResult.
type Synthesizer struct {
	llm         llm.Client
	maxArticles int
}

// New creates a Synthesizer. maxArticles <= 0 falls back to 20.
func New(client llm.Client, maxArticles int) *Synthesizer {
	if maxArticles <= 0 {
		maxArticles = defaultMaxArticles
	}
	return &Synthesizer{llm: client, maxArticles: maxArticles}
}

const synthesisPrompt = `You are an equity analyst writing an investment brief on %s for a %s.

Analyze the following recent news and respond with JSON only, no other text:

%s
Respond with exactly this JSON shape:
{
  "bullets": ["<4 to 6 key takeaways>"],
  "long_summary": "<several sentences summarizing the news and its investment implications>",
  "stance": "<Bullish, Neutral, or Bearish>",
  "score": <integer 1-9, where 1 is most bearish and 9 is most bullish>,
  "reason": "<one sentence justifying the stance and score>",
  "quotes": [{"quote": "<verbatim quote from an article>", "speaker": "<who said it>", "weight": <0.0-1.0 importance>, "context": "<where it appeared>"}]
}

Rules:
- "bullets" must contain between 4 and 6 items.
- "score" must be a whole number from 1 to 9.
- Include only quotes that actually appear in the provided text; an empty array is fine.`

// goalFraming describes the reader so the brief weighs news accordingly.
func goalFraming(goal models.Goal) string {
	if goal == models.GoalShortTerm {
		return "short-term trader focused on the next days to weeks"
	}
	return "long-term investor focused on the next quarters to years"
}

type synthesisJSON struct {
	Bullets     []string    `json:"bullets"`
	LongSummary string      `json:"long_summary"`
	Stance      string      `json:"stance"`
	Score       json.Number `json:"score"`
	Reason      string      `json:"reason"`
	Quotes      []struct {
		Quote   string  `json:"quote"`
		Speaker string  `json:"speaker"`
		Weight  float64 `json:"weight"`
		Context string  `json:"context"`
	} `json:"quotes"`
}

// Synthesize produces the sentiment brief for the entity from the given
// news items, newest first. Items beyond the article cap contribute only
// indirectly through the headline count.
func (s *Synthesizer) Synthesize(ctx context.Context, entity models.ResolvedEntity, goal models.Goal, items []models.NewsItem) (*models.SentimentResult, error) {
	if len(items) == 0 {
		return nil, &SynthesisError{Reason: "no news items to analyze"}
	}

	used := items
	if len(used) > s.maxArticles {
		used = used[:s.maxArticles]
	}

	var sb strings.Builder
	fullTexts := 0
	for i, it := range used {
		fmt.Fprintf(&sb, "--- Article %d ---\n", i+1)
		fmt.Fprintf(&sb, "Date: %s | Source: %s\n", utils.YMD(it.Date), it.Source)
		fmt.Fprintf(&sb, "Title: %s\n", it.Title)
		if it.FullText != "" {
			fmt.Fprintf(&sb, "%s\n\n", utils.Truncate(it.FullText, fullTextChars))
			fullTexts++
		} else if it.Description != "" {
			fmt.Fprintf(&sb, "%s\n\n", utils.Truncate(it.Description, descChars))
		} else {
			sb.WriteString("\n")
		}
	}

	prompt := fmt.Sprintf(synthesisPrompt, entity.String(), goalFraming(goal), sb.String())
	out, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, &SynthesisError{Reason: "LLM call failed", Err: err}
	}

	parsed, err := llm.DecodeJSON[synthesisJSON](out)
	if err != nil {
		return nil, &SynthesisError{Reason: "response not parseable", Err: err}
	}

	score, err := parsed.Score.Int64()
	if err != nil {
		return nil, &SynthesisError{Reason: fmt.Sprintf("score %q is not an integer", parsed.Score)}
	}

	result := &models.SentimentResult{
		Bullets:             trimAll(parsed.Bullets),
		LongSummary:         strings.TrimSpace(parsed.LongSummary),
		Stance:              models.Stance(strings.TrimSpace(parsed.Stance)),
		Score:               int(score),
		Reason:              strings.TrimSpace(parsed.Reason),
		Quotes:              cleanQuotes(parsed),
		ArticlesAnalyzed:    fullTexts,
		HeadlinesConsidered: len(items),
	}

	if err := result.Validate(); err != nil {
		return nil, &SynthesisError{Reason: "response failed validation", Err: err}
	}

	log.Info().
		Str("entity", entity.CanonicalName).
		Str("stance", string(result.Stance)).
		Int("score", result.Score).
		Int("articles", fullTexts).
		Msg("synthesis complete")
	return result, nil
}

// cleanQuotes drops malformed quotes and orders the rest by weight,
// heaviest first. Bad quotes are not fatal; bad briefs are.
func cleanQuotes(parsed synthesisJSON) []models.Quote {
	var quotes []models.Quote
	for _, q := range parsed.Quotes {
		text := strings.TrimSpace(q.Quote)
		if len(text) < minQuoteChars || q.Weight < 0 || q.Weight > 1 {
			continue
		}
		quotes = append(quotes, models.Quote{
			Quote:   text,
			Speaker: strings.TrimSpace(q.Speaker),
			Weight:  q.Weight,
			Context: strings.TrimSpace(q.Context),
		})
	}
	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].Weight > quotes[j].Weight
	})
	return quotes
}

func trimAll(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
