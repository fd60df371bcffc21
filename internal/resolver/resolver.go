// Package resolver turns free-text company input into a canonical company
// name and, when possible, a stock ticker. Resolution is best-effort: it
// never fails the pipeline, falling back to the literal input text.
package resolver

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"

	"github.com/investbrief/investbrief/internal/llm"
	"github.com/investbrief/investbrief/pkg/models"
)

// Resolver resolves user input into a ResolvedEntity.
type Resolver struct {
	llm   llm.Client
	yahoo *YahooLookup
}

// New creates a Resolver. yahoo may be nil to disable ticker lookup.
func New(client llm.Client, yahoo *YahooLookup) *Resolver {
	return &Resolver{llm: client, yahoo: yahoo}
}

const resolvePrompt = `Identify the company referred to by the following user input and respond with JSON only, no other text.

Input: %q

Respond with exactly this JSON shape:
{"company": "<official company name>", "ticker": "<primary stock ticker, or empty string if unknown or not public>"}

Rules:
- "company" is the official registered name (e.g., "Apple Inc.").
- "ticker" is the primary exchange symbol in upper case, without exchange prefix.
- If the input is ambiguous, pick the most prominent public company.
- If you cannot identify a company, use the input text as the company name and an empty ticker.`

type resolvedJSON struct {
	Company string `json:"company"`
	Ticker  string `json:"ticker"`
}

// Resolve maps input text to a canonical entity. It never returns an
// error: on any failure the literal input is used as the company name.
func (r *Resolver) Resolve(ctx context.Context, text string) models.ResolvedEntity {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ResolvedEntity{}
	}

	// Ticker-looking input skips the LLM entirely.
	if looksLikeTicker(text) {
		if ent, ok := r.fromTicker(ctx, text); ok {
			return ent
		}
	}

	ent := r.fromLLM(ctx, text)

	// Backfill a missing ticker from the quote search.
	if ent.Ticker == "" && r.yahoo != nil {
		if symbol, _, err := r.yahoo.Search(ctx, ent.CanonicalName); err == nil {
			ent.Ticker = symbol
		} else {
			log.Debug().Str("company", ent.CanonicalName).Err(err).Msg("ticker backfill failed")
		}
	}
	return ent
}

// fromTicker treats text as a stock symbol and confirms it via quote search.
func (r *Resolver) fromTicker(ctx context.Context, text string) (models.ResolvedEntity, bool) {
	if r.yahoo == nil {
		return models.ResolvedEntity{}, false
	}
	symbol, name, err := r.yahoo.Search(ctx, text)
	if err != nil || !strings.EqualFold(symbol, text) {
		return models.ResolvedEntity{}, false
	}
	if name == "" {
		name = text
	}
	log.Debug().Str("input", text).Str("ticker", symbol).Msg("resolved via ticker fast path")
	return models.ResolvedEntity{CanonicalName: name, Ticker: strings.ToUpper(symbol)}, true
}

// fromLLM asks the model for the canonical name and ticker, falling back
// to the literal input on any failure.
func (r *Resolver) fromLLM(ctx context.Context, text string) models.ResolvedEntity {
	fallback := models.ResolvedEntity{CanonicalName: text}
	if r.llm == nil {
		return fallback
	}

	out, err := r.llm.Generate(ctx, fmt.Sprintf(resolvePrompt, text))
	if err != nil {
		log.Warn().Str("input", text).Err(err).Msg("entity resolution LLM call failed, using input verbatim")
		return fallback
	}
	parsed, err := llm.DecodeJSON[resolvedJSON](out)
	if err != nil {
		log.Warn().Str("input", text).Err(err).Msg("entity resolution response unparseable, using input verbatim")
		return fallback
	}

	company := strings.TrimSpace(parsed.Company)
	if company == "" {
		company = text
	}
	return models.ResolvedEntity{
		CanonicalName: company,
		Ticker:        strings.ToUpper(strings.TrimSpace(parsed.Ticker)),
	}
}

// looksLikeTicker reports whether text is plausibly a bare stock symbol:
// 1 to 5 characters, all upper-case letters.
func looksLikeTicker(s string) bool {
	if len(s) < 1 || len(s) > 5 {
		return false
	}
	for _, r := range s {
		if !unicode.IsUpper(r) || r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
