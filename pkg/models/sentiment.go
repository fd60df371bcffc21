package models

import "fmt"

// Stance is the three-way qualitative sentiment classification. It is a
// closed enumeration so that rendering and validation stay exhaustive.
type Stance string

const (
	StanceBullish Stance = "Bullish"
	StanceNeutral Stance = "Neutral"
	StanceBearish Stance = "Bearish"
)

// Valid reports whether s is one of the three enumerated stances.
func (s Stance) Valid() bool {
	switch s {
	case StanceBullish, StanceNeutral, StanceBearish:
		return true
	}
	return false
}

// Score bounds for a sentiment result. 1 = very negative, 5 = neutral,
// 9 = very positive. Anything outside the range is a schema violation,
// never a usable result.
const (
	MinScore = 1
	MaxScore = 9
)

// Bullet count bounds for a sentiment result.
const (
	MinBullets = 4
	MaxBullets = 6
)

// Quote is a single investment-relevant quotation lifted from an article,
// weighted 0..1 by importance.
type Quote struct {
	Quote   string  `json:"quote"`
	Speaker string  `json:"speaker"`
	Weight  float64 `json:"weight"`
	Context string  `json:"context"`
}

// SentimentResult is the validated structured output of the synthesizer.
type SentimentResult struct {
	Bullets             []string `json:"bullets"`
	LongSummary         string   `json:"long_summary"`
	Stance              Stance   `json:"stance"`
	Score               int      `json:"score"`
	Reason              string   `json:"reason,omitempty"`
	Quotes              []Quote  `json:"quotes,omitempty"`
	ArticlesAnalyzed    int      `json:"articles_analyzed"`
	HeadlinesConsidered int      `json:"headlines_considered"`
}

// Validate checks the result against the output schema. A fabricated but
// plausible-looking sentiment is worse than an explicit failure, so any
// violation is an error.
func (r *SentimentResult) Validate() error {
	if n := len(r.Bullets); n < MinBullets || n > MaxBullets {
		return fmt.Errorf("bullets: got %d, want %d-%d", n, MinBullets, MaxBullets)
	}
	if r.LongSummary == "" {
		return fmt.Errorf("long summary missing")
	}
	if !r.Stance.Valid() {
		return fmt.Errorf("stance %q not one of Bullish/Neutral/Bearish", r.Stance)
	}
	if r.Score < MinScore || r.Score > MaxScore {
		return fmt.Errorf("score %d out of range %d-%d", r.Score, MinScore, MaxScore)
	}
	for i, q := range r.Quotes {
		if q.Weight < 0 || q.Weight > 1 {
			return fmt.Errorf("quote %d: weight %v out of range 0-1", i, q.Weight)
		}
	}
	return nil
}
