package models

import "testing"

func TestParseGoal(t *testing.T) {
	tests := []struct {
		input string
		want  Goal
	}{
		{"short-term", GoalShortTerm},
		{"short term", GoalShortTerm},
		{"SHORT", GoalShortTerm},
		{"long-term", GoalLongTerm},
		{"", GoalLongTerm},
		{"whatever", GoalLongTerm},
	}
	for _, tt := range tests {
		if got := ParseGoal(tt.input); got != tt.want {
			t.Errorf("ParseGoal(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestResolvedEntityString(t *testing.T) {
	e := ResolvedEntity{CanonicalName: "Apple Inc.", Ticker: "AAPL"}
	if got := e.String(); got != "Apple Inc. (AAPL)" {
		t.Errorf("String() = %q", got)
	}
	e.Ticker = ""
	if got := e.String(); got != "Apple Inc." {
		t.Errorf("String() without ticker = %q", got)
	}
}

func TestStanceValid(t *testing.T) {
	for _, s := range []Stance{StanceBullish, StanceNeutral, StanceBearish} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []Stance{"", "bullish", "Mixed", "Positive"} {
		if s.Valid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func validResult() SentimentResult {
	return SentimentResult{
		Bullets:     []string{"a", "b", "c", "d", "e"},
		LongSummary: "A reasonable narrative.",
		Stance:      StanceBullish,
		Score:       7,
	}
}

func TestSentimentResultValidate(t *testing.T) {
	r := validResult()
	if err := r.Validate(); err != nil {
		t.Fatalf("valid result rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*SentimentResult)
	}{
		{"too few bullets", func(r *SentimentResult) { r.Bullets = r.Bullets[:3] }},
		{"too many bullets", func(r *SentimentResult) {
			r.Bullets = append(r.Bullets, "f", "g")
		}},
		{"empty summary", func(r *SentimentResult) { r.LongSummary = "" }},
		{"bad stance", func(r *SentimentResult) { r.Stance = "Sideways" }},
		{"score too low", func(r *SentimentResult) { r.Score = 0 }},
		{"score too high", func(r *SentimentResult) { r.Score = 10 }},
		{"quote weight out of range", func(r *SentimentResult) {
			r.Quotes = []Quote{{Quote: "we expect growth", Speaker: "CEO", Weight: 1.5}}
		}},
	}
	for _, tt := range tests {
		r := validResult()
		tt.mutate(&r)
		if err := r.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}
