package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/investbrief/investbrief/internal/feed"
	"github.com/investbrief/investbrief/internal/fetcher"
	"github.com/investbrief/investbrief/internal/filter"
	"github.com/investbrief/investbrief/internal/resolver"
	"github.com/investbrief/investbrief/internal/synthesis"
	"github.com/investbrief/investbrief/pkg/models"
)

// stageLLM answers each pipeline stage's prompt by recognizing its shape.
type stageLLM struct {
	resolveResp   string
	filterResp    string
	synthesisResp string
}

func (s *stageLLM) Name() string { return "stage" }

func (s *stageLLM) Generate(ctx context.Context, prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "Identify the company"):
		return s.resolveResp, nil
	case strings.Contains(prompt, "screening news headlines"):
		return s.filterResp, nil
	case strings.Contains(prompt, "equity analyst"):
		return s.synthesisResp, nil
	}
	return "", errors.New("unrecognized prompt")
}

func (s *stageLLM) Ping(ctx context.Context) error { return nil }

type fakeProvider struct {
	name  models.Provider
	items []models.NewsItem
	err   error
}

func (f *fakeProvider) Name() models.Provider { return f.name }
func (f *fakeProvider) Fetch(ctx context.Context, entity models.ResolvedEntity, since time.Time) ([]models.NewsItem, error) {
	return f.items, f.err
}

const validBrief = `{
	"bullets": ["Strong quarter", "Guidance raised", "Margins expanded", "Buyback continues"],
	"long_summary": "The company delivered broad-based growth and raised its outlook.",
	"stance": "Bullish",
	"score": 7,
	"reason": "Beats across the board.",
	"quotes": []
}`

func recentItem(pid, title, url string) models.NewsItem {
	return models.NewsItem{
		Date:     time.Now().UTC().Add(-2 * time.Hour),
		Provider: models.ProviderPolygon,
		PID:      pid,
		Title:    title,
		Source:   "Reuters",
		URL:      url,
	}
}

func newTestPipeline(client *stageLLM, providers []feed.NewsProvider) *Pipeline {
	return New(Params{
		Resolver:   resolver.New(client, nil),
		Aggregator: feed.NewAggregator(providers, feed.WithProviderTimeout(time.Second)),
		Filter:     filter.New(client, 10),
		Fetcher: fetcher.New(fetcher.Config{
			Workers:       2,
			Timeout:       time.Second,
			DomainSpacing: time.Millisecond,
		}),
		Synthesizer: synthesis.New(client, 20),
		Budget:      10 * time.Second,
	})
}

func TestAnalyzeEndToEnd(t *testing.T) {
	client := &stageLLM{
		resolveResp:   `{"company": "Apple Inc.", "ticker": "AAPL"}`,
		filterResp:    `["YES", "YES"]`,
		synthesisResp: validBrief,
	}
	providers := []feed.NewsProvider{
		&fakeProvider{name: models.ProviderPolygon, items: []models.NewsItem{
			recentItem("p1", "Apple beats earnings", ""),
			recentItem("p2", "Apple raises guidance", ""),
		}},
	}

	got, err := newTestPipeline(client, providers).Analyze(context.Background(), "apple", models.GoalLongTerm)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if got.Entity.Ticker != "AAPL" {
		t.Errorf("Ticker = %q, want AAPL", got.Entity.Ticker)
	}
	if got.Sentiment == nil || got.Sentiment.Score != 7 {
		t.Errorf("unexpected sentiment: %+v", got.Sentiment)
	}
	if len(got.Headlines) != 2 {
		t.Errorf("got %d headlines, want 2", len(got.Headlines))
	}
	if got.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}
}

func TestAnalyzeNoNews(t *testing.T) {
	client := &stageLLM{resolveResp: `{"company": "Ghost Corp", "ticker": "GHST"}`}
	providers := []feed.NewsProvider{
		&fakeProvider{name: models.ProviderPolygon},
	}

	_, err := newTestPipeline(client, providers).Analyze(context.Background(), "ghost corp", models.GoalLongTerm)
	if !errors.Is(err, ErrNoNews) {
		t.Fatalf("expected ErrNoNews, got %v", err)
	}
}

func TestAnalyzeAllProvidersFailIsNoNews(t *testing.T) {
	client := &stageLLM{resolveResp: `{"company": "Apple Inc.", "ticker": "AAPL"}`}
	providers := []feed.NewsProvider{
		&fakeProvider{name: models.ProviderPolygon, err: errors.New("down")},
		&fakeProvider{name: models.ProviderFinnhub, err: errors.New("down")},
	}

	_, err := newTestPipeline(client, providers).Analyze(context.Background(), "apple", models.GoalLongTerm)
	if !errors.Is(err, ErrNoNews) {
		t.Fatalf("provider outages must surface as ErrNoNews, got %v", err)
	}
}

func TestAnalyzeNothingRelevant(t *testing.T) {
	client := &stageLLM{
		resolveResp: `{"company": "Apple Inc.", "ticker": "AAPL"}`,
		filterResp:  `["NO", "NO"]`,
	}
	providers := []feed.NewsProvider{
		&fakeProvider{name: models.ProviderPolygon, items: []models.NewsItem{
			recentItem("p1", "Apple pie recipe of the year", ""),
			recentItem("p2", "Orchard tourism grows", ""),
		}},
	}

	_, err := newTestPipeline(client, providers).Analyze(context.Background(), "apple", models.GoalLongTerm)
	if !errors.Is(err, ErrNoRelevantNews) {
		t.Fatalf("expected ErrNoRelevantNews, got %v", err)
	}
}

func TestAnalyzeCrossProviderDuplicateCollapses(t *testing.T) {
	dup := recentItem("fh-1", "Different headline entirely", "https://news.com/story")
	dup.Provider = models.ProviderFinnhub

	client := &stageLLM{
		resolveResp:   `{"company": "Apple Inc.", "ticker": "AAPL"}`,
		filterResp:    `["YES", "YES"]`,
		synthesisResp: validBrief,
	}
	providers := []feed.NewsProvider{
		&fakeProvider{name: models.ProviderPolygon, items: []models.NewsItem{
			recentItem("pg-1", "Apple beats earnings", "https://news.com/story?utm_source=x"),
			recentItem("pg-2", "Apple raises guidance", "https://news.com/other"),
		}},
		&fakeProvider{name: models.ProviderFinnhub, items: []models.NewsItem{dup}},
	}

	got, err := newTestPipeline(client, providers).Analyze(context.Background(), "apple", models.GoalLongTerm)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Headlines) != 2 {
		t.Fatalf("duplicate URL must collapse, got %d headlines", len(got.Headlines))
	}
}

func TestAnalyzeSynthesisFailurePropagates(t *testing.T) {
	client := &stageLLM{
		resolveResp:   `{"company": "Apple Inc.", "ticker": "AAPL"}`,
		filterResp:    `["YES"]`,
		synthesisResp: "I'd say it's looking pretty good overall!",
	}
	providers := []feed.NewsProvider{
		&fakeProvider{name: models.ProviderPolygon, items: []models.NewsItem{
			recentItem("p1", "Apple beats earnings", ""),
		}},
	}

	_, err := newTestPipeline(client, providers).Analyze(context.Background(), "apple", models.GoalLongTerm)
	var se *synthesis.SynthesisError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SynthesisError, got %v", err)
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	client := &stageLLM{}
	providers := []feed.NewsProvider{&fakeProvider{name: models.ProviderPolygon}}

	if _, err := newTestPipeline(client, providers).Analyze(context.Background(), "   ", models.GoalLongTerm); err == nil {
		t.Fatal("expected error for blank input")
	}
}
