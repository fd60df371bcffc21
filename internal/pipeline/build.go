package pipeline

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/investbrief/investbrief/internal/config"
	"github.com/investbrief/investbrief/internal/feed"
	"github.com/investbrief/investbrief/internal/fetcher"
	"github.com/investbrief/investbrief/internal/filter"
	"github.com/investbrief/investbrief/internal/infra"
	"github.com/investbrief/investbrief/internal/llm"
	"github.com/investbrief/investbrief/internal/resolver"
	"github.com/investbrief/investbrief/internal/synthesis"
)

// Build assembles a Pipeline from configuration: LLM clients with
// fallback, the configured news providers, and the five stages.
func Build(cfg *config.Config) (*Pipeline, error) {
	client, err := BuildLLM(cfg)
	if err != nil {
		return nil, err
	}

	providers := buildProviders(cfg)
	if len(providers) == 0 {
		return nil, fmt.Errorf("no news providers available")
	}

	aggregator := feed.NewAggregator(providers,
		feed.WithCache(infra.NewCache(cfg.News.CacheTTL())),
		feed.WithRecencyDays(cfg.News.RecencyDays),
		feed.WithLimit(cfg.News.Limit),
		feed.WithProviderTimeout(cfg.News.ProviderTimeout()),
	)

	return New(Params{
		Resolver:   resolver.New(client, resolver.NewYahooLookup()),
		Aggregator: aggregator,
		Filter:     filter.New(client, cfg.Filter.BatchSize),
		Fetcher: fetcher.New(fetcher.Config{
			Workers:       cfg.Fetcher.Workers,
			Timeout:       cfg.Fetcher.Timeout(),
			DomainSpacing: cfg.Fetcher.DomainSpacing(),
			MaxChars:      cfg.Fetcher.MaxArticleChars,
			MinChars:      cfg.Fetcher.MinArticleChars,
		}),
		Synthesizer:  synthesis.New(client, cfg.Pipeline.MaxArticles),
		Budget:       cfg.Pipeline.Budget(),
		MaxHeadlines: cfg.Pipeline.MaxHeadlines,
	}), nil
}

// BuildLLM constructs the configured LLM client, wrapping primary and
// secondary backends in a fallback when both keys are present.
func BuildLLM(cfg *config.Config) (llm.Client, error) {
	opts := llm.Options{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     time.Duration(cfg.LLM.TimeoutSec) * time.Second,
	}

	var gemini, openai llm.Client
	if cfg.LLM.GeminiKey != "" {
		geminiOpts := []llm.GeminiOption{llm.WithGeminiOptions(opts)}
		if cfg.LLM.Primary == llm.BackendGemini && cfg.LLM.Model != "" {
			geminiOpts = append(geminiOpts, llm.WithGeminiModel(cfg.LLM.Model))
		}
		c, err := llm.NewGeminiClient(cfg.LLM.GeminiKey, geminiOpts...)
		if err != nil {
			return nil, err
		}
		gemini = c
	}
	if cfg.LLM.OpenAIKey != "" {
		openaiOpts := []llm.OpenAIOption{llm.WithOpenAIOptions(opts)}
		if cfg.LLM.Primary == llm.BackendOpenAI && cfg.LLM.Model != "" {
			openaiOpts = append(openaiOpts, llm.WithOpenAIModel(cfg.LLM.Model))
		}
		c, err := llm.NewOpenAIClient(cfg.LLM.OpenAIKey, openaiOpts...)
		if err != nil {
			return nil, err
		}
		openai = c
	}

	switch {
	case gemini == nil && openai == nil:
		return nil, llm.ErrNoAPIKey
	case cfg.LLM.Primary == llm.BackendOpenAI && openai != nil:
		return llm.Fallback(openai, gemini), nil
	case gemini != nil:
		return llm.Fallback(gemini, openai), nil
	default:
		return llm.Fallback(openai, nil), nil
	}
}

// buildProviders returns the news adapters whose keys are configured.
// The keyless Yahoo RSS feed is always included.
func buildProviders(cfg *config.Config) []feed.NewsProvider {
	var providers []feed.NewsProvider
	if cfg.News.PolygonKey != "" {
		providers = append(providers, feed.NewPolygonProvider(cfg.News.PolygonKey))
	} else {
		log.Debug().Msg("polygon provider disabled: no API key")
	}
	if cfg.News.FinnhubKey != "" {
		providers = append(providers, feed.NewFinnhubProvider(cfg.News.FinnhubKey))
	} else {
		log.Debug().Msg("finnhub provider disabled: no API key")
	}
	if cfg.News.NewsAPIKey != "" {
		providers = append(providers, feed.NewNewsAPIProvider(cfg.News.NewsAPIKey))
	} else {
		log.Debug().Msg("newsapi provider disabled: no API key")
	}
	providers = append(providers, feed.NewYahooRSSProvider())
	return providers
}
