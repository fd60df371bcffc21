package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/investbrief/investbrief/internal/config"
	"github.com/investbrief/investbrief/internal/llm"
)

func baseConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			Primary:    "gemini",
			TimeoutSec: 30,
			MaxTokens:  4096,
		},
	}
}

func TestBuildLLMNoKeys(t *testing.T) {
	if _, err := BuildLLM(baseConfig()); !errors.Is(err, llm.ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestBuildLLMGeminiOnly(t *testing.T) {
	cfg := baseConfig()
	cfg.LLM.GeminiKey = "g-key"

	client, err := BuildLLM(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if client.Name() != llm.BackendGemini {
		t.Errorf("Name() = %q, want gemini", client.Name())
	}
}

func TestBuildLLMBothKeys(t *testing.T) {
	cfg := baseConfig()
	cfg.LLM.GeminiKey = "g-key"
	cfg.LLM.OpenAIKey = "o-key"

	client, err := BuildLLM(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(client.Name(), llm.BackendGemini) {
		t.Errorf("Name() = %q, want gemini primary", client.Name())
	}
}

func TestBuildLLMOpenAIPrimary(t *testing.T) {
	cfg := baseConfig()
	cfg.LLM.Primary = "openai"
	cfg.LLM.GeminiKey = "g-key"
	cfg.LLM.OpenAIKey = "o-key"

	client, err := BuildLLM(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(client.Name(), llm.BackendOpenAI) {
		t.Errorf("Name() = %q, want openai primary", client.Name())
	}
}

func TestBuildAlwaysHasYahooProvider(t *testing.T) {
	// No news keys configured: the keyless RSS adapter keeps the
	// aggregator viable.
	cfg := baseConfig()
	cfg.LLM.GeminiKey = "g-key"
	cfg.News.RecencyDays = 5
	cfg.News.Limit = 60
	cfg.News.ProviderTimeoutSec = 10
	cfg.Filter.BatchSize = 10
	cfg.Fetcher.Workers = 2
	cfg.Pipeline.BudgetSec = 30

	if _, err := Build(cfg); err != nil {
		t.Fatalf("Build() failed without news keys: %v", err)
	}
}
