package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.News.RecencyDays != 5 {
		t.Errorf("news.recency_days = %d, want 5", cfg.News.RecencyDays)
	}
	if cfg.News.Limit != 60 {
		t.Errorf("news.limit = %d, want 60", cfg.News.Limit)
	}
	if cfg.Filter.BatchSize != 10 {
		t.Errorf("filter.batch_size = %d, want 10", cfg.Filter.BatchSize)
	}
	if cfg.Fetcher.TimeoutSec != 10 {
		t.Errorf("fetcher.timeout_sec = %d, want 10", cfg.Fetcher.TimeoutSec)
	}
	if cfg.Pipeline.BudgetSec != 90 {
		t.Errorf("pipeline.budget_sec = %d, want 90", cfg.Pipeline.BudgetSec)
	}
	if cfg.LLM.Primary != "gemini" {
		t.Errorf("llm.primary = %q, want gemini", cfg.LLM.Primary)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("logging.level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
llm:
  primary: openai
  model: gpt-4o
news:
  recency_days: 3
  limit: 25
fetcher:
  workers: 8
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() failed: %v", err)
	}

	if cfg.LLM.Primary != "openai" {
		t.Errorf("llm.primary = %q, want openai", cfg.LLM.Primary)
	}
	if cfg.News.RecencyDays != 3 {
		t.Errorf("news.recency_days = %d, want 3", cfg.News.RecencyDays)
	}
	if cfg.News.Limit != 25 {
		t.Errorf("news.limit = %d, want 25", cfg.News.Limit)
	}
	// Unset values fall back to defaults.
	if cfg.Filter.BatchSize != 10 {
		t.Errorf("filter.batch_size = %d, want default 10", cfg.Filter.BatchSize)
	}
	if cfg.Fetcher.Workers != 8 {
		t.Errorf("fetcher.workers = %d, want 8", cfg.Fetcher.Workers)
	}
}

func TestEnvKeyOverride(t *testing.T) {
	t.Setenv("INVESTBRIEF_NEWS_POLYGON_KEY", "env-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.News.PolygonKey != "env-secret" {
		t.Errorf("news.polygon_key = %q, want env-secret", cfg.News.PolygonKey)
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.Fetcher.DomainSpacing().Milliseconds(); got != 500 {
		t.Errorf("DomainSpacing() = %dms, want 500ms", got)
	}
	if got := cfg.Pipeline.Budget().Seconds(); got != 90 {
		t.Errorf("Budget() = %vs, want 90s", got)
	}
}
