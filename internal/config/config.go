// Package config handles configuration loading for investbrief.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	LLM      LLMConfig      `mapstructure:"llm"      yaml:"llm"`
	News     NewsConfig     `mapstructure:"news"     yaml:"news"`
	Filter   FilterConfig   `mapstructure:"filter"   yaml:"filter"`
	Fetcher  FetcherConfig  `mapstructure:"fetcher"  yaml:"fetcher"`
	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// LLMConfig holds LLM backend configuration.
type LLMConfig struct {
	Primary     string  `mapstructure:"primary"      yaml:"primary"` // "gemini" or "openai"
	GeminiKey   string  `mapstructure:"gemini_key"   yaml:"gemini_key"`
	OpenAIKey   string  `mapstructure:"openai_key"   yaml:"openai_key"`
	Model       string  `mapstructure:"model"        yaml:"model"`
	Temperature float64 `mapstructure:"temperature"  yaml:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"   yaml:"max_tokens"`
	TimeoutSec  int     `mapstructure:"timeout_sec"  yaml:"timeout_sec"`
}

// NewsConfig holds news provider credentials and aggregation settings.
type NewsConfig struct {
	PolygonKey string `mapstructure:"polygon_key" yaml:"polygon_key"`
	FinnhubKey string `mapstructure:"finnhub_key" yaml:"finnhub_key"`
	NewsAPIKey string `mapstructure:"newsapi_key" yaml:"newsapi_key"`

	RecencyDays        int `mapstructure:"recency_days"         yaml:"recency_days"`
	Limit              int `mapstructure:"limit"                yaml:"limit"` // max items after dedup
	ProviderTimeoutSec int `mapstructure:"provider_timeout_sec" yaml:"provider_timeout_sec"`
	CacheTTLSec        int `mapstructure:"cache_ttl_sec"        yaml:"cache_ttl_sec"`
}

// FilterConfig holds relevance filter settings.
type FilterConfig struct {
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// FetcherConfig holds article fetcher settings.
type FetcherConfig struct {
	Workers          int `mapstructure:"workers"            yaml:"workers"`
	TimeoutSec       int `mapstructure:"timeout_sec"        yaml:"timeout_sec"`
	DomainSpacingMS  int `mapstructure:"domain_spacing_ms"  yaml:"domain_spacing_ms"`
	MaxArticleChars  int `mapstructure:"max_article_chars"  yaml:"max_article_chars"`
	MinArticleChars  int `mapstructure:"min_article_chars"  yaml:"min_article_chars"`
}

// PipelineConfig holds end-to-end run settings.
type PipelineConfig struct {
	BudgetSec    int `mapstructure:"budget_sec"    yaml:"budget_sec"` // overall deadline for one run
	MaxHeadlines int `mapstructure:"max_headlines" yaml:"max_headlines"`
	MaxArticles  int `mapstructure:"max_articles"  yaml:"max_articles"` // items sent to synthesis
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// ProviderTimeout returns the per-provider fetch deadline.
func (c NewsConfig) ProviderTimeout() time.Duration {
	return time.Duration(c.ProviderTimeoutSec) * time.Second
}

// CacheTTL returns the aggregation cache lifetime.
func (c NewsConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSec) * time.Second
}

// Timeout returns the per-article fetch deadline.
func (c FetcherConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// DomainSpacing returns the minimum gap between requests to one domain.
func (c FetcherConfig) DomainSpacing() time.Duration {
	return time.Duration(c.DomainSpacingMS) * time.Millisecond
}

// Budget returns the overall pipeline deadline.
func (c PipelineConfig) Budget() time.Duration {
	return time.Duration(c.BudgetSec) * time.Second
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.investbrief/config.yaml (home directory)
//  3. /etc/investbrief/config.yaml (system)
//
// Environment variables override config file values.
// Format: INVESTBRIEF_<SECTION>_<KEY>, e.g., INVESTBRIEF_LLM_GEMINI_KEY
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".investbrief"))
	v.AddConfigPath("/etc/investbrief")

	v.SetEnvPrefix("INVESTBRIEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file not required to exist; defaults + env vars suffice.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)

	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("INVESTBRIEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// LLM defaults
	v.SetDefault("llm.primary", "gemini")
	v.SetDefault("llm.model", "gemini-2.0-flash")
	v.SetDefault("llm.temperature", 0.1)
	v.SetDefault("llm.max_tokens", 4096)
	v.SetDefault("llm.timeout_sec", 60)

	// News aggregation defaults
	v.SetDefault("news.recency_days", 5)
	v.SetDefault("news.limit", 60)
	v.SetDefault("news.provider_timeout_sec", 15)
	v.SetDefault("news.cache_ttl_sec", 600) // 10 minutes

	// Relevance filter defaults
	v.SetDefault("filter.batch_size", 10)

	// Article fetcher defaults
	v.SetDefault("fetcher.workers", 4)
	v.SetDefault("fetcher.timeout_sec", 10)
	v.SetDefault("fetcher.domain_spacing_ms", 500)
	v.SetDefault("fetcher.max_article_chars", 15000)
	v.SetDefault("fetcher.min_article_chars", 800)

	// Pipeline defaults
	v.SetDefault("pipeline.budget_sec", 90)
	v.SetDefault("pipeline.max_headlines", 12)
	v.SetDefault("pipeline.max_articles", 20)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("INVESTBRIEF_LLM_GEMINI_KEY"); key != "" {
		cfg.LLM.GeminiKey = key
	}
	if key := os.Getenv("INVESTBRIEF_LLM_OPENAI_KEY"); key != "" {
		cfg.LLM.OpenAIKey = key
	}
	if key := os.Getenv("INVESTBRIEF_NEWS_POLYGON_KEY"); key != "" {
		cfg.News.PolygonKey = key
	}
	if key := os.Getenv("INVESTBRIEF_NEWS_FINNHUB_KEY"); key != "" {
		cfg.News.FinnhubKey = key
	}
	if key := os.Getenv("INVESTBRIEF_NEWS_NEWSAPI_KEY"); key != "" {
		cfg.News.NewsAPIKey = key
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
