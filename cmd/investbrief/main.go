// investbrief — sentiment-scored investment briefs from company news.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/investbrief/investbrief/internal/config"
	"github.com/investbrief/investbrief/internal/pipeline"
	"github.com/investbrief/investbrief/pkg/models"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "investbrief",
	Short: "investbrief — sentiment-scored investment briefs from company news",
	Long: `investbrief turns a company name or ticker into an investment brief:
it resolves the company, aggregates recent news from multiple providers,
filters for relevance, reads the articles, and synthesizes a scored
sentiment summary.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if override, _ := cmd.Flags().GetString("log-level"); override != "" {
			cfg.Logging.Level = override
		}
		setupLogging(cfg.Logging)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(statusCmd)
}

// setupLogging configures the global zerolog logger.
func setupLogging(lc config.LoggingConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(lc.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if lc.Format != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("investbrief %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [company]",
	Short: "Build an investment brief for a company",
	Long: `Build a sentiment-scored investment brief from recent news.

Examples:
  investbrief analyze AAPL
  investbrief analyze "tesla motors" --goal short-term
  investbrief analyze "Reliance Industries" --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		company := strings.Join(args, " ")
		goalFlag, _ := cmd.Flags().GetString("goal")
		asJSON, _ := cmd.Flags().GetBool("json")
		goal := models.ParseGoal(goalFlag)

		p, err := pipeline.Build(cfg)
		if err != nil {
			return err
		}

		result, err := p.Analyze(cmd.Context(), company, goal)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}
		printBrief(result)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("goal", "long-term", "investment goal: short-term or long-term")
	analyzeCmd.Flags().Bool("json", false, "print the full result as JSON")
}

// printBrief renders the result for terminal reading.
func printBrief(r *pipeline.Result) {
	fmt.Println("═══════════════════════════════════════")
	fmt.Printf("  %s\n", r.Entity.String())
	fmt.Println("═══════════════════════════════════════")
	fmt.Printf("  Stance: %s (score %d/9, %s)\n", r.Sentiment.Stance, r.Sentiment.Score, r.Goal)
	fmt.Printf("  %s\n\n", r.Sentiment.Reason)

	fmt.Println("  Key takeaways:")
	for _, b := range r.Sentiment.Bullets {
		fmt.Printf("   • %s\n", b)
	}
	fmt.Println()

	fmt.Println("  Summary:")
	fmt.Printf("  %s\n\n", r.Sentiment.LongSummary)

	if len(r.Sentiment.Quotes) > 0 {
		fmt.Println("  Notable quotes:")
		for _, q := range r.Sentiment.Quotes {
			fmt.Printf("   %q", q.Quote)
			if q.Speaker != "" {
				fmt.Printf(" — %s", q.Speaker)
			}
			fmt.Println()
		}
		fmt.Println()
	}

	fmt.Println("  Headlines:")
	for _, h := range r.Headlines {
		fmt.Printf("   [%s] %s (%s)\n", h.Date.Format("Jan 02"), h.Title, h.Source)
	}
	fmt.Println()
	fmt.Printf("  Based on %d articles read in full, %d headlines considered.\n",
		r.Sentiment.ArticlesAnalyzed, r.Sentiment.HeadlinesConsidered)
	fmt.Println("═══════════════════════════════════════")
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and backend health",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  investbrief — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version: %s (%s)\n\n", version, commit)

		fmt.Println("  Configuration:")
		fmt.Printf("    LLM:           %s (model: %s)\n", cfg.LLM.Primary, cfg.LLM.Model)
		fmt.Printf("    Recency:       %d days, up to %d items\n", cfg.News.RecencyDays, cfg.News.Limit)
		fmt.Printf("    Fetcher:       %d workers, %ds timeout\n", cfg.Fetcher.Workers, cfg.Fetcher.TimeoutSec)
		fmt.Println()

		fmt.Println("  API Keys:")
		for _, k := range config.CheckAPIKeys(cfg) {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s)", k.Masked)
			}
			fmt.Printf("    %-10s %s\n", k.Name+":", status)
		}
		fmt.Println()

		client, err := pipeline.BuildLLM(cfg)
		if err != nil {
			fmt.Printf("  LLM: unavailable (%v)\n", err)
		} else {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			if err := client.Ping(ctx); err != nil {
				fmt.Printf("  LLM %s: unreachable (%v)\n", client.Name(), err)
			} else {
				fmt.Printf("  LLM %s: reachable\n", client.Name())
			}
		}
		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
