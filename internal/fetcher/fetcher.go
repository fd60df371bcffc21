// Package fetcher downloads and extracts full article text for news items.
// Fetching is strictly best-effort: any failure leaves the item's FullText
// empty and the item itself untouched. Requests to the same domain are
// spaced out to stay polite.
package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/investbrief/investbrief/internal/infra"
	"github.com/investbrief/investbrief/pkg/models"
)

const maxBodyBytes = 2 << 20 // 2 MB

// Markers of paywalled or gated pages; matched case-insensitively against
// the extracted text.
var paywallMarkers = []string{
	"subscribe to continue",
	"subscription required",
	"sign in to read",
	"to continue reading",
}

// Fetcher enriches news items with full article text.
type Fetcher struct {
	client   *http.Client
	gate     *infra.DomainGate
	workers  int
	maxChars int
	minChars int
}

// Config holds fetcher tuning knobs.
type Config struct {
	Workers       int
	Timeout       time.Duration
	DomainSpacing time.Duration
	MaxChars      int
	MinChars      int
}

// New creates a Fetcher. Zero config fields get working defaults.
func New(cfg Config) *Fetcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.DomainSpacing <= 0 {
		cfg.DomainSpacing = 500 * time.Millisecond
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = 15000
	}
	if cfg.MinChars <= 0 {
		cfg.MinChars = 800
	}
	return &Fetcher{
		client:   &http.Client{Timeout: cfg.Timeout},
		gate:     infra.NewDomainGate(cfg.DomainSpacing),
		workers:  cfg.Workers,
		maxChars: cfg.MaxChars,
		minChars: cfg.MinChars,
	}
}

// Enrich returns a copy of items with FullText populated where an article
// could be fetched and extracted. The item count and order never change.
func (f *Fetcher) Enrich(ctx context.Context, items []models.NewsItem) []models.NewsItem {
	out := make([]models.NewsItem, len(items))
	copy(out, items)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)
	for i := range out {
		i := i
		g.Go(func() error {
			out[i].FullText = f.fetchOne(gctx, out[i].URL)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	fetched := 0
	for i := range out {
		if out[i].FullText != "" {
			fetched++
		}
	}
	log.Info().Int("items", len(out)).Int("fetched", fetched).Msg("article fetch complete")
	return out
}

// fetchOne downloads one article and returns its extracted text, or ""
// when anything goes wrong.
func (f *Fetcher) fetchOne(ctx context.Context, rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	if err := f.gate.Wait(ctx, u.Host); err != nil {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; investbrief/1.0)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		log.Debug().Str("url", rawURL).Err(err).Msg("article fetch failed")
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debug().Str("url", rawURL).Int("status", resp.StatusCode).Msg("article fetch rejected")
		return ""
	}

	text, err := ExtractArticleText(io.LimitReader(resp.Body, maxBodyBytes), f.maxChars)
	if err != nil {
		return ""
	}
	if len(text) < f.minChars {
		return ""
	}
	lower := strings.ToLower(text)
	for _, marker := range paywallMarkers {
		if strings.Contains(lower, marker) {
			log.Debug().Str("url", rawURL).Msg("paywalled article skipped")
			return ""
		}
	}
	return text
}
