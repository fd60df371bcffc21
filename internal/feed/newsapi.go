package feed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/investbrief/investbrief/pkg/models"
	"github.com/investbrief/investbrief/pkg/utils"
)

// financeDomains restricts NewsAPI results to financial press. NewsAPI
// matches broadly on company names, so without the allowlist the results
// drown in lifestyle and local coverage.
var financeDomains = []string{
	"reuters.com",
	"bloomberg.com",
	"cnbc.com",
	"marketwatch.com",
	"finance.yahoo.com",
	"wsj.com",
	"ft.com",
	"barrons.com",
	"investors.com",
	"fool.com",
	"seekingalpha.com",
	"businessinsider.com",
	"forbes.com",
	"benzinga.com",
}

// NewsAPIProvider fetches company news from newsapi.org. It searches by
// company name, so it works without a ticker.
type NewsAPIProvider struct {
	apiKey string
	client *resty.Client
}

// NewNewsAPIProvider creates a NewsAPI adapter.
func NewNewsAPIProvider(apiKey string) *NewsAPIProvider {
	return &NewsAPIProvider{
		apiKey: apiKey,
		client: resty.New().
			SetBaseURL("https://newsapi.org").
			SetTimeout(15 * time.Second).
			SetRetryCount(1),
	}
}

// SetBaseURL points the client at a different host (used by tests).
func (p *NewsAPIProvider) SetBaseURL(url string) {
	p.client.SetBaseURL(url)
}

func (p *NewsAPIProvider) Name() models.Provider { return models.ProviderNewsAPI }

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Description string `json:"description"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

func (p *NewsAPIProvider) Fetch(ctx context.Context, entity models.ResolvedEntity, since time.Time) ([]models.NewsItem, error) {
	if p.apiKey == "" {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("API key not configured")}
	}

	query := fmt.Sprintf("%q AND (stock OR shares OR earnings OR revenue OR market)", entity.CanonicalName)
	if entity.Ticker != "" {
		query = fmt.Sprintf("(%q OR %q) AND (stock OR shares OR earnings OR revenue OR market)", entity.CanonicalName, entity.Ticker)
	}

	var result newsAPIResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":        query,
			"domains":  strings.Join(financeDomains, ","),
			"from":     utils.YMD(since),
			"sortBy":   "publishedAt",
			"language": "en",
			"pageSize": "100",
			"apiKey":   p.apiKey,
		}).
		SetResult(&result).
		Get("/v2/everything")
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: err}
	}
	if resp.IsError() || result.Status == "error" {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("HTTP %d", resp.StatusCode())}
	}

	items := make([]models.NewsItem, 0, len(result.Articles))
	for _, a := range result.Articles {
		if a.Title == "" || a.URL == "" {
			continue
		}
		date, err := time.Parse(time.RFC3339, a.PublishedAt)
		if err != nil {
			continue
		}
		items = append(items, models.NewsItem{
			Date:        date.UTC(),
			Source:      a.Source.Name,
			Title:       a.Title,
			URL:         a.URL,
			Description: a.Description,
			// NewsAPI has no stable article ID; the URL serves as one.
			PID:      a.URL,
			Provider: p.Name(),
		})
	}
	return items, nil
}
