package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/investbrief/investbrief/pkg/models"
	"github.com/investbrief/investbrief/pkg/utils"
)

// PolygonProvider fetches ticker news from the Polygon.io reference API.
// It requires a resolved ticker; without one it returns no items.
type PolygonProvider struct {
	apiKey string
	client *resty.Client
}

// NewPolygonProvider creates a Polygon news adapter.
func NewPolygonProvider(apiKey string) *PolygonProvider {
	return &PolygonProvider{
		apiKey: apiKey,
		client: resty.New().
			SetBaseURL("https://api.polygon.io").
			SetTimeout(15 * time.Second).
			SetRetryCount(1),
	}
}

// SetBaseURL points the client at a different host (used by tests).
func (p *PolygonProvider) SetBaseURL(url string) {
	p.client.SetBaseURL(url)
}

func (p *PolygonProvider) Name() models.Provider { return models.ProviderPolygon }

type polygonNewsResponse struct {
	Results []struct {
		ID           string `json:"id"`
		Title        string `json:"title"`
		ArticleURL   string `json:"article_url"`
		Description  string `json:"description"`
		PublishedUTC string `json:"published_utc"`
		Publisher    struct {
			Name string `json:"name"`
		} `json:"publisher"`
	} `json:"results"`
}

func (p *PolygonProvider) Fetch(ctx context.Context, entity models.ResolvedEntity, since time.Time) ([]models.NewsItem, error) {
	if p.apiKey == "" {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("API key not configured")}
	}
	if entity.Ticker == "" {
		return nil, nil
	}

	var result polygonNewsResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ticker":                entity.Ticker,
			"published_utc.gte":     utils.YMD(since),
			"limit":                 "50",
			"order":                 "desc",
			"sort":                  "published_utc",
			"apiKey":                p.apiKey,
		}).
		SetResult(&result).
		Get("/v2/reference/news")
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: err}
	}
	if resp.IsError() {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("HTTP %d", resp.StatusCode())}
	}

	items := make([]models.NewsItem, 0, len(result.Results))
	for _, a := range result.Results {
		if a.Title == "" || a.ArticleURL == "" {
			continue
		}
		date, err := time.Parse(time.RFC3339, a.PublishedUTC)
		if err != nil {
			continue
		}
		items = append(items, models.NewsItem{
			Date:        date.UTC(),
			Source:      a.Publisher.Name,
			Title:       a.Title,
			URL:         a.ArticleURL,
			Description: a.Description,
			PID:         a.ID,
			Provider:    p.Name(),
		})
	}
	return items, nil
}
