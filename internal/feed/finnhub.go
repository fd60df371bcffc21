package feed

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/investbrief/investbrief/pkg/models"
	"github.com/investbrief/investbrief/pkg/utils"
)

// FinnhubProvider fetches company news from the Finnhub API. It requires
// a resolved ticker; without one it returns no items.
type FinnhubProvider struct {
	apiKey string
	client *resty.Client
}

// NewFinnhubProvider creates a Finnhub news adapter.
func NewFinnhubProvider(apiKey string) *FinnhubProvider {
	return &FinnhubProvider{
		apiKey: apiKey,
		client: resty.New().
			SetBaseURL("https://finnhub.io").
			SetTimeout(15 * time.Second).
			SetRetryCount(1),
	}
}

// SetBaseURL points the client at a different host (used by tests).
func (p *FinnhubProvider) SetBaseURL(url string) {
	p.client.SetBaseURL(url)
}

func (p *FinnhubProvider) Name() models.Provider { return models.ProviderFinnhub }

type finnhubArticle struct {
	ID       int64  `json:"id"`
	Datetime int64  `json:"datetime"` // unix seconds
	Headline string `json:"headline"`
	URL      string `json:"url"`
	Summary  string `json:"summary"`
	Source   string `json:"source"`
}

func (p *FinnhubProvider) Fetch(ctx context.Context, entity models.ResolvedEntity, since time.Time) ([]models.NewsItem, error) {
	if p.apiKey == "" {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("API key not configured")}
	}
	if entity.Ticker == "" {
		return nil, nil
	}

	var articles []finnhubArticle
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol": entity.Ticker,
			"from":   utils.YMD(since),
			"to":     utils.YMD(utils.UTCNow()),
			"token":  p.apiKey,
		}).
		SetResult(&articles).
		Get("/api/v1/company-news")
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: err}
	}
	if resp.IsError() {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("HTTP %d", resp.StatusCode())}
	}

	items := make([]models.NewsItem, 0, len(articles))
	for _, a := range articles {
		if a.Headline == "" || a.URL == "" {
			continue
		}
		items = append(items, models.NewsItem{
			Date:        time.Unix(a.Datetime, 0).UTC(),
			Source:      a.Source,
			Title:       a.Headline,
			URL:         a.URL,
			Description: a.Summary,
			PID:         strconv.FormatInt(a.ID, 10),
			Provider:    p.Name(),
		})
	}
	return items, nil
}
