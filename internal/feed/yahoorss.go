package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/investbrief/investbrief/pkg/models"
)

// YahooRSSProvider fetches headlines from the keyless Yahoo Finance RSS
// feed for a ticker. It serves as a fallback source when the keyed
// providers are unconfigured or down.
type YahooRSSProvider struct {
	feedURL string
	parser  *gofeed.Parser
}

// NewYahooRSSProvider creates a Yahoo RSS adapter.
func NewYahooRSSProvider() *YahooRSSProvider {
	return &YahooRSSProvider{
		feedURL: "https://feeds.finance.yahoo.com/rss/2.0/headline",
		parser:  gofeed.NewParser(),
	}
}

// SetFeedURL points the adapter at a different feed endpoint (used by tests).
func (p *YahooRSSProvider) SetFeedURL(url string) {
	p.feedURL = url
}

func (p *YahooRSSProvider) Name() models.Provider { return models.ProviderYahooRSS }

func (p *YahooRSSProvider) Fetch(ctx context.Context, entity models.ResolvedEntity, since time.Time) ([]models.NewsItem, error) {
	if entity.Ticker == "" {
		return nil, nil
	}

	url := fmt.Sprintf("%s?s=%s&region=US&lang=en-US", p.feedURL, entity.Ticker)
	feed, err := p.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: err}
	}

	items := make([]models.NewsItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it.Title == "" || it.Link == "" || it.PublishedParsed == nil {
			continue
		}
		pid := it.GUID
		if pid == "" {
			pid = it.Link
		}
		items = append(items, models.NewsItem{
			Date:        it.PublishedParsed.UTC(),
			Source:      "Yahoo Finance",
			Title:       it.Title,
			URL:         it.Link,
			Description: it.Description,
			PID:         pid,
			Provider:    p.Name(),
		})
	}
	return items, nil
}
