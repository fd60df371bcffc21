package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// yahooSearchURL is the public quote autocomplete endpoint. No key needed.
const yahooSearchURL = "https://query2.finance.yahoo.com"

// YahooLookup resolves company names to tickers via Yahoo Finance's
// autocomplete search. Best-effort: errors are returned so the caller can
// decide to proceed without a ticker.
type YahooLookup struct {
	client *resty.Client
}

// NewYahooLookup creates a lookup client.
func NewYahooLookup() *YahooLookup {
	return &YahooLookup{
		client: resty.New().
			SetBaseURL(yahooSearchURL).
			SetTimeout(8 * time.Second).
			SetRetryCount(1).
			SetHeader("User-Agent", "Mozilla/5.0 (compatible; investbrief/1.0)"),
	}
}

// SetBaseURL points the client at a different host (used by tests).
func (y *YahooLookup) SetBaseURL(url string) {
	y.client.SetBaseURL(url)
}

type yahooSearchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		QuoteType string `json:"quoteType"`
	} `json:"quotes"`
}

// Search returns the best (symbol, name) match for query, preferring
// equity quotes. Empty results return an error.
func (y *YahooLookup) Search(ctx context.Context, query string) (symbol, name string, err error) {
	var result yahooSearchResponse
	resp, err := y.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":           query,
			"quotesCount": "5",
			"newsCount":   "0",
		}).
		SetResult(&result).
		Get("/v1/finance/search")
	if err != nil {
		return "", "", fmt.Errorf("yahoo search: %w", err)
	}
	if resp.IsError() {
		return "", "", fmt.Errorf("yahoo search: HTTP %d", resp.StatusCode())
	}

	for _, q := range result.Quotes {
		if q.QuoteType != "EQUITY" || q.Symbol == "" {
			continue
		}
		n := q.LongName
		if n == "" {
			n = q.ShortName
		}
		return q.Symbol, n, nil
	}
	return "", "", fmt.Errorf("yahoo search: no equity match for %q", query)
}
