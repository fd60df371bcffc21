package feed

import (
	"testing"
	"time"

	"github.com/investbrief/investbrief/pkg/models"
)

func newsItem(provider models.Provider, pid, title, source, url string) models.NewsItem {
	return models.NewsItem{
		Date:     time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
		Provider: provider,
		PID:      pid,
		Title:    title,
		Source:   source,
		URL:      url,
	}
}

func TestDedupeByProviderID(t *testing.T) {
	items := []models.NewsItem{
		newsItem(models.ProviderPolygon, "abc", "Title One", "Reuters", "https://a.com/1"),
		newsItem(models.ProviderPolygon, "abc", "Title Two", "Bloomberg", "https://a.com/2"),
	}
	got := Dedupe(items)
	if len(got) != 1 {
		t.Fatalf("got %d items, want 1", len(got))
	}
	if got[0].Title != "Title One" {
		t.Errorf("first occurrence should win, got %q", got[0].Title)
	}
}

func TestDedupeSamePIDDifferentProviders(t *testing.T) {
	// PIDs are provider-scoped; matching IDs across providers never collapse.
	items := []models.NewsItem{
		newsItem(models.ProviderPolygon, "42", "Polygon Story", "Reuters", "https://a.com/1"),
		newsItem(models.ProviderFinnhub, "42", "Finnhub Story", "CNBC", "https://b.com/2"),
	}
	if got := Dedupe(items); len(got) != 2 {
		t.Fatalf("got %d items, want 2", len(got))
	}
}

func TestDedupeByTitleAndSource(t *testing.T) {
	items := []models.NewsItem{
		newsItem(models.ProviderPolygon, "a1", "Apple Beats  Earnings", "Reuters", "https://a.com/1"),
		newsItem(models.ProviderFinnhub, "b2", "apple beats earnings", "Reuters", "https://b.com/2"),
	}
	got := Dedupe(items)
	if len(got) != 1 {
		t.Fatalf("got %d items, want 1", len(got))
	}
	if got[0].Provider != models.ProviderPolygon {
		t.Errorf("first occurrence should win, got provider %s", got[0].Provider)
	}
}

func TestDedupeSameTitleDifferentSource(t *testing.T) {
	items := []models.NewsItem{
		newsItem(models.ProviderPolygon, "a1", "Apple Beats Earnings", "Reuters", "https://a.com/1"),
		newsItem(models.ProviderFinnhub, "b2", "Apple Beats Earnings", "CNBC", "https://b.com/2"),
	}
	if got := Dedupe(items); len(got) != 2 {
		t.Fatalf("same title from different sources must survive, got %d", len(got))
	}
}

func TestDedupeByCanonicalURL(t *testing.T) {
	items := []models.NewsItem{
		newsItem(models.ProviderPolygon, "a1", "Story A", "Reuters", "https://news.com/story?utm_source=x"),
		newsItem(models.ProviderFinnhub, "b2", "Story B", "CNBC", "https://news.com/story"),
	}
	got := Dedupe(items)
	if len(got) != 1 {
		t.Fatalf("got %d items, want 1", len(got))
	}
	if got[0].Title != "Story A" {
		t.Errorf("first occurrence should win, got %q", got[0].Title)
	}
}

func TestDedupeEmptyKeysNeverCollapse(t *testing.T) {
	items := []models.NewsItem{
		{Provider: models.ProviderNewsAPI, Title: "Only Title A", URL: ""},
		{Provider: models.ProviderNewsAPI, Title: "Only Title B", URL: ""},
	}
	if got := Dedupe(items); len(got) != 2 {
		t.Fatalf("items with empty keys must not collapse, got %d", len(got))
	}
}

func TestDedupeIdempotent(t *testing.T) {
	items := []models.NewsItem{
		newsItem(models.ProviderPolygon, "a1", "Story", "Reuters", "https://a.com/1"),
		newsItem(models.ProviderFinnhub, "b2", "Other", "CNBC", "https://b.com/2"),
	}
	once := Dedupe(items)
	twice := Dedupe(once)
	if len(once) != len(twice) {
		t.Fatalf("dedupe not idempotent: %d then %d", len(once), len(twice))
	}
}

func TestDedupePreservesOrder(t *testing.T) {
	items := []models.NewsItem{
		newsItem(models.ProviderPolygon, "1", "First", "A", "https://x.com/1"),
		newsItem(models.ProviderPolygon, "2", "Second", "B", "https://x.com/2"),
		newsItem(models.ProviderPolygon, "1", "Dup", "C", "https://x.com/3"),
		newsItem(models.ProviderPolygon, "3", "Third", "D", "https://x.com/4"),
	}
	got := Dedupe(items)
	want := []string{"First", "Second", "Third"}
	if len(got) != len(want) {
		t.Fatalf("got %d items, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Title != w {
			t.Errorf("item %d = %q, want %q", i, got[i].Title, w)
		}
	}
}
