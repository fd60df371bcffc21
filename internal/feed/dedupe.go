package feed

import (
	"github.com/investbrief/investbrief/pkg/models"
	"github.com/investbrief/investbrief/pkg/utils"
)

// Dedupe collapses duplicate news items in three sequential passes, in
// order of key strength:
//
//  1. provider article ID, scoped per provider
//  2. normalized title paired with source
//  3. canonical URL
//
// The first occurrence always wins, so input order decides which copy
// survives. Empty keys never collapse items. The passes are independent;
// an item dropped by pass 1 is never reconsidered in later passes.
func Dedupe(items []models.NewsItem) []models.NewsItem {
	items = dedupeBy(items, func(it models.NewsItem) string {
		if it.PID == "" {
			return ""
		}
		return string(it.Provider) + "\x00" + it.PID
	})
	items = dedupeBy(items, func(it models.NewsItem) string {
		norm := utils.NormalizeTitle(it.Title)
		if norm == "" || it.Source == "" {
			return ""
		}
		return norm + "\x00" + it.Source
	})
	items = dedupeBy(items, func(it models.NewsItem) string {
		return utils.CanonicalURL(it.URL)
	})
	return items
}

// dedupeBy keeps the first item for each non-empty key.
func dedupeBy(items []models.NewsItem, key func(models.NewsItem) string) []models.NewsItem {
	seen := make(map[string]struct{}, len(items))
	out := items[:0:0]
	for _, it := range items {
		k := key(it)
		if k == "" {
			out = append(out, it)
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}
