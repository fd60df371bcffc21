package fetcher

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Containers likely to hold the article body, tried in order.
var articleSelectors = []string{
	"article",
	"[role='main']",
	"main",
	".article-content",
	".article-body",
	"#article-body",
	".story-body",
	".post-content",
	".entry-content",
	"#main-content",
}

// Elements that are never article text.
const chromeSelectors = "script, style, nav, footer, aside, header, form, noscript"

// ExtractArticleText pulls readable article text out of an HTML page.
// It strips page chrome, tries known article containers, and falls back
// to collecting paragraphs when no container yields enough text.
func ExtractArticleText(r io.Reader, maxChars int) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}

	doc.Find(chromeSelectors).Remove()

	var text string
	for _, sel := range articleSelectors {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			text = collapseWhitespace(node.Text())
			if len(text) >= 200 {
				break
			}
		}
	}

	if len(text) < 200 {
		var parts []string
		doc.Find("p").Each(func(_ int, s *goquery.Selection) {
			if t := strings.TrimSpace(s.Text()); t != "" {
				parts = append(parts, t)
			}
		})
		text = collapseWhitespace(strings.Join(parts, " "))
	}

	if maxChars > 0 && len(text) > maxChars {
		text = text[:maxChars]
	}
	return text, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
