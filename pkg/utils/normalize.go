package utils

import (
	"net/url"
	"strings"
)

// NormalizeTitle lowercases a headline and collapses runs of whitespace,
// producing the deterministic basis for the (title, source) dedup key.
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

// trackingParams are query parameters that identify a campaign or click,
// not a document. They are stripped before URLs are compared.
var trackingParams = map[string]bool{
	"gclid":  true,
	"fbclid": true,
	"ref":    true,
	"cmpid":  true,
	"mod":    true,
	"smid":   true,
}

// CanonicalURL normalizes a URL for syndication dedup: lowercase
// scheme/host, default ports and fragments dropped, tracking query
// parameters (utm_* and known click IDs) stripped, trailing slash
// trimmed. Unparseable input is returned unchanged so it still acts as
// an opaque dedup key.
func CanonicalURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.TrimSpace(raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	switch {
	case u.Scheme == "http" && strings.HasSuffix(u.Host, ":80"):
		u.Host = strings.TrimSuffix(u.Host, ":80")
	case u.Scheme == "https" && strings.HasSuffix(u.Host, ":443"):
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}

	q := u.Query()
	for key := range q {
		if trackingParams[strings.ToLower(key)] || strings.HasPrefix(strings.ToLower(key), "utm_") {
			q.Del(key)
		}
	}
	u.RawQuery = q.Encode()

	if u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	return u.String()
}

// Truncate cuts s to at most n bytes. Provider text fields are ASCII-ish
// enough that byte truncation matches the upstream behavior.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
