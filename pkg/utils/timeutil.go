// Package utils provides small shared helpers: UTC date handling and
// title/URL normalization used by the dedup keys.
package utils

import "time"

// UTCNow returns the current time in UTC.
func UTCNow() time.Time {
	return time.Now().UTC()
}

// YMD formats a time as YYYY-MM-DD, the date format the news provider
// APIs accept for range parameters.
func YMD(t time.Time) string {
	return t.Format("2006-01-02")
}