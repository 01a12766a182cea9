package gallery

import (
	"net/url"
	"strconv"
	"time"
)

// ValidateURL reports whether raw is an absolute http or https URL with a host.
func ValidateURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// Partition splits urls into the priority subset and the remainder.
// Counts at or below zero give an empty priority subset; counts at or above
// len(urls) give an empty remainder.
func Partition(urls []string, priorityCount int) (priority, remainder []string) {
	n := min(max(priorityCount, 0), len(urls))
	return urls[:n:n], urls[n:]
}

// CacheBustParam is the query parameter appended by CacheBust.
const CacheBustParam = "cb"

// CacheBust appends a timestamp and index query parameter to raw so browser
// and CDN caches are bypassed. Unparseable URLs are returned unchanged.
func CacheBust(raw string, index int, now time.Time) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	q.Set(CacheBustParam, strconv.FormatInt(now.UnixMilli(), 10)+"-"+strconv.Itoa(index))
	u.RawQuery = q.Encode()
	return u.String()
}
