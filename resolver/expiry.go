package resolver

import (
	"net/url"
	"regexp"
	"strconv"
	"time"
)

// DefaultLinkTTL is the conservative validity window assumed when a proxy
// gives no expiry signal at all.
const DefaultLinkTTL = 8 * time.Hour

// Query parameter names the provider's CDN links encode their expiry under,
// in priority order.
var expiryParams = []string{"expires", "expires_at", "dstime", "exp"}

var (
	hoursRe      = regexp.MustCompile(`^(\d+)h$`)
	epochDigitRe = regexp.MustCompile(`^\d{9,}$`)
)

// ResolveExpiry derives an absolute expiry for a resolved link. Proxies encode
// expiry inconsistently (JSON field, relative duration, URL parameter, or not
// at all), so the heuristics run in a fixed priority order and the function
// never fails — the fallback is now + DefaultLinkTTL.
//
// Order: expires_at field > expires_in field > "<N>h" expires field >
// URL-embedded epoch > URL-embedded "<N>h" > default.
func ResolveExpiry(fields map[string]any, downloadURL string, now time.Time) time.Time {
	if v, ok := fields["expires_at"]; ok {
		if ts, ok := parseTimestamp(v); ok {
			return ts
		}
	}

	if v, ok := fields["expires_in"]; ok {
		if secs, ok := asInt64(v); ok && secs > 0 {
			return now.Add(time.Duration(secs) * time.Second)
		}
	}

	if s, ok := fields["expires"].(string); ok {
		if h, ok := parseHours(s); ok {
			return now.Add(h)
		}
		// other unit suffixes are not supported; fall through
	}

	if ts, ok := expiryFromURL(downloadURL, now); ok {
		return ts
	}

	return now.Add(DefaultLinkTTL)
}

// expiryFromURL inspects the resolved link's query string for an expiry hint.
func expiryFromURL(downloadURL string, now time.Time) (time.Time, bool) {
	u, err := url.Parse(downloadURL)
	if err != nil {
		return time.Time{}, false
	}
	q := u.Query()
	for _, key := range expiryParams {
		v := q.Get(key)
		if v == "" {
			continue
		}
		if epochDigitRe.MatchString(v) {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				continue
			}
			return epochToTime(n), true
		}
		if h, ok := parseHours(v); ok {
			return now.Add(h), true
		}
	}
	return time.Time{}, false
}

// parseTimestamp accepts RFC3339 strings, pure-digit epoch strings, and JSON
// numbers as absolute timestamps.
func parseTimestamp(v any) (time.Time, bool) {
	switch t := v.(type) {
	case string:
		if ts, err := time.Parse(time.RFC3339, t); err == nil {
			return ts, true
		}
		if epochDigitRe.MatchString(t) {
			if n, err := strconv.ParseInt(t, 10, 64); err == nil {
				return epochToTime(n), true
			}
		}
	case float64:
		if t >= 1e9 {
			return epochToTime(int64(t)), true
		}
	}
	return time.Time{}, false
}

func parseHours(s string) (time.Duration, bool) {
	m := hoursRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	h, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return time.Duration(h) * time.Hour, true
}

// epochToTime interprets values below 10^12 as Unix seconds and anything
// larger as milliseconds.
func epochToTime(n int64) time.Time {
	if n < 1_000_000_000_000 {
		return time.Unix(n, 0).UTC()
	}
	return time.UnixMilli(n).UTC()
}
