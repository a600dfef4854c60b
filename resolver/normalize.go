package resolver

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Normalized is the canonical extraction from one proxy response.
type Normalized struct {
	DownloadURL string
	SizeBytes   *int64

	// Fields is the parsed payload the link was found in, kept for expiry
	// heuristics and downstream metadata extraction.
	Fields map[string]any
}

// Field names proxies are known to put the download link under, in priority
// order. First non-empty string wins.
var linkFields = []string{
	"download_link", "downloadUrl", "download_url",
	"file", "file_url", "link", "url",
}

var sizeFields = []string{"size", "filesize", "file_size"}

// Hostname fragments of the storage provider's CDN domains. A string value
// containing one of these is taken as a download link even under an unknown
// field name.
var hostFragments = []string{
	"terabox", "teraboxapp", "1024tera", "4funbox",
	"mirrobox", "nephobox", "freeterabox", "momerybox",
}

var (
	videoExtRe = regexp.MustCompile(`(?i)\.(mp4|mkv|avi|mov|wmv|flv|webm|m4v|ts)(\?|$)`)
	rawLinkRe  = regexp.MustCompile(`https?://[^\s"'<>\\]+`)
)

// Normalize extracts a candidate download link and file size from a proxy
// payload of unknown shape. Strategies run in order, first match wins; nil
// means this attempt produced nothing usable and the next proxy should be
// tried. Upstream shapes are undocumented and drift, so this is deliberately
// heuristic rather than schema-validated.
func Normalize(payload map[string]any) *Normalized {
	if len(payload) == 0 {
		return nil
	}

	link := knownFieldLink(payload)
	if link == "" {
		link = scanForLink(payload, true)
	}
	if link == "" {
		link = rawTextLink(payload)
	}
	if link == "" {
		return nil
	}

	return &Normalized{
		DownloadURL: link,
		SizeBytes:   extractSize(payload),
		Fields:      payload,
	}
}

func knownFieldLink(payload map[string]any) string {
	for _, field := range linkFields {
		if s, ok := payload[field].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// scanForLink walks the payload's string values (keys sorted for stable
// results) looking for something shaped like a storage download link,
// recursing one level into nested objects.
func scanForLink(payload map[string]any, recurse bool) string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if s, ok := payload[k].(string); ok && looksLikeDownloadLink(s) {
			return strings.TrimSpace(s)
		}
	}
	if !recurse {
		return ""
	}
	for _, k := range keys {
		if nested, ok := payload[k].(map[string]any); ok {
			if link := scanForLink(nested, false); link != "" {
				return link
			}
		}
	}
	return ""
}

func looksLikeDownloadLink(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return false
	}
	lower := strings.ToLower(s)
	for _, frag := range hostFragments {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return videoExtRe.MatchString(s)
}

// rawTextLink handles the adapter's non-JSON fallback payload: the first
// embedded absolute URL of at least 30 characters is taken as the link.
func rawTextLink(payload map[string]any) string {
	raw, ok := payload["rawText"].(string)
	if !ok {
		return ""
	}
	for _, match := range rawLinkRe.FindAllString(raw, -1) {
		if len(match) >= 30 {
			return match
		}
	}
	return ""
}

func extractSize(payload map[string]any) *int64 {
	for _, field := range sizeFields {
		if v, ok := payload[field]; ok {
			if n, ok := asInt64(v); ok {
				return &n
			}
		}
	}
	return nil
}

// asInt64 coerces the integer shapes JSON decoding can produce.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	}
	return 0, false
}
