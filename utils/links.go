package utils

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// CleanSourceURL validates and canonicalizes a user-supplied share URL.
// Anything that is not an absolute http(s) URL is rejected before a single
// proxy gets called.
func CleanSourceURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty source url")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("unparsable source url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("not an absolute http(s) url: %q", raw)
	}
	return u.String(), nil
}
