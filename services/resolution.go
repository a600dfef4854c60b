package services

import (
	"context"
	"errors"
	"time"

	"teralib-backend/linkcache"
	"teralib-backend/models"
	"teralib-backend/resolver"
	"teralib-backend/utils"

	"golang.org/x/sync/singleflight"
)

// ErrNoLink is the single caller-visible failure for an exhausted resolution.
// Per-proxy diagnostics stay in the logs.
var ErrNoLink = errors.New("could not obtain a download link")

// ErrInvalidSourceURL rejects malformed input before any proxy is attempted.
var ErrInvalidSourceURL = errors.New("invalid source url")

// LinkResult is the wire shape returned to the HTTP layer.
type LinkResult struct {
	Source      string     `json:"source"` // "cache" or "fresh"
	DownloadURL string     `json:"download_url"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	SizeBytes   *int64     `json:"size_bytes,omitempty"`
	Proxy       string     `json:"proxy,omitempty"`
}

// Resolver runs one ordered-fallback pass over the given proxies.
type Resolver interface {
	Resolve(ctx context.Context, sourceURL string, proxies []models.ProxyDescriptor) (*resolver.ResolvedLink, error)
}

// ProxySource supplies the enabled descriptors in priority order. The list is
// snapshotted per resolution pass.
type ProxySource interface {
	ActiveProxies() ([]models.ProxyDescriptor, error)
}

// Resolution is the entry point the HTTP layer uses for "get download link"
// and "force refresh". Fresh cache rows short-circuit without any upstream
// call; misses resolve through the orchestrator and are written back.
type Resolution struct {
	cache    *linkcache.Store
	resolver Resolver
	proxies  ProxySource
	flight   singleflight.Group
	now      func() time.Time
}

func NewResolution(cache *linkcache.Store, r Resolver, proxies ProxySource) *Resolution {
	return &Resolution{cache: cache, resolver: r, proxies: proxies, now: time.Now}
}

// GetDownloadLink serves from the cache when the stored link is still fresh
// and resolves upstream otherwise.
func (s *Resolution) GetDownloadLink(ctx context.Context, sourceURL string) (*LinkResult, error) {
	sourceURL, err := utils.CleanSourceURL(sourceURL)
	if err != nil {
		return nil, ErrInvalidSourceURL
	}

	rec, err := s.cache.Get(sourceURL)
	if err != nil {
		return nil, err
	}
	if linkcache.IsFresh(rec, s.now()) {
		return &LinkResult{
			Source:      "cache",
			DownloadURL: rec.DownloadURL,
			ExpiresAt:   rec.ExpiresAt,
			SizeBytes:   rec.SizeBytes,
		}, nil
	}
	return s.refresh(ctx, sourceURL)
}

// ForceRefresh bypasses the freshness check unconditionally, for callers that
// explicitly distrust the cached value.
func (s *Resolution) ForceRefresh(ctx context.Context, sourceURL string) (*LinkResult, error) {
	sourceURL, err := utils.CleanSourceURL(sourceURL)
	if err != nil {
		return nil, ErrInvalidSourceURL
	}
	return s.refresh(ctx, sourceURL)
}

// refresh runs the orchestrator and persists the outcome. Concurrent requests
// for the same URL share one in-flight pass via singleflight.
func (s *Resolution) refresh(ctx context.Context, sourceURL string) (*LinkResult, error) {
	v, err, _ := s.flight.Do(sourceURL, func() (any, error) {
		proxies, err := s.proxies.ActiveProxies()
		if err != nil {
			return nil, err
		}

		link, err := s.resolver.Resolve(ctx, sourceURL, proxies)
		if errors.Is(err, resolver.ErrExhausted) {
			// A failed cache write is infrastructure trouble and must not be
			// masked by the softer "no link" outcome.
			if werr := s.cache.RecordFailure(sourceURL, err.Error()); werr != nil {
				return nil, werr
			}
			return nil, ErrNoLink
		}
		if err != nil {
			return nil, err
		}

		if err := s.cache.Upsert(sourceURL, link); err != nil {
			return nil, err
		}
		expires := link.ExpiresAt
		return &LinkResult{
			Source:      "fresh",
			DownloadURL: link.DownloadURL,
			ExpiresAt:   &expires,
			SizeBytes:   link.SizeBytes,
			Proxy:       link.ProxyName,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*LinkResult), nil
}
