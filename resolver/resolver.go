package resolver

import (
	"context"
	"errors"
	"log"
	"time"

	"teralib-backend/models"
)

// ErrExhausted reports that every configured proxy failed to produce a usable
// link. Individual proxy failures are logged, not aggregated into the result.
var ErrExhausted = errors.New("no proxy produced a usable link")

// ResolvedLink is the outcome of one successful proxy attempt.
type ResolvedLink struct {
	DownloadURL string
	ExpiresAt   time.Time
	SizeBytes   *int64
	ProxyName   string
	RawFields   map[string]any
}

// Orchestrator turns a source URL into a ResolvedLink by trying proxies in
// their configured order. Strict sequential fallback, first success wins: no
// proxy is consulted after a success, so attribution stays unambiguous and
// lower-priority proxies see no unnecessary load.
type Orchestrator struct {
	adapter Attempter
	now     func() time.Time
}

func NewOrchestrator(adapter Attempter) *Orchestrator {
	return &Orchestrator{adapter: adapter, now: time.Now}
}

func (o *Orchestrator) Resolve(ctx context.Context, sourceURL string, proxies []models.ProxyDescriptor) (*ResolvedLink, error) {
	for _, p := range proxies {
		payload, aerr := o.adapter.Attempt(ctx, p, sourceURL)
		if aerr != nil {
			log.Printf("resolver: %v", aerr)
			continue
		}

		// A 2xx response with no extractable link is just as unusable.
		n := Normalize(payload)
		if n == nil {
			log.Printf("resolver: proxy %s: no usable link in response", p.Name)
			continue
		}

		return &ResolvedLink{
			DownloadURL: n.DownloadURL,
			ExpiresAt:   ResolveExpiry(n.Fields, n.DownloadURL, o.now()),
			SizeBytes:   n.SizeBytes,
			ProxyName:   p.Name,
			RawFields:   n.Fields,
		}, nil
	}
	return nil, ErrExhausted
}
