package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"teralib-backend/models"
)

// AttemptError is a soft, per-proxy failure. The orchestrator logs it and
// advances to the next descriptor; it never reaches the service boundary.
type AttemptError struct {
	Proxy      string
	StatusCode int // 0 unless the proxy answered with a non-2xx status
	Reason     string
	Err        error
}

func (e *AttemptError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("proxy %s: unexpected status %d", e.Proxy, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("proxy %s: %s: %v", e.Proxy, e.Reason, e.Err)
	default:
		return fmt.Sprintf("proxy %s: %s", e.Proxy, e.Reason)
	}
}

func (e *AttemptError) Unwrap() error { return e.Err }

// Attempter performs a single resolution attempt against one proxy.
type Attempter interface {
	Attempt(ctx context.Context, d models.ProxyDescriptor, sourceURL string) (map[string]any, *AttemptError)
}

// HTTPAdapter calls external proxy APIs per their descriptor's calling
// convention. All transport and protocol errors are returned as soft
// AttemptErrors.
type HTTPAdapter struct {
	client *http.Client
}

// DefaultProxyTimeout bounds one proxy call so a hung upstream cannot stall
// the whole fallback chain.
const DefaultProxyTimeout = 5 * time.Second

func NewHTTPAdapter(timeout time.Duration) *HTTPAdapter {
	if timeout <= 0 {
		timeout = DefaultProxyTimeout
	}
	return &HTTPAdapter{client: &http.Client{Timeout: timeout}}
}

func (a *HTTPAdapter) Attempt(ctx context.Context, d models.ProxyDescriptor, sourceURL string) (map[string]any, *AttemptError) {
	req, aerr := buildRequest(ctx, d, sourceURL)
	if aerr != nil {
		return nil, aerr
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &AttemptError{Proxy: d.Name, Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &AttemptError{Proxy: d.Name, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &AttemptError{Proxy: d.Name, Reason: "reading body failed", Err: err}
	}

	// Some proxies answer with plain text or broken JSON that still embeds a
	// usable link; keep the body for the normalizer's regex fallback.
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		payload = map[string]any{"rawText": string(body)}
	}
	return payload, nil
}

func buildRequest(ctx context.Context, d models.ProxyDescriptor, sourceURL string) (*http.Request, *AttemptError) {
	switch {
	case d.CallMethod == models.CallGet:
		u, err := url.Parse(d.Endpoint)
		if err != nil {
			return nil, &AttemptError{Proxy: d.Name, Reason: "bad endpoint", Err: err}
		}
		q := u.Query()
		q.Set(d.FieldName, sourceURL)
		u.RawQuery = q.Encode()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, &AttemptError{Proxy: d.Name, Reason: "building request failed", Err: err}
		}
		return req, nil

	case d.CallMethod == models.CallPost && d.Encoding == models.EncodingJSON:
		body, err := json.Marshal(map[string]string{d.FieldName: sourceURL})
		if err != nil {
			return nil, &AttemptError{Proxy: d.Name, Reason: "encoding body failed", Err: err}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.Endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, &AttemptError{Proxy: d.Name, Reason: "building request failed", Err: err}
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil

	case d.CallMethod == models.CallPost:
		// query/form encodings both post a urlencoded body
		form := url.Values{}
		form.Set(d.FieldName, sourceURL)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.Endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, &AttemptError{Proxy: d.Name, Reason: "building request failed", Err: err}
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil

	default:
		return nil, &AttemptError{Proxy: d.Name, Reason: fmt.Sprintf("unsupported call method %q", d.CallMethod)}
	}
}
