// Package http provides an HTTP-based implementation of pagetab.Fetcher
// for fetching documents from static sites that don't require JavaScript
// rendering.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pagetab/pagetab"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// DefaultUserAgent is sent when no custom user agent is configured. Some
// sites refuse requests with an obviously non-browser agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Ensure Fetcher implements pagetab.Fetcher at compile time.
var _ pagetab.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML documents over plain HTTP. Redirects are followed;
// the final URL is reported so relative references in the document can be
// resolved against the location it was actually served from.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the document at the given URL. The returned result carries
// the post-redirect URL. Status codes map to error codes so callers can
// classify failures: 404 is ENOTFOUND, 5xx is EUNAVAILABLE (retryable),
// anything else non-200 is EINTERNAL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*pagetab.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pagetab.Errorf(pagetab.EINVALID, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, pagetab.Errorf(pagetab.EUNAVAILABLE, "fetch %s: %v", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// Proceed.
	case resp.StatusCode == http.StatusNotFound:
		return nil, pagetab.Errorf(pagetab.ENOTFOUND, "page not found: %s", url)
	case resp.StatusCode >= 500 && resp.StatusCode < 600:
		return nil, pagetab.Errorf(pagetab.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	default:
		return nil, pagetab.Errorf(pagetab.EINTERNAL, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pagetab.Errorf(pagetab.EUNAVAILABLE, "reading %s: %v", url, err)
	}

	return &pagetab.FetchResult{
		HTML:     string(body),
		FinalURL: resp.Request.URL.String(),
	}, nil
}

// Close releases resources. For the HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
