// Package rod provides a browser-based implementation of pagetab.Fetcher
// for pages that build their element tree with JavaScript.
package rod

import (
	"context"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/pagetab/pagetab"
)

// Ensure Fetcher implements pagetab.Fetcher at compile time.
var _ pagetab.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser *rod.Browser
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher() (*Fetcher, error) {
	// Launch browser using rod's launcher (finds or downloads Chrome)
	l := launcher.New().Headless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, pagetab.Errorf(pagetab.EUNAVAILABLE, "launching browser: %v", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill() // Clean up launched process on connection failure
		return nil, pagetab.Errorf(pagetab.EUNAVAILABLE, "connecting to browser: %v", err)
	}

	return &Fetcher{browser: browser}, nil
}

// Fetch navigates to the URL, waits for the page to load, and returns the
// rendered HTML along with the post-redirect URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*pagetab.FetchResult, error) {
	// Check context before starting
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, pagetab.Errorf(pagetab.EUNAVAILABLE, "opening page: %v", err)
	}
	defer page.Close()

	// Set context for all subsequent operations
	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return nil, pagetab.Errorf(pagetab.EUNAVAILABLE, "navigating to %s: %v", url, err)
	}

	if err := page.WaitLoad(); err != nil {
		return nil, pagetab.Errorf(pagetab.EUNAVAILABLE, "waiting for %s: %v", url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, pagetab.Errorf(pagetab.EUNAVAILABLE, "reading HTML of %s: %v", url, err)
	}

	// The page knows where navigation actually landed.
	finalURL := url
	if info, err := page.Info(); err == nil && info.URL != "" {
		finalURL = info.URL
	}

	return &pagetab.FetchResult{HTML: html, FinalURL: finalURL}, nil
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.browser.Close()
}
