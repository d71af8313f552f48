package pagetab

import "context"

// FetchResult is the outcome of retrieving a document.
type FetchResult struct {
	// HTML is the raw markup of the document.
	HTML string

	// FinalURL is the URL the document was ultimately served from, after
	// following redirects. It is the base location for resolving relative
	// references found in the document.
	FinalURL string
}

// Fetcher retrieves HTML documents from URLs.
// Implementations may use plain HTTP or browser automation to handle
// JavaScript-rendered content.
type Fetcher interface {
	// Fetch retrieves the document at the URL and reports the final
	// resolved URL. The context controls timeout and cancellation.
	// Returns ENOTFOUND if the document does not exist and EUNAVAILABLE
	// on transient upstream failures.
	Fetch(ctx context.Context, url string) (*FetchResult, error)

	// Close releases any resources held by the fetcher.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
