package mock

import (
	"context"

	"github.com/pagetab/pagetab"
)

var _ pagetab.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of pagetab.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*pagetab.FetchResult, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*pagetab.FetchResult, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}
