package fetch

import (
	"context"
	"time"

	"github.com/pagetab/pagetab"
	"github.com/pagetab/pagetab/bloom"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of fetching one URL in a batch.
type Result struct {
	URL string
	Res *pagetab.FetchResult
	Err error
}

// Batch fetches several documents concurrently. Each document is
// independent; one failure never aborts the others. Duplicate input URLs
// are fetched once.
type Batch struct {
	fetcher     pagetab.Fetcher
	limiter     *DomainLimiter
	delays      []time.Duration
	concurrency int
	logger      LogFunc
}

// BatchOption configures a Batch.
type BatchOption func(*Batch)

// WithConcurrency bounds the number of in-flight fetches. Defaults to 3.
func WithConcurrency(n int) BatchOption {
	return func(b *Batch) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithDelays sets the retry backoff delays used for each URL.
func WithDelays(delays []time.Duration) BatchOption {
	return func(b *Batch) {
		b.delays = delays
	}
}

// WithLimiter applies per-domain rate limiting across the batch.
func WithLimiter(l *DomainLimiter) BatchOption {
	return func(b *Batch) {
		b.limiter = l
	}
}

// WithLogger sets the retry logger.
func WithLogger(logger LogFunc) BatchOption {
	return func(b *Batch) {
		b.logger = logger
	}
}

// NewBatch creates a Batch over the given fetcher.
func NewBatch(fetcher pagetab.Fetcher, opts ...BatchOption) *Batch {
	b := &Batch{
		fetcher:     fetcher,
		delays:      DefaultRetryDelays(),
		concurrency: 3,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FetchAll fetches every unique URL and returns one result per unique URL,
// in input order. The only error returned is context cancellation; per-URL
// failures are reported in their Result.
func (b *Batch) FetchAll(ctx context.Context, urls []string) ([]Result, error) {
	seen := bloom.NewSeenFilter(uint(len(urls)) + 1)
	unique := make([]string, 0, len(urls))
	for _, u := range urls {
		if seen.Add(u) {
			unique = append(unique, u)
		}
	}

	results := make([]Result, len(unique))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, u := range unique {
		g.Go(func() error {
			results[i] = Result{URL: u}

			if b.limiter != nil {
				if err := b.limiter.Wait(ctx, u); err != nil {
					results[i].Err = err
					return nil
				}
			}

			res, err := WithRetryDelays(ctx, b.fetcher, u, b.logger, b.delays)
			results[i].Res = res
			results[i].Err = err
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
