package fetch_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pagetab/pagetab"
	"github.com/pagetab/pagetab/fetch"
	"github.com/pagetab/pagetab/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch_FetchAll(t *testing.T) {
	t.Parallel()

	t.Run("fetches every URL and preserves input order", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		fetched := map[string]int{}
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*pagetab.FetchResult, error) {
				mu.Lock()
				fetched[url]++
				mu.Unlock()
				return &pagetab.FetchResult{HTML: "<html></html>", FinalURL: url}, nil
			},
		}

		urls := []string{"https://a.test/1", "https://a.test/2", "https://a.test/3"}
		results, err := fetch.NewBatch(fetcher, fetch.WithDelays(noDelays())).FetchAll(context.Background(), urls)

		require.NoError(t, err)
		require.Len(t, results, 3)
		for i, r := range results {
			assert.Equal(t, urls[i], r.URL)
			require.NoError(t, r.Err)
			assert.Equal(t, urls[i], r.Res.FinalURL)
		}
		for _, count := range fetched {
			assert.Equal(t, 1, count)
		}
	})

	t.Run("deduplicates input URLs", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		calls := 0
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*pagetab.FetchResult, error) {
				mu.Lock()
				calls++
				mu.Unlock()
				return &pagetab.FetchResult{HTML: "x", FinalURL: url}, nil
			},
		}

		urls := []string{"https://a.test/1", "https://a.test/1", "https://a.test/2"}
		results, err := fetch.NewBatch(fetcher, fetch.WithDelays(noDelays())).FetchAll(context.Background(), urls)

		require.NoError(t, err)
		assert.Len(t, results, 2)
		assert.Equal(t, 2, calls)
	})

	t.Run("one failure does not abort the others", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*pagetab.FetchResult, error) {
				if url == "https://a.test/bad" {
					return nil, pagetab.Errorf(pagetab.ENOTFOUND, "page not found: %s", url)
				}
				return &pagetab.FetchResult{HTML: "ok", FinalURL: url}, nil
			},
		}

		urls := []string{"https://a.test/good", "https://a.test/bad", "https://a.test/also-good"}
		results, err := fetch.NewBatch(fetcher, fetch.WithDelays(noDelays())).FetchAll(context.Background(), urls)

		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.NoError(t, results[0].Err)
		assert.Equal(t, pagetab.ENOTFOUND, pagetab.ErrorCode(results[1].Err))
		assert.NoError(t, results[2].Err)
	})

	t.Run("respects the concurrency limit", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		inflight, peak := 0, 0
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*pagetab.FetchResult, error) {
				mu.Lock()
				inflight++
				if inflight > peak {
					peak = inflight
				}
				mu.Unlock()

				time.Sleep(10 * time.Millisecond)

				mu.Lock()
				inflight--
				mu.Unlock()
				return &pagetab.FetchResult{HTML: "x", FinalURL: url}, nil
			},
		}

		urls := make([]string, 10)
		for i := range urls {
			urls[i] = "https://a.test/" + string(rune('a'+i))
		}

		_, err := fetch.NewBatch(fetcher,
			fetch.WithConcurrency(2),
			fetch.WithDelays(noDelays()),
		).FetchAll(context.Background(), urls)

		require.NoError(t, err)
		assert.LessOrEqual(t, peak, 2)
	})

	t.Run("rate limiter is consulted per URL", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*pagetab.FetchResult, error) {
				return &pagetab.FetchResult{HTML: "x", FinalURL: url}, nil
			},
		}

		start := time.Now()
		_, err := fetch.NewBatch(fetcher,
			fetch.WithLimiter(fetch.NewDomainLimiter(50)),
			fetch.WithDelays(noDelays()),
		).FetchAll(context.Background(), []string{"https://a.test/1", "https://a.test/2", "https://a.test/3"})

		require.NoError(t, err)
		// Burst of 1 at 50 rps: the second and third fetch each wait ~20ms.
		assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	})
}

func TestDomainLimiter_Wait(t *testing.T) {
	t.Parallel()

	t.Run("separate domains do not contend", func(t *testing.T) {
		t.Parallel()

		l := fetch.NewDomainLimiter(1)
		ctx := context.Background()

		start := time.Now()
		require.NoError(t, l.Wait(ctx, "https://a.test/x"))
		require.NoError(t, l.Wait(ctx, "https://b.test/y"))
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})

	t.Run("canceled context aborts the wait", func(t *testing.T) {
		t.Parallel()

		l := fetch.NewDomainLimiter(0.001)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		require.NoError(t, l.Wait(ctx, "https://a.test/1"))
		assert.Error(t, l.Wait(ctx, "https://a.test/2"))
	})
}
