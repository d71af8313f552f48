package fetch_test

import (
	"context"
	"testing"
	"time"

	"github.com/pagetab/pagetab"
	"github.com/pagetab/pagetab/fetch"
	"github.com/pagetab/pagetab/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noDelays() []time.Duration {
	return []time.Duration{0, 0, 0}
}

func TestWithRetryDelays(t *testing.T) {
	t.Parallel()

	t.Run("returns immediately on success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*pagetab.FetchResult, error) {
				calls++
				return &pagetab.FetchResult{HTML: "<html></html>", FinalURL: url}, nil
			},
		}

		res, err := fetch.WithRetryDelays(context.Background(), fetcher, "https://a.test", nil, noDelays())

		require.NoError(t, err)
		assert.Equal(t, "<html></html>", res.HTML)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient failures until success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*pagetab.FetchResult, error) {
				calls++
				if calls < 3 {
					return nil, pagetab.Errorf(pagetab.EUNAVAILABLE, "HTTP 503 for %s", url)
				}
				return &pagetab.FetchResult{HTML: "ok", FinalURL: url}, nil
			},
		}

		res, err := fetch.WithRetryDelays(context.Background(), fetcher, "https://a.test", nil, noDelays())

		require.NoError(t, err)
		assert.Equal(t, "ok", res.HTML)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after exhausting delays", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*pagetab.FetchResult, error) {
				calls++
				return nil, pagetab.Errorf(pagetab.EUNAVAILABLE, "HTTP 500 for %s", url)
			},
		}

		_, err := fetch.WithRetryDelays(context.Background(), fetcher, "https://a.test", nil, noDelays())

		require.Error(t, err)
		assert.Equal(t, pagetab.EUNAVAILABLE, pagetab.ErrorCode(err))
		assert.Equal(t, 4, calls) // 1 initial + 3 retries
	})

	t.Run("does not retry not-found", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*pagetab.FetchResult, error) {
				calls++
				return nil, pagetab.Errorf(pagetab.ENOTFOUND, "page not found: %s", url)
			},
		}

		_, err := fetch.WithRetryDelays(context.Background(), fetcher, "https://a.test", nil, noDelays())

		require.Error(t, err)
		assert.Equal(t, pagetab.ENOTFOUND, pagetab.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*pagetab.FetchResult, error) {
				cancel()
				return nil, pagetab.Errorf(pagetab.EUNAVAILABLE, "transient")
			},
		}

		_, err := fetch.WithRetryDelays(ctx, fetcher, "https://a.test", nil, []time.Duration{time.Hour})

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("logs each retry attempt", func(t *testing.T) {
		t.Parallel()

		var logged []string
		logger := func(format string, args ...any) {
			logged = append(logged, format)
		}
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*pagetab.FetchResult, error) {
				return nil, pagetab.Errorf(pagetab.EUNAVAILABLE, "transient")
			},
		}

		_, err := fetch.WithRetryDelays(context.Background(), fetcher, "https://a.test", logger, noDelays())

		require.Error(t, err)
		assert.Len(t, logged, 3)
	})
}

func TestDelays(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		[]time.Duration{time.Second, 2 * time.Second, 3 * time.Second},
		fetch.Delays(time.Second, 3),
	)
	assert.Empty(t, fetch.Delays(time.Second, 0))
}

func TestContentHash(t *testing.T) {
	t.Parallel()

	a := fetch.ContentHash("<html>a</html>")
	b := fetch.ContentHash("<html>b</html>")

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, fetch.ContentHash("<html>a</html>"))
}
