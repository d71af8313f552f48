package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/pagetab/pagetab"
	"github.com/pagetab/pagetab/mock"
	pageslog "github.com/pagetab/pagetab/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*pagetab.FetchResult, error) {
				return &pagetab.FetchResult{HTML: "<html>content</html>", FinalURL: url}, nil
			},
		}

		fetcher := pageslog.NewLoggingFetcher(inner, logger)
		res, err := fetcher.Fetch(context.Background(), "https://example.com/page")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", res.HTML)
		output := buf.String()
		assert.Contains(t, output, "fetch")
		assert.Contains(t, output, "url=https://example.com/page")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*pagetab.FetchResult, error) {
				return nil, pagetab.Errorf(pagetab.EUNAVAILABLE, "network error")
			},
		}

		fetcher := pageslog.NewLoggingFetcher(inner, logger)
		_, err := fetcher.Fetch(context.Background(), "https://example.com/page")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "fetch")
		assert.Contains(t, output, "network error")
	})
}

func TestLoggingFetcher_Close(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	closeCalled := false
	inner := &mock.Fetcher{
		CloseFn: func() error {
			closeCalled = true
			return nil
		},
	}

	fetcher := pageslog.NewLoggingFetcher(inner, logger)
	err := fetcher.Close()

	require.NoError(t, err)
	assert.True(t, closeCalled)
}

func TestLoggingWriter_WriteTable(t *testing.T) {
	t.Parallel()

	t.Run("logs records and sheets", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.TableWriter{
			WriteTableFn: func(ctx context.Context, snap *pagetab.Snapshot, records []pagetab.Record, sheets []pagetab.Sheet, dest string) error {
				return nil
			},
		}

		w := pageslog.NewLoggingWriter(inner, logger)
		err := w.WriteTable(context.Background(), &pagetab.Snapshot{}, make([]pagetab.Record, 4), []pagetab.Sheet{{Name: "All Data"}}, "out.xlsx")

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "write table")
		assert.Contains(t, output, "dest=out.xlsx")
		assert.Contains(t, output, "records=4")
		assert.Contains(t, output, "sheets=1")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.TableWriter{
			WriteTableFn: func(ctx context.Context, snap *pagetab.Snapshot, records []pagetab.Record, sheets []pagetab.Sheet, dest string) error {
				return pagetab.Errorf(pagetab.EINTERNAL, "disk full")
			},
		}

		w := pageslog.NewLoggingWriter(inner, logger)
		err := w.WriteTable(context.Background(), &pagetab.Snapshot{}, nil, nil, "out.xlsx")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "disk full")
	})
}
