// Package slog provides logging decorators for pagetab interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/pagetab/pagetab"
)

// Ensure LoggingFetcher implements pagetab.Fetcher.
var _ pagetab.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with structured logging.
type LoggingFetcher struct {
	next   pagetab.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next pagetab.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (*pagetab.FetchResult, error) {
	begin := time.Now()
	res, err := f.next.Fetch(ctx, url)
	if err != nil {
		f.logger.Error("fetch",
			slog.String("url", url),
			slog.String("err", err.Error()),
			slog.Duration("duration", time.Since(begin)),
		)
		return nil, err
	}

	f.logger.Info("fetch",
		slog.String("url", url),
		slog.String("final_url", res.FinalURL),
		slog.Int("bytes", len(res.HTML)),
		slog.Duration("duration", time.Since(begin)),
	)
	return res, nil
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
