package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/pagetab/pagetab"
)

// Ensure LoggingWriter implements pagetab.TableWriter.
var _ pagetab.TableWriter = (*LoggingWriter)(nil)

// LoggingWriter wraps a TableWriter with structured logging.
type LoggingWriter struct {
	next   pagetab.TableWriter
	logger *slog.Logger
}

// NewLoggingWriter creates a new LoggingWriter.
func NewLoggingWriter(next pagetab.TableWriter, logger *slog.Logger) *LoggingWriter {
	return &LoggingWriter{next: next, logger: logger}
}

// WriteTable delegates to the wrapped writer and logs the outcome.
func (w *LoggingWriter) WriteTable(ctx context.Context, snap *pagetab.Snapshot, records []pagetab.Record, sheets []pagetab.Sheet, dest string) error {
	begin := time.Now()
	err := w.next.WriteTable(ctx, snap, records, sheets, dest)
	if err != nil {
		w.logger.Error("write table",
			slog.String("dest", dest),
			slog.String("err", err.Error()),
			slog.Duration("duration", time.Since(begin)),
		)
		return err
	}

	w.logger.Info("write table",
		slog.String("dest", dest),
		slog.Int("records", len(records)),
		slog.Int("sheets", len(sheets)),
		slog.Duration("duration", time.Since(begin)),
	)
	return nil
}
