package mock

import (
	"context"

	"github.com/pagetab/pagetab"
)

var _ pagetab.TableWriter = (*TableWriter)(nil)

// TableWriter is a mock implementation of pagetab.TableWriter.
type TableWriter struct {
	WriteTableFn func(ctx context.Context, snap *pagetab.Snapshot, records []pagetab.Record, sheets []pagetab.Sheet, dest string) error
}

func (w *TableWriter) WriteTable(ctx context.Context, snap *pagetab.Snapshot, records []pagetab.Record, sheets []pagetab.Sheet, dest string) error {
	return w.WriteTableFn(ctx, snap, records, sheets, dest)
}
