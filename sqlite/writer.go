package sqlite

import (
	"context"
	"time"

	"github.com/pagetab/pagetab"
)

// Ensure Writer implements pagetab.TableWriter at compile time.
var _ pagetab.TableWriter = (*Writer)(nil)

// Writer persists record subsets into a SQLite database file. Each sheet
// becomes a set of rows in the records table tagged with the sheet name, so
// subsets stay queryable side by side.
type Writer struct{}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteTable writes the snapshot and every sheet's subset to the database at
// dest, creating the file and schema as needed. The write is transactional:
// either the whole snapshot lands or none of it does.
func (w *Writer) WriteTable(ctx context.Context, snap *pagetab.Snapshot, records []pagetab.Record, sheets []pagetab.Sheet, dest string) error {
	if snap == nil {
		return pagetab.Errorf(pagetab.EINVALID, "snapshot required")
	}
	if err := snap.Validate(); err != nil {
		return err
	}
	if len(sheets) == 0 {
		return pagetab.Errorf(pagetab.EINVALID, "at least one sheet required")
	}
	for i := range sheets {
		if err := sheets[i].Validate(); err != nil {
			return err
		}
	}

	db := NewDB(dest)
	if err := db.Open(); err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx)
	if err != nil {
		return pagetab.Errorf(pagetab.EINTERNAL, "begin transaction: %v", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, url, final_url, fetched_at, content_hash, element_count)
		VALUES (?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.URL, snap.FinalURL, snap.FetchedAt.Format(time.RFC3339), snap.ContentHash, snap.ElementCount,
	)
	if err != nil {
		return pagetab.Errorf(pagetab.EINTERNAL, "insert snapshot: %v", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (
			snapshot_id, sheet, position, tag, attributes, special_attrs,
			text, html, parent_tag, level, xpath, css_path, child_count,
			has_class, has_id, class, id_attr
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return pagetab.Errorf(pagetab.EINTERNAL, "prepare insert: %v", err)
	}
	defer stmt.Close()

	for _, sheet := range sheets {
		subset := records
		if sheet.Filter != nil {
			subset = pagetab.Filter(records, *sheet.Filter)
		}
		for pos, r := range subset {
			_, err := stmt.ExecContext(ctx,
				snap.ID, sheet.Name, pos, r.Tag, r.Attributes, r.SpecialAttrsString(),
				r.Text, r.HTML, r.ParentTag, r.Level, r.XPath, r.CSSPath, r.ChildCount,
				r.HasClass, r.HasID, r.Class, r.ID,
			)
			if err != nil {
				return pagetab.Errorf(pagetab.EINTERNAL, "insert record %d of sheet %q: %v", pos, sheet.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return pagetab.Errorf(pagetab.EINTERNAL, "commit: %v", err)
	}
	return nil
}
