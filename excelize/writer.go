// Package excelize provides a spreadsheet implementation of
// pagetab.TableWriter backed by xuri/excelize.
package excelize

import (
	"context"
	"strconv"

	"github.com/pagetab/pagetab"
	"github.com/xuri/excelize/v2"
)

// summarySheet holds the snapshot metadata alongside the record sheets.
const summarySheet = "Summary"

// recordHeader is the column layout shared by every record sheet.
var recordHeader = []any{
	"Tag", "Attributes", "Special Attributes", "Text Content", "HTML Content",
	"Parent Tag", "Level", "XPath", "CSS Path", "Child Count",
	"Has Class", "Has ID", "Class", "ID",
}

// Ensure Writer implements pagetab.TableWriter at compile time.
var _ pagetab.TableWriter = (*Writer)(nil)

// Writer persists record subsets as sheets of an xlsx workbook, one sheet
// per subset plus a Summary sheet describing the snapshot.
type Writer struct{}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteTable writes the workbook to dest. Sheets appear in the given order;
// a sheet with a nil filter receives every record.
func (w *Writer) WriteTable(ctx context.Context, snap *pagetab.Snapshot, records []pagetab.Record, sheets []pagetab.Sheet, dest string) error {
	if len(sheets) == 0 {
		return pagetab.Errorf(pagetab.EINVALID, "at least one sheet required")
	}
	for i := range sheets {
		if err := sheets[i].Validate(); err != nil {
			return err
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return err
		}

		// The workbook starts with a default sheet; reuse it for the first
		// subset instead of leaving it empty.
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return pagetab.Errorf(pagetab.EINTERNAL, "renaming sheet: %v", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return pagetab.Errorf(pagetab.EINTERNAL, "creating sheet %q: %v", sheet.Name, err)
		}

		subset := records
		if sheet.Filter != nil {
			subset = pagetab.Filter(records, *sheet.Filter)
		}
		if err := writeRecords(f, sheet.Name, subset); err != nil {
			return err
		}
	}

	if snap != nil {
		if err := writeSummary(f, snap); err != nil {
			return err
		}
	}

	if err := f.SaveAs(dest); err != nil {
		return pagetab.Errorf(pagetab.EINTERNAL, "saving workbook %q: %v", dest, err)
	}
	return nil
}

func writeRecords(f *excelize.File, sheet string, records []pagetab.Record) error {
	if err := f.SetSheetRow(sheet, "A1", &recordHeader); err != nil {
		return pagetab.Errorf(pagetab.EINTERNAL, "writing header: %v", err)
	}
	for i, r := range records {
		row := []any{
			r.Tag, r.Attributes, r.SpecialAttrsString(), r.Text, r.HTML,
			r.ParentTag, r.Level, r.XPath, r.CSSPath, r.ChildCount,
			r.HasClass, r.HasID, r.Class, r.ID,
		}
		cell := "A" + strconv.Itoa(i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return pagetab.Errorf(pagetab.EINTERNAL, "writing row %d: %v", i+2, err)
		}
	}
	return nil
}

func writeSummary(f *excelize.File, snap *pagetab.Snapshot) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return pagetab.Errorf(pagetab.EINTERNAL, "creating summary sheet: %v", err)
	}
	rows := [][]any{
		{"Snapshot ID", snap.ID},
		{"URL", snap.URL},
		{"Final URL", snap.FinalURL},
		{"Fetched At", snap.FetchedAt.Format("2006-01-02 15:04:05")},
		{"Content Hash", snap.ContentHash},
		{"Element Count", snap.ElementCount},
	}
	for i, row := range rows {
		cell := "A" + strconv.Itoa(i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return pagetab.Errorf(pagetab.EINTERNAL, "writing summary row %d: %v", i+1, err)
		}
	}
	return nil
}
