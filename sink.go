package pagetab

import "context"

// Sheet names a record subset for persistence. A nil Filter selects all
// records.
type Sheet struct {
	Name   string
	Filter *FilterOptions
}

// Validate returns an error if the sheet contains invalid fields.
func (s *Sheet) Validate() error {
	if s.Name == "" {
		return Errorf(EINVALID, "sheet name required")
	}
	return nil
}

// TableWriter persists one or more named record subsets to a destination
// (a workbook, a database file, an XML document).
type TableWriter interface {
	// WriteTable writes each sheet's subset of records to dest, along with
	// the snapshot metadata. Sheets are written in the given order.
	WriteTable(ctx context.Context, snap *Snapshot, records []Record, sheets []Sheet, dest string) error
}
