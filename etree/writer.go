// Package etree provides an XML implementation of pagetab.TableWriter
// backed by beevik/etree.
package etree

import (
	"context"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/pagetab/pagetab"
)

// Ensure Writer implements pagetab.TableWriter at compile time.
var _ pagetab.TableWriter = (*Writer)(nil)

// Writer persists record subsets as an XML document: one <sheet> element per
// subset under a <snapshot> root, one <record> element per row.
type Writer struct{}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteTable writes the XML document to dest.
func (w *Writer) WriteTable(ctx context.Context, snap *pagetab.Snapshot, records []pagetab.Record, sheets []pagetab.Sheet, dest string) error {
	if len(sheets) == 0 {
		return pagetab.Errorf(pagetab.EINVALID, "at least one sheet required")
	}
	for i := range sheets {
		if err := sheets[i].Validate(); err != nil {
			return err
		}
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("snapshot")
	if snap != nil {
		root.CreateAttr("id", snap.ID)
		root.CreateAttr("url", snap.URL)
		root.CreateAttr("finalUrl", snap.FinalURL)
		root.CreateAttr("fetchedAt", snap.FetchedAt.Format(time.RFC3339))
		root.CreateAttr("contentHash", snap.ContentHash)
		root.CreateAttr("elementCount", strconv.Itoa(snap.ElementCount))
	}

	for _, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return err
		}

		el := root.CreateElement("sheet")
		el.CreateAttr("name", sheet.Name)

		subset := records
		if sheet.Filter != nil {
			subset = pagetab.Filter(records, *sheet.Filter)
		}
		for _, r := range subset {
			appendRecord(el, r)
		}
	}

	doc.Indent(2)
	if err := doc.WriteToFile(dest); err != nil {
		return pagetab.Errorf(pagetab.EINTERNAL, "writing %q: %v", dest, err)
	}
	return nil
}

func appendRecord(parent *etree.Element, r pagetab.Record) {
	el := parent.CreateElement("record")
	el.CreateAttr("tag", r.Tag)
	el.CreateAttr("parentTag", r.ParentTag)
	el.CreateAttr("level", strconv.Itoa(r.Level))
	el.CreateAttr("childCount", strconv.Itoa(r.ChildCount))
	el.CreateAttr("hasClass", strconv.FormatBool(r.HasClass))
	el.CreateAttr("hasId", strconv.FormatBool(r.HasID))
	el.CreateAttr("class", r.Class)
	el.CreateAttr("id", r.ID)

	el.CreateElement("xpath").SetText(r.XPath)
	el.CreateElement("cssPath").SetText(r.CSSPath)
	el.CreateElement("attributes").SetText(r.Attributes)
	if s := r.SpecialAttrsString(); s != "" {
		el.CreateElement("specialAttributes").SetText(s)
	}
	if r.Text != "" {
		el.CreateElement("text").SetText(r.Text)
	}
	el.CreateElement("markup").SetText(r.HTML)
}
