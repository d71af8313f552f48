// Package goquery re-selects flattened records in their source document.
// A record's CSSPath is a valid CSS selector, so it can be fed back into a
// selector engine to recover the live element it was produced from.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pagetab/pagetab"
)

// Reselect returns the number of elements in the markup matched by a
// record's CSSPath (or any other CSS selector). A count of 1 means the path
// pins its element exactly; more than 1 means the path is ambiguous
// (typically same-tag siblings with identical classes).
func Reselect(markup, cssPath string) (int, error) {
	if cssPath == "" {
		return 0, pagetab.Errorf(pagetab.EINVALID, "empty selector")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return 0, pagetab.Errorf(pagetab.EINVALID, "failed to parse HTML: %v", err)
	}

	return doc.Find(cssPath).Length(), nil
}

// UniqueID reports whether an id value occurs exactly once in the markup.
// Structural locators short-circuit on ids under a document-wide uniqueness
// assumption; this probes whether the markup actually honors it.
func UniqueID(markup, id string) (bool, error) {
	if id == "" {
		return false, pagetab.Errorf(pagetab.EINVALID, "empty id")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return false, pagetab.Errorf(pagetab.EINVALID, "failed to parse HTML: %v", err)
	}

	count := 0
	doc.Find("[id]").Each(func(_ int, sel *goquery.Selection) {
		if val, ok := sel.Attr("id"); ok && val == id {
			count++
		}
	})
	return count == 1, nil
}

// AmbiguousPaths returns the CSSPaths among records that match more than one
// element in the markup, preserving record order and reporting each path
// once.
func AmbiguousPaths(markup string, records []pagetab.Record) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, pagetab.Errorf(pagetab.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var ambiguous []string
	for _, r := range records {
		if r.CSSPath == "" || seen[r.CSSPath] {
			continue
		}
		seen[r.CSSPath] = true
		if doc.Find(r.CSSPath).Length() > 1 {
			ambiguous = append(ambiguous, r.CSSPath)
		}
	}
	return ambiguous, nil
}
