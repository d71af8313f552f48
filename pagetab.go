// Package pagetab turns a single HTML document into a flat, analyzable table:
// one record per element, annotated with a structural locator (XPath), a
// display path (CSS-like), ancestry, depth, and tag-specific attributes.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, excelize/, sqlite/); the
// flattening core lives in flatten/.
package pagetab
