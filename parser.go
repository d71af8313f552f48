package pagetab

import "golang.org/x/net/html"

// Parser builds an element tree from raw markup.
// The returned node is the document root; its descendants are the tree the
// flattening core traverses. Parsers normalize attribute shapes (class lists,
// missing attributes) so downstream code never performs ad hoc inspection.
type Parser interface {
	Parse(markup string) (*html.Node, error)
}
