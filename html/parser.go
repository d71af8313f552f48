// Package html provides a markup parser backed by golang.org/x/net/html.
package html

import (
	"strings"

	"github.com/pagetab/pagetab"
	xhtml "golang.org/x/net/html"
)

// Ensure Parser implements pagetab.Parser at compile time.
var _ pagetab.Parser = (*Parser)(nil)

// Parser builds an element tree from raw markup. The underlying parser is
// lenient the way browsers are: it repairs unclosed tags, lowercases element
// names, and always yields a tree, so Parse fails only on reader errors.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses markup and returns the document node. The document node
// itself is not an element; its element children (normally a single <html>)
// are the roots the flattening core walks.
func (p *Parser) Parse(markup string) (*xhtml.Node, error) {
	doc, err := xhtml.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, pagetab.Errorf(pagetab.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}
