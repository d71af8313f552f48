package mock

import (
	"github.com/pagetab/pagetab"
	"golang.org/x/net/html"
)

var _ pagetab.Parser = (*Parser)(nil)

// Parser is a mock implementation of pagetab.Parser.
type Parser struct {
	ParseFn func(markup string) (*html.Node, error)
}

func (p *Parser) Parse(markup string) (*html.Node, error) {
	return p.ParseFn(markup)
}
