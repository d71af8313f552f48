// Package flatten walks a parsed HTML element tree and produces one
// annotated record per element, in pre-order document order.
package flatten

import (
	"net/url"
	"slices"
	"strings"

	"github.com/pagetab/pagetab"
	"golang.org/x/net/html"
)

// maxFieldLen caps the Text and HTML record fields. Longer values are cut
// to 997 characters plus a "..." marker.
const maxFieldLen = 1000

// frame is one pending node on the traversal work list. An explicit stack
// bounds memory on pathologically deep trees where language-level recursion
// would not.
type frame struct {
	node      *html.Node
	parentTag string
	level     int
	path      []string
}

// Flatten walks the element tree rooted at root and returns one record per
// element, parent before children, children in document order. Text-only
// nodes produce no record and no level; their content is absorbed into the
// Text field of every enclosing element. root may be the document node
// returned by a parser or an element node.
//
// baseURL is the final resolved location the document was fetched from; it
// anchors relative src/href references during attribute extraction. An
// empty or unparsable baseURL disables resolution but never fails the walk.
func Flatten(root *html.Node, baseURL string) ([]pagetab.Record, error) {
	if root == nil {
		return nil, pagetab.Errorf(pagetab.EINVALID, "flatten: nil tree root")
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	var records []pagetab.Record
	stack := make([]*frame, 0, 16)

	// Seed with the element children of root so a document node does not
	// itself produce a record.
	if root.Type == html.ElementNode {
		stack = append(stack, &frame{node: root})
	} else {
		for c := lastElementChild(root); c != nil; c = prevElement(c) {
			stack = append(stack, &frame{node: c})
		}
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := f.node

		// Copy rather than append in place: sibling frames share the
		// parent's path slice.
		path := make([]string, len(f.path), len(f.path)+1)
		copy(path, f.path)
		path = append(path, pathToken(n))
		records = append(records, makeRecord(n, f.parentTag, f.level, path, base))

		// Push element children in reverse so the leftmost is visited next.
		for c := lastElementChild(n); c != nil; c = prevElement(c) {
			stack = append(stack, &frame{
				node:      c,
				parentTag: n.Data,
				level:     f.level + 1,
				path:      path,
			})
		}
	}

	return records, nil
}

func makeRecord(n *html.Node, parentTag string, level int, path []string, base *url.URL) pagetab.Record {
	classVal, hasClass := attr(n, "class")
	idVal, hasID := attr(n, "id")

	return pagetab.Record{
		Tag:               n.Data,
		Attributes:        formatAttrs(n),
		SpecialAttributes: specialAttributes(n, base),
		Text:              truncate(collectText(n)),
		HTML:              truncate(renderHTML(n)),
		ParentTag:         parentTag,
		Level:             level,
		XPath:             XPath(n),
		CSSPath:           strings.Join(path, " > "),
		ChildCount:        countElementChildren(n),
		HasClass:          hasClass,
		HasID:             hasID,
		Class:             normalizeClass(classVal),
		ID:                idVal,
	}
}

// DisplayPath returns the " > "-joined root-to-element path for n. Each
// token is the tag name, suffixed with #id when an id is present, else with
// the dot-joined class list when classes are present.
func DisplayPath(n *html.Node) string {
	var tokens []string
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		tokens = append(tokens, pathToken(cur))
	}
	slices.Reverse(tokens)
	return strings.Join(tokens, " > ")
}

func pathToken(n *html.Node) string {
	token := n.Data
	if id, ok := attr(n, "id"); ok {
		return token + "#" + id
	}
	if class, ok := attr(n, "class"); ok {
		if fields := strings.Fields(class); len(fields) > 0 {
			return token + "." + strings.Join(fields, ".")
		}
	}
	return token
}

// collectText concatenates the trimmed text of n and its descendants.
func collectText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(cur.Data))
			return
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func renderHTML(n *html.Node) string {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return ""
	}
	return b.String()
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxFieldLen {
		return s
	}
	return string(runes[:maxFieldLen-3]) + "..."
}

// formatAttrs serializes the full attribute mapping for display, in source
// order.
func formatAttrs(n *html.Node) string {
	if len(n.Attr) == 0 {
		return ""
	}
	parts := make([]string, 0, len(n.Attr))
	for _, a := range n.Attr {
		parts = append(parts, a.Key+`="`+a.Val+`"`)
	}
	return strings.Join(parts, " ")
}

// normalizeClass collapses a raw class attribute into a single-space-joined
// token list. Malformed values (stray whitespace, empty) come out empty
// rather than failing.
func normalizeClass(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

func countElementChildren(n *html.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			count++
		}
	}
	return count
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func lastElementChild(n *html.Node) *html.Node {
	for c := n.LastChild; c != nil; c = c.PrevSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

func prevElement(n *html.Node) *html.Node {
	for c := n.PrevSibling; c != nil; c = c.PrevSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}
