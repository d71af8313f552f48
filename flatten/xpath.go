package flatten

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// XPath returns an absolute structural locator for n.
//
// The locator walks from n toward the document root. An element carrying an
// id attribute short-circuits the walk: ids are assumed document-unique, so
// a single //tag[@id='...'] component pins the location regardless of depth.
// That assumption is best-effort; markup with duplicate ids yields a locator
// matching more than one element (goquery.UniqueID probes for this).
// Elements without an id contribute /tag components, indexed with their
// 1-based position among same-tag siblings whenever the position is
// ambiguous.
func XPath(n *html.Node) string {
	var components []string

	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		if id, ok := attr(cur, "id"); ok {
			// Self-contained and root-anchored; everything accumulated
			// below this point is redundant.
			return fmt.Sprintf("//%s[@id='%s']", cur.Data, id)
		}

		part := "/" + cur.Data
		pos := samePrecedingSiblings(cur) + 1
		if pos > 1 || hasLaterSameTagSibling(cur) {
			part += fmt.Sprintf("[%d]", pos)
		}
		components = append([]string{part}, components...)
	}

	if len(components) == 0 {
		return "/"
	}
	return strings.Join(components, "")
}

// samePrecedingSiblings counts earlier element siblings with the same tag
// name. Tag comparison is case-sensitive; the parser lowercases element
// names, so this is already canonical.
func samePrecedingSiblings(n *html.Node) int {
	count := 0
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode && s.Data == n.Data {
			count++
		}
	}
	return count
}

func hasLaterSameTagSibling(n *html.Node) bool {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode && s.Data == n.Data {
			return true
		}
	}
	return false
}
