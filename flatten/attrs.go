package flatten

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// specialAttributes returns the tag-specific attribute subset for n. For
// unrecognized tags the result is nil. src and href values are resolved
// against base; already-absolute references and non-resolvable schemes
// (data:, mailto:, tel:, fragments, javascript:) pass through unchanged.
func specialAttributes(n *html.Node, base *url.URL) map[string]string {
	switch n.Data {
	case "img":
		attrs := pick(n, "src", "alt", "width", "height")
		if src := attrs["src"]; src != "" && !hasPrefixAny(src, "http://", "https://", "data:") {
			attrs["src"] = resolveRef(base, src)
		}
		return attrs
	case "a":
		attrs := pick(n, "href", "rel", "target")
		if href := attrs["href"]; href != "" && !hasPrefixAny(href, "http://", "https://", "mailto:", "tel:", "#", "javascript:") {
			attrs["href"] = resolveRef(base, href)
		}
		return attrs
	case "video", "iframe":
		return pick(n, "src", "width", "height")
	case "form":
		return pick(n, "action", "method")
	case "input":
		return pick(n, "type", "name", "value", "placeholder")
	}
	return nil
}

func pick(n *html.Node, names ...string) map[string]string {
	attrs := make(map[string]string, len(names))
	for _, name := range names {
		val, _ := attr(n, name)
		attrs[name] = val
	}
	return attrs
}

func hasPrefixAny(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// resolveRef joins a relative reference with the base location per standard
// URL resolution. Unparsable references and a missing base leave the value
// unchanged rather than failing the walk.
func resolveRef(base *url.URL, ref string) string {
	if base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
