package panel

import (
	"strings"

	"golang.org/x/net/html"
)

// hasClassToken reports whether the class attribute of n contains class as a whole token.
// Tokens are separated by ASCII whitespace as in browsers, so "rst-other-versions-extra"
// does not match "rst-other-versions" and a no-break space does not separate tokens.
func hasClassToken(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, attr := range n.Attr {
		if attr.Namespace != "" || attr.Key != "class" {
			continue
		}
		for _, token := range strings.FieldsFunc(attr.Val, isASCIIWhitespace) {
			if token == class {
				return true
			}
		}
	}
	return false
}

func isASCIIWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\f' || r == '\r'
}

// findNodesByClass returns all elements carrying class, in document order.
// Matching elements are not descended into: their content is about to be replaced.
func findNodesByClass(n *html.Node, class string) []*html.Node {
	var nodes []*html.Node
	var find func(*html.Node)

	find = func(n *html.Node) {
		if hasClassToken(n, class) {
			nodes = append(nodes, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}

	find(n)
	return nodes
}

// replaceChildren drops all children of n and appends nodes instead.
func replaceChildren(n *html.Node, nodes []*html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
	for _, c := range nodes {
		n.AppendChild(c)
	}
}

// extractTitle extracts the title from the HTML document
func extractTitle(doc *html.Node) string {
	var title string
	var findTitle func(*html.Node)

	findTitle = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = n.FirstChild.Data
			}
			return
		}
		for c := n.FirstChild; c != nil && title == ""; c = c.NextSibling {
			findTitle(c)
		}
	}

	findTitle(doc)
	return strings.TrimSpace(title)
}
