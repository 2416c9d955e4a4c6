// Package document walks parsed HTML pages. Walk visits every node in
// document order; the helpers built on it locate the paragraphs and text a
// page's index entry is built from.
package document

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// contentID is the id of the element that holds article text on wiki pages.
const contentID = "mw-content-text"

// Parse reads an HTML document.
func Parse(r io.Reader) (*html.Node, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return root, nil
}

// Walk returns a depth-first, pre-order sequence over root and all of its
// descendants. Each iteration of the sequence starts again from root.
func Walk(root *html.Node) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		if root == nil {
			return
		}
		stack := []*html.Node{root}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n) {
				return
			}
			// Push children last-to-first so the first child is visited next.
			for c := n.LastChild; c != nil; c = c.PrevSibling {
				stack = append(stack, c)
			}
		}
	}
}

// Text yields the contents of every text node under root in document order.
func Text(root *html.Node) iter.Seq[string] {
	return func(yield func(string) bool) {
		for n := range Walk(root) {
			if n.Type != html.TextNode {
				continue
			}
			if !yield(n.Data) {
				return
			}
		}
	}
}

// FindByID returns the first element under root whose id attribute is id.
func FindByID(root *html.Node, id string) (*html.Node, bool) {
	for n := range Walk(root) {
		if n.Type == html.ElementNode && Attr(n, "id") == id {
			return n, true
		}
	}
	return nil, false
}

// Paragraphs returns the <p> elements of the page's content area: the wiki
// content element when present, otherwise the whole document.
func Paragraphs(root *html.Node) []*html.Node {
	content, ok := FindByID(root, contentID)
	if !ok {
		content = root
	}
	var paras []*html.Node
	for n := range Walk(content) {
		if n.Type == html.ElementNode && n.DataAtom == atom.P {
			paras = append(paras, n)
		}
	}
	return paras
}

// Attr returns the value of the named attribute, or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

// TextContent concatenates the text under root, separating nodes by a space.
func TextContent(root *html.Node) string {
	var b strings.Builder
	for s := range Text(root) {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}
	return b.String()
}
