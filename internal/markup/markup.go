package markup

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// ErrEmptyDocument is returned by Parse when the body contains no bytes.
var ErrEmptyDocument = errors.New("empty document")

// Document is a parsed HTML page.
type Document struct {
	root *goquery.Document
}

// Node is a single element of a Document.
// The zero value is not usable; Nodes are obtained from Document or Node lookups.
type Node struct {
	sel *goquery.Selection
}

// Parse reads an HTML body and builds a Document.
// contentType is the response Content-Type header; it is used to decode
// bodies that are not UTF-8. An empty contentType lets the decoder sniff
// the charset from the content itself.
func Parse(r io.Reader, contentType string) (*Document, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyDocument
	}

	utf8Reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to decode body: %w", err)
	}

	root, err := html.Parse(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	return &Document{root: goquery.NewDocumentFromNode(root)}, nil
}

// ParseString is a convenience wrapper around Parse for UTF-8 markup.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s), "text/html; charset=utf-8")
}

// First returns the first element matching the CSS selector.
func (d *Document) First(selector string) (Node, bool) {
	return first(d.root.Selection, selector)
}

// All returns every element matching the CSS selector in document order.
func (d *Document) All(selector string) []Node {
	return all(d.root.Selection, selector)
}

// XPathFirst returns the first element matching the XPath expression.
// An invalid expression matches nothing.
func (d *Document) XPathFirst(expr string) (Node, bool) {
	return xpathFirst(d.root.Selection, expr)
}

// Title returns the text of the <title> element.
func (d *Document) Title() (string, bool) {
	n, ok := d.First("title")
	if !ok {
		return "", false
	}
	return n.Text()
}

// First returns the first descendant matching the CSS selector.
func (n Node) First(selector string) (Node, bool) {
	return first(n.sel, selector)
}

// All returns every descendant matching the CSS selector.
func (n Node) All(selector string) []Node {
	return all(n.sel, selector)
}

// XPathFirst returns the first node matching the XPath expression, evaluated
// relative to n.
func (n Node) XPathFirst(expr string) (Node, bool) {
	return xpathFirst(n.sel, expr)
}

// Text returns the whitespace-collapsed text content of the node.
// ok is false when the node has no non-blank text.
func (n Node) Text() (string, bool) {
	if n.sel == nil {
		return "", false
	}
	text := strings.Join(strings.Fields(n.sel.Text()), " ")
	if text == "" {
		return "", false
	}
	return text, true
}

// Attr returns the value of the named attribute.
// ok is false when the attribute is not present; a present but empty
// attribute returns "", true.
func (n Node) Attr(name string) (string, bool) {
	if n.sel == nil {
		return "", false
	}
	return n.sel.Attr(name)
}

// Tag returns the element name, e.g. "a" or "td".
func (n Node) Tag() string {
	if n.sel == nil {
		return ""
	}
	return goquery.NodeName(n.sel)
}

func first(sel *goquery.Selection, selector string) (Node, bool) {
	if sel == nil {
		return Node{}, false
	}
	found := sel.Find(selector).First()
	if found.Length() == 0 {
		return Node{}, false
	}
	return Node{sel: found}, true
}

func all(sel *goquery.Selection, selector string) []Node {
	if sel == nil {
		return nil
	}
	found := sel.Find(selector)
	nodes := make([]Node, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, Node{sel: s})
	})
	return nodes
}

func xpathFirst(sel *goquery.Selection, expr string) (Node, bool) {
	if sel == nil || len(sel.Nodes) == 0 {
		return Node{}, false
	}
	found, err := htmlquery.Query(sel.Nodes[0], expr)
	if err != nil || found == nil {
		return Node{}, false
	}
	return Node{sel: goquery.NewDocumentFromNode(found).Selection}, true
}
