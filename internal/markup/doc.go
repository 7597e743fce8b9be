// Package markup provides a small typed query layer over parsed HTML.
//
// Lookups return an explicit ok flag instead of an empty selection, so an
// absent element is a value the caller has to handle rather than something
// that silently propagates:
//
//	doc, err := markup.Parse(body, "text/html; charset=utf-8")
//	if name, ok := doc.First("#name-overview-widget h1 span"); ok {
//	    text, _ := name.Text()
//	}
//
// CSS selectors are evaluated with goquery (cascadia); XPath expressions with
// htmlquery. Both operate on the same golang.org/x/net/html tree, so a node
// found by one can be queried further with the other.
package markup
