package decorator

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Decorator creates elements detached from any document.
type Decorator struct{}

func New() *Decorator { return &Decorator{} }

// Element wraps a single element under construction.
type Element struct {
	node *html.Node
}

// Element creates a tag element carrying attrs, in attribute name order.
func (d *Decorator) Element(tag string, attrs map[string]string) *Element {
	return &Element{node: newElement(tag, attrs)}
}

// Text replaces the element's children with a single text node.
func (e *Element) Text(s string) *Element {
	for c := e.node.FirstChild; c != nil; c = e.node.FirstChild {
		e.node.RemoveChild(c)
	}
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	return e
}

// Append adds children to the element.
func (e *Element) Append(children ...*html.Node) *Element {
	for _, c := range children {
		e.node.AppendChild(c)
	}
	return e
}

// Get returns the built node.
func (e *Element) Get() *html.Node { return e.node }

// String renders the element's inner HTML.
func (e *Element) String() string { return innerHTML(e.node) }

func newElement(tag string, attrs map[string]string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n.Attr = append(n.Attr, html.Attribute{Key: k, Val: attrs[k]})
	}
	return n
}

func innerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return buf.String()
		}
	}
	return buf.String()
}

// appendContent places v into parent: nodes are appended as is, anything
// else is added as text.
func appendContent(parent *html.Node, v any) {
	switch val := v.(type) {
	case nil:
	case *html.Node:
		parent.AppendChild(val)
	case *Element:
		parent.AppendChild(val.node)
	case string:
		parent.AppendChild(&html.Node{Type: html.TextNode, Data: val})
	case fmt.Stringer:
		parent.AppendChild(&html.Node{Type: html.TextNode, Data: val.String()})
	default:
		parent.AppendChild(&html.Node{Type: html.TextNode, Data: fmt.Sprint(val)})
	}
}

func setColSpan(cell *html.Node, span int) {
	if span > 0 {
		cell.Attr = append(cell.Attr, html.Attribute{Key: "colspan", Val: strconv.Itoa(span)})
	}
}
