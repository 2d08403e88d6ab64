package container

import (
	"context"
	"errors"

	"github.com/vk/schematic/internal/ctxlog"
	"golang.org/x/net/html"
)

// BootDocument boots every declared application onto the first element of
// doc whose data-schematic attribute carries its name. Applications without
// such an element stay unbooted. It runs once per container; later calls
// are ignored.
func (c *Container) BootDocument(ctx context.Context, doc *html.Node) error {
	c.mu.Lock()
	if c.documentBooted {
		c.mu.Unlock()
		c.logger.Warn("Document already booted, ignoring.")
		return nil
	}
	c.documentBooted = true
	c.mu.Unlock()

	ctx = ctxlog.WithLogger(ctx, c.logger)
	var errs []error
	for _, name := range c.Names() {
		nodes := FindApplicationNodes(doc, name)
		if len(nodes) == 0 {
			c.logger.Debug("No element references application.", "app", name)
			continue
		}
		if len(nodes) > 1 {
			c.logger.Warn("Duplicate application reference found in dom.", "app", name, "count", len(nodes))
		}
		if err := c.Run(ctx, name, nodes[0]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FindApplicationNodes returns, in document order, the elements under root
// whose data-schematic attribute equals name.
func FindApplicationNodes(root *html.Node, name string) []*html.Node {
	var found []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if v, ok := lookupAttr(n, AttrApplication); ok && v == name {
				found = append(found, n)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	if root != nil {
		walk(root)
	}
	return found
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func getAttr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
