package container

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const page = `<!DOCTYPE html>
<html><body>
  <div id="one" data-schematic="docs"></div>
  <div id="two" data-schematic="docs"></div>
  <section data-schematic="admin"></section>
  <div data-schematic="ghost"></div>
</body></html>`

func parsePage(t *testing.T) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func TestBootDocument(t *testing.T) {
	c, _, buf := newTestContainer(t)
	docs := c.Application("docs", Config{})
	admin := c.Application("admin", Config{})
	idle := c.Application("idle", Config{})
	doc := parsePage(t)

	require.NoError(t, c.BootDocument(context.Background(), doc))

	assert.True(t, docs.Booted())
	assert.Equal(t, "one", getAttr(docs.DOM(), "id"), "first match wins")
	assert.Contains(t, buf.String(), "Duplicate application reference found in dom.")

	assert.True(t, admin.Booted())
	assert.Equal(t, "section", admin.DOM().Data)

	assert.False(t, idle.Booted())

	var out bytes.Buffer
	require.NoError(t, html.Render(&out, doc))
	assert.Contains(t, out.String(), `<div id="one" data-schematic="docs" class="schematic-dom">`)
	assert.Contains(t, out.String(), `<div id="two" data-schematic="docs"></div>`)
}

func TestBootDocument_OneShot(t *testing.T) {
	c, _, buf := newTestContainer(t)
	c.Application("docs", Config{})
	doc := parsePage(t)

	require.NoError(t, c.BootDocument(context.Background(), doc))
	require.NoError(t, c.BootDocument(context.Background(), doc))
	assert.Contains(t, buf.String(), "Document already booted, ignoring.")
}

func TestFindApplicationNodes(t *testing.T) {
	doc := parsePage(t)
	assert.Len(t, FindApplicationNodes(doc, "docs"), 2)
	assert.Len(t, FindApplicationNodes(doc, "admin"), 1)
	assert.Empty(t, FindApplicationNodes(doc, "missing"))
	assert.Empty(t, FindApplicationNodes(nil, "docs"))
}
