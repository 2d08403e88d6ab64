package decorator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/schematic/internal/registry"
)

func TestElement(t *testing.T) {
	d := New()

	e := d.Element("span", map[string]string{"class": "method", "data-x": "1"}).Text("get")
	assert.Equal(t, "span", e.Get().Data)
	assert.Equal(t, "get", e.String())

	e.Text("<post>")
	assert.Equal(t, "&lt;post&gt;", e.String(), "text replaces previous content and is escaped")

	div := d.Element("div", nil).Append(e.Get())
	assert.Equal(t, `<span class="method" data-x="1">&lt;post&gt;</span>`, div.String())
}

func TestTable(t *testing.T) {
	d := New()
	button := d.Element("button", map[string]string{"class": "schematic-btn"}).Text("Try Now")

	table := d.Table(nil).
		FooterCells(Cell{Content: button, ColSpan: 2}).
		Body([][]any{{"id", 7}, {"name", d.Element("input", map[string]string{"name": "name"})}}).
		Header("Parameter", "Value")

	assert.Equal(t, "schematic-table", table.Get().Attr[0].Val)
	assert.Equal(t,
		`<thead><tr><td><strong>Parameter</strong></td><td><strong>Value</strong></td></tr></thead>`+
			`<tbody><tr><td>id</td><td>7</td></tr><tr><td>name</td><td><input name="name"/></td></tr></tbody>`+
			`<tfoot><tr><td colspan="2"><button class="schematic-btn">Try Now</button></td></tr></tfoot>`,
		table.String())
}

func TestTable_ExtraClass(t *testing.T) {
	table := New().Table(map[string]string{"class": "wide", "id": "t"})
	assert.Equal(t, `<table class="schematic-table wide" id="t"></table>`, renderNode(t, table.Get()))
}

func TestModule_RegisterFactory(t *testing.T) {
	r := registry.New()
	require.NoError(t, (&Module{}).Register(r))

	a, err := r.Module(context.Background(), "@decorator")
	require.NoError(t, err)
	assert.IsType(t, &Decorator{}, a)
}
