package decorator

import (
	"golang.org/x/net/html"
)

// TableClass is the class every built table carries.
const TableClass = "schematic-table"

// Cell is a table cell with explicit content and an optional column span.
type Cell struct {
	Content any
	ColSpan int
}

// Table builds a table element section by section.
type Table struct {
	node  *html.Node
	thead *html.Node
	tbody *html.Node
	tfoot *html.Node
}

// Table creates an empty table with the schematic-table class plus attrs.
func (d *Decorator) Table(attrs map[string]string) *Table {
	merged := map[string]string{"class": TableClass}
	for k, v := range attrs {
		if k == "class" {
			v = TableClass + " " + v
		}
		merged[k] = v
	}
	return &Table{node: newElement("table", merged)}
}

// Header adds a header row with one bold cell per title.
func (t *Table) Header(titles ...string) *Table {
	row := t.section(&t.thead, "thead").insertRow()
	for _, title := range titles {
		strong := newElement("strong", nil)
		appendContent(strong, title)
		row.cell().AppendChild(strong)
	}
	return t
}

// HeaderCells adds a header row built from explicit cells.
func (t *Table) HeaderCells(cells ...Cell) *Table {
	t.section(&t.thead, "thead").insertRow().cells(cells)
	return t
}

// Body adds one row per entry of rows, one cell per value.
func (t *Table) Body(rows [][]any) *Table {
	body := t.section(&t.tbody, "tbody")
	for _, r := range rows {
		row := body.insertRow()
		for _, v := range r {
			appendContent(row.cell(), v)
		}
	}
	return t
}

// Footer adds a footer row with one plain cell per value.
func (t *Table) Footer(values ...any) *Table {
	row := t.section(&t.tfoot, "tfoot").insertRow()
	for _, v := range values {
		appendContent(row.cell(), v)
	}
	return t
}

// FooterCells adds a footer row built from explicit cells.
func (t *Table) FooterCells(cells ...Cell) *Table {
	t.section(&t.tfoot, "tfoot").insertRow().cells(cells)
	return t
}

// Get returns the table element.
func (t *Table) Get() *html.Node { return t.node }

// String renders the table's inner HTML.
func (t *Table) String() string { return innerHTML(t.node) }

// section returns the section element, creating it on first use. Sections
// are kept in thead, tbody, tfoot order whatever order they are built in.
func (t *Table) section(slot **html.Node, tag string) section {
	if *slot == nil {
		*slot = newElement(tag, nil)
		var before *html.Node
		switch tag {
		case "thead":
			before = firstNonNil(t.tbody, t.tfoot)
		case "tbody":
			before = t.tfoot
		}
		t.node.InsertBefore(*slot, before)
	}
	return section{*slot}
}

func firstNonNil(nodes ...*html.Node) *html.Node {
	for _, n := range nodes {
		if n != nil {
			return n
		}
	}
	return nil
}

type section struct{ node *html.Node }

type row struct{ node *html.Node }

func (s section) insertRow() row {
	tr := newElement("tr", nil)
	s.node.AppendChild(tr)
	return row{tr}
}

func (r row) cell() *html.Node {
	td := newElement("td", nil)
	r.node.AppendChild(td)
	return td
}

func (r row) cells(cells []Cell) {
	for _, c := range cells {
		td := r.cell()
		appendContent(td, c.Content)
		setColSpan(td, c.ColSpan)
	}
}
