package stage

import (
	"context"

	"github.com/vk/schematic/internal/container"
	"github.com/vk/schematic/internal/ctxlog"
	"github.com/vk/schematic/internal/metrics"
	"github.com/vk/schematic/internal/model"
	"github.com/vk/schematic/modules/decorator"
	"github.com/vk/schematic/modules/helpers"
	"golang.org/x/net/html"
)

// TableHeader is the header row of every panel table.
var TableHeader = []string{"Parameter", "Value", "Description", "Parameter Type", "Data Type"}

// Stage renders panels with a decorator.
type Stage struct {
	decorator *decorator.Decorator
	helpers   *helpers.Helpers
	metrics   *metrics.Collector
}

var _ container.Renderer = (*Stage)(nil)

func New(d *decorator.Decorator, h *helpers.Helpers, m *metrics.Collector) *Stage {
	return &Stage{decorator: d, helpers: h, metrics: m}
}

// Draw appends one panel per entry of spec to the application's DOM node.
// Earlier panels are kept.
func (s *Stage) Draw(ctx context.Context, app *container.Application, spec model.Spec) error {
	panels := make([]*decorator.Element, 0, len(spec))
	for _, p := range spec {
		panels = append(panels, s.panel(app.Name(), p))
	}

	err := app.WithDOM(func(dom *html.Node) error {
		for _, p := range panels {
			dom.AppendChild(p.Get())
		}
		return nil
	})
	if err != nil {
		return err
	}

	ctxlog.FromContext(ctx).Debug("Panels drawn.", "app", app.Name(), "panels", len(spec))
	s.metrics.RecordPanels(app.Name(), len(spec))
	return nil
}

// panel builds
//
//	div.panel.<method>
//	  div.heading (title, span.method, span.action)
//	  div.body.collapsey > div.body-content > form.schematic-form > table
func (s *Stage) panel(appName string, p model.Panel) *decorator.Element {
	d := s.decorator
	formID := s.helpers.Slugify(appName + " " + p.Title)

	rows := make([][]any, 0, len(p.Data))
	for _, f := range p.Data {
		var value any
		if f.HasInput() {
			value = d.Element("input", map[string]string{"type": f.Type, "name": f.Name})
		}
		rows = append(rows, []any{f.Name, value, f.Description, f.ParamTypeOrDefault(), f.DataTypeOrDefault()})
	}

	button := d.Element("button", map[string]string{
		"class":       "schematic-btn",
		"onclick":     "",
		"data-target": formID,
	}).Text("Try Now")

	table := d.Table(nil).
		Header(TableHeader...).
		Body(rows).
		FooterCells(decorator.Cell{Content: button, ColSpan: len(TableHeader)})

	method := p.MethodOrDefault()
	heading := d.Element("div", map[string]string{"class": "heading"}).
		Text(p.Title).
		Append(
			d.Element("span", map[string]string{"class": "method"}).Text(method).Get(),
			d.Element("span", map[string]string{"class": "action"}).Text(p.ActionOrDefault()).Get(),
		)

	form := d.Element("form", map[string]string{"class": "schematic-form", "id": formID}).Append(table.Get())
	content := d.Element("div", map[string]string{"class": "body-content"}).Append(form.Get())
	body := d.Element("div", map[string]string{"class": "body collapsey"}).Append(content.Get())

	return d.Element("div", map[string]string{"class": "panel " + method}).Append(heading.Get(), body.Get())
}
