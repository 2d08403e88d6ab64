package config

import (
	"github.com/vk/schematic/internal/model"
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of every loaded manifest.
type Model struct {
	Applications []*Application
}

// Application returns the application called name.
func (m *Model) Application(name string) (*Application, bool) {
	for _, app := range m.Applications {
		if app.Name == name {
			return app, true
		}
	}
	return nil, false
}

// Application is the format-agnostic representation of an `application` block.
type Application struct {
	Name       string
	Routable   bool
	Values     map[string]cty.Value
	Models     []*ModelDef
	Router     *Router
	Navigation *Navigation
	// SourceFile is the manifest the application was declared in.
	SourceFile string
}

// ModelDef is a named model with its decoded panels.
type ModelDef struct {
	Name   string
	Source string
	Spec   model.Spec
}

// Router is the format-agnostic representation of a `router` block.
type Router struct {
	URL       string
	FetchMode string
	HTML5     bool
	Default   string
	Routes    []*Route
}

// Route maps a hash to a model URL.
type Route struct {
	Hash   string
	Target string
}

// Navigation is the format-agnostic representation of a `navigation` block.
type Navigation struct {
	URL                string
	Namespace          string
	Event              string
	InsecureSkipVerify bool
}
