// Package helpers provides the string helpers shared by the other modules:
// slugs, query strings and attribute lists.
package helpers

import (
	"github.com/vk/schematic/internal/registry"
)

// Name is the module name under which the helpers are registered.
const Name = "helpers"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Helpers exposes the package functions as a registered value.
type Helpers struct{}

func (Helpers) Slugify(s string) string { return Slugify(s) }

func (Helpers) SerializeToQS(data map[string]any, prefix string) string {
	return SerializeToQS(data, prefix)
}

func (Helpers) ToAttributes(attrs map[string]string, prefix string) string {
	return ToAttributes(attrs, prefix)
}

// Register registers the helpers as a shared value.
func (m *Module) Register(r *registry.Registry) error {
	r.Register(Name, registry.Value(&Helpers{}))
	return nil
}
