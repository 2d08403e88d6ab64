// Package decorator builds DOM fragments: single elements and tables with
// header, body and footer sections.
package decorator

import (
	"context"

	"github.com/vk/schematic/internal/registry"
)

// Name is the module name under which the decorator is registered.
const Name = "decorator"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the decorator as a factory; every lookup gets a new builder.
func (m *Module) Register(r *registry.Registry) error {
	r.Register(Name, registry.Factory(func(context.Context) (any, error) {
		return New(), nil
	}))
	return nil
}
