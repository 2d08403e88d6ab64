// Package router provides the #router service: it maps hash fragments to
// model URLs, fetches the model for the current fragment and draws it into
// the owning application.
package router

import (
	"fmt"

	"github.com/vk/schematic/internal/container"
	"github.com/vk/schematic/internal/metrics"
	"github.com/vk/schematic/internal/registry"
)

// Name is the service name under which the router is registered.
const Name = "router"

// Module implements the registry.Module interface for this package.
type Module struct {
	Metrics *metrics.Collector
}

// Register registers the router service with its transport and stage dependencies.
func (m *Module) Register(r *registry.Registry) error {
	return r.RegisterService(Name, registry.WithDeps(registry.Deps{
		Refs: registry.MustRefs("@xhr", "@stage"),
		Factory: func(args ...any) (any, error) {
			t, ok := args[0].(Transport)
			if !ok {
				return nil, fmt.Errorf("@xhr is %T, not a transport", args[0])
			}
			rd, ok := args[1].(container.Renderer)
			if !ok {
				return nil, fmt.Errorf("@stage is %T, not a renderer", args[1])
			}
			return New(t, rd, m.Metrics), nil
		},
	}))
}
