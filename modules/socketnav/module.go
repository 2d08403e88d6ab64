// Package socketnav provides the #navfeed service: it follows navigation
// events from a socket.io server and moves the owning application's
// location accordingly.
package socketnav

import (
	"context"

	"github.com/vk/schematic/internal/metrics"
	"github.com/vk/schematic/internal/registry"
)

// Name is the service name under which the feed is registered.
const Name = "navfeed"

// Module implements the registry.Module interface for this package.
type Module struct {
	Metrics *metrics.Collector
}

// Register registers the feed service.
func (m *Module) Register(r *registry.Registry) error {
	return r.RegisterService(Name, registry.Direct(func(context.Context) (any, error) {
		return New(m.Metrics), nil
	}))
}
