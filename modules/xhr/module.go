// Package xhr is the request transport used by the other modules. A request
// is created, given success and error callbacks, and sent; only a 200
// response counts as success.
package xhr

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/schematic/internal/metrics"
	"github.com/vk/schematic/internal/registry"
	"github.com/vk/schematic/modules/helpers"
)

// Name is the module name under which the transport is registered.
const Name = "xhr"

// Module implements the registry.Module interface for this package.
type Module struct {
	Metrics *metrics.Collector
	Timeout time.Duration
}

// Register registers the transport as a factory; every lookup gets its own client.
func (m *Module) Register(r *registry.Registry) error {
	deps, err := registry.ParseDeps("@"+helpers.Name, func(args ...any) (any, error) {
		h, ok := args[0].(*helpers.Helpers)
		if !ok {
			return nil, fmt.Errorf("@%s is %T, want *helpers.Helpers", helpers.Name, args[0])
		}
		return New(h, m.Metrics, m.Timeout), nil
	})
	if err != nil {
		return err
	}

	r.Register(Name, registry.Factory(func(ctx context.Context) (any, error) {
		return r.Inject(ctx, deps)
	}))
	return nil
}
