// Package stage draws model descriptions into an application's DOM node.
package stage

import (
	"context"
	"fmt"

	"github.com/vk/schematic/internal/metrics"
	"github.com/vk/schematic/internal/registry"
	"github.com/vk/schematic/modules/decorator"
	"github.com/vk/schematic/modules/helpers"
)

// Name is the module name under which the stage is registered.
const Name = "stage"

// Module implements the registry.Module interface for this package.
type Module struct {
	Metrics *metrics.Collector
}

// Register registers the stage as a factory that pulls its builders from
// the decorator and helpers modules.
func (m *Module) Register(r *registry.Registry) error {
	deps, err := registry.ParseDeps("@"+decorator.Name, "@"+helpers.Name, func(args ...any) (any, error) {
		d, ok := args[0].(*decorator.Decorator)
		if !ok {
			return nil, fmt.Errorf("@%s is %T, want *decorator.Decorator", decorator.Name, args[0])
		}
		h, ok := args[1].(*helpers.Helpers)
		if !ok {
			return nil, fmt.Errorf("@%s is %T, want *helpers.Helpers", helpers.Name, args[1])
		}
		return New(d, h, m.Metrics), nil
	})
	if err != nil {
		return err
	}

	r.Register(Name, registry.Factory(func(ctx context.Context) (any, error) {
		return r.Inject(ctx, deps)
	}))
	return nil
}
