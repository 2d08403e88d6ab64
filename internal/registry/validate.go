package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/schematic/internal/ctxlog"
	"github.com/vk/schematic/internal/dag"
)

// Validate checks every WithDeps service for references to unregistered
// entries and for dependency cycles between services. All problems are
// reported together.
func (r *Registry) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	r.mu.RLock()
	modules := make(map[string]bool, len(r.modules))
	for name := range r.modules {
		modules[name] = true
	}
	services := make(map[string]ServiceEntry, len(r.services))
	for name, entry := range r.services {
		services[name] = entry
	}
	r.mu.RUnlock()

	var errs []error
	g := dag.New()
	for _, name := range sortedKeys(services) {
		g.AddNode(ServiceRef(name).String())
	}

	for _, name := range sortedKeys(services) {
		deps, ok := services[name].Deps()
		if !ok {
			continue
		}
		owner := ServiceRef(name)
		for _, ref := range deps.Refs {
			switch ref.Kind {
			case KindModule:
				if !modules[ref.Name] {
					errs = append(errs, fmt.Errorf("service %s: %w %s", owner, ErrUnknownReference, ref))
				}
			case KindService:
				if _, ok := services[ref.Name]; !ok {
					errs = append(errs, fmt.Errorf("service %s: %w %s", owner, ErrUnknownService, ref))
					continue
				}
				if ref.Name == name {
					errs = append(errs, fmt.Errorf("%w: %s -> %s", ErrDependencyCycle, owner, owner))
					continue
				}
				if err := g.AddEdge(ref.String(), owner.String()); err != nil {
					errs = append(errs, err)
				}
			default:
				errs = append(errs, fmt.Errorf("service %s: %w %s", owner, ErrInvalidReference, ref))
			}
		}
	}

	if err := g.DetectCycles(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrDependencyCycle, err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed: %w", errors.Join(errs...))
	}

	logger.Debug("Registry validation passed.", "modules", len(modules), "services", len(services))
	return nil
}
