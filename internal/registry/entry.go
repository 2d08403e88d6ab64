package registry

import "context"

// ModuleEntry is a registered module: either a shared value or a factory
// that yields a fresh instance on every lookup.
type ModuleEntry struct {
	value   any
	factory func(ctx context.Context) (any, error)
}

// Value registers v itself; every lookup returns the same value.
func Value(v any) ModuleEntry {
	return ModuleEntry{value: v}
}

// Factory registers a constructor; every lookup calls it.
func Factory(fn func(ctx context.Context) (any, error)) ModuleEntry {
	return ModuleEntry{factory: fn}
}

// IsFactory reports whether lookups produce fresh instances.
func (e ModuleEntry) IsFactory() bool { return e.factory != nil }

func (e ModuleEntry) instance(ctx context.Context) (any, error) {
	if e.factory != nil {
		return e.factory(ctx)
	}
	return e.value, nil
}

// Deps is a declarative dependency list: the references to resolve, in
// order, and the factory that receives them as positional arguments.
type Deps struct {
	Refs    []Ref
	Factory func(args ...any) (any, error)
}

// ServiceEntry is a registered service: either a direct constructor or a
// dependency list.
type ServiceEntry struct {
	direct func(ctx context.Context) (any, error)
	deps   *Deps
}

// Direct registers a constructor that takes no dependencies.
func Direct(fn func(ctx context.Context) (any, error)) ServiceEntry {
	return ServiceEntry{direct: fn}
}

// WithDeps registers a constructor whose arguments are resolved from deps.Refs.
func WithDeps(deps Deps) ServiceEntry {
	return ServiceEntry{deps: &deps}
}

// Deps returns the dependency list of a WithDeps entry.
func (e ServiceEntry) Deps() (Deps, bool) {
	if e.deps == nil {
		return Deps{}, false
	}
	return *e.deps, true
}

func (e ServiceEntry) valid() bool {
	if e.deps != nil {
		return e.deps.Factory != nil
	}
	return e.direct != nil
}
