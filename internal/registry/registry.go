package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/vk/schematic/internal/ctxlog"
)

// Module is the interface that all pluggable modules implement to be registered.
type Module interface {
	Register(r *Registry) error
}

// Registry holds the module and service entries for a single runtime.
// It is safe for concurrent use; entries are never invoked while a lock is held.
type Registry struct {
	mu       sync.RWMutex
	modules  map[string]ModuleEntry
	services map[string]ServiceEntry
	logger   *slog.Logger
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		modules:  make(map[string]ModuleEntry),
		services: make(map[string]ServiceEntry),
	}
}

// SetLogger sets the logger used while registering entries. Without one the
// default logger is used.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// log returns the registration logger. The caller holds r.mu.
func (r *Registry) log() *slog.Logger {
	if r.logger == nil {
		return slog.Default()
	}
	return r.logger
}

// Register stores a module under name. A leading "@" is ignored. Registering
// the same name again replaces the previous entry.
func (r *Registry) Register(name string, entry ModuleEntry) {
	name = strings.TrimPrefix(name, ModuleSigil)

	r.mu.Lock()
	_, replaced := r.modules[name]
	r.modules[name] = entry
	logger := r.log()
	r.mu.Unlock()

	if replaced {
		logger.Warn("Replacing module registration.", "module", ModuleRef(name).String())
		return
	}
	logger.Debug("Registering module.", "module", ModuleRef(name).String(), "factory", entry.IsFactory())
}

// RegisterService stores a service under name. A leading "#" is ignored.
// A name can only be registered once.
func (r *Registry) RegisterService(name string, entry ServiceEntry) error {
	name = strings.TrimPrefix(name, ServiceSigil)
	ref := ServiceRef(name)

	if name == "" || !entry.valid() {
		return fmt.Errorf("%w %s found", ErrInvalidService, ref)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.services[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateService, ref)
	}
	r.services[name] = entry
	r.log().Debug("Registering service provider.", "service", ref.String())
	return nil
}

// Modules returns the registered module names, sorted.
func (r *Registry) Modules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.modules)
}

// Services returns the registered service names, sorted.
func (r *Registry) Services() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.services)
}

// Module is the module provider. key may be bare ("stage") or sigiled
// ("@stage"). Value entries are returned as registered; factory entries
// produce a new instance per call.
func (r *Registry) Module(ctx context.Context, key string) (any, error) {
	if strings.HasPrefix(key, ServiceSigil) {
		return nil, fmt.Errorf("%w %s in injector", ErrUnknownReference, key)
	}
	return r.module(ctx, ModuleRef(strings.TrimPrefix(key, ModuleSigil)), Extras{})
}

func (r *Registry) module(ctx context.Context, ref Ref, _ Extras) (any, error) {
	if ref.Kind != KindModule {
		return nil, fmt.Errorf("%w %s in injector", ErrUnknownReference, ref)
	}

	r.mu.RLock()
	entry, ok := r.modules[ref.Name]
	var candidates []string
	if !ok {
		candidates = sortedKeys(r.modules)
	}
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %s in injector%s", ErrUnknownReference, ref, suggest(ref.Name, candidates, ModuleSigil))
	}

	v, err := entry.instance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to construct module %s: %w", ref, err)
	}
	return v, nil
}

// Service is the service provider. key may be bare ("router") or sigiled
// ("#router"). The constructed instance receives Meta{Owner: extras.Owner}
// and is enqueued on the owner.
func (r *Registry) Service(ctx context.Context, key string, extras Extras) (any, error) {
	if strings.HasPrefix(key, ModuleSigil) {
		return nil, fmt.Errorf("%w %s in injector", ErrUnknownService, key)
	}
	return r.service(ctx, ServiceRef(strings.TrimPrefix(key, ServiceSigil)), extras)
}

func (r *Registry) service(ctx context.Context, ref Ref, extras Extras) (any, error) {
	if ref.Kind != KindService {
		return nil, fmt.Errorf("%w %s in injector", ErrUnknownService, ref)
	}

	r.mu.RLock()
	entry, ok := r.services[ref.Name]
	var candidates []string
	if !ok {
		candidates = sortedKeys(r.services)
	}
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %s in injector%s", ErrUnknownService, ref, suggest(ref.Name, candidates, ServiceSigil))
	}

	ctx, err := enter(ctx, ref)
	if err != nil {
		return nil, err
	}

	var instance any
	if deps, ok := entry.Deps(); ok {
		instance, err = Resolve(ctx, deps, r.Dependency, extras)
	} else {
		instance, err = entry.direct(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to construct service %s: %w", ref, err)
	}

	svc, ok := instance.(Service)
	if !ok {
		return nil, fmt.Errorf("%w %s: %T has no Init method", ErrInvalidService, ref, instance)
	}
	if m, ok := instance.(MetaSetter); ok {
		m.SetMeta(Meta{Owner: extras.Owner})
	}
	if extras.Owner != nil {
		extras.Owner.Enqueue(svc)
	}

	logger := ctxlog.FromContext(ctx)
	if extras.Owner != nil {
		logger = logger.With("owner", extras.Owner.Name())
	}
	logger.Debug("Service constructed.", "service", ref.String(), "type", fmt.Sprintf("%T", instance))
	return instance, nil
}

// Dependency dispatches ref to the module or service provider by its kind.
// It is the provider used for the dependencies of WithDeps services, so
// services may depend on modules and other services alike.
func (r *Registry) Dependency(ctx context.Context, ref Ref, extras Extras) (any, error) {
	switch ref.Kind {
	case KindModule:
		return r.module(ctx, ref, extras)
	case KindService:
		return r.service(ctx, ref, extras)
	default:
		return nil, fmt.Errorf("%w %s", ErrInvalidReference, ref)
	}
}

// Inject resolves deps through the module provider only.
func (r *Registry) Inject(ctx context.Context, deps Deps) (any, error) {
	return Resolve(ctx, deps, r.module, Extras{})
}

// resolvingKey tracks the chain of services under construction.
type resolvingKey struct{}

// enter records ref on the construction chain carried by ctx and fails if it
// is already there.
func enter(ctx context.Context, ref Ref) (context.Context, error) {
	chain, _ := ctx.Value(resolvingKey{}).([]string)
	name := ref.String()
	for i, seen := range chain {
		if seen == name {
			path := append(append([]string{}, chain[i:]...), name)
			return ctx, fmt.Errorf("%w: %s", ErrDependencyCycle, strings.Join(path, " -> "))
		}
	}
	next := append(append(make([]string, 0, len(chain)+1), chain...), name)
	return context.WithValue(ctx, resolvingKey{}, next), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
