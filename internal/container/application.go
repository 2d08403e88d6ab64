package container

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/vk/schematic/internal/location"
	"github.com/vk/schematic/internal/model"
	"github.com/vk/schematic/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"golang.org/x/net/html"
)

// State is the lifecycle state of an application.
type State int

const (
	Unbooted State = iota
	Booted
)

func (s State) String() string {
	if s == Booted {
		return "booted"
	}
	return "unbooted"
}

// Config is the configuration an application is declared with.
type Config struct {
	Routable bool
	Values   map[string]cty.Value
}

// Renderer draws a model into an application's DOM node.
type Renderer interface {
	Draw(ctx context.Context, app *Application, spec model.Spec) error
}

// Application is a named unit bound to at most one DOM element.
type Application struct {
	mu        sync.Mutex
	name      string
	container *Container
	logger    *slog.Logger
	config    Config
	dom       *html.Node
	state     State
	bootID    uuid.UUID
	models    map[string]model.Spec
	services  []registry.Service
}

func newApplication(c *Container, name string, cfg Config) *Application {
	return &Application{
		name:      name,
		container: c,
		logger:    c.logger.With("app", name),
		config:    cfg,
		models:    make(map[string]model.Spec),
	}
}

// Name implements registry.Owner.
func (a *Application) Name() string { return a.name }

// Enqueue implements registry.Owner. Services are initialized in the order
// they were enqueued.
func (a *Application) Enqueue(svc registry.Service) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.services = append(a.services, svc)
}

// Init resolves deps through the service provider on behalf of the
// application. Every service constructed along the way is owned by it.
func (a *Application) Init(ctx context.Context, deps registry.Deps) (any, error) {
	reg := a.container.registry
	provider := func(ctx context.Context, ref registry.Ref, extras registry.Extras) (any, error) {
		return reg.Service(ctx, ref.String(), extras)
	}
	return registry.Resolve(ctx, deps, provider, registry.Extras{Owner: a})
}

// Model stores spec under name, replacing any earlier spec of that name.
func (a *Application) Model(name string, spec model.Spec) {
	a.mu.Lock()
	routable := a.config.Routable
	a.models[name] = spec
	a.mu.Unlock()

	if routable {
		a.logger.Info("Application will not use model in routable mode.", "model", name)
	}
}

// ModelSpec returns the model registered under name.
func (a *Application) ModelSpec(name string) (model.Spec, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	spec, ok := a.models[name]
	return spec, ok
}

// MarkRoutable switches the application into routable mode.
func (a *Application) MarkRoutable() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.config.Routable = true
}

func (a *Application) Config() Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.config
}

// DOM returns the element the application is attached to, nil before boot.
func (a *Application) DOM() *html.Node {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dom
}

// WithDOM runs fn with the attached element while holding the page lock.
// fn must not call back into WithDOM or Container.Render.
func (a *Application) WithDOM(fn func(el *html.Node) error) error {
	el := a.DOM()
	if el == nil {
		return fmt.Errorf("%w: application %s is not attached", ErrInvalidElement, a.name)
	}
	a.container.domMu.Lock()
	defer a.container.domMu.Unlock()
	return fn(el)
}

func (a *Application) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Application) Booted() bool { return a.State() == Booted }

// BootID identifies one boot of the application; it is the zero UUID before boot.
func (a *Application) BootID() uuid.UUID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bootID
}

// Services returns the services owned by the application, in init order.
func (a *Application) Services() []registry.Service {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]registry.Service(nil), a.services...)
}

// Location returns the page location shared by every application in the container.
func (a *Application) Location() *location.Location {
	return a.container.location
}

// Logger returns the application's logger.
func (a *Application) Logger() *slog.Logger { return a.logger }
