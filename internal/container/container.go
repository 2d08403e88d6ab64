package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/vk/schematic/internal/ctxlog"
	"github.com/vk/schematic/internal/location"
	"github.com/vk/schematic/internal/metrics"
	"github.com/vk/schematic/internal/registry"
	"golang.org/x/net/html"
)

const (
	// AttrApplication marks the element an application boots onto.
	AttrApplication = "data-schematic"
	// AttrModel names the model drawn right after boot.
	AttrModel = "data-model"
	// BootClass is appended to the class list of a booted element.
	BootClass = "schematic-dom"
	// StageModule is the module that renders models.
	StageModule = "@stage"
)

// Container owns the applications of one page.
type Container struct {
	mu             sync.Mutex
	registry       *registry.Registry
	location       *location.Location
	logger         *slog.Logger
	metrics        *metrics.Collector
	apps           map[string]*Application
	documentBooted bool

	// domMu serializes every change to and every read of the page tree.
	domMu sync.Mutex
}

// New creates a Container that resolves through reg and shares loc between
// its applications.
func New(reg *registry.Registry, loc *location.Location, logger *slog.Logger) *Container {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = location.New("")
	}
	return &Container{
		registry: reg,
		location: loc,
		logger:   logger,
		apps:     make(map[string]*Application),
	}
}

// Application returns the application called name, creating it with cfg on
// first use. Later calls return the same application and ignore cfg.
func (c *Container) Application(name string, cfg Config) *Application {
	c.mu.Lock()
	defer c.mu.Unlock()
	if app, ok := c.apps[name]; ok {
		return app
	}
	app := newApplication(c, name, cfg)
	c.apps[name] = app
	c.logger.Debug("Application declared.", "app", name, "routable", cfg.Routable)
	return app
}

// Lookup returns the application called name.
func (c *Container) Lookup(name string) (*Application, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	app, ok := c.apps[name]
	return app, ok
}

// Names returns the declared application names, sorted.
func (c *Container) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.apps))
	for name := range c.apps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetMetrics makes the container record boots into m.
func (c *Container) SetMetrics(m *metrics.Collector) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = m
}

func (c *Container) Registry() *registry.Registry { return c.registry }

func (c *Container) Location() *location.Location { return c.location }

// Run boots the application called name onto el.
func (c *Container) Run(ctx context.Context, name string, el *html.Node) error {
	if el == nil || el.Type != html.ElementNode {
		return fmt.Errorf("%w: application %s", ErrInvalidElement, name)
	}

	app, ok := c.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownApplication, name)
	}

	app.mu.Lock()
	if app.state == Booted {
		app.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyBooted, name)
	}
	c.domMu.Lock()
	setAttr(el, "class", strings.TrimSpace(getAttr(el, "class")+" "+BootClass))
	c.domMu.Unlock()
	app.dom = el
	app.state = Booted
	app.bootID = uuid.New()
	services := append([]registry.Service(nil), app.services...)
	bootID := app.bootID
	app.mu.Unlock()

	logger := app.logger.With("boot_id", bootID.String())
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Booting application.", "services", len(services))

	err := c.start(ctx, app, el, services)

	c.mu.Lock()
	m := c.metrics
	c.mu.Unlock()
	m.RecordBoot(name, err)

	if err != nil {
		return err
	}
	logger.Info("Application booted.")
	return nil
}

// start initializes the services of a freshly attached application and
// draws the model its element asks for.
func (c *Container) start(ctx context.Context, app *Application, el *html.Node, services []registry.Service) error {
	for _, svc := range services {
		if err := svc.Init(ctx); err != nil {
			return fmt.Errorf("failed to initialize service %T of application %s: %w", svc, app.name, err)
		}
	}

	if modelName := getAttr(el, AttrModel); modelName != "" {
		return c.drawModel(ctx, app, modelName)
	}
	return nil
}

func (c *Container) drawModel(ctx context.Context, app *Application, modelName string) error {
	logger := ctxlog.FromContext(ctx)
	spec, ok := app.ModelSpec(modelName)
	if !ok {
		logger.Warn("Model referenced by element is not registered.", "model", modelName)
		return nil
	}

	stage, err := c.registry.Module(ctx, StageModule)
	if err != nil {
		return fmt.Errorf("failed to draw model %s: %w", modelName, err)
	}
	renderer, ok := stage.(Renderer)
	if !ok {
		return fmt.Errorf("failed to draw model %s: module %s is %T, not a renderer", modelName, StageModule, stage)
	}

	logger.Debug("Drawing model.", "model", modelName, "panels", len(spec))
	return renderer.Draw(ctx, app, spec)
}

// Render writes doc while no application is drawing into it.
func (c *Container) Render(w io.Writer, doc *html.Node) error {
	c.domMu.Lock()
	defer c.domMu.Unlock()
	return html.Render(w, doc)
}

// Close stops every service that holds resources, in reverse init order
// per application. Errors are joined.
func (c *Container) Close() error {
	var errs []error
	for _, name := range c.Names() {
		app, _ := c.Lookup(name)
		services := app.Services()
		for i := len(services) - 1; i >= 0; i-- {
			closer, ok := services[i].(io.Closer)
			if !ok {
				continue
			}
			if err := closer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to close service %T of application %s: %w", services[i], name, err))
			}
		}
	}
	c.logger.Debug("Container closed.", "applications", len(c.Names()))
	return errors.Join(errs...)
}
