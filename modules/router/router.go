package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/url"
	"sync"

	"github.com/vk/schematic/internal/container"
	"github.com/vk/schematic/internal/ctxlog"
	"github.com/vk/schematic/internal/location"
	"github.com/vk/schematic/internal/metrics"
	"github.com/vk/schematic/internal/model"
	"github.com/vk/schematic/internal/registry"
	"github.com/vk/schematic/modules/xhr"
)

var (
	// ErrInvalidFetchMode indicates a fetch mode other than eager or lazy.
	ErrInvalidFetchMode = errors.New("invalid fetch mode")
	// ErrNoOwner indicates a router initialized outside an application.
	ErrNoOwner = errors.New("router has no owning application")
)

// Fetch modes. The mode is recorded but every route is fetched on navigation.
const (
	FetchEager = "eager"
	FetchLazy  = "lazy"
)

// Transport creates requests.
type Transport interface {
	Create(ctx context.Context, url, method string, data any) *xhr.Call
}

// Router is the routing service of one application.
type Router struct {
	registry.ServiceMeta

	transport Transport
	renderer  container.Renderer
	metrics   *metrics.Collector

	mu          sync.Mutex
	baseURL     string
	html5       bool
	fetchMode   string
	routes      map[string]string
	defaultPath string
	hasDefault  bool
	app         *container.Application
}

var (
	_ registry.Service = (*Router)(nil)
	_ io.Closer        = (*Router)(nil)
)

func New(t Transport, r container.Renderer, m *metrics.Collector) *Router {
	return &Router{
		transport: t,
		renderer:  r,
		metrics:   m,
		fetchMode: FetchEager,
		routes:    make(map[string]string),
	}
}

// URL sets the base URL that relative route targets are appended to.
func (r *Router) URL(u string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.baseURL = u
}

// HTML5 turns on html5 mode.
func (r *Router) HTML5() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.html5 = true
}

// FetchMode sets the fetch mode, eager or lazy.
func (r *Router) FetchMode(m string) error {
	if m != FetchEager && m != FetchLazy {
		return fmt.Errorf("%w %q", ErrInvalidFetchMode, m)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetchMode = m
	return nil
}

// On maps hash to target. A later call for the same hash replaces the target.
func (r *Router) On(hash, target string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[hash] = target
}

// Default sets the hash unmatched fragments are redirected to.
func (r *Router) Default(hash string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultPath = hash
	r.hasDefault = true
}

func (r *Router) BaseURL() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.baseURL
}

func (r *Router) IsHTML5() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.html5
}

func (r *Router) Mode() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fetchMode
}

// Routes returns a copy of the route table.
func (r *Router) Routes() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.routes)
}

func (r *Router) DefaultPath() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.defaultPath, r.hasDefault
}

// Init attaches the router to its application: the application becomes
// routable, the router follows the location, the current hash is handled
// and the location moves to the default path.
func (r *Router) Init(ctx context.Context) error {
	app, ok := r.Meta().Owner.(*container.Application)
	if !ok || app == nil {
		return ErrNoOwner
	}

	r.mu.Lock()
	r.app = app
	defaultPath, hasDefault := r.defaultPath, r.hasDefault
	r.mu.Unlock()

	app.MarkRoutable()
	loc := app.Location()
	// The last router to initialize owns hash changes.
	loc.OnHashChange(func(ctx context.Context, ev location.Event) error {
		return r.handle(ctx, ev.New)
	})

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Router initialized.", "routes", len(r.Routes()), "fetch_mode", r.Mode(), "html5", r.IsHTML5())

	var errs []error
	if current := loc.Hash(); current != "" {
		if err := r.handle(ctx, current); err != nil {
			errs = append(errs, err)
		}
	}
	if hasDefault {
		if err := loc.SetHash(ctx, defaultPath); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Router) handle(ctx context.Context, hash string) error {
	r.mu.Lock()
	app := r.app
	target, matched := r.routes[hash]
	defaultPath, hasDefault := r.defaultPath, r.hasDefault
	base := r.baseURL
	r.mu.Unlock()

	logger := app.Logger().With("hash", hash)

	switch {
	case matched:
		return r.fetch(ctx, app, resolveTarget(base, target))
	case hasDefault:
		logger.Debug("No route matched, redirecting to default.", "default", defaultPath)
		r.metrics.RecordNavigation(app.Name(), metrics.OutcomeRedirected)
		return app.Location().SetHash(ctx, defaultPath)
	default:
		logger.Debug("No route matched, ignoring.")
		r.metrics.RecordNavigation(app.Name(), metrics.OutcomeIgnored)
		return nil
	}
}

func (r *Router) fetch(ctx context.Context, app *container.Application, target string) error {
	logger := app.Logger().With("target", target)

	return r.transport.Create(ctx, target, "get", nil).
		Then(func(body string, _ int) error {
			spec, err := model.Decode([]byte(body))
			if err != nil {
				r.metrics.RecordNavigation(app.Name(), metrics.OutcomeInvalid)
				return fmt.Errorf("route target %s: %w", target, err)
			}
			if err := r.renderer.Draw(ctx, app, spec); err != nil {
				r.metrics.RecordNavigation(app.Name(), metrics.OutcomeFailed)
				return err
			}
			r.metrics.RecordNavigation(app.Name(), metrics.OutcomeRendered)
			logger.Debug("Route rendered.", "panels", len(spec))
			return nil
		}).
		Error(func(status int, _ string) {
			r.metrics.RecordNavigation(app.Name(), metrics.OutcomeFailed)
			logger.Warn("Route fetch failed.", "status", status)
		}).
		Send()
}

// Close releases the transport when it holds resources.
func (r *Router) Close() error {
	if c, ok := r.transport.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// resolveTarget prefixes relative targets with base. Absolute URLs are kept.
func resolveTarget(base, target string) string {
	if u, err := url.Parse(target); err == nil && u.IsAbs() {
		return target
	}
	return base + target
}
