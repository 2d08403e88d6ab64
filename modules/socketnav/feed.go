package socketnav

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/vk/schematic/internal/container"
	"github.com/vk/schematic/internal/ctxlog"
	"github.com/vk/schematic/internal/metrics"
	"github.com/vk/schematic/internal/registry"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultEvent is the event name followed when none is configured.
const DefaultEvent = "navigate"

var (
	// ErrNoOwner indicates a feed initialized outside an application.
	ErrNoOwner = errors.New("navigation feed has no owning application")
	// ErrInvalidPayload indicates an event without a usable hash.
	ErrInvalidPayload = errors.New("invalid navigation payload")
	// ErrClosed indicates a navigation event arriving after Close.
	ErrClosed = errors.New("navigation feed is closed")
)

// Config locates the socket.io server.
type Config struct {
	URL                string
	Namespace          string
	Event              string
	InsecureSkipVerify bool
}

// Feed is the navigation feed of one application.
type Feed struct {
	registry.ServiceMeta

	metrics *metrics.Collector

	mu     sync.Mutex
	cfg    Config
	app    *container.Application
	client *socket.Socket
	closed bool
}

var _ registry.Service = (*Feed)(nil)

func New(m *metrics.Collector) *Feed {
	return &Feed{metrics: m, cfg: Config{Namespace: "/", Event: DefaultEvent}}
}

// Configure replaces the feed configuration. Empty namespace and event
// fields keep their defaults.
func (f *Feed) Configure(cfg Config) {
	if cfg.Namespace == "" {
		cfg.Namespace = "/"
	}
	if cfg.Event == "" {
		cfg.Event = DefaultEvent
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cfg = cfg
}

func (f *Feed) Config() Config {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg
}

// Init connects to the server and follows navigation events until ctx is
// done. A feed without a URL stays idle.
func (f *Feed) Init(ctx context.Context) error {
	app, ok := f.Meta().Owner.(*container.Application)
	if !ok || app == nil {
		return ErrNoOwner
	}

	f.mu.Lock()
	f.app = app
	cfg := f.cfg
	f.mu.Unlock()

	logger := ctxlog.FromContext(ctx).With("service", "navfeed", "url", cfg.URL)
	if cfg.URL == "" {
		logger.Debug("Navigation feed has no URL, staying idle.")
		return nil
	}

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	opts := socket.DefaultOptions()
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		opts.SetPath(parsedURL.Path)
	}
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(cfg.Namespace, opts)

	eventCtx := context.WithoutCancel(ctx)
	io.On(types.EventName("connect"), func(...any) {
		logger.Info("Navigation feed connected", "sid", io.Id())
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		logger.Warn("Navigation feed connection failed", "error", errs)
	})
	io.On(types.EventName(cfg.Event), func(args ...any) {
		if err := f.Navigate(eventCtx, args...); err != nil {
			logger.Warn("Navigation event rejected", "error", err)
		}
	})

	f.mu.Lock()
	f.client = io
	f.mu.Unlock()

	logger.Debug("Connecting navigation feed.", "namespace", cfg.Namespace, "event", cfg.Event)
	io.Connect()

	go func() {
		<-ctx.Done()
		_ = f.Close()
	}()
	return nil
}

// Navigate moves the owner's location to the hash carried by payload.
func (f *Feed) Navigate(ctx context.Context, payload ...any) error {
	f.mu.Lock()
	app, closed := f.app, f.closed
	f.mu.Unlock()
	if app == nil {
		return ErrNoOwner
	}
	if closed {
		return ErrClosed
	}

	hash, err := hashFromPayload(payload)
	f.metrics.RecordRemoteEvent(app.Name(), err)
	if err != nil {
		return err
	}

	app.Logger().Debug("Remote navigation.", "hash", hash)
	return app.Location().SetHash(ctx, hash)
}

// Close disconnects from the server and rejects later navigation events.
// It is safe to call more than once.
func (f *Feed) Close() error {
	f.mu.Lock()
	client := f.client
	f.client = nil
	f.closed = true
	f.mu.Unlock()
	if client != nil {
		client.Disconnect()
	}
	return nil
}

// hashFromPayload accepts a bare hash string, a JSON object string with a
// "hash" field, or a decoded object with a "hash" field.
func hashFromPayload(payload []any) (string, error) {
	if len(payload) == 0 {
		return "", fmt.Errorf("%w: empty event", ErrInvalidPayload)
	}

	switch v := payload[0].(type) {
	case string:
		s := strings.TrimSpace(v)
		if strings.HasPrefix(s, "{") {
			if !gjson.Valid(s) {
				return "", fmt.Errorf("%w: malformed JSON", ErrInvalidPayload)
			}
			h := gjson.Get(s, "hash")
			if h.Type != gjson.String {
				return "", fmt.Errorf("%w: missing hash field", ErrInvalidPayload)
			}
			return h.String(), nil
		}
		return s, nil
	case map[string]any:
		h, ok := v["hash"].(string)
		if !ok {
			return "", fmt.Errorf("%w: missing hash field", ErrInvalidPayload)
		}
		return h, nil
	default:
		return "", fmt.Errorf("%w: unsupported type %T", ErrInvalidPayload, v)
	}
}
