package xhr

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/vk/schematic/internal/ctxlog"
	"github.com/vk/schematic/internal/metrics"
	"github.com/vk/schematic/modules/helpers"
	"resty.dev/v3"
)

var (
	// ErrInvalidMethod indicates a method other than get, post, put or delete.
	ErrInvalidMethod = errors.New("invalid request method")
	// ErrInvalidCallback indicates a nil Then or Error callback.
	ErrInvalidCallback = errors.New("invalid callback")
)

// DefaultHeaders are sent with every request.
var DefaultHeaders = map[string]string{
	"Content-Type": "application/x-www-form-urlencoded",
	"Accept":       "application/json",
}

const defaultMethod = "get"

// Client creates calls over a shared HTTP client.
type Client struct {
	http    *resty.Client
	helpers *helpers.Helpers
	metrics *metrics.Collector
}

// New creates a Client. A zero timeout leaves requests bounded only by
// their context.
func New(h *helpers.Helpers, m *metrics.Collector, timeout time.Duration) *Client {
	c := resty.New().SetHeaders(DefaultHeaders)
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	if h == nil {
		h = &helpers.Helpers{}
	}
	return &Client{http: c, helpers: h, metrics: m}
}

// Close releases the underlying HTTP client.
func (c *Client) Close() error {
	return c.http.Close()
}

// Call is a single request waiting to be sent.
type Call struct {
	client  *Client
	ctx     context.Context
	url     string
	method  string
	body    string
	err     error
	then    func(body string, status int) error
	onError func(status int, body string)
}

// Create prepares a request. method defaults to get. data may be nil, a
// string, a url.Values or a map, which is encoded as a query string; for
// get and delete it is appended to the URL, otherwise it is the body.
func (c *Client) Create(ctx context.Context, rawURL, method string, data any) *Call {
	if method == "" {
		method = defaultMethod
	}
	method = strings.ToLower(method)

	cl := &Call{client: c, ctx: ctx, url: rawURL, method: method}
	switch method {
	case "get", "post", "put", "delete":
	default:
		cl.err = fmt.Errorf("%w %s", ErrInvalidMethod, method)
		return cl
	}

	body, err := c.encode(data)
	if err != nil {
		cl.err = err
		return cl
	}
	if body != "" && (method == "get" || method == "delete") {
		sep := "?"
		if strings.Contains(cl.url, "?") {
			sep = "&"
		}
		cl.url += sep + body
		body = ""
	}
	cl.body = body
	return cl
}

func (c *Client) encode(data any) (string, error) {
	switch v := data.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case url.Values:
		return v.Encode(), nil
	case map[string]any:
		return c.helpers.SerializeToQS(v, ""), nil
	case map[string]string:
		m := make(map[string]any, len(v))
		for k, s := range v {
			m[k] = s
		}
		return c.helpers.SerializeToQS(m, ""), nil
	default:
		return "", fmt.Errorf("unsupported request data %T", data)
	}
}

// Then sets the success callback, called with the body of a 200 response.
func (c *Call) Then(fn func(body string, status int) error) *Call {
	if fn == nil {
		c.fail(fmt.Errorf("%w in then", ErrInvalidCallback))
		return c
	}
	c.then = fn
	return c
}

// Error sets the failure callback, called with the status and body of any
// other response, or with status 0 when no response arrived.
func (c *Call) Error(fn func(status int, body string)) *Call {
	if fn == nil {
		c.fail(fmt.Errorf("%w in error", ErrInvalidCallback))
		return c
	}
	c.onError = fn
	return c
}

func (c *Call) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// Method returns the lowercased request method.
func (c *Call) Method() string { return c.method }

// URL returns the request URL, including any encoded query data.
func (c *Call) URL() string { return c.url }

// Send performs the request and runs the matching callback. It returns the
// configuration error of the call, the error of the success callback, or
// the transport error when no failure callback is set.
func (c *Call) Send() error {
	if c.err != nil {
		return c.err
	}

	ctx := c.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	logger := ctxlog.FromContext(ctx).With("method", c.method, "url", c.url)

	req := c.client.http.R().SetContext(ctx)
	if c.body != "" {
		req.SetBody(c.body)
	}

	logger.Debug("Sending request.")
	resp, err := req.Execute(strings.ToUpper(c.method), c.url)
	if err != nil {
		c.client.metrics.RecordFetch(c.method, 0)
		logger.Debug("Request failed.", "error", err)
		if c.onError == nil {
			return fmt.Errorf("request %s %s failed: %w", c.method, c.url, err)
		}
		c.onError(0, err.Error())
		return nil
	}

	status := resp.StatusCode()
	body := resp.String()
	c.client.metrics.RecordFetch(c.method, status)
	logger.Debug("Response received.", "status", status, "bytes", len(body))

	if status != 200 {
		if c.onError != nil {
			c.onError(status, body)
		}
		return nil
	}
	if c.then != nil {
		return c.then(body, status)
	}
	return nil
}
