// Package metrics wraps the Prometheus collectors for navigation, fetch and
// rendering activity. A nil *Collector is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Navigation outcomes.
const (
	OutcomeRendered   = "rendered"
	OutcomeRedirected = "redirected"
	OutcomeIgnored    = "ignored"
	OutcomeFailed     = "failed"
	OutcomeInvalid    = "invalid_model"
)

// Collector holds the runtime metrics.
type Collector struct {
	registry *prometheus.Registry

	boots       *prometheus.CounterVec
	navigations *prometheus.CounterVec
	fetches     *prometheus.CounterVec
	panels      *prometheus.CounterVec
	remote      *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry. namespace defaults
// to "schematic".
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "schematic"
	}

	c := &Collector{registry: prometheus.NewRegistry()}

	c.boots = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "application",
			Name:      "boots_total",
			Help:      "Total number of application boots",
		},
		[]string{"app", "result"},
	)

	c.navigations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "router",
			Name:      "navigations_total",
			Help:      "Total number of hash changes handled by a router, by outcome",
		},
		[]string{"app", "outcome"},
	)

	c.fetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "xhr",
			Name:      "requests_total",
			Help:      "Total number of transport requests, by method and status code (0 for network errors)",
		},
		[]string{"method", "status"},
	)

	c.panels = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stage",
			Name:      "panels_total",
			Help:      "Total number of panels drawn",
		},
		[]string{"app"},
	)

	c.remote = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "navigation",
			Name:      "remote_events_total",
			Help:      "Total number of navigation events received from the remote feed",
		},
		[]string{"app", "result"},
	)

	c.registry.MustRegister(
		c.boots,
		c.navigations,
		c.fetches,
		c.panels,
		c.remote,
		collectors.NewGoCollector(),
	)

	return c
}

// Registry returns the Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collected metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordBoot records an application boot.
func (c *Collector) RecordBoot(app string, err error) {
	if c == nil {
		return
	}
	c.boots.WithLabelValues(app, result(err)).Inc()
}

// RecordNavigation records how a router handled a hash change.
func (c *Collector) RecordNavigation(app, outcome string) {
	if c == nil {
		return
	}
	c.navigations.WithLabelValues(app, outcome).Inc()
}

// RecordFetch records a transport request.
func (c *Collector) RecordFetch(method string, status int) {
	if c == nil {
		return
	}
	c.fetches.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// RecordPanels records panels drawn into an application.
func (c *Collector) RecordPanels(app string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.panels.WithLabelValues(app).Add(float64(n))
}

// RecordRemoteEvent records a navigation event from the remote feed.
func (c *Collector) RecordRemoteEvent(app string, err error) {
	if c == nil {
		return
	}
	c.remote.WithLabelValues(app, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
