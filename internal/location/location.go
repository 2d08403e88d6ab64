// Package location models the fragment part of a page address and the
// change notifications that follow it.
//
// Changes are delivered the way a browser event loop delivers them: one
// event at a time, in the order they happened, never re-entrantly. A
// listener that changes the hash queues a new event instead of recursing.
package location

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/vk/schematic/internal/ctxlog"
)

// Event describes one hash change.
type Event struct {
	Old string
	New string
}

// Listener is called for every hash change.
type Listener func(ctx context.Context, ev Event) error

// Location holds the current hash and its listeners.
type Location struct {
	mu        sync.Mutex
	hash      string
	listeners []Listener
	onChange  Listener
	queue     []Event
	draining  bool
}

// New returns a Location positioned at initial. A leading "#" is ignored.
func New(initial string) *Location {
	return &Location{hash: normalize(initial)}
}

// Hash returns the current hash without the leading "#".
func (l *Location) Hash() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hash
}

// Listen adds fn to the listeners. Listeners run in the order they were added.
func (l *Location) Listen(fn Listener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
}

// OnHashChange installs fn as the hash change handler, replacing any
// previous one. The handler runs after the listeners added with Listen.
func (l *Location) OnHashChange(fn Listener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = fn
}

// SetHash changes the hash. When the value differs from the current one a
// change event is queued. If no other call is already delivering events,
// this call delivers the queue until it is empty and returns the joined
// listener errors; otherwise it returns nil right away.
func (l *Location) SetHash(ctx context.Context, hash string) error {
	hash = normalize(hash)

	l.mu.Lock()
	if hash == l.hash {
		l.mu.Unlock()
		return nil
	}
	l.queue = append(l.queue, Event{Old: l.hash, New: hash})
	l.hash = hash
	if l.draining {
		l.mu.Unlock()
		ctxlog.FromContext(ctx).Debug("Hash change queued.", "hash", hash)
		return nil
	}
	l.draining = true
	l.mu.Unlock()

	return l.drain(ctx)
}

func (l *Location) drain(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	var errs []error
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.draining = false
			l.mu.Unlock()
			break
		}
		ev := l.queue[0]
		l.queue = l.queue[1:]
		listeners := append([]Listener(nil), l.listeners...)
		if l.onChange != nil {
			listeners = append(listeners, l.onChange)
		}
		l.mu.Unlock()

		logger.Debug("Dispatching hash change.", "old", ev.Old, "new", ev.New, "listeners", len(listeners))
		for _, fn := range listeners {
			if err := fn(ctx, ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func normalize(hash string) string {
	return strings.TrimPrefix(hash, "#")
}
