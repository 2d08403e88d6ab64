// Package dag provides a small directed graph used to reason about the
// dependency structure between registered services. It detects cycles before
// the resolver ever has to recurse into them.
package dag
