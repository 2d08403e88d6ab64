package registry

import "context"

// Service is an instance with a per-owner lifecycle. Init is called once,
// when the owner boots.
type Service interface {
	Init(ctx context.Context) error
}

// Owner receives the services constructed on its behalf.
type Owner interface {
	Name() string
	Enqueue(svc Service)
}

// Extras carries the context a service is being constructed in.
type Extras struct {
	Owner Owner
}

// Meta is attached to every constructed service that accepts it.
type Meta struct {
	Owner Owner
}

// MetaSetter is implemented by services that want to reach their owner.
type MetaSetter interface {
	SetMeta(meta Meta)
}

// ServiceMeta is an embeddable MetaSetter.
type ServiceMeta struct {
	meta Meta
}

// SetMeta implements MetaSetter.
func (s *ServiceMeta) SetMeta(meta Meta) { s.meta = meta }

// Meta returns the metadata attached at construction.
func (s *ServiceMeta) Meta() Meta { return s.meta }
