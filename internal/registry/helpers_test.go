package registry

import "context"

type fakeOwner struct {
	name   string
	queued []Service
}

func (o *fakeOwner) Name() string       { return o.name }
func (o *fakeOwner) Enqueue(s Service) { o.queued = append(o.queued, s) }

type fakeService struct {
	ServiceMeta
	label string
	args  []any
}

func (s *fakeService) Init(context.Context) error { return nil }

type xhrStub struct{ id int }
type stageStub struct{}
