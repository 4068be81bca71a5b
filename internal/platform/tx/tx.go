package tx

import (
	"context"
	"sync"
)

// Manager wraps boundaries for multi-step remote operations.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

var _ Manager = (*Shielded)(nil)

// Shielded runs fn detached from the caller's cancellation. Values carried by
// ctx survive; its deadline and cancel signal do not. Wait blocks until every
// region started through the manager has returned.
type Shielded struct {
	wg sync.WaitGroup
}

func (s *Shielded) Within(ctx context.Context, fn func(context.Context) error) error {
	s.wg.Add(1)
	defer s.wg.Done()
	return fn(context.WithoutCancel(ctx))
}

func (s *Shielded) Wait() {
	s.wg.Wait()
}
