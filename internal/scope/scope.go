// Package scope ties background fetches to the lifetime of their consumer.
//
// A Scope stands in for a mounted view: work started through it is cancelled
// when the scope closes, and results that arrive afterwards are dropped
// instead of being applied to a consumer that no longer exists.
package scope

import (
	"context"
	"sync"
)

// Scope owns a context and the fetches started under it.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc

	wg     sync.WaitGroup
	mu     sync.Mutex // held while applying results and while closing
	closed bool
}

// New returns an open Scope derived from parent.
func New(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

// Context returns the scope's context. It is cancelled by Close.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Go runs fetch in a new goroutine and hands its result to apply, unless the
// scope has been closed by then. apply calls are serialized.
// Go on a closed scope does nothing.
func Go[T any](s *Scope, fetch func(ctx context.Context) (T, error), apply func(T, error)) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		v, err := fetch(s.ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		apply(v, err)
	}()
}

// Wait blocks until every fetch started so far has finished.
func (s *Scope) Wait() {
	s.wg.Wait()
}

// Close cancels outstanding fetches and waits for them to return.
// No apply runs after Close returns. Close is idempotent.
func (s *Scope) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

// Closed reports whether Close has been called.
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
