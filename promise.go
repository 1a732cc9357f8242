package loom

import (
	"context"
	"sync"
)

// ── Promise ──────────────────────────────────────────────────────────────────

// Promise is a deferred completion value. A producer whose recipe returns a
// *Promise is constructed asynchronously; everything downstream of it
// collapses to promises as well (see [JoinResults]).
//
// A promise settles exactly once: the first Resolve or Reject wins and all
// later settles are ignored. Settlement cannot be cancelled or retracted.
type Promise struct {
	mu        sync.Mutex
	done      chan struct{}
	settled   bool
	value     any
	err       error
	callbacks []func(any, error)
}

// NewPromise creates an unsettled promise.
func NewPromise() *Promise {
	return &Promise{done: make(chan struct{})}
}

// Go runs fn on its own goroutine and returns a promise settled with its
// outcome:
//
//	ctx.RegisterFactory(loom.TypeOf[*Report](), func(args []any) (any, error) {
//	    return loom.Go(func() (any, error) { return buildReport() }), nil
//	}, nil)
func Go(fn func() (any, error)) *Promise {
	p := NewPromise()
	go func() {
		v, err := fn()
		if err != nil {
			p.Reject(err)
			return
		}
		p.Resolve(v)
	}()
	return p
}

// Resolve settles the promise with a value. No-op if already settled.
func (p *Promise) Resolve(v any) { p.settle(v, nil) }

// Reject settles the promise with an error. No-op if already settled.
func (p *Promise) Reject(err error) { p.settle(nil, err) }

func (p *Promise) settle(v any, err error) {
	p.mu.Lock()
	if p.settled {
		p.mu.Unlock()
		return
	}
	p.settled = true
	p.value = v
	p.err = err
	cbs := p.callbacks
	p.callbacks = nil
	close(p.done)
	p.mu.Unlock()

	// Callbacks run outside the lock so they may inspect the promise.
	for _, cb := range cbs {
		cb(v, err)
	}
}

// Settled reports whether the promise has completed.
func (p *Promise) Settled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settled
}

// Value returns the settled value. Zero until Settled reports true.
func (p *Promise) Value() any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

// Err returns the settlement error, if any. Nil until Settled reports true.
func (p *Promise) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Done returns a channel closed on settlement.
func (p *Promise) Done() <-chan struct{} { return p.done }

// Then registers a continuation. If the promise is already settled the
// continuation runs immediately on the calling goroutine; otherwise it runs
// on whichever goroutine settles the promise.
func (p *Promise) Then(cb func(value any, err error)) {
	p.mu.Lock()
	if !p.settled {
		p.callbacks = append(p.callbacks, cb)
		p.mu.Unlock()
		return
	}
	v, err := p.value, p.err
	p.mu.Unlock()
	cb(v, err)
}

// Await blocks until the promise settles or ctx is cancelled.
func (p *Promise) Await(ctx context.Context) (any, error) {
	select {
	case <-p.done:
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.value, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
