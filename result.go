package loom

import "sync"

// ── Result collapsing ────────────────────────────────────────────────────────

// Result is the tagged union at the heart of sync/async collapsing: a
// resolved value is either Ready (a plain value available now) or Pending
// (a promise still in flight). The tag is decided per call from the actual
// shape of the value, never from static scope information.
type Result struct {
	value   any
	promise *Promise
}

// Ready wraps a plain value.
func Ready(v any) Result { return Result{value: v} }

// Pending wraps an in-flight promise.
func Pending(p *Promise) Result { return Result{promise: p} }

// ResultOf classifies a resolved value. A promise that has already settled
// successfully counts as Ready: callers get the plain value without an
// extra deferral hop.
func ResultOf(v any) Result {
	p, ok := v.(*Promise)
	if !ok {
		return Ready(v)
	}
	if p.Settled() && p.Err() == nil {
		return Ready(p.Value())
	}
	return Pending(p)
}

// IsPending reports whether the result carries an unsettled promise.
func (r Result) IsPending() bool { return r.promise != nil }

// Value returns the ready value. Only meaningful when IsPending is false.
func (r Result) Value() any { return r.value }

// Promise returns the in-flight promise. Nil when the result is ready.
func (r Result) Promise() *Promise { return r.promise }

// JoinResults collapses a sequence of results into one: Ready holding a
// []any of every value iff all inputs are Ready, otherwise Pending on a
// promise that resolves with the assembled []any once every input settles.
// Positional order is always preserved in the output slice; settlement
// order is not observable. The first rejection rejects the join.
func JoinResults(results []Result) Result {
	pending := 0
	for _, r := range results {
		if r.IsPending() {
			pending++
		}
	}

	values := make([]any, len(results))
	if pending == 0 {
		for i, r := range results {
			values[i] = r.value
		}
		return Ready(values)
	}

	out := NewPromise()
	var mu sync.Mutex
	remaining := pending

	for i, r := range results {
		if !r.IsPending() {
			values[i] = r.value
			continue
		}
		i := i
		r.promise.Then(func(v any, err error) {
			if err != nil {
				out.Reject(err)
				return
			}
			mu.Lock()
			values[i] = v
			remaining--
			last := remaining == 0
			mu.Unlock()
			if last {
				out.Resolve(values)
			}
		})
	}

	return Pending(out)
}
