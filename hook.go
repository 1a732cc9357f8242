package loom

import "time"

// Hook observes resolutions. Attach with [Context.Use]; a hook on a context
// fires for every resolution owned by that context or any descendant.
type Hook interface {
	// AfterResolve runs after each resolution attempt. owner is the context
	// that owns the producer; d covers the synchronous portion only. err is
	// non-nil when the resolution failed before a result was obtained.
	AfterResolve(owner *Context, q Qualifier, d time.Duration, err error)
}

// HookFunc adapts a function to the [Hook] interface.
type HookFunc func(owner *Context, q Qualifier, d time.Duration, err error)

func (f HookFunc) AfterResolve(owner *Context, q Qualifier, d time.Duration, err error) {
	f(owner, q, d, err)
}
