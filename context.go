package loom

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ── Context ──────────────────────────────────────────────────────────────────

// Context is a hierarchical registry of qualifier → producer mappings.
// Lookup walks from the queried context up through its ancestors; mutation
// (Register, Remove) touches only the exact context it is called on.
// Contexts form a tree rooted at [Root].
type Context struct {
	id     string
	parent *Context

	mu        sync.RWMutex
	producers map[Qualifier]*Producer
	hooks     []Hook
}

// New creates a parentless context. The process-wide [Root] is one such
// context, created lazily; use New directly when you want an isolated
// registry, e.g. in tests.
func New() *Context {
	return &Context{
		id:        uuid.NewString(),
		producers: make(map[Qualifier]*Producer),
	}
}

// Child creates a context whose parent is c. Anything registered on the
// child shadows the parent for lookups through the child; the parent never
// sees it. The child is not activated.
func (c *Context) Child() *Context {
	child := New()
	child.parent = c
	return child
}

// ID returns the context's unique identifier.
func (c *Context) ID() string { return c.id }

// Parent returns the parent context, or nil for a root.
func (c *Context) Parent() *Context { return c.parent }

// ── Process-wide state ───────────────────────────────────────────────────────

var (
	globalMu sync.Mutex
	rootOnce sync.Once
	rootCtx  *Context
	activeC  *Context
)

// Root returns the process-wide root context, creating it on first use.
func Root() *Context {
	rootOnce.Do(func() {
		rootCtx = New()
	})
	return rootCtx
}

// Active returns the currently active context. Defaults to [Root] until an
// explicit [Context.Activate] call changes it. During a resolution the
// owning context is transiently active, so recipes that ask for the active
// context observe the context that owns the producer being constructed.
func Active() *Context {
	r := Root()
	globalMu.Lock()
	defer globalMu.Unlock()
	if activeC == nil {
		activeC = r
	}
	return activeC
}

// Activate makes c the active context and returns the previously active
// one. Restoration is the caller's responsibility:
//
//	prev := ctx.Activate()
//	defer prev.Activate()
func (c *Context) Activate() *Context {
	r := Root()
	globalMu.Lock()
	prev := activeC
	if prev == nil {
		prev = r
	}
	activeC = c
	globalMu.Unlock()
	return prev
}

// ── Registration ─────────────────────────────────────────────────────────────

// Register inserts p under its full key fan-out: its own type, every
// ancestor type per its hierarchy, every [As] type, every alias name, and
// every (type, alias) pair. An identical qualifier already present in this
// context is overwritten; parent contexts are never touched.
func (c *Context) Register(p *Producer) *Producer {
	keys := p.registrationKeys()
	c.mu.Lock()
	for _, k := range keys {
		c.producers[k] = p
	}
	c.mu.Unlock()
	return p
}

// Bind inserts p under exactly q, with no fan-out. Useful for placeholder
// registrations keyed by a single name.
func (c *Context) Bind(q Qualifier, p *Producer) *Producer {
	c.mu.Lock()
	c.producers[q] = p
	c.mu.Unlock()
	return p
}

// Remove deletes the producer registered under q in this exact context.
// Parent entries are untouched; sibling qualifiers of the same producer
// survive. Reports whether an entry was deleted.
func (c *Context) Remove(q Qualifier) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.producers[q]; !ok {
		return false
	}
	delete(c.producers, q)
	return true
}

// ── Lookup ───────────────────────────────────────────────────────────────────

// find walks from c to the root looking for q. Returns the producer and the
// context that owns it.
func (c *Context) find(q Qualifier) (*Producer, *Context) {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		ctx.mu.RLock()
		p, ok := ctx.producers[q]
		ctx.mu.RUnlock()
		if ok {
			return p, ctx
		}
	}
	return nil, nil
}

// Has reports whether c or an ancestor has a producer for q. Never triggers
// construction.
func (c *Context) Has(q Qualifier) bool {
	p, _ := c.find(q)
	return p != nil
}

// FindContext returns the nearest context (c first, then ancestors) owning
// a producer for q, or nil.
func (c *Context) FindContext(q Qualifier) *Context {
	_, owner := c.find(q)
	return owner
}

// Producer returns the producer that a lookup of q through c would use, or
// nil. Like Has, it never constructs.
func (c *Context) Producer(q Qualifier) *Producer {
	p, _ := c.find(q)
	return p
}

// Get resolves q, walking to parent contexts when absent locally. The
// result is a plain artifact when every transitive dependency resolved
// synchronously, or a *[Promise] otherwise. args supplies values for the
// producer's pass-through parameters, consumed left to right.
//
// While the synchronous part of the resolution runs, the owning context is
// the active context; the previous one is restored on every exit path
// before Get returns, even when the returned promise is still pending;
// activation governs parameter resolution, not async continuations.
func (c *Context) Get(q Qualifier, args ...any) (any, error) {
	p, owner := c.find(q)
	if p == nil {
		return nil, &NotFoundError{Qualifier: q}
	}

	prev := owner.Activate()
	defer prev.Activate()

	start := time.Now()
	v, err := p.Get(owner, q, args)
	owner.notify(q, time.Since(start), err)
	return v, err
}

// GetSync resolves q and requires an already-settled result. A promise
// that settled before the call is unwrapped; a still-pending one fails
// with a [SyncRequiredError]; it never blocks.
func (c *Context) GetSync(q Qualifier, args ...any) (any, error) {
	v, err := c.Get(q, args...)
	if err != nil {
		return nil, err
	}
	if p, ok := v.(*Promise); ok {
		if !p.Settled() {
			return nil, &SyncRequiredError{Qualifier: q}
		}
		return p.Value(), p.Err()
	}
	return v, nil
}

// GetAsync resolves q and always hands back a promise: synchronous results
// arrive pre-settled, lookup failures arrive pre-rejected.
func (c *Context) GetAsync(q Qualifier, args ...any) *Promise {
	v, err := c.Get(q, args...)
	if err != nil {
		p := NewPromise()
		p.Reject(err)
		return p
	}
	if p, ok := v.(*Promise); ok {
		return p
	}
	p := NewPromise()
	p.Resolve(v)
	return p
}

// ── Hooks ────────────────────────────────────────────────────────────────────

// Use attaches a resolution hook to c. Hooks on a context observe every
// resolution owned by it or by any descendant.
func (c *Context) Use(h Hook) {
	c.mu.Lock()
	c.hooks = append(c.hooks, h)
	c.mu.Unlock()
}

// notify fires hooks on the owning context and its ancestors.
func (c *Context) notify(q Qualifier, d time.Duration, err error) {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		ctx.mu.RLock()
		hooks := ctx.hooks
		ctx.mu.RUnlock()
		for _, h := range hooks {
			h.AfterResolve(c, q, d, err)
		}
	}
}
