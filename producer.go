package loom

import (
	"reflect"
	"sync"
)

// ── Scope ────────────────────────────────────────────────────────────────────

// Scope controls how many times a producer's recipe runs.
type Scope int

const (
	// Singleton is the default scope. The recipe runs at most once; every
	// resolution shares the cached artifact (or the in-flight promise while
	// construction is still pending).
	Singleton Scope = iota

	// Prototype runs the recipe on every resolution. Nothing is cached.
	Prototype
)

// String returns the human-readable name of the scope.
func (s Scope) String() string {
	switch s {
	case Singleton:
		return "singleton"
	case Prototype:
		return "prototype"
	default:
		return "unknown"
	}
}

// ── Producer ─────────────────────────────────────────────────────────────────

// Recipe builds an artifact from its resolved parameter values. args holds
// one entry per declared parameter, in declaration order. A recipe may
// return a *[Promise] to construct asynchronously.
type Recipe func(args []any) (any, error)

// slot states for singleton caching: empty → in-flight → settled. The only
// backward transition is in-flight → empty, taken when construction fails
// so a later request can retry.
type slotState int

const (
	slotEmpty slotState = iota
	slotInFlight
	slotSettled
)

// Producer wraps one registered production recipe together with its
// metadata: the artifact's nominal type, the ordered parameter qualifier
// list (entries may be [PassThrough]), alias names, scope, and, for
// singletons, the cache slot.
type Producer struct {
	typ       reflect.Type
	recipe    Recipe
	params    []Qualifier
	aliases   []Name
	scope     Scope
	hierarchy Hierarchy
	extra     []reflect.Type // additional registration types, see As

	mu       sync.Mutex
	state    slotState
	inflight *Promise
	cached   any
}

// NewProducer creates a producer for artifacts of type typ. params lists
// the recipe's parameter qualifiers in declaration order. The producer is
// not registered anywhere until handed to [Context.Register] or
// [Context.Bind].
func NewProducer(typ reflect.Type, recipe Recipe, params []Qualifier, opts ...Option) *Producer {
	p := &Producer{
		typ:       typ,
		recipe:    recipe,
		params:    params,
		scope:     Singleton,
		hierarchy: DefaultHierarchy,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Type returns the producer's nominal artifact type.
func (p *Producer) Type() reflect.Type { return p.typ }

// Scope returns the producer's scope.
func (p *Producer) Scope() Scope { return p.scope }

// Aliases returns the producer's alias names.
func (p *Producer) Aliases() []Name { return p.aliases }

// registrationKeys computes the full fan-out for [Context.Register]: the
// producer's own type, every ancestor type, every [As] type, every alias
// name, and every (type, alias) qualified pair. Computed once per
// registration.
func (p *Producer) registrationKeys() []Qualifier {
	seen := make(map[reflect.Type]bool)
	var types []reflect.Type
	add := func(t reflect.Type) {
		if t == nil || seen[t] {
			return
		}
		seen[t] = true
		types = append(types, t)
	}

	add(p.typ)
	if p.typ != nil {
		for _, t := range p.hierarchy.Ancestors(p.typ) {
			add(t)
		}
	}
	for _, t := range p.extra {
		add(t)
	}

	keys := make([]Qualifier, 0, len(types)*(1+len(p.aliases))+len(p.aliases))
	for _, t := range types {
		keys = append(keys, t)
		for _, a := range p.aliases {
			keys = append(keys, Qualify(t, a))
		}
	}
	for _, a := range p.aliases {
		keys = append(keys, a)
	}
	return keys
}

// ── Construction ─────────────────────────────────────────────────────────────

// Construct resolves every declared parameter against owner and invokes the
// recipe. Pass-through positions consume args left to right; injected and
// pass-through values are interleaved back into declaration order. The
// return value is a plain artifact when every parameter resolved
// synchronously, or a *[Promise] when any was still in flight.
func (p *Producer) Construct(owner *Context, requested Qualifier, args []any) (any, error) {
	results := make([]Result, len(p.params))
	next := 0

	for i, pq := range p.params {
		if pq == PassThrough {
			if next >= len(args) {
				return nil, &PassThroughError{Qualifier: requested, Index: next + 1}
			}
			results[i] = Ready(args[next])
			next++
			continue
		}
		v, err := owner.Get(pq)
		if err != nil {
			return nil, err
		}
		results[i] = ResultOf(v)
	}

	joined := JoinResults(results)
	if !joined.IsPending() {
		return p.recipe(joined.Value().([]any))
	}

	out := NewPromise()
	joined.Promise().Then(func(v any, err error) {
		if err != nil {
			out.Reject(err)
			return
		}
		artifact, err := p.recipe(v.([]any))
		if err != nil {
			out.Reject(err)
			return
		}
		if ap, ok := artifact.(*Promise); ok {
			ap.Then(func(v any, err error) {
				if err != nil {
					out.Reject(err)
					return
				}
				out.Resolve(v)
			})
			return
		}
		out.Resolve(artifact)
	})
	return out, nil
}

// Get resolves the artifact honouring the producer's scope. Prototype
// producers construct on every call. Singleton producers construct at most
// once: the first caller claims the slot, concurrent callers share the
// in-flight promise, and once the construction settles the slot holds the
// plain value so later callers never see a promise. A failed construction
// empties the slot again.
func (p *Producer) Get(owner *Context, requested Qualifier, args []any) (any, error) {
	if p.scope == Prototype {
		return p.Construct(owner, requested, args)
	}

	p.mu.Lock()
	switch p.state {
	case slotSettled:
		v := p.cached
		p.mu.Unlock()
		return v, nil
	case slotInFlight:
		claim := p.inflight
		p.mu.Unlock()
		return claim, nil
	}

	// First caller wins the empty slot.
	claim := NewPromise()
	p.state = slotInFlight
	p.inflight = claim
	p.mu.Unlock()

	v, err := p.Construct(owner, requested, args)
	if err != nil {
		p.reset()
		claim.Reject(err)
		return nil, err
	}

	if pending, ok := v.(*Promise); ok {
		pending.Then(func(v any, err error) {
			if err != nil {
				p.reset()
				claim.Reject(err)
				return
			}
			p.settleSlot(v)
			claim.Resolve(v)
		})
		return claim, nil
	}

	p.settleSlot(v)
	claim.Resolve(v)
	return v, nil
}

func (p *Producer) settleSlot(v any) {
	p.mu.Lock()
	p.state = slotSettled
	p.cached = v
	p.inflight = nil
	p.mu.Unlock()
}

func (p *Producer) reset() {
	p.mu.Lock()
	p.state = slotEmpty
	p.inflight = nil
	p.cached = nil
	p.mu.Unlock()
}
