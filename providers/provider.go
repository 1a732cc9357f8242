// Package providers groups related registrations into bootable bundles.
//
// A Provider registers producers into a context; a Registry coordinates
// the two-phase lifecycle: every provider's Register runs before any
// Boot, so Boot is the first safe place to resolve other registrations.
// Deferred providers delay their real registration until one of their
// advertised qualifiers is first resolved.
package providers

import (
	"sync"

	"github.com/km-arc/loom"
)

// ── Provider interface ───────────────────────────────────────────────────────

// Provider bundles registrations for a loom context.
type Provider interface {
	// Register adds producers to the context. Do not resolve other
	// registrations here; use Boot for that.
	Register(ctx *loom.Context)

	// Boot runs after all providers have registered. Safe to resolve
	// anything here.
	Boot(ctx *loom.Context)

	// Provides returns the qualifiers this provider registers. Only
	// consulted for deferred providers; eager providers may return nil.
	Provides() []loom.Qualifier

	// IsDeferred reports whether registration should wait until one of the
	// Provides qualifiers is first resolved.
	IsDeferred() bool
}

// Base is an embeddable no-op implementation of everything but Register.
type Base struct{}

func (Base) Boot(*loom.Context)         {}
func (Base) Provides() []loom.Qualifier { return nil }
func (Base) IsDeferred() bool           { return false }

// ── Registry ─────────────────────────────────────────────────────────────────

// Registry manages provider registration and booting for one context.
type Registry struct {
	mu         sync.Mutex
	ctx        *loom.Context
	eager      []Provider
	registered map[Provider]bool
	booted     bool
}

// NewRegistry creates a registry bound to ctx.
func NewRegistry(ctx *loom.Context) *Registry {
	return &Registry{
		ctx:        ctx,
		registered: make(map[Provider]bool),
	}
}

// Register adds a provider. Eager providers register immediately (and boot
// immediately if the registry already booted). Deferred providers leave a
// placeholder producer per advertised qualifier; the first resolution of
// any of them triggers the real registration.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	if r.registered[p] {
		r.mu.Unlock()
		return
	}
	r.registered[p] = true
	r.mu.Unlock()

	if p.IsDeferred() {
		r.registerDeferred(p)
		return
	}

	p.Register(r.ctx)
	r.mu.Lock()
	r.eager = append(r.eager, p)
	booted := r.booted
	r.mu.Unlock()

	if booted {
		p.Boot(r.ctx)
	}
}

// registerDeferred binds a prototype placeholder under each advertised qualifier.
// The placeholder runs the provider's real Register (which overwrites the
// placeholders) and re-resolves.
func (r *Registry) registerDeferred(p Provider) {
	var once sync.Once
	for _, q := range p.Provides() {
		q := q
		placeholder := loom.NewProducer(nil, func(args []any) (any, error) {
			once.Do(func() {
				p.Register(r.ctx)
				r.mu.Lock()
				booted := r.booted
				r.mu.Unlock()
				if booted {
					p.Boot(r.ctx)
				}
			})
			return r.ctx.Get(q, args...)
		}, nil, loom.WithScope(loom.Prototype))
		r.ctx.Bind(q, placeholder)
	}
}

// Boot runs Boot on every eagerly-registered provider, once. Deferred
// providers boot when their registration triggers.
func (r *Registry) Boot() {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return
	}
	r.booted = true
	eager := make([]Provider, len(r.eager))
	copy(eager, r.eager)
	r.mu.Unlock()

	for _, p := range eager {
		p.Boot(r.ctx)
	}
}

// Booted reports whether Boot has run.
func (r *Registry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns the eagerly-registered providers.
func (r *Registry) Providers() []Provider {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Provider, len(r.eager))
	copy(out, r.eager)
	return out
}
