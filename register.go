package loom

import (
	"fmt"
	"reflect"
)

// ── Registration sugar ───────────────────────────────────────────────────────

// RegisterClass registers a constructor recipe for artifacts of type typ.
// params lists the constructor's parameter qualifiers in declaration order;
// entries may be [PassThrough]. Scope defaults to [Singleton].
//
//	ctx.RegisterClass(loom.TypeOf[*Mailer](), func(args []any) (any, error) {
//	    return NewMailer(args[0].(*Config)), nil
//	}, []loom.Qualifier{loom.TypeOf[*Config]()})
func (c *Context) RegisterClass(typ reflect.Type, recipe Recipe, params []Qualifier, opts ...Option) *Producer {
	return c.Register(NewProducer(typ, recipe, params, opts...))
}

// RegisterFactory registers a factory recipe. Identical mechanics to
// [Context.RegisterClass]; the separate name marks recipes that assemble or
// look up an artifact rather than construct it.
func (c *Context) RegisterFactory(typ reflect.Type, recipe Recipe, params []Qualifier, opts ...Option) *Producer {
	return c.Register(NewProducer(typ, recipe, params, opts...))
}

// RegisterValue registers a pre-built value as a singleton producer under
// its dynamic type (plus the usual fan-out and any aliases).
//
//	ctx.RegisterValue(cfg, loom.WithNames("config"))
func (c *Context) RegisterValue(value any, opts ...Option) *Producer {
	recipe := func([]any) (any, error) { return value, nil }
	return c.Register(NewProducer(reflect.TypeOf(value), recipe, nil, opts...))
}

// RegisterFunction registers a partially-injected callable: params mirrors
// fn's parameters, [PassThrough] entries stay open, the rest are resolved
// from the graph once. The registered artifact is a new function taking
// only the pass-through parameters. See the package documentation.
func (c *Context) RegisterFunction(fn any, params []Qualifier, opts ...Option) (*Producer, error) {
	p, err := newFunctionProducer(fn, params, opts...)
	if err != nil {
		return nil, err
	}
	return c.Register(p), nil
}

// ── Generic helpers ──────────────────────────────────────────────────────────

// Resolve resolves an artifact by type. The preferred call convention:
//
//	db, err := loom.Resolve[*Database](ctx)
//
// Fails with [ErrSyncRequired] when construction is still pending; use
// [Context.GetAsync] for deferred graphs.
func Resolve[T any](c *Context, args ...any) (T, error) {
	return assertResolved[T](c.GetSync(TypeOf[T](), args...))
}

// ResolveNamed resolves an artifact by (type, name) pair:
//
//	db, err := loom.ResolveNamed[*Database](ctx, "primary")
func ResolveNamed[T any](c *Context, name Name, args ...any) (T, error) {
	return assertResolved[T](c.GetSync(Qualify(TypeOf[T](), name), args...))
}

func assertResolved[T any](v any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("loom: cannot convert %T to %s", v, TypeOf[T]())
	}
	return out, nil
}
