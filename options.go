package loom

import "reflect"

// Option configures a producer at creation time.
type Option func(*Producer)

// WithScope sets the producer's [Scope]. The default is [Singleton].
func WithScope(s Scope) Option {
	return func(p *Producer) {
		p.scope = s
	}
}

// WithNames adds alias names. Each alias is registered on its own and
// paired with every registration type of the producer.
func WithNames(names ...Name) Option {
	return func(p *Producer) {
		p.aliases = append(p.aliases, names...)
	}
}

// As adds extra registration types, typically interfaces the artifact
// satisfies:
//
//	ctx.RegisterClass(loom.TypeOf[*S3Store](), recipe, nil,
//	    loom.As(loom.TypeOf[Store]()))
func As(types ...reflect.Type) Option {
	return func(p *Producer) {
		p.extra = append(p.extra, types...)
	}
}

// WithHierarchy overrides the [Hierarchy] used to compute the ancestor
// fan-out at registration. The default is [DefaultHierarchy].
func WithHierarchy(h Hierarchy) Option {
	return func(p *Producer) {
		p.hierarchy = h
	}
}
