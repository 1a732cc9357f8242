package loom

import "reflect"

// ── Type hierarchy ───────────────────────────────────────────────────────────

// Hierarchy enumerates the ancestor types a producer should also be
// registered under. The fan-out is computed once at registration time, so a
// custom Hierarchy only needs to be cheap-ish, not cached.
type Hierarchy interface {
	// Ancestors returns the ancestor chain of t, nearest first. It must not
	// include t itself.
	Ancestors(t reflect.Type) []reflect.Type
}

// DefaultHierarchy walks anonymous (embedded) fields: for
//
//	type Sub struct{ Base }
//
// Ancestors(Sub) reports Base, then Base's own embedded ancestors, and so
// on. Pointer types are dereferenced before walking. Interface
// registrations are explicit instead, see [As].
var DefaultHierarchy Hierarchy = embeddedHierarchy{}

type embeddedHierarchy struct{}

func (embeddedHierarchy) Ancestors(t reflect.Type) []reflect.Type {
	seen := map[reflect.Type]bool{t: true}
	var out []reflect.Type

	var walk func(reflect.Type)
	walk = func(cur reflect.Type) {
		if cur.Kind() == reflect.Ptr {
			cur = cur.Elem()
		}
		if cur.Kind() != reflect.Struct {
			return
		}
		for i := 0; i < cur.NumField(); i++ {
			f := cur.Field(i)
			if !f.Anonymous {
				continue
			}
			if seen[f.Type] {
				continue
			}
			seen[f.Type] = true
			out = append(out, f.Type)
			walk(f.Type)
		}
	}

	walk(t)
	return out
}

// FlatHierarchy reports no ancestors; producers are registered under their
// own type (plus any [As] types and aliases) only.
var FlatHierarchy Hierarchy = flatHierarchy{}

type flatHierarchy struct{}

func (flatHierarchy) Ancestors(reflect.Type) []reflect.Type { return nil }
