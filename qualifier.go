package loom

import (
	"fmt"
	"reflect"
	"sync"
)

// ── Qualifiers ───────────────────────────────────────────────────────────────

// Qualifier is a lookup key for a registered [Producer]. Three kinds are
// recognised:
//
//   - reflect.Type: lookup by artifact type (use [TypeOf])
//   - [Name]: lookup by registered name
//   - *[QualifiedType]: lookup by (type, name) pair (use [Qualify])
//
// All three kinds are comparable and safe to use as map keys. Types are
// compared by identity, never structurally.
type Qualifier any

// Name is a string lookup key. Producers carry zero or more alias names;
// each alias is registered both on its own and paired with every
// registration type of the producer.
type Name string

// PassThrough marks a producer parameter that is not resolved from the
// graph. The caller supplies its value at request time instead; values are
// consumed left to right, one per pass-through position.
var PassThrough Qualifier = passThrough{}

type passThrough struct{}

// TypeOf returns the reflect.Type qualifier for T. Works for interface
// types as well as concrete ones:
//
//	ctx.Get(loom.TypeOf[*Database]())
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// ── QualifiedType ────────────────────────────────────────────────────────────

// QualifiedType is a (type, name) pair. Exactly one instance exists
// process-wide per combination, so pointer identity can serve as a map key
// and an equality check.
type QualifiedType struct {
	Type reflect.Type
	Name Name
}

func (q *QualifiedType) String() string {
	return fmt.Sprintf("(%s, %q)", q.Type, string(q.Name))
}

// interned is the process-wide QualifiedType table. Entries persist for the
// process lifetime; cardinality is bounded by registrations, not requests.
var interned = struct {
	mu    sync.Mutex
	pairs map[reflect.Type]map[Name]*QualifiedType
}{pairs: make(map[reflect.Type]map[Name]*QualifiedType)}

// Qualify returns the unique *QualifiedType for the (t, name) pair,
// creating and interning it on first use.
func Qualify(t reflect.Type, name Name) *QualifiedType {
	interned.mu.Lock()
	defer interned.mu.Unlock()

	byName, ok := interned.pairs[t]
	if !ok {
		byName = make(map[Name]*QualifiedType)
		interned.pairs[t] = byName
	}
	if q, ok := byName[name]; ok {
		return q
	}
	q := &QualifiedType{Type: t, Name: name}
	byName[name] = q
	return q
}

// FormatQualifier renders a qualifier for error messages and logs.
func FormatQualifier(q Qualifier) string {
	switch k := q.(type) {
	case reflect.Type:
		return k.String()
	case Name:
		return fmt.Sprintf("name %q", string(k))
	case *QualifiedType:
		return k.String()
	case passThrough:
		return "pass-through"
	default:
		return fmt.Sprintf("%v", q)
	}
}
