package loom

import (
	"fmt"
	"reflect"
)

// ── Function producer ────────────────────────────────────────────────────────

// newFunctionProducer wraps fn so that its non-pass-through parameters are
// resolved from the graph once, and the produced artifact is a new callable
// over just the pass-through parameters. Calling the artifact interleaves
// the pre-resolved values and the caller's arguments back into fn's
// declaration order.
//
// The artifact's type is reflect.FuncOf(pass-through params, fn's results),
// which is also the producer's registration type.
func newFunctionProducer(fn any, params []Qualifier, opts ...Option) (*Producer, error) {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()

	if ft.Kind() != reflect.Func {
		return nil, fmt.Errorf("loom: RegisterFunction needs a function, got %T", fn)
	}
	if ft.IsVariadic() {
		return nil, fmt.Errorf("loom: RegisterFunction does not support variadic functions")
	}
	if len(params) != ft.NumIn() {
		return nil, fmt.Errorf("loom: %s has %d parameters, %d qualifiers given", ft, ft.NumIn(), len(params))
	}

	// Split declaration positions into injected and open ones.
	var injected []Qualifier
	var openIdx []int
	passAt := make([]bool, ft.NumIn())
	for i, q := range params {
		if q == PassThrough {
			passAt[i] = true
			openIdx = append(openIdx, i)
			continue
		}
		injected = append(injected, q)
	}

	openTypes := make([]reflect.Type, len(openIdx))
	for i, at := range openIdx {
		openTypes[i] = ft.In(at)
	}
	outTypes := make([]reflect.Type, ft.NumOut())
	for i := range outTypes {
		outTypes[i] = ft.Out(i)
	}
	partialType := reflect.FuncOf(openTypes, outTypes, false)

	recipe := func(resolved []any) (any, error) {
		partial := reflect.MakeFunc(partialType, func(callArgs []reflect.Value) []reflect.Value {
			full := make([]reflect.Value, ft.NumIn())
			ri, ci := 0, 0
			for i := 0; i < ft.NumIn(); i++ {
				if passAt[i] {
					full[i] = callArgs[ci]
					ci++
					continue
				}
				full[i] = argValue(resolved[ri], ft.In(i))
				ri++
			}
			return fv.Call(full)
		})
		return partial.Interface(), nil
	}

	return NewProducer(partialType, recipe, injected, opts...), nil
}

// argValue converts a resolved any into a reflect.Value usable as a call
// argument of type want. Nil needs special handling: reflect.ValueOf(nil)
// is not a valid call argument.
func argValue(v any, want reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(want)
	}
	rv := reflect.ValueOf(v)
	if rv.Type() != want && rv.Type().ConvertibleTo(want) && !rv.Type().AssignableTo(want) {
		return rv.Convert(want)
	}
	return rv
}
