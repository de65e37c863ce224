// Package proxy provides the generic decorator mechanism used to layer
// cross-cutting behavior (notifications, and anything stacked on top of them)
// over task entities, repositories and factories without the entities
// knowing about it.
//
// A Helper is built from a wrap function that turns a value into its
// decorated form. Repository and factory proxies use a Helper to wrap what
// they hand out and to unwrap what they are given back, so the layer below
// always sees the values it produced.
package proxy

import "reflect"

// Unwrapper is implemented by decorators that can return the value they wrap.
type Unwrapper[T any] interface {
	Base() T
}

// Helper wraps and unwraps values of type T. The zero value is a Helper with
// no wrap function, for which Proxy and Unproxy are the identity.
type Helper[T any] struct {
	wrap func(T) T
}

// NewHelper creates a Helper that decorates values with wrap. A nil wrap
// yields an identity Helper.
func NewHelper[T any](wrap func(T) T) Helper[T] {
	return Helper[T]{wrap: wrap}
}

// Proxy returns x decorated by the wrap function. A nil x, including a typed
// nil pointer held in an interface, is returned as is.
func (h Helper[T]) Proxy(x T) T {
	if h.wrap == nil || isNil(x) {
		return x
	}
	return h.wrap(x)
}

// Unproxy returns the value x wraps. Values that do not implement
// Unwrapper[T] are returned unchanged, as is a nil x of any kind.
func (h Helper[T]) Unproxy(x T) T {
	if h.wrap == nil || isNil(x) {
		return x
	}
	if u, ok := any(x).(Unwrapper[T]); ok {
		return u.Base()
	}
	return x
}

func isNil[T any](x T) bool {
	v := reflect.ValueOf(any(x))
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
