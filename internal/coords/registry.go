package coords

import "reflect"

// Converter reduces an instance of a foreign type toward coordinates. It may return
// a raw pair, a geo.Point, a sequence of either, or a value of another registered type.
type Converter func(v any) (any, error)

// Registry maps exact runtime types to converters.
// It is not safe for concurrent registration.
type Registry struct {
	converters map[reflect.Type]Converter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{converters: make(map[reflect.Type]Converter)}
}

// Register stores fn for values whose dynamic type is exactly typ.
// An existing entry for the same type is replaced.
func (r *Registry) Register(typ reflect.Type, fn Converter) {
	r.converters[typ] = fn
}

// Register is the typed form of Registry.Register, keyed by the type parameter.
func Register[T any](r *Registry, fn func(T) (any, error)) {
	r.Register(reflect.TypeFor[T](), func(v any) (any, error) {
		return fn(v.(T))
	})
}

// Lookup returns the converter registered for the dynamic type of v.
func (r *Registry) Lookup(v any) (Converter, bool) {
	if r == nil || v == nil {
		return nil, false
	}
	fn, ok := r.converters[reflect.TypeOf(v)]
	return fn, ok
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.converters)
}
