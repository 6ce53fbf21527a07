// Package coords normalizes heterogeneous coordinate sources into points and point sequences.
//
// A source is resolved by the following rules, in order, each tried only when
// the previous one does not apply:
//
//  1. a converter registered for the exact dynamic type is applied and its result
//     is resolved again, so conversions can chain;
//  2. a geo.Point (or non nil *geo.Point) is returned unchanged;
//  3. a lazy sequence (iter.Seq shaped function or channel) is drained into a slice;
//  4. attribute probes (lat/lon, latitude/longitude, latitude_deg/longitude_deg,
//     position_llh) extract a point from structs, maps and methods;
//  5. a sequence of exactly one item is unwrapped;
//  6. a sequence of two or three plain numbers is a (lat, lon) point, or (lon, lat)
//     in inverted mode, the third number being an ignored altitude;
//  7. any other sequence is resolved item by item;
//  8. anything else is an InvalidSourceError.
//
// Checking for numeric pairs before recursing keeps [10, 20] a point while
// [[10, 20], [30, 40]] stays a sequence of two points.
package coords

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/woozymasta/simplemap/internal/geo"
)

// maxConversions bounds registry chains so a converter returning its own type fails.
const maxConversions = 32

// MaxDepth bounds how deeply sequences may nest, so a sequence holding itself fails.
const MaxDepth = 256

var errTooDeep = &InvalidSourceError{Reason: fmt.Sprintf("sequences nested deeper than %d levels", MaxDepth)}

// Normalizer resolves coordinate sources using its conversion registry.
type Normalizer struct {
	registry *Registry
}

// NewNormalizer returns a normalizer owning reg. A nil registry means no conversions.
func NewNormalizer(reg *Registry) *Normalizer {
	if reg == nil {
		reg = NewRegistry()
	}
	return &Normalizer{registry: reg}
}

// Registry returns the registry used for conversions.
func (n *Normalizer) Registry() *Registry {
	return n.registry
}

// Normalize resolves v reading numeric pairs as (lat, lon).
func (n *Normalizer) Normalize(v any) (Node, error) {
	return n.resolve(v, false, 0, 0)
}

// NormalizeInverted resolves v reading numeric pairs as (lon, lat), the GeoJSON order.
func (n *Normalizer) NormalizeInverted(v any) (Node, error) {
	return n.resolve(v, true, 0, 0)
}

// Point resolves v and requires the result to be a single point.
func (n *Normalizer) Point(v any) (geo.Point, error) {
	node, err := n.Normalize(v)
	if err != nil {
		return geo.Point{}, err
	}
	if !node.IsPoint() {
		return geo.Point{}, &InvalidSourceError{Value: v, Reason: "expected a single point"}
	}
	return node.Point(), nil
}

// Points resolves v and returns every point found in it.
func (n *Normalizer) Points(v any) ([]geo.Point, error) {
	node, err := n.Normalize(v)
	if err != nil {
		return nil, err
	}
	return ExtractPoints(node), nil
}

// Paths resolves v and returns every maximal sequence of points found in it.
func (n *Normalizer) Paths(v any) ([]geo.Path, error) {
	node, err := n.Normalize(v)
	if err != nil {
		return nil, err
	}
	return ExtractPaths(node)
}

// Convert applies a single registered conversion to v.
// It reports false when no converter is registered for the type of v.
func (n *Normalizer) Convert(v any) (any, bool, error) {
	fn, ok := n.registry.Lookup(v)
	if !ok {
		return v, false, nil
	}
	out, err := fn(v)
	if err != nil {
		return nil, true, fmt.Errorf("convert %T: %w", v, err)
	}
	return out, true, nil
}

func (n *Normalizer) resolve(v any, inverted bool, conversions, depth int) (Node, error) {
	if depth > MaxDepth {
		return Node{}, errTooDeep
	}

	if fn, ok := n.registry.Lookup(v); ok {
		if conversions >= maxConversions {
			return Node{}, &InvalidSourceError{Value: v, Reason: "conversion chain too long"}
		}
		out, err := fn(v)
		if err != nil {
			return Node{}, fmt.Errorf("convert %T: %w", v, err)
		}
		return n.resolve(out, inverted, conversions+1, depth)
	}

	switch p := v.(type) {
	case nil:
		return Node{}, &InvalidSourceError{Value: v}
	case geo.Point:
		return PointNode(p), nil
	case *geo.Point:
		if p != nil {
			return PointNode(*p), nil
		}
	}

	if isLazy(v) {
		v = materialize(v)
	}

	point, ok, err := probePoint(v)
	if err != nil {
		return Node{}, err
	}
	if ok {
		return PointNode(point), nil
	}

	items, ok := sequenceItems(v)
	if !ok {
		return Node{}, &InvalidSourceError{Value: v}
	}

	switch len(items) {
	case 1:
		return n.resolve(items[0], inverted, conversions, depth+1)
	case 2, 3:
		if first, second, ok := numericPair(items); ok {
			if inverted {
				first, second = second, first
			}
			return PointNode(geo.Point{Lat: first, Lon: second}), nil
		}
	}

	nodes := make([]Node, 0, len(items))
	for _, item := range items {
		node, err := n.resolve(item, inverted, conversions, depth+1)
		if err != nil {
			return Node{}, err
		}
		nodes = append(nodes, node)
	}

	return SeqNode(nodes...), nil
}

// numericPair returns the first two items when every item is a plain number.
func numericPair(items []any) (float64, float64, bool) {
	values := make([]float64, len(items))
	for i, item := range items {
		f, ok := toFloat(item)
		if !ok {
			return 0, 0, false
		}
		values[i] = f
	}
	return values[0], values[1], true
}

// toFloat converts integer, unsigned, float and json.Number values.
// Booleans are never numbers.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case nil, bool:
		return 0, false
	case float64:
		return x, true
	case int:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
