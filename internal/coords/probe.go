package coords

import (
	"reflect"
	"slices"
	"strings"

	"github.com/woozymasta/simplemap/internal/geo"
)

// probe extracts a point from a value exposing a known pair of attributes.
type probe func(v any) (geo.Point, bool, error)

// probes lists the attribute conventions in priority order; the first whose
// attributes are all present wins:
//
//  1. lat / lon
//  2. latitude / longitude
//  3. latitude_deg / longitude_deg
//  4. position_llh, a (latitude, longitude, height) triple used by orbital position types
//
// An attribute is a map key, an exported struct field (Go name or json tag) or
// a method without arguments, looked up through pointers.
var probes = []probe{
	fieldPair("lat", "lon"),
	fieldPair("latitude", "longitude"),
	fieldPair("latitude_deg", "longitude_deg"),
	geodeticTriple("position_llh", "PositionLLH"),
}

func probePoint(v any) (geo.Point, bool, error) {
	if !probeable(v) {
		return geo.Point{}, false, nil
	}

	for _, p := range probes {
		point, ok, err := p(v)
		if err != nil {
			return geo.Point{}, false, err
		}
		if ok {
			return point, true, nil
		}
	}

	return geo.Point{}, false, nil
}

func fieldPair(latName, lonName string) probe {
	return func(v any) (geo.Point, bool, error) {
		rawLat, ok := attribute(v, latName, exportedName(latName))
		if !ok {
			return geo.Point{}, false, nil
		}
		rawLon, ok := attribute(v, lonName, exportedName(lonName))
		if !ok {
			return geo.Point{}, false, nil
		}

		lat, ok := toFloat(rawLat)
		if !ok {
			return geo.Point{}, false, &InvalidSourceError{Value: v, Reason: latName + " is not a number"}
		}
		lon, ok := toFloat(rawLon)
		if !ok {
			return geo.Point{}, false, &InvalidSourceError{Value: v, Reason: lonName + " is not a number"}
		}

		return geo.Point{Lat: lat, Lon: lon}, true, nil
	}
}

func geodeticTriple(name string, goNames ...string) probe {
	goNames = append(goNames, exportedName(name))
	return func(v any) (geo.Point, bool, error) {
		raw, ok := attribute(v, name, goNames...)
		if !ok {
			return geo.Point{}, false, nil
		}

		items, ok := sequenceItems(raw)
		if !ok || len(items) < 2 || len(items) > 3 {
			return geo.Point{}, false, &InvalidSourceError{Value: v, Reason: name + " is not a (lat, lon, height) triple"}
		}
		lat, latOK := toFloat(items[0])
		lon, lonOK := toFloat(items[1])
		if !latOK || !lonOK {
			return geo.Point{}, false, &InvalidSourceError{Value: v, Reason: name + " holds non numeric values"}
		}

		return geo.Point{Lat: lat, Lon: lon}, true, nil
	}
}

// probeable reports whether v can carry attributes at all (structs and maps).
func probeable(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct, reflect.Map:
		return true
	}
	// named non struct types can still expose methods, orb.Point does
	return reflect.TypeOf(v).NumMethod() > 0
}

// attribute looks up name on v as a map key, or any of goNames as a struct field or method.
func attribute(v any, name string, goNames ...string) (any, bool) {
	rv := reflect.ValueOf(v)

	for _, goName := range goNames {
		if out, ok := method(rv, goName); ok {
			return out, true
		}
	}

	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		value := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !value.IsValid() {
			return nil, false
		}
		return value.Interface(), true

	case reflect.Struct:
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			if jsonName(field) == name || slices.Contains(goNames, field.Name) {
				return rv.Field(i).Interface(), true
			}
		}
		for _, goName := range goNames {
			if out, ok := method(rv, goName); ok {
				return out, true
			}
		}
	}

	return nil, false
}

// method calls a zero argument method; several results are returned as a slice.
// A method that panics, such as one promoted through a nil embedded pointer,
// counts as missing.
func method(rv reflect.Value, name string) (_ any, found bool) {
	if !rv.IsValid() || (rv.Kind() == reflect.Pointer && rv.IsNil()) {
		return nil, false
	}
	m := rv.MethodByName(name)
	if !m.IsValid() || m.Type().NumIn() != 0 || m.Type().NumOut() == 0 {
		return nil, false
	}

	defer func() {
		if r := recover(); r != nil {
			found = false
		}
	}()

	out := m.Call(nil)
	if len(out) == 1 {
		return out[0].Interface(), true
	}

	values := make([]any, len(out))
	for i, o := range out {
		values[i] = o.Interface()
	}
	return values, true
}

func jsonName(f reflect.StructField) string {
	tag, ok := f.Tag.Lookup("json")
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	return name
}

// exportedName converts snake_case to the Go exported form: latitude_deg -> LatitudeDeg.
func exportedName(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
