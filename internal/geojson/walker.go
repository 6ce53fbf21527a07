// Package geojson walks GeoJSON structures and turns their geometries into display elements.
package geojson

import (
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/simplemap/internal/coords"
	"github.com/woozymasta/simplemap/internal/element"
	"github.com/woozymasta/simplemap/internal/geo"
)

// Walker converts GeoJSON geometries with pluggable builders.
type Walker struct {
	norm          *coords.Normalizer
	pointsAs      element.Builder
	linesAs       element.Builder
	areasAs       element.Builder
	popupProperty string
}

// WalkerOption configures a Walker.
type WalkerOption func(*Walker)

// PointsAs sets the builder used for Point and MultiPoint positions.
func PointsAs(b element.Builder) WalkerOption { return func(w *Walker) { w.pointsAs = b } }

// LinesAs sets the builder used for LineString and MultiLineString lines.
func LinesAs(b element.Builder) WalkerOption { return func(w *Walker) { w.linesAs = b } }

// AreasAs sets the builder used for every ring of Polygon and MultiPolygon.
func AreasAs(b element.Builder) WalkerOption { return func(w *Walker) { w.areasAs = b } }

// PopupProperty copies the named feature property into the popup of the
// elements built for that feature. Only element.Partial builders are affected.
func PopupProperty(name string) WalkerOption { return func(w *Walker) { w.popupProperty = name } }

// NewWalker returns a walker using markers, lines and areas from f unless overridden.
func NewWalker(f *element.Factory, opts ...WalkerOption) *Walker {
	w := &Walker{
		norm:     f.Normalizer(),
		pointsAs: f.Marker(),
		linesAs:  f.Line(),
		areasAs:  f.Area(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Walk returns the elements of src lazily. src is a file path or an already
// parsed structure: generic maps and slices, or geo.FeatureCollection,
// geo.Feature and geo.Geometry values. Nothing is read or parsed until the
// sequence is pulled; the first error ends it.
//
// Positions are [lon, lat] and are swapped. Every ring of a polygon becomes
// its own area. Unknown geometry types are skipped.
func (w *Walker) Walk(src any) element.Seq {
	return func(yield func(any, error) bool) {
		data := src
		if path, ok := src.(string); ok {
			loaded, err := Load(path)
			if err != nil {
				yield(nil, err)
				return
			}
			data = loaded
		}
		w.walk(data, nil, yield)
	}
}

// WalkAll returns one nested sequence per source, in order.
func (w *Walker) WalkAll(srcs ...any) element.Seq {
	return func(yield func(any, error) bool) {
		for _, src := range srcs {
			if !yield(w.Walk(src), nil) {
				return
			}
		}
	}
}

// walk reports false once the consumer stopped or an error was yielded.
func (w *Walker) walk(data any, props map[string]any, yield func(any, error) bool) bool {
	switch d := data.(type) {
	case nil:
		return true
	case map[string]any:
		return w.walkObject(d, props, yield)
	case []any:
		for _, item := range d {
			if !w.walk(item, props, yield) {
				return false
			}
		}
		return true

	case geo.FeatureCollection:
		return w.walkFeatures(d.Features, yield)
	case *geo.FeatureCollection:
		if d == nil {
			return true
		}
		return w.walkFeatures(d.Features, yield)
	case geo.Feature:
		return w.walkGeometry(d.Geometry, d.Properties, yield)
	case *geo.Feature:
		if d == nil {
			return true
		}
		return w.walkGeometry(d.Geometry, d.Properties, yield)
	case geo.Geometry:
		return w.walkGeometry(&d, props, yield)
	case *geo.Geometry:
		return w.walkGeometry(d, props, yield)
	}

	ok := true
	isSeq := coords.Each(data, func(item any) bool {
		ok = w.walk(item, props, yield)
		return ok
	})
	if !isSeq {
		log.Debug().Type("value", data).Msg("Skipping value that is neither a GeoJSON object nor a list")
	}
	return ok
}

func (w *Walker) walkObject(obj map[string]any, props map[string]any, yield func(any, error) bool) bool {
	raw, found := obj["type"]
	if !found || raw == nil {
		return fail(yield, &MalformedError{Value: obj, Reason: "no 'type' key present"})
	}
	typ, ok := raw.(string)
	if !ok {
		return fail(yield, &MalformedError{Value: obj, Reason: "'type' is not a string"})
	}

	switch typ {
	case "FeatureCollection":
		features, _ := obj["features"].([]any)
		for _, feature := range features {
			f, ok := feature.(map[string]any)
			if !ok {
				return fail(yield, &MalformedError{Value: feature, Reason: "feature is not an object"})
			}
			if !w.walkFeatureObject(f, yield) {
				return false
			}
		}
		return true

	case "Feature":
		return w.walkFeatureObject(obj, yield)

	case "GeometryCollection":
		geometries, _ := obj["geometries"].([]any)
		for _, g := range geometries {
			if !w.walk(g, props, yield) {
				return false
			}
		}
		return true

	case "Point", "MultiPoint", "LineString", "MultiLineString", "Polygon", "MultiPolygon":
		coordinates, found := obj["coordinates"]
		if !found {
			return fail(yield, &MalformedError{Value: obj, Reason: "no 'coordinates' key present"})
		}
		return w.emit(typ, coordinates, props, yield)
	}

	log.Debug().Str("type", typ).Msg("Skipping unsupported GeoJSON type")
	return true
}

func (w *Walker) walkFeatureObject(f map[string]any, yield func(any, error) bool) bool {
	props, _ := f["properties"].(map[string]any)
	return w.walk(f["geometry"], props, yield)
}

func (w *Walker) walkFeatures(features []geo.Feature, yield func(any, error) bool) bool {
	for i := range features {
		if !w.walkGeometry(features[i].Geometry, features[i].Properties, yield) {
			return false
		}
	}
	return true
}

func (w *Walker) walkGeometry(g *geo.Geometry, props map[string]any, yield func(any, error) bool) bool {
	if g == nil {
		return true
	}
	if g.Type == "" {
		return fail(yield, &MalformedError{Value: *g, Reason: "no 'type' key present"})
	}

	switch g.Type {
	case "GeometryCollection":
		for i := range g.Geometries {
			if !w.walkGeometry(&g.Geometries[i], props, yield) {
				return false
			}
		}
		return true
	case "Point", "MultiPoint", "LineString", "MultiLineString", "Polygon", "MultiPolygon":
		return w.emit(g.Type, g.Coordinates, props, yield)
	}

	log.Debug().Str("type", g.Type).Msg("Skipping unsupported GeoJSON type")
	return true
}

// emit normalizes [lon, lat] coordinates and yields the elements built from them.
func (w *Walker) emit(typ string, coordinates any, props map[string]any, yield func(any, error) bool) bool {
	node, err := w.norm.NormalizeInverted(coordinates)
	if err != nil {
		return fail(yield, err)
	}

	switch typ {
	case "Point", "MultiPoint":
		b := w.withPopup(w.pointsAs, props)
		for _, p := range coords.ExtractPoints(node) {
			if !w.build(b, p, yield) {
				return false
			}
		}
		return true
	}

	// LineString and MultiLineString give lines, every ring of
	// Polygon and MultiPolygon gives an area
	b := w.withPopup(w.linesAs, props)
	if typ == "Polygon" || typ == "MultiPolygon" {
		b = w.withPopup(w.areasAs, props)
	}

	paths, err := coords.ExtractPaths(node)
	if err != nil {
		return fail(yield, err)
	}
	for _, path := range paths {
		if !w.build(b, path, yield) {
			return false
		}
	}
	return true
}

func (w *Walker) build(b element.Builder, source any, yield func(any, error) bool) bool {
	elements, err := b.Build(source)
	if err != nil {
		return fail(yield, err)
	}
	for _, el := range elements {
		if !yield(el, nil) {
			return false
		}
	}
	return true
}

func (w *Walker) withPopup(b element.Builder, props map[string]any) element.Builder {
	if w.popupProperty == "" || props == nil {
		return b
	}
	value, ok := props[w.popupProperty]
	if !ok {
		return b
	}
	if partial, ok := b.(element.Partial); ok {
		return partial.With(element.Popup(value))
	}
	return b
}

// fail yields err and ends the walk.
func fail(yield func(any, error) bool, err error) bool {
	yield(nil, err)
	return false
}
