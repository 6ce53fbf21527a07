package adapters

import (
	"github.com/paulmach/orb"
	orbjson "github.com/paulmach/orb/geojson"

	"github.com/woozymasta/simplemap/internal/coords"
)

// RegisterOrb installs converters for github.com/paulmach/orb geometries.
// orb stores points as [X, Y] = [lon, lat]; polygons are reduced to their exterior ring.
func RegisterOrb(reg *coords.Registry) {
	coords.Register(reg, func(p orb.Point) (any, error) {
		return []float64{p.Lat(), p.Lon()}, nil
	})
	coords.Register(reg, func(mp orb.MultiPoint) (any, error) {
		return []orb.Point(mp), nil
	})
	coords.Register(reg, func(ls orb.LineString) (any, error) {
		return []orb.Point(ls), nil
	})
	coords.Register(reg, func(r orb.Ring) (any, error) {
		return []orb.Point(r), nil
	})
	coords.Register(reg, func(p orb.Polygon) (any, error) {
		if len(p) == 0 {
			return []orb.Point{}, nil
		}
		return p[0], nil
	})
	coords.Register(reg, func(mls orb.MultiLineString) (any, error) {
		return []orb.LineString(mls), nil
	})
	coords.Register(reg, func(mp orb.MultiPolygon) (any, error) {
		return []orb.Polygon(mp), nil
	})
	coords.Register(reg, func(c orb.Collection) (any, error) {
		return []orb.Geometry(c), nil
	})

	coords.Register(reg, func(f *orbjson.Feature) (any, error) {
		return f.Geometry, nil
	})
	coords.Register(reg, func(fc *orbjson.FeatureCollection) (any, error) {
		geometries := make([]orb.Geometry, 0, len(fc.Features))
		for _, f := range fc.Features {
			if f.Geometry != nil {
				geometries = append(geometries, f.Geometry)
			}
		}
		return geometries, nil
	})
}
