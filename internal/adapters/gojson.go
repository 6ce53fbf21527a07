package adapters

import (
	"fmt"

	gj "github.com/paulmach/go.geojson"

	"github.com/woozymasta/simplemap/internal/coords"
	"github.com/woozymasta/simplemap/internal/geo"
)

// RegisterGeoJSON installs converters for github.com/paulmach/go.geojson values.
// Coordinates are swapped from [lon, lat]; polygons keep their exterior ring.
func RegisterGeoJSON(reg *coords.Registry) {
	coords.Register(reg, convertGeometry)
	coords.Register(reg, func(f *gj.Feature) (any, error) {
		if f.Geometry == nil {
			return []any{}, nil
		}
		return f.Geometry, nil
	})
	coords.Register(reg, func(fc *gj.FeatureCollection) (any, error) {
		geometries := make([]*gj.Geometry, 0, len(fc.Features))
		for _, f := range fc.Features {
			if f.Geometry != nil {
				geometries = append(geometries, f.Geometry)
			}
		}
		return geometries, nil
	})
}

func convertGeometry(g *gj.Geometry) (any, error) {
	switch g.Type {
	case gj.GeometryPoint:
		return lonLat(g.Point)
	case gj.GeometryMultiPoint:
		return lonLatPath(g.MultiPoint)
	case gj.GeometryLineString:
		return lonLatPath(g.LineString)
	case gj.GeometryMultiLineString:
		return lonLatPaths(g.MultiLineString)
	case gj.GeometryPolygon:
		return exterior(g.Polygon)
	case gj.GeometryMultiPolygon:
		paths := make([]geo.Path, 0, len(g.MultiPolygon))
		for _, polygon := range g.MultiPolygon {
			ring, err := exterior(polygon)
			if err != nil {
				return nil, err
			}
			paths = append(paths, ring)
		}
		return paths, nil
	case gj.GeometryCollection:
		return g.Geometries, nil
	}
	return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
}

func lonLat(c []float64) (geo.Point, error) {
	if len(c) < 2 {
		return geo.Point{}, fmt.Errorf("position needs 2 values, got %d", len(c))
	}
	return geo.Point{Lat: c[1], Lon: c[0]}, nil
}

func lonLatPath(cs [][]float64) (geo.Path, error) {
	path := make(geo.Path, len(cs))
	for i, c := range cs {
		p, err := lonLat(c)
		if err != nil {
			return nil, err
		}
		path[i] = p
	}
	return path, nil
}

func lonLatPaths(css [][][]float64) ([]geo.Path, error) {
	paths := make([]geo.Path, len(css))
	for i, cs := range css {
		path, err := lonLatPath(cs)
		if err != nil {
			return nil, err
		}
		paths[i] = path
	}
	return paths, nil
}

func exterior(rings [][][]float64) (geo.Path, error) {
	if len(rings) == 0 {
		return geo.Path{}, nil
	}
	return lonLatPath(rings[0])
}
