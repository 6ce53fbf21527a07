package adapters

import (
	"github.com/golang/geo/s2"

	"github.com/woozymasta/simplemap/internal/coords"
)

// RegisterS2 installs converters for github.com/golang/geo/s2 values.
func RegisterS2(reg *coords.Registry) {
	coords.Register(reg, func(ll s2.LatLng) (any, error) {
		return []float64{ll.Lat.Degrees(), ll.Lng.Degrees()}, nil
	})
	coords.Register(reg, func(p s2.Point) (any, error) {
		return s2.LatLngFromPoint(p), nil
	})
	coords.Register(reg, func(pl s2.Polyline) (any, error) {
		return []s2.Point(pl), nil
	})
	coords.Register(reg, func(pl *s2.Polyline) (any, error) {
		return []s2.Point(*pl), nil
	})
	coords.Register(reg, func(l *s2.Loop) (any, error) {
		return l.Vertices(), nil
	})
}
