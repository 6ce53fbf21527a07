// Package geo holds the canonical coordinate types and the projection math used for display.
package geo

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is a canonical (latitude, longitude) pair.
// No range validation is done; the geographic meaning belongs to the caller.
type Point struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Path is an ordered sequence of points, a line or a ring boundary.
type Path []Point

// String implements fmt.Stringer.
func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.Lat, p.Lon)
}

// LatLng returns the point as a [lat, lon] pair, the order used by Leaflet.
func (p Point) LatLng() [2]float64 {
	return [2]float64{p.Lat, p.Lon}
}

// LatLngs returns the path as a list of [lat, lon] pairs.
func (p Path) LatLngs() [][2]float64 {
	out := make([][2]float64, len(p))
	for i, pt := range p {
		out[i] = pt.LatLng()
	}
	return out
}

// ParsePoint parses a "lat,lon" pair as written on command lines and in query strings.
func ParsePoint(s string) (Point, error) {
	lat, lon, ok := strings.Cut(s, ",")
	latV, errLat := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	lonV, errLon := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if !ok || errLat != nil || errLon != nil {
		return Point{}, fmt.Errorf("invalid center %q, expected lat,lon", s)
	}
	return Point{Lat: latV, Lon: lonV}, nil
}
