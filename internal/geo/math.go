package geo

import "math"

// MaxLat is the latitude limit of the Web Mercator projection.
const MaxLat = 85.05112878

// Project converts a point to Web Mercator world pixel coordinates
// for the given zoom level and tile size. Zoom may be fractional.
//
// The world spans tileSize*2^zoom pixels on both axes, x growing east
// from lon -180 and y growing south from lat MaxLat.
func Project(p Point, zoom float64, tileSize int) (x, y float64) {
	worldSize := WorldSize(zoom, tileSize)

	lat := p.Lat
	if lat > MaxLat {
		lat = MaxLat
	} else if lat < -MaxLat {
		lat = -MaxLat
	}

	x = (p.Lon + 180.0) / 360.0 * worldSize

	latRad := lat * math.Pi / 180.0
	mercatorY := math.Log(math.Tan(math.Pi*0.25 + latRad*0.5))
	y = (1.0 - mercatorY/math.Pi) * 0.5 * worldSize

	return x, y
}

// Unproject converts Web Mercator world pixel coordinates back to a point.
func Unproject(x, y, zoom float64, tileSize int) Point {
	worldSize := WorldSize(zoom, tileSize)

	lon := x/worldSize*360.0 - 180.0

	// Inverse Mercator projection
	mercatorY := math.Pi * (1.0 - 2.0*y/worldSize)
	latRad := (2.0 * math.Atan(math.Exp(mercatorY))) - (math.Pi * 0.5)

	return Point{Lat: latRad * (180.0 / math.Pi), Lon: lon}
}

// WorldSize returns the side of the projected world in pixels.
func WorldSize(zoom float64, tileSize int) float64 {
	return float64(tileSize) * math.Exp2(zoom)
}
