package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

var (
	pinColor  = color.NRGBA{R: 0x2a, G: 0x81, B: 0xcb, A: 0xff}
	pinBorder = color.NRGBA{R: 0x1f, G: 0x5f, B: 0x96, A: 0xff}
	pinCenter = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

type vec struct {
	x, y float64
}

// fill rasterizes the closed paths as one shape, so overlaps are painted once.
func fill(dst *image.RGBA, paths [][]vec, col color.Color) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over

	drawn := false
	for _, p := range paths {
		if len(p) < 3 {
			continue
		}
		// same winding everywhere, opposite windings would cancel out
		if signedArea(p) < 0 {
			p = reversed(p)
		}
		z.MoveTo(float32(p[0].x), float32(p[0].y))
		for _, v := range p[1:] {
			z.LineTo(float32(v.x), float32(v.y))
		}
		z.ClosePath()
		drawn = true
	}
	if drawn {
		z.Draw(dst, b, image.NewUniform(col), image.Point{})
	}
}

// stroke outlines the polyline with quads along every segment and round joins.
func stroke(p []vec, closed bool, width float64) [][]vec {
	if width <= 0 || len(p) == 0 {
		return nil
	}
	hw := width / 2

	var out [][]vec
	segment := func(a, b vec) {
		dx, dy := b.x-a.x, b.y-a.y
		length := math.Hypot(dx, dy)
		if length == 0 {
			return
		}
		nx, ny := -dy/length*hw, dx/length*hw
		out = append(out, []vec{
			{a.x + nx, a.y + ny},
			{b.x + nx, b.y + ny},
			{b.x - nx, b.y - ny},
			{a.x - nx, a.y - ny},
		})
	}

	for i := 1; i < len(p); i++ {
		segment(p[i-1], p[i])
	}
	if closed && len(p) > 2 {
		segment(p[len(p)-1], p[0])
	}
	for _, v := range p {
		out = append(out, circle(v.x, v.y, hw))
	}
	return out
}

func circle(x, y, r float64) []vec {
	if r <= 0 {
		return nil
	}
	n := int(r * 4)
	n = max(12, min(n, 64))

	out := make([]vec, n)
	for i := range out {
		a := 2 * math.Pi * float64(i) / float64(n)
		out[i] = vec{x + r*math.Cos(a), y + r*math.Sin(a)}
	}
	return out
}

func signedArea(p []vec) float64 {
	var a float64
	for i := range p {
		j := (i + 1) % len(p)
		a += p[i].x*p[j].y - p[j].x*p[i].y
	}
	return a / 2
}

func reversed(p []vec) []vec {
	out := make([]vec, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}
