// Package raster renders maps to images, optionally over downloaded basemap tiles.
package raster

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"
	"net/http"
	"strings"

	"github.com/chai2010/webp"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/simplemap/internal/geo"
	"github.com/woozymasta/simplemap/internal/render"
	"github.com/woozymasta/simplemap/internal/tiles"
)

const (
	tileSize = 256

	defaultWidth       = 800
	defaultHeight      = 600
	defaultConcurrency = 4
	defaultBackground  = "#f2efe9"
)

// Backend creates image canvases.
type Backend struct {
	// Client downloads basemap tiles. Without one only the background is painted.
	Client *http.Client
	// Background is a color name or hex code.
	Background  string
	Width       int
	Height      int
	Concurrency int
}

// CreateMap implements render.Backend.
func (b *Backend) CreateMap(center geo.Point, zoom float64, tileName string) (render.Map, error) {
	width, height := b.Width, b.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	bg := b.Background
	if bg == "" {
		bg = defaultBackground
	}
	bgColor, err := ParseColor(bg, 1)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}

	provider, err := tiles.Lookup(tileName)
	if err != nil {
		return nil, err
	}

	cx, cy := geo.Project(center, zoom, tileSize)
	c := &Canvas{
		img:     image.NewRGBA(image.Rect(0, 0, width, height)),
		zoom:    zoom,
		originX: cx - float64(width)/2,
		originY: cy - float64(height)/2,
	}
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(bgColor), image.Point{}, draw.Src)

	if b.Client != nil {
		concurrency := b.Concurrency
		if concurrency <= 0 {
			concurrency = defaultConcurrency
		}
		c.drawTiles(b.Client, concurrency, provider)
	}

	log.Debug().
		Int("width", width).
		Int("height", height).
		Float64("zoom", zoom).
		Str("tiles", provider.Name).
		Msg("Canvas created")

	return c, nil
}

// Canvas is a map drawn in memory.
type Canvas struct {
	img     *image.RGBA
	zoom    float64
	originX float64
	originY float64
}

// Image returns the drawn image.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Pixel returns the position of p on the canvas.
func (c *Canvas) Pixel(p geo.Point) (x, y float64) {
	wx, wy := geo.Project(p, c.zoom, tileSize)
	return wx - c.originX, wy - c.originY
}

// Encode writes the image as "webp" or "png".
func (c *Canvas) Encode(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "webp":
		return webp.Encode(w, c.img, &webp.Options{Lossless: false, Quality: 85})
	case "png":
		return png.Encode(w, c.img)
	}
	return fmt.Errorf("unsupported image format %q", format)
}

// AddMarker implements render.Map. Icons are reduced to their text.
func (c *Canvas) AddMarker(pos geo.Point, icon *render.Icon, _ any) error {
	x, y := c.Pixel(pos)
	if icon == nil {
		c.drawPin(x, y)
		return nil
	}
	return c.drawIcon(x, y, icon.HTML)
}

// AddCircle implements render.Map.
func (c *Canvas) AddCircle(pos geo.Point, style render.CircleStyle, _ any) error {
	x, y := c.Pixel(pos)
	ring := circle(x, y, style.Radius)

	if err := c.fillWith(style.FillColor, style.FillOpacity, [][]vec{ring}); err != nil {
		return err
	}
	if style.Weight > 0 {
		return c.fillWith(style.Color, 1, stroke(ring, true, style.Weight))
	}
	return nil
}

// AddPolyline implements render.Map.
func (c *Canvas) AddPolyline(path geo.Path, style render.PathStyle, _ any) error {
	return c.fillWith(style.Color, style.Opacity, stroke(c.pixels(path), false, style.Weight))
}

// AddPolygon implements render.Map.
func (c *Canvas) AddPolygon(path geo.Path, style render.PathStyle, _ any) error {
	ring := c.pixels(path)
	if style.Fill {
		if err := c.fillWith(style.FillColor, style.FillOpacity, [][]vec{ring}); err != nil {
			return err
		}
	}
	if style.Weight > 0 {
		return c.fillWith(style.Color, style.Opacity, stroke(ring, true, style.Weight))
	}
	return nil
}

func (c *Canvas) pixels(path geo.Path) []vec {
	out := make([]vec, len(path))
	for i, p := range path {
		out[i].x, out[i].y = c.Pixel(p)
	}
	return out
}

func (c *Canvas) fillWith(name string, opacity float64, paths [][]vec) error {
	if name == "" || opacity <= 0 {
		return nil
	}
	col, err := ParseColor(name, opacity)
	if err != nil {
		return err
	}
	fill(c.img, paths, col)
	return nil
}

func (c *Canvas) drawPin(x, y float64) {
	fill(c.img, [][]vec{circle(x, y, 7)}, pinColor)
	fill(c.img, stroke(circle(x, y, 7), true, 2), pinBorder)
	fill(c.img, [][]vec{circle(x, y, 2.5)}, pinCenter)
}

// tileZoom returns the integer tile level used for zoom and the scale of its tiles.
func tileZoom(zoom float64, maxZoom int) (int, float64) {
	z := int(math.Floor(zoom))
	if z < 0 {
		z = 0
	}
	if maxZoom > 0 && z > maxZoom {
		z = maxZoom
	}
	return z, math.Exp2(zoom - float64(z))
}
