// Package render draws display elements onto a map produced by a Backend.
package render

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"

	"github.com/woozymasta/simplemap/internal/coords"
	"github.com/woozymasta/simplemap/internal/element"
	"github.com/woozymasta/simplemap/internal/geo"
)

const (
	// DefaultZoom is used when Options.Zoom is zero.
	DefaultZoom = 1.5
	// DefaultTiles is used when Options.Tiles is empty.
	DefaultTiles = "cartodbpositron"
)

// Backend creates maps that elements are drawn onto.
type Backend interface {
	CreateMap(center geo.Point, zoom float64, tiles string) (Map, error)
}

// Map receives layers in drawing order, later layers on top of earlier ones.
type Map interface {
	AddMarker(pos geo.Point, icon *Icon, popup any) error
	AddCircle(pos geo.Point, style CircleStyle, popup any) error
	AddPolyline(path geo.Path, style PathStyle, popup any) error
	AddPolygon(path geo.Path, style PathStyle, popup any) error
}

// Icon is an HTML marker icon. A nil icon means the backend's default pin.
type Icon struct {
	HTML string
}

// CircleStyle describes a fixed pixel radius circle.
type CircleStyle struct {
	Color       string // stroke
	FillColor   string
	Radius      float64
	Weight      float64
	FillOpacity float64
}

// PathStyle describes polylines and polygons.
type PathStyle struct {
	Color       string // stroke
	FillColor   string
	Weight      float64
	Opacity     float64
	FillOpacity float64
	Fill        bool
}

// Options controls the map created by Draw.
type Options struct {
	// Center is any coordinate source resolving to a single point, (0, 0) when nil.
	Center any
	Tiles  string
	Zoom   float64
}

// Renderer draws things through a backend.
type Renderer struct {
	backend Backend
	norm    *coords.Normalizer
}

// New returns a renderer drawing with b and resolving the center with n.
func New(b Backend, n *coords.Normalizer) *Renderer {
	if n == nil {
		n = coords.NewNormalizer(nil)
	}
	return &Renderer{backend: b, norm: n}
}

// Draw creates a map and adds every element found in things. Things are
// elements or any slice, array, channel, iter.Seq or element.Seq of things,
// nested freely; anything else is skipped. The earlier a thing is given the
// later it is drawn, so the first thing ends up on top.
func (r *Renderer) Draw(opts Options, things ...any) (Map, error) {
	center := geo.Point{}
	if opts.Center != nil {
		var err error
		if center, err = r.norm.Point(opts.Center); err != nil {
			return nil, fmt.Errorf("map center: %w", err)
		}
	}
	if opts.Zoom == 0 {
		opts.Zoom = DefaultZoom
	}
	if opts.Tiles == "" {
		opts.Tiles = DefaultTiles
	}

	m, err := r.backend.CreateMap(center, opts.Zoom, opts.Tiles)
	if err != nil {
		return nil, fmt.Errorf("create map: %w", err)
	}

	type frame struct {
		thing any
		depth int
	}
	stack := make([]frame, 0, len(things))
	for _, thing := range things {
		stack = append(stack, frame{thing: thing})
	}

	drawn := 0
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.depth > coords.MaxDepth {
			return nil, fmt.Errorf("things nested deeper than %d levels", coords.MaxDepth)
		}
		push := func(item any) bool {
			stack = append(stack, frame{thing: item, depth: top.depth + 1})
			return true
		}

		switch t := top.thing.(type) {
		case element.Element:
			if err := add(m, t); err != nil {
				return nil, err
			}
			drawn++
		case element.Seq:
			for item, err := range t {
				if err != nil {
					return nil, err
				}
				push(item)
			}
		default:
			// slices, arrays, channels and iter.Seq of anything drawable
			if !coords.Each(t, push) {
				log.Debug().Type("thing", t).Msg("Skipping thing that cannot be drawn")
			}
		}
	}

	log.Debug().Int("elements", drawn).Stringer("center", center).Float64("zoom", opts.Zoom).Msg("Map drawn")
	return m, nil
}

func add(m Map, el element.Element) error {
	switch e := el.(type) {
	case element.Marker:
		return m.AddMarker(e.Coords, nil, e.Popup)

	case element.Dot:
		return m.AddCircle(e.Coords, CircleStyle{
			Radius:      e.Radius,
			Color:       e.BorderColor,
			Weight:      e.BorderWidth,
			FillColor:   e.Color,
			FillOpacity: e.Opacity,
		}, e.Popup)

	case element.Label:
		return m.AddMarker(e.Coords, &Icon{HTML: LabelHTML(e)}, e.Popup)

	case element.HTML:
		return m.AddMarker(e.Coords, &Icon{HTML: e.Code}, e.Popup)

	case element.Line:
		return m.AddPolyline(e.Path, PathStyle{
			Color:   e.Color,
			Weight:  e.Width,
			Opacity: e.Opacity,
		}, e.Popup)

	case element.Area:
		return m.AddPolygon(e.Path, PathStyle{
			Color:       e.BorderColor,
			Weight:      e.BorderWidth,
			Opacity:     1,
			Fill:        true,
			FillColor:   e.Color,
			FillOpacity: e.Opacity,
		}, e.Popup)
	}

	log.Debug().Type("element", el).Msg("Skipping unsupported element")
	return nil
}

// LabelHTML returns the div icon markup of a text label.
func LabelHTML(l element.Label) string {
	return fmt.Sprintf(
		`<div style="font-family: %s; font-size: %gpx; color: %s; opacity: %g">%s</div>`,
		html.EscapeString(l.Font), l.Size, html.EscapeString(l.Color), l.Opacity, html.EscapeString(l.Text),
	)
}
