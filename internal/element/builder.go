package element

import (
	"slices"

	"github.com/woozymasta/simplemap/internal/coords"
	"github.com/woozymasta/simplemap/internal/geo"
)

// Builder turns coordinate sources into display elements.
type Builder interface {
	Build(sources ...any) ([]Element, error)
}

// BuilderFunc adapts a function to the Builder interface.
type BuilderFunc func(sources ...any) ([]Element, error)

// Build implements Builder.
func (f BuilderFunc) Build(sources ...any) ([]Element, error) {
	return f(sources...)
}

// Partial is a builder with its style configured and no position yet.
// It can be applied to any number of positions.
type Partial struct {
	norm  *coords.Normalizer
	style Style
	kind  Kind
}

// Builds returns the kind of elements p produces.
func (p Partial) Builds() Kind {
	return p.kind
}

// Style returns the configured style, before border defaults.
func (p Partial) Style() Style {
	return p.style
}

// With returns a copy of p with more options applied.
func (p Partial) With(opts ...Option) Partial {
	for _, opt := range opts {
		opt(&p.style)
	}
	return p
}

// Build normalizes sources as one sequence and returns an element for every
// point found (markers, dots, labels, html) or every point sequence found
// (lines, areas), in source order.
func (p Partial) Build(sources ...any) ([]Element, error) {
	node, err := p.norm.Normalize(sources)
	if err != nil {
		return nil, err
	}

	if p.kind == KindLine || p.kind == KindArea {
		paths, err := coords.ExtractPaths(node)
		if err != nil {
			return nil, err
		}
		elements := make([]Element, len(paths))
		for i, path := range paths {
			elements[i] = p.pathElement(path)
		}
		return elements, nil
	}

	points := coords.ExtractPoints(node)
	elements := make([]Element, len(points))
	for i, pt := range points {
		elements[i] = p.pointElement(pt)
	}
	return elements, nil
}

func (p Partial) pointElement(pt geo.Point) Element {
	s := p.style
	switch p.kind {
	case KindDot:
		s = s.withBorder()
		return Dot{
			Coords:      pt,
			Color:       s.Color,
			Radius:      s.Radius,
			Opacity:     s.Opacity,
			BorderColor: s.BorderColor,
			BorderWidth: s.BorderWidth,
			Popup:       s.Popup,
		}
	case KindLabel:
		return Label{
			Coords:  pt,
			Text:    s.Text,
			Color:   s.Color,
			Size:    s.Size,
			Font:    s.Font,
			Opacity: s.Opacity,
			Popup:   s.Popup,
		}
	case KindHTML:
		return HTML{Coords: pt, Code: s.Code, Popup: s.Popup}
	}
	return Marker{Coords: pt, Popup: s.Popup}
}

func (p Partial) pathElement(path geo.Path) Element {
	s := p.style
	path = slices.Clone(path)
	if p.kind == KindArea {
		s = s.withBorder()
		return Area{
			Path:        path,
			Color:       s.Color,
			Opacity:     s.Opacity,
			BorderColor: s.BorderColor,
			BorderWidth: s.BorderWidth,
			Popup:       s.Popup,
		}
	}
	return Line{
		Path:    path,
		Color:   s.Color,
		Width:   s.Width,
		Opacity: s.Opacity,
		Popup:   s.Popup,
	}
}

// Factory creates builders sharing one normalizer.
type Factory struct {
	norm *coords.Normalizer
}

// NewFactory returns a factory resolving sources with norm.
func NewFactory(norm *coords.Normalizer) *Factory {
	if norm == nil {
		norm = coords.NewNormalizer(nil)
	}
	return &Factory{norm: norm}
}

// Normalizer returns the normalizer shared by the factory builders.
func (f *Factory) Normalizer() *coords.Normalizer {
	return f.norm
}

// New returns a partial builder of kind k.
func (f *Factory) New(k Kind, opts ...Option) Partial {
	return Partial{norm: f.norm, kind: k, style: defaultStyle(k)}.With(opts...)
}

// Marker returns a marker builder.
func (f *Factory) Marker(opts ...Option) Partial { return f.New(KindMarker, opts...) }

// Dot returns a dot builder; defaults: blue, radius 3, opacity 1.
func (f *Factory) Dot(opts ...Option) Partial { return f.New(KindDot, opts...) }

// Label returns a label builder; defaults: blue, size 12, arial, opacity 1.
func (f *Factory) Label(text string, opts ...Option) Partial {
	return f.New(KindLabel, Text(text)).With(opts...)
}

// HTML returns a builder placing code at each point.
func (f *Factory) HTML(code string, opts ...Option) Partial {
	return f.New(KindHTML, Code(code)).With(opts...)
}

// Line returns a line builder; defaults: blue, width 2, opacity 1.
func (f *Factory) Line(opts ...Option) Partial { return f.New(KindLine, opts...) }

// Area returns an area builder; defaults: blue, opacity 0.5.
func (f *Factory) Area(opts ...Option) Partial { return f.New(KindArea, opts...) }
