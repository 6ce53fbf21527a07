// Package scene turns map documents into drawable things.
package scene

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/simplemap/internal/config"
	"github.com/woozymasta/simplemap/internal/element"
	"github.com/woozymasta/simplemap/internal/geojson"
	"github.com/woozymasta/simplemap/internal/render"
)

// Build returns one drawable per layer, in layer order, so earlier layers end
// up on top. GeoJSON layers stay lazy: files are read when the result is drawn.
func Build(cfg *config.Config, f *element.Factory) ([]any, error) {
	things := make([]any, 0, len(cfg.Layers))
	for i := range cfg.Layers {
		layer := &cfg.Layers[i]
		thing, err := buildLayer(layer, f)
		if err != nil {
			return nil, fmt.Errorf("layer %s: %w", layerName(layer, i), err)
		}
		things = append(things, thing)

		log.Debug().
			Str("layer", layerName(layer, i)).
			Strs("sources", layer.Sources()).
			Str("points_as", layer.PointsAs).
			Msg("Layer prepared")
	}
	return things, nil
}

// Options returns the render options of the document.
func Options(cfg *config.Config) render.Options {
	opts := render.Options{Zoom: cfg.Zoom, Tiles: cfg.Tiles}
	if len(cfg.Center) > 0 {
		opts.Center = cfg.Center
	}
	return opts
}

func buildLayer(l *config.Layer, f *element.Factory) (any, error) {
	kind, ok := element.ParseKind(l.PointsAs)
	if !ok {
		return nil, fmt.Errorf("unknown element kind %q", l.PointsAs)
	}

	opts := styleOptions(l)
	points := f.New(kind, append(opts, element.Text(l.Text), element.Code(l.Code))...)

	switch {
	case l.Path != "" || l.GeoJSON != nil:
		walker := geojson.NewWalker(f,
			geojson.PointsAs(points),
			geojson.LinesAs(f.Line(opts...)),
			geojson.AreasAs(f.Area(opts...)),
			geojson.PopupProperty(l.PopupProperty),
		)
		if l.Path != "" {
			return walker.Walk(l.Path), nil
		}
		return walker.Walk(l.GeoJSON), nil

	case l.Points != nil:
		return f.Pluralize(points)(l.Points), nil
	case l.Lines != nil:
		return f.Line(opts...).Build(l.Lines)
	case l.Areas != nil:
		return f.Area(opts...).Build(l.Areas)
	}

	return []element.Element{}, nil
}

func styleOptions(l *config.Layer) []element.Option {
	s := l.Style

	var opts []element.Option
	if s.Color != "" {
		opts = append(opts, element.Color(s.Color))
	}
	if s.BorderColor != "" {
		opts = append(opts, element.BorderColor(s.BorderColor))
	}
	if s.Font != "" {
		opts = append(opts, element.Font(s.Font))
	}
	if s.Radius != 0 {
		opts = append(opts, element.Radius(s.Radius))
	}
	if s.Width != 0 {
		opts = append(opts, element.Width(s.Width))
	}
	if s.Size != 0 {
		opts = append(opts, element.Size(s.Size))
	}
	if s.BorderWidth != 0 {
		opts = append(opts, element.BorderWidth(s.BorderWidth))
	}
	if s.Opacity != nil {
		opts = append(opts, element.Opacity(*s.Opacity))
	}
	if l.Popup != "" {
		opts = append(opts, element.Popup(l.Popup))
	}
	return opts
}

func layerName(l *config.Layer, i int) string {
	if l.Name != "" {
		return l.Name
	}
	return fmt.Sprintf("#%d", i)
}
