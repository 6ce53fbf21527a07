// Package leaflet renders maps as standalone Leaflet HTML pages.
package leaflet

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"regexp"

	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"

	"github.com/woozymasta/simplemap/internal/geo"
	"github.com/woozymasta/simplemap/internal/render"
	"github.com/woozymasta/simplemap/internal/tiles"
)

var (
	//go:embed assets/page.html.tmpl
	pageTemplate string
	//go:embed assets/style.css
	styleCSS string
	//go:embed assets/map.js
	mapJS string
	//go:embed assets/pin.svg
	pinSVG string

	page = template.Must(template.New("page").Parse(pageTemplate))
)

// Backend creates Leaflet maps.
type Backend struct {
	// Title of the generated page, "simplemap" when empty.
	Title string
	// Minify shrinks the generated page, its style, script and icon.
	Minify bool
}

// CreateMap implements render.Backend. tiles is a catalog name or a URL template.
func (b *Backend) CreateMap(center geo.Point, zoom float64, tileName string) (render.Map, error) {
	provider, err := tiles.Lookup(tileName)
	if err != nil {
		return nil, err
	}

	title := b.Title
	if title == "" {
		title = "simplemap"
	}

	return &Map{
		title:    title,
		minify:   b.Minify,
		center:   center,
		zoom:     zoom,
		provider: provider,
	}, nil
}

// Map collects layers and writes them as an HTML page.
type Map struct {
	title    string
	layers   []layer
	provider tiles.Provider
	center   geo.Point
	zoom     float64
	minify   bool
}

type layer struct {
	Icon   *string      `json:"icon,omitempty"`
	Style  *pathOptions `json:"style,omitempty"`
	Type   string       `json:"type"`
	Popup  string       `json:"popup,omitempty"`
	Points [][2]float64 `json:"points"`
	// Markup marks the popup as HTML; other popups are shown as text.
	Markup bool `json:"markup,omitempty"`
}

// pathOptions mirrors Leaflet path options.
type pathOptions struct {
	Color       string  `json:"color,omitempty"`
	FillColor   string  `json:"fillColor,omitempty"`
	Radius      float64 `json:"radius,omitempty"`
	Weight      float64 `json:"weight"`
	Opacity     float64 `json:"opacity"`
	FillOpacity float64 `json:"fillOpacity"`
	Fill        bool    `json:"fill"`
}

type tileOptions struct {
	URL         string   `json:"url"`
	Attribution string   `json:"attribution"`
	Subdomains  []string `json:"subdomains,omitempty"`
	MaxZoom     int      `json:"maxZoom"`
}

type mapData struct {
	Pin    string      `json:"pin"`
	Tiles  tileOptions `json:"tiles"`
	Layers []layer     `json:"layers"`
	Center [2]float64  `json:"center"`
	Zoom   float64     `json:"zoom"`
}

type pageData struct {
	Title string
	CSS   template.CSS
	JS    template.JS
	Data  mapData
}

// AddMarker implements render.Map.
func (m *Map) AddMarker(pos geo.Point, icon *render.Icon, popup any) error {
	l := layer{Type: "marker", Points: [][2]float64{pos.LatLng()}, Popup: popupText(popup), Markup: isMarkup(popup)}
	if icon != nil {
		l.Icon = &icon.HTML
	}
	m.layers = append(m.layers, l)
	return nil
}

// AddCircle implements render.Map.
func (m *Map) AddCircle(pos geo.Point, style render.CircleStyle, popup any) error {
	m.layers = append(m.layers, layer{
		Type:   "circle",
		Points: [][2]float64{pos.LatLng()},
		Popup:  popupText(popup),
		Markup: isMarkup(popup),
		Style: &pathOptions{
			Color:       style.Color,
			Weight:      style.Weight,
			Opacity:     1,
			Radius:      style.Radius,
			Fill:        true,
			FillColor:   style.FillColor,
			FillOpacity: style.FillOpacity,
		},
	})
	return nil
}

// AddPolyline implements render.Map.
func (m *Map) AddPolyline(path geo.Path, style render.PathStyle, popup any) error {
	m.addPath("polyline", path, style, popup)
	return nil
}

// AddPolygon implements render.Map.
func (m *Map) AddPolygon(path geo.Path, style render.PathStyle, popup any) error {
	m.addPath("polygon", path, style, popup)
	return nil
}

func (m *Map) addPath(typ string, path geo.Path, style render.PathStyle, popup any) {
	m.layers = append(m.layers, layer{
		Type:   typ,
		Points: path.LatLngs(),
		Popup:  popupText(popup),
		Markup: isMarkup(popup),
		Style: &pathOptions{
			Color:       style.Color,
			Weight:      style.Weight,
			Opacity:     style.Opacity,
			Fill:        style.Fill,
			FillColor:   style.FillColor,
			FillOpacity: style.FillOpacity,
		},
	})
}

// Len returns the number of layers added so far.
func (m *Map) Len() int {
	return len(m.layers)
}

// Render returns the page.
func (m *Map) Render() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.WriteHTML(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteHTML writes a standalone page showing the map to w.
func (m *Map) WriteHTML(w io.Writer) error {
	style, script, pin := styleCSS, mapJS, pinSVG

	var mini *minify.M
	if m.minify {
		mini = newMinifier()
		var err error
		if style, err = mini.String("text/css", style); err != nil {
			return fmt.Errorf("minify css: %w", err)
		}
		if script, err = mini.String("text/javascript", script); err != nil {
			return fmt.Errorf("minify js: %w", err)
		}
		if pin, err = mini.String("image/svg+xml", pin); err != nil {
			return fmt.Errorf("minify svg: %w", err)
		}
	}

	layers := m.layers
	if layers == nil {
		layers = []layer{}
	}

	data := pageData{
		Title: m.title,
		CSS:   template.CSS(style),
		JS:    template.JS(script),
		Data: mapData{
			Center: m.center.LatLng(),
			Zoom:   m.zoom,
			Pin:    "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(pin)),
			Tiles: tileOptions{
				URL:         m.provider.URL,
				Attribution: m.provider.Attribution,
				Subdomains:  m.provider.Subdomains,
				MaxZoom:     m.provider.MaxZoom,
			},
			Layers: layers,
		},
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	out := buf.Bytes()
	if mini != nil {
		var err error
		if out, err = mini.Bytes("text/html", out); err != nil {
			return fmt.Errorf("minify html: %w", err)
		}
	}

	if _, err := w.Write(out); err != nil {
		return err
	}

	log.Debug().Int("layers", len(m.layers)).Int("bytes", len(out)).Bool("minified", m.minify).Msg("Leaflet page written")
	return nil
}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)
	return m
}

// isMarkup reports whether a popup is trusted HTML rather than text.
func isMarkup(popup any) bool {
	_, ok := popup.(template.HTML)
	return ok
}

func popupText(popup any) string {
	switch p := popup.(type) {
	case nil:
		return ""
	case string:
		return p
	case template.HTML:
		return string(p)
	case fmt.Stringer:
		return p.String()
	}
	return fmt.Sprint(popup)
}
