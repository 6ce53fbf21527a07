// Package config handles map document loading, defaults and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/woozymasta/simplemap/internal/element"
	"github.com/woozymasta/simplemap/internal/geo"
	"github.com/woozymasta/simplemap/internal/render"
	"github.com/woozymasta/simplemap/internal/tiles"
)

const (
	// DefaultWidth and DefaultHeight size raster output.
	DefaultWidth  = 800
	DefaultHeight = 600

	maxZoom = 22
)

// Config represents the root map document.
type Config struct {
	Title  string    `yaml:"title,omitempty" json:"title,omitempty"`
	Tiles  string    `yaml:"tiles,omitempty" json:"tiles"`
	Center []float64 `yaml:"center,omitempty" json:"center,omitempty"` // [lat, lon]
	Layers []Layer   `yaml:"layers" json:"layers"`
	Zoom   float64   `yaml:"zoom,omitempty" json:"zoom"`
	Width  int       `yaml:"width,omitempty" json:"width"`
	Height int       `yaml:"height,omitempty" json:"height"`
	Minify bool      `yaml:"minify,omitempty" json:"minify,omitempty"`
}

// Layer is one drawable group of the map. Exactly one source is set.
type Layer struct {
	// defining GeoJSON directly in the document
	GeoJSON *geo.FeatureCollection `yaml:"geojson,omitempty" json:"geojson,omitempty"`

	Name          string        `yaml:"name,omitempty" json:"name,omitempty"`
	Path          string        `yaml:"path,omitempty" json:"path,omitempty"`
	PointsAs      string        `yaml:"points_as,omitempty" json:"points_as,omitempty"`
	PopupProperty string        `yaml:"popup_property,omitempty" json:"popup_property,omitempty"`
	Popup         string        `yaml:"popup,omitempty" json:"popup,omitempty"`
	Text          string        `yaml:"text,omitempty" json:"text,omitempty"`
	Code          string        `yaml:"code,omitempty" json:"code,omitempty"`
	Points        [][]float64   `yaml:"points,omitempty" json:"points,omitempty"`
	Lines         [][][]float64 `yaml:"lines,omitempty" json:"lines,omitempty"`
	Areas         [][][]float64 `yaml:"areas,omitempty" json:"areas,omitempty"`
	Style         Style         `yaml:"style,omitempty" json:"style"`
}

// Style overrides builder defaults. Zero values keep the defaults.
type Style struct {
	Opacity     *float64 `yaml:"opacity,omitempty" json:"opacity,omitempty"`
	Color       string   `yaml:"color,omitempty" json:"color,omitempty"`
	BorderColor string   `yaml:"border_color,omitempty" json:"border_color,omitempty"`
	Font        string   `yaml:"font,omitempty" json:"font,omitempty"`
	Radius      float64  `yaml:"radius,omitempty" json:"radius,omitempty"`
	Width       float64  `yaml:"width,omitempty" json:"width,omitempty"`
	Size        float64  `yaml:"size,omitempty" json:"size,omitempty"`
	BorderWidth float64  `yaml:"border_width,omitempty" json:"border_width,omitempty"`
}

// Load reads, completes and validates the YAML document at path.
// Relative layer paths are resolved against the document directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	for i := range cfg.Layers {
		if p := cfg.Layers[i].Path; p != "" && !filepath.IsAbs(p) {
			cfg.Layers[i].Path = filepath.Join(dir, p)
		}
	}

	return cfg, nil
}

// Parse decodes, completes and validates a YAML document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyDefaults fills unset map options.
func (c *Config) ApplyDefaults() {
	if c.Tiles == "" {
		c.Tiles = render.DefaultTiles
	}
	if c.Zoom == 0 {
		c.Zoom = render.DefaultZoom
	}
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.Height == 0 {
		c.Height = DefaultHeight
	}
	if c.Title == "" {
		c.Title = "simplemap"
	}
	for i := range c.Layers {
		if c.Layers[i].PointsAs == "" {
			c.Layers[i].PointsAs = element.KindMarker.String()
		}
	}
}

// Validate checks the document and reports every problem found.
func (c *Config) Validate() error {
	var errs []string

	if _, err := tiles.Lookup(c.Tiles); err != nil {
		errs = append(errs, "tiles: "+err.Error())
	}
	if c.Zoom < 0 || c.Zoom > maxZoom {
		errs = append(errs, fmt.Sprintf("zoom must be 0-%d, got %g", maxZoom, c.Zoom))
	}
	if c.Center != nil && len(c.Center) != 2 {
		errs = append(errs, fmt.Sprintf("center must be [lat, lon], got %d values", len(c.Center)))
	}
	if c.Width < 0 || c.Height < 0 {
		errs = append(errs, fmt.Sprintf("width and height must be positive, got %dx%d", c.Width, c.Height))
	}

	for i := range c.Layers {
		errs = append(errs, c.Layers[i].validate(fmt.Sprintf("layers[%d]", i))...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Sources lists the names of the sources set on the layer.
func (l *Layer) Sources() []string {
	var set []string
	if l.Path != "" {
		set = append(set, "path")
	}
	if l.GeoJSON != nil {
		set = append(set, "geojson")
	}
	if l.Points != nil {
		set = append(set, "points")
	}
	if l.Lines != nil {
		set = append(set, "lines")
	}
	if l.Areas != nil {
		set = append(set, "areas")
	}
	return set
}

// IsGeoJSON reports whether the layer is drawn by walking GeoJSON.
func (l *Layer) IsGeoJSON() bool {
	return l.Path != "" || l.GeoJSON != nil
}

func (l *Layer) validate(name string) []string {
	var errs []string

	switch sources := l.Sources(); len(sources) {
	case 0:
		errs = append(errs, name+" needs one of path, geojson, points, lines or areas")
	case 1:
	default:
		errs = append(errs, fmt.Sprintf("%s has more than one source: %s", name, strings.Join(sources, ", ")))
	}

	kind, ok := element.ParseKind(l.PointsAs)
	switch {
	case !ok || kind == element.KindLine || kind == element.KindArea:
		errs = append(errs, fmt.Sprintf("%s.points_as must be marker, dot, label or html, got %q", name, l.PointsAs))
	case kind == element.KindLabel && l.Text == "":
		errs = append(errs, name+".text is required for labels")
	case kind == element.KindHTML && l.Code == "":
		errs = append(errs, name+".code is required for html")
	}

	if l.PopupProperty != "" && !l.IsGeoJSON() {
		errs = append(errs, name+".popup_property needs a path or geojson source")
	}
	if o := l.Style.Opacity; o != nil && (*o < 0 || *o > 1) {
		errs = append(errs, fmt.Sprintf("%s.style.opacity must be 0-1, got %g", name, *o))
	}

	return errs
}
