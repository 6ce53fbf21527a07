// Package element defines the display elements drawn on a map and the builders
// producing them from arbitrary coordinate sources.
package element

import "github.com/woozymasta/simplemap/internal/geo"

// Kind identifies a display element variant.
type Kind int

// Display element kinds.
const (
	KindMarker Kind = iota + 1
	KindDot
	KindLabel
	KindHTML
	KindLine
	KindArea
)

var kindNames = map[Kind]string{
	KindMarker: "marker",
	KindDot:    "dot",
	KindLabel:  "label",
	KindHTML:   "html",
	KindLine:   "line",
	KindArea:   "area",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind resolves a kind from its name.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Element is an immutable display record.
type Element interface {
	Kind() Kind
}

// Marker is a default map pin.
type Marker struct {
	Popup  any
	Coords geo.Point
}

// Dot is a circle of fixed pixel radius.
type Dot struct {
	Popup       any
	Color       string
	BorderColor string
	Coords      geo.Point
	Radius      float64
	Opacity     float64
	BorderWidth float64
}

// Label is a text drawn at a point.
type Label struct {
	Popup   any
	Text    string
	Color   string
	Font    string
	Coords  geo.Point
	Size    float64
	Opacity float64
}

// HTML is raw markup drawn at a point.
type HTML struct {
	Popup  any
	Code   string
	Coords geo.Point
}

// Line is a polyline.
type Line struct {
	Popup   any
	Color   string
	Path    geo.Path
	Width   float64
	Opacity float64
}

// Area is a filled polygon.
type Area struct {
	Popup       any
	Color       string
	BorderColor string
	Path        geo.Path
	Opacity     float64
	BorderWidth float64
}

func (Marker) Kind() Kind { return KindMarker }
func (Dot) Kind() Kind    { return KindDot }
func (Label) Kind() Kind  { return KindLabel }
func (HTML) Kind() Kind   { return KindHTML }
func (Line) Kind() Kind   { return KindLine }
func (Area) Kind() Kind   { return KindArea }
