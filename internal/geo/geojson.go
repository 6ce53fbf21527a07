package geo

// FeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure and is used for inline data in config files.
type FeatureCollection struct {
	Type     string    `json:"type" yaml:"type"`
	Features []Feature `json:"features" yaml:"features"`
}

// Feature represents a single geographic feature with geometry and properties.
type Feature struct {
	Properties map[string]any `json:"properties" yaml:"properties"`
	Geometry   *Geometry      `json:"geometry" yaml:"geometry"`
	Type       string         `json:"type" yaml:"type"`
}

// Geometry represents the geometry of a feature (Point, Polygon, etc.).
// Coordinates nest according to Type and are always in [Lon, Lat] order.
type Geometry struct {
	Coordinates any        `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
	Type        string     `json:"type" yaml:"type"`
	Geometries  []Geometry `json:"geometries,omitempty" yaml:"geometries,omitempty"`
}
