// Package tiles resolves basemap names to tile URL templates.
package tiles

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Coordinate is a tile address in the XYZ scheme.
type Coordinate struct {
	Z, X, Y int
}

// Provider is a tile server template with its metadata.
type Provider struct {
	Name        string
	URL         string
	Attribution string
	Subdomains  []string
	MaxZoom     int
}

const (
	osmAttribution   = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`
	cartoAttribution = osmAttribution + ` &copy; <a href="https://carto.com/attributions">CARTO</a>`
)

var catalog = map[string]Provider{
	"cartodbpositron": {
		Name:        "cartodbpositron",
		URL:         "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png",
		Attribution: cartoAttribution,
		Subdomains:  []string{"a", "b", "c", "d"},
		MaxZoom:     20,
	},
	"cartodbdark_matter": {
		Name:        "cartodbdark_matter",
		URL:         "https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png",
		Attribution: cartoAttribution,
		Subdomains:  []string{"a", "b", "c", "d"},
		MaxZoom:     20,
	},
	"openstreetmap": {
		Name:        "openstreetmap",
		URL:         "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: osmAttribution,
		MaxZoom:     19,
	},
	"opentopomap": {
		Name:        "opentopomap",
		URL:         "https://{s}.tile.opentopomap.org/{z}/{x}/{y}.png",
		Attribution: osmAttribution + ` &copy; <a href="https://opentopomap.org">OpenTopoMap</a>`,
		Subdomains:  []string{"a", "b", "c"},
		MaxZoom:     17,
	},
}

// Names lists the catalog providers in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the catalog provider called name, ignoring case, or a custom
// provider when name is itself a URL template with {z}, {x} and {y}.
func Lookup(name string) (Provider, error) {
	if p, ok := catalog[strings.ToLower(strings.TrimSpace(name))]; ok {
		return p, nil
	}

	if isTemplate(name) {
		return Provider{Name: "custom", URL: name, Subdomains: []string{"a", "b", "c"}, MaxZoom: 19}, nil
	}

	return Provider{}, fmt.Errorf("unknown tiles %q, use one of %s or a {z}/{x}/{y} url template",
		name, strings.Join(Names(), ", "))
}

func isTemplate(s string) bool {
	return strings.Contains(s, "{z}") && strings.Contains(s, "{x}") &&
		(strings.Contains(s, "{y}") || strings.Contains(s, "{tms_y}"))
}

// TileURL expands the template for one tile.
func (p Provider) TileURL(c Coordinate) string {
	s := strings.ReplaceAll(p.URL, "{z}", strconv.Itoa(c.Z))
	s = strings.ReplaceAll(s, "{x}", strconv.Itoa(c.X))
	s = strings.ReplaceAll(s, "{y}", strconv.Itoa(c.Y))
	s = strings.ReplaceAll(s, "{r}", "")

	if strings.Contains(s, "{s}") {
		sub := "a"
		if len(p.Subdomains) > 0 {
			sub = p.Subdomains[(c.X+c.Y)%len(p.Subdomains)]
		}
		s = strings.ReplaceAll(s, "{s}", sub)
	}

	if strings.Contains(s, "{tms_y}") {
		maxCoord := (1 << c.Z) - 1
		s = strings.ReplaceAll(s, "{tms_y}", strconv.Itoa(maxCoord-c.Y))
	}

	return s
}
