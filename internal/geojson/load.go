package geojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Load reads and parses a GeoJSON document from path.
// Files with a .yaml or .yml extension are decoded as YAML, anything else as JSON.
func Load(path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geojson: %w", err)
	}
	// Explicitly ignore close error as it's a read-only operation
	defer func() { _ = f.Close() }()

	var data any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = DecodeYAML(f)
	default:
		data, err = DecodeJSON(f)
	}
	if err != nil {
		return nil, fmt.Errorf("parse geojson %s: %w", path, err)
	}

	log.Debug().Str("path", path).Msg("GeoJSON loaded")
	return data, nil
}

// DecodeJSON parses a JSON document into generic maps and slices.
func DecodeJSON(r io.Reader) (any, error) {
	var data any
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, err
	}
	return data, nil
}

// DecodeYAML parses a YAML document into generic maps and slices.
func DecodeYAML(r io.Reader) (any, error) {
	var data any
	if err := yaml.NewDecoder(r).Decode(&data); err != nil {
		return nil, err
	}
	return data, nil
}
