package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/simplemap/internal/coords"
	"github.com/woozymasta/simplemap/internal/element"
	"github.com/woozymasta/simplemap/internal/geo"
	"github.com/woozymasta/simplemap/internal/geojson"
	"github.com/woozymasta/simplemap/internal/leaflet"
	"github.com/woozymasta/simplemap/internal/render"
	"github.com/woozymasta/simplemap/internal/tiles"
)

const (
	etagCap      = 64
	maxBodySize  = 32 << 20
	maxImageSide = 4096
)

// HandleIndex serves the configured map page.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if match := r.Header.Get("If-None-Match"); match == s.IndexETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", s.IndexETag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.IndexHTML)
}

// HandleConfig serves the loaded map document as JSON.
func (s *ServerContext) HandleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(s.Config)
}

// HandleRender draws the GeoJSON request body and responds with a map page.
//
// Query parameters: points_as (marker, dot, label or html), color, text, code,
// popup_property, tiles, zoom and center ("lat,lon"). A YAML content type
// makes the body parsed as YAML.
func (s *ServerContext) HandleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	var data any
	var err error
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		data, err = geojson.DecodeYAML(body)
	} else {
		data, err = geojson.DecodeJSON(body)
	}
	if err != nil {
		http.Error(w, "invalid geojson: "+err.Error(), http.StatusBadRequest)
		return
	}
	switch data.(type) {
	case map[string]any, []any:
	default:
		// a bare string would be taken as a file path
		http.Error(w, "expected a geojson object or list", http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	walker, err := s.walkerFor(q.Get("points_as"), q.Get("color"), q.Get("text"), q.Get("code"), q.Get("popup_property"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	opts, err := renderOptions(q.Get("tiles"), q.Get("zoom"), q.Get("center"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	backend := &leaflet.Backend{Title: s.Config.Title, Minify: s.Config.Minify}
	m, err := render.New(backend, s.Factory.Normalizer()).Draw(opts, walker.Walk(data))
	if err != nil {
		log.Debug().Err(err).Msg("Render request rejected")
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	var buf bytes.Buffer
	if err := m.(*leaflet.Map).WriteHTML(&buf); err != nil {
		log.Error().Err(err).Msg("Failed to write map page")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// HandleSnapshot serves the configured map as a WebP image.
// The width and height query parameters override the configured size.
func (s *ServerContext) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	width, err := sizeParam(r, "width", s.Config.Width)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	height, err := sizeParam(r, "height", s.Config.Height)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	canvas, err := s.snapshot(width, height)
	if err != nil {
		log.Error().Err(err).Msg("Failed to draw snapshot")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := canvas.Encode(&buf, "webp"); err != nil {
		log.Error().Err(err).Msg("Failed to encode snapshot")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/webp")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(buf.Bytes())
}

// HandleLayerFile serves the GeoJSON file of a layer: /layers/{index}.
func (s *ServerContext) HandleLayerFile(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/layers/"), ".geojson")
	i, err := strconv.Atoi(name)
	if err != nil || i < 0 || i >= len(s.Config.Layers) || s.Config.Layers[i].Path == "" {
		http.NotFound(w, r)
		return
	}

	if !s.serveFile(w, r, s.Config.Layers[i].Path, "application/geo+json") {
		http.NotFound(w, r)
	}
}

func (s *ServerContext) walkerFor(pointsAs, color, text, code, popupProperty string) (*geojson.Walker, error) {
	kind := element.KindMarker
	if pointsAs != "" {
		k, ok := element.ParseKind(pointsAs)
		if !ok || k == element.KindLine || k == element.KindArea {
			return nil, fmt.Errorf("points_as must be marker, dot, label or html, got %q", pointsAs)
		}
		kind = k
	}

	var opts []element.Option
	if color != "" {
		opts = append(opts, element.Color(color))
	}

	f := s.Factory
	return geojson.NewWalker(f,
		geojson.PointsAs(f.New(kind, append(opts, element.Text(text), element.Code(code))...)),
		geojson.LinesAs(f.Line(opts...)),
		geojson.AreasAs(f.Area(opts...)),
		geojson.PopupProperty(popupProperty),
	), nil
}

func renderOptions(tileName, zoom, center string) (render.Options, error) {
	opts := render.Options{Tiles: tileName}

	if tileName != "" {
		if _, err := tiles.Lookup(tileName); err != nil {
			return opts, err
		}
	}
	if zoom != "" {
		z, err := strconv.ParseFloat(zoom, 64)
		if err != nil {
			return opts, fmt.Errorf("invalid zoom %q", zoom)
		}
		opts.Zoom = z
	}
	if center != "" {
		p, err := geo.ParsePoint(center)
		if err != nil {
			return opts, err
		}
		opts.Center = []float64{p.Lat, p.Lon}
	}

	return opts, nil
}

func sizeParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 || v > maxImageSide {
		return 0, fmt.Errorf("%s must be 1-%d, got %q", name, maxImageSide, raw)
	}
	return v, nil
}

// statusFor maps bad input errors to 400 and everything else to 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, geojson.ErrMalformedGeoJSON),
		errors.Is(err, coords.ErrInvalidCoordinateSource),
		errors.Is(err, coords.ErrMixedSequence):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// serveFile tries to serve a file from disk with ETag generation.
// It returns true if the file was found and served (or 304).
func (s *ServerContext) serveFile(w http.ResponseWriter, r *http.Request, path string, contentType string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, info.Size(), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, info.ModTime().UnixNano(), 16)
	buf = append(buf, '"')
	etag := string(buf)

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	http.ServeFile(w, r, path)
	return true
}
