// Package server handles HTTP requests and middleware.
package server

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/simplemap/internal/config"
	"github.com/woozymasta/simplemap/internal/element"
	"github.com/woozymasta/simplemap/internal/leaflet"
	"github.com/woozymasta/simplemap/internal/raster"
	"github.com/woozymasta/simplemap/internal/render"
	"github.com/woozymasta/simplemap/internal/scene"
)

// ServerContext holds dependencies for request handlers.
// It is read-only once created.
type ServerContext struct {
	Config  *config.Config
	Factory *element.Factory
	// Client downloads basemap tiles for snapshots, nil to skip them.
	Client    *http.Client
	IndexHTML []byte
	IndexETag string
}

// NewServerContext renders the configured map page once and keeps it for the index.
func NewServerContext(cfg *config.Config, f *element.Factory, client *http.Client) (*ServerContext, error) {
	log.Info().Int("layers", len(cfg.Layers)).Msg("Initializing server context")

	s := &ServerContext{
		Config:  cfg,
		Factory: f,
		Client:  client,
	}

	var buf bytes.Buffer
	if err := s.writePage(&buf, cfg); err != nil {
		return nil, fmt.Errorf("render index: %w", err)
	}
	s.IndexHTML = buf.Bytes()

	h := fnv.New64a()
	_, _ = h.Write(s.IndexHTML)
	s.IndexETag = fmt.Sprintf(`"%x-%x"`, len(s.IndexHTML), h.Sum64())

	log.Info().
		Int("index_bytes", len(s.IndexHTML)).
		Bool("snapshot_tiles", client != nil).
		Msg("Server context initialized successfully")

	return s, nil
}

// Handler returns the routes wrapped with request logging.
func (s *ServerContext) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/render", s.HandleRender)
	mux.HandleFunc("/api/config", s.HandleConfig)
	mux.HandleFunc("/layers/", s.HandleLayerFile)
	mux.HandleFunc("/snapshot.webp", s.HandleSnapshot)
	mux.HandleFunc("/", s.HandleIndex)

	return RequestLogger(mux)
}

// writePage draws the layers of cfg as a Leaflet page.
func (s *ServerContext) writePage(w io.Writer, cfg *config.Config) error {
	things, err := scene.Build(cfg, s.Factory)
	if err != nil {
		return err
	}

	backend := &leaflet.Backend{Title: cfg.Title, Minify: cfg.Minify}
	m, err := render.New(backend, s.Factory.Normalizer()).Draw(scene.Options(cfg), things...)
	if err != nil {
		return err
	}

	return m.(*leaflet.Map).WriteHTML(w)
}

// snapshot draws the configured layers as an image.
func (s *ServerContext) snapshot(width, height int) (*raster.Canvas, error) {
	things, err := scene.Build(s.Config, s.Factory)
	if err != nil {
		return nil, err
	}

	backend := &raster.Backend{Width: width, Height: height, Client: s.Client}
	m, err := render.New(backend, s.Factory.Normalizer()).Draw(scene.Options(s.Config), things...)
	if err != nil {
		return nil, err
	}

	return m.(*raster.Canvas), nil
}
