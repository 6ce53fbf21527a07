package main

import (
	"crypto/tls"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/simplemap/internal/adapters"
	"github.com/woozymasta/simplemap/internal/config"
	"github.com/woozymasta/simplemap/internal/coords"
	"github.com/woozymasta/simplemap/internal/element"
	"github.com/woozymasta/simplemap/internal/geo"
	"github.com/woozymasta/simplemap/internal/leaflet"
	"github.com/woozymasta/simplemap/internal/logger"
	"github.com/woozymasta/simplemap/internal/raster"
	"github.com/woozymasta/simplemap/internal/render"
	"github.com/woozymasta/simplemap/internal/scene"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string  `short:"c" long:"config"      env:"SIMPLEMAP_CONFIG" description:"Path to a map document"`
	Out         string  `short:"o" long:"out"         description:"Output file, stdout when empty"`
	Format      string  `short:"f" long:"format"      description:"Output format" choice:"html" choice:"webp" choice:"png" default:"html"`
	Tiles       string  `short:"t" long:"tiles"       env:"SIMPLEMAP_TILES" description:"Tiles name or {z}/{x}/{y} url template"`
	Center      string  `long:"center"                description:"Map center as lat,lon"`
	PointsAs    string  `short:"p" long:"points-as"   description:"Element drawn for GeoJSON points" choice:"marker" choice:"dot" default:"marker"`
	Color       string  `long:"color"                 description:"Color of elements drawn from files"`
	Zoom        float64 `short:"z" long:"zoom"        description:"Initial zoom level"`
	Width       int     `long:"width"                 description:"Image width in pixels"`
	Height      int     `long:"height"                description:"Image height in pixels"`
	Concurrency int     `long:"concurrency"           env:"CONCURRENCY" description:"Parallel tile downloads" default:"8"`
	Minify      bool    `short:"m" long:"minify"      description:"Minify the HTML page"`
	FetchTiles  bool    `short:"F" long:"fetch-tiles" description:"Download basemap tiles for image output"`

	Args struct {
		Files []string `positional-arg-name:"FILE" description:"GeoJSON (or YAML) files drawn as extra layers"`
	} `positional-args:"yes"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	if err := run(&opts); err != nil {
		log.Fatal().Err(err).Msg("Failed to draw map")
	}
}

func run(opts *Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if len(cfg.Layers) == 0 {
		log.Warn().Msg("Nothing to draw, the map will be empty")
	}

	reg := coords.NewRegistry()
	adapters.Register(reg)
	f := element.NewFactory(coords.NewNormalizer(reg))

	things, err := scene.Build(cfg, f)
	if err != nil {
		return err
	}

	var backend render.Backend
	switch opts.Format {
	case "html":
		backend = &leaflet.Backend{Title: cfg.Title, Minify: cfg.Minify}
	default:
		rb := &raster.Backend{Width: cfg.Width, Height: cfg.Height, Concurrency: opts.Concurrency}
		if opts.FetchTiles {
			rb.Client = newClient()
		}
		backend = rb
	}

	m, err := render.New(backend, f.Normalizer()).Draw(scene.Options(cfg), things...)
	if err != nil {
		return err
	}

	return write(opts.Out, func(w io.Writer) error {
		if page, ok := m.(*leaflet.Map); ok {
			return page.WriteHTML(w)
		}
		return m.(*raster.Canvas).Encode(w, opts.Format)
	})
}

// loadConfig reads the map document, when given, and applies the flags on top of it.
func loadConfig(opts *Options) (*config.Config, error) {
	cfg := &config.Config{}
	if opts.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigFile); err != nil {
			return nil, err
		}
	}

	for _, path := range opts.Args.Files {
		layer := config.Layer{Name: path, Path: path, PointsAs: opts.PointsAs}
		layer.Style.Color = opts.Color
		cfg.Layers = append(cfg.Layers, layer)
	}

	if opts.Tiles != "" {
		cfg.Tiles = opts.Tiles
	}
	if opts.Zoom != 0 {
		cfg.Zoom = opts.Zoom
	}
	if opts.Width != 0 {
		cfg.Width = opts.Width
	}
	if opts.Height != 0 {
		cfg.Height = opts.Height
	}
	if opts.Minify {
		cfg.Minify = true
	}
	if opts.Center != "" {
		center, err := geo.ParsePoint(opts.Center)
		if err != nil {
			return nil, err
		}
		cfg.Center = []float64{center.Lat, center.Lon}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Debug().
		Int("layers", len(cfg.Layers)).
		Str("tiles", cfg.Tiles).
		Float64("zoom", cfg.Zoom).
		Msg("Map document ready")

	return cfg, nil
}

func write(path string, fn func(io.Writer) error) error {
	if path == "" {
		return fn(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	log.Info().Str("path", path).Msg("Map written")
	return nil
}

func newClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			TLSNextProto:        make(map[string]func(string, *tls.Conn) http.RoundTripper),
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
		},
		Timeout: 15 * time.Second,
	}
}
