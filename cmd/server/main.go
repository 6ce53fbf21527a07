package main

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/simplemap/internal/adapters"
	"github.com/woozymasta/simplemap/internal/config"
	"github.com/woozymasta/simplemap/internal/coords"
	"github.com/woozymasta/simplemap/internal/element"
	"github.com/woozymasta/simplemap/internal/logger"
	"github.com/woozymasta/simplemap/internal/server"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"      env:"CONFIG_FILE"    description:"Path to map document" default:"map.yaml"`
	Addr       string `short:"a" long:"addr"        env:"LISTEN_ADDRESS" description:"Address to listen on"  default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"        env:"LISTEN_PORT"    description:"Port to listen on"     default:"8080"`
	FetchTiles bool   `short:"F" long:"fetch-tiles" env:"FETCH_TILES"    description:"Download basemap tiles for snapshots"`
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

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	reg := coords.NewRegistry()
	adapters.Register(reg)
	f := element.NewFactory(coords.NewNormalizer(reg))

	var client *http.Client
	if opts.FetchTiles {
		client = &http.Client{
			Transport: &http.Transport{
				TLSNextProto:        make(map[string]func(string, *tls.Conn) http.RoundTripper),
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
			},
			Timeout: 15 * time.Second,
		}
	}

	srvCtx, err := server.NewServerContext(cfg, f, client)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare map")
	}

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	log.Info().
		Str("addr", listenAddr).
		Int("layers", len(cfg.Layers)).
		Str("tiles", cfg.Tiles).
		Msg("Web server started")

	if err := http.ListenAndServe(listenAddr, srvCtx.Handler()); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
