package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gaugeworks/riverwatch/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		sourceURL     string
		name          string
		unit          string
		stationFilter string
		interval      time.Duration
		httpAddr      string
		once          bool
		pdfOut        string
		userAgent     string
		fetchTimeout  time.Duration
		fetchAttempts int
		configPath    string
		verbose       bool
	)

	flag.StringVar(&sourceURL, "source.url", os.Getenv("RIVERWATCH_SOURCE_URL"), "Bulletin locator: http(s)://, ftp://, or a file path")
	flag.StringVar(&name, "name", "River Height", "Display name for the reading")
	flag.StringVar(&unit, "unit", "m", "Display unit for heights")
	flag.StringVar(&stationFilter, "station.filter", os.Getenv("RIVERWATCH_STATION_FILTER"), "Station name substring; first match wins, empty matches everything")
	flag.DurationVar(&interval, "interval", app.DefaultInterval, "Re-fetch interval (minimum 1m)")
	flag.StringVar(&httpAddr, "http.addr", ":8080", "Listen address for the consumer API")
	flag.BoolVar(&once, "once", false, "Fetch and report a single reading, then exit")
	flag.StringVar(&pdfOut, "pdf.out", "", "With -once, write a PDF snapshot of all readings to this path")
	flag.StringVar(&userAgent, "fetch.ua", "riverwatch/1.0", "User-Agent for HTTP fetches")
	flag.DurationVar(&fetchTimeout, "fetch.timeout", 30*time.Second, "Per-attempt fetch timeout")
	flag.IntVar(&fetchAttempts, "fetch.attempts", 3, "Fetch attempts per cycle, including the first")
	flag.StringVar(&configPath, "config", "", "Optional YAML or JSON config file")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	// Presence of -station.filter matters: an explicitly empty filter still
	// matches every station, unlike no filter at all.
	filterSet := os.Getenv("RIVERWATCH_STATION_FILTER") != ""
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "station.filter" {
			filterSet = true
		}
	})

	cfg := app.Config{
		SourceURL:        sourceURL,
		Name:             name,
		Unit:             unit,
		StationFilter:    stationFilter,
		StationFilterSet: filterSet,
		Interval:         interval,
		HTTPAddr:         httpAddr,
		Once:             once,
		PDFPath:          pdfOut,
		UserAgent:        userAgent,
		FetchTimeout:     fetchTimeout,
		FetchAttempts:    fetchAttempts,
		Verbose:          verbose,
	}

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("load config file")
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	a, err := app.New(cfg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		log.Error().Err(err).Msg("riverwatch failed")
		os.Exit(1)
	}
}
