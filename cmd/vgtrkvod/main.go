package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"vgtrkvod/internal/api"
	"vgtrkvod/internal/catalog"
	"vgtrkvod/internal/config"
	"vgtrkvod/internal/history"
	"vgtrkvod/internal/server"
	"vgtrkvod/internal/vgtrk"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Setup logger
	logger := setupLogger(cfg.Logging)

	logger.Info().
		Str("version", api.Version).
		Msg("starting vgtrkvod server")

	// Initialize search-history storage
	hist, err := history.NewStore(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize search history storage")
	}
	defer hist.Close()

	// Initialize upstream client and catalog service
	client := vgtrk.NewClient(vgtrk.Options{
		APIURL:    cfg.API.BaseURL,
		PlayerURL: cfg.API.PlayerURL,
		Channel:   cfg.API.Channel,
		SID:       cfg.API.SID,
		UserAgent: cfg.API.UserAgent,
		Timeout:   cfg.API.Timeout,
	}, logger)

	svc := catalog.NewService(client, catalog.Settings{
		PageLimit:     cfg.Catalog.PageLimit,
		SeasonLimit:   cfg.Catalog.SeasonLimit,
		Quality:       cfg.Catalog.VideoQuality,
		OriginalNames: cfg.Catalog.OriginalNames,
		CacheTTL:      cfg.Catalog.CacheTTL,
	}, logger)

	// Create server
	srv := server.New(cfg, logger, svc, hist)

	// Handle shutdown signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info().Msg("received shutdown signal")
		cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("shutdown error")
		}
	}()

	// Start server
	if err := srv.Start(); err != nil {
		logger.Error().Err(err).Msg("server error")
	}

	logger.Info().Msg("server stopped")
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Pretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().
			Timestamp().
			Logger()
	}

	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Logger()
}
