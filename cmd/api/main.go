package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"google.golang.org/api/option"

	"github.com/ewilliams-labs/lineup/internal/adapters/filecache"
	"github.com/ewilliams-labs/lineup/internal/adapters/gemini"
	"github.com/ewilliams-labs/lineup/internal/adapters/geo"
	"github.com/ewilliams-labs/lineup/internal/adapters/ollama"
	"github.com/ewilliams-labs/lineup/internal/adapters/postgres"
	"github.com/ewilliams-labs/lineup/internal/adapters/rest"
	"github.com/ewilliams-labs/lineup/internal/adapters/sheets"
	"github.com/ewilliams-labs/lineup/internal/adapters/spotify"
	"github.com/ewilliams-labs/lineup/internal/adapters/sqlite"
	"github.com/ewilliams-labs/lineup/internal/config"
	"github.com/ewilliams-labs/lineup/internal/core/ports"
	"github.com/ewilliams-labs/lineup/internal/core/services"
	"github.com/ewilliams-labs/lineup/internal/logging"
	"github.com/ewilliams-labs/lineup/internal/worker"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		bootLogger := logging.New(logging.Config{})
		bootLogger.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	logging.SetGlobal(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Initialize "Driven" Adapters
	// -- Poster reading model
	reader, err := newPosterReader(ctx, cfg.Vision)
	if err != nil {
		logger.Fatal().Err(err).Str("provider", cfg.Vision.Provider).Msg("failed to initialize vision model")
	}

	cache, err := filecache.New(cfg.Cache.Dir, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.Cache.Dir).Msg("failed to initialize poster cache")
	}

	// -- Databases
	var (
		sqliteDB *sqlite.Adapter
		pgDB     *sql.DB
	)
	needsSQLite := cfg.Storage.Driver == "sqlite" || cfg.Ledger.Driver == "sqlite"
	needsPostgres := cfg.Storage.Driver == "postgres" || cfg.Ledger.Driver == "postgres"

	if needsSQLite {
		sqliteDB, err = sqlite.NewAdapter(cfg.Storage.SQLitePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize sqlite")
		}
		defer sqliteDB.Close()
	}
	if needsPostgres {
		pgDB, err = postgres.Open(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer pgDB.Close()
		if err := postgres.New(pgDB).Migrate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate postgres")
		}
	}

	var sessions ports.SessionStore
	switch cfg.Storage.Driver {
	case "sqlite":
		sessions = sqliteDB
	case "postgres":
		sessions = postgres.New(pgDB)
	}

	// -- Playlist ledger
	var ledger ports.PlaylistLog
	switch cfg.Ledger.Driver {
	case "sheets":
		ledger, err = sheets.NewLedger(ctx, cfg.Ledger.SheetID, cfg.Ledger.SheetRange,
			option.WithCredentialsFile(cfg.Ledger.ServiceAccountKeyPath))
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize sheets ledger")
		}
	case "sqlite":
		ledger = sqliteDB
	case "postgres":
		ledger = postgres.New(pgDB)
	}

	pool := worker.NewPool(ledger, geo.NewLocator(cfg.Ledger.GeoBaseURL, logger), logger, worker.Config{
		Workers:   cfg.Ledger.Workers,
		QueueSize: cfg.Ledger.QueueSize,
		Timeout:   cfg.Ledger.Timeout,
	})
	pool.Start()
	defer pool.Stop()

	// -- Catalog
	auth := spotify.NewAuthenticator(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret, cfg.Spotify.RedirectURI, cfg.Spotify.Market)

	// 3. Initialize Core Logic
	handler := rest.NewHandler(rest.Deps{
		Extractor:      services.NewPosterExtractor(reader, cache, logger),
		Assembler:      services.NewLineupAssembler(cfg.Spotify.Concurrency, logger),
		Playlists:      services.NewPlaylistService(pool, logger),
		Tokens:         services.NewTokenKeeper(sessions, auth),
		Auth:           auth,
		Catalogs:       auth,
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		SecureCookies:  strings.HasPrefix(cfg.Spotify.RedirectURI, "https://"),
	})

	// 4. Start the Server
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      3 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	logger.Info().
		Str("addr", srv.Addr).
		Str("vision", cfg.Vision.Provider).
		Str("storage", cfg.Storage.Driver).
		Str("ledger", cfg.Ledger.Driver).
		Msg("lineup API is running")

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		logger.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown error")
		}
	}
}

func newPosterReader(ctx context.Context, cfg config.VisionConfig) (ports.PosterReader, error) {
	switch cfg.Provider {
	case "ollama":
		return ollama.NewClient(cfg.OllamaHost, cfg.OllamaModel), nil
	default:
		return gemini.NewClient(ctx, gemini.Config{APIKey: cfg.GoogleAPIKey, Model: cfg.GeminiModel})
	}
}
