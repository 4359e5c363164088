// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/moshpit-dev/moshpit/internal/api/rest"
	"github.com/moshpit-dev/moshpit/internal/api/ws"
	"github.com/moshpit-dev/moshpit/internal/app/playback"
	"github.com/moshpit-dev/moshpit/internal/app/player"
	"github.com/moshpit-dev/moshpit/internal/app/playlists"
	"github.com/moshpit-dev/moshpit/internal/app/queue"
	"github.com/moshpit-dev/moshpit/internal/app/session"
	"github.com/moshpit-dev/moshpit/internal/infra/catalog"
	"github.com/moshpit-dev/moshpit/internal/infra/config"
	"github.com/moshpit-dev/moshpit/internal/infra/logger"
	"github.com/moshpit-dev/moshpit/internal/infra/store"
)

var (
	app        = kingpin.New("moshpit-server", "moshpit playback engine server")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()
)

func init() {
	app.Command("start", "Start the server (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	loggerConfig := logger.Config{
		Output: cfg.Logging.Output,
		Level:  cfg.Logging.Level,
		File:   cfg.Logging.File,
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
		loggerConfig.File = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	kv, err := store.New(cfg.Storage.Dir)
	if err != nil {
		return fmt.Errorf("failed to open state store: %w", err)
	}
	zlog.Info().Msgf("State directory: %s", kv.Dir())
	persister := store.NewPersister(kv)

	catalogClient, err := catalog.New(catalog.Config{
		BaseURL: cfg.Catalog.BaseURL,
		Timeout: cfg.Catalog.Timeout(),
	})
	if err != nil {
		return fmt.Errorf("failed to create catalog client: %w", err)
	}

	playerSettings, err := player.DecodeSettings(cfg.Player.Settings)
	if err != nil {
		return fmt.Errorf("invalid player settings: %w", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	q := queue.NewStore(rng, persister)
	q.Restore(persister.LoadQueue())
	zlog.Info().Msgf("Restored queue: items=%d index=%d", q.Len(), q.CurrentIndex())

	pl := playlists.NewStore(q, persister)
	pl.Restore(persister.LoadPlaylists())
	zlog.Info().Msgf("Restored playlists: count=%d", len(pl.List()))

	controller := playback.NewController()
	model := playback.NewModelWithInterval(cfg.Playback.PublishInterval())

	hub := ws.NewHub()
	playerMgr := player.NewManager(controller, model, hub, playerSettings)
	sessionMgr := session.NewManager(q, pl, playerMgr, controller, model, catalogClient, rng)

	wsServer := ws.NewServer(hub, sessionMgr)

	root := chi.NewRouter()
	root.Use(chimiddleware.Recoverer)
	root.Mount("/api", rest.NewServer(sessionMgr).Router())
	root.Mount("/", wsServer.Router())

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: root,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go wsServer.Run(ctx)

	serverErrCh := make(chan error, 1)
	go func() {
		zlog.Info().Msgf("Starting server: addr=%s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Tear down the mount first so no command races shutdown.
	playerMgr.Unmount()
	cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")
	return nil
}
