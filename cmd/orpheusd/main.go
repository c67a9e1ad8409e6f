package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/orpheus-player/orpheus/internal/config"
	"github.com/orpheus-player/orpheus/internal/download"
	"github.com/orpheus-player/orpheus/internal/library"
	"github.com/orpheus-player/orpheus/internal/logger"
	"github.com/orpheus-player/orpheus/internal/lyrics"
	"github.com/orpheus-player/orpheus/internal/metadata"
	"github.com/orpheus-player/orpheus/internal/mirror"
	"github.com/orpheus-player/orpheus/internal/player"
	"github.com/orpheus-player/orpheus/internal/resolver"
	"github.com/orpheus-player/orpheus/internal/server"
)

func main() {
	// A missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	store, err := library.Open(cfg.DBPath, appLogger)
	if err != nil {
		appLogger.Error("Failed to open library", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	provider, err := metadata.New(cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to init metadata provider", "error", err)
		os.Exit(1)
	}

	pool := mirror.NewPool(cfg.Mirrors, nil, appLogger)
	res := resolver.New(pool, appLogger)

	// The mock engine stands in until a platform shell registers a real one.
	session := player.NewSession(res, store, player.NewMockEngine(), appLogger)

	h := server.NewHandler(
		provider,
		store,
		res,
		session,
		lyrics.NewClient(cfg.LyricsURL, store, appLogger),
		download.NewDownloader(cfg.DownloadsDir, store, appLogger),
		appLogger,
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.NewRouter(h),
	}

	go func() {
		appLogger.Info("Server listening", "addr", srv.Addr, "provider", cfg.Provider)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Persist playback state so the next launch can resume.
	if err := session.Stop(); err != nil {
		appLogger.Warn("Failed to stop playback", "error", err)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	appLogger.Info("Server exiting")
}
