package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/night-watch/internal/config"
	"github.com/jwebster45206/night-watch/internal/engine"
	"github.com/jwebster45206/night-watch/internal/events"
	"github.com/jwebster45206/night-watch/internal/handlers"
	"github.com/jwebster45206/night-watch/internal/logger"
	"github.com/jwebster45206/night-watch/internal/media"
	"github.com/jwebster45206/night-watch/internal/middleware"
	"github.com/jwebster45206/night-watch/internal/storage"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg)

	log.Info("Starting Night Watch API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"assets_dir", cfg.AssetsDir)

	store := storage.NewRedisStorage(cfg.RedisURL, log)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisURL,
	})
	broadcaster := events.NewBroadcaster(redisClient, log)

	library, err := media.Load(os.DirFS(cfg.AssetsDir))
	if err != nil {
		log.Error("Failed to load media library", "error", err, "assets_dir", cfg.AssetsDir)
		os.Exit(1)
	}
	if len(library.Rooms()) == 0 {
		log.Error("Media library has no rooms", "assets_dir", cfg.AssetsDir)
		os.Exit(1)
	}
	log.Info("Media library loaded", "rooms", len(library.Rooms()))

	manager := engine.NewManager(engine.Config{
		Store:  store,
		Events: broadcaster,
		Media:  library,
		Logger: log,
	})

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, log)
	mux.Handle("/health", healthHandler)

	eventsHandler := handlers.NewEventsHandler(redisClient, log)
	sessionHandler := handlers.NewSessionHandler(manager, eventsHandler, log)
	mux.Handle("/v1/sessions", sessionHandler)
	mux.Handle("/v1/sessions/", sessionHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// WriteTimeout omitted so SSE streams stay open
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	// End live sessions so their final snapshots land in storage
	manager.Shutdown(shutdownCtx)

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}
	if err := redisClient.Close(); err != nil {
		log.Error("Error closing Redis connection", "error", err)
	}

	log.Info("Server exited")
}
