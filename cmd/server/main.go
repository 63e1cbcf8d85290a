package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/steamvault/steamvault/internal/app"
	"github.com/steamvault/steamvault/internal/config"
	"github.com/steamvault/steamvault/internal/httpapp"
	"github.com/steamvault/steamvault/internal/httpclient"
	"github.com/steamvault/steamvault/internal/logger"
	"github.com/steamvault/steamvault/internal/steam"
	"github.com/steamvault/steamvault/internal/store"
	"github.com/steamvault/steamvault/internal/syncer"
	"github.com/steamvault/steamvault/internal/worker"
)

func main() {
	cfg := config.Load()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Initialize Logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	// Initialize DB
	db, err := store.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to init DB", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize Steam client behind the rate-limited HTTP client
	httpClient := httpclient.NewClient(nil, cfg.RequestInterval())
	steamClient := steam.NewClient(httpClient, cfg.SteamAPIKey)

	// Initialize the sync engine
	engine := syncer.New(db, steamClient, syncer.Options{
		BatchSize:       cfg.BatchSize,
		InterBatchDelay: cfg.InterBatchDelay,
		RefreshInterval: cfg.RefreshInterval,
		MetadataSource:  cfg.MetadataSource,
	}, appLogger)

	// Initialize Worker
	w := worker.NewWorker(db, engine, appLogger)
	w.Start()
	defer w.Stop()

	// Initialize Services
	syncService := app.NewSyncService(db, appLogger)

	// Initialize Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := httpapp.NewHandler(syncService, db, appLogger)
	h.RegisterRoutes(r)

	// Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
