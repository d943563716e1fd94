/*
Package main is the entry point for the Hellverse chat server.

It is responsible for loading configuration, initializing the global logging
system, connecting to PostgreSQL and the portrait store, restoring the channel
directory and ban list persisted by earlier runs, starting the connection hub
and HTTP server, and gracefully handling operating system interrupt signals
(SIGINT, SIGTERM) for a smooth shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hvchat/internal/app/chat"
	"hvchat/internal/app/db"
	"hvchat/internal/app/storage"
	"hvchat/internal/configs"
	"hvchat/internal/handler"
	"hvchat/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Strs("default_channels", cfg.DefaultChannels).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL and run migrations
	pool, err := db.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to connect to database")
	}
	defer pool.Close()
	store := db.NewStore(pool)

	// Connect to portrait storage
	storageService, err := storage.NewStorageService(storage.ServiceConfig{
		S3BucketName:      cfg.S3BucketName,
		S3Endpoint:        cfg.S3Endpoint,
		S3AccessKeyID:     cfg.S3AccessKeyID,
		S3SecretAccessKey: cfg.S3SecretAccessKey,
	})
	if err != nil {
		logx.Fatal(err, "Failed to initialize portrait storage")
	}

	// Restore the durable moderation and directory state. A restart must not
	// silently unban anyone or forget moderator-created channels.
	startupCtx, cancelStartup := context.WithTimeout(ctx, 10*time.Second)
	defer cancelStartup()

	seedBans, err := store.ListBans(startupCtx)
	if err != nil {
		logx.Fatal(err, "Failed to load ban records")
	}

	storedChannels, err := store.ListChannels(startupCtx)
	if err != nil {
		logx.Fatal(err, "Failed to load channel directory")
	}
	seedChannels := append(append([]string{}, cfg.DefaultChannels...), storedChannels...)

	// Initialize the connection hub
	hub := chat.NewHub(cfg.HomeChannel(), seedChannels, seedBans, store, store)

	// Make sure the default channel set is on record for the next restart.
	for i, name := range cfg.DefaultChannels {
		if err := store.UpsertChannel(startupCtx, name, i == 0, ""); err != nil {
			logx.Error(err, "Failed to persist default channel", "channel", name)
		}
	}

	// Setup HTTP server and routes
	deps := &handler.AppDeps{
		Hub:     hub,
		Config:  cfg,
		Store:   store,
		Storage: storageService,
	}
	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Hellverse Chat Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	logx.Info("Server gracefully stopped.")
}
