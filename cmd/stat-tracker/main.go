package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fortuna/services/stat-tracker/internal/config"
	"github.com/fortuna/services/stat-tracker/internal/handlers"
	"github.com/fortuna/services/stat-tracker/internal/hub"
	"github.com/fortuna/services/stat-tracker/internal/session"
	"github.com/fortuna/services/stat-tracker/internal/store"
	"github.com/fortuna/services/stat-tracker/internal/store/pgremote"
	"github.com/fortuna/services/stat-tracker/internal/store/redisremote"
	"github.com/fortuna/services/stat-tracker/internal/store/sqlitelocal"
	"github.com/redis/go-redis/v9"
)

func main() {
	log.Println("Starting Stat Tracker Service...")

	cfg := config.Load()

	// Local durable cache
	local, err := sqlitelocal.New(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("Failed to open local cache: %v", err)
	}
	defer local.Close()
	log.Printf("Local cache ready at %s", cfg.Storage.SQLitePath)

	// Remote document store
	remote, err := openRemote(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to connect to remote store: %v", err)
	}
	defer remote.Close()
	log.Printf("Connected to remote store (%s)", cfg.Storage.RemoteBackend)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Live snapshot broadcasting
	stateHub := hub.New()
	go stateHub.Run(ctx)

	manager := session.NewManager(local, remote, stateHub)

	handler := handlers.NewHandler(manager, remote, stateHub, ctx)
	router := handlers.NewRouter(handler, cfg.Server.CORSOrigins)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("Stat Tracker listening on %s", cfg.Server.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatalf("Server error: %v", err)

	case sig := <-shutdown:
		log.Printf("Received signal: %v", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Graceful shutdown failed: %v", err)
			srv.Close()
		}

		cancel()

		// Let pending local saves land before closing the stores.
		manager.Flush()
	}

	log.Println("Stat Tracker Service stopped")
}

// openRemote builds the configured remote store backend.
func openRemote(cfg config.StorageConfig) (store.RemoteStore, error) {
	switch cfg.RemoteBackend {
	case config.BackendRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parsing Redis URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(context.Background()).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("pinging Redis: %w", err)
		}
		return redisremote.New(client), nil

	case config.BackendPostgres:
		return pgremote.New(cfg.PostgresDSN)

	default:
		return nil, fmt.Errorf("unknown remote backend: %q", cfg.RemoteBackend)
	}
}
