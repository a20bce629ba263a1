package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/videotube/internal/api"
	"github.com/dom/videotube/internal/config"
	"github.com/dom/videotube/internal/logging"
	"github.com/dom/videotube/internal/media"
	"github.com/dom/videotube/internal/repository/postgres"
	"github.com/dom/videotube/internal/service"
	"github.com/dom/videotube/internal/websocket"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	logging.Setup(cfg.LogLevel, cfg.Environment)

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Initialize media gateway
	client, err := media.NewClient(cfg.Media)
	if err != nil {
		logrus.Fatalf("failed to create media client: %v", err)
	}
	gateway := media.NewGateway(client, cfg.Media)

	startCtx, startCancel := context.WithTimeout(context.Background(), 15*time.Second)
	err = gateway.EnsureBucket(startCtx)
	startCancel()
	if err != nil {
		logrus.Fatalf("failed to prepare media bucket: %v", err)
	}
	if err := os.MkdirAll(cfg.Media.TempDir, 0o755); err != nil {
		logrus.Fatalf("failed to create upload temp dir: %v", err)
	}

	// Initialize live feed hub
	hub := websocket.NewHub(repos.Subscription)
	go hub.Run()

	// Initialize services
	services := service.NewServices(repos, gateway, hub, cfg)

	// Initialize router
	router := api.NewRouter(services, hub, cfg)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logrus.WithField("port", cfg.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hub.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("server forced to shutdown: %v", err)
	}

	logrus.Info("server stopped")
}
