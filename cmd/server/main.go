package main

import (
	"context"
	"fashionhub/internal/auth"
	"fashionhub/internal/avatar"
	"fashionhub/internal/config"
	"fashionhub/internal/sentry"
	"fashionhub/internal/server"
	"fashionhub/internal/storage"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()
	cfg := config.NewConfig()

	if err := sentry.Init(cfg.SentryDSN, cfg.Environment); err != nil {
		log.Printf("Sentry disabled: %v", err)
	}
	defer sentry.Flush(2 * time.Second)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. Database
	store, err := storage.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// 2. Sessions. Random keys are only acceptable over plain HTTP in development.
	sessions, err := auth.NewSessionManager(auth.SessionConfig{
		IsSecure:          !cfg.InsecureHTTP,
		AllowInsecureKeys: cfg.InsecureHTTP,
		HashKey:           cfg.SessionHashKey,
		BlockKey:          cfg.SessionBlock,
	})
	if err != nil {
		log.Fatalf("Failed to initialize sessions: %v", err)
	}

	// 3. Avatars
	avatars := avatar.NewStore(cfg.UploadDir, cfg.AvatarURLPath)
	if err := avatars.Init(); err != nil {
		log.Fatalf("Failed to create upload dir: %v", err)
	}

	// 4. HTTP API
	srv := server.NewServer(server.Options{
		Addr:           cfg.HTTPAddr,
		AllowedOrigins: cfg.AllowedOrigins,
		AvatarURLPath:  cfg.AvatarURLPath,
	}, store, sessions, avatars)

	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrors <- err
		}
	}()

	// Wait for interrupt or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("Received signal %v, initiating graceful shutdown...", sig)
	case err := <-serverErrors:
		sentry.CaptureError(err, "Server error, initiating shutdown")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
