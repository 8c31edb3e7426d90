package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/stackit/backend/internal/config"
	"github.com/emilythestrangee/stackit/backend/internal/database"
	"github.com/emilythestrangee/stackit/backend/internal/server"
	"github.com/emilythestrangee/stackit/backend/internal/services"
)

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func gracefulShutdown(apiServer *http.Server, log *logrus.Logger, done chan<- struct{}) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	close(done)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := newLogger(cfg)
	gin.SetMode(cfg.GinMode)

	db, err := database.New(cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db.GetDB()); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Info("✅ Database migrations completed")

	// Without real authentication every request acts as this user, so it must exist
	if cfg.AuthMode == config.AuthModeStatic {
		users := services.NewUserService(db.GetDB(), log)
		_, err := users.EnsureUser(context.Background(), cfg.StaticUserID, "stackit-user", "user@stackit.local")
		if err != nil {
			log.Fatalf("Failed to seed placeholder user: %v", err)
		}
	}

	apiServer := server.NewServer(cfg, db, log)

	done := make(chan struct{})
	go gracefulShutdown(apiServer, log, done)

	log.WithField("port", cfg.Port).Info("🚀 Server starting")
	if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("HTTP server error: %v", err)
		os.Exit(1)
	}

	<-done
	log.Info("Graceful shutdown complete")
}
