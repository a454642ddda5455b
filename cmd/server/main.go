package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/david/youth-hub/internal/api"
	"github.com/david/youth-hub/internal/app"
	"github.com/david/youth-hub/internal/auth"
	"github.com/david/youth-hub/internal/config"
	"github.com/david/youth-hub/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	hub, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to start hub", zap.Error(err))
	}
	defer hub.Close()

	if _, err := hub.Sessions.Prune(ctx); err != nil {
		logger.Warn("Failed to prune expired sessions", zap.Error(err))
	}

	issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, logger.Named("auth"))
	if err != nil {
		logger.Fatal("Failed to create token issuer", zap.Error(err))
	}

	srv := api.NewServer(api.Deps{
		Catalog:     hub.Catalog,
		Geography:   hub.Geography,
		Finder:      hub.Finder,
		Sessions:    hub.Sessions,
		Issuer:      issuer,
		Assistant:   hub.Assistant,
		Translator:  hub.Translator,
		Log:         logger.Named("api"),
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Server.Port), zap.String("storage", cfg.Storage.Backend))
		if err := srv.Start(cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Echo.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}
