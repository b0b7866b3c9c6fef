// @title           Ocean Cleanup API
// @version         1.0
// @description     Accounts, cleanup events and cleanup posts for the beach cleanup app.
// @host            localhost:3000
// @BasePath        /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
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

	_ "github.com/colinruark1/ocean-cleaning/docs"
	"github.com/colinruark1/ocean-cleaning/internal/app"
	"github.com/colinruark1/ocean-cleaning/internal/config"
	"github.com/colinruark1/ocean-cleaning/internal/logging"
)

const serviceName = "ocean-cleaning-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup(serviceName, "unknown", "json", os.Stderr).Error("config", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(serviceName, cfg.App.Version, cfg.Log.Format, os.Stdout)

	if cfg.App.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("config loaded, opening record store", "backend", cfg.Store.Backend, "cache", cfg.Redis.Enabled())
	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logging.LogError(ctx, logger, "app init", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTP.Port,
		Handler:      application.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
		IdleTimeout:  cfg.HTTP.IdleTimeout.Duration(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		logging.LogError(context.Background(), logger, "HTTP server error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.LogError(shutdownCtx, logger, "HTTP server shutdown", err)
	}
	if err := application.Close(shutdownCtx); err != nil {
		logging.LogError(shutdownCtx, logger, "close resources", err)
	}
}
