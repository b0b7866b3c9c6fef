package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/colinruark1/ocean-cleaning/internal/config"
	"github.com/colinruark1/ocean-cleaning/internal/logging"
	"github.com/colinruark1/ocean-cleaning/internal/metrics"
	"github.com/colinruark1/ocean-cleaning/internal/repo"
	"github.com/colinruark1/ocean-cleaning/internal/repo/sheets"
)

type App struct {
	cfg     config.Config
	logger  *slog.Logger
	store   *repo.Store
	redis   *redis.Client
	metrics *metrics.Metrics
	router  *gin.Engine
}

// New opens the configured record store and, when configured, Redis, then builds the router.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb, err = newRedis(ctx, cfg.Redis)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	return NewWithStore(cfg, logger, store, rdb), nil
}

// NewWithStore builds the App over an open store. rdb may be nil to disable list caching.
// The App takes ownership of both.
func NewWithStore(cfg config.Config, logger *slog.Logger, store *repo.Store, rdb *redis.Client) *App {
	a := &App{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		redis:   rdb,
		metrics: metrics.New(),
	}
	a.router = a.newRouter()
	return a
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	_ = ctx
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	return errors.Join(errs...)
}

func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (*repo.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendSheets:
		store, err := sheets.Open(ctx, sheets.Options{
			SpreadsheetID:   cfg.Sheets.SpreadsheetID,
			CredentialsFile: cfg.Sheets.CredentialsFile,
			CredentialsJSON: cfg.Sheets.CredentialsJSON,
			APIKey:          cfg.Sheets.APIKey,
			AppsScriptURL:   cfg.Sheets.AppsScriptURL,
			UsersSheet:      cfg.Sheets.UsersSheet,
			EventsSheet:     cfg.Sheets.EventsSheet,
			PostsSheet:      cfg.Sheets.PostsSheet,
			Timeout:         cfg.Sheets.Timeout.Duration(),
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("sheets store: %w", err)
		}
		logger.Info("record store ready", "backend", config.BackendSheets, "spreadsheet_id", cfg.Sheets.SpreadsheetID)
		return store, nil
	default:
		store, err := repo.OpenSQL(ctx, repo.Dialect(cfg.DB.Driver), cfg.DB.DSN)
		if err != nil {
			return nil, fmt.Errorf("sql store: %w", err)
		}
		logger.Info("record store ready", "backend", config.BackendSQL, "driver", cfg.DB.Driver)
		return store, nil
	}
}

func newRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func (a *App) newRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.RequestLogger(a.logger))
	r.Use(a.metrics.Middleware())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(a.cfg.CORS.Origins) == 0 {
		// browsers refuse a wildcard origin on credentialed requests
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = a.cfg.CORS.Origins
	}
	r.Use(cors.New(corsCfg))

	a.setup(r)
	return r
}
