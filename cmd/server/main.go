package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sentiserve/ml-api/internal/api"
	"github.com/sentiserve/ml-api/internal/core/domain"
	"github.com/sentiserve/ml-api/internal/core/ports"
	"github.com/sentiserve/ml-api/internal/core/service"
	"github.com/sentiserve/ml-api/internal/infrastructure/config"
	"github.com/sentiserve/ml-api/internal/infrastructure/db/memory"
	mongodb "github.com/sentiserve/ml-api/internal/infrastructure/db/mongo"
	redisdb "github.com/sentiserve/ml-api/internal/infrastructure/db/redis"
	"github.com/sentiserve/ml-api/internal/infrastructure/ml"
	"github.com/sentiserve/ml-api/internal/infrastructure/queue"
	"github.com/sentiserve/ml-api/internal/pkg/password"
	"github.com/sentiserve/ml-api/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
	gomongo "go.mongodb.org/mongo-driver/mongo"
)

const (
	appName    = "ml-api"
	appVersion = "0.1.0"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- User store (pluggable) ---
	users, mongoDB, err := buildUserStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("user store init failed")
	}

	// --- Optional Redis prediction cache ---
	var rdb *goredis.Client
	var cache ports.PredictionCache
	if cfg.Redis.Addr != "" {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("redis init failed")
		}
		defer rdb.Close()
		cache = redisdb.NewPredictionCache(rdb)
	}

	// --- Services ---
	hasher := password.NewHasher(cfg.Auth.BcryptCost)
	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	audit := queue.NewDispatcher(0, service.NewAuditService(logger.Component("audit")), log)
	audit.Start(ctx)

	auth := service.NewAuthService(users, hasher, tokens, audit, logger.Component("auth"))
	predictor := ml.NewLexiconPredictor(cfg.Model.Name)
	predictions := service.NewPredictionService(predictor, cache, logger.Component("predict"))

	// Bootstrap accounts must exist before the first request is served.
	if err := auth.Bootstrap(ctx, []ports.SeedUser{
		{
			Username: cfg.Bootstrap.AdminUsername,
			Email:    cfg.Bootstrap.AdminEmail,
			FullName: "Admin User",
			Password: cfg.Bootstrap.AdminPassword,
			Role:     domain.RoleAdmin,
		},
		{
			Username: cfg.Bootstrap.UserUsername,
			Email:    cfg.Bootstrap.UserEmail,
			FullName: "Test User",
			Password: cfg.Bootstrap.UserPassword,
			Role:     domain.RoleUser,
		},
	}); err != nil {
		log.Fatal().Err(err).Msg("bootstrap failed")
	}

	e := api.NewRouter(api.Deps{
		Auth:        auth,
		Tokens:      tokens,
		Predictions: predictions,
		Redis:       rdb,
		Mongo:       mongoDB,
		Logger:      log,
		Name:        appName,
		Version:     appVersion,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// buildUserStore selects the configured store backend. The Mongo database
// handle is returned separately so the readiness probe can ping it.
func buildUserStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.UserRepository, *gomongo.Database, error) {
	switch cfg.Store.Backend {
	case "mongo":
		_, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		repo := mongodb.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("using mongo user store")
		return repo, db, nil
	case "memory":
		log.Info().Msg("using in-memory user store")
		return memory.NewUserRepository(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown user store backend %q", cfg.Store.Backend)
	}
}
