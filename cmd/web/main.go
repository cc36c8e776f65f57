// @title        Sales web session API
// @version      1.0
// @description  JSON session endpoints of the sales web front-end.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/salesrecorder/sales-web/internal/api"
	"github.com/salesrecorder/sales-web/internal/api/handler"
	"github.com/salesrecorder/sales-web/internal/api/middleware"
	"github.com/salesrecorder/sales-web/internal/core/ports"
	"github.com/salesrecorder/sales-web/internal/infrastructure/db/memory"
	mongostore "github.com/salesrecorder/sales-web/internal/infrastructure/db/mongo"
	redisstore "github.com/salesrecorder/sales-web/internal/infrastructure/db/redis"
	"github.com/salesrecorder/sales-web/internal/infrastructure/restapi"
	"github.com/salesrecorder/sales-web/internal/pkg/config"
	"github.com/salesrecorder/sales-web/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log := logger.Init(logger.Options{Pretty: true})
		log.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "sales-web",
	})

	storage, closeStorage, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Session.Backend).Msg("failed to open session storage")
	}
	defer func() {
		if err := closeStorage.Close(); err != nil {
			log.Warn().Err(err).Msg("close session storage")
		}
	}()

	client, err := restapi.New(restapi.Config{
		BaseURL:    cfg.API.BaseURL,
		AuthScheme: cfg.API.AuthScheme,
		Timeout:    cfg.API.Timeout,
	}, nil, log.With().Str("component", "restapi").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure backend client")
	}

	e, err := api.NewRouter(api.Deps{
		Log: log,
		Session: middleware.SessionConfig{
			Secret: cfg.Session.Secret,
			TTL:    cfg.Session.TTL,
			Secure: cfg.Session.CookieSecure,
		},
		Storage:        storage,
		StorageBackend: cfg.Session.Backend,
		AuthAPI:        client,
		Backend: handler.Backend{
			Clients:      client.Clients(),
			Salespersons: client.Salespersons(),
			Flavors:      client.Flavors(),
			Orders:       client,
			Reports:      client,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("api", cfg.API.BaseURL).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.SessionStorage, io.Closer, error) {
	switch cfg.Session.Backend {
	case config.BackendRedis:
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			MasterName: cfg.Redis.MasterName,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("session storage: redis")
		return redisstore.NewSessionStorage(rdb, cfg.Session.Secret, cfg.Session.TTL), rdb, nil

	case config.BackendMongo:
		db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		storage := mongostore.NewSessionStorage(db, cfg.Session.Secret, cfg.Session.TTL)
		if err := storage.EnsureIndexes(ctx); err != nil {
			_ = db.Client().Disconnect(context.Background())
			return nil, nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("session storage: mongo")
		return storage, closerFunc(func() error { return db.Client().Disconnect(context.Background()) }), nil

	default:
		log.Warn().Msg("session storage: in-process memory, sessions are lost on restart")
		return memory.NewSessionStorage(cfg.Session.Secret, cfg.Session.TTL), closerFunc(func() error { return nil }), nil
	}
}
