// Package dashboard собирает приложение: хранилище, миграции, кэш,
// бизнес-сервисы, маршруты и HTTP-сервер с корректной остановкой.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/ivankoval/subscription-dashboard/internal/cache"
	"github.com/ivankoval/subscription-dashboard/internal/config"
	"github.com/ivankoval/subscription-dashboard/internal/lib/jwt"
	"github.com/ivankoval/subscription-dashboard/internal/migrations"
	authservice "github.com/ivankoval/subscription-dashboard/internal/services/auth"
	planservice "github.com/ivankoval/subscription-dashboard/internal/services/plan"
	subservice "github.com/ivankoval/subscription-dashboard/internal/services/subscription"
	"github.com/ivankoval/subscription-dashboard/internal/storage/repository"
)

// App хранит собранные зависимости приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New инициализирует все зависимости и возвращает готовое к запуску приложение.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(
		cfg.JWTToken.AccessSecretKey,
		cfg.JWTToken.RefreshSecretKey,
		cfg.JWTToken.AccessTokenTTL,
		cfg.JWTToken.RefreshTokenTTL,
	)

	authService := authservice.NewAuthService(db, db, jwtMaker)
	planService := planservice.NewPlanService(db, cacheRedis, logger)
	subscriptionService := subservice.NewSubscriptionService(db, db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, planService, subscriptionService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены контекста или ошибки.
// При отмене контекста сервер останавливается корректно с таймаутом 15 секунд.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
