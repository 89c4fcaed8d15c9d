// Package bizsubs собирает HTTP-приложение BizSubs: хранилище, кеш,
// сервисы и маршруты.
package bizsubs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/bizsubs/bizsubs/internal/cache"
	"github.com/bizsubs/bizsubs/internal/config"
	"github.com/bizsubs/bizsubs/internal/lib/jwt"
	"github.com/bizsubs/bizsubs/internal/migrations"
	activityservice "github.com/bizsubs/bizsubs/internal/services/activity"
	authservice "github.com/bizsubs/bizsubs/internal/services/auth"
	clientservice "github.com/bizsubs/bizsubs/internal/services/client"
	exportservice "github.com/bizsubs/bizsubs/internal/services/export"
	dealservice "github.com/bizsubs/bizsubs/internal/services/lifetimedeal"
	preferencesservice "github.com/bizsubs/bizsubs/internal/services/preferences"
	projectservice "github.com/bizsubs/bizsubs/internal/services/project"
	reportservice "github.com/bizsubs/bizsubs/internal/services/report"
	subscriptionservice "github.com/bizsubs/bizsubs/internal/services/subscription"
	teamservice "github.com/bizsubs/bizsubs/internal/services/team"
	"github.com/bizsubs/bizsubs/internal/storage/repository"
)

// App объединяет HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New создает приложение: подключает PostgreSQL, прогоняет миграции,
// инициализирует Redis и регистрирует все маршруты.
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

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	services := &Services{
		Auth:         authservice.NewAuthService(db, jwtMaker),
		Subscription: subscriptionservice.NewSubscriptionService(db, cacheRedis, logger),
		Deal:         dealservice.NewDealService(db, cacheRedis, logger),
		Client:       clientservice.NewClientService(db, cacheRedis, logger),
		Project:      projectservice.NewProjectService(db, logger),
		Team:         teamservice.NewTeamService(db, logger),
		Activity:     activityservice.NewActivityService(db),
		Preferences:  preferencesservice.NewPreferencesService(db, cacheRedis, logger),
	}
	services.Report = reportservice.NewReportService(db, cacheRedis, logger)
	services.Export = exportservice.NewExportService(db, services.Report)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, services)

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

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
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
