package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/fitflow-web/internal/cache"
	"github.com/magabrotheeeer/fitflow-web/internal/config"
	"github.com/magabrotheeeer/fitflow-web/internal/events"
	"github.com/magabrotheeeer/fitflow-web/internal/fitflowapi"
	grpchealth "github.com/magabrotheeeer/fitflow-web/internal/grpc/health"
	"github.com/magabrotheeeer/fitflow-web/internal/http/handlers/accounts"
	"github.com/magabrotheeeer/fitflow-web/internal/http/handlers/auth"
	"github.com/magabrotheeeer/fitflow-web/internal/http/handlers/dashboard"
	"github.com/magabrotheeeer/fitflow-web/internal/http/handlers/foodlog"
	"github.com/magabrotheeeer/fitflow-web/internal/http/handlers/foods"
	"github.com/magabrotheeeer/fitflow-web/internal/http/handlers/health"
	"github.com/magabrotheeeer/fitflow-web/internal/http/handlers/planner"
	"github.com/magabrotheeeer/fitflow-web/internal/http/handlers/plans"
	"github.com/magabrotheeeer/fitflow-web/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fitflow-web/internal/lib/sl"
	"github.com/magabrotheeeer/fitflow-web/internal/metrics"
	"github.com/magabrotheeeer/fitflow-web/internal/migrations"
	accountservice "github.com/magabrotheeeer/fitflow-web/internal/services/accounts"
	dashboardservice "github.com/magabrotheeeer/fitflow-web/internal/services/dashboard"
	foodlogservice "github.com/magabrotheeeer/fitflow-web/internal/services/foodlog"
	foodservice "github.com/magabrotheeeer/fitflow-web/internal/services/foods"
	plannerservice "github.com/magabrotheeeer/fitflow-web/internal/services/planner"
	planservice "github.com/magabrotheeeer/fitflow-web/internal/services/plans"
	"github.com/magabrotheeeer/fitflow-web/internal/session"
	"github.com/magabrotheeeer/fitflow-web/internal/storage"
	"github.com/magabrotheeeer/fitflow-web/internal/validation"
)

// App веб-слой: HTTP-сервер, gRPC health и их зависимости.
// db и publisher равны nil, если журнал или события отключены.
type App struct {
	server    *http.Server
	health    *grpchealth.Server
	grpcAddr  string
	logger    *slog.Logger
	cache     *cache.Cache
	db        *storage.Storage
	publisher *events.Publisher
}

// New подключает зависимости и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "web.New"

	m := metrics.New()
	api := fitflowapi.New(cfg.BaseURL, cfg.TimeoutUpstream, m)
	validate := validation.New(nil)

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	app := &App{
		grpcAddr: cfg.GRPCHealthAddress,
		logger:   logger,
		cache:    cacheRedis,
	}

	healthHandler := health.New(logger, 2*time.Second).
		Register("fitflow_api", api.Ping).
		Register("redis", cacheRedis.Ping)

	var journal foodlogservice.Journal
	if cfg.StorageConnectionString != "" {
		db, err := storage.New(ctx, cfg.StorageConnectionString)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.db = db
		if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		journal = db
		healthHandler.Register("postgres", db.CheckReady)
	} else {
		logger.Info("submission journal is disabled")
	}

	var publisher foodlogservice.Publisher
	if cfg.RabbitMQ.URL != "" {
		p, err := events.NewPublisher(ctx, cfg.RabbitMQ)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.publisher = p
		publisher = p
	} else {
		logger.Info("event publishing is disabled")
	}

	sessions := session.NewManager(cacheRedis, api, cfg.SessionTTL, logger)
	accountService := accountservice.New(api, validate, logger)

	handlers := Handlers{
		Auth:      auth.New(logger, sessions, accountService, validate, cfg.CookieName),
		Accounts:  accounts.New(logger, accountService),
		Foods:     foods.New(logger, foodservice.New(api, validate, logger)),
		Plans:     plans.New(logger, planservice.New(api, validate, logger)),
		FoodLog:   foodlog.New(logger, foodlogservice.New(api, validate, logger, cfg.ConsistencySchedule, journal, publisher, m)),
		Dashboard: dashboard.New(logger, dashboardservice.New(api)),
		Planner:   planner.New(logger, plannerservice.New(api, validate, logger)),
		Health:    healthHandler,
	}

	router := chi.NewRouter()
	limiter := middlewarectx.NewLimiter(cfg.RPS, cfg.Burst)
	RegisterRoutes(router, logger, sessions, cfg.CookieName, limiter, m, handlers)

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	app.health = grpchealth.New(api, cfg.HealthInterval, logger)

	return app, nil
}

// Run запускает HTTP и gRPC серверы и останавливает их при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", a.grpcAddr)
	if err != nil {
		a.close()
		return fmt.Errorf("web.Run: %w", err)
	}

	errCh := make(chan error, 2)
	go func() {
		a.logger.Info("gRPC health server starting on", slog.String("address", a.grpcAddr))
		if err := a.health.Serve(lis); err != nil {
			errCh <- err
		}
	}()
	proberCtx, stopProber := context.WithCancel(ctx)
	defer stopProber()
	go a.health.RunProber(proberCtx)

	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
	}

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	a.logger.Info("shutting down HTTP server gracefully")
	if err := a.server.Shutdown(timeoutCtx); err != nil && runErr == nil {
		runErr = err
	}
	a.health.Stop()
	a.close()
	return runErr
}

func (a *App) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("failed to close publisher", sl.Err(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close storage", sl.Err(err))
		}
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("failed to close redis", sl.Err(err))
	}
}
