package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"github.com/utafrali/RentalGo/internal/catalog"
	"github.com/utafrali/RentalGo/internal/config"
	handler "github.com/utafrali/RentalGo/internal/handler/http"
	"github.com/utafrali/RentalGo/internal/listing"
	"github.com/utafrali/RentalGo/internal/repository"
	"github.com/utafrali/RentalGo/internal/repository/memory"
	redisrepo "github.com/utafrali/RentalGo/internal/repository/redis"
	"github.com/utafrali/RentalGo/internal/service"
	"github.com/utafrali/RentalGo/internal/view"
	"github.com/utafrali/RentalGo/pkg/database"
	"github.com/utafrali/RentalGo/pkg/health"
	"github.com/utafrali/RentalGo/pkg/httpclient"
	"github.com/utafrali/RentalGo/pkg/middleware"
	"github.com/utafrali/RentalGo/pkg/tracing"
)

const serviceName = "rental"

// pingStore is a visitor store that can report its own health.
type pingStore interface {
	repository.Store
	Ping(ctx context.Context) error
}

// App wires together all dependencies and runs the rental web front end.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	limiter        *middleware.RateLimiter
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	store, rdb, err := openStore(ctx, cfg, logger)
	if err != nil {
		_ = tracerShutdown(ctx)
		return nil, err
	}

	// Catalog client: one attempt per call, behind a circuit breaker.
	baseClient := httpclient.New(httpclient.Config{
		Timeout:         cfg.CatalogTimeout,
		MaxRetries:      0,
		RetryWaitMin:    200 * time.Millisecond,
		RetryWaitMax:    2 * time.Second,
		MaxConnsPerHost: 20,
	})

	cbCfg := httpclient.CircuitBreakerConfig{
		Name:         "catalog",
		MaxRequests:  cfg.CBMaxRequests,
		Interval:     time.Duration(cfg.CBInterval) * time.Second,
		Timeout:      time.Duration(cfg.CBTimeout) * time.Second,
		FailureRatio: cfg.CBFailureRatio,
		MinRequests:  cfg.CBMinRequests,
	}
	cbClient := httpclient.NewCircuitBreakerClient(baseClient, cbCfg, logger).
		WithFallback(catalog.CircuitOpenFallback)
	logger.Info("circuit breaker initialized",
		slog.String("name", cbCfg.Name),
		slog.Uint64("max_requests", uint64(cbCfg.MaxRequests)),
		slog.Int("timeout_seconds", cfg.CBTimeout),
		slog.Uint64("min_requests", uint64(cbCfg.MinRequests)),
	)

	catalogClient := catalog.NewClient(cbClient, cfg.CatalogBaseURL, logger)

	// Build the dependency graph.
	svc := handler.Services{
		Vehicles: service.NewVehicleService(catalogClient, listing.NewSnapshotCache(cfg.SnapshotTTL, cfg.SnapshotCacheSize), logger),
		Bookings: service.NewBookingService(logger),
		Accounts: service.NewAccountService(store, logger),
		Contact:  service.NewContactService(logger),
	}

	views, err := view.New()
	if err != nil {
		closeRedis(rdb, logger)
		_ = tracerShutdown(ctx)
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	visitors, err := middleware.NewVisitors(middleware.VisitorConfig{
		HashKey:  []byte(cfg.VisitorHashKey),
		BlockKey: []byte(cfg.VisitorBlockKey),
		MaxAge:   cfg.StoreTTL(),
		Secure:   cfg.Environment == "production",
	}, logger)
	if err != nil {
		closeRedis(rdb, logger)
		_ = tracerShutdown(ctx)
		return nil, fmt.Errorf("init visitor cookies: %w", err)
	}

	limiter := middleware.NewRateLimiter(cfg.FormRateLimitRPS, cfg.FormRateLimitBurst, logger)

	// Health checks. The catalog is optional: pages degrade without it.
	healthHandler := health.NewHandler()
	healthHandler.Register("store", store.Ping)
	healthHandler.RegisterOptional("catalog", func(context.Context) error {
		if cbClient.State() == gobreaker.StateOpen {
			return errors.New("circuit breaker open")
		}
		return nil
	})

	// HTTP router.
	router := handler.NewRouter(svc, handler.RouterConfig{
		Views:              views,
		Visitors:           visitors,
		FormLimiter:        limiter,
		Health:             healthHandler,
		LoginRedirectDelay: cfg.LoginRedirectDelay,
	}, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		limiter:        limiter,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// openStore connects the configured visitor store. The redis client is nil
// for the memory backend.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (pingStore, *redis.Client, error) {
	if cfg.StoreBackend != config.StoreRedis {
		logger.Info("using in-memory visitor store")
		return memory.NewStore(), nil, nil
	}

	redisCfg := database.DefaultRedisConfig()
	redisCfg.Addr = cfg.RedisAddr
	redisCfg.Password = cfg.RedisPass
	redisCfg.DB = cfg.RedisDB

	rdb, err := database.NewRedisClient(ctx, redisCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Configure slow store operation logging.
	if cfg.SlowStoreOpThresholdMs > 0 {
		database.SetSlowOpLogging(time.Duration(cfg.SlowStoreOpThresholdMs)*time.Millisecond, logger)
	}

	return redisrepo.NewStore(rdb, cfg.StoreTTL()), rdb, nil
}

func closeRedis(rdb *redis.Client, logger *slog.Logger) {
	if rdb == nil {
		return
	}
	if err := rdb.Close(); err != nil {
		logger.Error("redis close error", slog.String("error", err.Error()))
	}
}

// Handler returns the application's HTTP handler.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	a.limiter.Close()
	closeRedis(a.rdb, a.logger)

	// Flush pending spans.
	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
