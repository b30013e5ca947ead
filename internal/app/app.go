package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Zenuu19/Skill-Swap-Platform/internal/auth"
	"github.com/Zenuu19/Skill-Swap-Platform/internal/config"
	"github.com/Zenuu19/Skill-Swap-Platform/internal/directory"
	"github.com/Zenuu19/Skill-Swap-Platform/internal/event"
	handler "github.com/Zenuu19/Skill-Swap-Platform/internal/handler/http"
	"github.com/Zenuu19/Skill-Swap-Platform/internal/repository"
	"github.com/Zenuu19/Skill-Swap-Platform/internal/repository/postgres"
	"github.com/Zenuu19/Skill-Swap-Platform/internal/repository/redis"
	"github.com/Zenuu19/Skill-Swap-Platform/internal/service"
	"github.com/Zenuu19/Skill-Swap-Platform/migrations"
	"github.com/Zenuu19/Skill-Swap-Platform/pkg/database"
	"github.com/Zenuu19/Skill-Swap-Platform/pkg/health"
	pkgkafka "github.com/Zenuu19/Skill-Swap-Platform/pkg/kafka"
	"github.com/Zenuu19/Skill-Swap-Platform/pkg/tracing"
)

// ServiceName identifies this service in logs, traces and metrics.
const ServiceName = "skillswap"

// Version is overridden at build time via -ldflags.
var Version = "0.1.0"

// App wires together all dependencies and runs the skill swap service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redis          *goredis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracingCfg := cfg.Tracing
	tracingCfg.ServiceName = ServiceName
	tracingCfg.ServiceVersion = Version
	tracingCfg.Environment = cfg.Environment
	tracerShutdown, err := tracing.InitTracer(ctx, tracingCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	pool, err := OpenDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, ServiceName); err != nil {
		logger.Warn("pool metrics not registered", slog.String("error", err.Error()))
	}

	if cfg.AutoMigrate {
		applied, err := database.RunMigrations(ctx, pool, migrations.FS, logger)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("database migrations completed", slog.Int("applied", applied))
	}

	if cfg.SlowQueryThreshold > 0 {
		database.SetSlowQueryLogging(cfg.SlowQueryThreshold, logger)
	}

	// Initialize Kafka producer.
	producer := pkgkafka.NewProducer(cfg.Kafka, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.Kafka.Brokers))

	// Optional Redis rating cache. The interface stays nil when disabled.
	var (
		redisClient *goredis.Client
		redisCache  *redis.RatingCache
		ratingCache repository.RatingCache
	)
	if cfg.RedisEnabled {
		redisClient, err = database.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			_ = producer.Close()
			pool.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		redisCache = redis.NewRatingCache(redisClient, cfg.RatingCacheTTL)
		ratingCache = redisCache
		logger.Info("connected to Redis", slog.String("addr", cfg.Redis.Addr))
	}

	// Identity directory: the local tables or the user service over HTTP.
	var identities repository.IdentityDirectory
	switch cfg.DirectoryMode {
	case config.DirectoryHTTP:
		identities = directory.NewHTTPDirectory(cfg.DirectoryURL, cfg.DirectoryHTTP, logger)
		logger.Info("using remote identity directory", slog.String("url", cfg.DirectoryURL))
	default:
		identities = postgres.NewDirectoryRepository(pool)
	}

	// Build the dependency graph.
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer)
	swapRepo := postgres.NewSwapRepository(pool)
	feedbackRepo := postgres.NewFeedbackRepository(pool)
	eventProducer := event.NewProducer(producer, logger)

	svcs := handler.Services{
		Swaps:    service.NewSwapService(swapRepo, identities, eventProducer, logger),
		Feedback: service.NewFeedbackService(feedbackRepo, swapRepo, ratingCache, eventProducer, logger),
	}
	// Moderation writes to the local identity tables, so it is only
	// available when those tables are the source of truth.
	if cfg.DirectoryMode == config.DirectoryPostgres {
		svcs.Moderation = service.NewModerationService(postgres.NewModerationRepository(pool), logger)
	}

	// Health checks.
	healthHandler := health.NewHandler(health.WithCheckTimeout(2 * time.Second))
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})
	if redisCache != nil {
		healthHandler.RegisterNonCritical("redis", redisCache.Ping)
	}

	router := handler.NewRouter(svcs, healthHandler, jwtManager.Validator(), handler.RouterConfig{
		CORS:           cfg.CORS,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		RequestTimeout: cfg.RequestTimeout,
	}, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redis:          redisClient,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// OpenDatabase connects to PostgreSQL using the service configuration.
func OpenDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	pool, err := database.NewPostgresPool(ctx, &cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.Postgres.Host),
		slog.Int("port", cfg.Postgres.Port),
		slog.String("database", cfg.Postgres.DBName),
	)
	return pool, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
			slog.String("environment", a.cfg.Environment),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return errors.Join(err, a.Shutdown())
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Tracer (flush pending spans from drained requests)
// 3. Kafka producer
// 4. Redis client
// 5. PostgreSQL pool
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
