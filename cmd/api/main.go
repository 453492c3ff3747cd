// Package main is the entry point for the journey planner API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/vivu-app/journey-planner/internal/auth"
	"github.com/vivu-app/journey-planner/internal/cache"
	"github.com/vivu-app/journey-planner/internal/config"
	"github.com/vivu-app/journey-planner/internal/geocode"
	"github.com/vivu-app/journey-planner/internal/handler"
	"github.com/vivu-app/journey-planner/internal/metrics"
	"github.com/vivu-app/journey-planner/internal/middleware"
	"github.com/vivu-app/journey-planner/internal/repo"
	"github.com/vivu-app/journey-planner/internal/routing"
	"github.com/vivu-app/journey-planner/internal/service"
	"github.com/vivu-app/journey-planner/internal/upstream"
	"github.com/vivu-app/journey-planner/migrations"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	// --- Database ---------------------------------------------------------
	if cfg.MigrateOnStart {
		if err := migrate(ctx, cfg.DatabaseURL); err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		slog.Error("invalid database url", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Metrics ----------------------------------------------------------
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// --- Auth -------------------------------------------------------------
	verifier, err := newVerifier(ctx, cfg.Auth)
	if err != nil {
		slog.Error("failed to initialise authentication", "error", err)
		os.Exit(1)
	}
	slog.Info("authentication configured", "provider", cfg.Auth.Provider)

	// --- Upstream services ------------------------------------------------
	httpClient := &http.Client{Timeout: cfg.Upstream.Timeout}

	geocoder := geocode.NewMapTiler(cfg.Search.BaseURL, cfg.Search.MapTilerKey, cfg.Search.Language,
		upstream.NewClient("maptiler", httpClient, m, logger))
	router := routing.NewORS(cfg.Routing.BaseURL, cfg.Routing.ORSKey, cfg.Routing.Profile,
		upstream.NewClient("openrouteservice", httpClient, m, logger))
	if cfg.Search.MapTilerKey == "" {
		slog.Warn("MAPTILER_KEY not set; /api/search will fail")
	}
	if cfg.Routing.ORSKey == "" {
		slog.Warn("OPEN_ROUTE_SERVICE_KEY not set; /api/directions will fail")
	}

	var searchCache service.SearchCache
	if cfg.Search.RedisURL != "" {
		rdb, err := newRedis(ctx, cfg.Search.RedisURL)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		searchCache = cache.NewSearchCache(rdb, cfg.Search.CacheTTL)
		slog.Info("search cache enabled", "ttl", cfg.Search.CacheTTL.String())
	}

	// --- Services ---------------------------------------------------------
	journeyRepo := repo.NewJourneyRepo(pool)
	srv := handler.NewServer(
		service.NewJourneyService(journeyRepo),
		service.NewSearchService(geocoder, searchCache, m, logger),
		service.NewDirectionsService(router),
		service.NewExportService(journeyRepo),
		logger,
	)

	// --- Router -----------------------------------------------------------
	// Middleware order: RequestID → RealIP → SlogLogger → Recoverer → CORS →
	// MaxBodySize → Metrics. The logger sits outside Recoverer so a recovered
	// panic is still logged with its 500 status.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Use(middleware.NewMetrics(m))

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Mount("/", handler.Handler(srv, handler.RouterOptions{
		Authenticate: middleware.NewAuthenticator(verifier, cfg.Auth.CookieName, logger),
		ProxyLimiter: middleware.NewRateLimiter(cfg.Upstream.RateLimitRequests, cfg.Upstream.RateLimitWindow),
	}))

	// --- HTTP Server ------------------------------------------------------
	// WriteTimeout leaves room for a slow directions call.
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Upstream.Timeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// migrate applies pending goose migrations. goose needs database/sql, so it
// gets its own short-lived connection instead of the pool.
func migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("up: %w", err)
	}
	for _, res := range results {
		slog.Info("migration applied", "version", res.Source.Version, "duration", res.Duration.String())
	}
	return nil
}

func newVerifier(ctx context.Context, cfg config.AuthConfig) (auth.Verifier, error) {
	switch cfg.Provider {
	case config.AuthProviderFirebase:
		return auth.NewFirebaseVerifier(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
	default:
		return auth.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	}
}

func newRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return rdb, nil
}
