// Package main is the entrypoint for the Clarity API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/clarity/clarity/internal/auth"
	"github.com/clarity/clarity/internal/cache"
	"github.com/clarity/clarity/internal/config"
	"github.com/clarity/clarity/internal/handler"
	"github.com/clarity/clarity/internal/metrics"
	"github.com/clarity/clarity/internal/middleware"
	"github.com/clarity/clarity/internal/repository"
	"github.com/clarity/clarity/internal/server"
	"github.com/clarity/clarity/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// A missing signing secret must stop the process before it serves
	// a single request.
	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret)
	if err != nil {
		logger.Error("failed to initialize token issuer", "error", err)
		os.Exit(1)
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	if err := repo.Migrate(ctx); err != nil {
		logger.Error("failed to run migrations", "error", sanitizeError(err, cfg.DatabaseURL))
		os.Exit(1)
	}
	logger.Info("migrations applied")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	recorder := metrics.NewInMemory()

	authService := service.NewAuthService(repo, tokens, recorder)
	transactionService := service.NewTransactionService(repo, service.AIConfig{
		APIKey:  cfg.AIAPIKey,
		BaseURL: cfg.AIBaseURL,
		Model:   cfg.AIModel,
	}, recorder)

	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	metricsHandler := handler.NewMetricsHandler(recorder)
	authHandler := handler.NewAuthHandler(authService, logger)
	transactionHandler := handler.NewTransactionHandler(transactionService, logger)

	r := setupRouter(routerDeps{
		base:         h,
		health:       healthHandler,
		metrics:      metricsHandler,
		auth:         authHandler,
		transactions: transactionHandler,
		tokens:       tokens,
		cache:        cacheClient,
		cfg:          cfg,
		logger:       logger,
	})

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"model", cfg.AIModel,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type routerDeps struct {
	base         *handler.Handler
	health       *handler.HealthHandler
	metrics      *handler.MetricsHandler
	auth         *handler.AuthHandler
	transactions *handler.TransactionHandler
	tokens       *auth.TokenIssuer
	cache        *cache.Cache
	cfg          *config.Config
	logger       *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.MaxBodySize(deps.cfg.MaxRequestBodySize))
	r.Use(middleware.CORS(corsConfig(deps.cfg)))

	// Unauthenticated surface
	r.Get("/", deps.base.Hello)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)
	r.Get("/metrics", deps.metrics.Metrics)

	// Auth endpoints, rate limited per client IP
	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  deps.logger,
		Cache:   deps.cache,
		Enabled: deps.cfg.RateLimitAuthEnabled,
		RPS:     deps.cfg.RateLimitAuthRPS,
		Burst:   deps.cfg.RateLimitAuthBurst,
	}
	r.Route("/auth", func(r chi.Router) {
		r.Use(middleware.RateLimitAuth(rateLimitCfg))
		r.Post("/register", deps.auth.Register)
		r.Post("/login", deps.auth.Login)
	})

	// Transaction endpoints, all behind bearer-token auth
	r.Route("/transactions", func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.logger, deps.tokens))
		r.Get("/", deps.transactions.List)
		r.Post("/", deps.transactions.Create)
		r.Post("/ai", deps.transactions.CreateFromPrompt)
		r.Put("/{id}", deps.transactions.Update)
		r.Delete("/{id}", deps.transactions.Delete)
	})

	r.NotFound(deps.base.NotFound)
	r.MethodNotAllowed(deps.base.MethodNotAllowed)

	return r
}

// corsConfig builds the CORS settings from the configured allow-list.
func corsConfig(cfg *config.Config) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	return corsCfg
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
