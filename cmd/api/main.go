package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tivecs/finance/finance-backend/internal/amqp"
	"github.com/tivecs/finance/finance-backend/internal/auth"
	"github.com/tivecs/finance/finance-backend/internal/config"
	"github.com/tivecs/finance/finance-backend/internal/event"
	"github.com/tivecs/finance/finance-backend/internal/handler"
	"github.com/tivecs/finance/finance-backend/internal/middleware"
	"github.com/tivecs/finance/finance-backend/internal/repository/postgres"
	"github.com/tivecs/finance/finance-backend/internal/service"
	"github.com/tivecs/finance/finance-backend/internal/websocket"
)

// @title Finance API
// @version 1.0
// @description Personal expense tracking API
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token issued by the auth provider
func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Apply migrations before serving
	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Resolve sessions through the configured auth provider
	sessions, err := newSessionProvider(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create session provider")
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = newRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		sessions = auth.NewCachedProvider(sessions, rdb, cfg.SessionCacheTTL)
		log.Info().Dur("ttl", cfg.SessionCacheTTL).Msg("Session cache enabled")
	}

	// Change events: WebSocket clients always, the broker when configured
	hub := websocket.NewHub()
	publishers := event.Multi{hub}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := amqp.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to AMQP broker")
		}
		defer amqpPublisher.Close()
		publishers = append(publishers, amqpPublisher)
		log.Info().Str("exchange", cfg.AMQPExchange).Msg("AMQP publishing enabled")
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)

	// Initialize services
	authService := service.NewAuthService(userRepo)
	expenseService := service.NewExpenseService(expenseRepo, publishers)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	wsHandler := handler.NewWebSocketHandler(hub, sessions, cfg.CORSOrigins, websocket.StreamConfig{
		SendBuffer:   cfg.WSSendBuffer,
		PingInterval: cfg.WSPingInterval,
	})

	// Per-user rate limiting
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		PerMinute: cfg.RateLimitPerMinute,
		Burst:     cfg.RateLimitBurst,
	})
	defer rateLimiter.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderCookie},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		Skipper: func(c echo.Context) bool {
			// swagger UI needs inline scripts
			return strings.HasPrefix(c.Path(), "/swagger")
		},
	}))

	// Request logging middleware with zerolog
	e.Use(middleware.RequestLogger())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			log.Error().Err(err).Msg("Health check failed")
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e,
		middleware.SessionAuth(sessions),
		middleware.RateLimitMiddleware(rateLimiter),
		cfg.PublicURL,
		authHandler,
		expenseHandler,
		wsHandler,
	)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("auth_provider", cfg.AuthProvider).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// newSessionProvider builds the provider selected by AUTH_PROVIDER
func newSessionProvider(cfg *config.Config) (auth.SessionProvider, error) {
	switch cfg.AuthProvider {
	case config.AuthProviderBetterAuth:
		return auth.NewBetterAuthProvider(cfg.AuthBaseURL, nil), nil
	case config.AuthProviderAuth0:
		auth0Provider, err := auth.NewAuth0Provider(cfg.Auth0Domain, cfg.Auth0Audience)
		if err != nil {
			return nil, err
		}
		return auth0Provider, nil
	case config.AuthProviderChain:
		auth0Provider, err := auth.NewAuth0Provider(cfg.Auth0Domain, cfg.Auth0Audience)
		if err != nil {
			return nil, err
		}
		return auth.Chain{auth.NewBetterAuthProvider(cfg.AuthBaseURL, nil), auth0Provider}, nil
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.AuthProvider)
	}
}

func newRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}
