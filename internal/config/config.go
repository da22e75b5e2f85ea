package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Session provider selection
const (
	AuthProviderBetterAuth = "better-auth"
	AuthProviderAuth0      = "auth0"
	AuthProviderChain      = "chain"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL   string
	RunMigrations bool

	// Auth
	AuthProvider  string
	AuthBaseURL   string
	Auth0Domain   string
	Auth0Audience string

	// Session cache (optional)
	RedisURL        string
	SessionCacheTTL time.Duration

	// Change events broker (optional)
	AMQPURL      string
	AMQPExchange string

	// WebSocket change stream
	WSSendBuffer   int
	WSPingInterval time.Duration

	// Rate limiting
	RateLimitPerMinute int
	RateLimitBurst     int

	// Server
	Port        string
	PublicURL   string
	CORSOrigins []string
	Env         string
}

// Load reads configuration from the environment, after loading .env if present
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("AUTH_PROVIDER", AuthProviderBetterAuth)
	v.SetDefault("AUTH_BASE_URL", "http://localhost:3000")
	v.SetDefault("SESSION_CACHE_TTL", "5m")
	v.SetDefault("AMQP_EXCHANGE", "finance.events")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 100)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("WS_SEND_BUFFER", 64)
	v.SetDefault("WS_PING_INTERVAL", "30s")

	cfg := &Config{
		DatabaseURL:        v.GetString("DATABASE_URL"),
		RunMigrations:      v.GetBool("RUN_MIGRATIONS"),
		AuthProvider:       strings.ToLower(v.GetString("AUTH_PROVIDER")),
		AuthBaseURL:        v.GetString("AUTH_BASE_URL"),
		Auth0Domain:        v.GetString("AUTH0_DOMAIN"),
		Auth0Audience:      v.GetString("AUTH0_AUDIENCE"),
		RedisURL:           v.GetString("REDIS_URL"),
		SessionCacheTTL:    v.GetDuration("SESSION_CACHE_TTL"),
		AMQPURL:            v.GetString("AMQP_URL"),
		AMQPExchange:       v.GetString("AMQP_EXCHANGE"),
		WSSendBuffer:       v.GetInt("WS_SEND_BUFFER"),
		WSPingInterval:     v.GetDuration("WS_PING_INTERVAL"),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		RateLimitBurst:     v.GetInt("RATE_LIMIT_BURST"),
		Port:               v.GetString("PORT"),
		Env:                v.GetString("ENV"),
		CORSOrigins:        splitList(v.GetString("CORS_ORIGINS")),
	}
	cfg.PublicURL = v.GetString("PUBLIC_URL")
	if cfg.PublicURL == "" {
		cfg.PublicURL = "http://localhost:" + cfg.Port
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	switch c.AuthProvider {
	case AuthProviderBetterAuth:
		if c.AuthBaseURL == "" {
			return fmt.Errorf("AUTH_BASE_URL is required")
		}
	case AuthProviderAuth0:
		if err := c.validateAuth0(); err != nil {
			return err
		}
	case AuthProviderChain:
		if c.AuthBaseURL == "" {
			return fmt.Errorf("AUTH_BASE_URL is required")
		}
		if err := c.validateAuth0(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("AUTH_PROVIDER must be one of %s, %s, %s", AuthProviderBetterAuth, AuthProviderAuth0, AuthProviderChain)
	}

	if c.RateLimitPerMinute < 1 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive")
	}
	if c.WSSendBuffer < 1 {
		return fmt.Errorf("WS_SEND_BUFFER must be positive")
	}
	if c.WSPingInterval <= 0 {
		return fmt.Errorf("WS_PING_INTERVAL must be positive")
	}
	if c.RedisURL != "" && c.SessionCacheTTL <= 0 {
		return fmt.Errorf("SESSION_CACHE_TTL must be positive when REDIS_URL is set")
	}
	return nil
}

func (c *Config) validateAuth0() error {
	if c.Auth0Domain == "" {
		return fmt.Errorf("AUTH0_DOMAIN is required")
	}
	if c.Auth0Audience == "" {
		return fmt.Errorf("AUTH0_AUDIENCE is required")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
