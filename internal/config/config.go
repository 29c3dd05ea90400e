package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/lorrc/cw-dashboard/internal/core/domain"
)

// Config holds all application configuration
type Config struct {
	// HTTP server configuration
	Server ServerConfig

	// Upstream ticketing API configuration
	Upstream UpstreamConfig

	// Dashboard view configuration
	Dashboard DashboardConfig

	// Rate limiting configuration
	RateLimit RateLimitConfig

	// CORS configuration for the dashboard front end
	CORS CORSConfig

	// Logging configuration
	Logging LoggingConfig

	// Metrics configuration
	Metrics MetricsConfig

	// Application metadata
	App AppConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// UpstreamConfig holds the ConnectWise connection settings. The credential
// fields may legitimately be empty: the engine still runs and surfaces the
// upstream auth failure instead of refusing to start.
type UpstreamConfig struct {
	Site       string
	Company    string
	PublicKey  string
	PrivateKey string
	ClientID   string
	Proxy      string
	VerifySSL  bool
	PageSize   int
	Timeout    time.Duration
}

// DashboardConfig holds the knobs of the two aggregation views.
type DashboardConfig struct {
	StaleCutoffHours   int
	TrendWindowDays    int
	ClosedStatuses     []string
	ExcludedPriorities []string
	CriticalHours      float64
	WarningHours       float64
	TopOldestCount     int
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
}

// CORSConfig holds CORS settings for the dashboard origin
type CORSConfig struct {
	AllowedOrigins []string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// MetricsConfig holds metrics exposure configuration
type MetricsConfig struct {
	Enabled bool
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", ":8080"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 2*time.Minute),
			IdleTimeout:     getDurationOrDefault("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Upstream: UpstreamConfig{
			Site:       getEnvOrDefault("CW_SITE", "na.myconnectwise.net"),
			Company:    os.Getenv("CW_COMPANY"),
			PublicKey:  os.Getenv("CW_PUBLIC_KEY"),
			PrivateKey: os.Getenv("CW_PRIVATE_KEY"),
			ClientID:   os.Getenv("CW_CLIENT_ID"),
			Proxy:      proxyFromEnv(),
			VerifySSL:  getBoolOrDefault("CW_VERIFY_SSL", true),
			PageSize:   getIntOrDefault("CW_PAGE_SIZE", 1000),
			Timeout:    getDurationOrDefault("CW_TIMEOUT", 60*time.Second),
		},
		Dashboard: DashboardConfig{
			StaleCutoffHours:   getIntOrDefault("STALE_CUTOFF_HOURS", 8),
			TrendWindowDays:    getIntOrDefault("TREND_WINDOW_DAYS", 7),
			ClosedStatuses:     getStringSliceOrDefault("CLOSED_STATUSES", domain.DefaultClosedStatuses()),
			ExcludedPriorities: getStringSliceOrDefault("EXCLUDED_PRIORITIES", []string{}),
			CriticalHours:      getFloatOrDefault("SEVERITY_CRITICAL_HOURS", 48),
			WarningHours:       getFloatOrDefault("SEVERITY_WARNING_HOURS", 24),
			TopOldestCount:     getIntOrDefault("TOP_OLDEST_COUNT", 10),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getBoolOrDefault("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: getFloatOrDefault("RATE_LIMIT_RPS", 10),
			BurstSize:         getIntOrDefault("RATE_LIMIT_BURST", 20),
		},
		CORS: CORSConfig{
			AllowedOrigins: getStringSliceOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getBoolOrDefault("METRICS_ENABLED", true),
		},
		App: AppConfig{
			Name:        getEnvOrDefault("APP_NAME", "cw-dashboard"),
			Version:     getEnvOrDefault("APP_VERSION", "dev"),
			Environment: getEnvOrDefault("APP_ENV", "development"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration. Missing upstream credentials are
// deliberately not an error here: /api/config-check reports them and the
// data endpoints surface the resulting upstream failure.
func (c *Config) Validate() error {
	var errs []string

	if c.Upstream.Site == "" {
		errs = append(errs, "CW_SITE cannot be empty")
	}

	if c.Upstream.PageSize < 1 {
		errs = append(errs, "CW_PAGE_SIZE must be at least 1")
	}

	if c.Dashboard.StaleCutoffHours < 1 {
		errs = append(errs, "STALE_CUTOFF_HOURS must be at least 1")
	}

	if c.Dashboard.TrendWindowDays < 1 {
		errs = append(errs, "TREND_WINDOW_DAYS must be at least 1")
	}

	if c.Dashboard.WarningHours >= c.Dashboard.CriticalHours {
		errs = append(errs, "SEVERITY_WARNING_HOURS must be below SEVERITY_CRITICAL_HOURS")
	}

	if c.Dashboard.TopOldestCount < 1 {
		errs = append(errs, "TOP_OLDEST_COUNT must be at least 1")
	}

	if len(errs) > 0 {
		return errors.New("configuration errors:\n  - " + strings.Join(errs, "\n  - "))
	}

	return nil
}

// Configured reports whether every upstream credential is present.
func (c *Config) Configured() bool {
	return c.Upstream.Company != "" &&
		c.Upstream.PublicKey != "" &&
		c.Upstream.PrivateKey != "" &&
		c.Upstream.ClientID != ""
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// String returns a redacted string representation of the config (safe for logging)
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Server: %s, Site: %s, Company: %s, Keys: [REDACTED], CutoffHours: %d, WindowDays: %d, Environment: %s}",
		c.Server.Port,
		c.Upstream.Site,
		c.Upstream.Company,
		c.Dashboard.StaleCutoffHours,
		c.Dashboard.TrendWindowDays,
		c.App.Environment,
	)
}

// proxyFromEnv honors both spellings the deployment environments use.
func proxyFromEnv() string {
	if p := os.Getenv("HTTPS_PROXY"); p != "" {
		return p
	}
	return os.Getenv("https_proxy")
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
