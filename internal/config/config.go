package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Redis       RedisConfig
	Matching    MatchingConfig
	RateLimit   RateLimitConfig
	CacheWarmer CacheWarmerConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string
	Env            string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Host      string
	Port      string
	Namespace string
	Database  string
	User      string
	Password  string
}

// JWTConfig holds JWT signing settings
type JWTConfig struct {
	PrivateKeyPath string
	PublicKeyPath  string
	ExpirationMins int
	Issuer         string
}

// RedisConfig holds score cache and shared rate limit settings
type RedisConfig struct {
	Enabled  bool
	Addrs    []string
	Password string
	DB       int
	Cluster  bool
	ScoreTTL time.Duration
}

// Zodiac table sources
const (
	ZodiacSourceStatic   = "static"
	ZodiacSourceDatabase = "database"
)

// MatchingConfig tunes the compatibility scorer and discovery
type MatchingConfig struct {
	MaxDistanceKm        float64
	TopN                 int
	Concurrency          int
	ActivityTimeout      time.Duration
	ActivityWindowDays   int
	CandidatePoolSize    int
	NeutralEmptyBehavior bool
	ZodiacSource         string
}

// RateLimitConfig holds API rate limit settings
type RateLimitConfig struct {
	Rate   int
	Window time.Duration
	Burst  int
}

// CacheWarmerConfig controls the background score warmer
type CacheWarmerConfig struct {
	Enabled     bool
	Interval    time.Duration
	ActiveSince time.Duration
	BatchSize   int
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			AllowedOrigins: getSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Host:      getEnv("DB_HOST", "localhost"),
			Port:      getEnv("DB_PORT", "8000"),
			Namespace: getEnv("DB_NAMESPACE", "loveconnect"),
			Database:  getEnv("DB_DATABASE", "main"),
			User:      getEnv("DB_USER", "root"),
			Password:  getEnv("DB_PASSWORD", "root"),
		},
		JWT: JWTConfig{
			PrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./keys/private.pem"),
			PublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./keys/public.pem"),
			ExpirationMins: getIntEnv("JWT_EXPIRATION_MINS", 15),
			Issuer:         getEnv("JWT_ISSUER", "api.loveconnect.app"),
		},
		Redis: RedisConfig{
			Enabled:  getBoolEnv("REDIS_ENABLED", false),
			Addrs:    getSliceEnv("REDIS_ADDRS", []string{"localhost:6379"}),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
			Cluster:  getBoolEnv("REDIS_CLUSTER", false),
			ScoreTTL: getDurationEnv("SCORE_CACHE_TTL", 15*time.Minute),
		},
		Matching: MatchingConfig{
			MaxDistanceKm:        getFloatEnv("MATCH_MAX_DISTANCE_KM", 50),
			TopN:                 getIntEnv("MATCH_TOP_N", 20),
			Concurrency:          getIntEnv("MATCH_CONCURRENCY", 8),
			ActivityTimeout:      getDurationEnv("MATCH_ACTIVITY_TIMEOUT", 2*time.Second),
			ActivityWindowDays:   getIntEnv("MATCH_ACTIVITY_WINDOW_DAYS", 30),
			CandidatePoolSize:    getIntEnv("MATCH_CANDIDATE_POOL", 200),
			NeutralEmptyBehavior: getBoolEnv("MATCH_NEUTRAL_EMPTY_BEHAVIOR", false),
			ZodiacSource:         getEnv("MATCH_ZODIAC_SOURCE", ZodiacSourceStatic),
		},
		RateLimit: RateLimitConfig{
			Rate:   getIntEnv("RATE_LIMIT_RATE", 100),
			Window: getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
			Burst:  getIntEnv("RATE_LIMIT_BURST", 20),
		},
		CacheWarmer: CacheWarmerConfig{
			Enabled:     getBoolEnv("CACHE_WARMER_ENABLED", false),
			Interval:    getDurationEnv("CACHE_WARMER_INTERVAL", 10*time.Minute),
			ActiveSince: getDurationEnv("CACHE_WARMER_ACTIVE_SINCE", 24*time.Hour),
			BatchSize:   getIntEnv("CACHE_WARMER_BATCH_SIZE", 100),
		},
	}, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	// Database validation
	if c.Database.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.Database.Port == "" {
		errs = append(errs, errors.New("DB_PORT is required"))
	}
	if c.Database.Namespace == "" {
		errs = append(errs, errors.New("DB_NAMESPACE is required"))
	}
	if c.Database.Database == "" {
		errs = append(errs, errors.New("DB_DATABASE is required"))
	}

	// JWT validation - critical for production
	if c.IsProduction() {
		if c.JWT.PrivateKeyPath == "" {
			errs = append(errs, errors.New("JWT_PRIVATE_KEY_PATH is required in production"))
		}
		if c.JWT.PublicKeyPath == "" {
			errs = append(errs, errors.New("JWT_PUBLIC_KEY_PATH is required in production"))
		}
	}
	if c.JWT.ExpirationMins <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_MINS must be positive"))
	}

	// Redis validation
	if c.Redis.Enabled {
		if len(c.Redis.Addrs) == 0 || c.Redis.Addrs[0] == "" {
			errs = append(errs, errors.New("REDIS_ADDRS is required when REDIS_ENABLED is true"))
		}
		if c.Redis.ScoreTTL <= 0 {
			errs = append(errs, errors.New("SCORE_CACHE_TTL must be positive"))
		}
	}

	// Matching validation
	if err := c.Matching.Validate(); err != nil {
		errs = append(errs, err)
	}

	// Rate limit validation
	if c.RateLimit.Rate <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RATE must be positive"))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}
	if c.RateLimit.Burst < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_BURST must not be negative"))
	}

	// Cache warmer validation
	if c.CacheWarmer.Enabled && c.CacheWarmer.Interval <= 0 {
		errs = append(errs, errors.New("CACHE_WARMER_INTERVAL must be positive when CACHE_WARMER_ENABLED is true"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks the scorer settings
func (m MatchingConfig) Validate() error {
	var invalid []string
	if m.MaxDistanceKm <= 0 {
		invalid = append(invalid, "MATCH_MAX_DISTANCE_KM")
	}
	if m.TopN <= 0 {
		invalid = append(invalid, "MATCH_TOP_N")
	}
	if m.Concurrency <= 0 {
		invalid = append(invalid, "MATCH_CONCURRENCY")
	}
	if m.ActivityTimeout <= 0 {
		invalid = append(invalid, "MATCH_ACTIVITY_TIMEOUT")
	}
	if m.ActivityWindowDays <= 0 {
		invalid = append(invalid, "MATCH_ACTIVITY_WINDOW_DAYS")
	}
	if m.CandidatePoolSize <= 0 {
		invalid = append(invalid, "MATCH_CANDIDATE_POOL")
	}
	if len(invalid) > 0 {
		return fmt.Errorf("must be positive: %s", strings.Join(invalid, ", "))
	}
	if m.ZodiacSource != ZodiacSourceStatic && m.ZodiacSource != ZodiacSourceDatabase {
		return fmt.Errorf("MATCH_ZODIAC_SOURCE must be '%s' or '%s', got '%s'", ZodiacSourceStatic, ZodiacSourceDatabase, m.ZodiacSource)
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
