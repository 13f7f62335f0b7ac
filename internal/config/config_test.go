package config

import (
	"strings"
	"testing"
	"time"
)

func validBaseConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			Env:            "development",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      "8000",
			Namespace: "loveconnect",
			Database:  "main",
		},
		JWT: JWTConfig{
			PrivateKeyPath: "./keys/private.pem",
			PublicKeyPath:  "./keys/public.pem",
			ExpirationMins: 15,
			Issuer:         "api.loveconnect.app",
		},
		Matching: MatchingConfig{
			MaxDistanceKm:      50,
			TopN:               20,
			Concurrency:        8,
			ActivityTimeout:    2 * time.Second,
			ActivityWindowDays: 30,
			CandidatePoolSize:  200,
			ZodiacSource:       ZodiacSourceStatic,
		},
		RateLimit: RateLimitConfig{
			Rate:   100,
			Window: time.Minute,
			Burst:  20,
		},
	}
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	if err := validBaseConfig().Validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "MATCH_TOP_N", "MATCH_MAX_DISTANCE_KM", "MATCH_ZODIAC_SOURCE", "REDIS_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Matching.TopN != 20 || cfg.Matching.MaxDistanceKm != 50 || cfg.Matching.Concurrency != 8 {
		t.Errorf("unexpected matching defaults %+v", cfg.Matching)
	}
	if cfg.Matching.ActivityTimeout != 2*time.Second || cfg.Matching.ZodiacSource != ZodiacSourceStatic {
		t.Errorf("unexpected matching defaults %+v", cfg.Matching)
	}
	if cfg.Redis.Enabled {
		t.Error("redis should be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("MATCH_TOP_N", "5")
	t.Setenv("MATCH_MAX_DISTANCE_KM", "12.5")
	t.Setenv("MATCH_NEUTRAL_EMPTY_BEHAVIOR", "true")
	t.Setenv("MATCH_ACTIVITY_TIMEOUT", "500ms")
	t.Setenv("REDIS_ADDRS", "redis-a:6379, redis-b:6379")
	t.Setenv("REDIS_CLUSTER", "true")

	cfg, _ := Load()

	if cfg.Matching.TopN != 5 || cfg.Matching.MaxDistanceKm != 12.5 {
		t.Errorf("unexpected matching config %+v", cfg.Matching)
	}
	if !cfg.Matching.NeutralEmptyBehavior || cfg.Matching.ActivityTimeout != 500*time.Millisecond {
		t.Errorf("unexpected matching config %+v", cfg.Matching)
	}
	if len(cfg.Redis.Addrs) != 2 || cfg.Redis.Addrs[1] != "redis-b:6379" || !cfg.Redis.Cluster {
		t.Errorf("unexpected redis config %+v", cfg.Redis)
	}
}

func TestLoad_UnparseableValueFallsBackToDefault(t *testing.T) {
	t.Setenv("MATCH_CONCURRENCY", "lots")

	cfg, _ := Load()

	if cfg.Matching.Concurrency != 8 {
		t.Errorf("expected default 8, got %d", cfg.Matching.Concurrency)
	}
}

func TestConfig_Validate_InvalidServerEnv(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Env = "invalid"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid SERVER_ENV")
	}
	if !strings.Contains(err.Error(), "SERVER_ENV") {
		t.Errorf("expected error to mention SERVER_ENV, got: %v", err)
	}
}

func TestConfig_Validate_MissingPort(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Port = ""

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "SERVER_PORT") {
		t.Errorf("expected error to mention SERVER_PORT, got: %v", err)
	}
}

func TestConfig_Validate_EmptyAllowedOrigins(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.AllowedOrigins = []string{}

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "CORS_ALLOWED_ORIGINS") {
		t.Errorf("expected error to mention CORS_ALLOWED_ORIGINS, got: %v", err)
	}
}

func TestConfig_Validate_MissingDatabaseHost(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Database.Host = ""

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "DB_HOST") {
		t.Errorf("expected error to mention DB_HOST, got: %v", err)
	}
}

func TestConfig_Validate_ProductionRequiresJWTKeys(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Env = "production"
	cfg.JWT.PrivateKeyPath = ""
	cfg.JWT.PublicKeyPath = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing JWT keys in production")
	}
	if !strings.Contains(err.Error(), "JWT_PRIVATE_KEY_PATH") || !strings.Contains(err.Error(), "JWT_PUBLIC_KEY_PATH") {
		t.Errorf("expected both key paths in error, got: %v", err)
	}
}

func TestConfig_Validate_RedisEnabledRequiresAddrs(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Redis = RedisConfig{Enabled: true, ScoreTTL: time.Minute}

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "REDIS_ADDRS") {
		t.Errorf("expected error to mention REDIS_ADDRS, got: %v", err)
	}
}

func TestConfig_Validate_RedisDisabledNoAddrsRequired(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Redis = RedisConfig{Enabled: false}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected no error when redis disabled, got: %v", err)
	}
}

func TestMatchingConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*MatchingConfig)
		wantErr string
	}{
		{"zero distance", func(m *MatchingConfig) { m.MaxDistanceKm = 0 }, "MATCH_MAX_DISTANCE_KM"},
		{"zero top n", func(m *MatchingConfig) { m.TopN = 0 }, "MATCH_TOP_N"},
		{"negative concurrency", func(m *MatchingConfig) { m.Concurrency = -1 }, "MATCH_CONCURRENCY"},
		{"zero timeout", func(m *MatchingConfig) { m.ActivityTimeout = 0 }, "MATCH_ACTIVITY_TIMEOUT"},
		{"bad zodiac source", func(m *MatchingConfig) { m.ZodiacSource = "stars" }, "MATCH_ZODIAC_SOURCE"},
	}
	for _, tt := range tests {
		m := validBaseConfig().Matching
		tt.mutate(&m)
		err := m.Validate()
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("%s: expected error mentioning %s, got %v", tt.name, tt.wantErr, err)
		}
	}
}

func TestConfig_Validate_WarmerEnabledRequiresInterval(t *testing.T) {
	cfg := validBaseConfig()
	cfg.CacheWarmer = CacheWarmerConfig{Enabled: true}

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "CACHE_WARMER_INTERVAL") {
		t.Errorf("expected error to mention CACHE_WARMER_INTERVAL, got: %v", err)
	}
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Env: "invalid"},
		Matching: MatchingConfig{
			ZodiacSource: ZodiacSourceStatic,
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected multiple errors")
	}

	errStr := err.Error()
	for _, expected := range []string{
		"SERVER_PORT",
		"SERVER_ENV",
		"CORS_ALLOWED_ORIGINS",
		"DB_HOST",
		"JWT_EXPIRATION_MINS",
		"MATCH_TOP_N",
		"RATE_LIMIT_RATE",
	} {
		if !strings.Contains(errStr, expected) {
			t.Errorf("expected error to contain %q, got: %v", expected, err)
		}
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Env: "development"}}
	if !cfg.IsDevelopment() {
		t.Error("expected IsDevelopment to return true")
	}
	cfg.Server.Env = "production"
	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment to return false")
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Env: "production"}}
	if !cfg.IsProduction() {
		t.Error("expected IsProduction to return true")
	}
}
