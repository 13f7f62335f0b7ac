package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/cache"
	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/config"
	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/database"
	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/handler"
	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/jobs"
	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/middleware"
	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/repository"
	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/service"
	"github.com/irecommend-mm/loveconnect-mm-sub001/pkg/jwt"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: cfg.JWT.PrivateKeyPath,
		PublicKeyPath:  cfg.JWT.PublicKeyPath,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	swipeRepo := repository.NewSwipeRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	scoreRepo := repository.NewCompatibilityRepository(db)

	// Redis backs the score cache and shared rate limits when enabled
	var (
		redisCache *cache.Cache
		scoreCache service.ScoreCache
		limiter    middleware.Limiter
	)
	rateCfg := middleware.RateLimitConfig{
		Rate:   cfg.RateLimit.Rate,
		Window: cfg.RateLimit.Window,
		Burst:  cfg.RateLimit.Burst,
	}
	if cfg.Redis.Enabled {
		redisCache = cache.New(cache.Config{
			Addrs:    cfg.Redis.Addrs,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Cluster:  cfg.Redis.Cluster,
		})
		defer func() { _ = redisCache.Close() }()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisCache.Ping(pingCtx); err != nil {
			slog.Warn("redis unreachable at startup", slog.String("error", err.Error()))
		}
		cancel()

		scoreCache = cache.NewScoreCache(redisCache, cfg.Redis.ScoreTTL)
		limiter = middleware.NewWindowLimiter(redisCache, rateCfg)
		slog.Info("redis enabled", slog.Any("addrs", cfg.Redis.Addrs))
	} else {
		memLimiter := middleware.NewRateLimiter(rateCfg)
		defer memLimiter.Stop()
		limiter = memLimiter
	}

	// Zodiac table source
	var zodiac service.ZodiacTable = service.NewStaticZodiacTable()
	if cfg.Matching.ZodiacSource == config.ZodiacSourceDatabase {
		zodiac = repository.NewZodiacRepository(db)
	}

	// Initialize services
	scorer := service.NewCompatibilityScorer(service.ScorerConfig{
		Zodiac:               zodiac,
		MaxDistanceKm:        cfg.Matching.MaxDistanceKm,
		TopN:                 cfg.Matching.TopN,
		Concurrency:          cfg.Matching.Concurrency,
		ActivityTimeout:      cfg.Matching.ActivityTimeout,
		NeutralEmptyBehavior: cfg.Matching.NeutralEmptyBehavior,
	})

	discoveryService := service.NewDiscoveryService(service.DiscoveryServiceConfig{
		Scorer:             scorer,
		ProfileRepo:        profileRepo,
		SwipeRepo:          swipeRepo,
		BlockRepo:          blockRepo,
		ScoreRepo:          scoreRepo,
		ActivityRepo:       activityRepo,
		ScoreCache:         scoreCache,
		CandidatePoolSize:  cfg.Matching.CandidatePoolSize,
		ActivityWindowDays: cfg.Matching.ActivityWindowDays,
	})

	profileService := service.NewProfileService(service.ProfileServiceConfig{
		ProfileRepo: profileRepo,
		Activity:    activityRepo,
	})

	// Initialize background jobs
	if cfg.CacheWarmer.Enabled {
		warmer := jobs.NewCacheWarmer(jobs.CacheWarmerConfig{
			Users:       profileRepo,
			Warmer:      discoveryService,
			Interval:    cfg.CacheWarmer.Interval,
			ActiveSince: cfg.CacheWarmer.ActiveSince,
			BatchSize:   cfg.CacheWarmer.BatchSize,
		})
		warmer.Start()
		defer warmer.Stop()
	}

	// Initialize handlers
	checks := map[string]handler.Pinger{"database": db}
	if redisCache != nil {
		checks["redis"] = redisCache
	}
	healthHandler := handler.NewHealthHandler(checks)
	profileHandler := handler.NewProfileHandler(profileService)
	discoveryHandler := handler.NewDiscoveryHandler(discoveryService)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", healthHandler.Health)

	// Authenticated routes are rate limited per user
	authMiddleware := middleware.Auth(jwtService)
	protected := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, authMiddleware, middleware.RateLimit(limiter))
	}

	// Profile endpoints
	mux.Handle("GET /v1/profile", protected(profileHandler.Get))
	mux.Handle("PUT /v1/profile", protected(profileHandler.Update))

	// Discovery endpoints
	mux.Handle("GET /v1/discover/candidates", protected(discoveryHandler.Candidates))
	mux.Handle("GET /v1/discover/compatibility/{userId}", protected(discoveryHandler.Compatibility))
	mux.Handle("POST /v1/discover/swipes", protected(discoveryHandler.Swipe))
	mux.Handle("POST /v1/blocks", protected(discoveryHandler.Block))

	// Activity log
	mux.Handle("POST /v1/activity", protected(discoveryHandler.RecordActivity))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
			slog.String("zodiac_source", cfg.Matching.ZodiacSource),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
