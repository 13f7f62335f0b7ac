// Package config manages application configuration for the LoveConnect API.
//
// Configuration is loaded from environment variables with development
// defaults, then checked with Validate, which reports every problem at once:
//
//	cfg, _ := config.Load()
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Configuration Groups
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS)
//   - DatabaseConfig: SurrealDB connection settings
//   - JWTConfig: RS256 key paths and token lifetime
//   - RedisConfig: score cache and shared rate limit counters
//   - MatchingConfig: scorer radius, top N, fan-out and activity window
//   - RateLimitConfig: requests per window and burst
//   - CacheWarmerConfig: background score warming
//
// # Matching Variables
//
//	MATCH_MAX_DISTANCE_KM        - location score radius (default: 50)
//	MATCH_TOP_N                  - ranked results returned (default: 20)
//	MATCH_CONCURRENCY            - activity fetch fan-out (default: 8)
//	MATCH_ACTIVITY_TIMEOUT       - per-user activity fetch timeout (default: 2s)
//	MATCH_ACTIVITY_WINDOW_DAYS   - activity history considered (default: 30)
//	MATCH_CANDIDATE_POOL         - candidates scored per request (default: 200)
//	MATCH_NEUTRAL_EMPTY_BEHAVIOR - score empty activity as 0.5 (default: false)
//	MATCH_ZODIAC_SOURCE          - static or database (default: static)
package config
