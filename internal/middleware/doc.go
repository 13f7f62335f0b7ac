// Package middleware provides HTTP middleware for the LoveConnect API.
//
// # Available Middleware
//
//   - RequestID: assigns or propagates X-Request-ID
//   - Logger: structured access log via slog
//   - Recovery: converts panics into a 500 problem response
//   - CORS: origin allow-list
//   - Compress: gzip responses when the client accepts it
//   - Auth: RS256 bearer token validation
//   - RateLimit: per-user (or per-IP) request limiting
//
// Middleware compose with Chain, outermost first:
//
//	handler := middleware.Chain(mux,
//		middleware.RequestID,
//		middleware.Logger,
//		middleware.Recovery,
//	)
//
// # Rate Limiting
//
// RateLimit accepts any Limiter. RateLimiter is an in-process token bucket;
// WindowLimiter is a fixed window counted in Redis so that limits hold across
// instances. When the limiter fails the request is let through.
//
// # Context Values
//
//   - GetUserID(ctx): authenticated user ID
//   - GetClaims(ctx): validated token claims
//   - GetRequestID(ctx): request identifier
package middleware
