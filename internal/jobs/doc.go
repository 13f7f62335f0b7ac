// Package jobs implements background jobs for the LoveConnect API.
//
// Jobs run independently of HTTP request handling and share one lifecycle:
// Start launches the loop, Stop closes it and waits, and RunOnce performs a
// single pass for tests or manual triggers.
//
// # Job Types
//
//   - CacheWarmer: re-ranks candidates for recently active users so their
//     compatibility scores are cached before they open discovery
//
// Jobs log failures and keep running.
package jobs
