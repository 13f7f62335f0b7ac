// Package repository implements SurrealDB data access for the matching API.
//
// Each repository wraps a database.Database and builds parameterized
// SurrealQL; results are parsed by hand from the driver's generic maps with
// the helpers in helpers.go.
//
// # Tables
//
//   - user_profile: keyed by user id, one row per user
//   - activity: append-only activity log
//   - swipe: one row per (swiper, target), written with its activity event
//   - block: either direction excludes a candidate
//   - compatibility_score: keyed by [requester, candidate], overwritten per ranking
//   - zodiac_compatibility: keyed by the ordered sign pair
//
// Lookups that find nothing return nil, nil rather than database.ErrNotFound.
package repository
