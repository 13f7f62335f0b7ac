// Package model defines domain entities and data structures for the
// LoveConnect matching API.
//
// # Domain Entities
//
//   - UserProfile: stored dating profile, projected to Profile for scoring
//   - Profile: what the compatibility scorer reads
//   - CompatibilityScore: six sub-scores plus the weighted overall value
//   - Swipe, Block: exclusions applied before a candidate pool is scored
//   - Activity: entries of the trailing activity log
//
// # Errors
//
// HTTP errors are RFC 9457 Problem Details built with the New*Error
// constructors in errors.go. Request types expose Validate() returning
// []FieldError.
package model
