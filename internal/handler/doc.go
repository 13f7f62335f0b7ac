// Package handler provides HTTP request handlers for the LoveConnect API.
//
// Each handler struct depends on a small provider interface satisfied by the
// matching service, so handlers can be tested against hand-written mocks.
//
// # Endpoints
//
//	GET  /health                             HealthHandler.Health
//	GET  /v1/profile                         ProfileHandler.Get
//	PUT  /v1/profile                         ProfileHandler.Update
//	GET  /v1/discover/candidates             DiscoveryHandler.Candidates
//	GET  /v1/discover/compatibility/{userId} DiscoveryHandler.Compatibility
//	POST /v1/discover/swipes                 DiscoveryHandler.Swipe
//	POST /v1/blocks                          DiscoveryHandler.Block
//	POST /v1/activity                        DiscoveryHandler.RecordActivity
//
// # Response Format
//
//   - WriteData: single resource with optional HATEOAS links
//   - WriteJSON: raw JSON response
//   - WriteError: RFC 9457 Problem Details error response
//
// Service errors are converted with MapServiceError.
package handler
