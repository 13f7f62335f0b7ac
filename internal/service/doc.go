// Package service implements the business logic layer for the matching API.
//
// # Scoring
//
// CompatibilityScorer is the core. It takes an already-filtered requester
// and candidate pool and returns a ranked slice; it never touches storage.
// Six sub-scores are combined with fixed weights:
//
//	location    0.20  haversine distance, linear to 0 at MaxDistanceKm
//	interests   0.25  shared / max(|A|, |B|)
//	goal        0.25  symmetric relationship goal matrix
//	zodiac      0.10  ZodiacTable lookup
//	behavior    0.15  shared distinct activity types in the trailing window
//	preference  0.05  requester's age and height ranges
//
// Missing optional data resolves to a documented default, and collaborator
// failures (activity fetch, zodiac lookup) degrade one sub-score instead of
// failing the ranking. Only a requester without a relationship goal or an
// empty pool is an error.
//
// # Services
//
// DiscoveryService wraps the scorer with pool building, exclusion and
// best-effort score persistence. ProfileService owns a user's own profile.
// Both follow the NewXxxService(XxxServiceConfig) pattern and declare the
// repository interfaces they depend on.
//
// # Example Usage
//
//	scorer := NewCompatibilityScorer(ScorerConfig{Zodiac: zodiacRepo})
//	discovery := NewDiscoveryService(DiscoveryServiceConfig{
//	    Scorer:       scorer,
//	    ProfileRepo:  profileRepo,
//	    SwipeRepo:    swipeRepo,
//	    BlockRepo:    blockRepo,
//	    ScoreRepo:    scoreRepo,
//	    ActivityRepo: activityRepo,
//	})
//	resp, err := discovery.DiscoverCandidates(ctx, userID, 20)
package service
