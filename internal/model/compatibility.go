package model

import "time"

// Sub-score weights for the overall compatibility score. They sum to 1.
const (
	WeightLocation   = 0.20
	WeightInterests  = 0.25
	WeightGoal       = 0.25
	WeightZodiac     = 0.10
	WeightBehavior   = 0.15
	WeightPreference = 0.05
)

// CompatibilityScore is the score breakdown for an ordered
// (requester, candidate) pair. All values are in [0, 1].
type CompatibilityScore struct {
	RequesterID       string    `json:"requester_id"`
	CandidateID       string    `json:"candidate_id"`
	LocationScore     float64   `json:"location_score"`
	InterestsScore    float64   `json:"interests_score"`
	GoalCompatibility float64   `json:"goal_compatibility"`
	ZodiacScore       float64   `json:"zodiac_score"`
	BehaviorScore     float64   `json:"behavior_score"`
	PreferenceScore   float64   `json:"preference_score"`
	OverallScore      float64   `json:"overall_score"`
	LastCalculated    time.Time `json:"last_calculated"`
}

// WeightedOverall combines the components using the fixed weights
func (s *CompatibilityScore) WeightedOverall() float64 {
	return WeightLocation*s.LocationScore +
		WeightInterests*s.InterestsScore +
		WeightGoal*s.GoalCompatibility +
		WeightZodiac*s.ZodiacScore +
		WeightBehavior*s.BehaviorScore +
		WeightPreference*s.PreferenceScore
}

// RankedCandidate pairs a candidate profile with its score
type RankedCandidate struct {
	Profile *Profile            `json:"-"`
	Score   *CompatibilityScore `json:"score"`
}

// DiscoveredCandidate is one entry of a discovery response
type DiscoveredCandidate struct {
	Profile *PublicProfile      `json:"profile"`
	Score   *CompatibilityScore `json:"score"`
}

// DiscoveryResponse is the ranked candidate list returned to the requester
type DiscoveryResponse struct {
	Candidates []DiscoveredCandidate `json:"candidates"`
	Total      int                   `json:"total"`
	PoolSize   int                   `json:"pool_size"`
}
