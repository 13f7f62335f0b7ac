package model

import (
	"strings"
	"time"
)

// RelationshipGoal is what a user is looking for
type RelationshipGoal string

const (
	GoalSerious RelationshipGoal = "serious"
	GoalCasual  RelationshipGoal = "casual"
	GoalFriends RelationshipGoal = "friends"
	GoalUnsure  RelationshipGoal = "unsure"
)

// RelationshipGoals lists every accepted goal
var RelationshipGoals = []RelationshipGoal{GoalSerious, GoalCasual, GoalFriends, GoalUnsure}

// IsValid reports whether g is one of the known goals
func (g RelationshipGoal) IsValid() bool {
	for _, known := range RelationshipGoals {
		if g == known {
			return true
		}
	}
	return false
}

// ZodiacSigns lists the twelve accepted labels in lower case
var ZodiacSigns = []string{
	"aries", "taurus", "gemini", "cancer", "leo", "virgo",
	"libra", "scorpio", "sagittarius", "capricorn", "aquarius", "pisces",
}

// NormalizeZodiacSign lower-cases and trims a sign label
func NormalizeZodiacSign(sign string) string {
	return strings.ToLower(strings.TrimSpace(sign))
}

// IsValidZodiacSign reports whether sign (any case) is one of the twelve labels
func IsValidZodiacSign(sign string) bool {
	normalized := NormalizeZodiacSign(sign)
	for _, s := range ZodiacSigns {
		if s == normalized {
			return true
		}
	}
	return false
}

// GeoPoint is a coordinate pair in decimal degrees
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Range is an inclusive numeric interval. A nil bound is open.
type Range struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// IsEmpty reports whether neither bound is set
func (r *Range) IsEmpty() bool {
	return r == nil || (r.Min == nil && r.Max == nil)
}

// Contains reports whether v lies within the range
func (r *Range) Contains(v int) bool {
	if r.IsEmpty() {
		return true
	}
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// Distance returns how far v sits outside the range, 0 when inside
func (r *Range) Distance(v int) int {
	if r.IsEmpty() {
		return 0
	}
	if r.Min != nil && v < *r.Min {
		return *r.Min - v
	}
	if r.Max != nil && v > *r.Max {
		return v - *r.Max
	}
	return 0
}

// MatchPreferences are the requester's declared ranges for candidates
type MatchPreferences struct {
	AgeRange    *Range `json:"age_range,omitempty"`
	HeightRange *Range `json:"height_range,omitempty"`
}

// IsEmpty reports whether no range is declared
func (p *MatchPreferences) IsEmpty() bool {
	return p == nil || (p.AgeRange.IsEmpty() && p.HeightRange.IsEmpty())
}

// ActivityEvent is a single entry in a user's activity log
type ActivityEvent struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ActivityWindowDays is the trailing window of activity considered for scoring
const ActivityWindowDays = 30

// Profile is the scoring projection of a user. It carries only what the
// matcher reads.
type Profile struct {
	UserID           string            `json:"user_id"`
	RelationshipGoal RelationshipGoal  `json:"relationship_goal,omitempty"`
	Interests        []string          `json:"interests,omitempty"`
	ZodiacSign       string            `json:"zodiac_sign,omitempty"`
	Location         *GeoPoint         `json:"location,omitempty"`
	Age              *int              `json:"age,omitempty"`
	HeightCm         *int              `json:"height_cm,omitempty"`
	Preferences      *MatchPreferences `json:"preferences,omitempty"`
	ActivityLog      []ActivityEvent   `json:"activity_log,omitempty"`
}
