package model

import "time"

// Profile visibility values
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Profile field limits
const (
	MaxBioLength      = 500
	MaxInterests      = 30
	MaxInterestLength = 40
	MinAge            = 18
	MaxAge            = 120
	MinHeightCm       = 100
	MaxHeightCm       = 250
)

// UserProfile is the stored dating profile for a user
type UserProfile struct {
	ID               string            `json:"id"`
	UserID           string            `json:"user_id"`
	DisplayName      *string           `json:"display_name,omitempty"`
	Bio              *string           `json:"bio,omitempty"`
	RelationshipGoal RelationshipGoal  `json:"relationship_goal,omitempty"`
	Interests        []string          `json:"interests,omitempty"`
	ZodiacSign       *string           `json:"zodiac_sign,omitempty"`
	Age              *int              `json:"age,omitempty"`
	HeightCm         *int              `json:"height_cm,omitempty"`
	Location         *Location         `json:"location,omitempty"`
	Preferences      *MatchPreferences `json:"preferences,omitempty"`
	Visibility       string            `json:"visibility"` // public, private
	LastActive       *time.Time        `json:"last_active,omitempty"`
	CreatedOn        time.Time         `json:"created_on"`
	UpdatedOn        time.Time         `json:"updated_on"`

	// Only eligible profiles enter other users' candidate pools
	DiscoveryEligible bool `json:"discovery_eligible"`
}

// ToScoringProfile projects the stored profile onto what the matcher reads.
// The activity log is attached separately.
func (p *UserProfile) ToScoringProfile() *Profile {
	sp := &Profile{
		UserID:           p.UserID,
		RelationshipGoal: p.RelationshipGoal,
		Interests:        p.Interests,
		Age:              p.Age,
		HeightCm:         p.HeightCm,
		Preferences:      p.Preferences,
	}
	if p.ZodiacSign != nil {
		sp.ZodiacSign = *p.ZodiacSign
	}
	if p.Location != nil && p.Location.HasCoordinates() {
		sp.Location = &GeoPoint{Lat: p.Location.Lat, Lng: p.Location.Lng}
	}
	return sp
}

// ToPublic converts a UserProfile to its privacy-respecting public representation
func (p *UserProfile) ToPublic() *PublicProfile {
	pub := &PublicProfile{
		UserID:           p.UserID,
		DisplayName:      p.DisplayName,
		Bio:              p.Bio,
		RelationshipGoal: p.RelationshipGoal,
		Interests:        p.Interests,
		ZodiacSign:       p.ZodiacSign,
		Age:              p.Age,
	}

	if p.Location != nil {
		pub.City = p.Location.City
		pub.Country = p.Location.Country
	}

	pub.ActivityStatus = GetActivityStatus(p.LastActive)

	return pub
}

// IsComplete reports whether the profile carries what ranking requires
func (p *UserProfile) IsComplete() bool {
	return p.RelationshipGoal != ""
}

// Location stores geographic information with privacy controls
// IMPORTANT: lat/lng are stored internally but NEVER exposed to other users
type Location struct {
	// Internal only - never expose to other users via API
	Lat float64 `json:"-"`
	Lng float64 `json:"-"`

	// Set when the stored record actually carries coordinates
	HasCoords bool `json:"-"`

	City        string `json:"city,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
}

// HasCoordinates reports whether lat/lng were captured
func (l *Location) HasCoordinates() bool {
	return l != nil && l.HasCoords
}

// ActivityStatus represents how recently a user was active
type ActivityStatus string

const (
	ActivityStatusNow      ActivityStatus = "active_now"       // < 10 minutes
	ActivityStatusToday    ActivityStatus = "active_today"     // < 24 hours
	ActivityStatusThisWeek ActivityStatus = "active_this_week" // 1-7 days
	ActivityStatusAway     ActivityStatus = "away"             // > 7 days
)

// GetActivityStatus calculates activity status from last active time
func GetActivityStatus(lastActive *time.Time) ActivityStatus {
	if lastActive == nil {
		return ActivityStatusAway
	}

	since := time.Since(*lastActive)

	switch {
	case since < 10*time.Minute:
		return ActivityStatusNow
	case since < 24*time.Hour:
		return ActivityStatusToday
	case since < 7*24*time.Hour:
		return ActivityStatusThisWeek
	default:
		return ActivityStatusAway
	}
}

// DistanceBucket represents approximate distance (for privacy)
type DistanceBucket string

const (
	DistanceNearby   DistanceBucket = "nearby" // < 2 km
	Distance5km      DistanceBucket = "~5km"   // 2-5 km
	Distance10km     DistanceBucket = "~10km"  // 5-10 km
	Distance25km     DistanceBucket = "~25km"  // 10-25 km
	Distance50km     DistanceBucket = "~50km"  // 25-50 km
	Distance50kmPlus DistanceBucket = ">50km"
)

// GetDistanceBucket converts exact distance to privacy-preserving bucket
func GetDistanceBucket(distanceKm float64) DistanceBucket {
	switch {
	case distanceKm < 2:
		return DistanceNearby
	case distanceKm < 5:
		return Distance5km
	case distanceKm < 10:
		return Distance10km
	case distanceKm < 25:
		return Distance25km
	case distanceKm < 50:
		return Distance50km
	default:
		return Distance50kmPlus
	}
}

// PublicProfile is what other users see (with privacy protections)
type PublicProfile struct {
	UserID           string           `json:"user_id"`
	DisplayName      *string          `json:"display_name,omitempty"`
	Bio              *string          `json:"bio,omitempty"`
	RelationshipGoal RelationshipGoal `json:"relationship_goal,omitempty"`
	Interests        []string         `json:"interests,omitempty"`
	ZodiacSign       *string          `json:"zodiac_sign,omitempty"`
	Age              *int             `json:"age,omitempty"`
	City             string           `json:"city,omitempty"`
	Country          string           `json:"country,omitempty"`
	Distance         DistanceBucket   `json:"distance,omitempty"` // Approximate only
	ActivityStatus   ActivityStatus   `json:"activity_status,omitempty"`
}

// LocationInput is the client-supplied location on profile update
type LocationInput struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	City        string  `json:"city,omitempty"`
	Country     string  `json:"country,omitempty"`
	CountryCode string  `json:"country_code,omitempty"`
}

// UpdateProfileRequest represents a profile upsert. Nil fields are left untouched.
type UpdateProfileRequest struct {
	DisplayName      *string           `json:"display_name,omitempty"`
	Bio              *string           `json:"bio,omitempty"`
	RelationshipGoal *RelationshipGoal `json:"relationship_goal,omitempty"`
	Interests        []string          `json:"interests,omitempty"`
	ZodiacSign       *string           `json:"zodiac_sign,omitempty"`
	Age              *int              `json:"age,omitempty"`
	HeightCm         *int              `json:"height_cm,omitempty"`
	Location         *LocationInput    `json:"location,omitempty"`
	Preferences      *MatchPreferences `json:"preferences,omitempty"`
	Visibility       *string           `json:"visibility,omitempty"`
}

// Validate checks the request and returns field errors
func (r *UpdateProfileRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Bio != nil && len(*r.Bio) > MaxBioLength {
		errors = append(errors, FieldError{Field: "bio", Message: "bio must be 500 characters or less"})
	}
	if r.RelationshipGoal != nil && !r.RelationshipGoal.IsValid() {
		errors = append(errors, FieldError{Field: "relationship_goal", Message: "must be serious, casual, friends, or unsure"})
	}
	if len(r.Interests) > MaxInterests {
		errors = append(errors, FieldError{Field: "interests", Message: "at most 30 interests allowed"})
	}
	for _, interest := range r.Interests {
		if interest == "" || len(interest) > MaxInterestLength {
			errors = append(errors, FieldError{Field: "interests", Message: "each interest must be 1-40 characters"})
			break
		}
	}
	if r.ZodiacSign != nil && *r.ZodiacSign != "" && !IsValidZodiacSign(*r.ZodiacSign) {
		errors = append(errors, FieldError{Field: "zodiac_sign", Message: "unknown zodiac sign"})
	}
	if r.Age != nil && (*r.Age < MinAge || *r.Age > MaxAge) {
		errors = append(errors, FieldError{Field: "age", Message: "age must be between 18 and 120"})
	}
	if r.HeightCm != nil && (*r.HeightCm < MinHeightCm || *r.HeightCm > MaxHeightCm) {
		errors = append(errors, FieldError{Field: "height_cm", Message: "height must be between 100 and 250 cm"})
	}
	if r.Location != nil {
		if r.Location.Lat < -90 || r.Location.Lat > 90 {
			errors = append(errors, FieldError{Field: "location.lat", Message: "latitude must be between -90 and 90"})
		}
		if r.Location.Lng < -180 || r.Location.Lng > 180 {
			errors = append(errors, FieldError{Field: "location.lng", Message: "longitude must be between -180 and 180"})
		}
	}
	if r.Preferences != nil {
		if invalidRange(r.Preferences.AgeRange) {
			errors = append(errors, FieldError{Field: "preferences.age_range", Message: "min must not exceed max"})
		}
		if invalidRange(r.Preferences.HeightRange) {
			errors = append(errors, FieldError{Field: "preferences.height_range", Message: "min must not exceed max"})
		}
	}
	if r.Visibility != nil && *r.Visibility != VisibilityPublic && *r.Visibility != VisibilityPrivate {
		errors = append(errors, FieldError{Field: "visibility", Message: "must be public or private"})
	}

	return errors
}

func invalidRange(r *Range) bool {
	return r != nil && r.Min != nil && r.Max != nil && *r.Min > *r.Max
}
