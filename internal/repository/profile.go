package repository

import (
	"context"
	"errors"
	"time"

	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/database"
	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/model"
)

// ProfileRepository handles user profile data access.
// Profiles live at user_profile:⟨user id⟩ so an upsert never duplicates.
type ProfileRepository struct {
	db database.Database
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db database.Database) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByUserID retrieves a profile by user ID. Returns nil, nil when absent.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*model.UserProfile, error) {
	query := `SELECT * FROM type::thing("user_profile", $user_id)`
	vars := map[string]interface{}{"user_id": userID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, err := asRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseProfile(data), nil
}

// Upsert creates or updates the profile for userID. Nil request fields are
// left untouched.
func (r *ProfileRepository) Upsert(ctx context.Context, userID string, req *model.UpdateProfileRequest) (*model.UserProfile, error) {
	// Build query dynamically to avoid NULL vs NONE issues for optional fields
	setClause := `user = type::record($user_id), created_on = created_on ?? time::now(), updated_on = time::now(), visibility = visibility ?? "public"`
	vars := map[string]interface{}{"user_id": userID}

	if req.DisplayName != nil {
		setClause += ", display_name = $display_name"
		vars["display_name"] = *req.DisplayName
	}
	if req.Bio != nil {
		setClause += ", bio = $bio"
		vars["bio"] = *req.Bio
	}
	if req.RelationshipGoal != nil {
		setClause += ", relationship_goal = $relationship_goal"
		vars["relationship_goal"] = string(*req.RelationshipGoal)
	}
	if req.Interests != nil {
		setClause += ", interests = $interests"
		vars["interests"] = req.Interests
	}
	if req.ZodiacSign != nil {
		if *req.ZodiacSign == "" {
			setClause += ", zodiac_sign = NONE"
		} else {
			setClause += ", zodiac_sign = $zodiac_sign"
			vars["zodiac_sign"] = model.NormalizeZodiacSign(*req.ZodiacSign)
		}
	}
	if req.Age != nil {
		setClause += ", age = $age"
		vars["age"] = *req.Age
	}
	if req.HeightCm != nil {
		setClause += ", height_cm = $height_cm"
		vars["height_cm"] = *req.HeightCm
	}
	if req.Location != nil {
		setClause += ", location = $location"
		vars["location"] = map[string]interface{}{
			"lat":          req.Location.Lat,
			"lng":          req.Location.Lng,
			"city":         req.Location.City,
			"country":      req.Location.Country,
			"country_code": req.Location.CountryCode,
		}
	}
	if req.Preferences != nil {
		setClause += ", preferences = $preferences"
		vars["preferences"] = preferencesToDoc(req.Preferences)
	}
	if req.Visibility != nil {
		setClause += ", visibility = $visibility"
		vars["visibility"] = *req.Visibility
	}

	// Assignments apply in order, so eligibility sees the new goal
	setClause += ", discovery_eligible = relationship_goal != NONE"

	query := `UPSERT type::thing("user_profile", $user_id) SET ` + setClause + ` RETURN AFTER`
	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	data, err := asRecord(result)
	if err != nil {
		return nil, err
	}
	return parseProfile(data), nil
}

// ListCandidates returns discoverable profiles whose user is not in exclude,
// most recently active first
func (r *ProfileRepository) ListCandidates(ctx context.Context, exclude []string, limit int) ([]*model.UserProfile, error) {
	query := `
		SELECT * FROM user_profile
		WHERE discovery_eligible = true
			AND visibility != "private"
			AND user NOTINSIDE $exclude
		ORDER BY last_active DESC
		LIMIT $limit
	`
	vars := map[string]interface{}{
		"exclude": recordIDs(exclude),
		"limit":   limit,
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	records := statementRecords(results)
	profiles := make([]*model.UserProfile, 0, len(records))
	for _, rec := range records {
		profiles = append(profiles, parseProfile(rec))
	}
	return profiles, nil
}

// ListRecentlyActive returns the user IDs of discoverable profiles active since the given time
func (r *ProfileRepository) ListRecentlyActive(ctx context.Context, since time.Time, limit int) ([]string, error) {
	query := `
		SELECT user, last_active FROM user_profile
		WHERE discovery_eligible = true AND last_active >= $since
		ORDER BY last_active DESC
		LIMIT $limit
	`
	vars := map[string]interface{}{
		"since": since,
		"limit": limit,
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	records := statementRecords(results)
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if id := convertSurrealID(rec["user"]); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// UpdateLastActive updates the last active timestamp
func (r *ProfileRepository) UpdateLastActive(ctx context.Context, userID string) error {
	query := `UPDATE type::thing("user_profile", $user_id) SET last_active = time::now()`
	vars := map[string]interface{}{"user_id": userID}

	return r.db.Execute(ctx, query, vars)
}

func parseProfile(data map[string]interface{}) *model.UserProfile {
	p := &model.UserProfile{
		ID:                convertSurrealID(data["id"]),
		UserID:            convertSurrealID(data["user"]),
		DisplayName:       getStringPtr(data, "display_name"),
		Bio:               getStringPtr(data, "bio"),
		RelationshipGoal:  model.RelationshipGoal(getString(data, "relationship_goal")),
		Interests:         getStringSlice(data, "interests"),
		ZodiacSign:        getStringPtr(data, "zodiac_sign"),
		Age:               getIntPtr(data, "age"),
		HeightCm:          getIntPtr(data, "height_cm"),
		Visibility:        getString(data, "visibility"),
		DiscoveryEligible: getBool(data, "discovery_eligible"),
		LastActive:        getTime(data, "last_active"),
		CreatedOn:         parseTime(data["created_on"]),
		UpdatedOn:         parseTime(data["updated_on"]),
	}

	if locData, ok := data["location"].(map[string]interface{}); ok {
		loc := &model.Location{
			City:        getString(locData, "city"),
			Country:     getString(locData, "country"),
			CountryCode: getString(locData, "country_code"),
		}
		lat, hasLat := getFloat(locData, "lat")
		lng, hasLng := getFloat(locData, "lng")
		if hasLat && hasLng {
			loc.Lat, loc.Lng, loc.HasCoords = lat, lng, true
		}
		p.Location = loc
	}

	if prefData, ok := data["preferences"].(map[string]interface{}); ok {
		p.Preferences = &model.MatchPreferences{
			AgeRange:    parseRange(prefData["age_range"]),
			HeightRange: parseRange(prefData["height_range"]),
		}
	}

	return p
}

func parseRange(v interface{}) *model.Range {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	r := &model.Range{Min: getIntPtr(m, "min"), Max: getIntPtr(m, "max")}
	if r.IsEmpty() {
		return nil
	}
	return r
}

func preferencesToDoc(p *model.MatchPreferences) map[string]interface{} {
	doc := map[string]interface{}{}
	if d := rangeToDoc(p.AgeRange); d != nil {
		doc["age_range"] = d
	}
	if d := rangeToDoc(p.HeightRange); d != nil {
		doc["height_range"] = d
	}
	return doc
}

func rangeToDoc(r *model.Range) map[string]interface{} {
	if r.IsEmpty() {
		return nil
	}
	doc := map[string]interface{}{}
	if r.Min != nil {
		doc["min"] = *r.Min
	}
	if r.Max != nil {
		doc["max"] = *r.Max
	}
	return doc
}
