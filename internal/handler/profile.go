package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/middleware"
	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/model"
)

// ProfileProvider is the profile behavior the handler serves
type ProfileProvider interface {
	GetProfile(ctx context.Context, userID string) (*model.UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, req *model.UpdateProfileRequest) (*model.UserProfile, error)
}

// ProfileHandler handles profile endpoints
type ProfileHandler struct {
	profiles ProfileProvider
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles ProfileProvider) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// ProfileResponse represents the owner's view of their profile. Unlike the
// public profile it includes exact coordinates.
type ProfileResponse struct {
	UserID            string                  `json:"user_id"`
	DisplayName       *string                 `json:"display_name,omitempty"`
	Bio               *string                 `json:"bio,omitempty"`
	RelationshipGoal  model.RelationshipGoal  `json:"relationship_goal,omitempty"`
	Interests         []string                `json:"interests,omitempty"`
	ZodiacSign        *string                 `json:"zodiac_sign,omitempty"`
	Age               *int                    `json:"age,omitempty"`
	HeightCm          *int                    `json:"height_cm,omitempty"`
	Location          *model.LocationInput    `json:"location,omitempty"`
	Preferences       *model.MatchPreferences `json:"preferences,omitempty"`
	Visibility        string                  `json:"visibility"`
	DiscoveryEligible bool                    `json:"discovery_eligible"`
	CreatedOn         string                  `json:"created_on"`
	UpdatedOn         string                  `json:"updated_on"`
}

// Get handles GET /v1/profile - get own profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	profile, err := h.profiles.GetProfile(r.Context(), userID)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "get profile"))
		return
	}

	WriteData(w, http.StatusOK, toProfileResponse(profile), map[string]string{
		"self":     "/v1/profile",
		"discover": "/v1/discover/candidates",
	})
}

// Update handles PUT /v1/profile - create or update own profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.UpdateProfileRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	profile, err := h.profiles.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "update profile"))
		return
	}

	WriteData(w, http.StatusOK, toProfileResponse(profile), map[string]string{
		"self": "/v1/profile",
	})
}

func toProfileResponse(p *model.UserProfile) *ProfileResponse {
	resp := &ProfileResponse{
		UserID:            p.UserID,
		DisplayName:       p.DisplayName,
		Bio:               p.Bio,
		RelationshipGoal:  p.RelationshipGoal,
		Interests:         p.Interests,
		ZodiacSign:        p.ZodiacSign,
		Age:               p.Age,
		HeightCm:          p.HeightCm,
		Preferences:       p.Preferences,
		Visibility:        p.Visibility,
		DiscoveryEligible: p.DiscoveryEligible,
		CreatedOn:         p.CreatedOn.Format(time.RFC3339),
		UpdatedOn:         p.UpdatedOn.Format(time.RFC3339),
	}
	if p.Location != nil && p.Location.HasCoordinates() {
		resp.Location = &model.LocationInput{
			Lat:         p.Location.Lat,
			Lng:         p.Location.Lng,
			City:        p.Location.City,
			Country:     p.Location.Country,
			CountryCode: p.Location.CountryCode,
		}
	}
	return resp
}
