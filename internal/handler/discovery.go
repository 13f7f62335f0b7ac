package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/middleware"
	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/model"
)

// MaxDiscoverLimit caps the limit query parameter on discovery
const MaxDiscoverLimit = 100

// DiscoveryProvider is the discovery behavior the handler serves
type DiscoveryProvider interface {
	DiscoverCandidates(ctx context.Context, requesterID string, limit int) (*model.DiscoveryResponse, error)
	GetCompatibility(ctx context.Context, requesterID, candidateID string) (*model.CompatibilityScore, error)
	Swipe(ctx context.Context, swiperID string, req *model.CreateSwipeRequest) (*model.SwipeResult, error)
	RecordActivity(ctx context.Context, userID, activityType string) error
	Block(ctx context.Context, blockerID string, req *model.CreateBlockRequest) (*model.Block, error)
}

// DiscoveryHandler handles candidate discovery, scoring and swipes
type DiscoveryHandler struct {
	discovery DiscoveryProvider
}

// NewDiscoveryHandler creates a new discovery handler
func NewDiscoveryHandler(discovery DiscoveryProvider) *DiscoveryHandler {
	return &DiscoveryHandler{discovery: discovery}
}

// Candidates handles GET /v1/discover/candidates - ranked candidates
// Query parameters:
//   - limit: max results (optional, default: scorer top N, max: 100)
func (h *DiscoveryHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	limit, err := queryInt(r, "limit", MaxDiscoverLimit)
	if err != nil {
		WriteError(w, model.NewValidationError([]model.FieldError{{Field: "limit", Message: err.Error()}}))
		return
	}

	response, err := h.discovery.DiscoverCandidates(r.Context(), userID, limit)
	if err != nil {
		h.logFailure(r, "discover candidates", err)
		WriteError(w, MapServiceErrorWithContext(err, "discover candidates"))
		return
	}

	WriteData(w, http.StatusOK, response, map[string]string{
		"self":   "/v1/discover/candidates",
		"swipes": "/v1/discover/swipes",
	})
}

// Compatibility handles GET /v1/discover/compatibility/{userId}
func (h *DiscoveryHandler) Compatibility(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	candidateID := r.PathValue("userId")
	if candidateID == "" {
		WriteError(w, model.NewBadRequestError("user ID required"))
		return
	}

	score, err := h.discovery.GetCompatibility(r.Context(), userID, candidateID)
	if err != nil {
		h.logFailure(r, "get compatibility", err)
		WriteError(w, MapServiceErrorWithContext(err, "get compatibility"))
		return
	}

	WriteData(w, http.StatusOK, score, map[string]string{
		"self": "/v1/discover/compatibility/" + candidateID,
	})
}

// Swipe handles POST /v1/discover/swipes
func (h *DiscoveryHandler) Swipe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.CreateSwipeRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		WriteError(w, model.NewValidationError(errs))
		return
	}

	result, err := h.discovery.Swipe(r.Context(), userID, &req)
	if err != nil {
		h.logFailure(r, "swipe", err)
		WriteError(w, MapServiceErrorWithContext(err, "swipe"))
		return
	}

	WriteData(w, http.StatusCreated, result, nil)
}

// Block handles POST /v1/blocks
func (h *DiscoveryHandler) Block(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.CreateBlockRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		WriteError(w, model.NewValidationError(errs))
		return
	}

	block, err := h.discovery.Block(r.Context(), userID, &req)
	if err != nil {
		h.logFailure(r, "block", err)
		WriteError(w, MapServiceErrorWithContext(err, "block"))
		return
	}

	WriteData(w, http.StatusCreated, block, nil)
}

// RecordActivity handles POST /v1/activity
func (h *DiscoveryHandler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.RecordActivityRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		WriteError(w, model.NewValidationError(errs))
		return
	}

	if err := h.discovery.RecordActivity(r.Context(), userID, req.Type); err != nil {
		h.logFailure(r, "record activity", err)
		WriteError(w, MapServiceErrorWithContext(err, "record activity"))
		return
	}

	WriteNoContent(w)
}

func (h *DiscoveryHandler) logFailure(r *http.Request, op string, err error) {
	if p := MapServiceError(err); p != nil && p.Status < http.StatusInternalServerError {
		return
	}
	slog.Error(op+" failed",
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("user_id", middleware.GetUserID(r.Context())),
		slog.Any("error", err),
	)
}
