package handler

import (
	"errors"
	"net/http"

	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/database"
	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/model"
	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// Unknown errors become a generic 500 so internals never leak to clients.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	var problem *model.ProblemDetails
	if errors.As(err, &problem) {
		return problem
	}

	switch {
	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrProfileNotFound):
		return model.NewNotFoundError("profile")
	case errors.Is(err, service.ErrCandidateNotFound):
		return model.NewNotFoundError("candidate")
	case errors.Is(err, database.ErrNotFound):
		return model.NewNotFoundError("resource")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrAlreadySwiped),
		errors.Is(err, service.ErrAlreadyBlocked):
		return model.NewConflictError(err.Error())

	// ===== Validation Errors → 422 =====
	case errors.Is(err, service.ErrMissingRelationshipGoal):
		return model.NewIncompleteProfileError("relationship_goal",
			"set a relationship goal on your profile before discovering candidates")
	case errors.Is(err, service.ErrCannotSwipeSelf),
		errors.Is(err, service.ErrCannotScoreSelf),
		errors.Is(err, service.ErrCannotBlockSelf):
		return model.NewValidationError([]model.FieldError{{Field: "target_id", Message: err.Error()}})
	case errors.Is(err, service.ErrInvalidSwipeAction):
		return model.NewValidationError([]model.FieldError{{Field: "action", Message: err.Error()}})

	// ===== Database Availability → 503 =====
	case errors.Is(err, database.ErrConnection):
		return &model.ProblemDetails{
			Type:   "https://api.loveconnect.app/errors/unavailable",
			Title:  "Service Unavailable",
			Status: http.StatusServiceUnavailable,
			Detail: "storage is temporarily unavailable",
			Code:   model.ErrCodeDatabase,
		}

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}

// MapServiceErrorWithContext converts a service error to a ProblemDetails response
// with additional context about the operation that failed.
func MapServiceErrorWithContext(err error, operation string) *model.ProblemDetails {
	pd := MapServiceError(err)
	if pd != nil && pd.Status == http.StatusInternalServerError {
		pd.Detail = operation + ": an unexpected error occurred"
	}
	return pd
}
