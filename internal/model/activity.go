package model

import (
	"regexp"
	"time"
)

// Activity is a stored activity log entry
type Activity struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ToEvent strips storage fields
func (a *Activity) ToEvent() ActivityEvent {
	return ActivityEvent{Type: a.Type, OccurredAt: a.OccurredAt}
}

// ActivityProfileUpdate is recorded whenever a user edits their profile
const ActivityProfileUpdate = "profile_update"

var activityTypePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,39}$`)

// RecordActivityRequest is the body of POST /v1/activity
type RecordActivityRequest struct {
	Type string `json:"type"`
}

// Validate checks the request and returns field errors
func (r *RecordActivityRequest) Validate() []FieldError {
	if !activityTypePattern.MatchString(r.Type) {
		return []FieldError{{Field: "type", Message: "type must be snake_case, 1-40 characters"}}
	}
	return nil
}
