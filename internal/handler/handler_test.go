package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/database"
	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/middleware"
	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/model"
	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/service"
)

// ============================================================================
// Test Helpers
// ============================================================================

func makeJSONRequest(method, path string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withUserContext(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func parseErrorResponse(t *testing.T, body []byte) *model.ProblemDetails {
	t.Helper()
	var problem model.ProblemDetails
	if err := json.Unmarshal(body, &problem); err != nil {
		t.Fatalf("failed to parse error response: %v", err)
	}
	return &problem
}

func parseDataResponse(t *testing.T, body []byte, v interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("failed to parse data envelope: %v", err)
	}
	if err := json.Unmarshal(envelope.Data, v); err != nil {
		t.Fatalf("failed to parse data: %v", err)
	}
}

// ============================================================================
// MapServiceError Tests
// ============================================================================

func TestMapServiceError_StatusCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    error
		status int
	}{
		{service.ErrProfileNotFound, http.StatusNotFound},
		{service.ErrCandidateNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", database.ErrNotFound), http.StatusNotFound},
		{service.ErrAlreadySwiped, http.StatusConflict},
		{service.ErrAlreadyBlocked, http.StatusConflict},
		{service.ErrCannotBlockSelf, http.StatusUnprocessableEntity},
		{service.ErrMissingRelationshipGoal, http.StatusUnprocessableEntity},
		{service.ErrCannotSwipeSelf, http.StatusUnprocessableEntity},
		{service.ErrCannotScoreSelf, http.StatusUnprocessableEntity},
		{service.ErrInvalidSwipeAction, http.StatusUnprocessableEntity},
		{fmt.Errorf("query: %w", database.ErrConnection), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := MapServiceError(tt.err); got.Status != tt.status {
			t.Errorf("%v: expected %d, got %d", tt.err, tt.status, got.Status)
		}
	}
}

func TestMapServiceError_Nil(t *testing.T) {
	t.Parallel()

	if MapServiceError(nil) != nil {
		t.Error("expected nil for nil error")
	}
}

func TestMapServiceError_MissingGoal_IsIncompleteProfile(t *testing.T) {
	t.Parallel()

	pd := MapServiceError(fmt.Errorf("discover: %w", service.ErrMissingRelationshipGoal))
	if pd.Code != model.ErrCodeIncompleteProfile {
		t.Errorf("expected incomplete profile code, got %d", pd.Code)
	}
	if len(pd.Errors) != 1 || pd.Errors[0].Field != "relationship_goal" {
		t.Errorf("expected relationship_goal field error, got %+v", pd.Errors)
	}
}

func TestMapServiceError_PassesProblemDetailsThrough(t *testing.T) {
	t.Parallel()

	original := model.NewConflictError("nope")
	if got := MapServiceError(fmt.Errorf("wrap: %w", original)); got != original {
		t.Errorf("expected original problem details, got %+v", got)
	}
}

func TestMapServiceErrorWithContext_InternalDetail(t *testing.T) {
	t.Parallel()

	pd := MapServiceErrorWithContext(errors.New("secret db failure"), "swipe")
	if pd.Detail != "swipe: an unexpected error occurred" {
		t.Errorf("unexpected detail %q", pd.Detail)
	}
	if strings.Contains(pd.Detail, "secret") {
		t.Error("internal error text leaked")
	}
}

// ============================================================================
// DecodeJSON Tests
// ============================================================================

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"type":"login"}`, false},
		{"unknown field", `{"type":"login","extra":1}`, true},
		{"empty", ``, true},
		{"trailing object", `{"type":"a"}{"type":"b"}`, true},
		{"malformed", `{"type":`, true},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
		var v model.RecordActivityRequest
		err := DecodeJSON(req, &v)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: expected error=%v, got %v", tt.name, tt.wantErr, err)
		}
	}
}

func TestQueryInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"?limit=5", 5, false},
		{"?limit=0", 0, true},
		{"?limit=-1", 0, true},
		{"?limit=abc", 0, true},
		{"?limit=101", 0, true},
		{"?limit=100", 100, false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
		got, err := queryInt(req, "limit", 100)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("%q: expected (%d, err=%v), got (%d, %v)", tt.query, tt.want, tt.wantErr, got, err)
		}
	}
}
