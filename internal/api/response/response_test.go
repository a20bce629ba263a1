package response_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dom/videotube/internal/api/response"
	"github.com/dom/videotube/internal/domain"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid argument", err: domain.ErrInvalidVideoID, want: http.StatusBadRequest},
		{name: "invalid operation", err: domain.ErrSelfSubscription, want: http.StatusBadRequest},
		{name: "upload failed", err: domain.NewError(domain.ErrUploadFailed, "x"), want: http.StatusBadRequest},
		{name: "unauthenticated", err: domain.ErrInvalidAccessToken, want: http.StatusUnauthorized},
		{name: "forbidden", err: domain.ErrNotVideoOwner, want: http.StatusForbidden},
		{name: "not found", err: domain.ErrVideoNotFound, want: http.StatusNotFound},
		{name: "conflict", err: domain.ErrUserExists, want: http.StatusConflict},
		{name: "wrapped kind", err: fmt.Errorf("outer: %w", domain.ErrTweetNotFound), want: http.StatusNotFound},
		{name: "unknown", err: errors.New("connection reset"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, response.StatusFor(tt.err))
		})
	}
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	response.JSON(rec, http.StatusCreated, map[string]string{"id": "abc"}, "created")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		StatusCode int               `json:"statusCode"`
		Data       map[string]string `json:"data"`
		Message    string            `json:"message"`
		Success    bool              `json:"success"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 201, body.StatusCode)
	assert.Equal(t, "abc", body.Data["id"])
	assert.Equal(t, "created", body.Message)
	assert.True(t, body.Success)
}

func TestJSON_NilData(t *testing.T) {
	rec := httptest.NewRecorder()
	response.JSON(rec, http.StatusOK, nil, "done")
	assert.JSONEq(t, `{"statusCode":200,"data":{},"message":"done","success":true}`, rec.Body.String())
}

func TestError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
		wantErrors  []string
	}{
		{
			name:        "domain error",
			err:         domain.ErrVideoNotFound,
			wantStatus:  http.StatusNotFound,
			wantMessage: "video not found",
			wantErrors:  []string{},
		},
		{
			name:        "domain error with details",
			err:         domain.NewError(domain.ErrInvalidArgument, "validation failed", "email is required"),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "validation failed",
			wantErrors:  []string{"email is required"},
		},
		{
			name:        "internal error is hidden",
			err:         errors.New("pq: password authentication failed"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "internal server error",
			wantErrors:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			response.Error(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body response.ErrorEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.StatusCode)
			assert.Equal(t, tt.wantMessage, body.Message)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantErrors, body.Errors)
		})
	}
}
