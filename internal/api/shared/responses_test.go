package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)

	RespondWithJSON(recorder, req, http.StatusCreated, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Equal(t, "world", body["hello"])
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)

	RespondWithError(recorder, req, http.StatusNotFound, "Task not found")

	assert.Equal(t, http.StatusNotFound, recorder.Code)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Equal(t, "Task not found", body["message"])

	// The numeric code is internal only.
	assert.NotContains(t, body, "code")
}

func TestRespondWithErrorAndLogHidesRawError(t *testing.T) {
	t.Parallel()

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)

	rawErr := errors.New("pq: duplicate key value violates unique constraint")
	RespondWithErrorAndLog(recorder, req, http.StatusInternalServerError, "An unexpected error occurred", rawErr)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "pq:")
	assert.Contains(t, recorder.Body.String(), "An unexpected error occurred")
}

func TestTraceIDRoundTrip(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/", nil)
	ctx := SetTraceID(req.Context())

	traceID := GetTraceID(ctx)
	assert.NotEmpty(t, traceID)

	// Setting again produces a fresh ID.
	other := GetTraceID(SetTraceID(req.Context()))
	assert.NotEqual(t, traceID, other)
}

func TestGetTraceIDWithoutValue(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/", nil)
	assert.Empty(t, GetTraceID(req.Context()))
}
