package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasknest/tasknest-api/internal/api"
	"github.com/tasknest/tasknest-api/internal/api/middleware"
	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/mocks"
	"github.com/tasknest/tasknest-api/internal/service/auth"
	"github.com/tasknest/tasknest-api/internal/store"
)

// newTestServer wires the full router against in-memory stores and a
// mock JWT service that accepts the token "good-token" for userID.
func newTestServer(userID uuid.UUID) (http.Handler, *mocks.MockTaskStore) {
	userStore := mocks.NewMockUserStore()
	taskStore := mocks.NewMockTaskStore()
	svc := &mocks.MockJWTService{
		Token: "good-token",
		Claims: &auth.Claims{
			UserID:   userID,
			Username: "alice",
		},
	}

	authHandler := api.NewAuthHandler(
		userStore,
		svc,
		&mocks.MockPasswordHasher{},
		&mocks.MockPasswordVerifier{ShouldSucceed: true},
	)
	taskHandler := api.NewTaskHandler(taskStore)
	authMiddleware := middleware.NewAuthMiddleware(svc)

	return newRouter(authHandler, taskHandler, authMiddleware), taskStore
}

func TestRouterHealth(t *testing.T) {
	t.Parallel()

	router, _ := newTestServer(uuid.New())

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())
}

func TestRouterPublicAuthRoutes(t *testing.T) {
	t.Parallel()

	router, _ := newTestServer(uuid.New())

	payload := []byte(`{"username":"alice","email":"alice@example.com","password":"password123"}`)
	req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewBuffer(payload))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusCreated, recorder.Code)

	var resp api.AuthResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "good-token", resp.Token)
}

func TestRouterProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()

	router, _ := newTestServer(uuid.New())

	protected := []struct {
		method string
		path   string
	}{
		{"GET", "/api/auth/me"},
		{"GET", "/api/tasks"},
		{"POST", "/api/tasks"},
		{"GET", "/api/tasks/" + uuid.NewString()},
		{"PUT", "/api/tasks/" + uuid.NewString()},
		{"DELETE", "/api/tasks/" + uuid.NewString()},
		{"GET", "/api/tasks/stats/summary"},
		{"GET", "/api/categories"},
		{"GET", "/api/tags"},
	}

	for _, route := range protected {
		route := route
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			t.Parallel()

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest(route.method, route.path, nil))

			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		})
	}
}

func TestRouterTaskFlow(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	router, taskStore := newTestServer(userID)

	authed := func(method, path string, body []byte) *http.Request {
		var req *http.Request
		if body != nil {
			req = httptest.NewRequest(method, path, bytes.NewBuffer(body))
		} else {
			req = httptest.NewRequest(method, path, nil)
		}
		req.Header.Set("Authorization", "Bearer good-token")
		return req
	}

	// Create
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, authed("POST", "/api/tasks", []byte(`{"title":"Buy milk"}`)))
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created domain.Task
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&created))
	assert.Equal(t, userID, created.UserID)

	// Read back through the summary route, which must not be shadowed
	// by the {id} route.
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, authed("GET", "/api/tasks/stats/summary", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"total":1`)

	// Update
	recorder = httptest.NewRecorder()
	router.ServeHTTP(
		recorder,
		authed("PUT", "/api/tasks/"+created.ID.String(), []byte(`{"completed":true}`)),
	)
	require.Equal(t, http.StatusOK, recorder.Code)

	// Delete
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, authed("DELETE", "/api/tasks/"+created.ID.String(), nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"message":"Task deleted"}`, recorder.Body.String())

	// The store no longer has the task.
	tasks, err := taskStore.List(context.Background(), userID, store.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
