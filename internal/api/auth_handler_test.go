package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasknest/tasknest-api/internal/api/shared"
	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/mocks"
)

func TestRegister(t *testing.T) {
	t.Parallel()

	// Test cases
	tests := []struct {
		name       string
		payload    map[string]interface{}
		seed       *domain.User
		wantStatus int
		wantToken  bool
	}{
		{
			name: "valid registration",
			payload: map[string]interface{}{
				"username": "alice",
				"email":    "alice@example.com",
				"password": "password123",
			},
			wantStatus: http.StatusCreated,
			wantToken:  true,
		},
		{
			name: "duplicate email",
			payload: map[string]interface{}{
				"username": "alice2",
				"email":    "alice@example.com",
				"password": "password123",
			},
			seed:       mustUser(t, "alice", "alice@example.com"),
			wantStatus: http.StatusBadRequest,
			wantToken:  false,
		},
		{
			name: "duplicate username",
			payload: map[string]interface{}{
				"username": "alice",
				"email":    "other@example.com",
				"password": "password123",
			},
			seed:       mustUser(t, "alice", "alice@example.com"),
			wantStatus: http.StatusBadRequest,
			wantToken:  false,
		},
		{
			name: "invalid email",
			payload: map[string]interface{}{
				"username": "bob",
				"email":    "not-an-email",
				"password": "password123",
			},
			wantStatus: http.StatusBadRequest,
			wantToken:  false,
		},
		{
			name: "password too short",
			payload: map[string]interface{}{
				"username": "bob",
				"email":    "bob@example.com",
				"password": "short",
			},
			wantStatus: http.StatusBadRequest,
			wantToken:  false,
		},
		{
			name: "username too short",
			payload: map[string]interface{}{
				"username": "ab",
				"email":    "bob@example.com",
				"password": "password123",
			},
			wantStatus: http.StatusBadRequest,
			wantToken:  false,
		},
		{
			name: "missing username",
			payload: map[string]interface{}{
				"email":    "bob@example.com",
				"password": "password123",
			},
			wantStatus: http.StatusBadRequest,
			wantToken:  false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Create dependencies
			userStore := mocks.NewMockUserStore()
			if tt.seed != nil {
				userStore.Users[tt.seed.Email] = tt.seed
			}
			jwtService := &mocks.MockJWTService{Token: "test-token"}
			hasher := &mocks.MockPasswordHasher{}
			verifier := &mocks.MockPasswordVerifier{ShouldSucceed: true}

			handler := NewAuthHandler(userStore, jwtService, hasher, verifier)

			// Create request
			payloadBytes, err := json.Marshal(tt.payload)
			require.NoError(t, err)

			req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewBuffer(payloadBytes))
			req.Header.Set("Content-Type", "application/json")
			recorder := httptest.NewRecorder()

			// Call handler
			handler.Register(recorder, req)

			// Check status code
			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantToken {
				var authResp AuthResponse
				err = json.NewDecoder(recorder.Body).Decode(&authResp)
				require.NoError(t, err)
				assert.Equal(t, "test-token", authResp.Token)
				assert.Equal(t, "User registered successfully", authResp.Message)
				assert.NotEqual(t, uuid.Nil, authResp.User.ID)

				// The stored user must carry the hash, never the plaintext
				stored, ok := userStore.Users[authResp.User.Email]
				require.True(t, ok)
				assert.NotEmpty(t, stored.HashedPassword)
				assert.Empty(t, stored.Password)
			} else {
				assertMessageBody(t, recorder)
			}
		})
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	handler := NewAuthHandler(
		userStore,
		&mocks.MockJWTService{Token: "test-token"},
		&mocks.MockPasswordHasher{},
		&mocks.MockPasswordVerifier{ShouldSucceed: true},
	)

	payload := []byte(`{"username":"carol","email":"Carol@Example.COM","password":"password123"}`)
	req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewBuffer(payload))
	recorder := httptest.NewRecorder()

	handler.Register(recorder, req)

	require.Equal(t, http.StatusCreated, recorder.Code)
	_, ok := userStore.Users["carol@example.com"]
	assert.True(t, ok, "email should be stored lowercase")
}

func TestLogin(t *testing.T) {
	t.Parallel()

	testEmail := "alice@example.com"
	seed := mustUser(t, "alice", testEmail)

	tests := []struct {
		name       string
		payload    map[string]interface{}
		verifier   *mocks.MockPasswordVerifier
		wantStatus int
		wantToken  bool
	}{
		{
			name: "valid login",
			payload: map[string]interface{}{
				"email":    testEmail,
				"password": "password123",
			},
			verifier:   &mocks.MockPasswordVerifier{ShouldSucceed: true},
			wantStatus: http.StatusOK,
			wantToken:  true,
		},
		{
			name: "unknown email",
			payload: map[string]interface{}{
				"email":    "nobody@example.com",
				"password": "password123",
			},
			verifier:   &mocks.MockPasswordVerifier{ShouldSucceed: true},
			wantStatus: http.StatusUnauthorized,
			wantToken:  false,
		},
		{
			name: "wrong password",
			payload: map[string]interface{}{
				"email":    testEmail,
				"password": "wrongpassword",
			},
			verifier:   &mocks.MockPasswordVerifier{ShouldSucceed: false},
			wantStatus: http.StatusUnauthorized,
			wantToken:  false,
		},
		{
			name: "missing password",
			payload: map[string]interface{}{
				"email": testEmail,
			},
			verifier:   &mocks.MockPasswordVerifier{ShouldSucceed: true},
			wantStatus: http.StatusBadRequest,
			wantToken:  false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			userStore := mocks.NewMockUserStore()
			userStore.Users[seed.Email] = seed
			handler := NewAuthHandler(
				userStore,
				&mocks.MockJWTService{Token: "test-token"},
				&mocks.MockPasswordHasher{},
				tt.verifier,
			)

			payloadBytes, err := json.Marshal(tt.payload)
			require.NoError(t, err)

			req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(payloadBytes))
			recorder := httptest.NewRecorder()

			handler.Login(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantToken {
				var authResp AuthResponse
				err = json.NewDecoder(recorder.Body).Decode(&authResp)
				require.NoError(t, err)
				assert.Equal(t, "test-token", authResp.Token)
				assert.Equal(t, "Login successful", authResp.Message)
				assert.Equal(t, seed.ID, authResp.User.ID)
			} else {
				assertMessageBody(t, recorder)
			}
		})
	}
}

func TestLoginResponseNeverLeaksHash(t *testing.T) {
	t.Parallel()

	seed := mustUser(t, "alice", "alice@example.com")
	userStore := mocks.NewMockUserStore()
	userStore.Users[seed.Email] = seed
	handler := NewAuthHandler(
		userStore,
		&mocks.MockJWTService{Token: "test-token"},
		&mocks.MockPasswordHasher{},
		&mocks.MockPasswordVerifier{ShouldSucceed: true},
	)

	payload := []byte(`{"email":"alice@example.com","password":"password123"}`)
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(payload))
	recorder := httptest.NewRecorder()

	handler.Login(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	body := recorder.Body.String()
	assert.NotContains(t, body, seed.HashedPassword)
	assert.NotContains(t, body, "password123")
}

func TestMe(t *testing.T) {
	t.Parallel()

	seed := mustUser(t, "alice", "alice@example.com")
	userStore := mocks.NewMockUserStore()
	userStore.Users[seed.Email] = seed
	handler := NewAuthHandler(
		userStore,
		&mocks.MockJWTService{},
		&mocks.MockPasswordHasher{},
		&mocks.MockPasswordVerifier{ShouldSucceed: true},
	)

	t.Run("authenticated", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/auth/me", nil)
		ctx := context.WithValue(req.Context(), shared.UserIDContextKey, seed.ID)
		recorder := httptest.NewRecorder()

		handler.Me(recorder, req.WithContext(ctx))

		require.Equal(t, http.StatusOK, recorder.Code)
		var resp UserResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, seed.ID, resp.ID)
		assert.Equal(t, "alice", resp.Username)
		assert.WithinDuration(t, seed.CreatedAt, resp.CreatedAt, time.Second)
	})

	t.Run("missing identity", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/auth/me", nil)
		recorder := httptest.NewRecorder()

		handler.Me(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/auth/me", nil)
		ctx := context.WithValue(req.Context(), shared.UserIDContextKey, uuid.New())
		recorder := httptest.NewRecorder()

		handler.Me(recorder, req.WithContext(ctx))

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

// mustUser builds a stored user with a fake hash already applied.
func mustUser(t *testing.T, username, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(username, email, "password123")
	require.NoError(t, err)
	user.HashedPassword = "hashed:password123"
	user.Password = ""
	return user
}

// assertMessageBody checks that error responses use the "message" key.
func assertMessageBody(t *testing.T, recorder *httptest.ResponseRecorder) {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	msg, ok := body["message"]
	require.True(t, ok, "error body should carry a message field")
	assert.NotEmpty(t, msg)
}
