package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nab23-dev/prompt-sci/internal/dto"
)

func TestAuth_SessionLifecycle(t *testing.T) {
	s := newTestServer(t, Options{})
	acc := s.signUp(t, "alice")

	w := s.do(t, request{method: http.MethodGet, path: "/api/v1/auth/state", token: acc.accessToken})
	require.Equal(t, http.StatusOK, w.Code)
	state := decode[dto.AuthStateResponse](t, w)
	require.NotNil(t, state.UID)
	assert.Equal(t, acc.id, *state.UID)

	w = s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/refresh", cookies: []*http.Cookie{acc.refresh}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, decode[dto.RefreshResponse](t, w).AccessToken)
	rotated := refreshCookie(w)
	require.NotNil(t, rotated)

	// the rotated-away token is no longer a live session
	w = s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/refresh", cookies: []*http.Cookie{acc.refresh}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/sign-out", body: dto.RefreshRequest{RefreshToken: rotated.Value}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/refresh", cookies: []*http.Cookie{rotated}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_SignInByUsernameOrEmail(t *testing.T) {
	s := newTestServer(t, Options{})
	acc := s.signUp(t, "alice")

	for _, id := range []string{"alice", "alice@gmail.com"} {
		w := s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/sign-in", body: dto.SignInRequest{
			EmailOrUsername: id,
			Password:        "secret-alice",
		}})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, acc.id, decode[dto.AuthResponse](t, w).User.ID)
	}

	w := s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/sign-in", body: dto.SignInRequest{
		EmailOrUsername: "nobody",
		Password:        "whatever",
	}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "No user found with this username.", decode[dto.BasicResponse](t, w).Details)
}

func TestAuth_SignUpErrors(t *testing.T) {
	s := newTestServer(t, Options{})
	s.signUp(t, "alice")

	tests := []struct {
		name    string
		req     dto.SignUpRequest
		status  int
		details string
	}{
		{
			name:    "missing field",
			req:     dto.SignUpRequest{Username: "bobby", Email: "bobby@gmail.com", Password: "secret"},
			status:  http.StatusBadRequest,
			details: "Please fill in all fields.",
		},
		{
			name:    "not gmail",
			req:     dto.SignUpRequest{Name: "Bob", Username: "bobby", Email: "bobby@example.com", Password: "secret"},
			status:  http.StatusBadRequest,
			details: "Please use a valid Gmail address.",
		},
		{
			name:    "username taken",
			req:     dto.SignUpRequest{Name: "Al", Username: "alice", Email: "other@gmail.com", Password: "secret"},
			status:  http.StatusConflict,
			details: "Username already taken.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/sign-up", body: tt.req})
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.details, decode[dto.BasicResponse](t, w).Details)
		})
	}
}

func TestAuth_StateWithoutToken(t *testing.T) {
	s := newTestServer(t, Options{})

	for _, token := range []string{"", "not-a-jwt"} {
		w := s.do(t, request{method: http.MethodGet, path: "/api/v1/auth/state", token: token})
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"uid":null}`, w.Body.String())
	}
}

func TestAuthMiddleware_RejectsMissingToken(t *testing.T) {
	s := newTestServer(t, Options{})

	w := s.do(t, request{method: http.MethodGet, path: "/api/v1/users/@me"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, request{method: http.MethodGet, path: "/api/v1/users/@me", token: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
