package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nab23-dev/prompt-sci/internal/dto"
)

func TestUsers_UpdateAccount(t *testing.T) {
	s := newTestServer(t, Options{})
	acc := s.signUp(t, "alice")

	w := s.do(t, request{method: http.MethodPatch, path: "/api/v1/users/@me", token: acc.accessToken, body: dto.UpdateAccountRequest{
		Name: "Alice",
	}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Current password is required to make changes.", decode[dto.BasicResponse](t, w).Details)

	w = s.do(t, request{method: http.MethodPatch, path: "/api/v1/users/@me", token: acc.accessToken, body: dto.UpdateAccountRequest{
		CurrentPassword: "wrong-password",
		Name:            "Alice",
	}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, request{method: http.MethodPatch, path: "/api/v1/users/@me", token: acc.accessToken, body: dto.UpdateAccountRequest{
		CurrentPassword: "secret-alice",
		Name:            "Alice",
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Alice", decode[dto.GetUser](t, w).Name)

	w = s.do(t, request{method: http.MethodGet, path: "/api/v1/users/@me", token: acc.accessToken})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alice", decode[dto.GetUser](t, w).Name)
}

func TestUsers_DeleteAccount(t *testing.T) {
	s := newTestServer(t, Options{})
	acc := s.signUp(t, "alice")

	w := s.do(t, request{method: http.MethodPost, path: "/api/v1/posts", token: acc.accessToken, body: dto.SubmitPostRequest{Prompt: "a cat"}})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, request{method: http.MethodDelete, path: "/api/v1/users/@me", token: acc.accessToken, body: dto.DeleteAccountRequest{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please enter your password.", decode[dto.BasicResponse](t, w).Details)

	w = s.do(t, request{method: http.MethodDelete, path: "/api/v1/users/@me", token: acc.accessToken, body: dto.DeleteAccountRequest{Password: "secret-alice"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, request{method: http.MethodGet, path: "/api/v1/users/@me", token: acc.accessToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/sign-in", body: dto.SignInRequest{
		EmailOrUsername: "alice@gmail.com",
		Password:        "secret-alice",
	}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/refresh", cookies: []*http.Cookie{acc.refresh}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUsers_MyPostsIncludesPending(t *testing.T) {
	s := newTestServer(t, Options{})
	acc := s.signUp(t, "alice")

	for _, prompt := range []string{"first", "second"} {
		w := s.do(t, request{method: http.MethodPost, path: "/api/v1/posts", token: acc.accessToken, body: dto.SubmitPostRequest{Prompt: prompt}})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := s.do(t, request{method: http.MethodGet, path: "/api/v1/users/@me/posts", token: acc.accessToken})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[dto.PostsResponse](t, w)
	require.Len(t, resp.Posts, 2)
	assert.Equal(t, "second", resp.Posts[0].Prompt)
	assert.Equal(t, "first", resp.Posts[1].Prompt)
	assert.False(t, resp.Posts[0].Approved)
}
