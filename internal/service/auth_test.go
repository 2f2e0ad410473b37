package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nab23-dev/prompt-sci/internal/dto"
)

func TestSignUp_ValidationRunsBeforeStore(t *testing.T) {
	valid := dto.SignUpRequest{Name: "Ada", Username: "ada_l", Email: "ada@gmail.com", Password: "secret1"}

	tests := []struct {
		name    string
		mutate  func(r *dto.SignUpRequest)
		message string
	}{
		{"empty name", func(r *dto.SignUpRequest) { r.Name = "" }, "Please fill in all fields."},
		{"empty password", func(r *dto.SignUpRequest) { r.Password = "" }, "Please fill in all fields."},
		{"short username", func(r *dto.SignUpRequest) { r.Username = "ab" }, "Username must be at least 4 characters."},
		{"non gmail", func(r *dto.SignUpRequest) { r.Email = "user@yahoo.com" }, "Please use a valid Gmail address."},
		{"gmail lookalike", func(r *dto.SignUpRequest) { r.Email = "user@gmail.com.evil" }, "Please use a valid Gmail address."},
		{"short password", func(r *dto.SignUpRequest) { r.Password = "12345" }, "Password must be at least 6 characters."},
		{"short multibyte username", func(r *dto.SignUpRequest) { r.Username = "日本" }, "Username must be at least 4 characters."},
		{"short multibyte password", func(r *dto.SignUpRequest) { r.Password = "日本語" }, "Password must be at least 6 characters."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.repo.Users = noUsers{}

			req := valid
			tt.mutate(&req)

			_, _, err := env.svc.Auth.SignUp(context.Background(), req)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			assert.EqualError(t, err, tt.message)
		})
	}
}

func TestSignUp(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	user, pair, err := env.svc.Auth.SignUp(ctx, dto.SignUpRequest{Name: "Ada", Username: "ada_l", Email: "ada@gmail.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15T10:30:00Z", user.CreatedAt)
	assert.NotEmpty(t, pair.AccessToken)

	uid, err := env.svc.Auth.Authenticate(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, uid)

	_, _, err = env.svc.Auth.SignUp(ctx, dto.SignUpRequest{Name: "Other", Username: "ada_l", Email: "other@gmail.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.EqualError(t, err, "Username already taken.")

	_, _, err = env.svc.Auth.SignUp(ctx, dto.SignUpRequest{Name: "Other", Username: "other", Email: "ada@gmail.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestSignUp_ConcurrentSameUsername(t *testing.T) {
	env := newTestEnv(t)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := env.svc.Auth.SignUp(context.Background(), dto.SignUpRequest{
				Name:     "Racer",
				Username: "racer",
				Email:    "racer" + string(rune('a'+i)) + "@gmail.com",
				Password: "secret1",
			})

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if err == ErrUsernameTaken {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 3, conflicts)
}

func TestSignUp_ConcurrentSameEmail(t *testing.T) {
	env := newTestEnv(t)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := env.svc.Auth.SignUp(context.Background(), dto.SignUpRequest{
				Name:     "Racer",
				Username: "racer" + string(rune('a'+i)),
				Email:    "same@gmail.com",
				Password: "secret1",
			})

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if err == ErrEmailInUse {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 3, conflicts)

	user, _, err := env.svc.Auth.SignIn(context.Background(), dto.SignInRequest{EmailOrUsername: "same@gmail.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "same@gmail.com", user.Email)
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.signUp(t, "grace")

	signedIn, _, err := env.svc.Auth.SignIn(ctx, dto.SignInRequest{EmailOrUsername: "grace@gmail.com", Password: "secret-grace"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, signedIn.ID)

	signedIn, _, err = env.svc.Auth.SignIn(ctx, dto.SignInRequest{EmailOrUsername: "grace", Password: "secret-grace"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, signedIn.ID)

	_, _, err = env.svc.Auth.SignIn(ctx, dto.SignInRequest{EmailOrUsername: "nobody", Password: "secret-grace"})
	assert.EqualError(t, err, "No user found with this username.")

	_, _, err = env.svc.Auth.SignIn(ctx, dto.SignInRequest{EmailOrUsername: "nobody@gmail.com", Password: "secret-grace"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = env.svc.Auth.SignIn(ctx, dto.SignInRequest{EmailOrUsername: "grace", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = env.svc.Auth.SignIn(ctx, dto.SignInRequest{EmailOrUsername: "grace"})
	assert.EqualError(t, err, "Please fill in all fields.")
}

func TestRefreshAndSignOut(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.signUp(t, "linus")

	_, pair, err := env.svc.Auth.SignIn(ctx, dto.SignInRequest{EmailOrUsername: "linus", Password: "secret-linus"})
	require.NoError(t, err)

	rotated, err := env.svc.Auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshTokenID, rotated.RefreshTokenID)

	_, err = env.svc.Auth.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized, "a rotated refresh token must not be reusable")

	require.NoError(t, env.svc.Auth.SignOut(ctx, rotated.RefreshToken))
	_, err = env.svc.Auth.Refresh(ctx, rotated.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	assert.ErrorIs(t, env.svc.Auth.SignOut(ctx, "garbage"), ErrUnauthorized)
	_, err = env.svc.Auth.Authenticate(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized, "refresh tokens are not access tokens")
}
