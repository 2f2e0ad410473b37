package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nab23-dev/prompt-sci/internal/dto"
	"github.com/nab23-dev/prompt-sci/internal/model"
	"github.com/nab23-dev/prompt-sci/internal/repository"
	"github.com/nab23-dev/prompt-sci/internal/repository/redisrepo"
)

func TestFindByID_ReadThroughCache(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.signUp(t, "cached")

	found, err := env.svc.User.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Name, found.Name)
	assert.Empty(t, found.PasswordHash)

	cached, err := redisrepo.Get[model.User](env.repo.Redis.Default, ctx, redisrepo.UserKey(user.ID))
	require.NoError(t, err)
	assert.Equal(t, user.Username, cached.Username)
	assert.Empty(t, cached.PasswordHash)

	// Served from the cache once the store forgets the user.
	require.NoError(t, env.repo.Users.DeleteByID(ctx, user.ID))
	found, err = env.svc.User.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = env.svc.User.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateAccount(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.signUp(t, "margaret")
	other := env.signUp(t, "katherine")

	_, err := env.svc.User.UpdateAccount(ctx, user.ID, dto.UpdateAccountRequest{Name: "New"})
	assert.EqualError(t, err, "Current password is required to make changes.")

	_, err = env.svc.User.UpdateAccount(ctx, user.ID, dto.UpdateAccountRequest{CurrentPassword: "wrong", Name: "New"})
	assert.ErrorIs(t, err, ErrReauthFailed)

	_, err = env.svc.User.UpdateAccount(ctx, user.ID, dto.UpdateAccountRequest{CurrentPassword: "secret-margaret", Email: other.Email})
	assert.ErrorIs(t, err, ErrEmailInUse)

	_, err = env.svc.User.UpdateAccount(ctx, user.ID, dto.UpdateAccountRequest{CurrentPassword: "secret-margaret", NewPassword: "123"})
	assert.EqualError(t, err, "Password must be at least 6 characters.")

	// Prime the cache so the update has to invalidate it.
	_, err = env.svc.User.FindByID(ctx, user.ID)
	require.NoError(t, err)

	updated, err := env.svc.User.UpdateAccount(ctx, user.ID, dto.UpdateAccountRequest{
		CurrentPassword: "secret-margaret",
		Name:            "  Margaret H.  ",
		Email:           "mh@gmail.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Margaret H.", updated.Name)
	assert.Equal(t, "mh@gmail.com", updated.Email)
	assert.Equal(t, "margaret", updated.Username)
}

// staleEmails misses every email lookup, as a read racing a concurrent
// write would.
type staleEmails struct{ repository.Users }

func (staleEmails) FindByEmail(context.Context, string) (*model.User, error) {
	return nil, repository.ErrNotFound
}

func TestUpdateAccount_EmailTakenAtStore(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.signUp(t, "margaret")
	other := env.signUp(t, "katherine")

	env.repo.Users = staleEmails{env.repo.Users}

	_, err := env.svc.User.UpdateAccount(ctx, user.ID, dto.UpdateAccountRequest{CurrentPassword: "secret-margaret", Email: other.Email})
	assert.ErrorIs(t, err, ErrEmailInUse)

	got, err := env.repo.Users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "margaret@gmail.com", got.Email)
}

func TestUpdateAccount_NewPasswordRevokesSessions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.signUp(t, "barbara")

	_, pair, err := env.svc.Auth.SignIn(ctx, dto.SignInRequest{EmailOrUsername: "barbara", Password: "secret-barbara"})
	require.NoError(t, err)

	_, err = env.svc.User.UpdateAccount(ctx, user.ID, dto.UpdateAccountRequest{CurrentPassword: "secret-barbara", NewPassword: "brand-new"})
	require.NoError(t, err)

	_, err = env.svc.Auth.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, _, err = env.svc.Auth.SignIn(ctx, dto.SignInRequest{EmailOrUsername: "barbara", Password: "secret-barbara"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = env.svc.Auth.SignIn(ctx, dto.SignInRequest{EmailOrUsername: "barbara", Password: "brand-new"})
	assert.NoError(t, err)
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.signUp(t, "frances")
	other := env.signUp(t, "dorothy")

	for i := 0; i < 3; i++ {
		_, err := env.svc.Post.Submit(ctx, user.ID, dto.SubmitPostRequest{Prompt: "mine"})
		require.NoError(t, err)
	}
	kept, err := env.svc.Post.Submit(ctx, other.ID, dto.SubmitPostRequest{Prompt: "theirs"})
	require.NoError(t, err)

	err = env.svc.User.DeleteAccount(ctx, user.ID, dto.DeleteAccountRequest{})
	assert.EqualError(t, err, "Please enter your password.")

	err = env.svc.User.DeleteAccount(ctx, user.ID, dto.DeleteAccountRequest{Password: "nope"})
	assert.ErrorIs(t, err, ErrReauthFailed)

	events, unsubscribe := env.svc.Feed.Subscribe()
	defer unsubscribe()

	require.NoError(t, env.svc.User.DeleteAccount(ctx, user.ID, dto.DeleteAccountRequest{Password: "secret-frances"}))

	_, err = env.repo.Users.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = env.svc.User.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	posts, err := env.repo.Posts.ListByUID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, posts)

	_, err = env.repo.Posts.FindByID(ctx, kept.ID)
	assert.NoError(t, err)

	_, _, err = env.svc.Auth.SignIn(ctx, dto.SignInRequest{EmailOrUsername: "frances@gmail.com", Password: "secret-frances"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.Len(t, events, 4)
}
