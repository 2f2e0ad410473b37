package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nab23-dev/prompt-sci/internal/dto"
	"github.com/nab23-dev/prompt-sci/internal/events"
	"github.com/nab23-dev/prompt-sci/internal/model"
	"github.com/nab23-dev/prompt-sci/internal/repository"
	"github.com/nab23-dev/prompt-sci/internal/repository/memory"
)

var testNow = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

type testEnv struct {
	svc         *Service
	repo        *repository.Repository
	broadcaster *events.Broadcaster
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock := testNow
	repo := memory.New(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	})
	broadcaster := events.NewBroadcaster(zap.NewNop())

	svc := New(zap.NewNop(), repo, broadcaster, nil, Options{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		Now:           func() time.Time { return testNow },
	})

	return &testEnv{svc: svc, repo: repo, broadcaster: broadcaster}
}

func (e *testEnv) signUp(t *testing.T, username string) *model.User {
	t.Helper()

	user, _, err := e.svc.Auth.SignUp(context.Background(), dto.SignUpRequest{
		Name:     "Name of " + username,
		Username: username,
		Email:    username + "@gmail.com",
		Password: "secret-" + username,
	})
	require.NoError(t, err)
	return user
}

// noUsers and noPosts panic on any call, proving a code path never reached
// the store.
type noUsers struct{ repository.Users }
type noPosts struct{ repository.Posts }
