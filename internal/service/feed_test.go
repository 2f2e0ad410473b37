package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nab23-dev/prompt-sci/internal/dto"
	"github.com/nab23-dev/prompt-sci/internal/feed"
	"github.com/nab23-dev/prompt-sci/internal/model"
)

func TestFeed_SessionWalk(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	author := env.signUp(t, "author")
	viewer := env.signUp(t, "viewer")

	require.NoError(t, env.svc.Post.SetAutoApprove(ctx, true))
	for i := 0; i < 7; i++ {
		_, err := env.svc.Post.Submit(ctx, author.ID, dto.SubmitPostRequest{Prompt: fmt.Sprintf("prompt %d", i)})
		require.NoError(t, err)
	}

	page, err := env.svc.Feed.Reset(ctx, viewer.ID)
	require.NoError(t, err)
	require.Len(t, page.Posts, 5)
	assert.Equal(t, "prompt 6", page.Posts[0].Prompt)
	assert.Equal(t, author.Name, page.Posts[0].Name)
	assert.False(t, page.Exhausted)

	page, err = env.svc.Feed.Next(ctx, viewer.ID)
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)
	assert.True(t, page.Exhausted)

	page, err = env.svc.Feed.Next(ctx, viewer.ID)
	require.NoError(t, err)
	assert.Empty(t, page.Posts)

	found := env.svc.Feed.Search(viewer.ID, "PROMPT 3")
	require.Len(t, found, 1)
	assert.Equal(t, "prompt 3", found[0].Prompt)
	assert.Len(t, env.svc.Feed.Search(viewer.ID, ""), 7)
	assert.Empty(t, env.svc.Feed.Search("nobody", "prompt"))

	page, err = env.svc.Feed.Reset(ctx, viewer.ID)
	require.NoError(t, err)
	assert.Len(t, page.Posts, 5)
	assert.Len(t, env.svc.Feed.Search(viewer.ID, ""), 5)
}

func TestFeed_PageByCursor(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	author := env.signUp(t, "author")

	require.NoError(t, env.svc.Post.SetAutoApprove(ctx, true))
	for i := 0; i < 6; i++ {
		_, err := env.svc.Post.Submit(ctx, author.ID, dto.SubmitPostRequest{Prompt: fmt.Sprintf("prompt %d", i)})
		require.NoError(t, err)
	}

	first, err := env.svc.Feed.Page(ctx, "")
	require.NoError(t, err)
	require.Len(t, first.Posts, 5)
	require.NotEmpty(t, first.Next)

	second, err := env.svc.Feed.Page(ctx, first.Next)
	require.NoError(t, err)
	require.Len(t, second.Posts, 1)
	assert.Equal(t, "prompt 0", second.Posts[0].Prompt)
	assert.True(t, second.Exhausted)

	_, err = env.svc.Feed.Page(ctx, "not-a-cursor")
	assert.ErrorIs(t, err, feed.ErrInvalidCursor)
}

func TestFeed_DeletedAuthorShowsAnonymous(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	viewer := env.signUp(t, "viewer")

	require.NoError(t, env.svc.Post.SetAutoApprove(ctx, true))
	// A post whose author record is gone.
	_, err := env.repo.Posts.Create(ctx, model.Post{UID: "ghost", Prompt: "orphan", Approved: true})
	require.NoError(t, err)

	page, err := env.svc.Feed.Reset(ctx, viewer.ID)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, model.AnonymousName, page.Posts[0].Name)
}
