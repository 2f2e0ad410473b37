// Package feed assembles the public post feed: cursor pagination over
// approved posts, author name resolution, reactions and search.
package feed

import (
	"context"

	"github.com/nab23-dev/prompt-sci/internal/model"
)

const DefaultPageSize = 5

// PageSource lists approved posts in feed order.
type PageSource interface {
	ListApproved(ctx context.Context, after *model.PageKey, limit int) ([]*model.Post, error)
}

// UserLookup finds a user by id. A nil user with a nil error counts as
// missing.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// ReactionStore writes a single reaction entry of a post.
type ReactionStore interface {
	SetReaction(ctx context.Context, postID string, uid string, kind string) error
}
