package repository

import (
	"context"
	"errors"

	"github.com/nab23-dev/prompt-sci/internal/model"
	"github.com/nab23-dev/prompt-sci/internal/repository/redisrepo"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailInUse    = errors.New("email already in use")
)

// Updatable user fields. Backends ignore any other key passed to UpdateByID.
const (
	FieldName         = "name"
	FieldEmail        = "email"
	FieldPasswordHash = "password_hash"
)

var UpdatableUserFields = []string{FieldName, FieldEmail, FieldPasswordHash}

type Users interface {
	Create(ctx context.Context, user model.User) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsWithUsername(ctx context.Context, username string) (bool, error)
	UpdateByID(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteByID(ctx context.Context, id string) error
}

type Posts interface {
	Create(ctx context.Context, post model.Post) (*model.Post, error)
	FindByID(ctx context.Context, id string) (*model.Post, error)
	// ListApproved returns up to limit approved posts ordered by timestamp
	// desc, id desc, starting strictly after the given key (nil = newest).
	ListApproved(ctx context.Context, after *model.PageKey, limit int) ([]*model.Post, error)
	ListByUID(ctx context.Context, uid string) ([]*model.Post, error)
	SetReaction(ctx context.Context, postID string, uid string, kind string) error
	SetApproved(ctx context.Context, postID string, approved bool) error
	DeleteByID(ctx context.Context, id string) error
	DeleteByUID(ctx context.Context, uid string) (int64, error)
}

type Settings interface {
	Get(ctx context.Context) (*model.Settings, error)
	Put(ctx context.Context, settings model.Settings) error
}

type Repository struct {
	Users    Users
	Posts    Posts
	Settings Settings
	Redis    *redisrepo.RedisRepository

	closers []func(ctx context.Context) error
}

func New(users Users, posts Posts, settings Settings, redis *redisrepo.RedisRepository) *Repository {
	return &Repository{
		Users:    users,
		Posts:    posts,
		Settings: settings,
		Redis:    redis,
	}
}

// OnClose registers a function run by Close, in reverse registration order.
func (r *Repository) OnClose(fn func(ctx context.Context) error) {
	r.closers = append(r.closers, fn)
}

func (r *Repository) Close(ctx context.Context) error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FilterUserUpdates drops keys that are not updatable user fields.
func FilterUserUpdates(updates map[string]interface{}) map[string]interface{} {
	filtered := make(map[string]interface{}, len(updates))
	for _, field := range UpdatableUserFields {
		if value, ok := updates[field]; ok {
			filtered[field] = value
		}
	}
	return filtered
}
