package service

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nab23-dev/prompt-sci/internal/dto"
	"github.com/nab23-dev/prompt-sci/internal/events"
	"github.com/nab23-dev/prompt-sci/internal/feed"
	"github.com/nab23-dev/prompt-sci/internal/model"
	"github.com/nab23-dev/prompt-sci/internal/repository"
	"github.com/nab23-dev/prompt-sci/internal/repository/redisrepo"
)

type userService struct {
	logger   *zap.Logger
	repo     *repository.Repository
	auth     Auth
	sessions *feed.Sessions
	notifier *notifier
	opts     Options
}

func newUserService(logger *zap.Logger, repo *repository.Repository, auth Auth, notifier *notifier, opts Options) *userService {
	return &userService{
		logger:   logger,
		repo:     repo,
		auth:     auth,
		notifier: notifier,
		opts:     opts,
	}
}

// FindByID reads through the user cache. Cached users carry no password hash.
func (s *userService) FindByID(ctx context.Context, id string) (*model.User, error) {
	userCache, err := redisrepo.Get[model.User](s.repo.Redis.Default, ctx, redisrepo.UserKey(id))
	if err == nil && userCache != nil {
		userCacheResults.WithLabelValues("hit").Inc()
		return userCache, nil
	}

	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get user(%s) from redis: %s", id, err.Error())
		return nil, ErrInternal
	}
	userCacheResults.WithLabelValues("miss").Inc()

	user, err := s.repo.Users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to find user(%s): %s", id, err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.UserKey(id), user, s.opts.UserCacheTTL); err != nil {
		s.logger.Sugar().Errorf("failed to set user(%s) in redis: %s", id, err.Error())
		return nil, ErrInternal
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *userService) forget(ctx context.Context, id string) {
	if err := s.repo.Redis.Default.Del(ctx, redisrepo.UserKey(id)).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete user(%s) from redis: %s", id, err.Error())
	}
}

// UpdateAccount re-authenticates the user and applies the non-empty changes.
// A new password revokes every refresh token of the user.
func (s *userService) UpdateAccount(ctx context.Context, uid string, req dto.UpdateAccountRequest) (*model.User, error) {
	req, err := normalizeAccountUpdate(req)
	if err != nil {
		return nil, err
	}

	user, err := s.auth.Reauthenticate(ctx, uid, req.CurrentPassword)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates[repository.FieldName] = req.Name
	}
	if req.Email != "" && req.Email != user.Email {
		other, err := s.repo.Users.FindByEmail(ctx, req.Email)
		if err == nil && other.ID != uid {
			return nil, ErrEmailInUse
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			s.logger.Sugar().Errorf("failed to find user by email(%s): %s", req.Email, err.Error())
			return nil, ErrInternal
		}
		updates[repository.FieldEmail] = req.Email
	}
	if req.NewPassword != "" {
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
		if err != nil {
			s.logger.Sugar().Errorf("failed to generate password hash: %s", err.Error())
			return nil, ErrInternal
		}
		updates[repository.FieldPasswordHash] = string(passwordHash)
	}

	if len(updates) > 0 {
		if err := s.repo.Users.UpdateByID(ctx, uid, updates); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			if errors.Is(err, repository.ErrEmailInUse) {
				return nil, ErrEmailInUse
			}

			s.logger.Sugar().Errorf("failed to update user(%s): %s", uid, err.Error())
			return nil, ErrInternal
		}
		s.forget(ctx, uid)
	}

	if req.NewPassword != "" {
		if err := s.auth.RevokeSessions(ctx, uid); err != nil {
			return nil, err
		}
	}

	return s.FindByID(ctx, uid)
}

// DeleteAccount re-authenticates the user, then removes the user document
// with its credential, every post of the user and all refresh tokens.
func (s *userService) DeleteAccount(ctx context.Context, uid string, req dto.DeleteAccountRequest) error {
	if err := validateDeleteAccount(req); err != nil {
		return err
	}

	if _, err := s.auth.Reauthenticate(ctx, uid, req.Password); err != nil {
		return err
	}

	posts, err := s.repo.Posts.ListByUID(ctx, uid)
	if err != nil {
		s.logger.Sugar().Errorf("failed to list posts of user(%s): %s", uid, err.Error())
		return ErrInternal
	}

	if err := s.repo.Users.DeleteByID(ctx, uid); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Sugar().Errorf("failed to delete user(%s): %s", uid, err.Error())
		return ErrInternal
	}
	s.forget(ctx, uid)

	deleted, err := s.repo.Posts.DeleteByUID(ctx, uid)
	if err != nil {
		s.logger.Sugar().Errorf("failed to delete posts of user(%s): %s", uid, err.Error())
		return ErrInternal
	}
	s.logger.Sugar().Infof("deleted user(%s) with %d posts", uid, deleted)

	if err := s.auth.RevokeSessions(ctx, uid); err != nil {
		return err
	}

	if s.sessions != nil {
		s.sessions.Drop(uid)
		s.sessions.Each(func(session *feed.Session) {
			for _, post := range posts {
				session.Remove(post.ID)
			}
		})
	}

	for _, post := range posts {
		s.notifier.notify(ctx, events.Event{Type: events.PostDeleted, PostID: post.ID, UID: uid, Post: post})
	}
	s.notifier.notify(ctx, events.Event{Type: events.UserDeleted, UID: uid})

	return nil
}
