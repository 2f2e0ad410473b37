package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/nab23-dev/prompt-sci/internal/dto"
	"github.com/nab23-dev/prompt-sci/internal/events"
	"github.com/nab23-dev/prompt-sci/internal/feed"
	"github.com/nab23-dev/prompt-sci/internal/model"
	"github.com/nab23-dev/prompt-sci/internal/repository"
)

type postService struct {
	logger   *zap.Logger
	repo     *repository.Repository
	users    User
	sessions *feed.Sessions
	reactor  *feed.Reactor
	notifier *notifier
}

func newPostService(logger *zap.Logger, repo *repository.Repository, users User, sessions *feed.Sessions, notifier *notifier, opts Options) Post {
	return &postService{
		logger:   logger,
		repo:     repo,
		users:    users,
		sessions: sessions,
		reactor:  feed.NewReactor(repo.Posts, opts.StrictReactions),
		notifier: notifier,
	}
}

// Submit stores a new post. It is approved right away only when auto-approve
// is switched on in the global settings.
func (s *postService) Submit(ctx context.Context, uid string, req dto.SubmitPostRequest) (*model.Post, error) {
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	req.Caption = strings.TrimSpace(req.Caption)
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		return nil, errPromptRequired
	}

	author, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	settings, err := s.repo.Settings.Get(ctx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to get global settings: %s", err.Error())
		return nil, ErrInternal
	}

	post, err := s.repo.Posts.Create(ctx, model.Post{
		UID:       uid,
		Name:      author.Name,
		Username:  author.Username,
		Email:     author.Email,
		ImageURL:  req.ImageURL,
		Caption:   req.Caption,
		Prompt:    req.Prompt,
		Approved:  settings.AutoApprove,
		Reactions: map[string]string{},
	})
	if err != nil {
		s.logger.Sugar().Errorf("failed to create post of user(%s): %s", uid, err.Error())
		return nil, ErrInternal
	}

	postsSubmitted.WithLabelValues(strconv.FormatBool(post.Approved)).Inc()
	s.notifier.notify(ctx, events.Event{Type: events.PostCreated, PostID: post.ID, UID: uid, Post: post})
	return post, nil
}

func (s *postService) ListMine(ctx context.Context, uid string) ([]*model.Post, error) {
	posts, err := s.repo.Posts.ListByUID(ctx, uid)
	if err != nil {
		s.logger.Sugar().Errorf("failed to list posts of user(%s): %s", uid, err.Error())
		return nil, ErrInternal
	}
	return posts, nil
}

func (s *postService) findPost(ctx context.Context, postID string) (*model.Post, error) {
	post, err := s.repo.Posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to find post(%s): %s", postID, err.Error())
		return nil, ErrInternal
	}
	return post, nil
}

// Delete removes a post of uid. Posts of other users are left alone.
func (s *postService) Delete(ctx context.Context, uid string, postID string) error {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.UID != uid {
		return ErrForbidden
	}

	if err := s.repo.Posts.DeleteByID(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to delete post(%s): %s", postID, err.Error())
		return ErrInternal
	}

	s.sessions.Each(func(session *feed.Session) { session.Remove(postID) })
	s.notifier.notify(ctx, events.Event{Type: events.PostDeleted, PostID: postID, UID: uid, Post: post})
	return nil
}

// React records kind as the reaction of uid and returns the updated post.
func (s *postService) React(ctx context.Context, uid string, postID string, kind string) (*model.Post, error) {
	if err := s.reactor.React(ctx, postID, uid, kind); err != nil {
		switch {
		case errors.Is(err, feed.ErrAuthRequired), errors.Is(err, feed.ErrUnknownReaction):
			return nil, err
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to set reaction of user(%s) on post(%s): %s", uid, postID, err.Error())
		return nil, ErrInternal
	}
	reactionsTotal.WithLabelValues(reactionLabel(kind)).Inc()

	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	s.sessions.Each(func(session *feed.Session) { session.Update(post) })
	s.notifier.notify(ctx, events.Event{Type: events.PostReacted, PostID: postID, UID: uid, Kind: kind, Post: post})
	return post, nil
}

func (s *postService) SetAutoApprove(ctx context.Context, autoApprove bool) error {
	if err := s.repo.Settings.Put(ctx, model.Settings{AutoApprove: autoApprove}); err != nil {
		s.logger.Sugar().Errorf("failed to put global settings: %s", err.Error())
		return ErrInternal
	}
	return nil
}

func (s *postService) Approve(ctx context.Context, postID string, approved bool) error {
	if err := s.repo.Posts.SetApproved(ctx, postID, approved); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to set approval of post(%s): %s", postID, err.Error())
		return ErrInternal
	}

	post, err := s.findPost(ctx, postID)
	if err != nil {
		return err
	}

	if !approved {
		s.sessions.Each(func(session *feed.Session) { session.Remove(postID) })
	}
	s.notifier.notify(ctx, events.Event{Type: events.PostApproved, PostID: postID, UID: post.UID, Post: post})
	return nil
}
