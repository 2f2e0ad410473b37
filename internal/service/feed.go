package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/nab23-dev/prompt-sci/internal/events"
	"github.com/nab23-dev/prompt-sci/internal/feed"
	"github.com/nab23-dev/prompt-sci/internal/model"
	"github.com/nab23-dev/prompt-sci/internal/repository"
)

type feedService struct {
	logger      *zap.Logger
	repo        *repository.Repository
	users       User
	sessions    *feed.Sessions
	broadcaster *events.Broadcaster
	pageSize    int
}

func newFeedService(logger *zap.Logger, repo *repository.Repository, users User, sessions *feed.Sessions, broadcaster *events.Broadcaster, opts Options) Feed {
	return &feedService{
		logger:      logger,
		repo:        repo,
		users:       users,
		sessions:    sessions,
		broadcaster: broadcaster,
		pageSize:    opts.PageSize,
	}
}

func (s *feedService) pageErr(uid string, err error) error {
	switch {
	case errors.Is(err, feed.ErrLoadInFlight), errors.Is(err, feed.ErrFeedReset), errors.Is(err, feed.ErrInvalidCursor):
		return err
	}

	s.logger.Sugar().Errorf("failed to load feed page for user(%s): %s", uid, err.Error())
	return ErrInternal
}

func (s *feedService) Reset(ctx context.Context, uid string) (*feed.Page, error) {
	session := s.sessions.Get(uid)
	session.Reset()

	page, err := session.LoadPage(ctx)
	if err != nil {
		return nil, s.pageErr(uid, err)
	}
	return page, nil
}

func (s *feedService) Next(ctx context.Context, uid string) (*feed.Page, error) {
	page, err := s.sessions.Get(uid).LoadPage(ctx)
	if err != nil {
		return nil, s.pageErr(uid, err)
	}
	return page, nil
}

func (s *feedService) Page(ctx context.Context, cursor feed.Cursor) (*feed.Page, error) {
	after, err := feed.ParseCursor(cursor)
	if err != nil {
		return nil, err
	}

	page, err := feed.FetchPage(ctx, s.repo.Posts, feed.NewNameCache(s.logger, s.users), after, s.pageSize)
	if err != nil {
		return nil, s.pageErr("", err)
	}
	return page, nil
}

// Search filters the posts already loaded in the viewer's session.
func (s *feedService) Search(uid string, term string) []*model.FeedPost {
	session, ok := s.sessions.Peek(uid)
	if !ok {
		return []*model.FeedPost{}
	}
	return feed.Filter(session.Posts(), term)
}

func (s *feedService) Subscribe() (<-chan events.Event, func()) {
	return s.broadcaster.Subscribe()
}
