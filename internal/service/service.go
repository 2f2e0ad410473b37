package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nab23-dev/prompt-sci/internal/dto"
	"github.com/nab23-dev/prompt-sci/internal/events"
	"github.com/nab23-dev/prompt-sci/internal/feed"
	"github.com/nab23-dev/prompt-sci/internal/model"
	"github.com/nab23-dev/prompt-sci/internal/repository"
	"github.com/nab23-dev/prompt-sci/pkg/utils"
)

type Auth interface {
	SignUp(ctx context.Context, req dto.SignUpRequest) (*model.User, *utils.JWTPair, error)
	SignIn(ctx context.Context, req dto.SignInRequest) (*model.User, *utils.JWTPair, error)
	SignOut(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*utils.JWTPair, error)
	// Authenticate returns the user id carried by a valid access token.
	Authenticate(accessToken string) (string, error)
	Reauthenticate(ctx context.Context, uid string, password string) (*model.User, error)
	RevokeSessions(ctx context.Context, uid string) error
}

type User interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	UpdateAccount(ctx context.Context, uid string, req dto.UpdateAccountRequest) (*model.User, error)
	DeleteAccount(ctx context.Context, uid string, req dto.DeleteAccountRequest) error
}

type Post interface {
	Submit(ctx context.Context, uid string, req dto.SubmitPostRequest) (*model.Post, error)
	ListMine(ctx context.Context, uid string) ([]*model.Post, error)
	Delete(ctx context.Context, uid string, postID string) error
	React(ctx context.Context, uid string, postID string, kind string) (*model.Post, error)
	SetAutoApprove(ctx context.Context, autoApprove bool) error
	Approve(ctx context.Context, postID string, approved bool) error
}

type Feed interface {
	// Reset starts the viewer's feed over and loads its first page.
	Reset(ctx context.Context, uid string) (*feed.Page, error)
	Next(ctx context.Context, uid string) (*feed.Page, error)
	// Page loads one page without touching any viewer session.
	Page(ctx context.Context, cursor feed.Cursor) (*feed.Page, error)
	Search(uid string, term string) []*model.FeedPost
	Subscribe() (<-chan events.Event, func())
}

type Options struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	UserCacheTTL  time.Duration

	PageSize        int
	StrictReactions bool
	SessionTTL      time.Duration
	MaxSessions     int

	// Now defaults to time.Now.
	Now func() time.Time
}

func (o *Options) setDefaults() {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.AccessExpiry <= 0 {
		o.AccessExpiry = ACCESS_TOKEN_EXPIRY
	}
	if o.RefreshExpiry <= 0 {
		o.RefreshExpiry = REFRESH_TOKEN_EXPIRY
	}
	if o.UserCacheTTL <= 0 {
		o.UserCacheTTL = USER_CACHE_TTL
	}
	if o.PageSize <= 0 {
		o.PageSize = feed.DefaultPageSize
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = FEED_SESSION_TTL
	}
	if o.MaxSessions <= 0 {
		o.MaxSessions = MAX_FEED_SESSIONS
	}
}

const (
	ACCESS_TOKEN_EXPIRY  = time.Hour * 3
	REFRESH_TOKEN_EXPIRY = time.Hour * 24 * 7 * 2
	USER_CACHE_TTL       = time.Hour * 3
	FEED_SESSION_TTL     = time.Minute * 30
	MAX_FEED_SESSIONS    = 10_000
)

type Service struct {
	Auth
	User
	Post
	Feed
}

// New wires the services. Events go to the broadcaster for live feed
// subscribers and to publisher, which may be nil.
func New(logger *zap.Logger, repo *repository.Repository, broadcaster *events.Broadcaster, publisher events.Publisher, opts Options) *Service {
	opts.setDefaults()

	var pub events.Publisher = broadcaster
	if publisher != nil {
		pub = events.Multi{broadcaster, publisher}
	}
	n := &notifier{logger: logger, publisher: pub, now: opts.Now}

	authService := newAuthService(logger, repo, opts)
	userService := newUserService(logger, repo, authService, n, opts)
	sessions := feed.NewSessions(logger, repo.Posts, userService, opts.PageSize, opts.MaxSessions, opts.SessionTTL)
	userService.sessions = sessions

	return &Service{
		Auth: authService,
		User: userService,
		Post: newPostService(logger, repo, userService, sessions, n, opts),
		Feed: newFeedService(logger, repo, userService, sessions, broadcaster, opts),
	}
}

type notifier struct {
	logger    *zap.Logger
	publisher events.Publisher
	now       func() time.Time
}

// notify publishes an event. Failures are logged and never reach the caller.
func (n *notifier) notify(ctx context.Context, event events.Event) {
	event.At = n.now().UTC()
	if err := n.publisher.Publish(ctx, event); err != nil {
		n.logger.Sugar().Errorf("failed to publish %s event: %s", event.Type, err.Error())
	}
}
