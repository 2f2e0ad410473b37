package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nab23-dev/prompt-sci/internal/dto"
	"github.com/nab23-dev/prompt-sci/internal/model"
	"github.com/nab23-dev/prompt-sci/internal/repository"
	"github.com/nab23-dev/prompt-sci/internal/repository/redisrepo"
	"github.com/nab23-dev/prompt-sci/pkg/utils"
)

const bcryptCost = 10

type authService struct {
	logger *zap.Logger
	repo   *repository.Repository
	opts   Options
}

func newAuthService(logger *zap.Logger, repo *repository.Repository, opts Options) *authService {
	return &authService{
		logger: logger,
		repo:   repo,
		opts:   opts,
	}
}

func (s *authService) SignUp(ctx context.Context, req dto.SignUpRequest) (*model.User, *utils.JWTPair, error) {
	if err := validateSignUp(req); err != nil {
		authAttempts.WithLabelValues("sign_up", "invalid").Inc()
		return nil, nil, err
	}

	exists, err := s.repo.Users.ExistsWithUsername(ctx, req.Username)
	if err != nil {
		s.logger.Sugar().Errorf("failed to check username(%s) existence: %s", req.Username, err.Error())
		return nil, nil, ErrInternal
	}
	if exists {
		authAttempts.WithLabelValues("sign_up", "conflict").Inc()
		return nil, nil, ErrUsernameTaken
	}

	if _, err := s.repo.Users.FindByEmail(ctx, req.Email); err == nil {
		authAttempts.WithLabelValues("sign_up", "conflict").Inc()
		return nil, nil, ErrEmailInUse
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Sugar().Errorf("failed to find user by email(%s): %s", req.Email, err.Error())
		return nil, nil, ErrInternal
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		s.logger.Sugar().Errorf("failed to generate password hash: %s", err.Error())
		return nil, nil, ErrInternal
	}

	user, err := s.repo.Users.Create(ctx, model.User{
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		CreatedAt:    s.opts.Now().UTC().Format(time.RFC3339),
		PasswordHash: string(passwordHash),
	})
	if err != nil {
		// Lost a race against a concurrent sign-up with the same username or email.
		if errors.Is(err, repository.ErrUsernameTaken) {
			authAttempts.WithLabelValues("sign_up", "conflict").Inc()
			return nil, nil, ErrUsernameTaken
		}
		if errors.Is(err, repository.ErrEmailInUse) {
			authAttempts.WithLabelValues("sign_up", "conflict").Inc()
			return nil, nil, ErrEmailInUse
		}

		s.logger.Sugar().Errorf("failed to create user(%s): %s", req.Username, err.Error())
		return nil, nil, ErrInternal
	}

	jwtPair, err := s.issue(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	authAttempts.WithLabelValues("sign_up", "ok").Inc()
	return user, jwtPair, nil
}

func (s *authService) SignIn(ctx context.Context, req dto.SignInRequest) (*model.User, *utils.JWTPair, error) {
	if err := validateSignIn(req); err != nil {
		authAttempts.WithLabelValues("sign_in", "invalid").Inc()
		return nil, nil, err
	}

	var (
		user *model.User
		err  error
	)
	if strings.Contains(req.EmailOrUsername, "@") {
		user, err = s.repo.Users.FindByEmail(ctx, req.EmailOrUsername)
		if errors.Is(err, repository.ErrNotFound) {
			authAttempts.WithLabelValues("sign_in", "denied").Inc()
			return nil, nil, ErrInvalidCredentials
		}
	} else {
		user, err = s.repo.Users.FindByUsername(ctx, req.EmailOrUsername)
		if errors.Is(err, repository.ErrNotFound) {
			authAttempts.WithLabelValues("sign_in", "denied").Inc()
			return nil, nil, ErrNoUserWithUsername
		}
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user(%s): %s", req.EmailOrUsername, err.Error())
		return nil, nil, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		authAttempts.WithLabelValues("sign_in", "denied").Inc()
		return nil, nil, ErrInvalidCredentials
	}

	jwtPair, err := s.issue(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	authAttempts.WithLabelValues("sign_in", "ok").Inc()
	return user, jwtPair, nil
}

// issue signs a token pair and records the refresh token as a live session.
func (s *authService) issue(ctx context.Context, uid string) (*utils.JWTPair, error) {
	jwtPair, err := utils.GenerateJWTPair(utils.GenerateJWTPairDto{
		Method:       jwt.SigningMethodHS256,
		AccessSecret: s.opts.AccessSecret,
		AccessClaims: jwt.MapClaims{
			utils.ClaimUserID: uid,
		},
		AccessExpiry:  s.opts.AccessExpiry,
		RefreshSecret: s.opts.RefreshSecret,
		RefreshClaims: jwt.MapClaims{
			utils.ClaimUserID: uid,
		},
		RefreshExpiry: s.opts.RefreshExpiry,
	})
	if err != nil {
		s.logger.Sugar().Errorf("failed to generate jwt pair: %s", err.Error())
		return nil, ErrInternal
	}

	sessionKey := redisrepo.SessionKey(uid, jwtPair.RefreshTokenID)
	if err := s.repo.Redis.Default.Set(ctx, sessionKey, true, s.opts.RefreshExpiry); err != nil {
		s.logger.Sugar().Errorf("failed to set session(%s) in redis: %s", sessionKey, err.Error())
		return nil, ErrInternal
	}

	return jwtPair, nil
}

func (s *authService) decodeRefreshToken(refreshToken string) (string, string, error) {
	claims, err := utils.DecodeJWT(refreshToken, s.opts.RefreshSecret)
	if err != nil {
		return "", "", ErrUnauthorized
	}

	uid, err := utils.StringClaim(claims, utils.ClaimUserID)
	if err != nil {
		return "", "", ErrUnauthorized
	}
	tokenID, err := utils.StringClaim(claims, utils.ClaimTokenID)
	if err != nil {
		return "", "", ErrUnauthorized
	}

	return uid, tokenID, nil
}

func (s *authService) SignOut(ctx context.Context, refreshToken string) error {
	uid, tokenID, err := s.decodeRefreshToken(refreshToken)
	if err != nil {
		return err
	}

	if err := s.repo.Redis.Default.Del(ctx, redisrepo.SessionKey(uid, tokenID)).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete session of user(%s) from redis: %s", uid, err.Error())
		return ErrInternal
	}

	return nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*utils.JWTPair, error) {
	uid, tokenID, err := s.decodeRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	sessionKey := redisrepo.SessionKey(uid, tokenID)
	if _, err := s.repo.Redis.Default.Get(ctx, sessionKey).Bool(); err != nil {
		if err == redis.Nil {
			return nil, ErrUnauthorized
		}

		s.logger.Sugar().Errorf("failed to get session(%s) from redis: %s", sessionKey, err.Error())
		return nil, ErrInternal
	}

	if _, err := s.repo.Users.FindByID(ctx, uid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}

		s.logger.Sugar().Errorf("failed to find user(%s): %s", uid, err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Redis.Default.Del(ctx, sessionKey).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete session(%s) from redis: %s", sessionKey, err.Error())
		return nil, ErrInternal
	}

	return s.issue(ctx, uid)
}

func (s *authService) Authenticate(accessToken string) (string, error) {
	claims, err := utils.DecodeJWT(accessToken, s.opts.AccessSecret)
	if err != nil {
		return "", ErrUnauthorized
	}

	uid, err := utils.StringClaim(claims, utils.ClaimUserID)
	if err != nil {
		return "", ErrUnauthorized
	}
	return uid, nil
}

// Reauthenticate checks password against the stored credential of uid.
func (s *authService) Reauthenticate(ctx context.Context, uid string, password string) (*model.User, error) {
	user, err := s.repo.Users.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to find user(%s): %s", uid, err.Error())
		return nil, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		authAttempts.WithLabelValues("reauthenticate", "denied").Inc()
		return nil, ErrReauthFailed
	}

	return user, nil
}

func (s *authService) RevokeSessions(ctx context.Context, uid string) error {
	if err := s.repo.Redis.Default.DelPrefix(ctx, redisrepo.SessionPrefix(uid)); err != nil {
		s.logger.Sugar().Errorf("failed to revoke sessions of user(%s): %s", uid, err.Error())
		return ErrInternal
	}
	return nil
}
