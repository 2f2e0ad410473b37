package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nab23-dev/prompt-sci/internal/dto"
	"github.com/nab23-dev/prompt-sci/internal/feed"
	"github.com/nab23-dev/prompt-sci/internal/service"
)

var (
	errNotAuthorized        = errors.New("user is not authorized")
	errPostIDIsNotProvided  = errors.New("please provide post id")
	errInvalidRequestBody   = errors.New("invalid request body")
	errRefreshTokenRequired = errors.New("refresh token is required")
)

func statusFor(err error) int {
	switch {
	case service.IsValidationError(err),
		errors.Is(err, feed.ErrInvalidCursor),
		errors.Is(err, feed.ErrUnknownReaction):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrNoUserWithUsername),
		errors.Is(err, service.ErrReauthFailed),
		errors.Is(err, feed.ErrAuthRequired):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPostNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailInUse),
		errors.Is(err, feed.ErrLoadInFlight),
		errors.Is(err, feed.ErrFeedReset):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), dto.NewBasicResponse(false, err.Error()))
}
