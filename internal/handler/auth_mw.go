package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nab23-dev/prompt-sci/internal/dto"
	"github.com/nab23-dev/prompt-sci/internal/service"
)

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// authMiddleware loads the user named by the bearer access token into the
// "user" context key.
func (h *Handler) authMiddleware(c *gin.Context) {
	accessToken := bearerToken(c)
	if accessToken == "" {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		c.Abort()
		return
	}

	uid, err := h.services.Auth.Authenticate(accessToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		c.Abort()
		return
	}

	user, err := h.services.User.FindByID(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		} else {
			c.JSON(http.StatusInternalServerError, dto.NewBasicResponse(false, err.Error()))
		}
		c.Abort()
		return
	}

	c.Set("user", *user)

	c.Next()
}
