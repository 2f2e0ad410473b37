package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nab23-dev/prompt-sci/internal/dto"
	"github.com/nab23-dev/prompt-sci/pkg/utils"
)

const refreshTokenCookie = "refresh_token"

func (h *Handler) setRefreshCookie(c *gin.Context, tokenPair *utils.JWTPair) {
	c.SetCookie(refreshTokenCookie, tokenPair.RefreshToken, int(tokenPair.RefreshTokenExp.Seconds()), "/", h.opts.CookieDomain, h.opts.CookieSecure, true)
}

func (h *Handler) clearRefreshCookie(c *gin.Context) {
	c.SetCookie(refreshTokenCookie, "", -1, "/", h.opts.CookieDomain, h.opts.CookieSecure, true)
}

// refreshToken reads the refresh token from its cookie, falling back to the
// JSON body for clients without cookies.
func refreshToken(c *gin.Context) string {
	if token, err := c.Cookie(refreshTokenCookie); err == nil && token != "" {
		return token
	}

	var input dto.RefreshRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		return ""
	}
	return input.RefreshToken
}

func (h *Handler) authSignUp(c *gin.Context) {
	var input dto.SignUpRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidRequestBody.Error()))
		return
	}

	user, tokenPair, err := h.services.Auth.SignUp(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}

	h.setRefreshCookie(c, tokenPair)

	c.JSON(http.StatusCreated, dto.AuthResponse{Ok: true, AccessToken: tokenPair.AccessToken, User: dto.GetUserFromUser(*user)})
}

func (h *Handler) authSignIn(c *gin.Context) {
	var input dto.SignInRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidRequestBody.Error()))
		return
	}

	user, tokenPair, err := h.services.Auth.SignIn(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}

	h.setRefreshCookie(c, tokenPair)

	c.JSON(http.StatusOK, dto.AuthResponse{Ok: true, AccessToken: tokenPair.AccessToken, User: dto.GetUserFromUser(*user)})
}

func (h *Handler) authRefresh(c *gin.Context) {
	token := refreshToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errRefreshTokenRequired.Error()))
		return
	}

	tokenPair, err := h.services.Auth.Refresh(c.Request.Context(), token)
	if err != nil {
		fail(c, err)
		return
	}

	h.setRefreshCookie(c, tokenPair)

	c.JSON(http.StatusCreated, dto.RefreshResponse{Ok: true, AccessToken: tokenPair.AccessToken})
}

func (h *Handler) authSignOut(c *gin.Context) {
	token := refreshToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errRefreshTokenRequired.Error()))
		return
	}

	if err := h.services.Auth.SignOut(c.Request.Context(), token); err != nil {
		fail(c, err)
		return
	}

	h.clearRefreshCookie(c)

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

// authState never fails: a missing or invalid token reports a null uid.
func (h *Handler) authState(c *gin.Context) {
	var resp dto.AuthStateResponse

	if accessToken := bearerToken(c); accessToken != "" {
		if uid, err := h.services.Auth.Authenticate(accessToken); err == nil {
			if _, err := h.services.User.FindByID(c.Request.Context(), uid); err == nil {
				resp.UID = &uid
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}
