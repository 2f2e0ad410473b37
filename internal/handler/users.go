package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/nab23-dev/prompt-sci/internal/dto"
	"github.com/nab23-dev/prompt-sci/internal/model"
)

func (h *Handler) usersMe(c *gin.Context) {
	user := h.getUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.GetUserFromUser(*user))
}

func (h *Handler) usersUpdate(c *gin.Context) {
	user := h.getUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		return
	}

	var input dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidRequestBody.Error()))
		return
	}

	updated, err := h.services.User.UpdateAccount(c.Request.Context(), user.ID, input)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.GetUserFromUser(*updated))
}

func (h *Handler) usersDelete(c *gin.Context) {
	user := h.getUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		return
	}

	var input dto.DeleteAccountRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidRequestBody.Error()))
		return
	}

	if err := h.services.User.DeleteAccount(c.Request.Context(), user.ID, input); err != nil {
		fail(c, err)
		return
	}

	h.clearRefreshCookie(c)

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) usersMyPosts(c *gin.Context) {
	user := h.getUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		return
	}

	posts, err := h.services.Post.ListMine(c.Request.Context(), user.ID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PostsResponse{
		Ok: true,
		Posts: lo.Map(posts, func(p *model.Post, _ int) dto.Post {
			return dto.NewPost(*p, user.ID)
		}),
	})
}
