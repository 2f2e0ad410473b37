package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nab23-dev/prompt-sci/internal/dto"
)

func (h *Handler) postsSubmit(c *gin.Context) {
	user := h.getUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		return
	}

	var input dto.SubmitPostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidRequestBody.Error()))
		return
	}

	post, err := h.services.Post.Submit(c.Request.Context(), user.ID, input)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.PostResponse{Ok: true, Post: dto.NewPost(*post, user.ID)})
}

func (h *Handler) postsDelete(c *gin.Context) {
	user := h.getUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		return
	}

	if err := h.services.Post.Delete(c.Request.Context(), user.ID, c.GetString("postID")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) postsReact(c *gin.Context) {
	user := h.getUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		return
	}

	var input dto.ReactRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidRequestBody.Error()))
		return
	}

	post, err := h.services.Post.React(c.Request.Context(), user.ID, c.GetString("postID"), input.Kind)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PostResponse{Ok: true, Post: dto.NewPost(*post, user.ID)})
}
