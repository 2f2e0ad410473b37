package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nab23-dev/prompt-sci/internal/dto"
)

func (h *Handler) postIDMiddleware(c *gin.Context) {
	postID := strings.TrimSpace(c.Param("postID"))
	if postID == "" {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errPostIDIsNotProvided.Error()))
		c.Abort()
		return
	}

	c.Set("postID", postID)

	c.Next()
}
