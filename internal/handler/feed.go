package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nab23-dev/prompt-sci/internal/dto"
	"github.com/nab23-dev/prompt-sci/internal/events"
	"github.com/nab23-dev/prompt-sci/internal/feed"
)

const sseHeartbeat = 15 * time.Second

func pageResponse(page *feed.Page, viewerID string) dto.FeedPageResponse {
	return dto.FeedPageResponse{
		Ok:         true,
		Posts:      dto.NewFeedPosts(page.Posts, viewerID),
		NextCursor: string(page.Next),
		Exhausted:  page.Exhausted,
	}
}

// feedReset activates the feed view: the session starts over and page one
// is loaded.
func (h *Handler) feedReset(c *gin.Context) {
	user := h.getUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		return
	}

	page, err := h.services.Feed.Reset(c.Request.Context(), user.ID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, pageResponse(page, user.ID))
}

func (h *Handler) feedNext(c *gin.Context) {
	user := h.getUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		return
	}

	page, err := h.services.Feed.Next(c.Request.Context(), user.ID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, pageResponse(page, user.ID))
}

func (h *Handler) feedPage(c *gin.Context) {
	user := h.getUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		return
	}

	page, err := h.services.Feed.Page(c.Request.Context(), feed.Cursor(c.Query("cursor")))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, pageResponse(page, user.ID))
}

// feedSearch filters what the viewer's session has loaded so far.
func (h *Handler) feedSearch(c *gin.Context) {
	user := h.getUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		return
	}

	term := c.Query("q")

	c.JSON(http.StatusOK, dto.FeedSearchResponse{
		Ok:    true,
		Term:  term,
		Posts: dto.NewFeedPosts(h.services.Feed.Search(user.ID, term), user.ID),
	})
}

// visible reports whether an event may be shown to anonymous feed viewers:
// only events about posts that are in the public feed.
func visible(event events.Event) bool {
	switch event.Type {
	case events.UserDeleted:
		return false
	case events.PostDeleted:
		return event.Post != nil && event.Post.Approved
	}
	return event.Post == nil || event.Post.Approved
}

// feedEvents streams post events as server-sent events until the client
// goes away or the broadcaster shuts down.
func (h *Handler) feedEvents(c *gin.Context) {
	ch, unsubscribe := h.services.Feed.Subscribe()
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	heartbeat := time.NewTicker(sseHeartbeat)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			c.SSEvent("ping", "")
		case event, ok := <-ch:
			if !ok {
				return
			}
			if !visible(event) {
				continue
			}
			c.SSEvent(string(event.Type), event)
		}
		c.Writer.Flush()
	}
}
