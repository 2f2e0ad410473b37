package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nab23-dev/prompt-sci/internal/dto"
	"github.com/nab23-dev/prompt-sci/internal/model"
	"github.com/nab23-dev/prompt-sci/internal/service"
)

type Options struct {
	ClientOrigin string
	CookieDomain string
	CookieSecure bool
	// Health reports whether the backing stores are reachable.
	Health func(ctx context.Context) error
}

type Handler struct {
	logger   *zap.Logger
	services *service.Service
	opts     Options
}

func New(logger *zap.Logger, services *service.Service, opts Options) *Handler {
	return &Handler{
		logger:   logger,
		services: services,
		opts:     opts,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), h.loggingMiddleware)

	if h.opts.ClientOrigin != "" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{h.opts.ClientOrigin},
			AllowMethods:     []string{"POST", "GET", "PATCH", "PUT", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/healthz", h.healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/sign-up", h.authSignUp)
			auth.POST("/sign-in", h.authSignIn)
			auth.POST("/refresh", h.authRefresh)
			auth.POST("/sign-out", h.authSignOut)
			auth.GET("/state", h.authState)
		}

		users := v1.Group("/users")
		{
			me := users.Group("/@me")
			{
				me.Use(h.authMiddleware)

				me.GET("", h.usersMe)
				me.PATCH("", h.usersUpdate)
				me.DELETE("", h.usersDelete)
				me.GET("/posts", h.usersMyPosts)
			}
		}

		posts := v1.Group("/posts")
		{
			posts.Use(h.authMiddleware)

			posts.POST("", h.postsSubmit)
			posts.DELETE("/:postID", h.postIDMiddleware, h.postsDelete)
			posts.PUT("/:postID/reaction", h.postIDMiddleware, h.postsReact)
		}

		feed := v1.Group("/feed")
		{
			feed.GET("/events", h.feedEvents)

			feed.Use(h.authMiddleware)
			feed.POST("/reset", h.feedReset)
			feed.POST("/next", h.feedNext)
			feed.GET("", h.feedSearch)
			feed.GET("/page", h.feedPage)
		}
	}

	return r
}

func (h *Handler) healthz(c *gin.Context) {
	if h.opts.Health != nil {
		if err := h.opts.Health(c.Request.Context()); err != nil {
			h.logger.Sugar().Warnf("health check failed: %s", err.Error())
			c.JSON(http.StatusServiceUnavailable, dto.NewBasicResponse(false, err.Error()))
			return
		}
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) getUser(c *gin.Context) *model.User {
	userReq, _ := c.Get("user")

	user, ok := userReq.(model.User)
	if !ok {
		return nil
	}

	return &user
}
