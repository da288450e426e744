// Package handler provides the HTTP handlers for the blog API.
package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/nblog/service"
	"github.com/ncobase/ncore/logging/logger"
	"github.com/ncobase/ncore/net/resp"
)

// Handler aggregates all HTTP handlers.
type Handler struct {
	Post    *PostHandler
	Comment *CommentHandler
	User    *UserHandler
	Webhook *WebhookHandler
	logger  *logger.Logger
}

// NewHandler creates a new handler instance with all sub-handlers initialized.
func NewHandler(svc *service.Service, webhookSecret string, log *logger.Logger) *Handler {
	return &Handler{
		Post:    NewPostHandler(svc.Post, svc.Upload, log),
		Comment: NewCommentHandler(svc.Comment, log),
		User:    NewUserHandler(svc.User, log),
		Webhook: NewWebhookHandler(svc.Webhook, webhookSecret, log),
		logger:  log,
	}
}

// RegisterRoutes registers all HTTP routes. Paths match the contract the
// frontend was built against, so there is no version prefix.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	posts := r.Group("/posts")
	{
		posts.GET("", h.Post.List)
		posts.GET("/upload-auth", h.Post.UploadAuth)
		posts.GET("/:slug", h.Post.Get)
		posts.POST("", h.Post.Create)
		posts.DELETE("/:id", h.Post.Delete)
		posts.PATCH("/feature", h.Post.Feature)
	}

	comments := r.Group("/comments")
	{
		comments.GET("/:postId", h.Comment.List)
		comments.POST("/:postId", h.Comment.Add)
		comments.DELETE("/:id", h.Comment.Delete)
	}

	users := r.Group("/users")
	{
		users.GET("/saved", h.User.Saved)
		users.POST("/save", h.User.Save)
	}

	r.POST("/webhooks/identity", h.Webhook.Receive)
}

// fail maps a service error onto the response envelope. Unrecognized errors
// are logged and reported as server faults without leaking detail.
func fail(c *gin.Context, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		resp.Fail(c.Writer, resp.UnAuthorized(err.Error()))
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrResourceNotFound):
		resp.Fail(c.Writer, resp.NotFound(err.Error()))
	case errors.Is(err, service.ErrForbidden):
		resp.Fail(c.Writer, resp.Forbidden(err.Error()))
	case errors.Is(err, service.ErrValidation):
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
	case errors.Is(err, service.ErrUpstreamVerification):
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
	default:
		log.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		resp.Fail(c.Writer, resp.InternalServer("something went wrong"))
	}
}
