package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/nblog/service"
	"github.com/ncobase/ncore/logging/logger"
	"github.com/ncobase/ncore/net/resp"
)

// CommentHandler handles HTTP requests for comments.
type CommentHandler struct {
	svc    *service.CommentService
	logger *logger.Logger
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(svc *service.CommentService, log *logger.Logger) *CommentHandler {
	return &CommentHandler{
		svc:    svc,
		logger: log,
	}
}

// List handles comment listing for a post, newest first.
func (h *CommentHandler) List(c *gin.Context) {
	comments, err := h.svc.ListByPost(c.Request.Context(), c.Param("postId"))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	resp.Success(c.Writer, comments)
}

// Add handles comment creation.
func (h *CommentHandler) Add(c *gin.Context) {
	var req service.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	comment, err := h.svc.AddComment(c.Request.Context(), c.Param("postId"), &req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	resp.WithStatusCode(c.Writer, http.StatusCreated, comment)
}

// Delete handles comment deletion.
func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteComment(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.logger, err)
		return
	}
	resp.Success(c.Writer, "Comment deleted successfully")
}
