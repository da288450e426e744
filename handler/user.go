package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ncobase/nblog/service"
	"github.com/ncobase/ncore/logging/logger"
	"github.com/ncobase/ncore/net/resp"
)

// UserHandler handles HTTP requests for the caller's saved posts.
type UserHandler struct {
	svc    *service.UserService
	logger *logger.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc *service.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: log,
	}
}

// Saved returns the caller's saved-post id list.
func (h *UserHandler) Saved(c *gin.Context) {
	saved, err := h.svc.SavedPosts(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	resp.Success(c.Writer, saved)
}

// Save toggles a post in the caller's saved set.
func (h *UserHandler) Save(c *gin.Context) {
	var req service.SavePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	action, err := h.svc.ToggleSavedPost(c.Request.Context(), &req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	resp.Success(c.Writer, string(action))
}
