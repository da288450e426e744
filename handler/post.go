package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/nblog/service"
	"github.com/ncobase/nblog/structs"
	"github.com/ncobase/ncore/logging/logger"
	"github.com/ncobase/ncore/net/resp"
)

// PostHandler handles HTTP requests for posts.
type PostHandler struct {
	svc    *service.PostService
	upload *service.UploadService
	logger *logger.Logger
}

// NewPostHandler creates a new post handler.
func NewPostHandler(svc *service.PostService, upload *service.UploadService, log *logger.Logger) *PostHandler {
	return &PostHandler{
		svc:    svc,
		upload: upload,
		logger: log,
	}
}

// List handles the paginated, filterable post listing.
func (h *PostHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "2"))

	q := structs.PostQuery{
		Page:     page,
		Limit:    limit,
		Category: c.Query("cat"),
		Author:   c.Query("author"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
		Featured: c.Query("featured") != "",
	}

	pageResult, err := h.svc.ListPosts(c.Request.Context(), q)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	resp.Success(c.Writer, pageResult)
}

// Get handles single-post retrieval by slug.
func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.svc.GetPostBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	resp.Success(c.Writer, post)
}

// Create handles post creation.
func (h *PostHandler) Create(c *gin.Context) {
	var req service.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	post, err := h.svc.CreatePost(c.Request.Context(), &req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	resp.Success(c.Writer, post)
}

// Delete handles post deletion.
func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.svc.DeletePost(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.logger, err)
		return
	}
	resp.Success(c.Writer, "Post deleted successfully")
}

// Feature handles the admin-only featured flag toggle.
func (h *PostHandler) Feature(c *gin.Context) {
	var req service.FeaturePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	post, err := h.svc.FeaturePost(c.Request.Context(), &req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	resp.Success(c.Writer, post)
}

// UploadAuth hands out signed client-side upload parameters.
func (h *PostHandler) UploadAuth(c *gin.Context) {
	resp.Success(c.Writer, h.upload.AuthParams(c.Request.Context()))
}
