package jobs

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"weddingmarket/internal/domain"
	"weddingmarket/internal/middleware"
	"weddingmarket/internal/pkg/response"
	"weddingmarket/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/jobs", h.ListPosts)
	rg.GET("/jobs/:id", h.GetPost)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs/:id/apply", h.Apply)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.POST("/jobs", h.CreatePost)
	admin.GET("/job-applications", h.ListApplications)
	admin.PATCH("/job-applications/:id/status", h.UpdateApplicationStatus)
}

// ListPosts godoc
// @Summary      List job posts
// @Tags         Jobs
// @Produce      json
// @Param        status query string false "Active or Inactive"
// @Router       /jobs [get]
func (h *Handler) ListPosts(c *gin.Context) {
	var q ListPostsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ValidationFailed(c, validator.FromBindError(err))
		return
	}
	page, err := h.service.ListPosts(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Job posts retrieved", page)
}

func (h *Handler) GetPost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.service.GetPost(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Job post retrieved", p)
}

func (h *Handler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.FromBindError(err))
		return
	}
	p, err := h.service.CreatePost(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Job post created", p)
}

// Apply godoc
// @Summary      Apply for a job post
// @Tags         Jobs
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path int true "Job post ID"
// @Router       /jobs/{id}/apply [post]
func (h *Handler) Apply(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.FromBindError(err))
		return
	}
	a, err := h.service.Apply(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Application submitted", a)
}

func (h *Handler) ListApplications(c *gin.Context) {
	var q ListApplicationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ValidationFailed(c, validator.FromBindError(err))
		return
	}
	page, err := h.service.ListApplications(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Job applications retrieved", page)
}

func (h *Handler) UpdateApplicationStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.FromBindError(err))
		return
	}
	a, err := h.service.UpdateApplicationStatus(c.Request.Context(), id, domain.ApplicationStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Application status updated", a)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ValidationFailed(c, map[string]string{"id": "numeric"})
		return 0, false
	}
	return id, true
}
