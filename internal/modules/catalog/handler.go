package catalog

import (
	"strconv"

	"github.com/gin-gonic/gin"

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
	rg.GET("/templates", h.ListTemplates)
	rg.GET("/templates/:id", h.GetTemplate)
	rg.GET("/packages", h.ListPackages)
	rg.GET("/packages/:id", h.GetPackage)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.PUT("/templates/:id", h.UpdateTemplate)
	admin.GET("/packages", h.ListAllPackages)
	admin.POST("/packages", h.CreatePackage)
	admin.PUT("/packages/:id", h.UpdatePackage)
}

// ListTemplates godoc
// @Summary      List invitation templates
// @Tags         Templates
// @Produce      json
// @Router       /templates [get]
func (h *Handler) ListTemplates(c *gin.Context) {
	list, err := h.service.ListTemplates(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Templates retrieved", list)
}

func (h *Handler) GetTemplate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	t, err := h.service.GetTemplate(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Template retrieved", t)
}

func (h *Handler) UpdateTemplate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.FromBindError(err))
		return
	}
	t, err := h.service.UpdateTemplate(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Template updated", t)
}

// ListPackages godoc
// @Summary      List bookable packages
// @Tags         Packages
// @Produce      json
// @Router       /packages [get]
func (h *Handler) ListPackages(c *gin.Context) {
	h.listPackages(c, false)
}

func (h *Handler) ListAllPackages(c *gin.Context) {
	h.listPackages(c, c.Query("all") != "false")
}

func (h *Handler) listPackages(c *gin.Context, all bool) {
	list, err := h.service.ListPackages(c.Request.Context(), all)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Packages retrieved", list)
}

func (h *Handler) GetPackage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.service.GetPackage(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Package retrieved", p)
}

func (h *Handler) CreatePackage(c *gin.Context) {
	var req CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.FromBindError(err))
		return
	}
	p, err := h.service.CreatePackage(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Package created", p)
}

func (h *Handler) UpdatePackage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.FromBindError(err))
		return
	}
	p, err := h.service.UpdatePackage(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Package updated", p)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ValidationFailed(c, map[string]string{"id": "numeric"})
		return 0, false
	}
	return id, true
}
