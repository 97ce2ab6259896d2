package invitation

import (
	"strconv"

	"github.com/gin-gonic/gin"

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
	rg.POST("/orders/:id/rsvp", h.SubmitRSVP)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.PUT("/templates/:id/content", h.SaveContent)
	rg.GET("/templates/:id/content", h.GetContent)
	rg.GET("/templates/:id/rsvps", h.ListRSVPs)
	rg.GET("/rsvps/:id", h.GetRSVP)
}

// SaveContent godoc
// @Summary      Write the invitation text of a purchased template
// @Tags         Invitations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path int true "Template ID"
// @Router       /templates/{id}/content [put]
func (h *Handler) SaveContent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req SaveContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.FromBindError(err))
		return
	}
	content, err := h.service.SaveContent(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invitation content saved", content)
}

func (h *Handler) GetContent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	content, err := h.service.GetContent(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invitation content retrieved", content)
}

// SubmitRSVP godoc
// @Summary      Answer a wedding invitation
// @Tags         Invitations
// @Accept       json
// @Produce      json
// @Param        id path int true "Order ID"
// @Router       /orders/{id}/rsvp [post]
func (h *Handler) SubmitRSVP(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req SubmitRSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.FromBindError(err))
		return
	}
	rsvp, created, err := h.service.SubmitRSVP(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if created {
		response.Created(c, "RSVP submitted", rsvp)
		return
	}
	response.OK(c, "RSVP updated", rsvp)
}

// ListRSVPs godoc
// @Summary      List guest answers to an invitation
// @Tags         Invitations
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "Template ID"
// @Param        attendance query int false "1 attending, 0 declined"
// @Router       /templates/{id}/rsvps [get]
func (h *Handler) ListRSVPs(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var q ListRSVPsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ValidationFailed(c, validator.FromBindError(err))
		return
	}
	list, err := h.service.ListRSVPs(c.Request.Context(), middleware.UserID(c), id, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "RSVPs retrieved", list)
}

func (h *Handler) GetRSVP(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rsvp, err := h.service.GetRSVP(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "RSVP retrieved", rsvp)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ValidationFailed(c, map[string]string{"id": "numeric"})
		return 0, false
	}
	return id, true
}
