package booking

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"weddingmarket/internal/domain"
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
	rg.GET("/package/:id/booked-dates", h.BookedDates)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/inquiries", h.ListInquiries)
	admin.GET("/inquiries/:id", h.GetInquiry)
	admin.PATCH("/inquiries/:id/status", h.UpdateStatus)
	admin.PUT("/inquiries/:id/staff", h.AssignStaff)
}

// BookedDates godoc
// @Summary      Booked dates of a package
// @Tags         Packages
// @Produce      json
// @Param        id path int true "Package ID"
// @Success      200 {object} BookedDatesResponse
// @Router       /package/{id}/booked-dates [get]
func (h *Handler) BookedDates(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.service.BookedDates(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Booked dates retrieved", resp)
}

func (h *Handler) ListInquiries(c *gin.Context) {
	var q ListInquiriesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ValidationFailed(c, validator.FromBindError(err))
		return
	}
	list, err := h.service.ListInquiries(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Inquiries retrieved", list)
}

func (h *Handler) GetInquiry(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	detail, err := h.service.GetInquiry(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Inquiry retrieved", detail)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.FromBindError(err))
		return
	}
	if err := h.service.UpdateStatus(c.Request.Context(), id, domain.InquiryStatus(req.Status)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Inquiry status updated", gin.H{"id": id, "status": req.Status})
}

func (h *Handler) AssignStaff(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req AssignStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.FromBindError(err))
		return
	}
	detail, err := h.service.AssignStaff(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Staff assigned", detail)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ValidationFailed(c, map[string]string{"id": "numeric"})
		return 0, false
	}
	return id, true
}
