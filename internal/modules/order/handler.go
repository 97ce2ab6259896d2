package order

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"weddingmarket/internal/middleware"
	"weddingmarket/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/orders", h.List)
	rg.GET("/orders/:id", h.Get)
}

// List godoc
// @Summary      Orders of the current user
// @Tags         Orders
// @Security     BearerAuth
// @Produce      json
// @Router       /orders [get]
func (h *Handler) List(c *gin.Context) {
	orders, err := h.service.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Orders retrieved", orders)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ValidationFailed(c, map[string]string{"id": "numeric"})
		return
	}
	detail, err := h.service.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Order retrieved", detail)
}
