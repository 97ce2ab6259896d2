package payment

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"weddingmarket/internal/middleware"
	"weddingmarket/internal/pkg/apperror"
	"weddingmarket/internal/pkg/response"
	"weddingmarket/internal/pkg/validator"
)

// Stripe event payloads stay well below this.
const maxWebhookBody = 65536

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/template/:id/payment", h.InitiateTemplatePayment)
	rg.POST("/template/:id/confirm-payment", h.ConfirmTemplatePayment)
	rg.POST("/package/:id/payment", h.InitiatePackagePayment)
	rg.POST("/package/:id/confirm-payment", h.ConfirmPackagePayment)
}

func (h *Handler) RegisterWebhookRoutes(rg *gin.RouterGroup) {
	rg.POST("/stripe/webhook", h.Webhook)
	rg.POST("/webhook", h.Webhook)
}

// InitiateTemplatePayment godoc
// @Summary      Start a template purchase
// @Tags         Payments
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "Template ID"
// @Success      201 {object} InitiatePaymentResponse
// @Router       /template/{id}/payment [post]
func (h *Handler) InitiateTemplatePayment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	resp, err := h.service.InitiateTemplatePayment(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Payment intent created", resp)
}

// InitiatePackagePayment godoc
// @Summary      Start a package booking
// @Tags         Payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path int true "Package ID"
// @Param        body body InitiatePackagePaymentRequest true "Event details"
// @Success      201 {object} InitiatePaymentResponse
// @Router       /package/{id}/payment [post]
func (h *Handler) InitiatePackagePayment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req InitiatePackagePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.FromBindError(err))
		return
	}

	resp, err := h.service.InitiatePackagePayment(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Payment intent created", resp)
}

func (h *Handler) ConfirmTemplatePayment(c *gin.Context) {
	h.confirm(c, h.service.ConfirmTemplatePayment)
}

func (h *Handler) ConfirmPackagePayment(c *gin.Context) {
	h.confirm(c, h.service.ConfirmPackagePayment)
}

type confirmFunc func(ctx context.Context, userID, itemID int64, req ConfirmPaymentRequest) (*PaymentSummary, error)

func (h *Handler) confirm(c *gin.Context, fn confirmFunc) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.FromBindError(err))
		return
	}

	summary, err := fn(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment completed successfully", summary)
}

// Webhook godoc
// @Summary      Stripe webhook
// @Description  Verifies Stripe-Signature and reconciles order status
// @Tags         Payments
// @Accept       json
// @Produce      json
// @Success      200 {object} map[string]bool
// @Router       /stripe/webhook [post]
func (h *Handler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		response.Error(c, apperror.Wrap(apperror.KindBadRequest, "Invalid webhook payload", err))
		return
	}

	if err := h.service.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Webhook received", gin.H{"received": true})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ValidationFailed(c, map[string]string{"id": "numeric"})
		return 0, false
	}
	return id, true
}
