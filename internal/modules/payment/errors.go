package payment

import "weddingmarket/internal/pkg/apperror"

var (
	ErrTemplateNotFound = apperror.New(apperror.KindNotFound, "Template not found")
	ErrPackageNotFound  = apperror.New(apperror.KindNotFound, "Package not found")
	ErrUserNotFound     = apperror.New(apperror.KindNotFound, "User not found")
	ErrOrderNotFound    = apperror.New(apperror.KindNotFound, "Order not found for this payment")
	ErrIntentNotFound   = apperror.New(apperror.KindNotFound, "Payment intent not found")

	ErrPackageInactive  = apperror.New(apperror.KindConflict, "Package is not available for booking")
	ErrAlreadyPurchased = apperror.New(apperror.KindConflict, "You have already purchased this template")
	ErrDatesUnavailable = apperror.New(apperror.KindConflict, "The selected dates are already booked for this package")
	ErrOrderFailed      = apperror.New(apperror.KindConflict, "Payment for this order has failed")

	ErrPaymentRejected   = apperror.New(apperror.KindGateway, "Payment was rejected by the payment provider")
	ErrPaymentIncomplete = apperror.New(apperror.KindGateway, "Payment requires further action")
	ErrGatewayDown       = apperror.New(apperror.KindGatewayUnavailable, "Payment provider is unavailable, please try again")

	ErrInvalidSignature = apperror.New(apperror.KindBadRequest, "Invalid webhook signature")
	ErrMalformedEvent   = apperror.New(apperror.KindBadRequest, "Malformed webhook event")
)
