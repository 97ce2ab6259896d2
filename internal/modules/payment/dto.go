package payment

import "github.com/shopspring/decimal"

type InitiatePackagePaymentRequest struct {
	Name           string `json:"name" binding:"required,max=255"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone" binding:"required,max=50"`
	EventStartDate string `json:"event_start_date" binding:"required"`
	EventEndDate   string `json:"event_end_date" binding:"required"`
	Guests         int    `json:"guests" binding:"required,min=1"`
	EventType      string `json:"event_type" binding:"omitempty,max=50"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
	PaymentMethod   string `json:"payment_method" binding:"required"`
}

// InitiatePaymentResponse is what the client needs to collect a payment method.
type InitiatePaymentResponse struct {
	OrderID         int64             `json:"order_id"`
	InquiryID       int64             `json:"inquiry_id,omitempty"`
	PaymentIntentID string            `json:"payment_intent_id"`
	ClientSecret    string            `json:"client_secret"`
	CustomerID      string            `json:"customer_id"`
	Amount          decimal.Decimal   `json:"amount"`
	Currency        string            `json:"currency"`
	Status          string            `json:"status"`
	Metadata        map[string]string `json:"metadata"`
}

// PaymentSummary describes a settled payment.
type PaymentSummary struct {
	OrderID       int64           `json:"order_id"`
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Date          string          `json:"date"`
	Time          string          `json:"time"`
	PaymentMethod string          `json:"payment_method"`
	Product       string          `json:"product"`
	Customer      string          `json:"customer"`
	Status        string          `json:"status"`
}
