package gateway

import (
	"errors"
	"time"
)

var (
	// ErrUnavailable means the provider could not be reached in time.
	ErrUnavailable = errors.New("payment provider unavailable")
	// ErrRejected means the provider answered and refused the request.
	ErrRejected = errors.New("payment provider rejected the request")
	// ErrIntentNotFound means the provider has no such intent.
	ErrIntentNotFound = errors.New("payment intent not found")
	// ErrInvalidSignature means a webhook payload failed verification.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrMalformedEvent means a verified webhook payload could not be decoded.
	ErrMalformedEvent = errors.New("malformed webhook event")
)

// Error carries the provider's message alongside one of the sentinels above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Kind.Error() + ": " + e.Message }

func (e *Error) Unwrap() error { return e.Kind }

type IntentStatus string

const (
	IntentRequiresPaymentMethod IntentStatus = "requires_payment_method"
	IntentRequiresConfirmation  IntentStatus = "requires_confirmation"
	IntentRequiresAction        IntentStatus = "requires_action"
	IntentProcessing            IntentStatus = "processing"
	IntentSucceeded             IntentStatus = "succeeded"
	IntentCanceled              IntentStatus = "canceled"
)

type EventType string

const (
	EventIntentSucceeded EventType = "payment_intent.succeeded"
	EventIntentFailed    EventType = "payment_intent.payment_failed"
	EventIntentCreated   EventType = "payment_intent.created"
)

type CreateCustomerRequest struct {
	Name  string
	Email string
}

type CreateIntentRequest struct {
	AmountMinor int64
	Currency    string
	CustomerID  string
	Description string
	Metadata    map[string]string
}

// Intent is the provider-neutral view of a payment intent.
type Intent struct {
	ID                 string
	Status             IntentStatus
	AmountMinor        int64
	AmountReceived     int64
	Currency           string
	CustomerID         string
	ClientSecret       string
	PaymentMethodTypes []string
	Metadata           map[string]string
	Created            time.Time
}

func (i *Intent) PaymentMethodType() string {
	if len(i.PaymentMethodTypes) == 0 {
		return ""
	}
	return i.PaymentMethodTypes[0]
}

type Event struct {
	ID     string
	Type   EventType
	Intent *Intent
}
