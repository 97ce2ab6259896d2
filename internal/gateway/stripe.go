package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Timeout       time.Duration
	// BaseURL overrides the API host, used against stripe-mock and in tests.
	BaseURL string
}

// Stripe talks to the Stripe API through one client built at startup.
type Stripe struct {
	api           *client.API
	webhookSecret string
}

func NewStripe(cfg StripeConfig, log *zap.Logger) *Stripe {
	if log == nil {
		log = zap.NewNop()
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}

	backendConfig := func() *stripe.BackendConfig {
		bc := &stripe.BackendConfig{
			HTTPClient:        httpClient,
			LeveledLogger:     log.Named("stripe").Sugar(),
			MaxNetworkRetries: stripe.Int64(0),
			EnableTelemetry:   stripe.Bool(false),
		}
		if cfg.BaseURL != "" {
			bc.URL = stripe.String(cfg.BaseURL)
		}
		return bc
	}

	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig()),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendConfig()),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendConfig()),
	}

	return &Stripe{
		api:           client.New(cfg.SecretKey, backends),
		webhookSecret: cfg.WebhookSecret,
	}
}

func (s *Stripe) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (string, error) {
	params := &stripe.CustomerParams{
		Name:  stripe.String(req.Name),
		Email: stripe.String(req.Email),
	}
	params.Context = ctx

	c, err := s.api.Customers.New(params)
	if err != nil {
		return "", classify(err)
	}
	return c.ID, nil
}

func (s *Stripe) CreateIntent(ctx context.Context, req CreateIntentRequest) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.AmountMinor),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	if req.CustomerID != "" {
		params.Customer = stripe.String(req.CustomerID)
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, classify(err)
	}
	return toIntent(pi), nil
}

func (s *Stripe) RetrieveIntent(ctx context.Context, id string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, classify(err)
	}
	return toIntent(pi), nil
}

// ConfirmIntent confirms with paymentMethod, or with whatever is already
// attached to the intent when paymentMethod is empty.
func (s *Stripe) ConfirmIntent(ctx context.Context, id, paymentMethod string) (*Intent, error) {
	params := &stripe.PaymentIntentConfirmParams{}
	if paymentMethod != "" {
		params.PaymentMethod = stripe.String(paymentMethod)
	}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.Confirm(id, params)
	if err != nil {
		return nil, classify(err)
	}
	return toIntent(pi), nil
}

func (s *Stripe) CancelIntent(ctx context.Context, id string) error {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx

	if _, err := s.api.PaymentIntents.Cancel(id, params); err != nil {
		return classify(err)
	}
	return nil
}

// ParseWebhook verifies the Stripe-Signature header against the raw body and
// decodes the event. Payment intent events carry the intent snapshot. The API
// version of the event is not checked.
func (s *Stripe) ParseWebhook(payload []byte, signature string) (*Event, error) {
	if err := webhook.ValidatePayloadWithTolerance(payload, signature, s.webhookSecret, webhook.DefaultTolerance); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	var ev stripe.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("%w: decode event: %v", ErrMalformedEvent, err)
	}
	if ev.ID == "" || ev.Type == "" {
		return nil, fmt.Errorf("%w: event id or type missing", ErrMalformedEvent)
	}

	out := &Event{ID: ev.ID, Type: EventType(ev.Type)}
	if strings.HasPrefix(string(ev.Type), "payment_intent.") && ev.Data != nil {
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(ev.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("%w: decode payment intent: %v", ErrMalformedEvent, err)
		}
		out.Intent = toIntent(&pi)
	}
	return out, nil
}

func toIntent(pi *stripe.PaymentIntent) *Intent {
	in := &Intent{
		ID:                 pi.ID,
		Status:             IntentStatus(pi.Status),
		AmountMinor:        pi.Amount,
		AmountReceived:     pi.AmountReceived,
		Currency:           string(pi.Currency),
		ClientSecret:       pi.ClientSecret,
		PaymentMethodTypes: pi.PaymentMethodTypes,
		Metadata:           pi.Metadata,
	}
	if pi.Created > 0 {
		in.Created = time.Unix(pi.Created, 0).UTC()
	}
	if pi.Customer != nil {
		in.CustomerID = pi.Customer.ID
	}
	return in
}

// classify maps Stripe client errors onto the package errors.
func classify(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		switch {
		case se.Code == stripe.ErrorCodeResourceMissing || se.HTTPStatusCode == http.StatusNotFound:
			return &Error{Kind: ErrIntentNotFound, Message: se.Msg}
		case se.HTTPStatusCode >= http.StatusInternalServerError || se.HTTPStatusCode == http.StatusTooManyRequests:
			return &Error{Kind: ErrUnavailable, Message: se.Msg}
		default:
			return &Error{Kind: ErrRejected, Message: se.Msg}
		}
	}
	return &Error{Kind: ErrUnavailable, Message: err.Error()}
}
