package order

import (
	"time"

	"github.com/shopspring/decimal"

	"weddingmarket/internal/domain"
)

type OrderSummary struct {
	ID              int64           `json:"id"`
	ServiceBooked   string          `json:"service_booked"`
	ItemID          int64           `json:"item_id"`
	Product         string          `json:"product"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`
	PaymentIntentID string          `json:"payment_intent_id"`
	CreatedAt       time.Time       `json:"created_at"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
}

type TemplateInfo struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
}

type PackageInfo struct {
	ID           int64           `json:"id"`
	ServiceTitle string          `json:"service_title"`
	Location     string          `json:"location"`
	Price        decimal.Decimal `json:"price"`
}

type EventInfo struct {
	InquiryID int64  `json:"inquiry_id"`
	StartDate string `json:"event_start_date"`
	EndDate   string `json:"event_end_date"`
	Guests    int    `json:"guests"`
	EventType string `json:"event_type"`
	Status    string `json:"status"`
}

type OrderDetail struct {
	OrderSummary
	CustomerID string        `json:"customer_id"`
	FailedAt   *time.Time    `json:"failed_at,omitempty"`
	Template   *TemplateInfo `json:"template,omitempty"`
	Package    *PackageInfo  `json:"package,omitempty"`
	Event      *EventInfo    `json:"event,omitempty"`
}

func toSummary(o *domain.Order) OrderSummary {
	return OrderSummary{
		ID:              o.ID,
		ServiceBooked:   string(o.ServiceBooked),
		ItemID:          o.ItemID(),
		Product:         o.Metadata.Product(),
		Amount:          o.Amount,
		Currency:        o.Currency,
		Status:          string(o.Status),
		PaymentIntentID: o.PaymentIntentID,
		CreatedAt:       o.CreatedAt,
		CompletedAt:     o.CompletedAt,
	}
}
