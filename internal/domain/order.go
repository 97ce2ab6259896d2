package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderCompleted OrderStatus = "Completed"
	OrderFailed    OrderStatus = "Failed"
)

func (s OrderStatus) IsTerminal() bool {
	return s == OrderCompleted || s == OrderFailed
}

// CanTransitionTo allows only Pending -> Completed and Pending -> Failed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return s == OrderPending && next.IsTerminal()
}

type OrderKind string

const (
	OrderKindTemplate OrderKind = "Template"
	OrderKindPackage  OrderKind = "Package"
)

type Order struct {
	ID               int64           `gorm:"primaryKey" json:"id"`
	UserID           int64           `gorm:"index;not null" json:"user_id"`
	TemplateID       *int64          `gorm:"index" json:"template_id,omitempty"`
	PackageID        *int64          `gorm:"index" json:"package_id,omitempty"`
	PackageInquiryID *int64          `gorm:"index" json:"package_inquiry_id,omitempty"`
	ServiceBooked    OrderKind       `gorm:"type:varchar(20);not null" json:"service_booked"`
	Amount           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency         string          `gorm:"type:varchar(3);not null" json:"currency"`
	Status           OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentIntentID  string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"payment_intent_id"`
	CustomerID       string          `gorm:"type:varchar(255)" json:"customer_id"`
	Metadata         OrderMetadata   `gorm:"type:text" json:"metadata"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
	FailedAt         *time.Time      `json:"failed_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	Inquiry *PackageInquiry `gorm:"foreignKey:PackageInquiryID" json:"inquiry,omitempty"`
}

func (Order) TableName() string { return "orders" }

// Kind derives the order kind from which catalog reference is set.
func (o *Order) Kind() OrderKind {
	if o.PackageID != nil {
		return OrderKindPackage
	}
	return OrderKindTemplate
}

// ItemID is the template or package id the order was placed for.
func (o *Order) ItemID() int64 {
	if o.PackageID != nil {
		return *o.PackageID
	}
	if o.TemplateID != nil {
		return *o.TemplateID
	}
	return 0
}

// Validate enforces that exactly one catalog reference is set and matches
// the declared kind and metadata.
func (o *Order) Validate() error {
	if (o.TemplateID == nil) == (o.PackageID == nil) {
		return ErrOrderItemAmbiguous
	}
	if o.ServiceBooked != o.Kind() {
		return ErrOrderItemAmbiguous
	}
	if o.Kind() == OrderKindPackage && o.PackageInquiryID == nil {
		return ErrOrderItemAmbiguous
	}
	return o.Metadata.ValidateFor(o.Kind())
}
