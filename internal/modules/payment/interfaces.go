package payment

import (
	"context"
	"time"

	"gorm.io/gorm"

	"weddingmarket/internal/domain"
	"weddingmarket/internal/gateway"
)

// Gateway is the payment provider as seen by the lifecycle.
type Gateway interface {
	CreateCustomer(ctx context.Context, req gateway.CreateCustomerRequest) (string, error)
	CreateIntent(ctx context.Context, req gateway.CreateIntentRequest) (*gateway.Intent, error)
	RetrieveIntent(ctx context.Context, id string) (*gateway.Intent, error)
	ConfirmIntent(ctx context.Context, id, paymentMethod string) (*gateway.Intent, error)
	CancelIntent(ctx context.Context, id string) error
	ParseWebhook(payload []byte, signature string) (*gateway.Event, error)
}

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, o *domain.Order) error
	FindByIntentID(ctx context.Context, tx *gorm.DB, intentID string) (*domain.Order, error)
	HasCompletedTemplateOrder(ctx context.Context, tx *gorm.DB, userID, templateID, excludeOrderID int64) (bool, error)
	TransitionStatus(ctx context.Context, tx *gorm.DB, orderID int64, from, to domain.OrderStatus, at time.Time) (bool, error)
}

type InquiryRepository interface {
	Create(ctx context.Context, tx *gorm.DB, i *domain.PackageInquiry) error
	CompletedRanges(ctx context.Context, tx *gorm.DB, packageID, excludeOrderID int64) ([]domain.DateRange, error)
}

type TemplateRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Template, error)
}

type PackageRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Package, error)
	LockByID(ctx context.Context, tx *gorm.DB, id int64) (*domain.Package, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type WebhookEventRepository interface {
	Exists(ctx context.Context, eventID string) (bool, error)
	MarkProcessed(ctx context.Context, eventID, eventType string) error
}
