package order

import (
	"context"

	"weddingmarket/internal/domain"
)

type OrderRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	GetForUser(ctx context.Context, id, userID int64) (*domain.Order, error)
}

type TemplateReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Template, error)
}

type PackageReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Package, error)
}
