package catalog

import (
	"context"

	"weddingmarket/internal/domain"
)

type TemplateRepository interface {
	List(ctx context.Context) ([]domain.Template, error)
	GetByID(ctx context.Context, id int64) (*domain.Template, error)
	Update(ctx context.Context, t *domain.Template) error
}

type PackageRepository interface {
	Create(ctx context.Context, p *domain.Package) error
	Save(ctx context.Context, p *domain.Package) error
	List(ctx context.Context, activeOnly bool) ([]domain.Package, error)
	GetByID(ctx context.Context, id int64) (*domain.Package, error)
}
