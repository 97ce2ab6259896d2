package repository

import (
	"context"

	"gorm.io/gorm"

	"weddingmarket/internal/domain"
)

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) Create(ctx context.Context, t *domain.Template) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TemplateRepository) List(ctx context.Context) ([]domain.Template, error) {
	var out []domain.Template
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TemplateRepository) GetByID(ctx context.Context, id int64) (*domain.Template, error) {
	var t domain.Template
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TemplateRepository) Update(ctx context.Context, t *domain.Template) error {
	return r.db.WithContext(ctx).
		Model(&domain.Template{}).
		Where("id = ?", t.ID).
		Updates(map[string]any{"title": t.Title, "price": t.Price}).Error
}

type PackageRepository struct {
	db *gorm.DB
}

func NewPackageRepository(db *gorm.DB) *PackageRepository {
	return &PackageRepository{db: db}
}

func (r *PackageRepository) Create(ctx context.Context, p *domain.Package) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PackageRepository) Save(ctx context.Context, p *domain.Package) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PackageRepository) List(ctx context.Context, activeOnly bool) ([]domain.Package, error) {
	q := r.db.WithContext(ctx).Order("id ASC")
	if activeOnly {
		q = q.Where("active_status = ?", true)
	}
	var out []domain.Package
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PackageRepository) GetByID(ctx context.Context, id int64) (*domain.Package, error) {
	var p domain.Package
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// LockByID loads the package inside tx, holding its row lock on PostgreSQL
// until tx ends. Bookings for one package serialize on this row.
func (r *PackageRepository) LockByID(ctx context.Context, tx *gorm.DB, id int64) (*domain.Package, error) {
	var p domain.Package
	if err := forUpdate(conn(ctx, r.db, tx)).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}
