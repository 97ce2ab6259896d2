package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"weddingmarket/internal/domain"
)

type StaffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// GetByInquiry returns the assignment row or nil when none exists yet.
func (r *StaffRepository) GetByInquiry(ctx context.Context, tx *gorm.DB, inquiryID int64) (*domain.PackageInquireStaff, error) {
	var s domain.PackageInquireStaff
	err := conn(ctx, r.db, tx).Where("package_inquiry_id = ?", inquiryID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StaffRepository) Save(ctx context.Context, tx *gorm.DB, s *domain.PackageInquireStaff) error {
	db := conn(ctx, r.db, tx).Omit("Photographer", "Decorator", "Catering")
	if s.ID == 0 {
		return db.Create(s).Error
	}
	return db.Model(&domain.PackageInquireStaff{}).
		Where("id = ?", s.ID).
		Updates(map[string]any{
			"photographer_application_id": s.PhotographerApplicationID,
			"decorator_application_id":    s.DecoratorApplicationID,
			"catering_application_id":     s.CateringApplicationID,
		}).Error
}
