package booking

import (
	"context"

	"gorm.io/gorm"

	"weddingmarket/internal/domain"
	"weddingmarket/internal/repository"
)

type InquiryRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.PackageInquiry, error)
	CompletedRanges(ctx context.Context, tx *gorm.DB, packageID, excludeOrderID int64) ([]domain.DateRange, error)
	ListCompleted(ctx context.Context, f repository.InquiryFilter) ([]domain.PackageInquiry, int64, error)
	GetDetail(ctx context.Context, id int64) (*domain.PackageInquiry, error)
	UpdateStatus(ctx context.Context, id int64, status domain.InquiryStatus) error
}

type PackageReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Package, error)
}

type StaffRepository interface {
	GetByInquiry(ctx context.Context, tx *gorm.DB, inquiryID int64) (*domain.PackageInquireStaff, error)
	Save(ctx context.Context, tx *gorm.DB, s *domain.PackageInquireStaff) error
}

type ApplicationReader interface {
	ApprovedApplications(ctx context.Context, tx *gorm.DB, ids []int64) (map[int64]domain.JobApplication, error)
}
