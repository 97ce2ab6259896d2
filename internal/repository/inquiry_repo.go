package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"weddingmarket/internal/domain"
)

type InquiryRepository struct {
	db *gorm.DB
}

func NewInquiryRepository(db *gorm.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

type InquiryFilter struct {
	Status domain.InquiryStatus
	Limit  int
	Offset int
}

func (r *InquiryRepository) Create(ctx context.Context, tx *gorm.DB, i *domain.PackageInquiry) error {
	return conn(ctx, r.db, tx).Omit("Package", "Order", "Staff").Create(i).Error
}

func (r *InquiryRepository) GetByID(ctx context.Context, id int64) (*domain.PackageInquiry, error) {
	var i domain.PackageInquiry
	if err := r.db.WithContext(ctx).First(&i, id).Error; err != nil {
		return nil, err
	}
	return &i, nil
}

// CompletedRanges returns the event ranges of inquiries on packageID whose
// order is Completed. excludeOrderID skips one order.
func (r *InquiryRepository) CompletedRanges(ctx context.Context, tx *gorm.DB, packageID, excludeOrderID int64) ([]domain.DateRange, error) {
	var rows []struct {
		EventStartDate time.Time
		EventEndDate   time.Time
	}

	q := conn(ctx, r.db, tx).
		Table("package_inquiries").
		Select("package_inquiries.event_start_date, package_inquiries.event_end_date").
		Joins("JOIN orders ON orders.package_inquiry_id = package_inquiries.id").
		Where("package_inquiries.package_id = ? AND orders.status = ?", packageID, domain.OrderCompleted)
	if excludeOrderID > 0 {
		q = q.Where("orders.id <> ?", excludeOrderID)
	}
	if err := q.Order("package_inquiries.event_start_date ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.DateRange, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.DateRange{
			Start: domain.TruncateDay(row.EventStartDate),
			End:   domain.TruncateDay(row.EventEndDate),
		})
	}
	return out, nil
}

// ListCompleted lists inquiries whose order is Completed, newest first.
func (r *InquiryRepository) ListCompleted(ctx context.Context, f InquiryFilter) ([]domain.PackageInquiry, int64, error) {
	limit, offset := NormalizePage(f.Limit, f.Offset)

	base := r.db.WithContext(ctx).
		Model(&domain.PackageInquiry{}).
		Joins("JOIN orders ON orders.package_inquiry_id = package_inquiries.id AND orders.status = ?", domain.OrderCompleted)
	if f.Status != "" {
		base = base.Where("package_inquiries.status = ?", f.Status)
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.PackageInquiry
	err := base.
		Preload("Package").
		Preload("Order").
		Preload("Staff").
		Order("package_inquiries.created_at DESC, package_inquiries.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *InquiryRepository) GetDetail(ctx context.Context, id int64) (*domain.PackageInquiry, error) {
	var i domain.PackageInquiry
	err := r.db.WithContext(ctx).
		Preload("Package").
		Preload("Order").
		Preload("Staff.Photographer").
		Preload("Staff.Decorator").
		Preload("Staff.Catering").
		First(&i, id).Error
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *InquiryRepository) UpdateStatus(ctx context.Context, id int64, status domain.InquiryStatus) error {
	res := r.db.WithContext(ctx).
		Model(&domain.PackageInquiry{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
