package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"weddingmarket/internal/domain"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, tx *gorm.DB, o *domain.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	return conn(ctx, r.db, tx).Omit("Inquiry").Create(o).Error
}

func (r *OrderRepository) FindByIntentID(ctx context.Context, tx *gorm.DB, intentID string) (*domain.Order, error) {
	var o domain.Order
	err := conn(ctx, r.db, tx).
		Preload("Inquiry").
		Where("payment_intent_id = ?", intentID).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// CompletedTemplateOrder returns the order through which userID owns
// templateID.
func (r *OrderRepository) CompletedTemplateOrder(ctx context.Context, userID, templateID int64) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND template_id = ? AND status = ?", userID, templateID, domain.OrderCompleted).
		Order("id ASC").
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetForUser(ctx context.Context, id, userID int64) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).
		Preload("Inquiry").
		Where("id = ? AND user_id = ?", id, userID).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// HasCompletedTemplateOrder reports whether userID already owns templateID.
// excludeOrderID skips the order being completed.
func (r *OrderRepository) HasCompletedTemplateOrder(ctx context.Context, tx *gorm.DB, userID, templateID, excludeOrderID int64) (bool, error) {
	q := conn(ctx, r.db, tx).
		Model(&domain.Order{}).
		Where("user_id = ? AND template_id = ? AND status = ?", userID, templateID, domain.OrderCompleted)
	if excludeOrderID > 0 {
		q = q.Where("id <> ?", excludeOrderID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// TransitionStatus moves the order from -> to only if it is still in from.
// It reports whether this call performed the change.
func (r *OrderRepository) TransitionStatus(ctx context.Context, tx *gorm.DB, orderID int64, from, to domain.OrderStatus, at time.Time) (bool, error) {
	updates := map[string]any{
		"status":     to,
		"updated_at": at,
	}
	switch to {
	case domain.OrderCompleted:
		updates["completed_at"] = at
	case domain.OrderFailed:
		updates["failed_at"] = at
	}

	res := conn(ctx, r.db, tx).
		Model(&domain.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
