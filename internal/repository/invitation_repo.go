package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"weddingmarket/internal/domain"
)

type InvitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) GetContent(ctx context.Context, orderID int64) (*domain.InvitationContent, error) {
	var c domain.InvitationContent
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveContent inserts or replaces the content of c.OrderID and returns the
// stored row.
func (r *InvitationRepository) SaveContent(ctx context.Context, c *domain.InvitationContent) (*domain.InvitationContent, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"welcome_message", "description", "rsvp_date", "personal_name", "partner_name",
			"venue_name", "venue_address", "wedding_date", "wedding_time", "city", "updated_at",
		}),
	}).Create(c).Error
	if err != nil {
		return nil, err
	}
	return r.GetContent(ctx, c.OrderID)
}

// UpsertRSVP stores rsvp, replacing an earlier answer from the same guest email
// on the same order. It reports whether a new row was created.
func (r *InvitationRepository) UpsertRSVP(ctx context.Context, rsvp *domain.RSVP) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.RSVP
		err := tx.Where("order_id = ? AND guest_email = ?", rsvp.OrderID, rsvp.GuestEmail).First(&existing).Error
		if IsNotFound(err) {
			created = true
			return tx.Omit("Order").Create(rsvp).Error
		}
		if err != nil {
			return err
		}

		err = tx.Model(&domain.RSVP{}).
			Where("id = ?", existing.ID).
			Updates(map[string]any{
				"guest_name":   rsvp.GuestName,
				"guest_phone":  rsvp.GuestPhone,
				"bring_guests": rsvp.BringGuests,
				"attendance":   rsvp.Attendance,
			}).Error
		if err != nil {
			return err
		}
		return tx.First(rsvp, existing.ID).Error
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *InvitationRepository) GetRSVP(ctx context.Context, id int64) (*domain.RSVP, error) {
	var rsvp domain.RSVP
	if err := r.db.WithContext(ctx).Preload("Order").First(&rsvp, id).Error; err != nil {
		return nil, err
	}
	return &rsvp, nil
}

// ListRSVPs pages the answers to one order, newest first. A nil attendance
// lists every answer.
func (r *InvitationRepository) ListRSVPs(ctx context.Context, orderID int64, attendance *domain.Attendance, limit, offset int) ([]domain.RSVP, int64, error) {
	limit, offset = NormalizePage(limit, offset)

	base := r.db.WithContext(ctx).Model(&domain.RSVP{}).Where("order_id = ?", orderID)
	if attendance != nil {
		base = base.Where("attendance = ?", *attendance)
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.RSVP
	if err := base.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// AttendanceCounts returns how many guests of an order answered each way.
func (r *InvitationRepository) AttendanceCounts(ctx context.Context, orderID int64) (map[domain.Attendance]int64, error) {
	var rows []struct {
		Attendance domain.Attendance
		Total      int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.RSVP{}).
		Select("attendance, COUNT(*) AS total").
		Where("order_id = ?", orderID).
		Group("attendance").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[domain.Attendance]int64, len(rows))
	for _, row := range rows {
		out[row.Attendance] = row.Total
	}
	return out, nil
}
