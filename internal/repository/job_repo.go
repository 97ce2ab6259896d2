package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"weddingmarket/internal/domain"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) CreatePost(ctx context.Context, p *domain.JobPost) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *JobRepository) GetPost(ctx context.Context, id int64) (*domain.JobPost, error) {
	var p domain.JobPost
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *JobRepository) ListPosts(ctx context.Context, status domain.JobPostStatus, limit, offset int) ([]domain.JobPost, int64, error) {
	limit, offset = NormalizePage(limit, offset)

	base := r.db.WithContext(ctx).Model(&domain.JobPost{})
	if status != "" {
		base = base.Where("status = ?", status)
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.JobPost
	if err := base.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ExpirePosts marks active posts whose deadline is before now as inactive and
// returns their ids.
func (r *JobRepository) ExpirePosts(ctx context.Context, now time.Time) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.JobPost{}).
			Where("status = ? AND application_deadline IS NOT NULL AND application_deadline < ?", domain.JobPostActive, now).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Model(&domain.JobPost{}).
			Where("id IN ?", ids).
			Updates(map[string]any{"status": domain.JobPostInactive, "updated_at": now}).Error
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *JobRepository) CreateApplication(ctx context.Context, a *domain.JobApplication) error {
	return r.db.WithContext(ctx).Omit("JobPost").Create(a).Error
}

func (r *JobRepository) GetApplication(ctx context.Context, id int64) (*domain.JobApplication, error) {
	var a domain.JobApplication
	if err := r.db.WithContext(ctx).Preload("JobPost").First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *JobRepository) ListApplications(ctx context.Context, status domain.ApplicationStatus, limit, offset int) ([]domain.JobApplication, int64, error) {
	limit, offset = NormalizePage(limit, offset)

	base := r.db.WithContext(ctx).Model(&domain.JobApplication{})
	if status != "" {
		base = base.Where("status = ?", status)
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.JobApplication
	err := base.Preload("JobPost").Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *JobRepository) UpdateApplicationStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error {
	res := r.db.WithContext(ctx).
		Model(&domain.JobApplication{}).
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

// ApprovedApplications returns the approved applications among ids, keyed by id.
func (r *JobRepository) ApprovedApplications(ctx context.Context, tx *gorm.DB, ids []int64) (map[int64]domain.JobApplication, error) {
	out := make(map[int64]domain.JobApplication, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []domain.JobApplication
	err := conn(ctx, r.db, tx).
		Where("id IN ? AND status = ?", ids, domain.ApplicationApproved).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, a := range rows {
		out[a.ID] = a
	}
	return out, nil
}
