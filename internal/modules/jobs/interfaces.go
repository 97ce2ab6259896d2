package jobs

import (
	"context"
	"time"

	"weddingmarket/internal/domain"
)

type JobRepository interface {
	CreatePost(ctx context.Context, p *domain.JobPost) error
	GetPost(ctx context.Context, id int64) (*domain.JobPost, error)
	ListPosts(ctx context.Context, status domain.JobPostStatus, limit, offset int) ([]domain.JobPost, int64, error)
	ExpirePosts(ctx context.Context, now time.Time) ([]int64, error)
	CreateApplication(ctx context.Context, a *domain.JobApplication) error
	GetApplication(ctx context.Context, id int64) (*domain.JobApplication, error)
	ListApplications(ctx context.Context, status domain.ApplicationStatus, limit, offset int) ([]domain.JobApplication, int64, error)
	UpdateApplicationStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
