package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"weddingmarket/internal/domain"
	"weddingmarket/internal/pkg/apperror"
	"weddingmarket/internal/repository"
)

type Service struct {
	jobs  JobRepository
	users UserReader
	log   *zap.Logger
	now   func() time.Time
}

func NewService(jobs JobRepository, users UserReader, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{jobs: jobs, users: users, log: log.Named("jobs"), now: time.Now}
}

func (s *Service) ListPosts(ctx context.Context, q ListPostsQuery) (*Page[domain.JobPost], error) {
	limit, offset := repository.NormalizePage(q.Limit, q.Offset)
	items, total, err := s.jobs.ListPosts(ctx, domain.JobPostStatus(q.Status), limit, offset)
	if err != nil {
		return nil, internal(err)
	}
	if items == nil {
		items = []domain.JobPost{}
	}
	return &Page[domain.JobPost]{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *Service) GetPost(ctx context.Context, id int64) (*domain.JobPost, error) {
	p, err := s.jobs.GetPost(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrPostNotFound)
	}
	return p, nil
}

func (s *Service) CreatePost(ctx context.Context, req CreatePostRequest) (*domain.JobPost, error) {
	fields := map[string]string{}
	if !req.Budget.IsPositive() {
		fields["budget"] = "gt"
	}
	var deadline *time.Time
	if req.ApplicationDeadline != "" {
		d, err := domain.ParseDate(req.ApplicationDeadline)
		if err != nil {
			fields["application_deadline"] = "date"
		} else {
			// the deadline day stays open until its end
			end := d.Add(24*time.Hour - time.Nanosecond)
			deadline = &end
		}
	}
	if len(fields) > 0 {
		return nil, apperror.Validation(fields)
	}

	status := domain.JobPostActive
	if req.Status != "" {
		status = domain.JobPostStatus(req.Status)
	}
	p := &domain.JobPost{
		JobTitle:            req.JobTitle,
		Role:                req.Role,
		AboutJob:            req.AboutJob,
		Responsibilities:    listOrEmpty(req.Responsibilities),
		Requirements:        listOrEmpty(req.Requirements),
		Budget:              req.Budget.Round(2),
		Location:            req.Location,
		ApplicationDeadline: deadline,
		CoverImage:          req.CoverImage,
		Status:              status,
	}
	if err := s.jobs.CreatePost(ctx, p); err != nil {
		return nil, internal(err)
	}
	s.log.Info("job post created", zap.Int64("post_id", p.ID), zap.String("role", p.Role))
	return p, nil
}

// Apply files an application for userID. The role is copied from the post.
func (s *Service) Apply(ctx context.Context, userID, postID int64, req ApplyRequest) (*domain.JobApplication, error) {
	post, err := s.jobs.GetPost(ctx, postID)
	if err != nil {
		return nil, notFoundOr(err, ErrPostNotFound)
	}
	if !post.AcceptsApplications(s.now()) {
		return nil, ErrPostClosed
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound)
	}

	a := &domain.JobApplication{
		UserID:               userID,
		JobPostID:            post.ID,
		Role:                 post.Role,
		UserName:             firstNonEmpty(req.Name, user.Name),
		UserEmail:            firstNonEmpty(req.Email, user.Email),
		UserPhone:            req.Phone,
		PortfolioLink:        req.PortfolioLink,
		PortfolioDescription: req.PortfolioDescription,
		Status:               domain.ApplicationPending,
	}
	if err := s.jobs.CreateApplication(ctx, a); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadyApplied
		}
		return nil, internal(err)
	}

	s.log.Info("job application created",
		zap.Int64("application_id", a.ID),
		zap.Int64("post_id", post.ID),
		zap.Int64("user_id", userID),
	)
	return a, nil
}

func (s *Service) ListApplications(ctx context.Context, q ListApplicationsQuery) (*Page[domain.JobApplication], error) {
	limit, offset := repository.NormalizePage(q.Limit, q.Offset)
	items, total, err := s.jobs.ListApplications(ctx, domain.ApplicationStatus(q.Status), limit, offset)
	if err != nil {
		return nil, internal(err)
	}
	if items == nil {
		items = []domain.JobApplication{}
	}
	return &Page[domain.JobApplication]{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *Service) UpdateApplicationStatus(ctx context.Context, id int64, status domain.ApplicationStatus) (*domain.JobApplication, error) {
	if !status.Valid() {
		return nil, apperror.Validation(map[string]string{"status": "oneof"})
	}
	if err := s.jobs.UpdateApplicationStatus(ctx, id, status); err != nil {
		return nil, notFoundOr(err, ErrApplicationNotFound)
	}
	s.log.Info("job application status updated", zap.Int64("application_id", id), zap.String("status", string(status)))

	a, err := s.jobs.GetApplication(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrApplicationNotFound)
	}
	return a, nil
}

// ExpirePosts deactivates active posts whose deadline has passed.
func (s *Service) ExpirePosts(ctx context.Context) ([]int64, error) {
	ids, err := s.jobs.ExpirePosts(ctx, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		s.log.Info("job posts expired", zap.Int64s("post_ids", ids))
	}
	return ids, nil
}

func listOrEmpty(in []string) domain.JSONList[string] {
	if in == nil {
		return domain.JSONList[string]{}
	}
	return domain.JSONList[string](in)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func notFoundOr(err error, notFound *apperror.Error) error {
	if repository.IsNotFound(err) {
		return notFound
	}
	return internal(err)
}

func internal(err error) error {
	return apperror.Wrap(apperror.KindInternal, "Internal server error", err)
}
