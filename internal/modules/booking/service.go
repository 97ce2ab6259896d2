package booking

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"weddingmarket/internal/domain"
	"weddingmarket/internal/notification"
	"weddingmarket/internal/pkg/apperror"
	"weddingmarket/internal/repository"
)

type Service struct {
	db           *gorm.DB
	inquiries    InquiryRepository
	packages     PackageReader
	staff        StaffRepository
	applications ApplicationReader
	publisher    notification.Publisher
	log          *zap.Logger
}

func NewService(
	db *gorm.DB,
	inquiries InquiryRepository,
	packages PackageReader,
	staff StaffRepository,
	applications ApplicationReader,
	publisher notification.Publisher,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if publisher == nil {
		publisher = notification.NewLog(log)
	}
	return &Service{
		db:           db,
		inquiries:    inquiries,
		packages:     packages,
		staff:        staff,
		applications: applications,
		publisher:    publisher,
		log:          log.Named("booking"),
	}
}

// BookedDates lists every day covered by a completed booking of the package,
// sorted and without duplicates.
func (s *Service) BookedDates(ctx context.Context, packageID int64) (*BookedDatesResponse, error) {
	if _, err := s.packages.GetByID(ctx, packageID); err != nil {
		return nil, notFoundOr(err, ErrPackageNotFound)
	}

	ranges, err := s.inquiries.CompletedRanges(ctx, nil, packageID, 0)
	if err != nil {
		return nil, internal(err)
	}

	seen := make(map[string]struct{})
	dates := make([]string, 0)
	for _, r := range ranges {
		for _, day := range r.Days() {
			if _, ok := seen[day]; ok {
				continue
			}
			seen[day] = struct{}{}
			dates = append(dates, day)
		}
	}
	sort.Strings(dates)

	return &BookedDatesResponse{PackageID: packageID, BookedDates: dates}, nil
}

func (s *Service) ListInquiries(ctx context.Context, q ListInquiriesQuery) (*InquiryList, error) {
	limit, offset := repository.NormalizePage(q.Limit, q.Offset)
	f := repository.InquiryFilter{
		Status: domain.InquiryStatus(q.Status),
		Limit:  limit,
		Offset: offset,
	}
	items, total, err := s.inquiries.ListCompleted(ctx, f)
	if err != nil {
		return nil, internal(err)
	}

	out := &InquiryList{Items: make([]InquirySummary, 0, len(items)), Total: total, Limit: limit, Offset: offset}
	for i := range items {
		out.Items = append(out.Items, toSummary(&items[i]))
	}
	return out, nil
}

func (s *Service) GetInquiry(ctx context.Context, id int64) (*InquiryDetail, error) {
	i, err := s.inquiries.GetDetail(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrInquiryNotFound)
	}
	return toDetail(i), nil
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status domain.InquiryStatus) error {
	if !status.Valid() {
		return apperror.Validation(map[string]string{"status": "oneof"})
	}
	if err := s.inquiries.UpdateStatus(ctx, id, status); err != nil {
		return notFoundOr(err, ErrInquiryNotFound)
	}
	s.log.Info("inquiry status updated", zap.Int64("inquiry_id", id), zap.String("status", string(status)))
	return nil
}

// AssignStaff upserts the staff row of an inquiry. Every referenced
// application must be approved and carry the role of its slot.
func (s *Service) AssignStaff(ctx context.Context, inquiryID int64, req AssignStaffRequest) (*InquiryDetail, error) {
	if _, err := s.inquiries.GetByID(ctx, inquiryID); err != nil {
		return nil, notFoundOr(err, ErrInquiryNotFound)
	}

	slots := []struct {
		field string
		role  string
		id    *int64
	}{
		{"photographer_application_id", domain.StaffRolePhotographer, req.PhotographerApplicationID},
		{"decorator_application_id", domain.StaffRoleDecorator, req.DecoratorApplicationID},
		{"catering_application_id", domain.StaffRoleCatering, req.CateringApplicationID},
	}
	var ids []int64
	for _, slot := range slots {
		if slot.id != nil && *slot.id > 0 {
			ids = append(ids, *slot.id)
		}
	}
	approved, err := s.applications.ApprovedApplications(ctx, nil, ids)
	if err != nil {
		return nil, internal(err)
	}
	fields := map[string]string{}
	for _, slot := range slots {
		if slot.id == nil || *slot.id == 0 {
			continue
		}
		app, ok := approved[*slot.id]
		switch {
		case !ok:
			fields[slot.field] = "approved"
		case !app.HasRole(slot.role):
			fields[slot.field] = "role"
		}
	}
	if len(fields) > 0 {
		return nil, apperror.Validation(fields)
	}

	var row *domain.PackageInquireStaff
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.staff.GetByInquiry(ctx, tx, inquiryID)
		if err != nil {
			return err
		}
		if existing == nil {
			existing = &domain.PackageInquireStaff{PackageInquiryID: inquiryID}
		}
		existing.PhotographerApplicationID = applySlot(existing.PhotographerApplicationID, req.PhotographerApplicationID)
		existing.DecoratorApplicationID = applySlot(existing.DecoratorApplicationID, req.DecoratorApplicationID)
		existing.CateringApplicationID = applySlot(existing.CateringApplicationID, req.CateringApplicationID)
		row = existing
		return s.staff.Save(ctx, tx, existing)
	})
	if err != nil {
		return nil, internal(err)
	}

	s.log.Info("inquiry staff assigned", zap.Int64("inquiry_id", inquiryID), zap.Int("assigned", row.AssignedCount()))
	event := notification.StaffAssignedEvent{
		InquiryID:                 inquiryID,
		PhotographerApplicationID: row.PhotographerApplicationID,
		DecoratorApplicationID:    row.DecoratorApplicationID,
		CateringApplicationID:     row.CateringApplicationID,
		OccurredAt:                time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, notification.InquiryStaffAssigned, event); err != nil {
		s.log.Warn("publish staff event failed", zap.Int64("inquiry_id", inquiryID), zap.Error(err))
	}

	return s.GetInquiry(ctx, inquiryID)
}

// applySlot keeps current when update is nil and clears it on 0.
func applySlot(current, update *int64) *int64 {
	switch {
	case update == nil:
		return current
	case *update == 0:
		return nil
	default:
		v := *update
		return &v
	}
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
