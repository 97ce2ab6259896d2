package invitation

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"weddingmarket/internal/domain"
	"weddingmarket/internal/notification"
	"weddingmarket/internal/pkg/apperror"
	"weddingmarket/internal/repository"
)

type Service struct {
	orders      OrderReader
	templates   TemplateReader
	invitations InvitationRepository
	publisher   notification.Publisher
	frontendURL string
	log         *zap.Logger
	now         func() time.Time
}

func NewService(
	orders OrderReader,
	templates TemplateReader,
	invitations InvitationRepository,
	publisher notification.Publisher,
	frontendURL string,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if publisher == nil {
		publisher = notification.NewLog(log)
	}
	return &Service{
		orders:      orders,
		templates:   templates,
		invitations: invitations,
		publisher:   publisher,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		log:         log.Named("invitation"),
		now:         time.Now,
	}
}

// SaveContent writes the invitation text of a template the user bought. A
// second call replaces the first.
func (s *Service) SaveContent(ctx context.Context, userID, templateID int64, req SaveContentRequest) (*ContentResponse, error) {
	order, err := s.ownedTemplateOrder(ctx, userID, templateID)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	rsvpDate, err := domain.ParseDate(req.RSVPDate)
	if err != nil {
		fields["rsvp_date"] = "date"
	}
	weddingDate, err := domain.ParseDate(req.WeddingDate)
	if err != nil {
		fields["wedding_date"] = "date"
	}
	weddingTime := strings.TrimSpace(req.WeddingTime)
	if _, err := time.Parse(domain.WeddingTimeLayout, weddingTime); err != nil {
		fields["wedding_time"] = "time"
	}
	if fields["rsvp_date"] == "" && fields["wedding_date"] == "" &&
		domain.TruncateDay(rsvpDate).After(domain.TruncateDay(weddingDate)) {
		fields["rsvp_date"] = "ltefield"
	}
	if len(fields) > 0 {
		return nil, apperror.Validation(fields)
	}

	saved, err := s.invitations.SaveContent(ctx, &domain.InvitationContent{
		OrderID:        order.ID,
		TemplateID:     templateID,
		WelcomeMessage: req.WelcomeMessage,
		Description:    req.Description,
		RSVPDate:       domain.TruncateDay(rsvpDate),
		PersonalName:   req.PersonalName,
		PartnerName:    req.PartnerName,
		VenueName:      req.VenueName,
		VenueAddress:   req.VenueAddress,
		WeddingDate:    domain.TruncateDay(weddingDate),
		WeddingTime:    weddingTime,
		City:           req.City,
	})
	if err != nil {
		return nil, internal(err)
	}
	s.log.Info("invitation content saved",
		zap.Int64("order_id", order.ID),
		zap.Int64("template_id", templateID),
		zap.Int64("user_id", userID),
	)
	return s.toContent(saved), nil
}

func (s *Service) GetContent(ctx context.Context, userID, templateID int64) (*ContentResponse, error) {
	order, err := s.ownedTemplateOrder(ctx, userID, templateID)
	if err != nil {
		return nil, err
	}
	c, err := s.invitations.GetContent(ctx, order.ID)
	if err != nil {
		return nil, notFoundOr(err, ErrContentNotFound)
	}
	return s.toContent(c), nil
}

// SubmitRSVP records a guest's answer to the invitation of orderID. An answer
// from an email already on the order replaces the earlier one; created reports
// which happened.
func (s *Service) SubmitRSVP(ctx context.Context, orderID int64, req SubmitRSVPRequest) (*RSVPResponse, bool, error) {
	attendance := domain.Attendance(*req.Attendance)
	if !attendance.Valid() {
		return nil, false, apperror.Validation(map[string]string{"attendance": "oneof"})
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, false, notFoundOr(err, ErrInvitationNotFound)
	}
	if order.Kind() != domain.OrderKindTemplate || order.Status != domain.OrderCompleted {
		return nil, false, ErrInvitationNotFound
	}
	content, err := s.invitations.GetContent(ctx, order.ID)
	if err != nil {
		return nil, false, notFoundOr(err, ErrInvitationNotFound)
	}
	if !content.AcceptsRSVPs(s.now().UTC()) {
		return nil, false, ErrRSVPClosed
	}

	rsvp := &domain.RSVP{
		OrderID:     order.ID,
		TemplateID:  content.TemplateID,
		GuestName:   strings.TrimSpace(req.GuestName),
		GuestEmail:  domain.NormalizeEmail(req.GuestEmail),
		GuestPhone:  strings.TrimSpace(req.GuestPhone),
		BringGuests: guestList(req.BringGuests),
		Attendance:  attendance,
	}
	created, err := s.invitations.UpsertRSVP(ctx, rsvp)
	if err != nil && repository.IsUniqueViolation(err) {
		// a concurrent first answer from the same email won the insert
		rsvp.ID = 0
		created, err = s.invitations.UpsertRSVP(ctx, rsvp)
	}
	if err != nil {
		return nil, false, internal(err)
	}

	s.log.Info("rsvp recorded",
		zap.Int64("rsvp_id", rsvp.ID),
		zap.Int64("order_id", order.ID),
		zap.Bool("created", created),
	)
	event := notification.RSVPEvent{
		RSVPID:     rsvp.ID,
		OrderID:    order.ID,
		TemplateID: rsvp.TemplateID,
		GuestEmail: rsvp.GuestEmail,
		Attendance: int(rsvp.Attendance),
		Updated:    !created,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, notification.RSVPSubmitted, event); err != nil {
		s.log.Warn("publish rsvp event failed", zap.Int64("rsvp_id", rsvp.ID), zap.Error(err))
	}

	out := toRSVP(rsvp)
	return &out, created, nil
}

// ListRSVPs pages the answers to the invitation of a template the user bought,
// with attendance totals over all answers.
func (s *Service) ListRSVPs(ctx context.Context, userID, templateID int64, q ListRSVPsQuery) (*RSVPList, error) {
	order, err := s.ownedTemplateOrder(ctx, userID, templateID)
	if err != nil {
		return nil, err
	}
	content, err := s.invitations.GetContent(ctx, order.ID)
	if err != nil {
		return nil, notFoundOr(err, ErrContentNotFound)
	}

	var filter *domain.Attendance
	if q.Attendance != "" {
		n, err := strconv.Atoi(q.Attendance)
		if err != nil || !domain.Attendance(n).Valid() {
			return nil, apperror.Validation(map[string]string{"attendance": "oneof"})
		}
		a := domain.Attendance(n)
		filter = &a
	}

	limit, offset := repository.NormalizePage(q.Limit, q.Offset)
	items, total, err := s.invitations.ListRSVPs(ctx, order.ID, filter, limit, offset)
	if err != nil {
		return nil, internal(err)
	}
	counts, err := s.invitations.AttendanceCounts(ctx, order.ID)
	if err != nil {
		return nil, internal(err)
	}

	out := &RSVPList{
		Items:     make([]RSVPResponse, 0, len(items)),
		Total:     total,
		Limit:     limit,
		Offset:    offset,
		RSVPDate:  content.RSVPDate.Format(domain.DateLayout),
		Attending: counts[domain.AttendanceAttending],
		Declined:  counts[domain.AttendanceDeclined],
	}
	for i := range items {
		out.Items = append(out.Items, toRSVP(&items[i]))
	}
	return out, nil
}

// GetRSVP returns one answer to an invitation owned by userID. Answers to
// other users' invitations are reported as missing.
func (s *Service) GetRSVP(ctx context.Context, userID, id int64) (*RSVPResponse, error) {
	rsvp, err := s.invitations.GetRSVP(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrRSVPNotFound)
	}
	if rsvp.Order == nil || rsvp.Order.UserID != userID {
		return nil, ErrRSVPNotFound
	}
	out := toRSVP(rsvp)
	return &out, nil
}

func (s *Service) ownedTemplateOrder(ctx context.Context, userID, templateID int64) (*domain.Order, error) {
	if _, err := s.templates.GetByID(ctx, templateID); err != nil {
		return nil, notFoundOr(err, ErrTemplateNotFound)
	}
	order, err := s.orders.CompletedTemplateOrder(ctx, userID, templateID)
	if err != nil {
		return nil, notFoundOr(err, ErrNotPurchased)
	}
	return order, nil
}

func (s *Service) toContent(c *domain.InvitationContent) *ContentResponse {
	return &ContentResponse{
		OrderID:        c.OrderID,
		TemplateID:     c.TemplateID,
		WelcomeMessage: c.WelcomeMessage,
		Description:    c.Description,
		RSVPDate:       c.RSVPDate.Format(domain.DateLayout),
		PersonalName:   c.PersonalName,
		PartnerName:    c.PartnerName,
		VenueName:      c.VenueName,
		VenueAddress:   c.VenueAddress,
		WeddingDate:    c.WeddingDate.Format(domain.DateLayout),
		WeddingTime:    c.WeddingTime,
		City:           c.City,
		RSVPLink:       fmt.Sprintf("%s/rsvp?order=%d", s.frontendURL, c.OrderID),
		UpdatedAt:      c.UpdatedAt,
	}
}

func guestList(in []string) domain.JSONList[string] {
	out := domain.JSONList[string]{}
	for _, name := range in {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
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
