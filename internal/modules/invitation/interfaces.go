package invitation

import (
	"context"

	"weddingmarket/internal/domain"
)

type OrderReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	CompletedTemplateOrder(ctx context.Context, userID, templateID int64) (*domain.Order, error)
}

type TemplateReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Template, error)
}

type InvitationRepository interface {
	GetContent(ctx context.Context, orderID int64) (*domain.InvitationContent, error)
	SaveContent(ctx context.Context, c *domain.InvitationContent) (*domain.InvitationContent, error)
	UpsertRSVP(ctx context.Context, rsvp *domain.RSVP) (bool, error)
	GetRSVP(ctx context.Context, id int64) (*domain.RSVP, error)
	ListRSVPs(ctx context.Context, orderID int64, attendance *domain.Attendance, limit, offset int) ([]domain.RSVP, int64, error)
	AttendanceCounts(ctx context.Context, orderID int64) (map[domain.Attendance]int64, error)
}
