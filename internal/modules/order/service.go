package order

import (
	"context"

	"go.uber.org/zap"

	"weddingmarket/internal/domain"
	"weddingmarket/internal/pkg/apperror"
	"weddingmarket/internal/repository"
)

type Service struct {
	orders    OrderRepository
	templates TemplateReader
	packages  PackageReader
	log       *zap.Logger
}

func NewService(orders OrderRepository, templates TemplateReader, packages PackageReader, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{orders: orders, templates: templates, packages: packages, log: log.Named("order")}
}

// List returns the caller's orders, newest first.
func (s *Service) List(ctx context.Context, userID int64) ([]OrderSummary, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, internal(err)
	}
	out := make([]OrderSummary, 0, len(orders))
	for i := range orders {
		out = append(out, toSummary(&orders[i]))
	}
	return out, nil
}

// Get returns one of the caller's orders. Orders of other users are reported
// as missing.
func (s *Service) Get(ctx context.Context, userID, orderID int64) (*OrderDetail, error) {
	o, err := s.orders.GetForUser(ctx, orderID, userID)
	if err != nil {
		return nil, notFoundOr(err)
	}

	d := &OrderDetail{
		OrderSummary: toSummary(o),
		CustomerID:   o.CustomerID,
		FailedAt:     o.FailedAt,
	}

	switch o.Kind() {
	case domain.OrderKindTemplate:
		t, err := s.templates.GetByID(ctx, o.ItemID())
		if err != nil && !repository.IsNotFound(err) {
			return nil, internal(err)
		}
		if t != nil {
			d.Template = &TemplateInfo{ID: t.ID, Name: t.Name, Title: t.Title, Price: t.Price}
		}
	case domain.OrderKindPackage:
		p, err := s.packages.GetByID(ctx, o.ItemID())
		if err != nil && !repository.IsNotFound(err) {
			return nil, internal(err)
		}
		if p != nil {
			d.Package = &PackageInfo{ID: p.ID, ServiceTitle: p.ServiceTitle, Location: p.Location, Price: p.Price}
		}
		if i := o.Inquiry; i != nil {
			d.Event = &EventInfo{
				InquiryID: i.ID,
				StartDate: i.EventStartDate.Format(domain.DateLayout),
				EndDate:   i.EventEndDate.Format(domain.DateLayout),
				Guests:    i.Guests,
				EventType: i.EventType,
				Status:    string(i.Status),
			}
		}
	}
	return d, nil
}

func notFoundOr(err error) error {
	if repository.IsNotFound(err) {
		return ErrOrderNotFound
	}
	return internal(err)
}

func internal(err error) error {
	return apperror.Wrap(apperror.KindInternal, "Internal server error", err)
}
