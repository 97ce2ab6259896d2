package catalog

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"weddingmarket/internal/domain"
	"weddingmarket/internal/pkg/apperror"
	"weddingmarket/internal/repository"
)

type Service struct {
	templates TemplateRepository
	packages  PackageRepository
	log       *zap.Logger
}

func NewService(templates TemplateRepository, packages PackageRepository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{templates: templates, packages: packages, log: log.Named("catalog")}
}

func (s *Service) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	out, err := s.templates.List(ctx)
	if err != nil {
		return nil, internal(err)
	}
	if out == nil {
		out = []domain.Template{}
	}
	return out, nil
}

func (s *Service) GetTemplate(ctx context.Context, id int64) (*domain.Template, error) {
	t, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrTemplateNotFound)
	}
	return t, nil
}

func (s *Service) UpdateTemplate(ctx context.Context, id int64, req UpdateTemplateRequest) (*domain.Template, error) {
	if req.Price != nil && !validPrice(*req.Price) {
		return nil, apperror.Validation(map[string]string{"price": "gt"})
	}

	t, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrTemplateNotFound)
	}
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Price != nil {
		t.Price = req.Price.Round(2)
	}
	if err := s.templates.Update(ctx, t); err != nil {
		return nil, internal(err)
	}

	s.log.Info("template updated", zap.Int64("template_id", id), zap.String("price", t.Price.StringFixed(2)))
	return t, nil
}

// ListPackages returns active packages, or every package when all is set.
func (s *Service) ListPackages(ctx context.Context, all bool) ([]domain.Package, error) {
	out, err := s.packages.List(ctx, !all)
	if err != nil {
		return nil, internal(err)
	}
	if out == nil {
		out = []domain.Package{}
	}
	return out, nil
}

func (s *Service) GetPackage(ctx context.Context, id int64) (*domain.Package, error) {
	p, err := s.packages.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrPackageNotFound)
	}
	return p, nil
}

func (s *Service) CreatePackage(ctx context.Context, req CreatePackageRequest) (*domain.Package, error) {
	if !validPrice(req.Price) {
		return nil, apperror.Validation(map[string]string{"price": "gt"})
	}

	p := &domain.Package{
		ServiceTitle:     req.ServiceTitle,
		Location:         req.Location,
		About:            req.About,
		EstateDetails:    toEstateDetails(req.EstateDetails),
		IncludedServices: domain.JSONList[string](req.IncludedServices),
		Price:            req.Price.Round(2),
		Address:          req.Address,
		Email:            req.Email,
		Phone:            req.Phone,
		Capacity:         req.Capacity,
		CoverImage:       req.CoverImage,
		ActiveStatus:     true,
	}
	if p.IncludedServices == nil {
		p.IncludedServices = domain.JSONList[string]{}
	}
	if req.ActiveStatus != nil {
		p.ActiveStatus = *req.ActiveStatus
	}
	if err := s.packages.Create(ctx, p); err != nil {
		return nil, internal(err)
	}

	s.log.Info("package created", zap.Int64("package_id", p.ID), zap.String("title", p.ServiceTitle))
	return p, nil
}

func (s *Service) UpdatePackage(ctx context.Context, id int64, req UpdatePackageRequest) (*domain.Package, error) {
	if req.Price != nil && !validPrice(*req.Price) {
		return nil, apperror.Validation(map[string]string{"price": "gt"})
	}

	p, err := s.packages.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrPackageNotFound)
	}

	setString(&p.ServiceTitle, req.ServiceTitle)
	setString(&p.Location, req.Location)
	setString(&p.About, req.About)
	setString(&p.Address, req.Address)
	setString(&p.Email, req.Email)
	setString(&p.Phone, req.Phone)
	setString(&p.CoverImage, req.CoverImage)
	if req.EstateDetails != nil {
		p.EstateDetails = toEstateDetails(*req.EstateDetails)
	}
	if req.IncludedServices != nil {
		p.IncludedServices = domain.JSONList[string](*req.IncludedServices)
	}
	if req.Price != nil {
		p.Price = req.Price.Round(2)
	}
	if req.Capacity != nil {
		p.Capacity = *req.Capacity
	}
	if req.ActiveStatus != nil {
		p.ActiveStatus = *req.ActiveStatus
	}

	if err := s.packages.Save(ctx, p); err != nil {
		return nil, internal(err)
	}
	s.log.Info("package updated", zap.Int64("package_id", id), zap.Bool("active", p.ActiveStatus))
	return p, nil
}

func validPrice(p decimal.Decimal) bool {
	return p.IsPositive()
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
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
