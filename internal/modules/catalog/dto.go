package catalog

import (
	"github.com/shopspring/decimal"

	"weddingmarket/internal/domain"
)

type UpdateTemplateRequest struct {
	Title *string          `json:"title" binding:"omitempty,min=1,max=255"`
	Price *decimal.Decimal `json:"price"`
}

type EstateDetail struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

type CreatePackageRequest struct {
	ServiceTitle     string          `json:"service_title" binding:"required,max=255"`
	Location         string          `json:"location" binding:"max=255"`
	About            string          `json:"about"`
	EstateDetails    []EstateDetail  `json:"estate_details" binding:"omitempty,dive"`
	IncludedServices []string        `json:"included_services"`
	Price            decimal.Decimal `json:"price"`
	Address          string          `json:"address" binding:"max=255"`
	Email            string          `json:"email" binding:"omitempty,email"`
	Phone            string          `json:"phone" binding:"max=50"`
	Capacity         int             `json:"capacity" binding:"required,min=1"`
	CoverImage       string          `json:"cover_image" binding:"omitempty,url"`
	ActiveStatus     *bool           `json:"active_status"`
}

// UpdatePackageRequest changes only the fields present in the body.
type UpdatePackageRequest struct {
	ServiceTitle     *string          `json:"service_title" binding:"omitempty,min=1,max=255"`
	Location         *string          `json:"location" binding:"omitempty,max=255"`
	About            *string          `json:"about"`
	EstateDetails    *[]EstateDetail  `json:"estate_details" binding:"omitempty,dive"`
	IncludedServices *[]string        `json:"included_services"`
	Price            *decimal.Decimal `json:"price"`
	Address          *string          `json:"address" binding:"omitempty,max=255"`
	Email            *string          `json:"email" binding:"omitempty,email"`
	Phone            *string          `json:"phone" binding:"omitempty,max=50"`
	Capacity         *int             `json:"capacity" binding:"omitempty,min=1"`
	CoverImage       *string          `json:"cover_image" binding:"omitempty,url"`
	ActiveStatus     *bool            `json:"active_status"`
}

func toEstateDetails(in []EstateDetail) domain.JSONList[domain.EstateDetail] {
	out := make(domain.JSONList[domain.EstateDetail], 0, len(in))
	for _, d := range in {
		out = append(out, domain.EstateDetail{Key: d.Key, Value: d.Value})
	}
	return out
}
