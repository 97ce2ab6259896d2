package jobs

import (
	"github.com/shopspring/decimal"
)

type ListPostsQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=Active Inactive"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
}

type ListApplicationsQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=Pending Approved Rejected"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
}

type CreatePostRequest struct {
	JobTitle            string          `json:"job_title" binding:"required,max=255"`
	Role                string          `json:"role" binding:"required,max=100"`
	AboutJob            string          `json:"about_job"`
	Responsibilities    []string        `json:"responsibilities"`
	Requirements        []string        `json:"requirements"`
	Budget              decimal.Decimal `json:"budget"`
	Location            string          `json:"location" binding:"max=255"`
	ApplicationDeadline string          `json:"application_deadline"`
	CoverImage          string          `json:"cover_image" binding:"omitempty,url"`
	Status              string          `json:"status" binding:"omitempty,oneof=Active Inactive"`
}

// ApplyRequest falls back to the account's name and email when they are
// omitted.
type ApplyRequest struct {
	Name                 string `json:"name" binding:"max=255"`
	Email                string `json:"email" binding:"omitempty,email"`
	Phone                string `json:"phone" binding:"required,max=50"`
	PortfolioLink        string `json:"portfolio_link" binding:"omitempty,url"`
	PortfolioDescription string `json:"portfolio_description" binding:"max=250"`
}

type UpdateApplicationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Pending Approved Rejected"`
}

type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}
