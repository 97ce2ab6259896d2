package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type JobPostStatus string

const (
	JobPostActive   JobPostStatus = "Active"
	JobPostInactive JobPostStatus = "Inactive"
)

type JobPost struct {
	ID                  int64            `gorm:"primaryKey" json:"id"`
	JobTitle            string           `gorm:"type:varchar(255);not null" json:"job_title"`
	Role                string           `gorm:"type:varchar(100);not null;index" json:"role"`
	AboutJob            string           `gorm:"type:text" json:"about_job"`
	Responsibilities    JSONList[string] `gorm:"type:text" json:"responsibilities"`
	Requirements        JSONList[string] `gorm:"type:text" json:"requirements"`
	Budget              decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"budget"`
	Location            string           `gorm:"type:varchar(255)" json:"location"`
	ApplicationDeadline *time.Time       `json:"application_deadline,omitempty"`
	CoverImage          string           `gorm:"type:varchar(500)" json:"cover_image,omitempty"`
	Status              JobPostStatus    `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

func (JobPost) TableName() string { return "job_posts" }

// AcceptsApplications is true for active posts whose deadline has not passed.
func (p *JobPost) AcceptsApplications(now time.Time) bool {
	if p.Status != JobPostActive {
		return false
	}
	return p.ApplicationDeadline == nil || !p.ApplicationDeadline.Before(now)
}

// Roles staff can be assigned to on an inquiry.
const (
	StaffRolePhotographer = "Photographer"
	StaffRoleDecorator    = "Decorator"
	StaffRoleCatering     = "Catering"
)

// HasRole compares roles case-insensitively, ignoring surrounding spaces.
func (a *JobApplication) HasRole(role string) bool {
	return strings.EqualFold(strings.TrimSpace(a.Role), role)
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "Pending"
	ApplicationApproved ApplicationStatus = "Approved"
	ApplicationRejected ApplicationStatus = "Rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected:
		return true
	}
	return false
}

type JobApplication struct {
	ID                   int64             `gorm:"primaryKey" json:"id"`
	UserID               int64             `gorm:"not null;uniqueIndex:idx_job_applications_user_post" json:"user_id"`
	JobPostID            int64             `gorm:"not null;uniqueIndex:idx_job_applications_user_post" json:"job_post_id"`
	Role                 string            `gorm:"type:varchar(100);not null" json:"role"`
	UserName             string            `gorm:"type:varchar(255);not null" json:"user_name"`
	UserEmail            string            `gorm:"type:varchar(255);not null" json:"user_email"`
	UserPhone            string            `gorm:"type:varchar(50);not null" json:"user_phone"`
	PortfolioLink        string            `gorm:"type:varchar(500)" json:"portfolio_link,omitempty"`
	PortfolioDescription string            `gorm:"type:varchar(250)" json:"portfolio_description,omitempty"`
	Status               ApplicationStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`

	JobPost *JobPost `gorm:"foreignKey:JobPostID" json:"job_post,omitempty"`
}

func (JobApplication) TableName() string { return "job_applications" }
