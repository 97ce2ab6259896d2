package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Template struct {
	ID        int64           `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Title     string          `gorm:"type:varchar(255);not null" json:"title"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (Template) TableName() string { return "templates" }

type EstateDetail struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Package struct {
	ID               int64                  `gorm:"primaryKey" json:"id"`
	ServiceTitle     string                 `gorm:"type:varchar(255);not null" json:"service_title"`
	Location         string                 `gorm:"type:varchar(255)" json:"location"`
	About            string                 `gorm:"type:text" json:"about"`
	EstateDetails    JSONList[EstateDetail] `gorm:"type:text" json:"estate_details"`
	IncludedServices JSONList[string]       `gorm:"type:text" json:"included_services"`
	Price            decimal.Decimal        `gorm:"type:decimal(10,2);not null" json:"price"`
	Address          string                 `gorm:"type:varchar(255)" json:"address"`
	Email            string                 `gorm:"type:varchar(255)" json:"email"`
	Phone            string                 `gorm:"type:varchar(50)" json:"phone"`
	Capacity         int                    `json:"capacity"`
	CoverImage       string                 `gorm:"type:varchar(500)" json:"cover_image,omitempty"`
	ActiveStatus     bool                   `gorm:"index" json:"active_status"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

func (Package) TableName() string { return "packages" }
