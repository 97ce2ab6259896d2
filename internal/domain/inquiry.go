package domain

import "time"

type InquiryStatus string

const (
	InquiryPending   InquiryStatus = "Pending"
	InquiryActive    InquiryStatus = "Active"
	InquiryCompleted InquiryStatus = "Completed"
	InquiryCancel    InquiryStatus = "Cancel"
)

const DefaultEventType = "Wedding"

func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryPending, InquiryActive, InquiryCompleted, InquiryCancel:
		return true
	}
	return false
}

type PackageInquiry struct {
	ID             int64         `gorm:"primaryKey" json:"id"`
	UserID         int64         `gorm:"index;not null" json:"user_id"`
	PackageID      int64         `gorm:"index;not null" json:"package_id"`
	Name           string        `gorm:"type:varchar(255);not null" json:"name"`
	Email          string        `gorm:"type:varchar(255);not null" json:"email"`
	Phone          string        `gorm:"type:varchar(50);not null" json:"phone"`
	EventStartDate time.Time     `gorm:"type:date;not null" json:"event_start_date"`
	EventEndDate   time.Time     `gorm:"type:date;not null" json:"event_end_date"`
	Guests         int           `gorm:"not null" json:"guests"`
	EventType      string        `gorm:"type:varchar(50);not null" json:"event_type"`
	Status         InquiryStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	Package *Package             `gorm:"foreignKey:PackageID" json:"package,omitempty"`
	Order   *Order               `gorm:"foreignKey:PackageInquiryID" json:"order,omitempty"`
	Staff   *PackageInquireStaff `gorm:"foreignKey:PackageInquiryID" json:"staff,omitempty"`
}

func (PackageInquiry) TableName() string { return "package_inquiries" }

func (i *PackageInquiry) DateRange() DateRange {
	return DateRange{Start: TruncateDay(i.EventStartDate), End: TruncateDay(i.EventEndDate)}
}

// PackageInquireStaff assigns approved applications to one inquiry.
type PackageInquireStaff struct {
	ID                        int64     `gorm:"primaryKey" json:"id"`
	PackageInquiryID          int64     `gorm:"uniqueIndex;not null" json:"package_inquiry_id"`
	PhotographerApplicationID *int64    `json:"photographer_application_id"`
	DecoratorApplicationID    *int64    `json:"decorator_application_id"`
	CateringApplicationID     *int64    `json:"catering_application_id"`
	CreatedAt                 time.Time `json:"created_at"`
	UpdatedAt                 time.Time `json:"updated_at"`

	Photographer *JobApplication `gorm:"foreignKey:PhotographerApplicationID" json:"photographer,omitempty"`
	Decorator    *JobApplication `gorm:"foreignKey:DecoratorApplicationID" json:"decorator,omitempty"`
	Catering     *JobApplication `gorm:"foreignKey:CateringApplicationID" json:"catering,omitempty"`
}

func (PackageInquireStaff) TableName() string { return "package_inquire_staff" }

func (s *PackageInquireStaff) AssignedCount() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, id := range []*int64{s.PhotographerApplicationID, s.DecoratorApplicationID, s.CateringApplicationID} {
		if id != nil {
			n++
		}
	}
	return n
}
