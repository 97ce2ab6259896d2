package booking

import (
	"time"

	"github.com/shopspring/decimal"

	"weddingmarket/internal/domain"
)

type BookedDatesResponse struct {
	PackageID   int64    `json:"package_id"`
	BookedDates []string `json:"booked_dates"`
}

type ListInquiriesQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=Pending Active Completed Cancel"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Pending Active Completed Cancel"`
}

// AssignStaffRequest leaves a slot unchanged when omitted and clears it on 0.
type AssignStaffRequest struct {
	PhotographerApplicationID *int64 `json:"photographer_application_id" binding:"omitempty,min=0"`
	DecoratorApplicationID    *int64 `json:"decorator_application_id" binding:"omitempty,min=0"`
	CateringApplicationID     *int64 `json:"catering_application_id" binding:"omitempty,min=0"`
}

type InquirySummary struct {
	ID            int64           `json:"id"`
	Customer      string          `json:"customer"`
	Email         string          `json:"email"`
	EventName     string          `json:"event_name"`
	EventType     string          `json:"event_type"`
	EventDate     string          `json:"event_date"`
	StartDate     string          `json:"event_start_date"`
	EndDate       string          `json:"event_end_date"`
	Guests        int             `json:"guests"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	OrderStatus   string          `json:"order_status"`
	AssignedStaff int             `json:"assigned_staff"`
	CreatedAt     time.Time       `json:"created_at"`
}

type InquiryList struct {
	Items  []InquirySummary `json:"items"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

type AssignedStaff struct {
	Role          string `json:"role"`
	Slot          string `json:"slot"`
	ApplicationID int64  `json:"application_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
}

type InquiryDetail struct {
	InquirySummary
	Phone           string          `json:"phone"`
	PackageID       int64           `json:"package_id"`
	PackageLocation string          `json:"package_location"`
	Staff           []AssignedStaff `json:"staff"`
}

func toSummary(i *domain.PackageInquiry) InquirySummary {
	s := InquirySummary{
		ID:            i.ID,
		Customer:      i.Name,
		Email:         i.Email,
		EventType:     i.EventType,
		EventDate:     i.DateRange().String(),
		StartDate:     i.EventStartDate.Format(domain.DateLayout),
		EndDate:       i.EventEndDate.Format(domain.DateLayout),
		Guests:        i.Guests,
		Status:        string(i.Status),
		AssignedStaff: i.Staff.AssignedCount(),
		CreatedAt:     i.CreatedAt,
	}
	if i.Package != nil {
		s.EventName = i.Package.ServiceTitle
	}
	if i.Order != nil {
		s.Amount = i.Order.Amount
		s.OrderStatus = string(i.Order.Status)
	}
	return s
}

func toDetail(i *domain.PackageInquiry) *InquiryDetail {
	d := &InquiryDetail{
		InquirySummary: toSummary(i),
		Phone:          i.Phone,
		PackageID:      i.PackageID,
		Staff:          []AssignedStaff{},
	}
	if i.Package != nil {
		d.PackageLocation = i.Package.Location
	}
	if i.Staff == nil {
		return d
	}
	for _, slot := range []struct {
		name string
		app  *domain.JobApplication
	}{
		{"photographer", i.Staff.Photographer},
		{"decorator", i.Staff.Decorator},
		{"catering", i.Staff.Catering},
	} {
		if slot.app == nil {
			continue
		}
		d.Staff = append(d.Staff, AssignedStaff{
			Role:          slot.app.Role,
			Slot:          slot.name,
			ApplicationID: slot.app.ID,
			Name:          slot.app.UserName,
			Email:         slot.app.UserEmail,
			Phone:         slot.app.UserPhone,
		})
	}
	return d
}
