package invitation

import (
	"time"

	"weddingmarket/internal/domain"
)

type SaveContentRequest struct {
	WelcomeMessage string `json:"welcome_message" binding:"required,max=255"`
	Description    string `json:"description"`
	RSVPDate       string `json:"rsvp_date" binding:"required"`
	PersonalName   string `json:"personal_name" binding:"required,max=255"`
	PartnerName    string `json:"partner_name" binding:"required,max=255"`
	VenueName      string `json:"venue_name" binding:"required,max=255"`
	VenueAddress   string `json:"venue_address" binding:"required,max=255"`
	WeddingDate    string `json:"wedding_date" binding:"required"`
	WeddingTime    string `json:"wedding_time" binding:"required"`
	City           string `json:"city" binding:"required,max=255"`
}

type ContentResponse struct {
	OrderID        int64     `json:"order_id"`
	TemplateID     int64     `json:"template_id"`
	WelcomeMessage string    `json:"welcome_message"`
	Description    string    `json:"description"`
	RSVPDate       string    `json:"rsvp_date"`
	PersonalName   string    `json:"personal_name"`
	PartnerName    string    `json:"partner_name"`
	VenueName      string    `json:"venue_name"`
	VenueAddress   string    `json:"venue_address"`
	WeddingDate    string    `json:"wedding_date"`
	WeddingTime    string    `json:"wedding_time"`
	City           string    `json:"city"`
	RSVPLink       string    `json:"rsvp_link"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SubmitRSVPRequest takes attendance as 1 (attending) or 0 (declined).
type SubmitRSVPRequest struct {
	GuestName   string   `json:"guest_name" binding:"required,max=255"`
	GuestEmail  string   `json:"guest_email" binding:"required,email,max=255"`
	GuestPhone  string   `json:"guest_phone" binding:"required,max=50"`
	BringGuests []string `json:"bring_guests" binding:"max=20,dive,max=255"`
	Attendance  *int     `json:"attendance" binding:"required,oneof=0 1"`
}

type ListRSVPsQuery struct {
	Attendance string `form:"attendance" binding:"omitempty,oneof=0 1"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset     int    `form:"offset" binding:"omitempty,min=0"`
}

type RSVPResponse struct {
	ID          int64     `json:"id"`
	OrderID     int64     `json:"order_id"`
	GuestName   string    `json:"guest_name"`
	GuestEmail  string    `json:"guest_email"`
	GuestPhone  string    `json:"guest_phone"`
	BringGuests []string  `json:"bring_guests"`
	Attendance  int       `json:"attendance"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type RSVPList struct {
	Items     []RSVPResponse `json:"items"`
	Total     int64          `json:"total"`
	Limit     int            `json:"limit"`
	Offset    int            `json:"offset"`
	RSVPDate  string         `json:"rsvp_date"`
	Attending int64          `json:"attending"`
	Declined  int64          `json:"declined"`
}

func toRSVP(r *domain.RSVP) RSVPResponse {
	guests := []string(r.BringGuests)
	if guests == nil {
		guests = []string{}
	}
	return RSVPResponse{
		ID:          r.ID,
		OrderID:     r.OrderID,
		GuestName:   r.GuestName,
		GuestEmail:  r.GuestEmail,
		GuestPhone:  r.GuestPhone,
		BringGuests: guests,
		Attendance:  int(r.Attendance),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
