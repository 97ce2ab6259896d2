package domain

import (
	"strings"
	"time"
)

// WeddingTimeLayout is the HH:MM form of an invitation's ceremony time.
const WeddingTimeLayout = "15:04"

// InvitationContent is what the buyer of a template writes into it. There is
// at most one per order.
type InvitationContent struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	OrderID        int64     `gorm:"uniqueIndex;not null" json:"order_id"`
	TemplateID     int64     `gorm:"index;not null" json:"template_id"`
	WelcomeMessage string    `gorm:"type:varchar(255);not null" json:"welcome_message"`
	Description    string    `gorm:"type:text" json:"description"`
	RSVPDate       time.Time `gorm:"type:date;not null" json:"rsvp_date"`
	PersonalName   string    `gorm:"type:varchar(255);not null" json:"personal_name"`
	PartnerName    string    `gorm:"type:varchar(255);not null" json:"partner_name"`
	VenueName      string    `gorm:"type:varchar(255);not null" json:"venue_name"`
	VenueAddress   string    `gorm:"type:varchar(255);not null" json:"venue_address"`
	WeddingDate    time.Time `gorm:"type:date;not null" json:"wedding_date"`
	WeddingTime    string    `gorm:"type:varchar(5);not null" json:"wedding_time"`
	City           string    `gorm:"type:varchar(255);not null" json:"city"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (InvitationContent) TableName() string { return "custom_template_contents" }

// AcceptsRSVPs is true until the end of the RSVP day.
func (c *InvitationContent) AcceptsRSVPs(now time.Time) bool {
	deadline := TruncateDay(c.RSVPDate).Add(24 * time.Hour)
	return now.Before(deadline)
}

type Attendance int

const (
	AttendanceDeclined  Attendance = 0
	AttendanceAttending Attendance = 1
)

func (a Attendance) Valid() bool {
	return a == AttendanceDeclined || a == AttendanceAttending
}

// RSVP is one guest's answer to an invitation, unique per order and email.
type RSVP struct {
	ID          int64            `gorm:"primaryKey" json:"id"`
	OrderID     int64            `gorm:"not null;uniqueIndex:idx_rsvps_order_email" json:"order_id"`
	TemplateID  int64            `gorm:"index;not null" json:"template_id"`
	GuestName   string           `gorm:"type:varchar(255);not null" json:"guest_name"`
	GuestEmail  string           `gorm:"type:varchar(255);not null;uniqueIndex:idx_rsvps_order_email" json:"guest_email"`
	GuestPhone  string           `gorm:"type:varchar(50);not null" json:"guest_phone"`
	BringGuests JSONList[string] `gorm:"type:text" json:"bring_guests"`
	Attendance  Attendance       `gorm:"not null;index" json:"attendance"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	Order *Order `gorm:"foreignKey:OrderID" json:"-"`
}

func (RSVP) TableName() string { return "rsvps" }

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
