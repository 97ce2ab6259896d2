package domain

import "time"

// WebhookEvent records a processed gateway event id.
type WebhookEvent struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	EventID     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"event_id"`
	EventType   string    `gorm:"type:varchar(100);not null" json:"event_type"`
	ProcessedAt time.Time `gorm:"not null" json:"processed_at"`
}

func (WebhookEvent) TableName() string { return "webhook_events" }
