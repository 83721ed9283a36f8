package models

import "time"

// Notification is one delivered broadcast message for one recipient.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SchoolID  uint      `gorm:"not null;index" json:"school_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"size:8;not null" json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	// BroadcastInfo is a routine announcement.
	BroadcastInfo = "INFO"
	// BroadcastAlert is an urgent notice.
	BroadcastAlert = "ALERT"
)
