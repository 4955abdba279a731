package notification

import (
	"time"
)

// Notification is an in-app message for one account. The dispatcher persists
// these; clients poll them from their own surface (out of scope here).
type Notification struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID uint      `gorm:"not null;index" json:"account_id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
