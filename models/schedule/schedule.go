package schedule

import (
	"time"
)

// Schedule is a weekly timetable slot for a class.
type Schedule struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ClassID   uint      `gorm:"not null;index" json:"class_id"`
	DayOfWeek int       `gorm:"type:int;not null" json:"day_of_week"`
	StartTime string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime   string    `gorm:"type:varchar(5);not null" json:"end_time"`
	Subject   string    `gorm:"type:varchar(255)" json:"subject"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
