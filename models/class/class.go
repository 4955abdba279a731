package class

import (
	"time"
)

// Class is a year group of students. Exams, schedules and halaqas hang off it;
// deleting a class goes through the transactional cascade in database/cascade.go.
type Class struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Level     int       `gorm:"type:int;default:1" json:"level"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
