package halaqa

import (
	"time"
)

// Halaqa is a study circle inside a class, led by a teacher and optionally a
// student peer leader.
type Halaqa struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	ClassID   uint      `gorm:"not null;index" json:"class_id"`
	TeacherID *uint     `gorm:"index" json:"teacher_id,omitempty"`
	LeaderID  *uint     `gorm:"index" json:"leader_id,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
