package exam

import (
	"time"
)

// Exam is scheduled per class; Result holds one student's score for it. Both
// exist so the class cascade purge has real rows to clean up inside its
// transaction.
type Exam struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ClassID   uint      `gorm:"not null;index" json:"class_id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	HeldAt    time.Time `gorm:"not null" json:"held_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Result is a student's score on one exam.
type Result struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ExamID    uint      `gorm:"not null;index" json:"exam_id"`
	StudentID uint      `gorm:"not null;index" json:"student_id"`
	Score     float64   `gorm:"type:decimal(5,2);not null" json:"score"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
