package memorization

import (
	"time"

	"gorm.io/gorm"
)

// TargetStatus is the lifecycle state of a memorization target. ACHIEVED and
// FAILED are terminal; no transition is accepted out of them.
type TargetStatus string

const (
	StatusPending    TargetStatus = "PENDING"
	StatusInProgress TargetStatus = "IN_PROGRESS"
	StatusAchieved   TargetStatus = "ACHIEVED"
	StatusFailed     TargetStatus = "FAILED"
)

// IsTerminal reports whether s admits no further transitions.
func (s TargetStatus) IsTerminal() bool {
	return s == StatusAchieved || s == StatusFailed
}

// Target is an assigned memorization goal for one student. ClassID and
// HalaqaID are snapshots taken at creation time, not live references: moving
// the student later does not rewrite history.
type Target struct {
	ID          uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID   uint         `gorm:"not null;index" json:"student_id"`
	ClassID     uint         `gorm:"not null;index" json:"class_id"`
	HalaqaID    uint         `gorm:"not null;index" json:"halaqa_id"`
	StartSurah  string       `gorm:"type:varchar(100);not null" json:"start_surah"`
	StartAyah   int          `gorm:"type:int;not null" json:"start_ayah"`
	TargetSurah string       `gorm:"type:varchar(100);not null" json:"target_surah"`
	TargetAyah  int          `gorm:"type:int;not null" json:"target_ayah"`
	CurrentSurah string      `gorm:"type:varchar(100);not null" json:"current_surah"`
	CurrentAyah int          `gorm:"type:int;not null" json:"current_ayah"`
	StartDate   time.Time    `gorm:"not null" json:"start_date"`
	DueDate     time.Time    `gorm:"not null;index" json:"due_date"`
	CompleteDate *time.Time  `json:"complete_date,omitempty"`
	Status      TargetStatus `gorm:"type:varchar(20);not null;default:PENDING;index" json:"status"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsTerminal reports whether the target reached a final state.
func (t *Target) IsTerminal() bool {
	return t.Status.IsTerminal()
}

// IsOverdue reports whether the target is past its due date while still open.
func (t *Target) IsOverdue(at time.Time) bool {
	return at.After(t.DueDate) && !t.IsTerminal()
}
