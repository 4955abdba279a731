package memorization

import (
	"time"

	"markiz-admin/types"
	memorizationModel "markiz-admin/models/memorization"
)

// CreateTargetRequest assigns a new memorization goal to a student. StartDate
// defaults to now and DurationMonths to 3 when omitted.
type CreateTargetRequest struct {
	StudentID      uint       `json:"student_id" validate:"required"`
	StartSurah     string     `json:"start_surah" validate:"required"`
	StartAyah      int        `json:"start_ayah" validate:"required,min=1"`
	TargetSurah    string     `json:"target_surah" validate:"required"`
	TargetAyah     int        `json:"target_ayah" validate:"required,min=1"`
	StartDate      *time.Time `json:"start_date"`
	DurationMonths int        `json:"duration_months" validate:"omitempty,min=1,max=24"`
}

func (r *CreateTargetRequest) Validate() error {
	return types.ValidateStruct(r)
}

// UpdateStatusRequest closes a target as achieved or failed. Only accepted
// once the due date has passed.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACHIEVED FAILED"`
}

func (r *UpdateStatusRequest) Validate() error {
	return types.ValidateStruct(r)
}

// UpdateProgressRequest moves the student's current position inside an open
// target.
type UpdateProgressRequest struct {
	CurrentSurah string `json:"current_surah" validate:"required"`
	CurrentAyah  int    `json:"current_ayah" validate:"required,min=1"`
}

func (r *UpdateProgressRequest) Validate() error {
	return types.ValidateStruct(r)
}

// TargetProgress is the derived, read-only view of one target. None of these
// fields are ever persisted.
type TargetProgress struct {
	Target        memorizationModel.Target `json:"target"`
	IsOverdue     bool                     `json:"is_overdue"`
	DaysRemaining int                      `json:"days_remaining"`
	DaysElapsed   int                      `json:"days_elapsed"`
	TotalDays     int                      `json:"total_days"`
	TimeProgress  float64                  `json:"time_progress"`
}

// ClassStats aggregates target statuses across one class.
type ClassStats struct {
	ClassID    uint  `json:"class_id"`
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Achieved   int64 `json:"achieved"`
	Failed     int64 `json:"failed"`
	Overdue    int64 `json:"overdue"`
}
