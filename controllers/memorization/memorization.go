package memorization

import (
	"errors"
	"math"
	"time"

	"markiz-admin/logger"
	memorizationModel "markiz-admin/models/memorization"
	studentModel "markiz-admin/models/student"
	"markiz-admin/types"
	memorizationTypes "markiz-admin/types/memorization"
	"markiz-admin/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const serverErrorMessage = "Oops! something went wrong please try again!"

// Sentinel used inside the create transaction to signal a business conflict
// rather than a database failure.
var errActiveTargetExists = errors.New("student already has an active target")

// Controller handles memorization target HTTP requests.
type Controller struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

func NewController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *Controller {
	return &Controller{
		DB:     db,
		Logger: asyncLogger,
	}
}

func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(types.ApiResponse{
		Message: message,
		Status:  status,
		Data:    data,
	})
}

func serverError(c *fiber.Ctx, context string, err error) error {
	logger.Error(context, err)
	return respond(c, fiber.StatusInternalServerError, serverErrorMessage, nil)
}

// Create assigns a new memorization target. The student must already be
// placed in a class and a halaqa; both ids are snapshotted onto the target.
// The active-target check and the insert run in one transaction so two
// concurrent creates cannot both pass the check.
func (mc *Controller) Create(c *fiber.Ctx) error {
	var req memorizationTypes.CreateTargetRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := req.Validate(); err != nil {
		return respond(c, fiber.StatusBadRequest, "Please fill all inputs", nil)
	}

	var std studentModel.Student
	if err := mc.DB.First(&std, req.StudentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond(c, fiber.StatusNotFound, "student not found", nil)
		}
		return serverError(c, "Database error while fetching student", err)
	}

	if std.ClassID == nil {
		return respond(c, fiber.StatusBadRequest, "student is not assigned to a class yet", nil)
	}
	if std.HalaqaID == nil {
		return respond(c, fiber.StatusBadRequest, "student is not assigned to a halaqa yet", nil)
	}

	start := time.Now()
	if req.StartDate != nil {
		start = *req.StartDate
	}
	months := req.DurationMonths
	if months == 0 {
		months = 3
	}
	// Calendar-month arithmetic, not a fixed day count.
	dueDate := start.AddDate(0, months, 0)

	target := memorizationModel.Target{
		StudentID:    req.StudentID,
		ClassID:      *std.ClassID,
		HalaqaID:     *std.HalaqaID,
		StartSurah:   req.StartSurah,
		StartAyah:    req.StartAyah,
		TargetSurah:  req.TargetSurah,
		TargetAyah:   req.TargetAyah,
		CurrentSurah: req.StartSurah,
		CurrentAyah:  req.StartAyah,
		StartDate:    start,
		DueDate:      dueDate,
		Status:       memorizationModel.StatusPending,
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		var active memorizationModel.Target
		err := tx.Where("student_id = ? AND status IN ?", req.StudentID,
			[]memorizationModel.TargetStatus{memorizationModel.StatusPending, memorizationModel.StatusInProgress}).
			First(&active).Error
		if err == nil {
			return errActiveTargetExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(&target).Error
	})
	if err != nil {
		if errors.Is(err, errActiveTargetExists) {
			return respond(c, fiber.StatusBadRequest, "student already has an active memorization target", nil)
		}
		return serverError(c, "Failed to create memorization target", err)
	}

	mc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	logger.Success("Memorization target created")
	return respond(c, fiber.StatusCreated, "memorization target created successfully", target)
}

func (mc *Controller) findTarget(c *fiber.Ctx) (*memorizationModel.Target, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, respond(c, fiber.StatusBadRequest, "you must provide ID", nil)
	}

	var target memorizationModel.Target
	if err := mc.DB.First(&target, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, respond(c, fiber.StatusNotFound, "memorization target not found", nil)
		}
		return nil, serverError(c, "Database error while fetching target", err)
	}
	return &target, nil
}

// Start moves a pending target into progress.
func (mc *Controller) Start(c *fiber.Ctx) error {
	target, respErr := mc.findTarget(c)
	if target == nil {
		return respErr
	}

	if target.Status != memorizationModel.StatusPending {
		return respond(c, fiber.StatusBadRequest, "only a pending target can be started", nil)
	}

	if err := mc.DB.Model(target).Update("status", memorizationModel.StatusInProgress).Error; err != nil {
		return serverError(c, "Failed to start target", err)
	}

	return respond(c, fiber.StatusOK, "memorization target started", target)
}

// UpdateProgress moves the student's current position inside an open target.
func (mc *Controller) UpdateProgress(c *fiber.Ctx) error {
	target, respErr := mc.findTarget(c)
	if target == nil {
		return respErr
	}

	var req memorizationTypes.UpdateProgressRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := req.Validate(); err != nil {
		return respond(c, fiber.StatusBadRequest, "Please fill all inputs", nil)
	}

	if target.IsTerminal() {
		return respond(c, fiber.StatusBadRequest, "memorization target is already finalized", nil)
	}

	updates := map[string]interface{}{
		"current_surah": req.CurrentSurah,
		"current_ayah":  req.CurrentAyah,
	}
	if err := mc.DB.Model(target).Updates(updates).Error; err != nil {
		return serverError(c, "Failed to update progress", err)
	}

	return respond(c, fiber.StatusOK, "progress updated successfully", target)
}

// UpdateStatus finalizes a target as ACHIEVED or FAILED. Only permitted once
// the due date has passed, and only once: terminal states accept no further
// transitions.
func (mc *Controller) UpdateStatus(c *fiber.Ctx) error {
	target, respErr := mc.findTarget(c)
	if target == nil {
		return respErr
	}

	var req memorizationTypes.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := req.Validate(); err != nil {
		return respond(c, fiber.StatusBadRequest, "status must be ACHIEVED or FAILED", nil)
	}

	if target.IsTerminal() {
		return respond(c, fiber.StatusBadRequest, "memorization target is already finalized", nil)
	}

	now := time.Now()
	if now.Before(target.DueDate) {
		return respond(c, fiber.StatusBadRequest, "cannot update status before the due date", nil)
	}

	updates := map[string]interface{}{
		"status":        memorizationModel.TargetStatus(req.Status),
		"complete_date": now,
	}
	if err := mc.DB.Model(target).Updates(updates).Error; err != nil {
		return serverError(c, "Failed to update status", err)
	}

	logger.Success("Memorization target finalized: " + req.Status)
	return respond(c, fiber.StatusOK, "memorization target updated successfully", target)
}

// Delete soft-deletes a target. Admin action only; routing enforces the role.
func (mc *Controller) Delete(c *fiber.Ctx) error {
	target, respErr := mc.findTarget(c)
	if target == nil {
		return respErr
	}

	if err := mc.DB.Delete(target).Error; err != nil {
		return serverError(c, "Failed to delete target", err)
	}

	return respond(c, fiber.StatusOK, "memorization target deleted successfully", nil)
}

// GetAll lists targets, newest first, with pagination.
func (mc *Controller) GetAll(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var total int64
	if err := mc.DB.Model(&memorizationModel.Target{}).Count(&total).Error; err != nil {
		return serverError(c, "Database error while counting targets", err)
	}

	var targets []memorizationModel.Target
	if err := mc.DB.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&targets).Error; err != nil {
		return serverError(c, "Database error while listing targets", err)
	}

	totalPages := int64(0)
	if total > 0 {
		totalPages = int64(math.Ceil(float64(total) / float64(limit)))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": targets,
		"pagination": types.Pagination{
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	})
}

// GetByStudent returns every target of one student together with the derived
// progress numbers. Nothing here is persisted.
func (mc *Controller) GetByStudent(c *fiber.Ctx) error {
	studentID, err := c.ParamsInt("studentId")
	if err != nil || studentID <= 0 {
		return respond(c, fiber.StatusBadRequest, "you must provide student ID", nil)
	}

	var targets []memorizationModel.Target
	if err := mc.DB.Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&targets).Error; err != nil {
		return serverError(c, "Database error while listing student targets", err)
	}

	now := time.Now()
	progress := make([]memorizationTypes.TargetProgress, 0, len(targets))
	for _, t := range targets {
		progress = append(progress, DeriveProgress(t, now))
	}

	return respond(c, fiber.StatusOK, "student memorization targets", progress)
}

// GetClassStats aggregates target statuses across one class.
func (mc *Controller) GetClassStats(c *fiber.Ctx) error {
	classID, err := c.ParamsInt("classId")
	if err != nil || classID <= 0 {
		return respond(c, fiber.StatusBadRequest, "you must provide class ID", nil)
	}

	stats := memorizationTypes.ClassStats{ClassID: uint(classID)}
	base := mc.DB.Model(&memorizationModel.Target{}).Where("class_id = ?", classID)

	if err := base.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return serverError(c, "Database error while counting targets", err)
	}

	counts := []struct {
		status memorizationModel.TargetStatus
		dest   *int64
	}{
		{memorizationModel.StatusPending, &stats.Pending},
		{memorizationModel.StatusInProgress, &stats.InProgress},
		{memorizationModel.StatusAchieved, &stats.Achieved},
		{memorizationModel.StatusFailed, &stats.Failed},
	}
	for _, cnt := range counts {
		if err := base.Session(&gorm.Session{}).Where("status = ?", cnt.status).Count(cnt.dest).Error; err != nil {
			return serverError(c, "Database error while counting targets", err)
		}
	}

	if err := base.Session(&gorm.Session{}).
		Where("due_date < ? AND status IN ?", time.Now(),
			[]memorizationModel.TargetStatus{memorizationModel.StatusPending, memorizationModel.StatusInProgress}).
		Count(&stats.Overdue).Error; err != nil {
		return serverError(c, "Database error while counting overdue targets", err)
	}

	return respond(c, fiber.StatusOK, "class memorization stats", stats)
}

// DeriveProgress computes the read-only time metrics for a target. Days are
// counted with ceilings so a partially elapsed day still counts; every value
// floors at zero and TimeProgress stays within [0,100].
func DeriveProgress(t memorizationModel.Target, now time.Time) memorizationTypes.TargetProgress {
	const day = 24 * time.Hour

	ceilDays := func(d time.Duration) int {
		if d <= 0 {
			return 0
		}
		return int(math.Ceil(float64(d) / float64(day)))
	}

	totalDays := ceilDays(t.DueDate.Sub(t.StartDate))
	daysRemaining := ceilDays(t.DueDate.Sub(now))
	if daysRemaining > totalDays {
		daysRemaining = totalDays
	}
	daysElapsed := totalDays - daysRemaining
	if daysElapsed < 0 {
		daysElapsed = 0
	}

	timeProgress := 0.0
	if totalDays > 0 {
		timeProgress = math.Round(float64(daysElapsed)/float64(totalDays)*100*100) / 100
	}

	return memorizationTypes.TargetProgress{
		Target:        t,
		IsOverdue:     t.IsOverdue(now),
		DaysRemaining: daysRemaining,
		DaysElapsed:   daysElapsed,
		TotalDays:     totalDays,
		TimeProgress:  timeProgress,
	}
}
