package memorization

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"markiz-admin/database"
	"markiz-admin/logger"
	accountModel "markiz-admin/models/account"
	classModel "markiz-admin/models/class"
	halaqaModel "markiz-admin/models/halaqa"
	memorizationModel "markiz-admin/models/memorization"
	studentModel "markiz-admin/models/student"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	controller := NewController(db, logger.NewAsyncLogger(db))

	app := fiber.New()
	app.Post("/api/memorize/create", controller.Create)
	app.Put("/api/memorize/start/:id", controller.Start)
	app.Put("/api/memorize/progress/:id", controller.UpdateProgress)
	app.Put("/api/memorize/status/:id", controller.UpdateStatus)
	app.Delete("/api/memorize/delete/:id", controller.Delete)
	app.Get("/api/memorize/all", controller.GetAll)
	app.Get("/api/memorize/class-stats/:classId", controller.GetClassStats)
	app.Get("/api/memorize/student/:studentId", controller.GetByStudent)

	return &testEnv{app: app, db: db}
}

func (e *testEnv) request(t *testing.T, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

// seedStudent creates an account, class, halaqa and the student row. Passing
// placed=false leaves the student without class and halaqa.
func seedStudent(t *testing.T, db *gorm.DB, placed bool) *studentModel.Student {
	t.Helper()

	acc := &accountModel.Account{
		Uuid:     fmt.Sprintf("uuid-%d", time.Now().UnixNano()),
		FullName: "Test Student",
		Email:    fmt.Sprintf("s%d@x.com", time.Now().UnixNano()),
		Phone:    fmt.Sprintf("+2526%010d", time.Now().UnixNano()%10000000000),
		Password: "irrelevant",
		Role:     accountModel.RoleStudent,
		IsActive: true,
	}
	require.NoError(t, db.Create(acc).Error)

	std := &studentModel.Student{AccountID: acc.ID}
	if placed {
		cls := &classModel.Class{Name: "Class A"}
		require.NoError(t, db.Create(cls).Error)
		circle := &halaqaModel.Halaqa{Name: "Halaqa 1", ClassID: cls.ID}
		require.NoError(t, db.Create(circle).Error)
		std.ClassID = &cls.ID
		std.HalaqaID = &circle.ID
	}
	require.NoError(t, db.Create(std).Error)
	return std
}

func createBody(studentID uint, startDate time.Time, months int) map[string]interface{} {
	body := map[string]interface{}{
		"student_id":   studentID,
		"start_surah":  "Al-Baqarah",
		"start_ayah":   1,
		"target_surah": "Aal-Imran",
		"target_ayah":  50,
		"start_date":   startDate.Format(time.RFC3339),
	}
	if months > 0 {
		body["duration_months"] = months
	}
	return body
}

func TestCreateTarget(t *testing.T) {
	env := newTestEnv(t)
	std := seedStudent(t, env.db, true)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	resp, body := env.request(t, "POST", "/api/memorize/create", createBody(std.ID, start, 3))
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "memorization target created successfully", body["message"])

	var target memorizationModel.Target
	require.NoError(t, env.db.Where("student_id = ?", std.ID).First(&target).Error)

	// Calendar months, not 90 days.
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), target.DueDate.UTC())
	assert.Equal(t, memorizationModel.StatusPending, target.Status)
	assert.Equal(t, *std.ClassID, target.ClassID)
	assert.Equal(t, *std.HalaqaID, target.HalaqaID)
	assert.Equal(t, "Al-Baqarah", target.CurrentSurah)
	assert.Equal(t, 1, target.CurrentAyah)
	assert.Nil(t, target.CompleteDate)
}

func TestCreateTargetDefaultDuration(t *testing.T) {
	env := newTestEnv(t)
	std := seedStudent(t, env.db, true)

	start := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	resp, _ := env.request(t, "POST", "/api/memorize/create", createBody(std.ID, start, 0))
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var target memorizationModel.Target
	require.NoError(t, env.db.Where("student_id = ?", std.ID).First(&target).Error)
	assert.Equal(t, time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC), target.DueDate.UTC())
}

func TestCreateTargetUnplacedStudent(t *testing.T) {
	env := newTestEnv(t)
	std := seedStudent(t, env.db, false)

	resp, body := env.request(t, "POST", "/api/memorize/create",
		createBody(std.ID, time.Now(), 3))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "student is not assigned to a class yet", body["message"])
}

func TestCreateTargetStudentNotFound(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(t, "POST", "/api/memorize/create",
		createBody(9999, time.Now(), 3))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "student not found", body["message"])
}

func TestCreateTargetActiveConflict(t *testing.T) {
	env := newTestEnv(t)
	std := seedStudent(t, env.db, true)

	resp, _ := env.request(t, "POST", "/api/memorize/create", createBody(std.ID, time.Now(), 3))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body := env.request(t, "POST", "/api/memorize/create", createBody(std.ID, time.Now(), 3))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "student already has an active memorization target", body["message"])
}

func TestCreateTargetAllowedAfterFinalized(t *testing.T) {
	env := newTestEnv(t)
	std := seedStudent(t, env.db, true)

	done := seedTarget(t, env.db, std, memorizationModel.StatusAchieved, time.Now().Add(-time.Hour))

	resp, _ := env.request(t, "POST", "/api/memorize/create", createBody(std.ID, time.Now(), 3))
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var count int64
	require.NoError(t, env.db.Model(&memorizationModel.Target{}).
		Where("student_id = ? AND id <> ?", std.ID, done.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func seedTarget(t *testing.T, db *gorm.DB, std *studentModel.Student, status memorizationModel.TargetStatus, dueDate time.Time) *memorizationModel.Target {
	t.Helper()
	target := &memorizationModel.Target{
		StudentID:    std.ID,
		ClassID:      *std.ClassID,
		HalaqaID:     *std.HalaqaID,
		StartSurah:   "Al-Baqarah",
		StartAyah:    1,
		TargetSurah:  "Aal-Imran",
		TargetAyah:   50,
		CurrentSurah: "Al-Baqarah",
		CurrentAyah:  1,
		StartDate:    dueDate.AddDate(0, -3, 0),
		DueDate:      dueDate,
		Status:       status,
	}
	require.NoError(t, db.Create(target).Error)
	return target
}

func TestStartTarget(t *testing.T) {
	env := newTestEnv(t)
	std := seedStudent(t, env.db, true)
	target := seedTarget(t, env.db, std, memorizationModel.StatusPending, time.Now().AddDate(0, 3, 0))

	resp, _ := env.request(t, "PUT", fmt.Sprintf("/api/memorize/start/%d", target.ID), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reloaded memorizationModel.Target
	require.NoError(t, env.db.First(&reloaded, target.ID).Error)
	assert.Equal(t, memorizationModel.StatusInProgress, reloaded.Status)

	// Starting twice is refused.
	resp, body := env.request(t, "PUT", fmt.Sprintf("/api/memorize/start/%d", target.ID), nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "only a pending target can be started", body["message"])
}

func TestUpdateProgress(t *testing.T) {
	env := newTestEnv(t)
	std := seedStudent(t, env.db, true)
	target := seedTarget(t, env.db, std, memorizationModel.StatusInProgress, time.Now().AddDate(0, 3, 0))

	resp, _ := env.request(t, "PUT", fmt.Sprintf("/api/memorize/progress/%d", target.ID),
		map[string]interface{}{"current_surah": "Al-Baqarah", "current_ayah": 120})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reloaded memorizationModel.Target
	require.NoError(t, env.db.First(&reloaded, target.ID).Error)
	assert.Equal(t, 120, reloaded.CurrentAyah)
}

func TestUpdateProgressFinalizedTarget(t *testing.T) {
	env := newTestEnv(t)
	std := seedStudent(t, env.db, true)
	target := seedTarget(t, env.db, std, memorizationModel.StatusAchieved, time.Now().Add(-time.Hour))

	resp, body := env.request(t, "PUT", fmt.Sprintf("/api/memorize/progress/%d", target.ID),
		map[string]interface{}{"current_surah": "Al-Baqarah", "current_ayah": 120})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "memorization target is already finalized", body["message"])
}

func TestUpdateStatusBeforeDueDate(t *testing.T) {
	env := newTestEnv(t)
	std := seedStudent(t, env.db, true)
	target := seedTarget(t, env.db, std, memorizationModel.StatusInProgress, time.Now().AddDate(0, 1, 0))

	resp, body := env.request(t, "PUT", fmt.Sprintf("/api/memorize/status/%d", target.ID),
		map[string]string{"status": "ACHIEVED"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "cannot update status before the due date", body["message"])
}

func TestUpdateStatusAfterDueDate(t *testing.T) {
	env := newTestEnv(t)
	std := seedStudent(t, env.db, true)
	target := seedTarget(t, env.db, std, memorizationModel.StatusInProgress, time.Now().Add(-time.Hour))

	resp, _ := env.request(t, "PUT", fmt.Sprintf("/api/memorize/status/%d", target.ID),
		map[string]string{"status": "ACHIEVED"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reloaded memorizationModel.Target
	require.NoError(t, env.db.First(&reloaded, target.ID).Error)
	assert.Equal(t, memorizationModel.StatusAchieved, reloaded.Status)
	require.NotNil(t, reloaded.CompleteDate)
	assert.WithinDuration(t, time.Now(), *reloaded.CompleteDate, time.Minute)

	// Terminal states are final.
	resp, body := env.request(t, "PUT", fmt.Sprintf("/api/memorize/status/%d", target.ID),
		map[string]string{"status": "FAILED"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "memorization target is already finalized", body["message"])
}

func TestUpdateStatusRejectsNonTerminal(t *testing.T) {
	env := newTestEnv(t)
	std := seedStudent(t, env.db, true)
	target := seedTarget(t, env.db, std, memorizationModel.StatusInProgress, time.Now().Add(-time.Hour))

	resp, body := env.request(t, "PUT", fmt.Sprintf("/api/memorize/status/%d", target.ID),
		map[string]string{"status": "PENDING"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "status must be ACHIEVED or FAILED", body["message"])
}

func TestDeleteTarget(t *testing.T) {
	env := newTestEnv(t)
	std := seedStudent(t, env.db, true)
	target := seedTarget(t, env.db, std, memorizationModel.StatusPending, time.Now().AddDate(0, 3, 0))

	resp, _ := env.request(t, "DELETE", fmt.Sprintf("/api/memorize/delete/%d", target.ID), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Soft delete: invisible to normal queries, still in the table.
	var count int64
	require.NoError(t, env.db.Model(&memorizationModel.Target{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.NoError(t, env.db.Unscoped().Model(&memorizationModel.Target{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetClassStats(t *testing.T) {
	env := newTestEnv(t)
	std := seedStudent(t, env.db, true)

	seedTarget(t, env.db, std, memorizationModel.StatusAchieved, time.Now().Add(-time.Hour))
	seedTarget(t, env.db, std, memorizationModel.StatusFailed, time.Now().Add(-time.Hour))
	seedTarget(t, env.db, std, memorizationModel.StatusInProgress, time.Now().Add(-time.Hour))

	resp, body := env.request(t, "GET", fmt.Sprintf("/api/memorize/class-stats/%d", *std.ClassID), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["total"])
	assert.Equal(t, float64(1), data["achieved"])
	assert.Equal(t, float64(1), data["failed"])
	assert.Equal(t, float64(1), data["in_progress"])
	assert.Equal(t, float64(1), data["overdue"])
}

func TestDeriveProgress(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	due := start.AddDate(0, 3, 0) // 91 days
	target := memorizationModel.Target{
		StartDate: start,
		DueDate:   due,
		Status:    memorizationModel.StatusInProgress,
	}

	t.Run("at start", func(t *testing.T) {
		p := DeriveProgress(target, start)
		assert.Equal(t, 91, p.TotalDays)
		assert.Equal(t, 91, p.DaysRemaining)
		assert.Equal(t, 0, p.DaysElapsed)
		assert.Equal(t, 0.0, p.TimeProgress)
		assert.False(t, p.IsOverdue)
	})

	t.Run("midway", func(t *testing.T) {
		p := DeriveProgress(target, start.AddDate(0, 0, 45).Add(12*time.Hour))
		assert.Equal(t, 91, p.TotalDays)
		assert.Equal(t, 46, p.DaysRemaining)
		assert.Equal(t, 45, p.DaysElapsed)
		assert.InDelta(t, 49.45, p.TimeProgress, 0.01)
	})

	t.Run("past due", func(t *testing.T) {
		p := DeriveProgress(target, due.AddDate(0, 0, 10))
		assert.Equal(t, 0, p.DaysRemaining)
		assert.Equal(t, 91, p.DaysElapsed)
		assert.Equal(t, 100.0, p.TimeProgress)
		assert.True(t, p.IsOverdue)
	})

	t.Run("before start clamps", func(t *testing.T) {
		p := DeriveProgress(target, start.AddDate(0, 0, -5))
		assert.Equal(t, 91, p.DaysRemaining)
		assert.Equal(t, 0, p.DaysElapsed)
		assert.Equal(t, 0.0, p.TimeProgress)
	})

	t.Run("zero duration", func(t *testing.T) {
		degenerate := memorizationModel.Target{StartDate: start, DueDate: start}
		p := DeriveProgress(degenerate, start)
		assert.Equal(t, 0, p.TotalDays)
		assert.Equal(t, 0.0, p.TimeProgress)
	})

	t.Run("terminal target is never overdue", func(t *testing.T) {
		finished := target
		finished.Status = memorizationModel.StatusAchieved
		p := DeriveProgress(finished, due.AddDate(0, 0, 10))
		assert.False(t, p.IsOverdue)
	})
}
