package database

import (
	"fmt"

	"markiz-admin/config"
	"markiz-admin/logger"
	"markiz-admin/models/account"
	"markiz-admin/models/class"
	"markiz-admin/models/exam"
	"markiz-admin/models/halaqa"
	logModel "markiz-admin/models/log"
	"markiz-admin/models/memorization"
	"markiz-admin/models/notification"
	"markiz-admin/models/otp"
	"markiz-admin/models/parent"
	"markiz-admin/models/schedule"
	"markiz-admin/models/student"
	"markiz-admin/models/teacher"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB opens the postgres connection, migrates the schema and installs the
// indexes and constraints the application relies on.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := Migrate(db); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	if err := createIndexes(db); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return db, nil
}

// Migrate runs auto migration for all models, in dependency stages.
func Migrate(db *gorm.DB) error {
	// Stage 1: rows nothing else depends on
	stage1Models := []interface{}{
		&account.Account{},
		&class.Class{},
	}

	for _, model := range stage1Models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: people and circles hanging off accounts/classes
	stage2Models := []interface{}{
		&teacher.Teacher{},
		&parent.Parent{},
		&halaqa.Halaqa{},
		&student.Student{},
	}

	for _, model := range stage2Models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 3: everything referencing students and classes
	remainingModels := []interface{}{
		&memorization.Target{},
		&otp.OneTimeCode{},
		&notification.Notification{},
		&exam.Exam{},
		&exam.Result{},
		&schedule.Schedule{},
		&logModel.Log{},
	}

	for _, model := range remainingModels {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// createIndexes creates additional indexes for better performance, plus the
// partial unique index that makes "one open target per student" hold even
// under concurrent create calls.
func createIndexes(db *gorm.DB) error {
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_accounts_email ON accounts(email)").Error; err != nil {
		return fmt.Errorf("failed to create account email index: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_accounts_phone ON accounts(phone)").Error; err != nil {
		return fmt.Errorf("failed to create account phone index: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_accounts_role ON accounts(role)").Error; err != nil {
		return fmt.Errorf("failed to create account role index: %w", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_one_time_codes_account_purpose ON one_time_codes(account_id, purpose, created_at)").Error; err != nil {
		return fmt.Errorf("failed to create one_time_codes lookup index: %w", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_targets_due_status ON targets(due_date, status)").Error; err != nil {
		return fmt.Errorf("failed to create target sweep index: %w", err)
	}

	// Backstop for the check-then-create pattern in the memorization engine.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_one_open_target_per_student
		ON targets(student_id)
		WHERE status IN ('PENDING','IN_PROGRESS') AND deleted_at IS NULL`).Error; err != nil {
		return fmt.Errorf("failed to create open-target unique index: %w", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create log created_at index: %w", err)
	}

	return nil
}
