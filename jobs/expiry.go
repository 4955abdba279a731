package jobs

import (
	"errors"
	"fmt"
	"time"

	"markiz-admin/logger"
	accountModel "markiz-admin/models/account"
	halaqaModel "markiz-admin/models/halaqa"
	memorizationModel "markiz-admin/models/memorization"
	parentModel "markiz-admin/models/parent"
	studentModel "markiz-admin/models/student"
	teacherModel "markiz-admin/models/teacher"
	"markiz-admin/services/email"
	"markiz-admin/services/notification"
	otpService "markiz-admin/services/otp"
	"markiz-admin/services/whatsapp"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const expiredTitle = "Memorization Target Expired"

// sweepBatchLimit bounds notification fan-out per run so a backlog of stale
// targets cannot hold the sweep for hours.
const sweepBatchLimit = 500

// ExpirySweeper notifies everyone involved when a memorization target passes
// its due date while still in progress. It never flips the status itself:
// failing a target stays an explicit decision made through the status update
// endpoint after review.
type ExpirySweeper struct {
	DB            *gorm.DB
	Notifications *notification.Service
	Email         email.Sender
	WhatsApp      whatsapp.Sender
	OTP           *otpService.Service
}

func NewExpirySweeper(db *gorm.DB, notifications *notification.Service, emailSender email.Sender, whatsappSender whatsapp.Sender, otp *otpService.Service) *ExpirySweeper {
	return &ExpirySweeper{
		DB:            db,
		Notifications: notifications,
		Email:         emailSender,
		WhatsApp:      whatsappSender,
		OTP:           otp,
	}
}

// Start schedules the sweep daily at midnight and returns the running cron
// so main can stop it on shutdown.
func (s *ExpirySweeper) Start() *cron.Cron {
	c := cron.New()
	if _, err := c.AddFunc("0 0 * * *", func() {
		if err := s.Run(time.Now()); err != nil {
			logger.Error("Expiry sweep failed", err)
		}
	}); err != nil {
		logger.Error("Failed to schedule expiry sweep", err)
	}
	c.Start()
	return c
}

// Run executes one sweep: every IN_PROGRESS target whose due date has passed
// gets a notification fanned out to the student, the linked parent (if any)
// and the halaqa's teacher (if resolvable), plus WhatsApp and email to the
// student directly. The cutoff is the start of the run's day so a target is
// swept on the first midnight after its due date, never mid-day.
func (s *ExpirySweeper) Run(at time.Time) error {
	logger.Info("Checking expired memorization targets...")

	cutoff := now.With(at).BeginningOfDay()

	var expired []memorizationModel.Target
	if err := s.DB.Where("due_date <= ? AND status = ?", cutoff, memorizationModel.StatusInProgress).
		Limit(sweepBatchLimit).
		Find(&expired).Error; err != nil {
		return fmt.Errorf("failed to list expired targets: %w", err)
	}

	for _, target := range expired {
		s.notifyExpired(&target)
	}

	// Housekeeping while we are here: stale one-time codes serve nobody.
	if err := s.OTP.CleanupExpired(); err != nil {
		logger.Error("Failed to clean up expired codes", err)
	}

	logger.Success(fmt.Sprintf("Expiry sweep completed: %d overdue targets processed", len(expired)))
	return nil
}

func (s *ExpirySweeper) notifyExpired(target *memorizationModel.Target) {
	var std studentModel.Student
	if err := s.DB.First(&std, target.StudentID).Error; err != nil {
		logger.Error(fmt.Sprintf("Sweep: failed to load student %d", target.StudentID), err)
		return
	}

	var studentAccount accountModel.Account
	if err := s.DB.First(&studentAccount, std.AccountID).Error; err != nil {
		logger.Error(fmt.Sprintf("Sweep: failed to load account %d", std.AccountID), err)
		return
	}

	message := fmt.Sprintf("The memorization target period for student %s has expired.", studentAccount.FullName)

	s.Notifications.Send(studentAccount.ID, message, expiredTitle)

	if parentAccountID, ok := s.resolveParentAccount(std.ParentID); ok {
		s.Notifications.Send(parentAccountID, message, expiredTitle)
	}
	if teacherAccountID, ok := s.resolveHalaqaTeacherAccount(target.HalaqaID); ok {
		s.Notifications.Send(teacherAccountID, message, expiredTitle)
	}

	if err := s.WhatsApp.Send(studentAccount.Phone, message); err != nil {
		logger.Error("Sweep: failed to send WhatsApp message", err)
	}
	if err := s.Email.Send(studentAccount.Email, expiredTitle, message); err != nil {
		logger.Error("Sweep: failed to send email", err)
	}
}

func (s *ExpirySweeper) resolveParentAccount(parentID *uint) (uint, bool) {
	if parentID == nil {
		return 0, false
	}

	var par parentModel.Parent
	if err := s.DB.First(&par, *parentID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error(fmt.Sprintf("Sweep: failed to load parent %d", *parentID), err)
		}
		return 0, false
	}
	return par.AccountID, true
}

func (s *ExpirySweeper) resolveHalaqaTeacherAccount(halaqaID uint) (uint, bool) {
	var circle halaqaModel.Halaqa
	if err := s.DB.First(&circle, halaqaID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error(fmt.Sprintf("Sweep: failed to load halaqa %d", halaqaID), err)
		}
		return 0, false
	}
	if circle.TeacherID == nil {
		return 0, false
	}

	var tch teacherModel.Teacher
	if err := s.DB.First(&tch, *circle.TeacherID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error(fmt.Sprintf("Sweep: failed to load teacher %d", *circle.TeacherID), err)
		}
		return 0, false
	}
	return tch.AccountID, true
}
