package notification

import (
	"markiz-admin/logger"
	notificationModel "markiz-admin/models/notification"

	"gorm.io/gorm"
)

// Service persists in-app notifications. Delivery failures are logged and
// swallowed: a missed notification must never fail the operation that
// triggered it.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// Send stores a notification row for the account.
func (s *Service) Send(accountID uint, message, title string) {
	row := notificationModel.Notification{
		AccountID: accountID,
		Title:     title,
		Message:   message,
	}
	if err := s.DB.Create(&row).Error; err != nil {
		logger.Error("Failed to store notification", err)
	}
}
