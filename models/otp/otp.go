package otp

import (
	"time"
)

// Purpose tags a code with the flow that issued it so concurrent verification
// flows for one account cannot clobber each other. Lookups always scope by
// (account_id, purpose).
type Purpose string

const (
	PurposeEmailVerify   Purpose = "EMAIL_VERIFY"
	PurposePhoneVerify   Purpose = "PHONE_VERIFY"
	PurposePasswordReset Purpose = "PASSWORD_RESET"
)

// OneTimeCode is a short-lived verification code tied to one account. The
// current code for a flow is always the most recently created row; expired
// rows are deleted the moment they are checked.
type OneTimeCode struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID  uint      `gorm:"not null;index" json:"account_id"`
	Code       string    `gorm:"type:varchar(6);not null" json:"code"`
	Purpose    Purpose   `gorm:"type:varchar(20);not null;index" json:"purpose"`
	IsVerified bool      `gorm:"default:false" json:"is_verified"`
	ExpiresAt  time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// IsExpired checks if the code has passed its expiry window.
func (c *OneTimeCode) IsExpired() bool {
	return !time.Now().Before(c.ExpiresAt)
}
