package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"markiz-admin/logger"
	"markiz-admin/models/account"
	otpModel "markiz-admin/models/otp"
	"markiz-admin/services/email"
	"markiz-admin/services/whatsapp"

	"gorm.io/gorm"
)

var (
	// ErrNotFound: no code has ever been issued for this account and purpose.
	ErrNotFound = errors.New("no verification code registered")
	// ErrExpired: the current code passed its window. The row is deleted; the
	// caller must request a fresh code.
	ErrExpired = errors.New("verification code expired")
	// ErrMismatch: wrong code. The row stays valid until expiry.
	ErrMismatch = errors.New("verification code incorrect")
	// ErrNotVerified: the reset flow's third step ran before the second.
	ErrNotVerified = errors.New("verification code not verified")
)

const codeMessage = "%s is your verification code. For your security do not share this code"

// Service owns the one-time code lifecycle. Codes are scoped by
// (account, purpose) so a pending password reset cannot clobber a pending
// email verification for the same account.
type Service struct {
	DB       *gorm.DB
	Email    email.Sender
	WhatsApp whatsapp.Sender
	TTL      time.Duration
}

func NewService(db *gorm.DB, emailSender email.Sender, whatsappSender whatsapp.Sender, ttl time.Duration) *Service {
	return &Service{
		DB:       db,
		Email:    emailSender,
		WhatsApp: whatsappSender,
		TTL:      ttl,
	}
}

// Generate returns a random 6-digit code.
func (s *Service) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// IssueEmailCode creates a code for the purpose and emails it to the account.
// The send is fire-and-forget: the row already exists, so a transport failure
// is logged rather than surfaced.
func (s *Service) IssueEmailCode(acc *account.Account, purpose otpModel.Purpose) (*otpModel.OneTimeCode, error) {
	row, code, err := s.create(acc.ID, purpose)
	if err != nil {
		return nil, err
	}

	go func() {
		if err := s.Email.Send(acc.Email, "Markiz Al-Maa'idah Verification code", fmt.Sprintf(codeMessage, code)); err != nil {
			logger.Error("Failed to send verification email", err)
		}
	}()

	return row, nil
}

// IssuePhoneCode creates a code for the purpose and sends it over WhatsApp.
func (s *Service) IssuePhoneCode(acc *account.Account, purpose otpModel.Purpose) (*otpModel.OneTimeCode, error) {
	row, code, err := s.create(acc.ID, purpose)
	if err != nil {
		return nil, err
	}

	go func() {
		if err := s.WhatsApp.Send(acc.Phone, fmt.Sprintf(codeMessage, code)); err != nil {
			logger.Error("Failed to send verification WhatsApp message", err)
		}
	}()

	return row, nil
}

func (s *Service) create(accountID uint, purpose otpModel.Purpose) (*otpModel.OneTimeCode, string, error) {
	code, err := s.Generate()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate code: %w", err)
	}

	row := &otpModel.OneTimeCode{
		AccountID: accountID,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(s.TTL),
	}
	if err := s.DB.Create(row).Error; err != nil {
		return nil, "", fmt.Errorf("failed to create code record: %w", err)
	}
	return row, code, nil
}

// Latest returns the most recently created code for the account and purpose.
func (s *Service) Latest(accountID uint, purpose otpModel.Purpose) (*otpModel.OneTimeCode, error) {
	var row otpModel.OneTimeCode
	err := s.DB.Where("account_id = ? AND purpose = ?", accountID, purpose).
		Order("created_at DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find code record: %w", err)
	}
	return &row, nil
}

// Redeem checks a submitted code against the current one for the account and
// purpose. Expired codes are deleted on sight and are not retryable; a
// mismatch leaves the code valid for further attempts until expiry.
func (s *Service) Redeem(accountID uint, purpose otpModel.Purpose, submitted string) (*otpModel.OneTimeCode, error) {
	row, err := s.Latest(accountID, purpose)
	if err != nil {
		return nil, err
	}

	if row.IsExpired() {
		if err := s.DB.Delete(row).Error; err != nil {
			logger.Error("Failed to delete expired code", err)
		}
		return nil, ErrExpired
	}

	if row.Code != submitted {
		return nil, ErrMismatch
	}

	row.IsVerified = true
	if err := s.DB.Save(row).Error; err != nil {
		return nil, fmt.Errorf("failed to mark code verified: %w", err)
	}
	return row, nil
}

// RequireVerified ensures the most recent code for the account and purpose
// has already been redeemed. Guards the final step of the password reset.
func (s *Service) RequireVerified(accountID uint, purpose otpModel.Purpose) error {
	row, err := s.Latest(accountID, purpose)
	if err != nil {
		return err
	}
	if !row.IsVerified {
		return ErrNotVerified
	}
	return nil
}

// CleanupExpired removes stale rows; called opportunistically by the sweep.
func (s *Service) CleanupExpired() error {
	return s.DB.Where("expires_at < ?", time.Now()).Delete(&otpModel.OneTimeCode{}).Error
}
