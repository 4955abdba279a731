package auth

import (
	"errors"

	"markiz-admin/logger"
	"markiz-admin/middleware"
	accountModel "markiz-admin/models/account"
	otpModel "markiz-admin/models/otp"
	authTypes "markiz-admin/types/auth"
	otpTypes "markiz-admin/types/otp"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func (h *AuthController) loadAccount(c *fiber.Ctx) (*accountModel.Account, error) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return nil, respond(c, fiber.StatusUnauthorized, "Unauthorized", nil)
	}

	var acc accountModel.Account
	if err := h.DB.First(&acc, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, respond(c, fiber.StatusNotFound, "user not found", nil)
		}
		return nil, serverError(c, "Database error while fetching account", err)
	}
	return &acc, nil
}

// SendEmailCode issues an email-verification code for the caller.
func (h *AuthController) SendEmailCode(c *fiber.Ctx) error {
	acc, err := h.loadAccount(c)
	if acc == nil {
		return err
	}

	if acc.Email == "" {
		return respond(c, fiber.StatusBadRequest, "user has no email", nil)
	}

	row, err := h.OTP.IssueEmailCode(acc, otpModel.PurposeEmailVerify)
	if err != nil {
		return serverError(c, "Failed to issue email code", err)
	}

	return respond(c, fiber.StatusOK, "Verification code sent successfully", otpTypes.CodeResponse{
		ExpiresAt: row.ExpiresAt.Format("2006-01-02 15:04:05"),
	})
}

// SendPhoneCode issues a phone-verification code over WhatsApp.
func (h *AuthController) SendPhoneCode(c *fiber.Ctx) error {
	acc, err := h.loadAccount(c)
	if acc == nil {
		return err
	}

	if acc.Phone == "" {
		return respond(c, fiber.StatusBadRequest, "Please enter phone number", nil)
	}

	row, err := h.OTP.IssuePhoneCode(acc, otpModel.PurposePhoneVerify)
	if err != nil {
		return serverError(c, "Failed to issue phone code", err)
	}

	return respond(c, fiber.StatusOK, "Verification code sent successfully", otpTypes.CodeResponse{
		ExpiresAt: row.ExpiresAt.Format("2006-01-02 15:04:05"),
	})
}

// VerifyEmail redeems the caller's email code and flips the verified flag.
func (h *AuthController) VerifyEmail(c *fiber.Ctx) error {
	acc, err := h.loadAccount(c)
	if acc == nil {
		return err
	}

	var req otpTypes.VerifyCodeRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := req.Validate(); err != nil {
		return respond(c, fiber.StatusBadRequest, "please enter your verification code", nil)
	}

	if acc.IsEmailVerified {
		return respond(c, fiber.StatusBadRequest, "user already verified", nil)
	}

	if _, err := h.OTP.Redeem(acc.ID, otpModel.PurposeEmailVerify, req.Code); err != nil {
		return h.respondCodeError(c, err)
	}

	if err := h.DB.Model(acc).Update("is_email_verified", true).Error; err != nil {
		return serverError(c, "Failed to flag email verified", err)
	}

	logger.Success("Email verified. uuid: " + acc.Uuid)
	return respond(c, fiber.StatusOK, "Verification successful", nil)
}

// VerifyPhone redeems the caller's phone code and flips the verified flag.
func (h *AuthController) VerifyPhone(c *fiber.Ctx) error {
	acc, err := h.loadAccount(c)
	if acc == nil {
		return err
	}

	var req otpTypes.VerifyCodeRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := req.Validate(); err != nil {
		return respond(c, fiber.StatusBadRequest, "please enter your verification code", nil)
	}

	if acc.IsPhoneVerified {
		return respond(c, fiber.StatusBadRequest, "user already verified", nil)
	}

	if _, err := h.OTP.Redeem(acc.ID, otpModel.PurposePhoneVerify, req.Code); err != nil {
		return h.respondCodeError(c, err)
	}

	if err := h.DB.Model(acc).Update("is_phone_verified", true).Error; err != nil {
		return serverError(c, "Failed to flag phone verified", err)
	}

	logger.Success("Phone verified. uuid: " + acc.Uuid)
	return respond(c, fiber.StatusOK, "Verification successful", nil)
}

// SendEmailMessage relays a contact-form message to the administration inbox.
func (h *AuthController) SendEmailMessage(c *fiber.Ctx) error {
	var req authTypes.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := req.Validate(); err != nil {
		return respond(c, fiber.StatusBadRequest, "please fill inputs", nil)
	}

	body := "From: " + req.Name + " <" + req.Email + ">\n\n" + req.Message
	if err := h.Email.Send(h.AdminEmail, req.Subject, body); err != nil {
		logger.Error("Failed to relay contact message", err)
	}

	return respond(c, fiber.StatusOK, "Email sent successfully", nil)
}
