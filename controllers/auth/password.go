package auth

import (
	"errors"

	"markiz-admin/logger"
	"markiz-admin/middleware"
	accountModel "markiz-admin/models/account"
	otpModel "markiz-admin/models/otp"
	otpService "markiz-admin/services/otp"
	authTypes "markiz-admin/types/auth"
	"markiz-admin/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ChangePassword lets an authenticated account replace its password after
// proving knowledge of the current one.
func (h *AuthController) ChangePassword(c *fiber.Ctx) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return respond(c, fiber.StatusUnauthorized, "Unauthorized", nil)
	}

	var req authTypes.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := req.Validate(); err != nil {
		return respond(c, fiber.StatusBadRequest, "Please fill all inputs", nil)
	}

	var acc accountModel.Account
	if err := h.DB.First(&acc, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond(c, fiber.StatusBadRequest, "user does not exist", nil)
		}
		return serverError(c, "Database error while fetching account", err)
	}

	match, err := utils.VerifyPassword(acc.Password, req.OldPassword)
	if err != nil {
		return serverError(c, "Failed to verify password", err)
	}
	if !match {
		return respond(c, fiber.StatusBadRequest, "your old password is not correct", nil)
	}

	if req.NewPassword != req.Confirm {
		return respond(c, fiber.StatusBadRequest, "The password must match confirm password", nil)
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return serverError(c, "Failed to hash password", err)
	}

	if err := h.DB.Model(&acc).Update("password", hash).Error; err != nil {
		return serverError(c, "Failed to update password", err)
	}

	logger.Success("Password changed. uuid: " + acc.Uuid)
	return respond(c, fiber.StatusOK, "Successfully changed your password", nil)
}

// ForgetPassword starts the unauthenticated three-step reset flow by emailing
// a reset code to the account's address.
func (h *AuthController) ForgetPassword(c *fiber.Ctx) error {
	var req authTypes.ForgetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := req.Validate(); err != nil {
		return respond(c, fiber.StatusBadRequest, "email is required", nil)
	}

	var acc accountModel.Account
	if err := h.DB.Where("email = ?", req.Email).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond(c, fiber.StatusNotFound, "user not found", nil)
		}
		return serverError(c, "Database error while fetching account", err)
	}

	if _, err := h.OTP.IssueEmailCode(&acc, otpModel.PurposePasswordReset); err != nil {
		return serverError(c, "Failed to issue reset code", err)
	}

	return respond(c, fiber.StatusOK, "Verification code sent successfully", nil)
}

// VerifyReset is the second step: it redeems the emailed code, marking it
// verified so ResetPassword can proceed.
func (h *AuthController) VerifyReset(c *fiber.Ctx) error {
	var req authTypes.VerifyResetRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := req.Validate(); err != nil {
		return respond(c, fiber.StatusBadRequest, "please fill the inputs", nil)
	}

	var acc accountModel.Account
	if err := h.DB.Where("email = ?", req.Email).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond(c, fiber.StatusNotFound, "user not found", nil)
		}
		return serverError(c, "Database error while fetching account", err)
	}

	if _, err := h.OTP.Redeem(acc.ID, otpModel.PurposePasswordReset, req.Code); err != nil {
		return h.respondCodeError(c, err)
	}

	return respond(c, fiber.StatusOK, "Verification code is correct, proceed to reset password", nil)
}

// ResetPassword is the third step. It refuses to touch the password unless
// the most recent reset code for the account has been verified.
func (h *AuthController) ResetPassword(c *fiber.Ctx) error {
	var req authTypes.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := req.Validate(); err != nil {
		return respond(c, fiber.StatusBadRequest, "Please enter your new password", nil)
	}

	if req.NewPassword != req.Confirm {
		return respond(c, fiber.StatusBadRequest, "The password must match confirm password", nil)
	}

	var acc accountModel.Account
	if err := h.DB.Where("email = ?", req.Email).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond(c, fiber.StatusNotFound, "user not found", nil)
		}
		return serverError(c, "Database error while fetching account", err)
	}

	if err := h.OTP.RequireVerified(acc.ID, otpModel.PurposePasswordReset); err != nil {
		return h.respondCodeError(c, err)
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return serverError(c, "Failed to hash password", err)
	}

	if err := h.DB.Model(&acc).Update("password", hash).Error; err != nil {
		return serverError(c, "Failed to update password", err)
	}

	logger.Success("Password reset completed. uuid: " + acc.Uuid)
	return respond(c, fiber.StatusOK, "password changed successfully", nil)
}

// respondCodeError maps OTP service errors onto the HTTP taxonomy.
func (h *AuthController) respondCodeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, otpService.ErrNotFound):
		return respond(c, fiber.StatusNotFound, "No verification code registered", nil)
	case errors.Is(err, otpService.ErrExpired):
		return respond(c, fiber.StatusBadRequest, "Verification code expired", nil)
	case errors.Is(err, otpService.ErrMismatch):
		return respond(c, fiber.StatusBadRequest, "Verification code incorrect", nil)
	case errors.Is(err, otpService.ErrNotVerified):
		return respond(c, fiber.StatusBadRequest, "Not verified", nil)
	default:
		return serverError(c, "Code redemption failed", err)
	}
}
