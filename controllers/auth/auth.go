package auth

import (
	"errors"
	"strings"

	"markiz-admin/config"
	"markiz-admin/logger"
	"markiz-admin/middleware"
	accountModel "markiz-admin/models/account"
	"markiz-admin/services/email"
	otpService "markiz-admin/services/otp"
	"markiz-admin/services/token"
	"markiz-admin/types"
	authTypes "markiz-admin/types/auth"
	"markiz-admin/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const serverErrorMessage = "Oops! something went wrong please try again!"

// AuthController handles registration, login and the whole account lifecycle.
type AuthController struct {
	DB         *gorm.DB
	Tokens     *token.Service
	OTP        *otpService.Service
	Email      email.Sender
	Logger     *logger.AsyncLogger
	AdminEmail string
	Production bool
}

func NewAuthController(db *gorm.DB, tokens *token.Service, otp *otpService.Service, emailSender email.Sender, asyncLogger *logger.AsyncLogger, cfg *config.Config) *AuthController {
	return &AuthController{
		DB:         db,
		Tokens:     tokens,
		OTP:        otp,
		Email:      emailSender,
		Logger:     asyncLogger,
		AdminEmail: cfg.EmailFrom,
		Production: cfg.IsProduction(),
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

// setSecureCookie sets token cookies; Secure only in production (HTTPS).
func (h *AuthController) setSecureCookie(c *fiber.Ctx, name, value string, maxAge int) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		HTTPOnly: true,
		Secure:   h.Production,
		SameSite: "Strict",
		MaxAge:   maxAge,
		Path:     "/",
	})
}

// Register creates a new account. It never auto-logs the caller in; tokens
// are only issued by an explicit login.
func (h *AuthController) Register(c *fiber.Ctx) error {
	var req authTypes.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}

	if err := req.Validate(); err != nil {
		return respond(c, fiber.StatusBadRequest, "Please fill all inputs", nil)
	}

	if !utils.ValidatePhoneNumber(req.Phone) {
		return respond(c, fiber.StatusBadRequest, "Please enter a valid phone number", nil)
	}

	// Duplicate checks fail when a match IS found.
	var existing accountModel.Account
	err := h.DB.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return respond(c, fiber.StatusBadRequest, "email already exists", nil)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return serverError(c, "Database error while checking email", err)
	}

	err = h.DB.Where("phone = ?", req.Phone).First(&existing).Error
	if err == nil {
		return respond(c, fiber.StatusBadRequest, "phone already exists", nil)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return serverError(c, "Database error while checking phone", err)
	}

	if req.Password != req.Confirm {
		return respond(c, fiber.StatusBadRequest, "The password must match confirm password", nil)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return serverError(c, "Failed to hash password", err)
	}

	newAccount := accountModel.Account{
		Uuid:     uuid.NewString(),
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: hash,
		Role:     accountModel.Role(req.Role),
		IsActive: true,
	}

	if err := h.DB.Create(&newAccount).Error; err != nil {
		return serverError(c, "Failed to create account", err)
	}

	h.Logger.Log(utils.CreateSanitizedLogEntry(c))
	logger.Success("Account registered successfully. uuid: " + newAccount.Uuid)
	return respond(c, fiber.StatusCreated, "Successfully Created", newAccount)
}

// Login checks credentials and issues the access/refresh token pair. A
// missing account and a wrong password answer identically so callers cannot
// enumerate registered emails.
func (h *AuthController) Login(c *fiber.Ctx) error {
	var req authTypes.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}

	if err := req.Validate(); err != nil {
		return respond(c, fiber.StatusBadRequest, "Please fill all inputs", nil)
	}

	var acc accountModel.Account
	if err := h.DB.Where("email = ?", req.Email).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond(c, fiber.StatusBadRequest, "email or password incorrect", nil)
		}
		return serverError(c, "Database error while fetching account", err)
	}

	match, err := utils.VerifyPassword(acc.Password, req.Password)
	if err != nil {
		return serverError(c, "Failed to verify password", err)
	}
	if !match {
		return respond(c, fiber.StatusBadRequest, "email or password incorrect", nil)
	}

	if !acc.IsActive {
		return respond(c, fiber.StatusBadRequest, "Your account is disabled. Contact the administrator to reactivate it.", nil)
	}

	accessToken, err := h.Tokens.IssueAccessToken(acc.ID)
	if err != nil {
		return serverError(c, "Failed to issue access token", err)
	}
	refreshToken, err := h.Tokens.IssueRefreshToken(acc.ID)
	if err != nil {
		return serverError(c, "Failed to issue refresh token", err)
	}

	if err := h.DB.Model(&acc).Update("is_logged_in", true).Error; err != nil {
		logger.Error("Failed to flag login state", err)
	}

	h.setSecureCookie(c, "access", accessToken, 15*60)
	h.setSecureCookie(c, "refresh", refreshToken, 30*24*60*60)

	h.Logger.Log(utils.CreateSanitizedLogEntry(c))
	logger.Success("Account logged in successfully. uuid: " + acc.Uuid)
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Successfully Login",
		Status:  fiber.StatusOK,
		Token:   accessToken,
		Data: fiber.Map{
			"user":          acc,
			"refresh_token": refreshToken,
		},
	})
}

// Logout flips the login flag and expires the token cookies. The tokens
// themselves stay valid until their natural expiry; that limitation is part
// of the stateless design.
func (h *AuthController) Logout(c *fiber.Ctx) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return respond(c, fiber.StatusUnauthorized, "Unauthorized", nil)
	}

	if err := h.DB.Model(&accountModel.Account{}).Where("id = ?", accountID).
		Update("is_logged_in", false).Error; err != nil {
		return serverError(c, "Failed to clear login state", err)
	}

	h.setSecureCookie(c, "access", "", -1)
	h.setSecureCookie(c, "refresh", "", -1)

	logger.Success("Logout successful")
	return respond(c, fiber.StatusOK, "Logout successful", nil)
}

// Refresh exchanges a valid refresh token for a fresh access token. The
// refresh token's own expiry is never extended. Any verification failure is a
// 401, never a 500.
func (h *AuthController) Refresh(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return respond(c, fiber.StatusUnauthorized, "Unauthorized - no refresh token provided", nil)
	}

	refreshToken := strings.TrimPrefix(authHeader, "Bearer ")
	accountID, err := h.Tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return respond(c, fiber.StatusUnauthorized, "Unauthorized - invalid or expired refresh token", nil)
	}

	accessToken, err := h.Tokens.IssueAccessToken(accountID)
	if err != nil {
		return serverError(c, "Failed to issue access token", err)
	}

	h.setSecureCookie(c, "access", accessToken, 15*60)
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Token refreshed",
		Status:  fiber.StatusOK,
		Token:   accessToken,
	})
}

// Whoami returns the profile bound to the access token.
func (h *AuthController) Whoami(c *fiber.Ctx) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return respond(c, fiber.StatusUnauthorized, "Unauthorized", nil)
	}

	var acc accountModel.Account
	if err := h.DB.First(&acc, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond(c, fiber.StatusNotFound, "user not found", nil)
		}
		return serverError(c, "Database error while fetching account", err)
	}

	return respond(c, fiber.StatusOK, "found user", acc)
}
