package auth

import (
	"errors"
	"fmt"
	"math"

	"markiz-admin/logger"
	"markiz-admin/middleware"
	accountModel "markiz-admin/models/account"
	"markiz-admin/types"
	authTypes "markiz-admin/types/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func (h *AuthController) findAccountByID(c *fiber.Ctx, id uint) (*accountModel.Account, error) {
	var acc accountModel.Account
	if err := h.DB.First(&acc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, respond(c, fiber.StatusNotFound, "user not found", nil)
		}
		return nil, serverError(c, "Database error while fetching account", err)
	}
	return &acc, nil
}

// SoftDelete deactivates an account without removing the row.
func (h *AuthController) SoftDelete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respond(c, fiber.StatusBadRequest, "you must provide ID", nil)
	}

	acc, respErr := h.findAccountByID(c, uint(id))
	if acc == nil {
		return respErr
	}

	if !acc.IsActive {
		return respond(c, fiber.StatusBadRequest, "user already deleted", nil)
	}

	if err := h.DB.Model(acc).Update("is_active", false).Error; err != nil {
		return serverError(c, "Failed to deactivate account", err)
	}

	return respond(c, fiber.StatusOK, "user successfully deleted", nil)
}

// RecycleBin lists deactivated accounts.
func (h *AuthController) RecycleBin(c *fiber.Ctx) error {
	var deleted []accountModel.Account
	if err := h.DB.Where("is_active = ?", false).Find(&deleted).Error; err != nil {
		return serverError(c, "Database error while listing deleted accounts", err)
	}

	if len(deleted) == 0 {
		return respond(c, fiber.StatusNotFound, "No deleted user", nil)
	}

	return respond(c, fiber.StatusOK, "deleted users", deleted)
}

// Restore reactivates a soft-deleted account.
func (h *AuthController) Restore(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respond(c, fiber.StatusBadRequest, "you must provide ID", nil)
	}

	acc, respErr := h.findAccountByID(c, uint(id))
	if acc == nil {
		return respErr
	}

	if acc.IsActive {
		return respond(c, fiber.StatusBadRequest, "user is not deleted", nil)
	}

	if err := h.DB.Model(acc).Update("is_active", true).Error; err != nil {
		return serverError(c, "Failed to restore account", err)
	}

	return respond(c, fiber.StatusOK, "user successfully restored", nil)
}

// UpdateByAdmin lets an admin rewrite another account's profile fields.
func (h *AuthController) UpdateByAdmin(c *fiber.Ctx) error {
	var req authTypes.UpdateByAdminRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := req.Validate(); err != nil {
		return respond(c, fiber.StatusBadRequest, "please fill all inputs", nil)
	}

	acc, respErr := h.findAccountByID(c, req.ID)
	if acc == nil {
		return respErr
	}

	updates := map[string]interface{}{
		"full_name": req.FullName,
		"phone":     req.Phone,
		"role":      req.Role,
	}
	if err := h.DB.Model(acc).Updates(updates).Error; err != nil {
		return serverError(c, "Failed to update account", err)
	}

	return respond(c, fiber.StatusOK, "Successfully updated", nil)
}

// UpdateSelf lets the caller edit their own profile.
func (h *AuthController) UpdateSelf(c *fiber.Ctx) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return respond(c, fiber.StatusUnauthorized, "Unauthorized", nil)
	}

	var req authTypes.UpdateSelfRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := req.Validate(); err != nil {
		return respond(c, fiber.StatusBadRequest, "please fill all inputs", nil)
	}

	acc, respErr := h.findAccountByID(c, accountID)
	if acc == nil {
		return respErr
	}

	updates := map[string]interface{}{
		"full_name": req.FullName,
		"email":     req.Email,
		"phone":     req.Phone,
	}
	if err := h.DB.Model(acc).Updates(updates).Error; err != nil {
		return serverError(c, "Failed to update account", err)
	}

	var updated accountModel.Account
	if err := h.DB.First(&updated, accountID).Error; err != nil {
		return serverError(c, "Database error while fetching account", err)
	}
	return respond(c, fiber.StatusOK, "Successfully updated", updated)
}

// ChangeName updates only the caller's display name.
func (h *AuthController) ChangeName(c *fiber.Ctx) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return respond(c, fiber.StatusUnauthorized, "user ID is not provided", nil)
	}

	var req authTypes.ChangeNameRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := req.Validate(); err != nil {
		return respond(c, fiber.StatusBadRequest, "Please enter a valid name", nil)
	}

	if err := h.DB.Model(&accountModel.Account{}).Where("id = ?", accountID).
		Update("full_name", req.FullName).Error; err != nil {
		return serverError(c, "Failed to update name", err)
	}

	return respond(c, fiber.StatusOK, "Successfully changed your name", nil)
}

// ChangeRole moves an account to a different role.
func (h *AuthController) ChangeRole(c *fiber.Ctx) error {
	var req authTypes.ChangeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := req.Validate(); err != nil {
		return respond(c, fiber.StatusBadRequest, "user ID is not provided", nil)
	}

	acc, respErr := h.findAccountByID(c, req.ID)
	if acc == nil {
		return respErr
	}

	if acc.Role == accountModel.Role(req.Role) {
		return respond(c, fiber.StatusBadRequest, fmt.Sprintf("user role is already %s", req.Role), nil)
	}

	if err := h.DB.Model(acc).Update("role", req.Role).Error; err != nil {
		return serverError(c, "Failed to change role", err)
	}

	return respond(c, fiber.StatusOK, fmt.Sprintf("user successfully changed role to: %s", req.Role), nil)
}

// HardDelete removes an account permanently. Admin only; the soft-delete path
// is the normal one.
func (h *AuthController) HardDelete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respond(c, fiber.StatusBadRequest, "user ID is not provided", nil)
	}

	acc, respErr := h.findAccountByID(c, uint(id))
	if acc == nil {
		return respErr
	}

	if err := h.DB.Delete(acc).Error; err != nil {
		return serverError(c, "Failed to delete account", err)
	}

	return respond(c, fiber.StatusOK, fmt.Sprintf("user %d deleted permanently", acc.ID), nil)
}

// DeleteSelf removes the caller's own account permanently.
func (h *AuthController) DeleteSelf(c *fiber.Ctx) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return respond(c, fiber.StatusBadRequest, "user ID is not provided", nil)
	}

	acc, respErr := h.findAccountByID(c, accountID)
	if acc == nil {
		return respErr
	}

	if err := h.DB.Delete(acc).Error; err != nil {
		return serverError(c, "Failed to delete account", err)
	}

	return respond(c, fiber.StatusOK, fmt.Sprintf("user %d deleted permanently", acc.ID), nil)
}

// GetAll lists accounts with pagination plus status/role filters and
// active/suspended summary counts.
func (h *AuthController) GetAll(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}
	status := c.Query("status", "all")
	role := c.Query("role", "all")

	query := h.DB.Model(&accountModel.Account{})
	switch status {
	case "active":
		query = query.Where("is_active = ?", true)
	case "suspend":
		query = query.Where("is_active = ?", false)
	}
	if r := accountModel.Role(role); r.IsValid() {
		query = query.Where("role = ?", r)
	}

	var total, activeCount, suspendCount int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return serverError(c, "Database error while counting accounts", err)
	}
	if err := query.Session(&gorm.Session{}).Where("is_active = ?", true).Count(&activeCount).Error; err != nil {
		return serverError(c, "Database error while counting active accounts", err)
	}
	if err := query.Session(&gorm.Session{}).Where("is_active = ?", false).Count(&suspendCount).Error; err != nil {
		return serverError(c, "Database error while counting suspended accounts", err)
	}

	var accounts []accountModel.Account
	if err := query.Session(&gorm.Session{}).
		Offset((page - 1) * limit).Limit(limit).
		Find(&accounts).Error; err != nil {
		return serverError(c, "Database error while listing accounts", err)
	}

	totalPages := int64(0)
	if total > 0 {
		totalPages = int64(math.Ceil(float64(total) / float64(limit)))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"users":         accounts,
		"number":        total,
		"active_count":  activeCount,
		"suspend_count": suspendCount,
		"pagination": types.Pagination{
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	})
}

// GetSingle returns one account by id.
func (h *AuthController) GetSingle(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respond(c, fiber.StatusBadRequest, "you must provide ID", nil)
	}

	acc, respErr := h.findAccountByID(c, uint(id))
	if acc == nil {
		return respErr
	}

	return respond(c, fiber.StatusOK, "user found", acc)
}
