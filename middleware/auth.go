package middleware

import (
	"errors"
	"strings"

	"markiz-admin/models/account"
	"markiz-admin/services/token"
	"markiz-admin/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AccountIDKey is the Locals key RequireAuth stores the authenticated account
// id under.
const AccountIDKey = "accountID"

const loginMessage = "Please log in to continue"

// RequireAuth verifies the bearer access token and binds the account id to
// the request. Every failure mode is a 401; the role gate below never runs
// without this in front.
func RequireAuth(tokens *token.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: loginMessage,
				Status:  fiber.StatusUnauthorized,
			})
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: loginMessage,
				Status:  fiber.StatusUnauthorized,
			})
		}

		accountID, err := tokens.VerifyAccessToken(tokenParts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: "Unauthorized",
				Status:  fiber.StatusUnauthorized,
			})
		}

		c.Locals(AccountIDKey, accountID)
		return c.Next()
	}
}

// AccountID returns the authenticated account id bound by RequireAuth, or
// false when the request carried none.
func AccountID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(AccountIDKey).(uint)
	return id, ok && id != 0
}

// RequireRoles gates a route on an allow-list of roles. Missing identity is
// 401 (unauthenticated); a known account with the wrong role is 403.
func RequireRoles(db *gorm.DB, roles ...account.Role) fiber.Handler {
	allowed := make(map[account.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *fiber.Ctx) error {
		accountID, ok := AccountID(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: loginMessage,
				Status:  fiber.StatusUnauthorized,
			})
		}

		var acc account.Account
		if err := db.First(&acc, accountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
					Message: loginMessage,
					Status:  fiber.StatusUnauthorized,
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
				Message: "Oops! something went wrong please try again!",
				Status:  fiber.StatusInternalServerError,
			})
		}

		if !allowed[acc.Role] {
			return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
				Message: "Forbidden: your role is not allowed to access this resource",
				Status:  fiber.StatusForbidden,
			})
		}

		return c.Next()
	}
}
