package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"markiz-admin/config"
	"markiz-admin/database"
	"markiz-admin/models/account"
	"markiz-admin/services/token"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newGateFixture(t *testing.T) (*fiber.App, *gorm.DB, *token.Service) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	tokens := token.NewService(&config.Config{
		JWTAccessSecret:  "access-secret",
		JWTRefreshSecret: "refresh-secret",
		AccessTokenTTL:   15 * time.Minute,
		RefreshTokenTTL:  720 * time.Hour,
	})

	app := fiber.New()
	app.Get("/open", RequireAuth(tokens), func(c *fiber.Ctx) error {
		id, _ := AccountID(c)
		return c.JSON(fiber.Map{"account_id": id})
	})
	app.Get("/admin-only", RequireAuth(tokens), RequireRoles(db, account.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/staff", RequireAuth(tokens), RequireRoles(db, account.RoleAdmin, account.RoleTeacher), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	return app, db, tokens
}

var rolePhones = map[account.Role]string{
	account.RoleAdmin:   "+252600000001",
	account.RoleTeacher: "+252600000002",
	account.RoleStudent: "+252600000003",
	account.RoleParent:  "+252600000004",
}

func seedRoleAccount(t *testing.T, db *gorm.DB, role account.Role) *account.Account {
	t.Helper()
	acc := &account.Account{
		Uuid:     "uuid-" + string(role),
		FullName: "Gate Test",
		Email:    string(role) + "@x.com",
		Phone:    rolePhones[role],
		Password: "irrelevant",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(acc).Error)
	return acc
}

func doRequest(t *testing.T, app *fiber.App, path, bearer string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func TestRequireAuthMissingHeader(t *testing.T) {
	app, _, _ := newGateFixture(t)

	resp, body := doRequest(t, app, "/open", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Please log in to continue", body["message"])
}

func TestRequireAuthBadToken(t *testing.T) {
	app, _, _ := newGateFixture(t)

	resp, body := doRequest(t, app, "/open", "not-a-token")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Unauthorized", body["message"])
}

func TestRequireAuthBindsAccountID(t *testing.T) {
	app, db, tokens := newGateFixture(t)
	acc := seedRoleAccount(t, db, account.RoleStudent)

	signed, err := tokens.IssueAccessToken(acc.ID)
	require.NoError(t, err)

	resp, body := doRequest(t, app, "/open", signed)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(acc.ID), body["account_id"])
}

func TestRequireRoles(t *testing.T) {
	app, db, tokens := newGateFixture(t)

	admin := seedRoleAccount(t, db, account.RoleAdmin)
	teacher := seedRoleAccount(t, db, account.RoleTeacher)
	student := seedRoleAccount(t, db, account.RoleStudent)

	adminToken, err := tokens.IssueAccessToken(admin.ID)
	require.NoError(t, err)
	teacherToken, err := tokens.IssueAccessToken(teacher.ID)
	require.NoError(t, err)
	studentToken, err := tokens.IssueAccessToken(student.ID)
	require.NoError(t, err)

	resp, _ := doRequest(t, app, "/admin-only", adminToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := doRequest(t, app, "/admin-only", teacherToken)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Forbidden: your role is not allowed to access this resource", body["message"])

	resp, _ = doRequest(t, app, "/staff", teacherToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doRequest(t, app, "/staff", studentToken)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRolesUnknownAccount(t *testing.T) {
	app, _, tokens := newGateFixture(t)

	// Valid token for an account that no longer exists.
	signed, err := tokens.IssueAccessToken(9999)
	require.NoError(t, err)

	resp, body := doRequest(t, app, "/admin-only", signed)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Please log in to continue", body["message"])
}
