package token

import (
	"testing"
	"time"

	"markiz-admin/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTAccessSecret:  "access-secret",
		JWTRefreshSecret: "refresh-secret",
		AccessTokenTTL:   15 * time.Minute,
		RefreshTokenTTL:  720 * time.Hour,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewService(testConfig())

	signed, err := svc.IssueAccessToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	accountID, err := svc.VerifyAccessToken(signed)
	require.NoError(t, err)
	assert.Equal(t, uint(42), accountID)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc := NewService(testConfig())

	signed, err := svc.IssueRefreshToken(7)
	require.NoError(t, err)

	accountID, err := svc.VerifyRefreshToken(signed)
	require.NoError(t, err)
	assert.Equal(t, uint(7), accountID)
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	svc := NewService(testConfig())

	access, err := svc.IssueAccessToken(1)
	require.NoError(t, err)
	refresh, err := svc.IssueRefreshToken(1)
	require.NoError(t, err)

	_, err = svc.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	cfg := testConfig()
	cfg.AccessTokenTTL = -time.Minute
	svc := NewService(cfg)

	signed, err := svc.IssueAccessToken(3)
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestWrongSecretRejected(t *testing.T) {
	svc := NewService(testConfig())

	other := testConfig()
	other.JWTAccessSecret = "a completely different secret"
	otherSvc := NewService(other)

	signed, err := svc.IssueAccessToken(9)
	require.NoError(t, err)

	_, err = otherSvc.VerifyAccessToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGarbageTokenRejected(t *testing.T) {
	svc := NewService(testConfig())

	for _, tokenString := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.VerifyAccessToken(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}
