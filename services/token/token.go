package token

import (
	"errors"
	"fmt"
	"time"

	"markiz-admin/config"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature, malformed
// token, wrong signing method, expiry. Callers map it to 401 without
// distinguishing the cause.
var ErrInvalidToken = errors.New("invalid or expired token")

// Service issues and verifies the stateless token pair. Access tokens are
// short-lived; refresh tokens live long and are signed with a distinct
// secret. There is no server-side revocation list: logout clears cookies but
// cannot invalidate a token a client kept elsewhere.
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		accessSecret:  []byte(cfg.JWTAccessSecret),
		refreshSecret: []byte(cfg.JWTRefreshSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}
}

// IssueAccessToken signs a short-lived token bound to the account id.
func (s *Service) IssueAccessToken(accountID uint) (string, error) {
	return s.issue(accountID, s.accessSecret, s.accessTTL)
}

// IssueRefreshToken signs a long-lived token bound to the account id. A
// refresh exchange never extends this token's own expiry.
func (s *Service) IssueRefreshToken(accountID uint) (string, error) {
	return s.issue(accountID, s.refreshSecret, s.refreshTTL)
}

func (s *Service) issue(accountID uint, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": fmt.Sprintf("%d", accountID),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyAccessToken returns the account id bound to a valid access token.
func (s *Service) VerifyAccessToken(tokenString string) (uint, error) {
	return s.verify(tokenString, s.accessSecret)
}

// VerifyRefreshToken returns the account id bound to a valid refresh token.
func (s *Service) VerifyRefreshToken(tokenString string) (uint, error) {
	return s.verify(tokenString, s.refreshSecret)
}

func (s *Service) verify(tokenString string, secret []byte) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, ErrInvalidToken
	}

	var accountID uint
	if _, err := fmt.Sscanf(sub, "%d", &accountID); err != nil || accountID == 0 {
		return 0, ErrInvalidToken
	}
	return accountID, nil
}
