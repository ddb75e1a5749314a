package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/splitledger/splitledger/internal/models"
)

// Token types carried in the token_type claim. Access tokens are short-lived
// request credentials; refresh tokens may only be exchanged for new access
// tokens, never presented as access tokens themselves.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrMissingToken   = errors.New("authorization token required")
	ErrWrongTokenType = errors.New("invalid refresh token")
)

// Claims is the fixed claims payload for every issued token.
// Tokens missing the token type (or carrying an unknown one) are rejected at
// verification time instead of defaulting silently.
type Claims struct {
	Roles     []string `json:"roles"`
	Groups    []string `json:"groups"`
	TokenType string   `json:"token_type"`
	jwt.RegisteredClaims
}

// JWTManager mints and verifies signed, expiring tokens.
type JWTManager struct {
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTManager creates a token manager signing with HMAC-SHA256.
// accessTTL is typically minutes (default 30m), refreshTTL days (default 7d).
func NewJWTManager(secretKey string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:  []byte(secretKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccessToken mints a short-lived access token for the user.
func (m *JWTManager) IssueAccessToken(user *models.User) (string, error) {
	return m.issue(user.Username, user.Roles, user.Groups, TokenTypeAccess, m.accessTTL)
}

// IssueRefreshToken mints a long-lived refresh token for the user.
func (m *JWTManager) IssueRefreshToken(user *models.User) (string, error) {
	return m.issue(user.Username, user.Roles, user.Groups, TokenTypeRefresh, m.refreshTTL)
}

func (m *JWTManager) issue(subject string, roles, groups []string, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Roles:     roles,
		Groups:    groups,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses the token, checks the signature and expiry, and returns the
// claims. Expired tokens fail with ErrTokenExpired, anything else malformed
// with ErrInvalidToken.
func (m *JWTManager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if claims.TokenType != TokenTypeAccess && claims.TokenType != TokenTypeRefresh {
		return nil, fmt.Errorf("%w: missing token type", ErrInvalidToken)
	}
	return claims, nil
}

// Refresh exchanges a valid refresh token for a new access token carrying
// the same subject, roles, and groups. Presenting an access token here fails
// with ErrWrongTokenType. Refresh tokens are not rotated; reuse is allowed
// until natural expiry.
func (m *JWTManager) Refresh(refreshToken string) (string, error) {
	claims, err := m.Verify(refreshToken)
	if err != nil {
		return "", err
	}
	if claims.TokenType != TokenTypeRefresh {
		return "", ErrWrongTokenType
	}
	return m.issue(claims.Subject, claims.Roles, claims.Groups, TokenTypeAccess, m.accessTTL)
}
