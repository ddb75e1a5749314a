package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/splitledger/splitledger/internal/auth"
)

// claimsKey is the gin context key the verified claims are stored under.
const claimsKey = "auth_claims"

// GetClaims extracts the verified token claims from the request context.
// Returns nil if the request did not pass RequireAuth.
func GetClaims(c *gin.Context) *auth.Claims {
	value, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*auth.Claims)
	return claims
}

// Username extracts the authenticated username from the request context.
// Returns empty string if not authenticated.
func Username(c *gin.Context) string {
	if claims := GetClaims(c); claims != nil {
		return claims.Subject
	}
	return ""
}

// BearerToken pulls the raw bearer token from the Authorization header.
func BearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", auth.ErrMissingToken
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || token == "" {
		return "", auth.ErrInvalidToken
	}
	return token, nil
}

// RequireAuth verifies the bearer access token and stores its claims on the
// context. Expired and malformed tokens are rejected with 401, as are
// refresh tokens: they may only be exchanged at the refresh endpoint, never
// presented as access credentials.
func RequireAuth(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := BearerToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		claims, err := jwtManager.Verify(token)
		if err != nil {
			status := "Invalid token"
			if errors.Is(err, auth.ErrTokenExpired) {
				status = "Token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": status})
			return
		}
		if claims.TokenType != auth.TokenTypeAccess {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRoles rejects the request with 403 unless the authenticated user
// holds at least one of the required roles. Must run after RequireAuth.
func RequireRoles(required ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrMissingToken.Error()})
			return
		}

		for _, want := range required {
			for _, have := range claims.Roles {
				if have == want {
					c.Next()
					return
				}
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient role"})
	}
}
