// Package handlers maps the HTTP surface onto the service layer and
// translates domain errors into status codes.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/splitledger/splitledger/internal/auth"
	"github.com/splitledger/splitledger/internal/middleware"
	"github.com/splitledger/splitledger/internal/service"
)

// AuthHandler serves registration, login, token refresh, and the
// role-gated user listing.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /register with form fields username, password,
// role (optional, defaults to "user"), and groups (optional, comma-separated).
func (h *AuthHandler) Register(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	role := c.DefaultPostForm("role", "user")
	groups := splitGroups(c.PostForm("groups"))

	if username == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, warnings, err := h.auth.Register(c.Request.Context(), username, password, role, groups)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
		case errors.Is(err, auth.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		}
		return
	}

	resp := gin.H{
		"msg":      "User registered successfully",
		"username": user.Username,
		"roles":    user.Roles,
		"groups":   user.Groups,
	}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	c.JSON(http.StatusOK, resp)
}

// Login handles POST /login with form fields username and password and
// returns an access/refresh token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	accessToken, refreshToken, err := h.auth.Login(c.Request.Context(), username, password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"token_type":    "bearer",
	})
}

// Refresh handles POST /refresh. The bearer token must be a refresh token;
// access tokens and expired tokens are rejected with 401.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, err := middleware.BearerToken(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	accessToken, err := h.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrWrongTokenType):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		case errors.Is(err, auth.ErrTokenExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
		default:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": accessToken,
		"token_type":   "bearer",
	})
}

// Protected handles GET /protected, a smoke endpoint proving the access
// token is valid.
func (h *AuthHandler) Protected(c *gin.Context) {
	claims := middleware.GetClaims(c)
	c.JSON(http.StatusOK, gin.H{
		"msg":   fmt.Sprintf("Hello %s", claims.Subject),
		"roles": claims.Roles,
	})
}

// ListUsers handles GET /admin/users. Role gating happens in middleware;
// password hashes never serialize.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.auth.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	summary := make(map[string]gin.H, len(users))
	for _, user := range users {
		summary[user.Username] = gin.H{
			"roles":  user.Roles,
			"groups": user.Groups,
		}
	}
	c.JSON(http.StatusOK, gin.H{"users": summary})
}

// splitGroups parses the comma-separated groups form field, dropping empty
// entries.
func splitGroups(raw string) []string {
	groups := []string{}
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			groups = append(groups, name)
		}
	}
	return groups
}
