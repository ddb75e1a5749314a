package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/splitledger/splitledger/internal/auth"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// AuthService orchestrates registration, login, and token refresh on top of
// the credential store and the token manager.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	groups        *GroupService
	store         storage.Store
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, groups *GroupService, store storage.Store, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		groups:        groups,
		store:         store,
		logger:        logger,
	}
}

// Register creates a new user account. Declared groups that already exist
// gain the user as a member (with a split recompute and a fresh unpaid
// payment); unknown group names stay declared on the user only, no skeleton
// group is created for them.
//
// The user row is committed before the joins run, so a failed join must not
// fail the registration. Names that could not be joined for reasons other
// than absence come back as warnings for the caller to surface.
func (s *AuthService) Register(ctx context.Context, username, password, role string, groupNames []string) (*models.User, []string, error) {
	user, err := s.authenticator.Register(ctx, username, password, role, groupNames)
	if err != nil {
		s.logger.Warn("Registration failed", "username", username, "error", err)
		return nil, nil, err
	}

	var warnings []string
	for _, name := range groupNames {
		if _, err := s.groups.AddMember(ctx, name, username); err != nil {
			if errors.Is(err, ErrGroupNotFound) {
				continue
			}
			s.logger.Warn("Group join failed during registration", "username", username, "group", name, "error", err)
			warnings = append(warnings, fmt.Sprintf("could not join group '%s'", name))
		}
	}

	s.logger.Info("User registered", "username", user.Username, "roles", user.Roles, "groups", user.Groups)
	return user, warnings, nil
}

// Login verifies credentials and issues an access/refresh token pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (accessToken, refreshToken string, err error) {
	user, err := s.authenticator.Authenticate(ctx, username, password)
	if err != nil {
		s.logger.Warn("Login failed", "username", username)
		return "", "", err
	}

	accessToken, err = s.jwtManager.IssueAccessToken(user)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = s.jwtManager.IssueRefreshToken(user)
	if err != nil {
		return "", "", err
	}

	s.logger.Info("User logged in", "username", username)
	return accessToken, refreshToken, nil
}

// Refresh exchanges a refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	accessToken, err := s.jwtManager.Refresh(refreshToken)
	if err != nil {
		s.logger.Warn("Token refresh rejected", "error", err)
		return "", err
	}
	return accessToken, nil
}

// ListUsers returns every registered user. Gated to admins at the transport
// layer; password hashes never leave the models' JSON boundary.
func (s *AuthService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.store.ListUsers(ctx)
}
