package auth

import (
	"context"

	"github.com/splitledger/splitledger/internal/models"
)

// Authenticator defines the interface for credential implementations.
// This abstraction allows swapping between different auth methods (password,
// passkeys, OAuth, etc.) without changing the service layer code.
type Authenticator interface {
	// Register creates a new account under username with the given
	// credential, role, and declared groups. Returns the created user or an
	// error if the username is taken or the credential is rejected.
	Register(ctx context.Context, username, credential, role string, groups []string) (*models.User, error)

	// Authenticate verifies the credentials and returns the user on success.
	// The failure is deliberately generic: it does not distinguish an
	// unknown username from a wrong credential.
	Authenticate(ctx context.Context, username, credential string) (*models.User, error)

	// Get returns the user record for username, or nil when absent.
	Get(ctx context.Context, username string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's
	// requirements (length, complexity, format, ...).
	ValidateCredential(credential string) error
}
