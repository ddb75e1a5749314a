package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/splitledger/splitledger/internal/models"
)

// fakeUserStore is an in-memory UserStorage for authenticator tests.
type fakeUserStore struct {
	users map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *models.User) error {
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserStore) GetUser(_ context.Context, username string) (*models.User, error) {
	return f.users[username], nil
}

func TestRegisterHashesPassword(t *testing.T) {
	store := newFakeUserStore()
	a := NewPasswordAuthenticator(store)
	ctx := context.Background()

	user, err := a.Register(ctx, "alice", "correct-horse", "", []string{"trip"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if user.PasswordHash == "correct-horse" {
		t.Error("password stored in plaintext")
	}
	if user.PasswordHash == "" {
		t.Error("expected a password hash")
	}
	if len(user.Roles) != 1 || user.Roles[0] != models.DefaultRole {
		t.Errorf("roles = %v, want [%s]", user.Roles, models.DefaultRole)
	}
	if len(user.Groups) != 1 || user.Groups[0] != "trip" {
		t.Errorf("groups = %v, want [trip]", user.Groups)
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	a := NewPasswordAuthenticator(newFakeUserStore())
	ctx := context.Background()

	if _, err := a.Register(ctx, "alice", "correct-horse", "user", nil); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := a.Register(ctx, "alice", "battery-staple", "user", nil); !errors.Is(err, ErrUserExists) {
		t.Errorf("expected ErrUserExists, got %v", err)
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	a := NewPasswordAuthenticator(newFakeUserStore())

	if _, err := a.Register(context.Background(), "alice", "short", "user", nil); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	a := NewPasswordAuthenticator(newFakeUserStore())
	ctx := context.Background()

	if _, err := a.Register(ctx, "alice", "correct-horse", "user", nil); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	t.Run("correct password succeeds", func(t *testing.T) {
		user, err := a.Authenticate(ctx, "alice", "correct-horse")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if user.Username != "alice" {
			t.Errorf("username = %q, want %q", user.Username, "alice")
		}
	})

	t.Run("wrong password fails", func(t *testing.T) {
		if _, err := a.Authenticate(ctx, "alice", "battery-staple"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown user fails with the same error", func(t *testing.T) {
		if _, err := a.Authenticate(ctx, "mallory", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}
