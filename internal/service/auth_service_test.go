package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/splitledger/splitledger/internal/auth"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

func newTestAuthService(t *testing.T) (*AuthService, *GroupService, storage.Store) {
	t.Helper()
	store := newTestStore(t)
	groups := NewGroupService(store)
	jwtManager := auth.NewJWTManager("test-secret-key-for-signing", 30*time.Minute, 7*24*time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)
	return NewAuthService(authenticator, jwtManager, groups, store, slog.Default()), groups, store
}

func TestRegisterJoinsExistingGroups(t *testing.T) {
	svc, groups, store := newTestAuthService(t)
	ctx := context.Background()

	seedUser(t, store, "admin")
	if _, err := groups.CreateGroup(ctx, "trip", "admin", 300.0, true); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	user, warnings, err := svc.Register(ctx, "bob", "correct-horse", "user", []string{"trip", "ghost"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if !user.InGroup("trip") || !user.InGroup("ghost") {
		t.Errorf("declared groups = %v, want trip and ghost", user.Groups)
	}

	// The existing group gained bob as a member with a recomputed split.
	group, err := store.GetGroup(ctx, "trip")
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if !group.HasMember("bob") {
		t.Errorf("expected bob in members, got %v", group.Members)
	}
	if group.SplitAmount != 150.0 {
		t.Errorf("split = %v, want 150.0", group.SplitAmount)
	}
	if group.Payments["bob"] == nil {
		t.Error("expected a payment record for bob")
	}

	// The unknown name stays declared only; no skeleton group appears.
	ghost, err := store.GetGroup(ctx, "ghost")
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if ghost != nil {
		t.Errorf("expected no group to be created, got %+v", ghost)
	}
}

// failingJoinStore breaks group membership writes to exercise the partial
// registration path.
type failingJoinStore struct {
	storage.Store
}

func (s *failingJoinStore) AddGroupMember(ctx context.Context, groupName, username string, splitAmount float64, payment *models.Payment) error {
	return errors.New("disk full")
}

func TestRegisterSurvivesFailedGroupJoin(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedUser(t, store, "admin")
	if _, err := NewGroupService(store).CreateGroup(ctx, "trip", "admin", 300.0, true); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	groups := NewGroupService(&failingJoinStore{Store: store})
	jwtManager := auth.NewJWTManager("test-secret-key-for-signing", 30*time.Minute, 7*24*time.Hour)
	svc := NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, groups, store, slog.Default())

	user, warnings, err := svc.Register(ctx, "bob", "correct-horse", "user", []string{"trip"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user == nil {
		t.Fatal("expected the user despite the failed join")
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want one entry for trip", warnings)
	}

	// The account exists even though the join never landed.
	stored, err := store.GetUser(ctx, "bob")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if stored == nil {
		t.Fatal("expected bob to be persisted")
	}
	group, err := store.GetGroup(ctx, "trip")
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if group.HasMember("bob") {
		t.Errorf("expected bob not to be a member, got %v", group.Members)
	}
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "alice", "correct-horse", "admin", nil); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	access, refresh, err := svc.Login(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("expected both tokens to be issued")
	}

	newAccess, err := svc.Refresh(ctx, refresh)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if newAccess == "" {
		t.Error("expected a new access token")
	}

	if _, err := svc.Refresh(ctx, access); !errors.Is(err, auth.ErrWrongTokenType) {
		t.Errorf("expected ErrWrongTokenType, got %v", err)
	}

	if _, _, err := svc.Login(ctx, "alice", "battery-staple"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestListUsersHidesNothingButHashes(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "alice", "correct-horse", "admin", nil); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, _, err := svc.Register(ctx, "bob", "correct-horse", "", nil); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	users, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if !users[0].HasRole("admin") {
		t.Errorf("expected alice to hold the admin role, got %v", users[0].Roles)
	}
	if !users[1].HasRole(models.DefaultRole) {
		t.Errorf("expected bob to hold the default role, got %v", users[1].Roles)
	}
}
