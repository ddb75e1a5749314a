package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
	"github.com/splitledger/splitledger/internal/storage/sqlite"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitledger-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedUser(t *testing.T, store storage.Store, username string) {
	t.Helper()
	if err := store.CreateUser(context.Background(), models.NewUser(username, "hashed", "", nil)); err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
}

func TestGroupSettlementLifecycle(t *testing.T) {
	store := newTestStore(t)
	svc := NewGroupService(store)
	ctx := context.Background()

	seedUser(t, store, "admin")
	seedUser(t, store, "bob")

	// Admin creates "trip" with budget 300 and joins it: split is the
	// full budget.
	group, err := svc.CreateGroup(ctx, "trip", "admin", 300.0, true)
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if group.SplitAmount != 300.0 {
		t.Errorf("split = %v, want 300.0", group.SplitAmount)
	}
	if len(group.Members) != 1 || group.Payments["admin"] == nil {
		t.Fatalf("unexpected initial group: %+v", group)
	}

	// Adding bob recomputes the split for everyone.
	group, err = svc.AddMember(ctx, "trip", "bob")
	if err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if group.SplitAmount != 150.0 {
		t.Errorf("split = %v, want 150.0", group.SplitAmount)
	}
	if group.Payments["bob"] == nil || group.Payments["bob"].Status != models.StatusUnpaid {
		t.Fatalf("unexpected payment for bob: %+v", group.Payments["bob"])
	}

	// Bob submits exactly his share.
	payment, err := svc.SubmitPayment(ctx, "trip", "bob", 150.0)
	if err != nil {
		t.Fatalf("SubmitPayment failed: %v", err)
	}
	if payment.Status != models.StatusPendingApproval || payment.PaidAmount != 150.0 {
		t.Errorf("unexpected payment: %+v", payment)
	}

	// A non-admin cannot decide.
	if _, err := svc.DecidePayment(ctx, "trip", "bob", "bob", models.ActionApprove); !errors.Is(err, ErrNotAdmin) {
		t.Errorf("expected ErrNotAdmin, got %v", err)
	}

	// The admin approves.
	payment, err = svc.DecidePayment(ctx, "trip", "admin", "bob", models.ActionApprove)
	if err != nil {
		t.Fatalf("DecidePayment failed: %v", err)
	}
	if payment.Status != models.StatusApproved {
		t.Errorf("status = %v, want approved", payment.Status)
	}

	// The member snapshot shows the settlement progress.
	status, err := svc.GetStatus(ctx, "trip", "bob")
	if err != nil {
		t.Fatalf("GetStatus failed: %v", err)
	}
	if status.Settlement.TotalApproved != 150.0 {
		t.Errorf("total approved = %v, want 150.0", status.Settlement.TotalApproved)
	}
	if status.Settlement.SettledMembers != 1 {
		t.Errorf("settled members = %d, want 1", status.Settlement.SettledMembers)
	}
}

func TestOverpaymentRejected(t *testing.T) {
	store := newTestStore(t)
	svc := NewGroupService(store)
	ctx := context.Background()

	seedUser(t, store, "admin")
	seedUser(t, store, "bob")
	if _, err := svc.CreateGroup(ctx, "trip", "admin", 300.0, true); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if _, err := svc.AddMember(ctx, "trip", "bob"); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	if _, err := svc.SubmitPayment(ctx, "trip", "bob", 200.0); !errors.Is(err, ErrExceedsShare) {
		t.Fatalf("expected ErrExceedsShare, got %v", err)
	}

	// The stored record is untouched.
	group, err := store.GetGroup(ctx, "trip")
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	payment := group.Payments["bob"]
	if payment.PaidAmount != 0 || payment.Status != models.StatusUnpaid {
		t.Errorf("payment changed on rejected submission: %+v", payment)
	}
}

func TestSubmitPaymentValidation(t *testing.T) {
	store := newTestStore(t)
	svc := NewGroupService(store)
	ctx := context.Background()

	seedUser(t, store, "admin")
	if _, err := svc.CreateGroup(ctx, "trip", "admin", 300.0, true); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	t.Run("non-member rejected", func(t *testing.T) {
		if _, err := svc.SubmitPayment(ctx, "trip", "mallory", 150.0); !errors.Is(err, ErrNotMember) {
			t.Errorf("expected ErrNotMember, got %v", err)
		}
	})

	t.Run("unknown group rejected", func(t *testing.T) {
		if _, err := svc.SubmitPayment(ctx, "nope", "admin", 150.0); !errors.Is(err, ErrNotMember) {
			t.Errorf("expected ErrNotMember, got %v", err)
		}
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		if _, err := svc.SubmitPayment(ctx, "trip", "admin", 0); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("resubmission overwrites pending amount", func(t *testing.T) {
		if _, err := svc.SubmitPayment(ctx, "trip", "admin", 100.0); err != nil {
			t.Fatalf("SubmitPayment failed: %v", err)
		}
		payment, err := svc.SubmitPayment(ctx, "trip", "admin", 300.0)
		if err != nil {
			t.Fatalf("SubmitPayment failed: %v", err)
		}
		if payment.PaidAmount != 300.0 || payment.Status != models.StatusPendingApproval {
			t.Errorf("unexpected payment: %+v", payment)
		}
	})
}

func TestDecidePayment(t *testing.T) {
	newTrip := func(t *testing.T) (*GroupService, storage.Store) {
		store := newTestStore(t)
		svc := NewGroupService(store)
		ctx := context.Background()
		seedUser(t, store, "admin")
		seedUser(t, store, "bob")
		if _, err := svc.CreateGroup(ctx, "trip", "admin", 300.0, true); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if _, err := svc.AddMember(ctx, "trip", "bob"); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
		return svc, store
	}
	ctx := context.Background()

	t.Run("short payment cannot be approved", func(t *testing.T) {
		svc, _ := newTrip(t)
		if _, err := svc.SubmitPayment(ctx, "trip", "bob", 100.0); err != nil {
			t.Fatalf("SubmitPayment failed: %v", err)
		}
		if _, err := svc.DecidePayment(ctx, "trip", "admin", "bob", models.ActionApprove); !errors.Is(err, ErrShortPayment) {
			t.Errorf("expected ErrShortPayment, got %v", err)
		}
	})

	t.Run("deny then resubmit", func(t *testing.T) {
		svc, _ := newTrip(t)
		if _, err := svc.SubmitPayment(ctx, "trip", "bob", 150.0); err != nil {
			t.Fatalf("SubmitPayment failed: %v", err)
		}
		payment, err := svc.DecidePayment(ctx, "trip", "admin", "bob", models.ActionDeny)
		if err != nil {
			t.Fatalf("DecidePayment failed: %v", err)
		}
		if payment.Status != models.StatusDenied {
			t.Errorf("status = %v, want denied", payment.Status)
		}

		payment, err = svc.SubmitPayment(ctx, "trip", "bob", 150.0)
		if err != nil {
			t.Fatalf("resubmission failed: %v", err)
		}
		if payment.Status != models.StatusPendingApproval {
			t.Errorf("status = %v, want pending_approval", payment.Status)
		}
	})

	t.Run("re-approving is a no-op", func(t *testing.T) {
		svc, _ := newTrip(t)
		if _, err := svc.SubmitPayment(ctx, "trip", "bob", 150.0); err != nil {
			t.Fatalf("SubmitPayment failed: %v", err)
		}
		if _, err := svc.DecidePayment(ctx, "trip", "admin", "bob", models.ActionApprove); err != nil {
			t.Fatalf("DecidePayment failed: %v", err)
		}

		payment, err := svc.DecidePayment(ctx, "trip", "admin", "bob", models.ActionApprove)
		if err != nil {
			t.Fatalf("repeat approve failed: %v", err)
		}
		if payment.Status != models.StatusApproved || payment.PaidAmount != 150.0 {
			t.Errorf("repeat approve changed the payment: %+v", payment)
		}
	})

	t.Run("deny works regardless of prior state", func(t *testing.T) {
		svc, _ := newTrip(t)
		payment, err := svc.DecidePayment(ctx, "trip", "admin", "bob", models.ActionDeny)
		if err != nil {
			t.Fatalf("DecidePayment failed: %v", err)
		}
		if payment.Status != models.StatusDenied {
			t.Errorf("status = %v, want denied", payment.Status)
		}
	})

	t.Run("unknown target rejected", func(t *testing.T) {
		svc, _ := newTrip(t)
		if _, err := svc.DecidePayment(ctx, "trip", "admin", "mallory", models.ActionApprove); !errors.Is(err, ErrPaymentNotFound) {
			t.Errorf("expected ErrPaymentNotFound, got %v", err)
		}
	})

	t.Run("unrecognized action rejected", func(t *testing.T) {
		svc, _ := newTrip(t)
		if _, err := svc.DecidePayment(ctx, "trip", "admin", "bob", models.DecisionAction("escalate")); !errors.Is(err, ErrInvalidAction) {
			t.Errorf("expected ErrInvalidAction, got %v", err)
		}
	})
}

func TestCreateGroupValidation(t *testing.T) {
	store := newTestStore(t)
	svc := NewGroupService(store)
	ctx := context.Background()
	seedUser(t, store, "admin")

	t.Run("non-positive budget rejected", func(t *testing.T) {
		if _, err := svc.CreateGroup(ctx, "trip", "admin", 0, true); !errors.Is(err, ErrInvalidBudget) {
			t.Errorf("expected ErrInvalidBudget, got %v", err)
		}
		if _, err := svc.CreateGroup(ctx, "trip", "admin", -10, true); !errors.Is(err, ErrInvalidBudget) {
			t.Errorf("expected ErrInvalidBudget, got %v", err)
		}
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		if _, err := svc.CreateGroup(ctx, "trip", "admin", 300.0, true); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if _, err := svc.CreateGroup(ctx, "trip", "admin", 100.0, true); !errors.Is(err, ErrGroupExists) {
			t.Errorf("expected ErrGroupExists, got %v", err)
		}
	})

	t.Run("empty group keeps the full budget as the split", func(t *testing.T) {
		group, err := svc.CreateGroup(ctx, "solo", "admin", 250.0, false)
		if err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if len(group.Members) != 0 {
			t.Errorf("members = %v, want none", group.Members)
		}
		if group.SplitAmount != 250.0 {
			t.Errorf("split = %v, want 250.0", group.SplitAmount)
		}
	})
}

func TestAddMember(t *testing.T) {
	store := newTestStore(t)
	svc := NewGroupService(store)
	ctx := context.Background()

	seedUser(t, store, "admin")
	seedUser(t, store, "bob")
	if _, err := svc.CreateGroup(ctx, "trip", "admin", 300.0, true); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	t.Run("unknown user rejected", func(t *testing.T) {
		if _, err := svc.AddMember(ctx, "trip", "mallory"); !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("unknown group rejected", func(t *testing.T) {
		if _, err := svc.AddMember(ctx, "nope", "bob"); !errors.Is(err, ErrGroupNotFound) {
			t.Errorf("expected ErrGroupNotFound, got %v", err)
		}
	})

	t.Run("adding twice is a no-op", func(t *testing.T) {
		if _, err := svc.AddMember(ctx, "trip", "bob"); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
		group, err := svc.AddMember(ctx, "trip", "bob")
		if err != nil {
			t.Fatalf("AddMember (repeat) failed: %v", err)
		}
		if len(group.Members) != 2 {
			t.Errorf("members = %v, want two entries", group.Members)
		}
		if group.SplitAmount != 150.0 {
			t.Errorf("split = %v, want 150.0", group.SplitAmount)
		}
	})

	t.Run("declared groups updated on the user", func(t *testing.T) {
		user, err := store.GetUser(ctx, "bob")
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if !user.InGroup("trip") {
			t.Errorf("expected bob's groups to include trip, got %v", user.Groups)
		}
	})

	t.Run("approved payments survive a split change", func(t *testing.T) {
		if _, err := svc.SubmitPayment(ctx, "trip", "bob", 150.0); err != nil {
			t.Fatalf("SubmitPayment failed: %v", err)
		}
		if _, err := svc.DecidePayment(ctx, "trip", "admin", "bob", models.ActionApprove); err != nil {
			t.Fatalf("DecidePayment failed: %v", err)
		}

		seedUser(t, store, "carol")
		group, err := svc.AddMember(ctx, "trip", "carol")
		if err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
		if group.SplitAmount != 100.0 {
			t.Errorf("split = %v, want 100.0", group.SplitAmount)
		}
		payment := group.Payments["bob"]
		if payment.Status != models.StatusApproved || payment.PaidAmount != 150.0 {
			t.Errorf("approved payment revisited on split change: %+v", payment)
		}
	})
}

func TestConcurrentAddMembers(t *testing.T) {
	store := newTestStore(t)
	svc := NewGroupService(store)
	ctx := context.Background()

	seedUser(t, store, "admin")
	if _, err := svc.CreateGroup(ctx, "trip", "admin", 300.0, true); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	const joiners = 5
	usernames := make([]string, joiners)
	for i := range usernames {
		usernames[i] = fmt.Sprintf("member%d", i)
		seedUser(t, store, usernames[i])
	}

	var wg sync.WaitGroup
	errs := make(chan error, joiners)
	for _, username := range usernames {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			if _, err := svc.AddMember(ctx, "trip", name); err != nil {
				errs <- err
			}
		}(username)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent AddMember failed: %v", err)
	}

	group, err := store.GetGroup(ctx, "trip")
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if len(group.Members) != joiners+1 {
		t.Fatalf("members = %d, want %d", len(group.Members), joiners+1)
	}
	if group.SplitAmount != 50.0 {
		t.Errorf("split = %v, want 50.0", group.SplitAmount)
	}
	for _, member := range group.Members {
		if group.Payments[member] == nil {
			t.Errorf("member %s has no payment record", member)
		}
	}
	if len(group.Payments) != len(group.Members) {
		t.Errorf("payments = %d, members = %d; want exactly one payment per member", len(group.Payments), len(group.Members))
	}
}

func TestGetStatusVisibility(t *testing.T) {
	store := newTestStore(t)
	svc := NewGroupService(store)
	ctx := context.Background()

	seedUser(t, store, "admin")
	seedUser(t, store, "outsider")
	if _, err := svc.CreateGroup(ctx, "trip", "admin", 300.0, true); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	if _, err := svc.GetStatus(ctx, "trip", "outsider"); !errors.Is(err, ErrNotMember) {
		t.Errorf("expected ErrNotMember, got %v", err)
	}
	if _, err := svc.GetStatus(ctx, "nope", "admin"); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("expected ErrGroupNotFound, got %v", err)
	}
}
