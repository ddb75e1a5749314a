package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/splitledger/splitledger/internal/calculator"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

var (
	ErrGroupExists     = errors.New("group already exists")
	ErrGroupNotFound   = errors.New("group not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrNotMember       = errors.New("not part of this group")
	ErrNotAdmin        = errors.New("only admin can approve payments")
	ErrInvalidBudget   = errors.New("budget must be positive")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrExceedsShare    = errors.New("exceeds threshold amount")
	ErrShortPayment    = errors.New("paid amount does not match split amount")
	ErrPaymentNotFound = errors.New("user not in this group")
	ErrInvalidAction   = errors.New("action must be approve or deny")
)

// GroupService owns group records and the payment approval workflow.
//
// All mutations of a group serialize through a per-group-name mutex held
// across the whole read-modify-write, so concurrent membership changes can
// never interleave their member-count read with their split write, and two
// submissions to the same group never race.
type GroupService struct {
	store storage.Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

// groupLock returns the mutex serializing mutations of the named group.
// Entries are never evicted: a goroutine may still hold a mutex pointer
// while another looks the name up, so removal could hand out a second mutex
// for the same group. One entry per name ever looked up stays cheap at
// this scale.
func (s *GroupService) groupLock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[name]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[name] = lock
	}
	return lock
}

// CreateGroup creates a group owned by admin. Membership starts as {admin}
// when includeAdmin is set, otherwise empty; a group with no members keeps
// the full budget as the split until the first member joins.
func (s *GroupService) CreateGroup(ctx context.Context, name, admin string, budget float64, includeAdmin bool) (*models.Group, error) {
	if budget <= 0 {
		return nil, ErrInvalidBudget
	}

	lock := s.groupLock(name)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.store.GetGroup(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrGroupExists
	}

	group := models.NewGroup(name, admin, budget)
	if includeAdmin {
		group.Members = append(group.Members, admin)
		group.Payments[admin] = models.NewPayment()
	}
	group.SplitAmount = calculator.SplitShare(budget, len(group.Members))

	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	if includeAdmin {
		if err := s.store.AddUserGroup(ctx, admin, name); err != nil {
			return nil, err
		}
	}

	slog.Info("Group created",
		"group", name,
		"admin", admin,
		"budget", budget,
		"split_amount", group.SplitAmount,
	)
	return group, nil
}

// AddMember appends a member to the group, creates its unpaid payment
// record, and recomputes the split for every member. Adding an existing
// member is a no-op. Prior payment amounts and statuses are untouched; an
// already approved payment is not revisited when the split changes.
func (s *GroupService) AddMember(ctx context.Context, groupName, username string) (*models.Group, error) {
	user, err := s.store.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	lock := s.groupLock(groupName)
	lock.Lock()
	defer lock.Unlock()

	group, err := s.store.GetGroup(ctx, groupName)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	if group.HasMember(username) {
		return group, nil
	}

	group.Members = append(group.Members, username)
	group.SplitAmount = calculator.SplitShare(group.Budget, len(group.Members))
	payment := models.NewPayment()
	group.Payments[username] = payment

	if err := s.store.AddGroupMember(ctx, groupName, username, group.SplitAmount, payment); err != nil {
		return nil, err
	}
	if err := s.store.AddUserGroup(ctx, username, groupName); err != nil {
		return nil, err
	}

	slog.Info("Member added",
		"group", groupName,
		"username", username,
		"members", len(group.Members),
		"split_amount", group.SplitAmount,
	)
	return group, nil
}

// SubmitPayment records a member's self-reported share payment and moves it
// to pending approval. Overpayment is rejected outright; the stored record
// is untouched. Resubmitting before a decision overwrites the pending
// amount.
func (s *GroupService) SubmitPayment(ctx context.Context, groupName, username string, amount float64) (*models.Payment, error) {
	lock := s.groupLock(groupName)
	lock.Lock()
	defer lock.Unlock()

	group, err := s.store.GetGroup(ctx, groupName)
	if err != nil {
		return nil, err
	}
	if group == nil || !group.HasMember(username) {
		return nil, ErrNotMember
	}

	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if amount > group.SplitAmount && !calculator.AmountsEqual(amount, group.SplitAmount) {
		return nil, ErrExceedsShare
	}

	payment := group.Payments[username]
	payment.PaidAmount = amount
	payment.Status = models.StatusPendingApproval
	payment.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdatePayment(ctx, groupName, username, payment); err != nil {
		return nil, err
	}

	slog.Info("Payment submitted",
		"group", groupName,
		"username", username,
		"amount", amount,
	)
	return payment, nil
}

// DecidePayment applies the admin's verdict on a member's payment.
// Approval requires the paid amount to match the current split exactly;
// a short payment is rejected rather than silently ignored. Denial is
// unconditional. Approving an already approved payment changes nothing.
func (s *GroupService) DecidePayment(ctx context.Context, groupName, admin, target string, action models.DecisionAction) (*models.Payment, error) {
	lock := s.groupLock(groupName)
	lock.Lock()
	defer lock.Unlock()

	group, err := s.store.GetGroup(ctx, groupName)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	if admin != group.Admin {
		return nil, ErrNotAdmin
	}

	payment, ok := group.Payments[target]
	if !ok {
		return nil, ErrPaymentNotFound
	}

	switch action {
	case models.ActionApprove:
		if payment.Status == models.StatusApproved {
			return payment, nil
		}
		if !calculator.AmountsEqual(payment.PaidAmount, group.SplitAmount) {
			return nil, ErrShortPayment
		}
		payment.Status = models.StatusApproved
	case models.ActionDeny:
		payment.Status = models.StatusDenied
	default:
		return nil, ErrInvalidAction
	}
	payment.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdatePayment(ctx, groupName, target, payment); err != nil {
		return nil, err
	}

	slog.Info("Payment decided",
		"group", groupName,
		"admin", admin,
		"target", target,
		"status", payment.Status,
	)
	return payment, nil
}

// GroupStatus is the full snapshot a member sees: the group with everyone's
// payment state, plus settlement progress. Members can see each other's
// payment status; that transparency is the point of the group view.
type GroupStatus struct {
	Group      *models.Group         `json:"group"`
	Settlement calculator.Settlement `json:"settlement"`
}

// GetStatus returns the group snapshot, visible to current members only.
func (s *GroupService) GetStatus(ctx context.Context, groupName, requester string) (*GroupStatus, error) {
	group, err := s.store.GetGroup(ctx, groupName)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	if !group.HasMember(requester) {
		return nil, ErrNotMember
	}

	var approved []float64
	for _, payment := range group.Payments {
		if payment.Status == models.StatusApproved {
			approved = append(approved, payment.PaidAmount)
		}
	}

	return &GroupStatus{
		Group:      group,
		Settlement: calculator.Progress(group.Budget, approved),
	}, nil
}

// ListGroups returns all groups. The listing is unauthenticated; that is a
// documented minimal-viable policy, not a recommendation.
func (s *GroupService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	return s.store.ListGroups(ctx)
}
