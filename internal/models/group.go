package models

import "time"

// Group represents an expense-sharing group.
// The budget is divided evenly across current members; SplitAmount is
// recomputed whenever membership changes.
type Group struct {
	// Name is the unique identifier for the group.
	Name string `json:"name"`

	// Admin is the username of the creator. Fixed at creation; only the
	// admin may approve or deny payments.
	Admin string `json:"admin"`

	// Budget is the total amount to be split. Always positive.
	Budget float64 `json:"budget"`

	// Members are the usernames currently sharing the budget.
	Members []string `json:"members"`

	// SplitAmount is each member's share: budget / max(1, len(Members)),
	// rounded to cents.
	SplitAmount float64 `json:"split_amount"`

	// Payments maps member username to that member's payment record.
	// Every member has exactly one entry.
	Payments map[string]*Payment `json:"payments"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"created_at"`
}

// NewGroup builds a group owned by admin with the given budget.
// Membership starts empty; the caller decides whether the admin joins.
func NewGroup(name, admin string, budget float64) *Group {
	return &Group{
		Name:      name,
		Admin:     admin,
		Budget:    budget,
		Members:   []string{},
		Payments:  make(map[string]*Payment),
		CreatedAt: time.Now().Unix(),
	}
}

// HasMember reports whether username is a current member.
func (g *Group) HasMember(username string) bool {
	for _, m := range g.Members {
		if m == username {
			return true
		}
	}
	return false
}
