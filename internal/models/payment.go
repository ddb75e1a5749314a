package models

import "time"

// PaymentStatus is the approval state of a member's payment.
type PaymentStatus string

const (
	StatusUnpaid          PaymentStatus = "unpaid"
	StatusPendingApproval PaymentStatus = "pending_approval"
	StatusApproved        PaymentStatus = "approved"
	StatusDenied          PaymentStatus = "denied"
)

// DecisionAction is the admin's verdict on a pending payment.
// It is a closed enumeration; anything else is rejected at parse time.
type DecisionAction string

const (
	ActionApprove DecisionAction = "approve"
	ActionDeny    DecisionAction = "deny"
)

// ParseDecisionAction maps a raw action string to its enum value.
// The second return is false for unrecognized actions.
func ParseDecisionAction(raw string) (DecisionAction, bool) {
	switch DecisionAction(raw) {
	case ActionApprove:
		return ActionApprove, true
	case ActionDeny:
		return ActionDeny, true
	}
	return "", false
}

// Payment tracks one member's self-reported share payment in a group.
// State machine: unpaid -> pending_approval -> {approved | denied};
// a denied payment may be resubmitted, approved is terminal.
type Payment struct {
	// PaidAmount is the amount the member reported as paid.
	PaidAmount float64 `json:"paid_amount"`

	// Status is the current approval state.
	Status PaymentStatus `json:"status"`

	// UpdatedAt is the Unix timestamp of the last state change.
	UpdatedAt int64 `json:"updated_at"`
}

// NewPayment returns the default record created when a member joins a group.
func NewPayment() *Payment {
	return &Payment{
		PaidAmount: 0,
		Status:     StatusUnpaid,
		UpdatedAt:  time.Now().Unix(),
	}
}
