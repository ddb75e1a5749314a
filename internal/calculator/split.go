// Package calculator holds the pure arithmetic of the settlement engine:
// even budget splits rounded to cents, and settlement progress over a
// group's approved payments.
package calculator

import "math"

// Round2 rounds an amount to two decimal places (cents).
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// SplitShare computes each member's even share of the budget, rounded to
// cents. A group with no members yet keeps the full budget as the share
// until the first member joins, so the divisor is floored at one.
func SplitShare(budget float64, memberCount int) float64 {
	if memberCount < 1 {
		memberCount = 1
	}
	return Round2(budget / float64(memberCount))
}

// AmountsEqual reports whether two amounts are the same to the cent.
// Share amounts pass through float arithmetic on submission and approval, so
// comparisons tolerate sub-cent noise.
func AmountsEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

// Settlement summarizes how far a group is from fully settling its budget.
type Settlement struct {
	// TotalApproved is the sum of all approved payment amounts.
	TotalApproved float64

	// Outstanding is the budget not yet covered by approved payments,
	// floored at zero.
	Outstanding float64

	// SettledMembers is the number of members with an approved payment.
	SettledMembers int
}

// Progress computes settlement progress for a budget given the approved
// payment amounts.
func Progress(budget float64, approvedAmounts []float64) Settlement {
	var total float64
	for _, amount := range approvedAmounts {
		total += amount
	}
	total = Round2(total)

	outstanding := Round2(budget - total)
	if outstanding < 0 {
		outstanding = 0
	}

	return Settlement{
		TotalApproved:  total,
		Outstanding:    outstanding,
		SettledMembers: len(approvedAmounts),
	}
}
