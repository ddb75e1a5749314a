package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/splitledger/splitledger/internal/models"
)

// CreateGroup persists a group with its initial members and payment records
// in one transaction.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (name, admin, budget, split_amount, created_at) VALUES (?, ?, ?, ?, ?)",
		group.Name, group.Admin, group.Budget, group.SplitAmount, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for _, member := range group.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_members (group_name, username) VALUES (?, ?)",
			group.Name, member,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}

		payment := group.Payments[member]
		if payment == nil {
			payment = models.NewPayment()
			group.Payments[member] = payment
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO payments (group_name, username, paid_amount, status, updated_at) VALUES (?, ?, ?, ?, ?)",
			group.Name, member, payment.PaidAmount, payment.Status, payment.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetGroup retrieves a group with its members and payment records.
func (s *SQLiteStore) GetGroup(ctx context.Context, name string) (*models.Group, error) {
	group := &models.Group{Payments: make(map[string]*models.Payment)}
	err := s.db.QueryRowContext(ctx,
		"SELECT name, admin, budget, split_amount, created_at FROM groups WHERE name = ?",
		name,
	).Scan(&group.Name, &group.Admin, &group.Budget, &group.SplitAmount, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil // Group not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	if err := s.loadGroupDetails(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// ListGroups retrieves all groups with members and payments, ordered by name.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, admin, budget, split_amount, created_at FROM groups ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{Payments: make(map[string]*models.Payment)}
		if err := rows.Scan(&group.Name, &group.Admin, &group.Budget, &group.SplitAmount, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for _, group := range groups {
		if err := s.loadGroupDetails(ctx, group); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// AddGroupMember appends a member, creates its payment record, and stores
// the recomputed split in one transaction so no reader ever sees a member
// without a payment or a stale split alongside the new member.
func (s *SQLiteStore) AddGroupMember(ctx context.Context, groupName, username string, splitAmount float64, payment *models.Payment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO group_members (group_name, username) VALUES (?, ?)",
		groupName, username,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO payments (group_name, username, paid_amount, status, updated_at) VALUES (?, ?, ?, ?, ?)",
		groupName, username, payment.PaidAmount, payment.Status, payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE groups SET split_amount = ? WHERE name = ?",
		splitAmount, groupName,
	)
	if err != nil {
		return fmt.Errorf("failed to update split amount: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdatePayment overwrites a member's payment record.
func (s *SQLiteStore) UpdatePayment(ctx context.Context, groupName, username string, payment *models.Payment) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE payments SET paid_amount = ?, status = ?, updated_at = ? WHERE group_name = ? AND username = ?",
		payment.PaidAmount, payment.Status, payment.UpdatedAt, groupName, username,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("payment not found: %s/%s", groupName, username)
	}
	return nil
}

func (s *SQLiteStore) loadGroupDetails(ctx context.Context, group *models.Group) error {
	members, err := s.stringColumn(ctx,
		"SELECT username FROM group_members WHERE group_name = ? ORDER BY username", group.Name)
	if err != nil {
		return fmt.Errorf("failed to get members: %w", err)
	}
	group.Members = members

	rows, err := s.db.QueryContext(ctx,
		"SELECT username, paid_amount, status, updated_at FROM payments WHERE group_name = ?",
		group.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to get payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var username string
		payment := &models.Payment{}
		if err := rows.Scan(&username, &payment.PaidAmount, &payment.Status, &payment.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan payment: %w", err)
		}
		group.Payments[username] = payment
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate payments: %w", err)
	}
	return nil
}
