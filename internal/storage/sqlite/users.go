package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/splitledger/splitledger/internal/models"
)

// CreateUser inserts a new user with its roles and declared groups in one
// transaction.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)",
		user.Username, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	for _, role := range user.Roles {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO user_roles (username, role) VALUES (?, ?)",
			user.Username, role,
		)
		if err != nil {
			return fmt.Errorf("failed to insert role: %w", err)
		}
	}

	for _, group := range user.Groups {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO user_groups (username, group_name) VALUES (?, ?)",
			user.Username, group,
		)
		if err != nil {
			return fmt.Errorf("failed to insert user group: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetUser retrieves a user by username, including roles and declared groups.
func (s *SQLiteStore) GetUser(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		"SELECT username, password_hash, created_at FROM users WHERE username = ?",
		username,
	).Scan(&user.Username, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil // User not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.Roles, err = s.userRoles(ctx, username); err != nil {
		return nil, err
	}
	if user.Groups, err = s.userGroups(ctx, username); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers retrieves all users ordered by username.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT username, password_hash, created_at FROM users ORDER BY username",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.Username, &user.PasswordHash, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	for _, user := range users {
		if user.Roles, err = s.userRoles(ctx, user.Username); err != nil {
			return nil, err
		}
		if user.Groups, err = s.userGroups(ctx, user.Username); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// AddUserGroup records a declared group membership; re-adding is a no-op.
func (s *SQLiteStore) AddUserGroup(ctx context.Context, username, groupName string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO user_groups (username, group_name) VALUES (?, ?)",
		username, groupName,
	)
	if err != nil {
		return fmt.Errorf("failed to add user group: %w", err)
	}
	return nil
}

func (s *SQLiteStore) userRoles(ctx context.Context, username string) ([]string, error) {
	return s.stringColumn(ctx,
		"SELECT role FROM user_roles WHERE username = ? ORDER BY role", username)
}

func (s *SQLiteStore) userGroups(ctx context.Context, username string) ([]string, error) {
	return s.stringColumn(ctx,
		"SELECT group_name FROM user_groups WHERE username = ? ORDER BY group_name", username)
}

// stringColumn runs a single-column query and collects the values.
func (s *SQLiteStore) stringColumn(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return values, nil
}
