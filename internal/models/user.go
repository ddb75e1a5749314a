package models

import "time"

// DefaultRole is assigned when registration does not name a role.
const DefaultRole = "user"

// User represents a registered account.
type User struct {
	// Username is the unique identifier for the account.
	Username string `json:"username"`

	// PasswordHash is the bcrypt hash of the password.
	// Never serialized; only the auth package reads it.
	PasswordHash string `json:"-"`

	// Roles are the authorization roles granted to the account
	// (e.g. "user", "admin").
	Roles []string `json:"roles"`

	// Groups are the group names the user has declared membership in.
	// A name may refer to a group that does not exist yet; actual
	// membership lives on the Group record.
	Groups []string `json:"groups"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"created_at"`
}

// NewUser builds a user with the given credentials.
// An empty role defaults to DefaultRole.
func NewUser(username, passwordHash, role string, groups []string) *User {
	if role == "" {
		role = DefaultRole
	}
	if groups == nil {
		groups = []string{}
	}
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		Roles:        []string{role},
		Groups:       groups,
		CreatedAt:    time.Now().Unix(),
	}
}

// HasRole reports whether the user holds any of the given roles.
func (u *User) HasRole(roles ...string) bool {
	for _, want := range roles {
		for _, have := range u.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// InGroup reports whether the user has declared membership in the group.
func (u *User) InGroup(name string) bool {
	for _, g := range u.Groups {
		if g == name {
			return true
		}
	}
	return false
}
