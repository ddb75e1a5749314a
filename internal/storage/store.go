// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/splitledger/splitledger/internal/models"
)

// Store defines the interface for settlement and booking storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer. Lookups return (nil, nil) when
// the record does not exist; the service layer maps that to its own
// not-found errors.
//
// The store itself is safe for concurrent reads; callers are responsible for
// serializing read-modify-write sequences on the same group (see the
// service layer's per-group locks).
type Store interface {
	// CreateUser persists a new user with its roles and declared groups.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by username.
	GetUser(ctx context.Context, username string) (*models.User, error)

	// ListUsers retrieves all users, ordered by username.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// AddUserGroup records a declared group membership on the user.
	// Adding an already-declared group is a no-op.
	AddUserGroup(ctx context.Context, username, groupName string) error

	// CreateGroup persists a new group with its members and payments.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its members and payment records.
	GetGroup(ctx context.Context, name string) (*models.Group, error)

	// ListGroups retrieves all groups with members and payments.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// AddGroupMember atomically appends a member with its fresh payment
	// record and stores the recomputed split amount.
	AddGroupMember(ctx context.Context, groupName, username string, splitAmount float64, payment *models.Payment) error

	// UpdatePayment overwrites a member's payment record in a group.
	UpdatePayment(ctx context.Context, groupName, username string, payment *models.Payment) error

	// CreateMovie persists a new movie, assigning its ID.
	CreateMovie(ctx context.Context, movie *models.Movie) error

	// GetMovie retrieves a movie by ID.
	GetMovie(ctx context.Context, id string) (*models.Movie, error)

	// ListMovies retrieves all movies.
	ListMovies(ctx context.Context) ([]*models.Movie, error)

	// CreateShowtime persists a new showtime, assigning its ID.
	CreateShowtime(ctx context.Context, showtime *models.Showtime) error

	// GetShowtime retrieves a showtime by ID.
	GetShowtime(ctx context.Context, id string) (*models.Showtime, error)

	// ListShowtimesByMovie retrieves all showtimes for a movie.
	ListShowtimesByMovie(ctx context.Context, movieID string) ([]*models.Showtime, error)

	// ListShowtimes retrieves every showtime across all movies.
	ListShowtimes(ctx context.Context) ([]*models.Showtime, error)

	// UpdateShowtimeSeats sets the remaining seat count for a showtime.
	UpdateShowtimeSeats(ctx context.Context, showtimeID string, availableSeats int) error

	// CreateBooking persists a new booking, assigning its ID.
	CreateBooking(ctx context.Context, booking *models.Booking) error

	// GetBooking retrieves a booking by ID.
	GetBooking(ctx context.Context, id string) (*models.Booking, error)

	// ListBookings retrieves all bookings.
	ListBookings(ctx context.Context) ([]*models.Booking, error)

	// DeleteBooking removes a booking by ID.
	DeleteBooking(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}
