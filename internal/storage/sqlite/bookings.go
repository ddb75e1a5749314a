package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/splitledger/splitledger/internal/models"
)

// CreateMovie inserts a new movie, assigning its ID if unset.
func (s *SQLiteStore) CreateMovie(ctx context.Context, movie *models.Movie) error {
	if movie.ID == "" {
		movie.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO movies (id, title, duration_minutes, genre) VALUES (?, ?, ?, ?)",
		movie.ID, movie.Title, movie.DurationMinutes, movie.Genre,
	)
	if err != nil {
		return fmt.Errorf("failed to insert movie: %w", err)
	}
	return nil
}

// GetMovie retrieves a movie by ID.
func (s *SQLiteStore) GetMovie(ctx context.Context, id string) (*models.Movie, error) {
	movie := &models.Movie{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, duration_minutes, genre FROM movies WHERE id = ?",
		id,
	).Scan(&movie.ID, &movie.Title, &movie.DurationMinutes, &movie.Genre)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}
	return movie, nil
}

// ListMovies retrieves all movies ordered by title.
func (s *SQLiteStore) ListMovies(ctx context.Context) ([]*models.Movie, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, duration_minutes, genre FROM movies ORDER BY title",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	defer rows.Close()

	var movies []*models.Movie
	for rows.Next() {
		movie := &models.Movie{}
		if err := rows.Scan(&movie.ID, &movie.Title, &movie.DurationMinutes, &movie.Genre); err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movies: %w", err)
	}
	return movies, nil
}

// CreateShowtime inserts a new showtime, assigning its ID if unset.
func (s *SQLiteStore) CreateShowtime(ctx context.Context, showtime *models.Showtime) error {
	if showtime.ID == "" {
		showtime.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO showtimes (id, movie_id, start_time, price, total_seats, available_seats) VALUES (?, ?, ?, ?, ?, ?)",
		showtime.ID, showtime.MovieID, showtime.StartTime, showtime.Price, showtime.TotalSeats, showtime.AvailableSeats,
	)
	if err != nil {
		return fmt.Errorf("failed to insert showtime: %w", err)
	}
	return nil
}

// GetShowtime retrieves a showtime by ID.
func (s *SQLiteStore) GetShowtime(ctx context.Context, id string) (*models.Showtime, error) {
	showtime := &models.Showtime{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, movie_id, start_time, price, total_seats, available_seats FROM showtimes WHERE id = ?",
		id,
	).Scan(&showtime.ID, &showtime.MovieID, &showtime.StartTime, &showtime.Price, &showtime.TotalSeats, &showtime.AvailableSeats)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get showtime: %w", err)
	}
	return showtime, nil
}

// ListShowtimesByMovie retrieves all showtimes for a movie ordered by start.
func (s *SQLiteStore) ListShowtimesByMovie(ctx context.Context, movieID string) ([]*models.Showtime, error) {
	return s.queryShowtimes(ctx,
		"SELECT id, movie_id, start_time, price, total_seats, available_seats FROM showtimes WHERE movie_id = ? ORDER BY start_time",
		movieID,
	)
}

// ListShowtimes retrieves every showtime ordered by start.
func (s *SQLiteStore) ListShowtimes(ctx context.Context) ([]*models.Showtime, error) {
	return s.queryShowtimes(ctx,
		"SELECT id, movie_id, start_time, price, total_seats, available_seats FROM showtimes ORDER BY start_time",
	)
}

func (s *SQLiteStore) queryShowtimes(ctx context.Context, query string, args ...any) ([]*models.Showtime, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list showtimes: %w", err)
	}
	defer rows.Close()

	showtimes := []*models.Showtime{}
	for rows.Next() {
		showtime := &models.Showtime{}
		if err := rows.Scan(&showtime.ID, &showtime.MovieID, &showtime.StartTime, &showtime.Price, &showtime.TotalSeats, &showtime.AvailableSeats); err != nil {
			return nil, fmt.Errorf("failed to scan showtime: %w", err)
		}
		showtimes = append(showtimes, showtime)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate showtimes: %w", err)
	}
	return showtimes, nil
}

// UpdateShowtimeSeats sets the remaining seat count for a showtime.
func (s *SQLiteStore) UpdateShowtimeSeats(ctx context.Context, showtimeID string, availableSeats int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE showtimes SET available_seats = ? WHERE id = ?",
		availableSeats, showtimeID,
	)
	if err != nil {
		return fmt.Errorf("failed to update seats: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("showtime not found: %s", showtimeID)
	}
	return nil
}

// CreateBooking inserts a new booking, assigning its ID if unset.
func (s *SQLiteStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO bookings (id, showtime_id, customer_name, seats_booked, total_amount) VALUES (?, ?, ?, ?, ?)",
		booking.ID, booking.ShowtimeID, booking.CustomerName, booking.SeatsBooked, booking.TotalAmount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

// GetBooking retrieves a booking by ID.
func (s *SQLiteStore) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	booking := &models.Booking{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, showtime_id, customer_name, seats_booked, total_amount FROM bookings WHERE id = ?",
		id,
	).Scan(&booking.ID, &booking.ShowtimeID, &booking.CustomerName, &booking.SeatsBooked, &booking.TotalAmount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// ListBookings retrieves all bookings ordered by customer name.
func (s *SQLiteStore) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, showtime_id, customer_name, seats_booked, total_amount FROM bookings ORDER BY customer_name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	bookings := []*models.Booking{}
	for rows.Next() {
		booking := &models.Booking{}
		if err := rows.Scan(&booking.ID, &booking.ShowtimeID, &booking.CustomerName, &booking.SeatsBooked, &booking.TotalAmount); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}

// DeleteBooking removes a booking by ID.
func (s *SQLiteStore) DeleteBooking(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM bookings WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	return nil
}
