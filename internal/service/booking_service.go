package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/splitledger/splitledger/internal/calculator"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

var (
	ErrMovieNotFound    = errors.New("movie not found")
	ErrShowtimeNotFound = errors.New("showtime not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrNotEnoughSeats   = errors.New("not enough seats available")
	ErrInvalidSeats     = errors.New("seats must be positive")
	ErrInvalidCapacity  = errors.New("total seats must be between 10 and 500")
)

// BookingService manages the movie booking inventory. It is an independent
// subsystem: it shares the store with the settlement engine but neither side
// calls the other.
type BookingService struct {
	store storage.Store

	// mu serializes seat inventory mutations; the inventory is small
	// enough that a single lock suffices.
	mu sync.Mutex
}

// NewBookingService creates a new BookingService with the given storage
// backend.
func NewBookingService(store storage.Store) *BookingService {
	return &BookingService{store: store}
}

// AddMovie registers a new movie.
func (s *BookingService) AddMovie(ctx context.Context, title string, durationMinutes int, genre string) (*models.Movie, error) {
	movie := &models.Movie{
		Title:           title,
		DurationMinutes: durationMinutes,
		Genre:           genre,
	}
	if err := s.store.CreateMovie(ctx, movie); err != nil {
		return nil, err
	}
	slog.Info("Movie added", "movie_id", movie.ID, "title", title)
	return movie, nil
}

// ListMovies returns all movies.
func (s *BookingService) ListMovies(ctx context.Context) ([]*models.Movie, error) {
	return s.store.ListMovies(ctx)
}

// ListShowtimes returns all showtimes for a movie.
func (s *BookingService) ListShowtimes(ctx context.Context, movieID string) ([]*models.Showtime, error) {
	movie, err := s.store.GetMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}
	return s.store.ListShowtimesByMovie(ctx, movieID)
}

// AddShowtime schedules a screening of an existing movie. A zero totalSeats
// takes the default capacity; explicit capacities must fall within the
// Min/Max bounds.
func (s *BookingService) AddShowtime(ctx context.Context, movieID string, startTime int64, price float64, totalSeats int) (*models.Showtime, error) {
	if totalSeats == 0 {
		totalSeats = models.DefaultShowtimeSeats
	}
	if totalSeats < models.MinShowtimeSeats || totalSeats > models.MaxShowtimeSeats {
		return nil, ErrInvalidCapacity
	}

	movie, err := s.store.GetMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}

	showtime := &models.Showtime{
		MovieID:        movieID,
		StartTime:      startTime,
		Price:          price,
		TotalSeats:     totalSeats,
		AvailableSeats: totalSeats,
	}
	if err := s.store.CreateShowtime(ctx, showtime); err != nil {
		return nil, err
	}
	slog.Info("Showtime added", "showtime_id", showtime.ID, "movie_id", movieID, "price", price)
	return showtime, nil
}

// BookTickets reserves seats on a showtime and charges seats times price.
func (s *BookingService) BookTickets(ctx context.Context, showtimeID, customerName string, seats int) (*models.Booking, error) {
	if seats <= 0 {
		return nil, ErrInvalidSeats
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	showtime, err := s.store.GetShowtime(ctx, showtimeID)
	if err != nil {
		return nil, err
	}
	if showtime == nil {
		return nil, ErrShowtimeNotFound
	}
	if seats > showtime.AvailableSeats {
		return nil, ErrNotEnoughSeats
	}

	booking := &models.Booking{
		ShowtimeID:   showtimeID,
		CustomerName: customerName,
		SeatsBooked:  seats,
		TotalAmount:  calculator.Round2(float64(seats) * showtime.Price),
	}
	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}
	if err := s.store.UpdateShowtimeSeats(ctx, showtimeID, showtime.AvailableSeats-seats); err != nil {
		return nil, err
	}

	slog.Info("Tickets booked",
		"booking_id", booking.ID,
		"showtime_id", showtimeID,
		"seats", seats,
		"total", booking.TotalAmount,
	)
	return booking, nil
}

// ShowtimeAvailability is the occupancy view of a showtime: how full it is
// and whether seats remain.
type ShowtimeAvailability struct {
	ShowtimeID          string  `json:"showtime_id"`
	MovieTitle          string  `json:"movie_title"`
	StartTime           int64   `json:"start_time"`
	Price               float64 `json:"price"`
	AvailableSeats      int     `json:"available_seats"`
	TotalSeats          int     `json:"total_seats"`
	OccupancyPercentage float64 `json:"occupancy_percentage"`
	Status              string  `json:"status"`
}

// SeatStatus labels a showtime's fill level from its remaining seats.
func SeatStatus(availableSeats, totalSeats int) string {
	switch {
	case availableSeats <= 0:
		return models.ShowtimeSoldOut
	case calculator.Occupancy(availableSeats, totalSeats) >= 80:
		return models.ShowtimeNearlyFull
	default:
		return models.ShowtimeAvailable
	}
}

// ListAvailability reports occupancy for every showtime. Showtimes whose
// movie row has gone missing are skipped rather than failing the whole
// report.
func (s *BookingService) ListAvailability(ctx context.Context) ([]*ShowtimeAvailability, error) {
	showtimes, err := s.store.ListShowtimes(ctx)
	if err != nil {
		return nil, err
	}

	availability := []*ShowtimeAvailability{}
	for _, showtime := range showtimes {
		movie, err := s.store.GetMovie(ctx, showtime.MovieID)
		if err != nil {
			return nil, err
		}
		if movie == nil {
			continue
		}
		availability = append(availability, &ShowtimeAvailability{
			ShowtimeID:          showtime.ID,
			MovieTitle:          movie.Title,
			StartTime:           showtime.StartTime,
			Price:               showtime.Price,
			AvailableSeats:      showtime.AvailableSeats,
			TotalSeats:          showtime.TotalSeats,
			OccupancyPercentage: calculator.Occupancy(showtime.AvailableSeats, showtime.TotalSeats),
			Status:              SeatStatus(showtime.AvailableSeats, showtime.TotalSeats),
		})
	}
	return availability, nil
}

// ListBookings returns all bookings.
func (s *BookingService) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	return s.store.ListBookings(ctx)
}

// GetBooking retrieves a booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

// CancelBooking removes a booking and returns its seats to the showtime.
func (s *BookingService) CancelBooking(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return err
	}
	if booking == nil {
		return ErrBookingNotFound
	}

	showtime, err := s.store.GetShowtime(ctx, booking.ShowtimeID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteBooking(ctx, id); err != nil {
		return err
	}
	if showtime != nil {
		if err := s.store.UpdateShowtimeSeats(ctx, showtime.ID, showtime.AvailableSeats+booking.SeatsBooked); err != nil {
			return err
		}
	}

	slog.Info("Booking cancelled", "booking_id", id, "seats_returned", booking.SeatsBooked)
	return nil
}
