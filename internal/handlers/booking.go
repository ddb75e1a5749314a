package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/splitledger/splitledger/internal/service"
)

// BookingHandler serves the movie booking inventory endpoints.
type BookingHandler struct {
	bookings *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type movieRequest struct {
	Title           string `json:"title" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,gt=0"`
	Genre           string `json:"genre" binding:"required"`
}

type showtimeRequest struct {
	MovieID    string    `json:"movie_id" binding:"required"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	Price      float64   `json:"price" binding:"required,gt=0"`
	TotalSeats int       `json:"total_seats"`
}

type bookingRequest struct {
	ShowtimeID   string `json:"showtime_id" binding:"required"`
	CustomerName string `json:"customer_name" binding:"required"`
	SeatsBooked  int    `json:"seats_booked" binding:"required,gt=0"`
}

// ListMovies handles GET /movies.
func (h *BookingHandler) ListMovies(c *gin.Context) {
	movies, err := h.bookings.ListMovies(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list movies"})
		return
	}
	c.JSON(http.StatusOK, movies)
}

// AddMovie handles POST /movies.
func (h *BookingHandler) AddMovie(c *gin.Context) {
	var req movieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	movie, err := h.bookings.AddMovie(c.Request.Context(), req.Title, req.DurationMinutes, req.Genre)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add movie"})
		return
	}
	c.JSON(http.StatusCreated, movie)
}

// ListShowtimes handles GET /movies/:id/showtimes.
func (h *BookingHandler) ListShowtimes(c *gin.Context) {
	showtimes, err := h.bookings.ListShowtimes(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrMovieNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list showtimes"})
		return
	}
	c.JSON(http.StatusOK, showtimes)
}

// AddShowtime handles POST /showtimes.
func (h *BookingHandler) AddShowtime(c *gin.Context) {
	var req showtimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	showtime, err := h.bookings.AddShowtime(c.Request.Context(), req.MovieID, req.StartTime.Unix(), req.Price, req.TotalSeats)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMovieNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		case errors.Is(err, service.ErrInvalidCapacity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add showtime"})
		}
		return
	}
	c.JSON(http.StatusCreated, showtime)
}

// ListAvailability handles GET /showtimes/availability with the occupancy
// view of every showtime.
func (h *BookingHandler) ListAvailability(c *gin.Context) {
	availability, err := h.bookings.ListAvailability(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list availability"})
		return
	}
	c.JSON(http.StatusOK, availability)
}

// BookTickets handles POST /bookings.
func (h *BookingHandler) BookTickets(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookings.BookTickets(c.Request.Context(), req.ShowtimeID, req.CustomerName, req.SeatsBooked)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrShowtimeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Showtime not found"})
		case errors.Is(err, service.ErrNotEnoughSeats):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Not enough seats available"})
		case errors.Is(err, service.ErrInvalidSeats):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to book tickets"})
		}
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// ListBookings handles GET /bookings.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	bookings, err := h.bookings.ListBookings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bookings"})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetBooking handles GET /bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookings.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get booking"})
		return
	}
	c.JSON(http.StatusOK, booking)
}

// CancelBooking handles DELETE /bookings/:id and returns the seats to the
// showtime.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	if err := h.bookings.CancelBooking(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel booking"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled successfully"})
}
