package models

// DefaultShowtimeSeats is the seat inventory a new showtime starts with when
// no explicit capacity is requested. Explicit capacities are clamped to the
// Min/Max bounds.
const (
	DefaultShowtimeSeats = 50
	MinShowtimeSeats     = 10
	MaxShowtimeSeats     = 500
)

// Showtime status labels derived from occupancy. A showtime is sold out with
// zero seats left, nearly full at 80% occupancy or above, and available
// otherwise.
const (
	ShowtimeAvailable  = "Available"
	ShowtimeNearlyFull = "Nearly Full"
	ShowtimeSoldOut    = "Sold Out"
)

// Movie is a title in the booking inventory.
type Movie struct {
	// ID is the unique identifier for the movie (UUID format).
	ID string `json:"id"`

	// Title is the movie title.
	Title string `json:"title"`

	// DurationMinutes is the running time in minutes.
	DurationMinutes int `json:"duration_minutes"`

	// Genre is the movie's genre label.
	Genre string `json:"genre"`
}

// Showtime is a scheduled screening of a movie with a seat inventory.
type Showtime struct {
	// ID is the unique identifier for the showtime (UUID format).
	ID string `json:"id"`

	// MovieID references the movie being screened.
	MovieID string `json:"movie_id"`

	// StartTime is the Unix timestamp of the screening start.
	StartTime int64 `json:"start_time"`

	// Price is the per-seat ticket price.
	Price float64 `json:"price"`

	// TotalSeats is the seat capacity the showtime was created with.
	TotalSeats int `json:"total_seats"`

	// AvailableSeats is the remaining seat count.
	AvailableSeats int `json:"available_seats"`
}

// Booking is a customer's seat reservation for a showtime.
type Booking struct {
	// ID is the unique identifier for the booking (UUID format).
	ID string `json:"id"`

	// ShowtimeID references the booked showtime.
	ShowtimeID string `json:"showtime_id"`

	// CustomerName is the name the booking was made under.
	CustomerName string `json:"customer_name"`

	// SeatsBooked is the number of seats reserved.
	SeatsBooked int `json:"seats_booked"`

	// TotalAmount is seats booked times the showtime price.
	TotalAmount float64 `json:"total_amount"`
}
