package calculator

// Occupancy returns the percentage of a showtime's seats that are booked,
// rounded to two decimal places. A non-positive capacity reads as fully
// occupied rather than dividing by zero.
func Occupancy(availableSeats, totalSeats int) float64 {
	if totalSeats <= 0 {
		return 100.0
	}
	return Round2(float64(totalSeats-availableSeats) / float64(totalSeats) * 100)
}
