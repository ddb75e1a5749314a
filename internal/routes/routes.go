// Package routes registers the HTTP surface on a gin engine.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/splitledger/splitledger/internal/auth"
	"github.com/splitledger/splitledger/internal/handlers"
	"github.com/splitledger/splitledger/internal/middleware"
)

// Setup wires every endpoint. The settlement core speaks form-encoded
// requests; the booking subsystem speaks JSON.
func Setup(r *gin.Engine, jwtManager *auth.JWTManager, authHandler *handlers.AuthHandler, groupHandler *handlers.GroupHandler, bookingHandler *handlers.BookingHandler) {
	requireAuth := middleware.RequireAuth(jwtManager)

	// Authentication surface
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.POST("/refresh", authHandler.Refresh)
	r.GET("/protected", requireAuth, authHandler.Protected)
	r.GET("/admin/users", requireAuth, middleware.RequireRoles("admin"), authHandler.ListUsers)

	// Group and payment surface
	groups := r.Group("/groups")
	{
		groups.GET("", groupHandler.List)
		groups.POST("/create", requireAuth, groupHandler.Create)
		groups.POST("/add-user", groupHandler.AddUser)
		groups.POST("/:name/pay", requireAuth, groupHandler.Pay)
		groups.POST("/:name/approve", requireAuth, groupHandler.Approve)
		groups.GET("/:name/status", requireAuth, groupHandler.Status)
	}

	// Booking inventory (independent subsystem)
	r.GET("/movies", bookingHandler.ListMovies)
	r.POST("/movies", bookingHandler.AddMovie)
	r.GET("/movies/:id/showtimes", bookingHandler.ListShowtimes)
	r.POST("/showtimes", bookingHandler.AddShowtime)
	r.GET("/showtimes/availability", bookingHandler.ListAvailability)
	r.POST("/bookings", bookingHandler.BookTickets)
	r.GET("/bookings", bookingHandler.ListBookings)
	r.GET("/bookings/:id", bookingHandler.GetBooking)
	r.DELETE("/bookings/:id", bookingHandler.CancelBooking)
}
