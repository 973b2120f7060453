package wire

import (
	"ride-share/internal/adaptor"
	"ride-share/pkg/middleware"
	"ride-share/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT, log))

		// POST /api/rides/{id}/join - Reserve a seat on a scheduled ride
		r.Post("/api/rides/{id}/join", bookingHandler.JoinRide)

		// DELETE /api/bookings/{id} - Cancel own booking, seat returns to pool
		r.Delete("/api/bookings/{id}", bookingHandler.CancelBooking)
	})
}
