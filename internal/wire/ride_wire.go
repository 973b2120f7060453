package wire

import (
	"ride-share/internal/adaptor"
	"ride-share/pkg/middleware"
	"ride-share/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireRide(
	r chi.Router,
	rideHandler *adaptor.RideHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/rides - List scheduled rides, optional time window filter
	r.Get("/api/rides", rideHandler.ListRides)

	// GET /api/rides/{id} - Ride details with driver and passenger info
	r.Get("/api/rides/{id}", rideHandler.GetRide)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT, log))

		// POST /api/rides - Offer a new ride (drivers only)
		r.Post("/api/rides", rideHandler.CreateRide)

		// PATCH /api/rides/{id}/status - Advance ride lifecycle (ride driver only)
		r.Patch("/api/rides/{id}/status", rideHandler.SetStatus)
	})
}
