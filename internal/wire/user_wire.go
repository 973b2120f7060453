package wire

import (
	"ride-share/internal/adaptor"
	"ride-share/pkg/middleware"
	"ride-share/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	rideHandler *adaptor.RideHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Route("/api/users/me", func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT, log))

		// GET /api/users/me - View own profile
		r.Get("/", userHandler.Me)

		// PATCH /api/users/me - Update own profile
		r.Patch("/", userHandler.UpdateMe)

		// PATCH /api/users/me/password - Change own password
		r.Patch("/password", userHandler.ChangePassword)

		// GET /api/users/me/rides - All rides the caller drives or booked
		r.Get("/rides", rideHandler.MyRides)
	})

	// ==================== PUBLIC ROUTES ====================
	// GET /api/users/{id} - Public profile with rating and ride counters
	r.Get("/api/users/{id}", userHandler.GetUser)
}
