package wire

import (
	"net/http"

	"ride-share/internal/adaptor"
	"ride-share/internal/data/repository"
	"ride-share/internal/usecase"
	"ride-share/pkg/database"
	"ride-share/pkg/middleware"
	"ride-share/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired application
type App struct {
	Router *chi.Mux
}

// Wiring initializes all dependencies
func Wiring(db database.PgxIface, repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	mailer := utils.NewLogMailer(logger)

	service := usecase.NewService(db, repo, config, mailer, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, config, logger)

	return &App{
		Router: router,
	}
}

// setupRouter configures the Chi router
func setupRouter(handler *adaptor.Handler, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireAuth(r, handler.Auth, config, logger)
	wireUser(r, handler.User, handler.Ride, config, logger)
	wireRide(r, handler.Ride, config, logger)
	wireBooking(r, handler.Booking, config, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
