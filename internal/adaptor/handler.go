package adaptor

import (
	"net/http"

	"ride-share/internal/apperr"
	"ride-share/internal/usecase"
	"ride-share/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	User    *UserHandler
	Ride    *RideHandler
	Booking *BookingHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		User:    NewUserHandler(service.User, log),
		Ride:    NewRideHandler(service.Ride, log),
		Booking: NewBookingHandler(service.Booking, log),
	}
}

// respondError maps a service error to the HTTP envelope by kind.
// Callers see the stable code and user-safe message; wrapped internals
// only reach the log.
func respondError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	code := apperr.CodeOf(err)
	message := apperr.MessageOf(err)

	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		log.Warn(operation+" failed: not found", zap.Error(err))
		utils.ResponseNotFound(w, code, message)
	case apperr.KindForbidden:
		log.Warn(operation+" failed: forbidden", zap.Error(err))
		utils.ResponseForbidden(w, code, message)
	case apperr.KindConflict:
		log.Warn(operation+" failed: conflict", zap.Error(err))
		utils.ResponseConflict(w, code, message)
	case apperr.KindInvalidInput:
		log.Warn(operation+" failed: invalid input", zap.Error(err))
		utils.ResponseBadRequest(w, code, message, nil)
	case apperr.KindUnavailable:
		log.Error(operation+" failed: storage unavailable", zap.Error(err))
		utils.ResponseUnavailable(w, code, message)
	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
