package adaptor

import (
	"encoding/json"
	"net/http"

	"ride-share/internal/dto/request"
	"ride-share/internal/usecase"
	"ride-share/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// JoinRide handles POST /api/rides/{id}/join (protected)
func (h *BookingHandler) JoinRide(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	rideID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "invalid_ride_id", "Ride ID must be a valid UUID", nil)
		return
	}

	var req request.JoinRideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "invalid_body", "Invalid request body", nil)
		return
	}

	result, err := h.service.JoinRide(r.Context(), rideID, userID, req.PickupLocation)
	if err != nil {
		respondError(w, h.log, err, "join ride")
		return
	}

	utils.ResponseSuccess(w, "Successfully joined the ride", result)
}

// CancelBooking handles DELETE /api/bookings/{id} (protected)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "invalid_booking_id", "Booking ID must be a valid UUID", nil)
		return
	}

	if err := h.service.CancelBooking(r.Context(), bookingID, userID); err != nil {
		respondError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "Booking cancelled", nil)
}
