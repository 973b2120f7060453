package adaptor

import (
	"encoding/json"
	"net/http"
	"time"

	"ride-share/internal/data/entity"
	"ride-share/internal/dto/request"
	"ride-share/internal/usecase"
	"ride-share/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RideHandler struct {
	service usecase.RideService
	log     *zap.Logger
}

func NewRideHandler(service usecase.RideService, log *zap.Logger) *RideHandler {
	return &RideHandler{
		service: service,
		log:     log.With(zap.String("handler", "ride")),
	}
}

// CreateRide handles POST /api/rides (protected, drivers only)
func (h *RideHandler) CreateRide(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateRideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "invalid_body", "Invalid request body", nil)
		return
	}

	ride, err := h.service.CreateRide(r.Context(), userID, &req)
	if err != nil {
		respondError(w, h.log, err, "create ride")
		return
	}

	utils.ResponseCreated(w, "Ride created", ride)
}

// ListRides handles GET /api/rides (public)
//
// Accepts ?date=YYYY-MM-DD plus optional startTime/endTime (HH:MM) to
// narrow the departure window within that day.
func (h *RideHandler) ListRides(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var filter request.ListRidesFilter
	if date := query.Get("date"); date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			utils.ResponseBadRequest(w, "invalid_date", "Date must be YYYY-MM-DD", nil)
			return
		}

		from := day
		to := day.Add(24*time.Hour - time.Nanosecond)

		startTime := query.Get("startTime")
		endTime := query.Get("endTime")
		if startTime != "" && endTime != "" {
			start, err1 := time.Parse("15:04", startTime)
			end, err2 := time.Parse("15:04", endTime)
			if err1 != nil || err2 != nil {
				utils.ResponseBadRequest(w, "invalid_time", "Times must be HH:MM", nil)
				return
			}
			from = day.Add(time.Duration(start.Hour())*time.Hour + time.Duration(start.Minute())*time.Minute)
			to = day.Add(time.Duration(end.Hour())*time.Hour + time.Duration(end.Minute())*time.Minute)
		}

		filter.From = &from
		filter.To = &to
	}

	rides, err := h.service.ListRides(r.Context(), filter)
	if err != nil {
		respondError(w, h.log, err, "list rides")
		return
	}

	utils.ResponseSuccess(w, "success", rides)
}

// MyRides handles GET /api/users/me/rides (protected)
//
// Lists every ride the caller drives or has booked, any status.
func (h *RideHandler) MyRides(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	rides, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		respondError(w, h.log, err, "list my rides")
		return
	}

	utils.ResponseSuccess(w, "success", rides)
}

// GetRide handles GET /api/rides/{id} (public)
func (h *RideHandler) GetRide(w http.ResponseWriter, r *http.Request) {
	rideID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "invalid_ride_id", "Ride ID must be a valid UUID", nil)
		return
	}

	ride, err := h.service.GetRide(r.Context(), rideID)
	if err != nil {
		respondError(w, h.log, err, "get ride")
		return
	}

	utils.ResponseSuccess(w, "success", ride)
}

// SetStatus handles PATCH /api/rides/{id}/status (protected, driver only)
func (h *RideHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
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

	var req request.SetRideStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "invalid_body", "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "validation_failed", "Validation failed", validationErrors)
		return
	}

	ride, err := h.service.SetStatus(r.Context(), rideID, userID, entity.RideStatus(req.Status))
	if err != nil {
		respondError(w, h.log, err, "set ride status")
		return
	}

	utils.ResponseSuccess(w, "Ride status updated", ride)
}
