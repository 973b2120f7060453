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

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With(zap.String("handler", "user")),
	}
}

// Me handles GET /api/users/me (protected)
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		respondError(w, h.log, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "success", profile)
}

// UpdateMe handles PATCH /api/users/me (protected)
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	var req request.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "invalid_body", "Invalid request body", nil)
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		respondError(w, h.log, err, "update profile")
		return
	}

	utils.ResponseSuccess(w, "Profile updated", profile)
}

// ChangePassword handles PATCH /api/users/me/password (protected)
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	var req request.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "invalid_body", "Invalid request body", nil)
		return
	}

	if err := h.service.ChangePassword(r.Context(), userID, &req); err != nil {
		respondError(w, h.log, err, "change password")
		return
	}

	utils.ResponseSuccess(w, "Password updated", nil)
}

// GetUser handles GET /api/users/{id} (public)
//
// Returns the reputation view of a user: name, rating and completed
// ride counters. No credentials, no email.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "invalid_user_id", "User ID must be a valid UUID", nil)
		return
	}

	profile, err := h.service.GetPublicProfile(r.Context(), userID)
	if err != nil {
		respondError(w, h.log, err, "get public profile")
		return
	}

	utils.ResponseSuccess(w, "success", profile)
}
