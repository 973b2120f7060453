package adaptor

import (
	"encoding/json"
	"net/http"

	"ride-share/internal/dto/request"
	"ride-share/internal/usecase"
	"ride-share/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Register handles POST /api/auth/register (public)
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "invalid_body", "Invalid request body", nil)
		return
	}

	auth, err := h.service.Register(r.Context(), &req)
	if err != nil {
		respondError(w, h.log, err, "register")
		return
	}

	utils.ResponseCreated(w, "Account created", auth)
}

// Login handles POST /api/auth/login (public)
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "invalid_body", "Invalid request body", nil)
		return
	}

	auth, err := h.service.Login(r.Context(), &req)
	if err != nil {
		respondError(w, h.log, err, "login")
		return
	}

	utils.ResponseSuccess(w, "success", auth)
}

// SendOTP handles POST /api/verification/send (public)
func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req request.SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "invalid_body", "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "validation_failed", "Validation failed", validationErrors)
		return
	}

	if err := h.service.SendOTP(r.Context(), req.Email); err != nil {
		respondError(w, h.log, err, "send OTP")
		return
	}

	utils.ResponseSuccess(w, "Verification code sent", nil)
}

// VerifyEmail handles POST /api/verification/verify (public)
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "invalid_body", "Invalid request body", nil)
		return
	}

	if err := h.service.VerifyEmail(r.Context(), &req); err != nil {
		respondError(w, h.log, err, "verify email")
		return
	}

	utils.ResponseSuccess(w, "Email verified", nil)
}
