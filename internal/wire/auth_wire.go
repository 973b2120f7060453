package wire

import (
	"ride-share/internal/adaptor"
	"ride-share/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/auth/register", authHandler.Register)
	r.Post("/api/auth/login", authHandler.Login)
	r.Post("/api/verification/send", authHandler.SendOTP)
	r.Post("/api/verification/verify", authHandler.VerifyEmail)
}
