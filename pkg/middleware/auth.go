package middleware

import (
	"net/http"
	"strings"

	"ride-share/pkg/utils"

	"go.uber.org/zap"
)

// Auth validates the Bearer JWT and stashes the caller's user ID in
// the request context.
func Auth(jwtConfig utils.JWTConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			userID, err := utils.ParseToken(parts[1], jwtConfig)
			if err != nil {
				logger.Warn("Invalid or expired token", zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := utils.SetUserContext(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
