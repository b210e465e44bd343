package middleware

import (
	"context"
	"errors"
	"net/http"

	"freelance-booking/internal/data/entity"
	"freelance-booking/internal/usecase"
	"freelance-booking/pkg/utils"

	"go.uber.org/zap"
)

// SessionVerifier is the part of the auth service the session middleware needs.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*entity.User, error)
}

// AdminAuthenticator is the part of the admin service the admin middleware needs.
type AdminAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.Admin, error)
}

// AuthSession validates an opaque client session token from the
// Authorization header and stores the user id in the context.
func AuthSession(sessions SessionVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := utils.BearerToken(r)
			if token == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token. Use: Bearer <token>")
				return
			}

			user, err := sessions.Verify(r.Context(), token)
			if err != nil {
				if errors.Is(err, usecase.ErrUnauthorized) {
					logger.Warn("Invalid or expired session", zap.String("path", r.URL.Path))
					utils.ResponseUnauthorized(w, "Invalid or expired session")
					return
				}
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.SetUserContext(r.Context(), user.ID)))
		})
	}
}

// AdminAuth accepts only admin JWTs. Client session tokens never pass.
func AdminAuth(admins AdminAuthenticator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := utils.BearerToken(r)
			if token == "" {
				utils.ResponseUnauthorized(w, "Admin authentication required")
				return
			}

			admin, err := admins.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, usecase.ErrUnauthorized) {
					logger.Warn("Admin check: rejected token",
						zap.Error(err),
						zap.String("path", r.URL.Path))
					utils.ResponseUnauthorized(w, "Admin authentication required")
					return
				}
				logger.Error("Admin check: failed to authenticate", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.SetAdminContext(r.Context(), admin.ID)))
		})
	}
}
