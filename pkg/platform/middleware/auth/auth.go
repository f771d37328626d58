// Package auth provides the bearer-token middleware that authenticates
// portal users and injects their typed ID into the request context.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	id "relomate/pkg/domain"
	dErrors "relomate/pkg/domain-errors"
	"relomate/pkg/platform/httputil"
	"relomate/pkg/requestcontext"
)

// TokenValidator validates a raw token string into a user ID.
type TokenValidator interface {
	Validate(tokenString string) (id.UserID, error)
}

// RequireUser rejects requests without a valid bearer token and stores the
// authenticated user ID in the context for handlers and services.
func RequireUser(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "bearer token required"))
				return
			}

			userID, err := validator.Validate(token)
			if err != nil {
				logger.WarnContext(ctx, "token validation failed",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				httputil.WriteError(w, err)
				return
			}

			ctx = requestcontext.WithUserID(ctx, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
