// Package admin gates back-office routes behind the configured admin
// token. Only the bcrypt hash of the token lives in configuration.
package admin

import (
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	dErrors "relomate/pkg/domain-errors"
	"relomate/pkg/platform/httputil"
	"relomate/pkg/requestcontext"
)

// RequireAdminToken compares the X-Admin-Token header against the stored
// bcrypt hash. An empty hash disables all admin routes.
func RequireAdminToken(tokenHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if tokenHash == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "admin access is not configured"))
				return
			}

			token := r.Header.Get("X-Admin-Token")
			if err := bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(token)); err != nil {
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin token required"))
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithAdmin(ctx)))
		})
	}
}
