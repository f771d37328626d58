package testutil

import (
	"net/http"

	id "relomate/pkg/domain"
	"relomate/pkg/requestcontext"
)

// WithUserID adds a user ID to the request context, simulating what the
// auth middleware does for authenticated requests. Invalid UUIDs are
// silently ignored.
func WithUserID(req *http.Request, userID string) *http.Request {
	if parsed, err := id.ParseUserID(userID); err == nil {
		return req.WithContext(requestcontext.WithUserID(req.Context(), parsed))
	}
	return req
}
