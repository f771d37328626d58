package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"relomate/internal/onboarding"
	id "relomate/pkg/domain"
	"relomate/pkg/platform/httputil"
	"relomate/pkg/requestcontext"
)

// AdminService is the back-office operation surface.
type AdminService interface {
	GetState(ctx context.Context, userID id.UserID) (*onboarding.State, error)
	Complete(ctx context.Context, userID id.UserID) (*onboarding.State, error)
}

// AdminHandler serves back-office onboarding routes. The admin middleware
// is attached by the router; these handlers assume it already ran.
type AdminHandler struct {
	logger  *slog.Logger
	service AdminService
}

func NewAdmin(service AdminService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{logger: logger, service: service}
}

// Register attaches the admin onboarding routes.
func (h *AdminHandler) Register(r chi.Router) {
	r.Get("/onboarding/{userID}", h.handleGetState)
	r.Post("/onboarding/{userID}/complete", h.handleComplete)
}

func (h *AdminHandler) handleGetState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	state, err := h.service.GetState(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStateResponse(state))
}

func (h *AdminHandler) handleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	state, err := h.service.Complete(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "admin completion rejected",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", userID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "onboarding completed by admin",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", userID,
	)
	httputil.WriteJSON(w, http.StatusOK, toStateResponse(state))
}
