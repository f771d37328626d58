// Package handler exposes pricing over HTTP: a read endpoint for the
// wizard's payment step and back-office override management.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"relomate/internal/pricing"
	id "relomate/pkg/domain"
	dErrors "relomate/pkg/domain-errors"
	"relomate/pkg/platform/httputil"
	"relomate/pkg/requestcontext"
)

// Service is the pricing operation surface the handler needs.
type Service interface {
	GetPrice(ctx context.Context, userID id.UserID, track id.RelocationType) (pricing.Price, error)
	ListOverrides(ctx context.Context, userID id.UserID) ([]pricing.Override, error)
	SetOverride(ctx context.Context, override pricing.Override) (*pricing.Override, error)
	RemoveOverride(ctx context.Context, userID id.UserID, track id.RelocationType) error
}

type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register attaches the user-facing price route.
func (h *Handler) Register(r chi.Router) {
	r.Get("/pricing", h.handleGetPrice)
}

// RegisterAdmin attaches the back-office override routes.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/pricing/{userID}", h.handleListOverrides)
	r.Put("/pricing/{userID}", h.handleSetOverride)
	r.Delete("/pricing/{userID}", h.handleRemoveOverride)
}

func (h *Handler) handleGetPrice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	track, err := id.ParseRelocationType(r.URL.Query().Get("track"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	price, err := h.service.GetPrice(ctx, requestcontext.UserID(ctx), track)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, price)
}

func (h *Handler) handleListOverrides(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	overrides, err := h.service.ListOverrides(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if overrides == nil {
		overrides = []pricing.Override{}
	}
	httputil.WriteJSON(w, http.StatusOK, overrides)
}

type setOverrideRequest struct {
	Track    string `json:"track"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Note     string `json:"note"`
}

func (h *Handler) handleSetOverride(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[setOverrideRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	// Amounts arrive as strings so clients never round them through floats.
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		httputil.WriteError(w, dErrors.NewValidation("invalid price override", map[string]string{
			"amount": "must be a decimal number",
		}))
		return
	}

	override, err := h.service.SetOverride(ctx, pricing.Override{
		UserID:   userID,
		Track:    id.RelocationType(req.Track),
		Amount:   amount,
		Currency: req.Currency,
		Note:     req.Note,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "price override set",
		"request_id", requestID,
		"user_id", userID,
		"track", override.Track,
	)
	httputil.WriteJSON(w, http.StatusOK, override)
}

func (h *Handler) handleRemoveOverride(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	track, err := id.ParseRelocationType(r.URL.Query().Get("track"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.RemoveOverride(ctx, userID, track); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
