// Package handler exposes the onboarding flow over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"relomate/internal/onboarding"
	id "relomate/pkg/domain"
	dErrors "relomate/pkg/domain-errors"
	"relomate/pkg/platform/httputil"
	"relomate/pkg/requestcontext"
)

// Service is the onboarding operation surface the handler needs.
type Service interface {
	GetState(ctx context.Context, userID id.UserID) (*onboarding.State, error)
	SetRelocationType(ctx context.Context, userID id.UserID, track id.RelocationType) (*onboarding.State, error)
	SubmitPersonalDetails(ctx context.Context, userID id.UserID, details onboarding.PersonalDetails) (*onboarding.State, error)
	AnswerVisaQuestion(ctx context.Context, userID id.UserID, question int, value string) (*onboarding.State, error)
	SubmitPayment(ctx context.Context, userID id.UserID, payment onboarding.PaymentDetails) (*onboarding.State, error)
	SubmitCall(ctx context.Context, userID id.UserID, call onboarding.CallDetails) (*onboarding.State, error)
	SubmitDocuments(ctx context.Context, userID id.UserID, docs []onboarding.Document) (*onboarding.State, error)
	Back(ctx context.Context, userID id.UserID) (*onboarding.State, error)
	CanNavigateTo(ctx context.Context, userID id.UserID, target onboarding.Step) (bool, error)
}

// Handler serves the onboarding wizard routes. All routes require an
// authenticated user; the middleware chain is attached by the router.
type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register attaches the onboarding routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/onboarding", func(r chi.Router) {
		r.Get("/state", h.handleGetState)
		r.Get("/can-navigate", h.handleCanNavigate)
		r.Post("/relocation-type", h.handleSetRelocationType)
		r.Post("/personal-details", h.handlePersonalDetails)
		r.Post("/visa-check/answer", h.handleVisaAnswer)
		r.Post("/payment", h.handlePayment)
		r.Post("/call", h.handleCall)
		r.Post("/documents", h.handleDocuments)
		r.Post("/back", h.handleBack)
	})
}

func (h *Handler) handleGetState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state, err := h.service.GetState(ctx, requestcontext.UserID(ctx))
	if err != nil {
		h.writeError(ctx, w, "get state", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStateResponse(state))
}

func (h *Handler) handleCanNavigate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw := r.URL.Query().Get("step")
	if raw == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "missing step query parameter"))
		return
	}
	// The wizard's step indicator sends numeric identifiers (0..5, 2.5).
	number, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "step must be numeric"))
		return
	}
	step, err := onboarding.StepFromNumber(number)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	allowed, err := h.service.CanNavigateTo(ctx, requestcontext.UserID(ctx), step)
	if err != nil {
		h.writeError(ctx, w, "can navigate", err)
		return
	}
	resp := canNavigateResponse{Step: step.String(), Allowed: allowed}
	if !allowed {
		resp.Message = "complete the current step first"
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSetRelocationType(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[setRelocationTypeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	track, err := id.ParseRelocationType(req.RelocationType)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	state, err := h.service.SetRelocationType(ctx, requestcontext.UserID(ctx), track)
	if err != nil {
		h.writeError(ctx, w, "set relocation type", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStateResponse(state))
}

func (h *Handler) handlePersonalDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[personalDetailsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	state, err := h.service.SubmitPersonalDetails(ctx, requestcontext.UserID(ctx), req.toModel())
	if err != nil {
		h.writeError(ctx, w, "submit personal details", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStateResponse(state))
}

func (h *Handler) handleVisaAnswer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[visaAnswerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	state, err := h.service.AnswerVisaQuestion(ctx, requestcontext.UserID(ctx), req.Question, req.Answer)
	if err != nil {
		h.writeError(ctx, w, "answer visa question", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStateResponse(state))
}

func (h *Handler) handlePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[paymentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	state, err := h.service.SubmitPayment(ctx, requestcontext.UserID(ctx), req.toModel())
	if err != nil {
		h.writeError(ctx, w, "submit payment", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStateResponse(state))
}

func (h *Handler) handleCall(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[callRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	state, err := h.service.SubmitCall(ctx, requestcontext.UserID(ctx), req.toModel())
	if err != nil {
		h.writeError(ctx, w, "submit call", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStateResponse(state))
}

func (h *Handler) handleDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[documentsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	state, err := h.service.SubmitDocuments(ctx, requestcontext.UserID(ctx), req.toModel())
	if err != nil {
		h.writeError(ctx, w, "submit documents", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStateResponse(state))
}

func (h *Handler) handleBack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state, err := h.service.Back(ctx, requestcontext.UserID(ctx))
	if err != nil {
		h.writeError(ctx, w, "back", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStateResponse(state))
}

// writeError logs unexpected failures and translates the error for the
// client. Expected flow errors (validation, forbidden jumps, conflicts)
// pass through at warn level only.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	switch dErrors.GetCode(err) {
	case dErrors.CodeInternal, dErrors.CodeInvariantViolation:
		h.logger.ErrorContext(ctx, "onboarding operation failed",
			"request_id", requestcontext.RequestID(ctx),
			"op", op,
			"error", err.Error(),
		)
	default:
		h.logger.WarnContext(ctx, "onboarding request rejected",
			"request_id", requestcontext.RequestID(ctx),
			"op", op,
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}
