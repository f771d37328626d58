// Package service orchestrates the onboarding flow: it guards step order,
// runs per-step validation, invokes the eligibility engine at the end of
// the visa questionnaire, and persists state through the Store port.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"relomate/internal/eligibility"
	"relomate/internal/onboarding"
	"relomate/internal/onboarding/metrics"
	id "relomate/pkg/domain"
	dErrors "relomate/pkg/domain-errors"
	"relomate/pkg/platform/audit"
	"relomate/pkg/platform/sentinel"
	"relomate/pkg/requestcontext"
)

// Store is the persistence port. Load returns sentinel.ErrNotFound
// (optionally wrapped) when the user has no onboarding record yet.
type Store interface {
	Load(ctx context.Context, userID id.UserID) (*onboarding.State, error)
	Save(ctx context.Context, state *onboarding.State) error
}

// AuditPublisher receives onboarding audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service drives the onboarding state machine for one user at a time.
type Service struct {
	store  Store
	logger *slog.Logger
	audit  AuditPublisher
	m      *metrics.Metrics
	tracer trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.audit = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.m = m
	}
}

// New constructs a Service around a Store.
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
		tracer: otel.Tracer("relomate/internal/onboarding"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetState returns the user's onboarding record, creating it lazily on
// first access.
func (s *Service) GetState(ctx context.Context, userID id.UserID) (*onboarding.State, error) {
	return s.loadOrCreate(ctx, userID)
}

// SetRelocationType chooses the relocation track and advances to the
// personal-details step. Choosing the same track again is a no-op;
// switching tracks restarts the flow at personal details and clears the
// visa questionnaire progress, since the verdict belongs to the europe
// track only.
func (s *Service) SetRelocationType(ctx context.Context, userID id.UserID, track id.RelocationType) (*onboarding.State, error) {
	ctx, span := s.tracer.Start(ctx, "onboarding.SetRelocationType",
		trace.WithAttributes(attribute.String("track", track.String())))
	defer span.End()

	if !track.IsValid() {
		return nil, dErrors.NewValidation("invalid relocation type", map[string]string{
			"relocationType": "must be one of: europe, gcc",
		})
	}

	state, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if state.RelocationType == track && state.IsCompleted(onboarding.StepRelocationType) {
		return state, nil
	}

	changed := state.RelocationType.IsValid() && state.RelocationType != track
	state.RelocationType = track
	if changed {
		// Track switch restarts the flow. Step payloads survive so the
		// user does not retype them, but every confirmation is revoked.
		state.CompletedSteps = make(map[onboarding.Step]bool)
		state.VisaAnswers = nil
		state.Verdict = nil
		state.Score = nil
		state.VisaQuestion = 0
		state.Completed = false
	}
	state.MarkCompleted(onboarding.StepRelocationType)
	state.CurrentStep = onboarding.StepPersonalDetails

	if err := s.save(ctx, state); err != nil {
		return nil, err
	}

	s.emit(ctx, audit.Event{
		Category: audit.CategoryOperations,
		UserID:   userID,
		Action:   string(audit.EventRelocationTypeSet),
		Track:    track.String(),
	})
	s.m.IncrementStepCompleted(onboarding.StepRelocationType.String(), track.String())
	return state, nil
}

// SubmitPersonalDetails validates and records the personal-details payload.
func (s *Service) SubmitPersonalDetails(ctx context.Context, userID id.UserID, details onboarding.PersonalDetails) (*onboarding.State, error) {
	return s.submit(ctx, userID, onboarding.StepPersonalDetails, details.Validate, func(state *onboarding.State) {
		state.PersonalDetails = &details
	})
}

// SubmitPayment records the payment confirmation reference.
func (s *Service) SubmitPayment(ctx context.Context, userID id.UserID, payment onboarding.PaymentDetails) (*onboarding.State, error) {
	return s.submit(ctx, userID, onboarding.StepPayment, payment.Validate, func(state *onboarding.State) {
		state.Payment = &payment
	})
}

// SubmitCall records the scheduled consultation call.
func (s *Service) SubmitCall(ctx context.Context, userID id.UserID, call onboarding.CallDetails) (*onboarding.State, error) {
	return s.submit(ctx, userID, onboarding.StepScheduleCall, call.Validate, func(state *onboarding.State) {
		state.Call = &call
	})
}

// submit is the shared path for plain payload steps: guard step order,
// validate, write the payload, mark the step completed, and advance the
// cursor when the submitted step is the current one. Re-submitting an
// already-completed step rewrites its payload without moving the cursor
// backwards or duplicating the completed-set entry.
func (s *Service) submit(ctx context.Context, userID id.UserID, step onboarding.Step, validate func() map[string]string, apply func(*onboarding.State)) (*onboarding.State, error) {
	ctx, span := s.tracer.Start(ctx, "onboarding.Submit",
		trace.WithAttributes(attribute.String("step", step.String())))
	defer span.End()

	start := time.Now()
	defer func() { s.m.ObserveSubmitLatency(step.String(), time.Since(start)) }()

	state, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.guard(ctx, state, step); err != nil {
		return nil, err
	}

	if fields := validate(); fields != nil {
		s.m.IncrementValidationFailure(step.String())
		s.logger.WarnContext(ctx, "step validation failed",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", userID,
			"step", step,
			"fields", len(fields),
		)
		return nil, dErrors.NewValidation("invalid "+step.String()+" payload", fields)
	}

	apply(state)
	s.complete(state, step)

	if err := s.save(ctx, state); err != nil {
		return nil, err
	}

	category := audit.CategoryOperations
	if step == onboarding.StepPayment {
		category = audit.CategoryCompliance
	}
	s.emit(ctx, audit.Event{
		Category: category,
		UserID:   userID,
		Action:   string(audit.EventStepCompleted),
		Step:     step.String(),
		Track:    state.RelocationType.String(),
	})
	s.m.IncrementStepCompleted(step.String(), state.RelocationType.String())
	return state, nil
}

// AnswerVisaQuestion records one questionnaire answer. Answers land in
// presentation order: the submitted question index must match the state's
// cursor. On the ninth answer the eligibility engine runs once, the
// verdict and score are stored, and the flow advances past the result
// display straight to payment. Both verdicts advance; eligibility is
// advisory, never blocking.
func (s *Service) AnswerVisaQuestion(ctx context.Context, userID id.UserID, question int, value string) (*onboarding.State, error) {
	ctx, span := s.tracer.Start(ctx, "onboarding.AnswerVisaQuestion",
		trace.WithAttributes(attribute.Int("question", question)))
	defer span.End()

	state, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if state.RelocationType == id.RelocationGCC {
		return nil, dErrors.New(dErrors.CodeForbidden, "visa check is not part of the gcc relocation track")
	}
	if err := s.guard(ctx, state, onboarding.StepVisaCheck); err != nil {
		return nil, err
	}
	if state.Verdict != nil {
		// The stored verdict is written once and never recomputed.
		return nil, dErrors.New(dErrors.CodeConflict, "eligibility has already been evaluated")
	}

	q, err := id.ParseVisaQuestion(question)
	if err != nil {
		return nil, err
	}
	if int(q) != state.VisaQuestion {
		return nil, dErrors.Newf(dErrors.CodeConflict, "expected an answer for question %d", state.VisaQuestion)
	}

	if state.VisaAnswers == nil {
		state.VisaAnswers = &eligibility.AnswerSet{}
	}
	if !state.VisaAnswers.Answer(q, value) {
		s.m.IncrementValidationFailure(onboarding.StepVisaCheck.String())
		return nil, dErrors.NewValidation("invalid answer", map[string]string{
			q.Field(): "not one of the allowed options",
		})
	}

	if int(q) < id.VisaQuestionCount-1 {
		state.VisaQuestion = int(q) + 1
		if err := s.save(ctx, state); err != nil {
			return nil, err
		}
		return state, nil
	}

	return s.evaluateAndAdvance(ctx, state)
}

// evaluateAndAdvance runs the engine over the completed answer set and
// moves the flow to payment. The visa-result step is display-only and is
// marked completed together with visa-check.
func (s *Service) evaluateAndAdvance(ctx context.Context, state *onboarding.State) (*onboarding.State, error) {
	verdict, err := eligibility.Evaluate(*state.VisaAnswers)
	if err != nil {
		return nil, err
	}
	score, err := eligibility.Score(*state.VisaAnswers)
	if err != nil {
		return nil, err
	}

	state.Verdict = &verdict
	state.Score = &score
	state.MarkCompleted(onboarding.StepVisaCheck)
	state.MarkCompleted(onboarding.StepVisaResult)
	if state.CurrentStep == onboarding.StepVisaCheck {
		state.CurrentStep = onboarding.StepPayment
	}

	if err := s.save(ctx, state); err != nil {
		return nil, err
	}

	decision := "ineligible"
	if verdict.Eligible {
		decision = "eligible"
	}
	s.emit(ctx, audit.Event{
		Category: audit.CategoryOperations,
		UserID:   state.UserID,
		Action:   string(audit.EventEligibilityEvaluated),
		Step:     onboarding.StepVisaCheck.String(),
		Track:    state.RelocationType.String(),
		Decision: decision,
	})
	s.m.IncrementStepCompleted(onboarding.StepVisaCheck.String(), state.RelocationType.String())
	s.m.ObserveEligibility(decision, score)

	s.logger.InfoContext(ctx, "eligibility evaluated",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", state.UserID,
		"decision", decision,
		"score", score,
	)
	return state, nil
}

// SubmitDocuments records the uploaded-document descriptors and marks
// onboarding complete. This is the terminal step.
func (s *Service) SubmitDocuments(ctx context.Context, userID id.UserID, docs []onboarding.Document) (*onboarding.State, error) {
	ctx, span := s.tracer.Start(ctx, "onboarding.SubmitDocuments")
	defer span.End()

	state, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.guard(ctx, state, onboarding.StepDocuments); err != nil {
		return nil, err
	}

	if fields := onboarding.ValidateDocuments(docs); fields != nil {
		s.m.IncrementValidationFailure(onboarding.StepDocuments.String())
		return nil, dErrors.NewValidation("invalid documents payload", fields)
	}

	for i := range docs {
		if docs[i].ID.IsNil() {
			docs[i].ID = id.NewDocumentID()
		}
	}
	state.Documents = docs
	state.MarkCompleted(onboarding.StepDocuments)
	state.Completed = true

	if err := s.save(ctx, state); err != nil {
		return nil, err
	}

	s.emit(ctx, audit.Event{
		Category: audit.CategoryCompliance,
		UserID:   userID,
		Action:   string(audit.EventDocumentsSubmitted),
		Step:     onboarding.StepDocuments.String(),
		Track:    state.RelocationType.String(),
	})
	s.emit(ctx, audit.Event{
		Category: audit.CategoryCompliance,
		UserID:   userID,
		Action:   string(audit.EventOnboardingCompleted),
		Track:    state.RelocationType.String(),
	})
	s.m.IncrementStepCompleted(onboarding.StepDocuments.String(), state.RelocationType.String())
	s.m.IncrementCompleted(state.RelocationType.String())
	return state, nil
}

// Back moves one step backwards in the current track. Inside the visa
// questionnaire it moves one question backwards; from the first question
// it returns to personal details. Completed-step confirmations survive,
// so forward navigation over already-confirmed ground stays open.
func (s *Service) Back(ctx context.Context, userID id.UserID) (*onboarding.State, error) {
	ctx, span := s.tracer.Start(ctx, "onboarding.Back")
	defer span.End()

	state, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if state.CurrentStep == onboarding.StepRelocationType {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "already at the first step")
	}

	if state.CurrentStep == onboarding.StepVisaCheck && state.VisaQuestion > 0 {
		state.VisaQuestion--
	} else {
		prev, err := onboarding.PrevStep(state.RelocationType, state.CurrentStep)
		if err != nil {
			return nil, err
		}
		state.CurrentStep = prev
	}

	if err := s.save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// CanNavigateTo reports whether the user may jump to the target step.
func (s *Service) CanNavigateTo(ctx context.Context, userID id.UserID, target onboarding.Step) (bool, error) {
	state, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return false, err
	}
	ok := state.CanNavigateTo(target)
	if !ok {
		s.m.IncrementNavigationRejected()
	}
	return ok, nil
}

// Complete flips the onboarding-complete flag on behalf of an operator,
// for cases handled outside the wizard (manual document intake, support
// escalations). Unlike the wizard path it requires an existing record.
func (s *Service) Complete(ctx context.Context, userID id.UserID) (*onboarding.State, error) {
	state, err := s.store.Load(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "onboarding not started")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load onboarding state")
	}
	if state.Completed {
		return state, nil
	}

	state.Completed = true
	if err := s.save(ctx, state); err != nil {
		return nil, err
	}

	s.emit(ctx, audit.Event{
		Category: audit.CategoryCompliance,
		UserID:   userID,
		Action:   string(audit.EventOnboardingCompleted),
		Track:    state.RelocationType.String(),
		ActorID:  "admin",
	})
	return state, nil
}

// guard rejects submissions for steps ahead of the user's position. The
// predicate backing CanNavigateTo decides, with one addition: when the
// current step is already confirmed, the first unconfirmed successor may
// be submitted. That is the "continue" action after backwards navigation.
// Confirmed successors are skipped on the way, so a user who browsed back
// into the evaluated questionnaire continues past the display-only result
// step straight to payment.
func (s *Service) guard(ctx context.Context, state *onboarding.State, step onboarding.Step) error {
	if state.CanNavigateTo(step) {
		return nil
	}
	if state.IsCompleted(state.CurrentStep) {
		cursor := state.CurrentStep
		for {
			next, err := onboarding.NextStep(state.RelocationType, cursor)
			if err != nil {
				break
			}
			if next == step {
				return nil
			}
			if !state.IsCompleted(next) {
				break
			}
			cursor = next
		}
	}
	s.m.IncrementNavigationRejected()
	s.logger.WarnContext(ctx, "step submission out of order",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", state.UserID,
		"current_step", state.CurrentStep,
		"submitted_step", step,
	)
	return dErrors.New(dErrors.CodeForbidden, "complete the current step first")
}

// complete marks the step done and advances the cursor when it is not
// already past the submitted step. Resubmitting an earlier step from
// further along never drags the cursor backwards.
func (s *Service) complete(state *onboarding.State, step onboarding.Step) {
	state.MarkCompleted(step)
	if state.CurrentStep.Number() > step.Number() {
		return
	}
	if next, err := onboarding.NextStep(state.RelocationType, step); err == nil {
		state.CurrentStep = next
	}
}

func (s *Service) loadOrCreate(ctx context.Context, userID id.UserID) (*onboarding.State, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing user identity")
	}
	state, err := s.store.Load(ctx, userID)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load onboarding state")
	}

	state = onboarding.NewState(userID, requestcontext.Now(ctx))
	if err := s.save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *Service) save(ctx context.Context, state *onboarding.State) error {
	state.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Save(ctx, state); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save onboarding state")
	}
	return nil
}

// emit publishes an audit event best-effort: the flow never fails because
// the audit pipeline is down.
func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	event.Timestamp = requestcontext.Now(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	event.DeviceName = requestcontext.DeviceName(ctx)
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", event.Action,
			"error", err.Error(),
		)
	}
}
