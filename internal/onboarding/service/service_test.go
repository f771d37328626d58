package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"relomate/internal/eligibility"
	"relomate/internal/onboarding"
	"relomate/internal/onboarding/store"
	id "relomate/pkg/domain"
	dErrors "relomate/pkg/domain-errors"
	"relomate/pkg/platform/audit"
	"relomate/pkg/platform/audit/publisher"
	auditmemory "relomate/pkg/platform/audit/store/memory"
	"relomate/pkg/requestcontext"
)

// strongAnswers answers every question with the strongest option, in
// questionnaire order.
var strongAnswers = []string{
	"yes", "non-eu", "fluent", "have-job", "university-degree",
	"none", "germany", "yes", "3plus",
}

type ServiceSuite struct {
	suite.Suite
	ctx        context.Context
	service    *Service
	store      *store.InMemoryStore
	auditStore *auditmemory.InMemoryStore
	userID     id.UserID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
	s.store = store.NewInMemoryStore()
	s.auditStore = auditmemory.NewInMemoryStore()
	s.userID = id.NewUserID()
	s.service = New(s.store,
		WithAuditPublisher(publisher.NewPublisher(s.auditStore)),
	)
}

// answerAll walks the full questionnaire with the given answers.
func (s *ServiceSuite) answerAll(answers []string) *onboarding.State {
	var state *onboarding.State
	var err error
	for i, answer := range answers {
		state, err = s.service.AnswerVisaQuestion(s.ctx, s.userID, i, answer)
		s.Require().NoError(err, "question %d", i)
	}
	return state
}

func (s *ServiceSuite) startEurope() {
	_, err := s.service.SetRelocationType(s.ctx, s.userID, id.RelocationEurope)
	s.Require().NoError(err)
	_, err = s.service.SubmitPersonalDetails(s.ctx, s.userID, onboarding.PersonalDetails{
		FirstName: "Ada", LastName: "Lovelace",
		Email: "ada@example.com", Phone: "+49 160 1234567", Country: "UK",
	})
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestGetState_LazyCreate() {
	state, err := s.service.GetState(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Equal(onboarding.StepRelocationType, state.CurrentStep)
	s.Empty(state.CompletedSteps)
	s.False(state.Completed)

	// Second call returns the persisted record, not a fresh one.
	again, err := s.service.GetState(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Equal(state.CreatedAt, again.CreatedAt)
}

func (s *ServiceSuite) TestGetState_MissingIdentity() {
	_, err := s.service.GetState(s.ctx, id.UserID{})
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestSetRelocationType() {
	state, err := s.service.SetRelocationType(s.ctx, s.userID, id.RelocationEurope)
	s.Require().NoError(err)
	s.Equal(onboarding.StepPersonalDetails, state.CurrentStep)
	s.True(state.IsCompleted(onboarding.StepRelocationType))

	events, err := s.auditStore.ListByUser(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(string(audit.EventRelocationTypeSet), events[0].Action)
	s.Equal("europe", events[0].Track)
}

func (s *ServiceSuite) TestSetRelocationType_Invalid() {
	_, err := s.service.SetRelocationType(s.ctx, s.userID, id.RelocationType("mars"))
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Contains(dErrors.FieldErrors(err), "relocationType")
}

func (s *ServiceSuite) TestSetRelocationType_SwitchRestartsFlow() {
	s.startEurope()
	s.answerAll(strongAnswers)

	state, err := s.service.SetRelocationType(s.ctx, s.userID, id.RelocationGCC)
	s.Require().NoError(err)
	s.Equal(onboarding.StepPersonalDetails, state.CurrentStep)
	s.Nil(state.Verdict)
	s.Nil(state.VisaAnswers)
	s.Zero(state.VisaQuestion)
	s.False(state.IsCompleted(onboarding.StepPersonalDetails))
	// The typed-in details survive the restart.
	s.NotNil(state.PersonalDetails)
}

func (s *ServiceSuite) TestSubmitPersonalDetails_MissingEmail() {
	_, err := s.service.SetRelocationType(s.ctx, s.userID, id.RelocationEurope)
	s.Require().NoError(err)

	_, err = s.service.SubmitPersonalDetails(s.ctx, s.userID, onboarding.PersonalDetails{
		FirstName: "Ada", LastName: "Lovelace", Phone: "+49", Country: "UK",
	})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Contains(dErrors.FieldErrors(err), "email")

	// Rejected submissions never move the cursor.
	state, err := s.service.GetState(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Equal(onboarding.StepPersonalDetails, state.CurrentStep)
	s.False(state.IsCompleted(onboarding.StepPersonalDetails))
}

func (s *ServiceSuite) TestSubmitAheadOfCursor() {
	_, err := s.service.SubmitPersonalDetails(s.ctx, s.userID, onboarding.PersonalDetails{})
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	_, err = s.service.SubmitPayment(s.ctx, s.userID, onboarding.PaymentDetails{
		Provider: onboarding.ProviderPayPal, Reference: "sub_1",
	})
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ServiceSuite) TestQuestionnaire_FullyEligible() {
	s.startEurope()
	state := s.answerAll(strongAnswers)

	s.Equal(onboarding.StepPayment, state.CurrentStep, "result display auto-advances to payment")
	s.True(state.IsCompleted(onboarding.StepVisaCheck))
	s.True(state.IsCompleted(onboarding.StepVisaResult))
	s.Require().NotNil(state.Verdict)
	s.True(state.Verdict.Eligible)
	s.Empty(state.Verdict.Reasons)
	s.Equal(eligibility.RecommendationEligible, state.Verdict.Recommendation)
	s.Require().NotNil(state.Score)
	s.Equal(100, *state.Score)

	events, err := s.auditStore.ListByUser(s.ctx, s.userID)
	s.Require().NoError(err)
	var decisions []string
	for _, e := range events {
		if e.Action == string(audit.EventEligibilityEvaluated) {
			decisions = append(decisions, e.Decision)
		}
	}
	s.Equal([]string{"eligible"}, decisions)
}

func (s *ServiceSuite) TestQuestionnaire_IneligibleStillAdvances() {
	s.startEurope()
	answers := append([]string(nil), strongAnswers...)
	answers[0] = "no" // fails the stay-duration gate
	state := s.answerAll(answers)

	s.Equal(onboarding.StepPayment, state.CurrentStep, "verdict is advisory, both outcomes continue")
	s.Require().NotNil(state.Verdict)
	s.False(state.Verdict.Eligible)
	s.Len(state.Verdict.Reasons, 1)
}

func (s *ServiceSuite) TestQuestionnaire_StrictOrder() {
	s.startEurope()

	_, err := s.service.AnswerVisaQuestion(s.ctx, s.userID, 3, "have-job")
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	_, err = s.service.AnswerVisaQuestion(s.ctx, s.userID, 9, "yes")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *ServiceSuite) TestQuestionnaire_InvalidOption() {
	s.startEurope()

	_, err := s.service.AnswerVisaQuestion(s.ctx, s.userID, 0, "maybe")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Contains(dErrors.FieldErrors(err), "stayLongerThan90Days")

	// Cursor stays on the rejected question.
	state, err := s.service.GetState(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Zero(state.VisaQuestion)
}

func (s *ServiceSuite) TestQuestionnaire_FrozenAfterEvaluation() {
	s.startEurope()
	s.answerAll(strongAnswers)

	_, err := s.service.AnswerVisaQuestion(s.ctx, s.userID, 0, "no")
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	state, err := s.service.GetState(s.ctx, s.userID)
	s.Require().NoError(err)
	s.True(state.Verdict.Eligible, "stored verdict is never recomputed")
}

func (s *ServiceSuite) TestQuestionnaire_GCCForbidden() {
	_, err := s.service.SetRelocationType(s.ctx, s.userID, id.RelocationGCC)
	s.Require().NoError(err)

	_, err = s.service.AnswerVisaQuestion(s.ctx, s.userID, 0, "yes")
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ServiceSuite) TestGCCTrack_SkipsVisa() {
	_, err := s.service.SetRelocationType(s.ctx, s.userID, id.RelocationGCC)
	s.Require().NoError(err)

	state, err := s.service.SubmitPersonalDetails(s.ctx, s.userID, onboarding.PersonalDetails{
		FirstName: "Omar", LastName: "Haddad",
		Email: "omar@example.com", Phone: "+971 50 1234567", Country: "JO",
	})
	s.Require().NoError(err)
	s.Equal(onboarding.StepPayment, state.CurrentStep, "gcc goes straight to payment")
	s.Nil(state.Verdict)
}

func (s *ServiceSuite) TestFullFlow_EuropeToCompletion() {
	s.startEurope()
	s.answerAll(strongAnswers)

	state, err := s.service.SubmitPayment(s.ctx, s.userID, onboarding.PaymentDetails{
		Provider: onboarding.ProviderTilopay, Reference: "ord_789", Plan: "relocation-full",
	})
	s.Require().NoError(err)
	s.Equal(onboarding.StepScheduleCall, state.CurrentStep)

	state, err = s.service.SubmitCall(s.ctx, s.userID, onboarding.CallDetails{
		ScheduledAt: time.Date(2026, 3, 20, 15, 0, 0, 0, time.UTC),
		Timezone:    "Europe/Berlin",
	})
	s.Require().NoError(err)
	s.Equal(onboarding.StepDocuments, state.CurrentStep)

	state, err = s.service.SubmitDocuments(s.ctx, s.userID, []onboarding.Document{
		{Type: "passport", ObjectKey: "docs/passport.pdf", SizeBytes: 120_000},
	})
	s.Require().NoError(err)
	s.True(state.Completed)
	s.Equal(onboarding.StepDocuments, state.CurrentStep, "documents is terminal")
	s.NotEmpty(state.Documents[0].ID, "document IDs are assigned on submit")

	events, err := s.auditStore.ListByUser(s.ctx, s.userID)
	s.Require().NoError(err)
	actions := make(map[string]int)
	for _, e := range events {
		actions[e.Action]++
	}
	s.Equal(1, actions[string(audit.EventDocumentsSubmitted)])
	s.Equal(1, actions[string(audit.EventOnboardingCompleted)])
}

func (s *ServiceSuite) TestSubmitDocuments_RequiresOne() {
	_, err := s.service.SetRelocationType(s.ctx, s.userID, id.RelocationGCC)
	s.Require().NoError(err)
	s.completeGCCThroughCall()

	_, err = s.service.SubmitDocuments(s.ctx, s.userID, nil)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Contains(dErrors.FieldErrors(err), "documents")

	state, err := s.service.GetState(s.ctx, s.userID)
	s.Require().NoError(err)
	s.False(state.Completed)
}

func (s *ServiceSuite) completeGCCThroughCall() {
	_, err := s.service.SubmitPersonalDetails(s.ctx, s.userID, onboarding.PersonalDetails{
		FirstName: "Omar", LastName: "Haddad",
		Email: "omar@example.com", Phone: "+971 50 1234567", Country: "JO",
	})
	s.Require().NoError(err)
	_, err = s.service.SubmitPayment(s.ctx, s.userID, onboarding.PaymentDetails{
		Provider: onboarding.ProviderPayPal, Reference: "sub_42",
	})
	s.Require().NoError(err)
	_, err = s.service.SubmitCall(s.ctx, s.userID, onboarding.CallDetails{
		ScheduledAt: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
		Timezone:    "Asia/Dubai",
	})
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestResubmit_Idempotent() {
	s.startEurope()
	s.answerAll(strongAnswers)

	payment := onboarding.PaymentDetails{Provider: onboarding.ProviderPayPal, Reference: "sub_1"}
	state, err := s.service.SubmitPayment(s.ctx, s.userID, payment)
	s.Require().NoError(err)
	s.Equal(onboarding.StepScheduleCall, state.CurrentStep)
	completed := len(state.CompletedSteps)

	// Identical resubmission: same next step, no new completed entries,
	// cursor does not move backwards.
	again, err := s.service.SubmitPayment(s.ctx, s.userID, payment)
	s.Require().NoError(err)
	s.Equal(onboarding.StepScheduleCall, again.CurrentStep)
	s.Len(again.CompletedSteps, completed)
}

func (s *ServiceSuite) TestBack() {
	s.startEurope()

	// Into the questionnaire, then backwards one question at a time.
	_, err := s.service.AnswerVisaQuestion(s.ctx, s.userID, 0, "yes")
	s.Require().NoError(err)
	_, err = s.service.AnswerVisaQuestion(s.ctx, s.userID, 1, "non-eu")
	s.Require().NoError(err)

	state, err := s.service.Back(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Equal(onboarding.StepVisaCheck, state.CurrentStep)
	s.Equal(1, state.VisaQuestion)

	state, err = s.service.Back(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Zero(state.VisaQuestion)

	// From question 0, back leaves the questionnaire.
	state, err = s.service.Back(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Equal(onboarding.StepPersonalDetails, state.CurrentStep)

	state, err = s.service.Back(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Equal(onboarding.StepRelocationType, state.CurrentStep)

	_, err = s.service.Back(s.ctx, s.userID)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *ServiceSuite) TestBack_IntoEvaluatedQuestionnaireThenForward() {
	s.startEurope()
	s.answerAll(strongAnswers) // now at payment, verdict stored

	// Browse back through the result display into the questionnaire.
	state, err := s.service.Back(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Equal(onboarding.StepVisaResult, state.CurrentStep)

	state, err = s.service.Back(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Equal(onboarding.StepVisaCheck, state.CurrentStep)

	// The stored verdict stays frozen.
	_, err = s.service.AnswerVisaQuestion(s.ctx, s.userID, state.VisaQuestion, "yes")
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	// Continuing forward skips the display-only result step: payment is
	// submittable directly from the questionnaire.
	state, err = s.service.SubmitPayment(s.ctx, s.userID, onboarding.PaymentDetails{
		Provider: onboarding.ProviderPayPal, Reference: "pp-42", Plan: "standard",
	})
	s.Require().NoError(err)
	s.Equal(onboarding.StepScheduleCall, state.CurrentStep)
	s.NotNil(state.Verdict)
}

func (s *ServiceSuite) TestCanNavigateTo() {
	s.startEurope()
	s.answerAll(strongAnswers) // now at payment

	for step, want := range map[onboarding.Step]bool{
		onboarding.StepRelocationType:  true,
		onboarding.StepPersonalDetails: true,
		onboarding.StepVisaCheck:       true,
		onboarding.StepVisaResult:      true,
		onboarding.StepPayment:         true,
		onboarding.StepScheduleCall:    false,
		onboarding.StepDocuments:       false,
	} {
		got, err := s.service.CanNavigateTo(s.ctx, s.userID, step)
		s.Require().NoError(err)
		s.Equal(want, got, "step %s", step)
	}
}

func (s *ServiceSuite) TestComplete_Admin() {
	_, err := s.service.Complete(s.ctx, s.userID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.service.SetRelocationType(s.ctx, s.userID, id.RelocationGCC)
	s.Require().NoError(err)

	state, err := s.service.Complete(s.ctx, s.userID)
	s.Require().NoError(err)
	s.True(state.Completed)

	// Idempotent.
	state, err = s.service.Complete(s.ctx, s.userID)
	s.Require().NoError(err)
	s.True(state.Completed)

	events, err := s.auditStore.ListByUser(s.ctx, s.userID)
	s.Require().NoError(err)
	var completions int
	for _, e := range events {
		if e.Action == string(audit.EventOnboardingCompleted) {
			completions++
			s.Equal("admin", e.ActorID)
		}
	}
	s.Equal(1, completions, "repeat completion emits no second event")
}
