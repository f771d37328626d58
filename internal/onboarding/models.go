// Package onboarding implements the multi-step onboarding flow: the step
// state machine, per-step payload validation, and the per-user onboarding
// state record. Persistence and transport live in the store and handler
// subpackages; this package stays free of I/O.
package onboarding

import (
	"time"

	"relomate/internal/eligibility"
	id "relomate/pkg/domain"
	dErrors "relomate/pkg/domain-errors"
)

// Step identifies one screen of the onboarding wizard. The wizard orders
// steps numerically; visa-result sits between visa-check and payment as a
// display-only sub-step, which is why Number returns 2.5 for it.
type Step string

const (
	StepRelocationType  Step = "relocation-type"
	StepPersonalDetails Step = "personal-details"
	StepVisaCheck       Step = "visa-check"
	StepVisaResult      Step = "visa-result"
	StepPayment         Step = "payment"
	StepScheduleCall    Step = "schedule-call"
	StepDocuments       Step = "documents"
)

var stepNumbers = map[Step]float64{
	StepRelocationType:  0,
	StepPersonalDetails: 1,
	StepVisaCheck:       2,
	StepVisaResult:      2.5,
	StepPayment:         3,
	StepScheduleCall:    4,
	StepDocuments:       5,
}

// ParseStep validates a step name from external input.
func ParseStep(s string) (Step, error) {
	step := Step(s)
	if !step.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown step %q", s)
	}
	return step, nil
}

// StepFromNumber resolves a numeric step identifier as used by the wizard's
// step indicator (0, 1, 2, 2.5, 3, 4, 5).
func StepFromNumber(n float64) (Step, error) {
	for step, num := range stepNumbers {
		if num == n {
			return step, nil
		}
	}
	return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown step number %v", n)
}

func (s Step) IsValid() bool {
	_, ok := stepNumbers[s]
	return ok
}

func (s Step) String() string { return string(s) }

// Number returns the wizard's numeric identifier for the step. Navigation
// guards compare these numbers, so visa-result (2.5) is reachable whenever
// payment (3) is.
func (s Step) Number() float64 { return stepNumbers[s] }

// PersonalDetails is the payload of the personal-details step.
type PersonalDetails struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Country    string `json:"country"`
	Profession string `json:"profession,omitempty"`
}

// PaymentProvider names the payment processor that confirmed the payment.
type PaymentProvider string

const (
	ProviderPayPal  PaymentProvider = "paypal"
	ProviderTilopay PaymentProvider = "tilopay"
)

func (p PaymentProvider) IsValid() bool {
	return p == ProviderPayPal || p == ProviderTilopay
}

// PaymentDetails is the payload of the payment step. The gateway
// interaction happens client-side; the backend records the confirmation
// reference only.
type PaymentDetails struct {
	Provider  PaymentProvider `json:"provider"`
	Reference string          `json:"reference"`
	Plan      string          `json:"plan,omitempty"`
}

// CallDetails is the payload of the schedule-call step.
type CallDetails struct {
	ScheduledAt time.Time `json:"scheduledAt"`
	Timezone    string    `json:"timezone"`
	Notes       string    `json:"notes,omitempty"`
}

// Document is one uploaded-document descriptor. The bytes live in object
// storage; the state record tracks metadata only.
type Document struct {
	ID        id.DocumentID `json:"id"`
	Type      string        `json:"type"`
	ObjectKey string        `json:"objectKey"`
	SizeBytes int64         `json:"sizeBytes,omitempty"`
}

// State is the per-user onboarding record. It is created lazily on first
// access and mutated only through the service's submit operations.
type State struct {
	UserID         id.UserID         `json:"userId"`
	RelocationType id.RelocationType `json:"relocationType,omitempty"`
	CurrentStep    Step              `json:"currentStep"`
	// VisaQuestion is the cursor inside the visa-check step (0..8). Only
	// meaningful on the europe track while visa-check is in progress.
	VisaQuestion   int            `json:"visaQuestion"`
	CompletedSteps map[Step]bool  `json:"completedSteps"`

	PersonalDetails *PersonalDetails        `json:"personalDetails,omitempty"`
	VisaAnswers     *eligibility.AnswerSet  `json:"visaCheck,omitempty"`
	// Verdict and Score are written once when the ninth answer lands and
	// are never recomputed from the stored answers.
	Verdict *eligibility.Verdict `json:"verdict,omitempty"`
	Score   *int                 `json:"score,omitempty"`

	Payment   *PaymentDetails `json:"paymentDetails,omitempty"`
	Call      *CallDetails    `json:"callDetails,omitempty"`
	Documents []Document      `json:"documents,omitempty"`

	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewState returns a fresh record positioned at the relocation-type step.
func NewState(userID id.UserID, now time.Time) *State {
	return &State{
		UserID:         userID,
		CurrentStep:    StepRelocationType,
		CompletedSteps: make(map[Step]bool),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// MarkCompleted adds the step to the completed set. Repeated calls are
// no-ops; the set never holds duplicates.
func (s *State) MarkCompleted(step Step) {
	if s.CompletedSteps == nil {
		s.CompletedSteps = make(map[Step]bool)
	}
	s.CompletedSteps[step] = true
}

// IsCompleted reports whether the step has been confirmed.
func (s *State) IsCompleted(step Step) bool { return s.CompletedSteps[step] }

// Clone returns a deep copy so stores can hand out records without
// aliasing their internal state.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.CompletedSteps = make(map[Step]bool, len(s.CompletedSteps))
	for step, done := range s.CompletedSteps {
		out.CompletedSteps[step] = done
	}
	if s.PersonalDetails != nil {
		pd := *s.PersonalDetails
		out.PersonalDetails = &pd
	}
	if s.VisaAnswers != nil {
		answers := *s.VisaAnswers
		out.VisaAnswers = &answers
	}
	if s.Verdict != nil {
		verdict := *s.Verdict
		verdict.Reasons = append([]string(nil), s.Verdict.Reasons...)
		out.Verdict = &verdict
	}
	if s.Score != nil {
		score := *s.Score
		out.Score = &score
	}
	if s.Payment != nil {
		payment := *s.Payment
		out.Payment = &payment
	}
	if s.Call != nil {
		call := *s.Call
		out.Call = &call
	}
	out.Documents = append([]Document(nil), s.Documents...)
	return &out
}
