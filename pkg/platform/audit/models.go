// Package audit defines the event model and ports for the onboarding audit
// trail. Domain services emit events through a Publisher; sinks (memory
// store, Kafka) fan them out without the services knowing the transport.
package audit

import (
	"time"

	id "relomate/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose, which
// drives retention and routing decisions downstream.
type EventCategory string

const (
	// CategoryCompliance covers events with contractual significance:
	// payment confirmations, document submissions, completion flags.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers events for debugging and funnel
	// visibility: step transitions, eligibility evaluations.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key onboarding actions.
// Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	UserID    id.UserID     `json:"user_id"`
	Action    string        `json:"action"`
	Step      string        `json:"step,omitempty"`
	Track     string        `json:"track,omitempty"`
	// Decision carries the eligibility outcome ("eligible"/"ineligible")
	// for evaluation events.
	Decision string `json:"decision,omitempty"`
	Detail   string `json:"detail,omitempty"`
	// ActorID tracks who performed the action when different from UserID,
	// e.g. an admin completing onboarding on a customer's behalf.
	ActorID    string `json:"actor_id,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
	DeviceName string `json:"device_name,omitempty"`
}

// AuditEvent names the actions emitted by the onboarding and pricing
// services.
type AuditEvent string

const (
	EventRelocationTypeSet      AuditEvent = "relocation_type_set"
	EventStepCompleted          AuditEvent = "onboarding_step_completed"
	EventEligibilityEvaluated   AuditEvent = "eligibility_evaluated"
	EventDocumentsSubmitted     AuditEvent = "documents_submitted"
	EventOnboardingCompleted    AuditEvent = "onboarding_completed"
	EventPricingOverrideSet     AuditEvent = "pricing_override_set"
	EventPricingOverrideRemoved AuditEvent = "pricing_override_removed"
)
