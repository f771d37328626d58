// Package metrics provides observability for the onboarding module.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics carries the onboarding funnel and eligibility counters. All
// methods are nil-safe so services can run without metrics in tests.
type Metrics struct {
	// Step completions by step and relocation track.
	StepCompleted *prometheus.CounterVec

	// Eligibility outcomes by decision ("eligible"/"ineligible").
	EligibilityOutcome *prometheus.CounterVec

	// Eligibility score distribution.
	EligibilityScore prometheus.Histogram

	// Validation failures by step.
	ValidationFailures *prometheus.CounterVec

	// Rejected forward-navigation attempts.
	NavigationRejected prometheus.Counter

	// Submit operation latency by step.
	SubmitLatency *prometheus.HistogramVec

	// Fully completed onboardings by track.
	OnboardingCompleted *prometheus.CounterVec
}

// New registers and returns the onboarding module metrics.
func New() *Metrics {
	return &Metrics{
		StepCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "relomate_onboarding_steps_completed_total",
			Help: "Total completed onboarding steps by step and track",
		}, []string{"step", "track"}),

		EligibilityOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "relomate_eligibility_outcomes_total",
			Help: "Total eligibility evaluations by decision",
		}, []string{"decision"}),

		EligibilityScore: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "relomate_eligibility_score",
			Help:    "Distribution of eligibility scores",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),

		ValidationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "relomate_onboarding_validation_failures_total",
			Help: "Total step submissions rejected by field validation",
		}, []string{"step"}),

		NavigationRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relomate_onboarding_navigation_rejected_total",
			Help: "Total forward-navigation attempts rejected",
		}),

		SubmitLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "relomate_onboarding_submit_duration_seconds",
			Help:    "Duration of step submit operations including persistence",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"step"}),

		OnboardingCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "relomate_onboarding_completed_total",
			Help: "Total onboardings reaching the terminal step by track",
		}, []string{"track"}),
	}
}

// IncrementStepCompleted records a confirmed step.
func (m *Metrics) IncrementStepCompleted(step, track string) {
	if m != nil {
		m.StepCompleted.WithLabelValues(step, track).Inc()
	}
}

// ObserveEligibility records an evaluation outcome and its score.
func (m *Metrics) ObserveEligibility(decision string, score int) {
	if m != nil {
		m.EligibilityOutcome.WithLabelValues(decision).Inc()
		m.EligibilityScore.Observe(float64(score))
	}
}

// IncrementValidationFailure records a rejected submission.
func (m *Metrics) IncrementValidationFailure(step string) {
	if m != nil {
		m.ValidationFailures.WithLabelValues(step).Inc()
	}
}

// IncrementNavigationRejected records a rejected forward jump.
func (m *Metrics) IncrementNavigationRejected() {
	if m != nil {
		m.NavigationRejected.Inc()
	}
}

// ObserveSubmitLatency records the duration of a submit operation.
func (m *Metrics) ObserveSubmitLatency(step string, d time.Duration) {
	if m != nil {
		m.SubmitLatency.WithLabelValues(step).Observe(d.Seconds())
	}
}

// IncrementCompleted records a terminal onboarding.
func (m *Metrics) IncrementCompleted(track string) {
	if m != nil {
		m.OnboardingCompleted.WithLabelValues(track).Inc()
	}
}
