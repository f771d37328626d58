package handler

import (
	"sort"

	"relomate/internal/onboarding"
)

// stateResponse is the wizard-facing view of the onboarding record. Step
// payloads the UI re-renders (personal details, documents) are included;
// internal bookkeeping is not.
type stateResponse struct {
	RelocationType    string                      `json:"relocationType,omitempty"`
	CurrentStep       string                      `json:"currentStep"`
	CurrentStepNumber float64                     `json:"currentStepNumber"`
	VisaQuestion      int                         `json:"visaQuestion"`
	CompletedSteps    []string                    `json:"completedSteps"`
	Eligibility       *eligibilityResponse        `json:"eligibility,omitempty"`
	PersonalDetails   *onboarding.PersonalDetails `json:"personalDetails,omitempty"`
	Documents         []onboarding.Document       `json:"documents,omitempty"`
	Completed         bool                        `json:"completed"`
}

type eligibilityResponse struct {
	Eligible       bool     `json:"eligible"`
	Reasons        []string `json:"reasons"`
	Recommendation string   `json:"recommendation"`
	Score          int      `json:"score"`
}

type canNavigateResponse struct {
	Step    string `json:"step"`
	Allowed bool   `json:"allowed"`
	Message string `json:"message,omitempty"`
}

func toStateResponse(state *onboarding.State) stateResponse {
	resp := stateResponse{
		RelocationType:    state.RelocationType.String(),
		CurrentStep:       state.CurrentStep.String(),
		CurrentStepNumber: state.CurrentStep.Number(),
		VisaQuestion:      state.VisaQuestion,
		CompletedSteps:    make([]string, 0, len(state.CompletedSteps)),
		PersonalDetails:   state.PersonalDetails,
		Documents:         state.Documents,
		Completed:         state.Completed,
	}
	for step := range state.CompletedSteps {
		resp.CompletedSteps = append(resp.CompletedSteps, step.String())
	}
	sort.Slice(resp.CompletedSteps, func(i, j int) bool {
		return onboarding.Step(resp.CompletedSteps[i]).Number() < onboarding.Step(resp.CompletedSteps[j]).Number()
	})
	if state.Verdict != nil {
		reasons := state.Verdict.Reasons
		if reasons == nil {
			reasons = []string{}
		}
		resp.Eligibility = &eligibilityResponse{
			Eligible:       state.Verdict.Eligible,
			Reasons:        reasons,
			Recommendation: state.Verdict.Recommendation,
		}
		if state.Score != nil {
			resp.Eligibility.Score = *state.Score
		}
	}
	return resp
}
