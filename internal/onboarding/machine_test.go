package onboarding

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "relomate/pkg/domain"
	dErrors "relomate/pkg/domain-errors"
	"relomate/pkg/testutil"
)

func TestNextStep_EuropeSequence(t *testing.T) {
	tests := []struct {
		from Step
		want Step
	}{
		{StepRelocationType, StepPersonalDetails},
		{StepPersonalDetails, StepVisaCheck},
		{StepVisaCheck, StepVisaResult},
		{StepVisaResult, StepPayment},
		{StepPayment, StepScheduleCall},
		{StepScheduleCall, StepDocuments},
	}
	for _, tc := range tests {
		t.Run(string(tc.from), func(t *testing.T) {
			next, err := NextStep(id.RelocationEurope, tc.from)
			require.NoError(t, err)
			assert.Equal(t, tc.want, next)
		})
	}
}

func TestNextStep_GCCSkipsVisa(t *testing.T) {
	next, err := NextStep(id.RelocationGCC, StepPersonalDetails)
	require.NoError(t, err)
	assert.Equal(t, StepPayment, next, "gcc track goes straight from personal details to payment")

	for _, visaStep := range []Step{StepVisaCheck, StepVisaResult} {
		assert.False(t, OnTrack(id.RelocationGCC, visaStep))
		_, err := NextStep(id.RelocationGCC, visaStep)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	}
}

func TestNextStep_DocumentsIsTerminal(t *testing.T) {
	for _, track := range []id.RelocationType{id.RelocationEurope, id.RelocationGCC} {
		_, err := NextStep(track, StepDocuments)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	}
}

func TestPrevStep(t *testing.T) {
	prev, err := PrevStep(id.RelocationEurope, StepPayment)
	require.NoError(t, err)
	assert.Equal(t, StepVisaResult, prev)

	prev, err = PrevStep(id.RelocationGCC, StepPayment)
	require.NoError(t, err)
	assert.Equal(t, StepPersonalDetails, prev)

	_, err = PrevStep(id.RelocationEurope, StepRelocationType)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestCanNavigateTo(t *testing.T) {
	state := NewState(id.NewUserID(), time.Now())
	state.RelocationType = id.RelocationEurope
	state.CurrentStep = StepPayment

	assert.True(t, state.CanNavigateTo(StepRelocationType))
	assert.True(t, state.CanNavigateTo(StepPersonalDetails))
	assert.True(t, state.CanNavigateTo(StepVisaCheck))
	assert.True(t, state.CanNavigateTo(StepVisaResult), "visa-result (2.5) is behind payment (3)")
	assert.True(t, state.CanNavigateTo(StepPayment), "current step is always reachable")
	assert.False(t, state.CanNavigateTo(StepScheduleCall))
	assert.False(t, state.CanNavigateTo(StepDocuments))
}

func TestCanNavigateTo_OffTrackAndUnknown(t *testing.T) {
	state := NewState(id.NewUserID(), time.Now())
	state.RelocationType = id.RelocationGCC
	state.CurrentStep = StepScheduleCall

	assert.False(t, state.CanNavigateTo(StepVisaCheck), "visa steps are not on the gcc track")
	assert.False(t, state.CanNavigateTo(StepVisaResult))
	assert.True(t, state.CanNavigateTo(StepPayment))
	assert.False(t, state.CanNavigateTo(Step("review")))
}

func TestStepFromNumber(t *testing.T) {
	step, err := StepFromNumber(2.5)
	require.NoError(t, err)
	assert.Equal(t, StepVisaResult, step)

	step, err = StepFromNumber(0)
	require.NoError(t, err)
	assert.Equal(t, StepRelocationType, step)

	_, err = StepFromNumber(1.5)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestMarkCompleted_SetSemantics(t *testing.T) {
	state := NewState(id.NewUserID(), time.Now())
	state.MarkCompleted(StepPersonalDetails)
	state.MarkCompleted(StepPersonalDetails)
	assert.Len(t, state.CompletedSteps, 1)
	assert.True(t, state.IsCompleted(StepPersonalDetails))
	assert.False(t, state.IsCompleted(StepPayment))
}

func TestStepSequence_WalkEuropeTrack(t *testing.T) {
	state := NewState(id.NewUserID(), time.Now())
	state.RelocationType = id.RelocationEurope

	testutil.Given(t, "a user who just picked the europe track", func(t *testing.T) {
		assert.Equal(t, StepRelocationType, state.CurrentStep)
	})
	testutil.When(t, "they complete every step in order", func(t *testing.T) {
		for state.CurrentStep != StepDocuments {
			state.MarkCompleted(state.CurrentStep)
			next, err := NextStep(state.RelocationType, state.CurrentStep)
			require.NoError(t, err)
			state.CurrentStep = next
		}
	})
	testutil.Then(t, "every earlier step stays reachable and later ones do not", func(t *testing.T) {
		for _, step := range StepsFor(id.RelocationEurope) {
			assert.True(t, state.CanNavigateTo(step), "step %s", step)
		}
		state.CurrentStep = StepPayment
		assert.False(t, state.CanNavigateTo(StepDocuments))
	})
}

func TestClone_Isolation(t *testing.T) {
	state := NewState(id.NewUserID(), time.Now())
	state.RelocationType = id.RelocationEurope
	state.MarkCompleted(StepRelocationType)
	state.PersonalDetails = &PersonalDetails{FirstName: "Ada", Email: "ada@example.com"}
	state.Documents = []Document{{ID: id.NewDocumentID(), Type: "passport", ObjectKey: "docs/p.pdf"}}

	clone := state.Clone()
	clone.MarkCompleted(StepPersonalDetails)
	clone.PersonalDetails.FirstName = "Grace"
	clone.Documents[0].Type = "diploma"

	assert.False(t, state.IsCompleted(StepPersonalDetails))
	assert.Equal(t, "Ada", state.PersonalDetails.FirstName)
	assert.Equal(t, "passport", state.Documents[0].Type)
}
