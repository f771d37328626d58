package onboarding

import (
	id "relomate/pkg/domain"
	dErrors "relomate/pkg/domain-errors"
)

// Step sequences per relocation track. The machine is table-driven: every
// transition decision reads these slices, never ad-hoc conditionals. The
// gcc track has no visa requirement, so visa-check and visa-result are
// absent from its sequence entirely.
var trackSequences = map[id.RelocationType][]Step{
	id.RelocationEurope: {
		StepRelocationType,
		StepPersonalDetails,
		StepVisaCheck,
		StepVisaResult,
		StepPayment,
		StepScheduleCall,
		StepDocuments,
	},
	id.RelocationGCC: {
		StepRelocationType,
		StepPersonalDetails,
		StepPayment,
		StepScheduleCall,
		StepDocuments,
	},
}

// StepsFor returns the ordered step sequence for a track.
func StepsFor(track id.RelocationType) []Step {
	return append([]Step(nil), trackSequences[track]...)
}

// OnTrack reports whether the step belongs to the track's sequence.
func OnTrack(track id.RelocationType, step Step) bool {
	for _, s := range trackSequences[track] {
		if s == step {
			return true
		}
	}
	return false
}

// NextStep returns the step following the given one on the track.
// Documents is terminal; asking for its successor is an error.
func NextStep(track id.RelocationType, step Step) (Step, error) {
	seq := trackSequences[track]
	for i, s := range seq {
		if s != step {
			continue
		}
		if i == len(seq)-1 {
			return "", dErrors.Newf(dErrors.CodeInvariantViolation, "step %s is terminal", step)
		}
		return seq[i+1], nil
	}
	return "", dErrors.Newf(dErrors.CodeInvariantViolation, "step %s is not on the %s track", step, track)
}

// PrevStep returns the step preceding the given one on the track.
// Relocation-type is the first step and has no predecessor.
func PrevStep(track id.RelocationType, step Step) (Step, error) {
	seq := trackSequences[track]
	for i, s := range seq {
		if s != step {
			continue
		}
		if i == 0 {
			return "", dErrors.New(dErrors.CodeInvalidInput, "already at the first step")
		}
		return seq[i-1], nil
	}
	return "", dErrors.Newf(dErrors.CodeInvariantViolation, "step %s is not on the %s track", step, track)
}

// CanNavigateTo reports whether the user may jump directly to the target
// step. Jumps are allowed backwards and to the current step; any step
// numerically ahead of the current one is rejected. A target outside the
// chosen track (visa steps on gcc) is never navigable.
func (s *State) CanNavigateTo(target Step) bool {
	if !target.IsValid() {
		return false
	}
	if s.RelocationType.IsValid() && !OnTrack(s.RelocationType, target) {
		return false
	}
	return target.Number() <= s.CurrentStep.Number()
}
