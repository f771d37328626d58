package domain

import dErrors "relomate/pkg/domain-errors"

// RelocationType selects which onboarding track a customer follows.
// Invariant: the value must be one of the supported tracks. The Europe
// track includes the visa questionnaire; the GCC track skips it.
//
// Usage: construct via ParseRelocationType at trust boundaries to enforce
// the allowlist; direct casting bypasses validation.
type RelocationType string

const (
	RelocationEurope RelocationType = "europe"
	RelocationGCC    RelocationType = "gcc"
)

// validRelocationTypes is the single source of truth for valid tracks.
var validRelocationTypes = map[RelocationType]bool{
	RelocationEurope: true,
	RelocationGCC:    true,
}

// ParseRelocationType constructs a RelocationType from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseRelocationType(s string) (RelocationType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "relocation type cannot be empty")
	}
	t := RelocationType(s)
	if !t.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid relocation type")
	}
	return t, nil
}

// IsValid checks if the relocation type is one of the supported enum values.
func (t RelocationType) IsValid() bool {
	return validRelocationTypes[t]
}

// String returns the string representation of the relocation type.
func (t RelocationType) String() string {
	return string(t)
}
