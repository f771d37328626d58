// Package domain holds shared domain value types: typed identifiers and
// the enumerations used across the onboarding flow.
//
// Typed IDs prevent cross-type assignment at compile time. Construct them
// via the Parse functions at trust boundaries; direct casting bypasses
// validation and is reserved for tests and store internals.
package domain

import (
	"github.com/google/uuid"

	dErrors "relomate/pkg/domain-errors"
)

// UserID identifies a portal customer.
type UserID uuid.UUID

// DocumentID identifies an uploaded document descriptor.
type DocumentID uuid.UUID

// ParseUserID constructs a UserID from external input.
// Invariant: IDs must be valid, non-empty, non-nil UUIDs.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user_id")
	return UserID(u), err
}

// ParseDocumentID constructs a DocumentID from external input.
func ParseDocumentID(s string) (DocumentID, error) {
	u, err := parseUUID(s, "document_id")
	return DocumentID(u), err
}

func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" cannot be the nil UUID")
	}
	return u, nil
}

// NewUserID generates a fresh user ID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewDocumentID generates a fresh document ID.
func NewDocumentID() DocumentID { return DocumentID(uuid.New()) }

func (id UserID) String() string { return uuid.UUID(id).String() }

// MarshalText encodes the ID as its canonical UUID string so JSON payloads
// stay readable in stores and on the wire.
func (id UserID) MarshalText() ([]byte, error) {
	return []byte(uuid.UUID(id).String()), nil
}

// UnmarshalText decodes a canonical UUID string.
func (id *UserID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = UserID(u)
	return nil
}

// IsNil reports whether the ID is the zero UUID.
func (id UserID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id DocumentID) String() string { return uuid.UUID(id).String() }

// MarshalText encodes the ID as its canonical UUID string.
func (id DocumentID) MarshalText() ([]byte, error) {
	return []byte(uuid.UUID(id).String()), nil
}

// UnmarshalText decodes a canonical UUID string.
func (id *DocumentID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = DocumentID(u)
	return nil
}

// IsNil reports whether the ID is the zero UUID.
func (id DocumentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
